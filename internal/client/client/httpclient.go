package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/myumkm/myumkm/internal/client/models"
	"github.com/myumkm/myumkm/internal/common"
)

// HTTPClient talks to the backend over HTTP. Its cookie jar is the
// browser-analog credential channel: the server mirrors the token into a
// cookie on login, and the jar carries it back automatically. The session
// layer reads and writes the jar through the TokenCookie/SetTokenCookie
// accessors.
type HTTPClient struct {
	baseURL *url.URL
	jar     *cookiejar.Jar
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(endpoint string, timeout time.Duration) (*HTTPClient, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid server endpoint %q: %w", endpoint, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: base,
		jar:     jar,
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// TokenCookie returns the token currently held in the cookie jar, or "".
func (c *HTTPClient) TokenCookie() string {
	for _, cookie := range c.jar.Cookies(c.baseURL) {
		if cookie.Name == common.TokenCookieName {
			return cookie.Value
		}
	}
	return ""
}

// SetTokenCookie writes the token into the cookie jar; an empty token
// expires the cookie.
func (c *HTTPClient) SetTokenCookie(token string) {
	cookie := &http.Cookie{
		Name:  common.TokenCookieName,
		Value: token,
		Path:  "/",
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	c.jar.SetCookies(c.baseURL, []*http.Cookie{cookie})
}

type apiError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// do performs a JSON request. A non-empty token rides in the
// Authorization header; the jar adds whatever cookies it holds. Error
// statuses map onto the package sentinels with the server's message
// attached.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return err
	}
	u := c.baseURL.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) mapError(resp *http.Response) error {
	var body apiError
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = ErrValidation
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		sentinel = ErrUnavailable
	default:
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	in := map[string]string{"name": name, "email": email, "password": password}
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	in := map[string]string{"email": email, "password": password}
	var out struct {
		Success bool        `json:"success"`
		Token   string      `json:"token"`
		User    models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", in, &out); err != nil {
		return nil, err
	}
	return &LoginResult{Token: out.Token, User: out.User}, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", "", nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Users(ctx context.Context, token string) ([]models.User, error) {
	var out struct {
		Users []models.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *HTTPClient) ResolveConversation(ctx context.Context, token, otherPartyID string) (*models.Conversation, error) {
	in := map[string]string{"otherPartyId": otherPartyID}
	var out struct {
		Conversation models.Conversation `json:"conversation"`
	}
	if err := c.do(ctx, http.MethodPost, "/conversations", token, in, &out); err != nil {
		return nil, err
	}
	return &out.Conversation, nil
}

func (c *HTTPClient) Conversations(ctx context.Context, token string) ([]models.Conversation, error) {
	var out struct {
		Conversations []models.Conversation `json:"conversations"`
	}
	if err := c.do(ctx, http.MethodGet, "/conversations", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

func (c *HTTPClient) Messages(ctx context.Context, token, conversationID string) ([]models.Message, error) {
	var out struct {
		Messages []models.Message `json:"messages"`
	}
	path := "/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, token, conversationID, content string) (*models.Message, error) {
	in := map[string]string{"content": strings.TrimSpace(content)}
	var out struct {
		Message models.Message `json:"message"`
	}
	path := "/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.do(ctx, http.MethodPost, path, token, in, &out); err != nil {
		return nil, err
	}
	return &out.Message, nil
}
