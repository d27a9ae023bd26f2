package conversations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/myumkm/myumkm/internal/common"
	"github.com/myumkm/myumkm/internal/dbx"
	"github.com/myumkm/myumkm/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const conversationColumns = `c.id, c.user_a, c.user_b, c.created_at, c.updated_at,
	       ua.id, ua.name, ua.email, ua.created_at, ua.updated_at,
	       ub.id, ub.name, ub.email, ub.created_at, ub.updated_at`

func scanConversation(row interface {
	Scan(dest ...any) error
}) (*models.Conversation, error) {
	conv := &models.Conversation{}
	var a, b models.PublicUser

	err := row.Scan(
		&conv.ID, &conv.UserA, &conv.UserB, &conv.CreatedAt, &conv.UpdatedAt,
		&a.ID, &a.Name, &a.Email, &a.CreatedAt, &a.UpdatedAt,
		&b.ID, &b.Name, &b.Email, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	conv.Participants = []models.PublicUser{a, b}
	return conv, nil
}

func getByPair(ctx context.Context, db dbx.DBTX, userA, userB string) (*models.Conversation, error) {
	query := `SELECT ` + conversationColumns + `
		 FROM conversations c
		 JOIN users ua ON ua.id = c.user_a
		 JOIN users ub ON ub.id = c.user_b
		 WHERE c.user_a = $1 AND c.user_b = $2
		 `

	conv, err := scanConversation(db.QueryRowContext(ctx, query, userA, userB))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return conv, nil
}

func (r *PostgresRepository) GetByPair(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	return getByPair(ctx, r.db, userA, userB)
}

// CreateIfAbsent relies on the unique constraint over the canonical pair:
// concurrent inserts for the same pair leave exactly one row. The insert
// and the re-read run in one transaction, so the returned row is the
// survivor whichever writer won.
func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	query :=
		`INSERT INTO conversations (id, user_a, user_b)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_a, user_b) DO NOTHING
		 `

	var stored *models.Conversation
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, query, conv.ID, conv.UserA, conv.UserB); err != nil {
			return fmt.Errorf("error performing sql request: %w", err)
		}

		got, err := getByPair(ctx, tx, conv.UserA, conv.UserB)
		if err != nil {
			return err
		}
		stored = got
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (r *PostgresRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Conversation, error) {
	query := `SELECT ` + conversationColumns + `
		 FROM conversations c
		 JOIN users ua ON ua.id = c.user_a
		 JOIN users ub ON ub.id = c.user_b
		 WHERE c.id = $1 AND (c.user_a = $2 OR c.user_b = $2)
		 `

	conv, err := scanConversation(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return conv, nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := `SELECT ` + conversationColumns + `,
	       m.id, m.author_id, m.content, m.created_at
		 FROM conversations c
		 JOIN users ua ON ua.id = c.user_a
		 JOIN users ub ON ub.id = c.user_b
		 LEFT JOIN LATERAL (
		     SELECT id, author_id, content, created_at
		     FROM messages
		     WHERE conversation_id = c.id
		     ORDER BY created_at DESC, id DESC
		     LIMIT 1
		 ) m ON true
		 WHERE c.user_a = $1 OR c.user_b = $1
		 ORDER BY c.updated_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []models.Conversation
	for rows.Next() {
		conv := models.Conversation{}
		var a, b models.PublicUser
		var msgID, msgAuthor, msgContent sql.NullString
		var msgCreatedAt sql.NullTime

		err := rows.Scan(
			&conv.ID, &conv.UserA, &conv.UserB, &conv.CreatedAt, &conv.UpdatedAt,
			&a.ID, &a.Name, &a.Email, &a.CreatedAt, &a.UpdatedAt,
			&b.ID, &b.Name, &b.Email, &b.CreatedAt, &b.UpdatedAt,
			&msgID, &msgAuthor, &msgContent, &msgCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}

		conv.Participants = []models.PublicUser{a, b}
		if msgID.Valid {
			conv.LastMessage = &models.Message{
				ID:             msgID.String,
				ConversationID: conv.ID,
				AuthorID:       msgAuthor.String,
				Content:        msgContent.String,
				CreatedAt:      msgCreatedAt.Time,
			}
		}

		result = append(result, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	return result, nil
}
