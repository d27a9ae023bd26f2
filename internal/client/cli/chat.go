package cli

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/myumkm/myumkm/internal/client/models"
	"github.com/myumkm/myumkm/internal/client/services"
)

func (a *App) Users(ctx context.Context) {
	users, err := a.chatService.Users(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if len(users) == 0 {
		fmt.Println("No other users yet")
		return
	}
	for _, u := range users {
		fmt.Printf("%s  %s <%s>\n", u.ID, u.Name, u.Email)
	}
}

func (a *App) Chats(ctx context.Context) {
	convs, err := a.chatService.Conversations(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if len(convs) == 0 {
		fmt.Println("No conversations yet, start one with: chat <user-id>")
		return
	}

	selfID := a.selfID()
	for _, c := range convs {
		name := "(unknown)"
		if other := c.OtherParty(selfID); other != nil {
			name = fmt.Sprintf("%s (%s)", other.Name, other.ID)
		}
		last := ""
		if c.LastMessage != nil {
			last = c.LastMessage.Content
		}
		fmt.Printf("%s  %-30s %s\n", c.UpdatedAt.Local().Format("2006-01-02 15:04"), name, last)
	}
}

// Chat opens the thread with the given user and enters a send loop. An
// empty line leaves the thread; "/refresh" re-reads the log.
func (a *App) Chat(ctx context.Context, otherPartyID string) {
	thread, err := a.chatService.Open(ctx, otherPartyID)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	a.printThread(thread)

	for {
		fmt.Print("msg> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)

		switch line {
		case "":
			return
		case "/refresh":
			if err := a.chatService.Refresh(ctx, thread); err != nil {
				log.Printf("error: %v", err)
				continue
			}
		default:
			if err := a.chatService.Send(ctx, thread, line); err != nil {
				log.Printf("send failed: %v", err)
			}
		}
		a.printThread(thread)
	}
}

func (a *App) printThread(thread *services.Thread) {
	name := otherPartyName(thread)
	fmt.Printf("--- conversation with %s ---\n", name)

	selfID := a.selfID()
	for _, e := range thread.Entries() {
		author := name
		if e.Message.AuthorID == selfID {
			author = "you"
		}
		marker := ""
		if e.Pending() {
			marker = " (sending...)"
		}
		fmt.Printf("[%s] %s: %s%s\n", timestamp(&e), author, e.Message.Content, marker)
	}
}

func otherPartyName(thread *services.Thread) string {
	if thread.OtherParty != nil {
		return thread.OtherParty.Name
	}
	return "(unknown)"
}

func timestamp(e *models.ThreadEntry) string {
	if e.Pending() {
		return "--:--"
	}
	return e.Message.CreatedAt.Local().Format("15:04")
}
