package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if s := a.store.Session(); s.Authenticated() {
		return fmt.Sprintf("(%s)", s.User.Name)
	}
	return ""
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to the my-umkm chat CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("umkm %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: users, chats, chat <user-id>, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "users":
			a.Users(ctx)
		case "chats":
			a.Chats(ctx)
		case "chat":
			if len(args) == 0 {
				fmt.Println("Usage: chat <user-id>")
				continue
			}
			a.Chat(ctx, args[0])
		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
