package cli

import (
	"context"
	"log"
	"os"

	"github.com/myumkm/myumkm/internal/common"
)

func (a *App) Register(ctx context.Context) {

	name, err := GetSimpleText(a.reader, "Enter your name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Register(ctx, name, email, string(password))
	if err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return
	}

	log.Printf("Registered as %s (%s), please log in", user.Name, user.Email)
}

func (a *App) Login(ctx context.Context) {

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	defer common.WipeByteArray(password)

	session, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return
	}

	log.Printf("Login successful, hello %s", session.User.Name)
}

func (a *App) Logout(ctx context.Context) {
	if err := a.authService.Logout(ctx); err != nil {
		log.Printf("Logout error: %s", err.Error())
		return
	}
	log.Println("Logged out")
}
