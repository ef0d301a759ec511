package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/journalkeeper/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Register prompts for a username and password and creates a new account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.users.Register(ctx, userName, string(password), nowFn()); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Success! You can now log in.")
	return nil
}

// Login prompts for credentials, verifies them and keeps the derived
// encryption key in memory for the session.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	auth, token, err := a.users.Login(ctx, userName, string(password))
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	a.auth = auth
	a.token = token
	fmt.Println("Logged in.")
	return nil
}

// Logout drops the in-memory key and session token.
func (a *App) Logout(ctx context.Context) error {
	a.auth = nil
	a.token = ""
	fmt.Println("Logged out.")
	return nil
}

// ChangePassword rotates the account password and re-encrypts all stored
// data under the new key.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Log in first.")
		return nil
	}

	oldPassword, err := getPassword("Enter current password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := getPassword("Enter new password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	auth, err := a.users.ChangePassword(ctx, a.auth, string(oldPassword), string(newPassword), nowFn())
	if err != nil {
		log.Printf("Password change unsuccessful: %s", err.Error())
		return err
	}

	a.auth = auth
	fmt.Println("Password changed.")
	return nil
}

// Purge deletes the account with everything in it after an explicit
// confirmation, then logs out.
func (a *App) Purge(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Log in first.")
		return nil
	}

	answer, err := getSimpleText(a.reader, "This deletes the account and ALL data. Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	if err := a.users.Purge(ctx, a.auth); err != nil {
		log.Printf("Purge unsuccessful: %s", err.Error())
		return err
	}

	a.auth = nil
	a.token = ""
	fmt.Println("Account deleted.")
	return nil
}
