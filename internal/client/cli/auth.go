package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gestor/internal/client/models"
	"github.com/dmitrijs2005/gestor/internal/client/services"
	"github.com/dmitrijs2005/gestor/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and a confirmed password and creates the
// account. Both password buffers are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.out, "Confirm password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	user, err := a.session.Signup(ctx, models.SignupForm{
		Name:            name,
		Email:           email,
		Password:        string(password),
		ConfirmPassword: string(confirm),
	})
	if err != nil {
		var se *services.SignupError
		switch {
		case errors.As(err, &se) && se.Code == services.SignupCodeDuplicateEmail:
			fmt.Fprintln(a.out, "This email is already registered")
		case errors.As(err, &se) && se.Code == services.SignupCodePasswordMismatch:
			fmt.Fprintln(a.out, "Passwords do not match")
		default:
			a.log.Error(ctx, "registration failed", "err", err)
			fmt.Fprintln(a.out, "Registration failed, try again later")
		}
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Name)
	return nil
}

// Login prompts for credentials and signs in. The password is wiped before
// returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.session.Signin(ctx, models.Credentials{Email: email, Password: string(password)})
	if err != nil {
		a.log.Info(ctx, "login unsuccessful", "err", err)
		fmt.Fprintln(a.out, "Login unsuccessful")
		return err
	}

	fmt.Fprintf(a.out, "Login successful, welcome %s\n", user.Name)
	if n := len(a.session.Snapshot().PendingGuestInvitations); n > 0 {
		fmt.Fprintf(a.out, "You have %d pending invitation(s)\n", n)
	}
	return nil
}

// Logout ends the session locally and on the backend.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
