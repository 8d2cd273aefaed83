package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ademidov/authgate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// SignUp prompts for a username, email and password and creates a new
// account. A successful signup leaves the user signed in, same as Login.
// The password byte slice is wiped before returning.
func (a *App) SignUp(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.SignUp(ctx, username, email, string(password))
	if !res.OK {
		printlnFn(res.Err)
		return nil
	}

	printlnFn(fmt.Sprintf("Account created, signed in as %s", a.session.User().Username))
	return nil
}

// Login prompts for an email and password and authenticates. Failures are
// reported with the server's message; the session stays anonymous.
// The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.Login(ctx, email, string(password))
	if !res.OK {
		printlnFn(res.Err)
		return nil
	}

	printlnFn(fmt.Sprintf("Signed in as %s", a.session.User().Username))
	return nil
}

// Whoami prints the current user, as known by the session.
func (a *App) Whoami(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		printlnFn("Not signed in")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s> (id %s)", u.Username, u.Email, u.ID))
	return nil
}

// Logout discards the stored token and resets the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Signed out")
	return nil
}

// Health checks whether the server is reachable and reports the result.
func (a *App) Health(ctx context.Context) error {
	if err := a.api.Health(ctx); err != nil {
		printlnFn("Server unavailable")
		return err
	}
	printlnFn("Server is up")
	return nil
}
