package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/farmstand/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Keys of the one-shot local storage records.
const (
	loginSuccessKey = "loginSuccess"
	userProfilePref = "userProfile_"
	msgLoginBanner  = "Login successful!"
	msgSignUpBanner = "Account created! Welcome!"
)

// SignUp collects email, password and confirmation, validates them
// client-side, and creates the account via the session provider. Invalid
// input blocks submission with the corresponding message and no network call
// is made. On success the one-shot welcome banner is stored and the home view
// is rendered.
func (a *App) SignUp(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	confirmation, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}

	if msg := validateSignUp(email, password, confirmation); msg != "" {
		printlnFn(msg)
		return nil
	}

	if err := a.session.SignUp(ctx, email, password); err != nil {
		printlnFn("Failed to Create account!!!")
		a.log.Warn(ctx, "sign-up failed", "err", err)
		return nil
	}

	a.setBanner(ctx, msgSignUpBanner)
	return a.Home(ctx)
}

// Login authenticates with email and password. Provider failures are shown
// inline; the user stays on the form.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.SignIn(ctx, email, password); err != nil {
		printlnFn("Invalid email or password")
		a.log.Warn(ctx, "sign-in failed", "err", err)
		return nil
	}

	a.setBanner(ctx, msgLoginBanner)
	return a.Home(ctx)
}

// LoginWithGoogle runs the federated sign-in flow. The connect phase renders
// its own progress line, separate from the password form: the provider's
// consent page opens in the browser and the one-time code it displays is
// entered here to finish the exchange.
func (a *App) LoginWithGoogle(ctx context.Context) error {
	printlnFn("Connecting to Google...")

	target := a.session.AuthorizeURL(session.GoogleProviderID)
	if err := openURL(target); err != nil {
		printlnFn("Open this URL in your browser: " + target)
	}

	code, err := getSimpleText(a.reader, "Enter the code shown in your browser", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.SignInWithProvider(ctx, session.GoogleProviderID, code); err != nil {
		printlnFn("Failed to sign in with Google")
		a.log.Warn(ctx, "google sign-in failed", "err", err)
		return nil
	}

	a.setBanner(ctx, msgLoginBanner)
	return a.Home(ctx)
}

// Logout resets the session to absent.
func (a *App) Logout(ctx context.Context) error {
	a.session.SignOut()
	printlnFn("Signed out.")
	return nil
}

// setBanner stores the one-shot success banner. Failing to store it is not
// worth failing the sign-in over.
func (a *App) setBanner(ctx context.Context, msg string) {
	if err := a.store.Set(ctx, loginSuccessKey, msg); err != nil {
		a.log.Warn(ctx, "storing banner failed", "err", err)
	}
}

// Home renders the landing view: the one-shot banner (consumed and cleared on
// first render after sign-in) and a greeting.
func (a *App) Home(ctx context.Context) error {
	if banner, found, err := a.store.Take(ctx, loginSuccessKey); err != nil {
		a.log.Warn(ctx, "reading banner failed", "err", err)
	} else if found {
		printlnFn(banner)
	}

	if s := a.session.Current(); s != nil {
		name := s.DisplayName
		if name == "" {
			name = s.Email
		}
		printlnFn(fmt.Sprintf("Welcome back, %s!", name))
	} else {
		printlnFn("Welcome to farmstand. Type 'login' or 'signup' to get started.")
	}
	return nil
}
