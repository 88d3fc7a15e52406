package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/artistpage/internal/ui"
	"github.com/urfave/cli/v3"
)

// AuthLogin logs in and stores the resulting session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	password, err := r.password(cmd.Bool("password-stdin"), false)
	if err != nil {
		return err
	}

	identity, err := r.gateway.Login(ctx, cmd.String("email"), password)
	if err != nil {
		return err
	}

	return r.writeOK("Logged in as %s (%s)", identity.Username, identity.Email)
}

// AuthRegister creates an account, which also logs the new user in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	password, err := r.password(cmd.Bool("password-stdin"), true)
	if err != nil {
		return err
	}

	identity, err := r.gateway.Register(ctx, cmd.String("username"), cmd.String("email"), password)
	if err != nil {
		return err
	}

	return r.writeOK("Registered and logged in as %s (%s)", identity.Username, identity.Email)
}

// AuthLogout forgets the stored session. Logging out twice is not an error.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	wasLoggedIn := r.gateway.IsAuthenticated()
	if err := r.gateway.Logout(ctx); err != nil {
		return err
	}

	if !wasLoggedIn {
		return r.writePlain("%s\n", ui.Styles.Help("Not logged in"))
	}
	return r.writeOK("Logged out")
}

// AuthStatus prints the stored session, and with --remote confirms it against /auth/me.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	session := r.gateway.Session()
	if session == nil {
		return r.writePlain("%s\n", ui.Styles.Warn("Not logged in"))
	}

	identity := session.Identity()
	r.writePlainHeader("Session")
	if err := r.writePlain("User:    %s\nEmail:   %s\nScheme:  %s\nSince:   %s\n",
		identity.Username, identity.Email, session.Scheme(),
		session.CreatedAt().Format("2006-01-02 15:04:05")); err != nil {
		return err
	}

	if !cmd.Bool("remote") {
		return nil
	}

	remote, err := r.gateway.Verify(ctx)
	if err != nil {
		return fmt.Errorf("session check failed: %w", err)
	}
	return r.writeOK("Backend confirms %s", remote.Username)
}
