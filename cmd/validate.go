package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/artistpage/internal/shared"
	"github.com/desertthunder/artistpage/internal/ui"
	"github.com/desertthunder/artistpage/internal/validation"
	"github.com/urfave/cli/v3"
)

func values(cmd *cli.Command) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: at least one value is required", shared.ErrMissingArgument)
	}
	return args, nil
}

// report prints one check line per value plus its messages, and fails when any value failed.
func (r *Runner) report(name string, value string, pass bool, messages []string) error {
	if err := r.writePlain("%s %s\n", ui.Styles.Check(name, pass), value); err != nil {
		return err
	}
	for _, msg := range messages {
		if err := r.writePlain("    %s\n", ui.Styles.Err(msg)); err != nil {
			return err
		}
	}
	return nil
}

func invalid(failed int, what string) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d %s(s) rejected", shared.ErrValidation, failed, what)
}

// ValidateUsername checks each argument against the username rules.
func (r *Runner) ValidateUsername(ctx context.Context, cmd *cli.Command) error {
	args, err := values(cmd)
	if err != nil {
		return err
	}

	failed := 0
	for _, arg := range args {
		result := validation.ValidateUsername(arg)
		if !result.Valid {
			failed++
		}
		if err := r.report("username", arg, result.Valid, result.Errors); err != nil {
			return err
		}
	}
	return invalid(failed, "username")
}

// ValidateEmail checks each argument's email shape.
func (r *Runner) ValidateEmail(ctx context.Context, cmd *cli.Command) error {
	args, err := values(cmd)
	if err != nil {
		return err
	}

	failed := 0
	for _, arg := range args {
		ok := validation.ValidateEmail(arg)
		var messages []string
		if !ok {
			failed++
			messages = append(messages, "email address is invalid")
		}
		if err := r.report("email", arg, ok, messages); err != nil {
			return err
		}
	}
	return invalid(failed, "email")
}

// ValidatePassword grades each argument. The password itself is masked in the output.
func (r *Runner) ValidatePassword(ctx context.Context, cmd *cli.Command) error {
	args, err := values(cmd)
	if err != nil {
		return err
	}

	failed := 0
	for _, arg := range args {
		result := validation.ValidatePasswordStrength(arg)
		if !result.Valid {
			failed++
		}
		masked := strings.Repeat("*", len([]rune(arg)))
		label := fmt.Sprintf("%s (%s)", masked, result.Strength)
		if err := r.report("password", label, result.Valid, result.Errors); err != nil {
			return err
		}
	}
	return invalid(failed, "password")
}

// ValidateURL prints each argument as it will be sent, or marks it rejected.
func (r *Runner) ValidateURL(ctx context.Context, cmd *cli.Command) error {
	args, err := values(cmd)
	if err != nil {
		return err
	}

	failed := 0
	for _, arg := range args {
		clean := validation.SanitizeURL(arg)
		if clean == "" {
			failed++
			if err := r.report("url", arg, false, []string{"blocked or empty URL"}); err != nil {
				return err
			}
			continue
		}
		if err := r.report("url", clean, true, nil); err != nil {
			return err
		}
	}
	return invalid(failed, "URL")
}

// ValidateMusic prints the music links that survive sanitizing, in order.
func (r *Runner) ValidateMusic(ctx context.Context, cmd *cli.Command) error {
	args, err := values(cmd)
	if err != nil {
		return err
	}

	kept := validation.SanitizeMusicURLs(args)
	for _, u := range kept {
		if err := r.writePlain("%s\n", u); err != nil {
			return err
		}
	}

	if dropped := len(args) - len(kept); dropped > 0 {
		return r.writePlain("%s\n", ui.Styles.Warn(fmt.Sprintf("%d link(s) dropped", dropped)))
	}
	return nil
}

// ValidateBio prints the biography as it will be stored.
func (r *Runner) ValidateBio(ctx context.Context, cmd *cli.Command) error {
	args, err := values(cmd)
	if err != nil {
		return err
	}

	bio := validation.SanitizeBiography(strings.Join(args, " "))
	if err := r.writePlain("%s\n", bio); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Styles.Help(fmt.Sprintf("%d characters", len([]rune(bio)))))
}
