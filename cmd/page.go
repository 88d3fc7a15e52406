package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/desertthunder/artistpage/internal/formatter"
	"github.com/desertthunder/artistpage/internal/models"
	"github.com/desertthunder/artistpage/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) username() string {
	if session := r.gateway.Session(); session != nil {
		return session.Identity().Username
	}
	return ""
}

// current fetches the page for editing. A missing page comes back empty.
//
// The stored biography is already escaped; it is unescaped so saving it again does not escape it twice.
func (r *Runner) current(ctx context.Context) (models.UserPage, error) {
	page, err := r.pages.Me(ctx)
	switch {
	case err == nil:
		edit := *page
		edit.Biography = html.UnescapeString(page.Biography)
		return edit, nil
	case errors.Is(err, shared.ErrPageNotFound):
		r.logger.Debug("no page yet, a new one will be created")
		return models.UserPage{}, nil
	default:
		return models.UserPage{}, err
	}
}

// render writes page in format, either to stdout or to the --output path.
func (r *Runner) render(format string, page *models.UserPage, username, output string) error {
	share := formatter.ShareURL(r.config.Backend.PublicURL, username)

	if output != "" {
		path, err := formatter.WriteExport(format, page, username, share, output)
		if err != nil {
			return err
		}
		return r.writeOK("Page written to %s", path)
	}

	data, err := formatter.Render(format, page, username, share)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// PageShow prints the logged-in user's page.
func (r *Runner) PageShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	page, err := r.pages.Me(ctx)
	if err != nil {
		return err
	}

	return r.render(cmd.String("format"), page, r.username(), cmd.String("output"))
}

// PageSave merges the given flags onto the current page and saves it, creating the page when needed.
func (r *Runner) PageSave(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	if !cmd.IsSet("bio") && !cmd.IsSet("profile-image") && !cmd.IsSet("background-image") &&
		!cmd.IsSet("music") && !cmd.Bool("clear-music") {
		return fmt.Errorf("%w: nothing to save; pass at least one of --bio, --profile-image, --background-image, --music or --clear-music", shared.ErrMissingArgument)
	}

	page, err := r.current(ctx)
	if err != nil {
		return err
	}

	if cmd.IsSet("bio") {
		page.Biography = cmd.String("bio")
	}
	if cmd.IsSet("profile-image") {
		page.ProfileImageURL = cmd.String("profile-image")
	}
	if cmd.IsSet("background-image") {
		page.BackgroundImageURL = cmd.String("background-image")
	}
	if cmd.Bool("clear-music") {
		page.MusicURLs = nil
	}
	page.MusicURLs = append(page.MusicURLs, cmd.StringSlice("music")...)

	saved, err := r.pages.Save(ctx, page)
	if err != nil {
		return err
	}

	return r.writeOK("Page saved: %d music link(s), biography %d characters",
		len(saved.MusicURLs), len([]rune(saved.Biography)))
}

// PageDelete removes the page after confirmation.
func (r *Runner) PageDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		ok, err := r.confirm("Delete your page? This cannot be undone.")
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlain("Aborted\n")
		}
	}

	if err := r.pages.Delete(ctx); err != nil {
		return err
	}
	return r.writeOK("Page deleted")
}

// PagePublic prints the public page of each username, pacing lookups with the configured rate limit.
//
// A failed lookup does not stop the others; all failures are returned together.
func (r *Runner) PagePublic(ctx context.Context, cmd *cli.Command) error {
	usernames := cmd.Args().Slice()
	if len(usernames) == 0 {
		return fmt.Errorf("%w: at least one username is required", shared.ErrMissingArgument)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	limiter := r.rateLimiter()
	format := cmd.String("format")

	var errs []error
	for i, username := range usernames {
		if err := limiter.Wait(ctx); err != nil {
			return errors.Join(append(errs, err)...)
		}

		page, err := r.pages.Public(ctx, username)
		if err != nil {
			r.logger.Warn("public page lookup failed", "username", username, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", username, err))
			continue
		}

		if i > 0 && len(usernames) > 1 {
			r.writePlain("\n")
		}
		if err := r.render(format, page, username, ""); err != nil {
			return err
		}
	}

	return errors.Join(errs...)
}

// PageUpload uploads an image and prints its URL. With --set, the URL becomes the page's profile or background image.
func (r *Runner) PageUpload(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("%w: file path is required", shared.ErrMissingArgument)
	}

	kind := models.ImageKind(cmd.String("type"))
	if cmd.Bool("set") && kind != models.ImageProfile && kind != models.ImageBackground {
		return fmt.Errorf("%w: --set needs --type profile or --type background", shared.ErrInvalidArgument)
	}

	if err := r.requireSession(ctx); err != nil {
		return err
	}

	path := cmd.Args().First()
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat image: %w", err)
	}

	url, err := r.pages.UploadImage(ctx, filepath.Base(path), file, info.Size(), kind)
	if err != nil {
		return err
	}
	if err := r.writeOK("Uploaded %s", url); err != nil {
		return err
	}

	if !cmd.Bool("set") {
		return nil
	}

	page, err := r.current(ctx)
	if err != nil {
		return err
	}

	if kind == models.ImageProfile {
		page.ProfileImageURL = url
	} else {
		page.BackgroundImageURL = url
	}

	if _, err := r.pages.Save(ctx, page); err != nil {
		return err
	}
	return r.writeOK("Set as %s image", kind)
}

