// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, md or json",
		Value:   "text",
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write the rendered page to a file instead of stdout",
	}
}

func passwordStdinFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "password-stdin",
		Usage: "Read the password from the first line of stdin",
	}
}

// setupCommand handles first-run setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file with the default settings",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the session database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles the session lifecycle.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Log in, register and manage the stored session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					passwordStdinFlag(),
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Public username (3-50 letters, digits, _ or -)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					passwordStdinFlag(),
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show who is logged in",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "remote",
						Usage: "Confirm the session with the backend",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// pageCommand handles the user's page.
func pageCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "page",
		Usage: "View and edit your artist page",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show your page",
				Flags:  []cli.Flag{formatFlag(), outputFlag()},
				Action: r.PageShow,
			},
			{
				Name:                      "save",
				Usage:                     "Create or update your page; unset flags keep their current value",
				DisableSliceFlagSeparator: true,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "bio",
						Usage: "Biography, up to 1000 characters",
					},
					&cli.StringFlag{
						Name:  "profile-image",
						Usage: "Profile image URL",
					},
					&cli.StringFlag{
						Name:  "background-image",
						Usage: "Background image URL",
					},
					&cli.StringSliceFlag{
						Name:    "music",
						Aliases: []string{"m"},
						Usage:   "Music link to add (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "clear-music",
						Usage: "Remove existing music links before adding",
					},
				},
				Action: r.PageSave,
			},
			{
				Name:  "delete",
				Usage: "Delete your page",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.PageDelete,
			},
			{
				Name:      "public",
				Usage:     "Show the public page of one or more artists",
				ArgsUsage: "<username>...",
				Flags:     []cli.Flag{formatFlag()},
				Action:    r.PagePublic,
			},
			{
				Name:      "upload",
				Usage:     "Upload an image",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Image slot: profile, background or general",
						Value:   "general",
					},
					&cli.BoolFlag{
						Name:  "set",
						Usage: "Also set the uploaded image on your page (profile or background only)",
					},
				},
				Action: r.PageUpload,
			},
		},
	}
}

// validateCommand runs the local input checks without touching the backend.
func validateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check input the way the client does before sending it",
		Commands: []*cli.Command{
			{Name: "username", ArgsUsage: "<value>...", Usage: "Check usernames", Action: r.ValidateUsername},
			{Name: "email", ArgsUsage: "<value>...", Usage: "Check email addresses", Action: r.ValidateEmail},
			{Name: "password", ArgsUsage: "<value>...", Usage: "Check password strength", Action: r.ValidatePassword},
			{Name: "url", ArgsUsage: "<value>...", Usage: "Show how URLs are sanitized", Action: r.ValidateURL},
			{Name: "music", ArgsUsage: "<value>...", Usage: "Show which music links survive sanitizing", Action: r.ValidateMusic},
			{Name: "bio", ArgsUsage: "<text>", Usage: "Show a biography as it will be stored", Action: r.ValidateBio},
		},
	}
}

// apiCommand handles raw backend calls through the authenticated gateway.
func apiCommand(r *Runner) *cli.Command {
	pathArg := func() []cli.Argument { return []cli.Argument{&cli.StringArg{Name: "path"}} }
	dataFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "JSON body to send"}
	}
	anonymousFlag := func() cli.Flag {
		return &cli.BoolFlag{Name: "anonymous", Usage: "Send without credentials"}
	}

	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the backend, printing the raw response",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "GET a path",
				Arguments: pathArg(),
				Flags:     []cli.Flag{anonymousFlag()},
				Action:    r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "POST a JSON body",
				Arguments: pathArg(),
				Flags:     []cli.Flag{dataFlag(), anonymousFlag()},
				Action:    r.APIPost,
			},
			{
				Name:      "put",
				Usage:     "PUT a JSON body",
				Arguments: pathArg(),
				Flags:     []cli.Flag{dataFlag(), anonymousFlag()},
				Action:    r.APIPut,
			},
			{
				Name:      "delete",
				Usage:     "DELETE a path",
				Arguments: pathArg(),
				Flags:     []cli.Flag{anonymousFlag()},
				Action:    r.APIDelete,
			},
		},
	}
}
