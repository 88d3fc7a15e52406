package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/artistpage/internal/repositories"
	"github.com/desertthunder/artistpage/internal/services"
	"github.com/desertthunder/artistpage/internal/shared"
	"github.com/desertthunder/artistpage/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The gateway and page service are built on first use, so commands that never talk to the backend
// (validate, setup) do not open the session database.
type Runner struct {
	config     *shared.Config
	configPath string
	missing    bool
	gateway    *services.Gateway
	pages      *services.PageService
	store      services.SessionStore
	db         *sql.DB
	limiter    *rate.Limiter
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Gateway    *services.Gateway
	Pages      *services.PageService
	Store      services.SessionStore
	Limiter    *rate.Limiter
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		gateway:    opts.Gateway,
		pages:      opts.Pages,
		store:      opts.Store,
		limiter:    opts.Limiter,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "artistpage",
		Usage:   "Manage your artist page from the terminal",
		Version: "0.1.0",
		Writer:  r.output,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		DisableSliceFlagSeparator: true,
		Before:   r.configure,
		After:    r.close,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, pageCommand, validateCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure loads the config file named by --config, or the default path when it exists,
// and applies the log level.
//
// A --config path that does not exist only fails commands that connect to the backend,
// so `setup config --config path` can create it.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path == "" {
		path = r.configPath
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
			}
			r.config = config
			r.logger.Debug("loaded config", "path", path)
		} else if cmd.IsSet("config") {
			r.missing = true
		}
		r.configPath = path
	}

	level := r.config.LogLevel()
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	return ctx, nil
}

// connect builds the session store, gateway and page service, and restores any stored session.
func (r *Runner) connect(ctx context.Context) error {
	if r.gateway != nil {
		if r.pages == nil {
			r.pages = services.NewPageService(r.gateway, r.config.Upload.MaxBytes, r.logger)
		}
		return nil
	}

	if r.missing {
		return fmt.Errorf("%w: %s", shared.ErrMissingConfig, r.configPath)
	}
	if err := r.config.Validate(); err != nil {
		return err
	}

	if r.store == nil {
		db, err := shared.OpenSessionDatabase(ctx, r.config.Database)
		if err != nil {
			return fmt.Errorf("failed to open session database: %w", err)
		}
		r.db = db
		r.store = repositories.NewSessionRepository(db)
	}

	scheme, err := services.NewCredentialScheme(r.config.Auth.Scheme)
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "component", "gateway")
	gateway, err := services.NewGateway(services.GatewayOpts{
		BaseURL:    r.config.Backend.BaseURL,
		HTTPClient: services.NewHTTPClient(r.config.Backend.Timeout()),
		Store:      r.store,
		Scheme:     scheme,
		Logger:     logger,
		OnUnauthorized: func() {
			r.logger.Warn("your session has ended; run 'artistpage auth login' to sign in again")
		},
	})
	if err != nil {
		return err
	}

	if _, err := gateway.Restore(ctx); err != nil {
		return err
	}

	r.gateway = gateway
	r.pages = services.NewPageService(gateway, r.config.Upload.MaxBytes, r.logger)
	return nil
}

// requireSession connects and fails fast when nobody is logged in.
func (r *Runner) requireSession(ctx context.Context) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	if !r.gateway.IsAuthenticated() {
		return fmt.Errorf("%w: run 'artistpage auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}

func (r *Runner) rateLimiter() *rate.Limiter {
	if r.limiter == nil {
		r.limiter = rate.NewLimiter(rate.Limit(r.config.Public.RequestsPerSecond), r.config.Public.Burst)
	}
	return r.limiter
}

func (r *Runner) close(context.Context, *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeOK(format string, args ...any) error {
	return r.writePlain("%s %s\n", ui.Styles.OK("✓"), fmt.Sprintf(format, args...))
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", ui.Styles.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
