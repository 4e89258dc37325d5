// Package cli implements the movie-review command-line client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/movie_review_app/internal/client/api"
	"github.com/SscSPs/movie_review_app/internal/client/config"
	"github.com/SscSPs/movie_review_app/internal/client/guard"
	"github.com/SscSPs/movie_review_app/internal/client/session"
	"github.com/SscSPs/movie_review_app/internal/dto"
)

// ErrUsage is returned for unknown commands or bad arguments.
var ErrUsage = errors.New("usage error")

const usage = `Usage: movie-review <command> [arguments]

Commands:
  register [-email E] [-name N]   create an account and sign in
  login [-email E]                sign in with email and password
  google <credential>             sign in with a Google ID token
  google -code <code>             sign in with a Google authorization code
  logout                          forget the stored token
  whoami                          show the signed-in account
  open <path>                     show what the app would display for path
  watch                           print session changes made by other instances
`

// App wires the session store, route guard and API client behind the CLI commands.
type App struct {
	store  *session.Store
	guard  *guard.Guard
	client *api.Client
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
}

// NewApp builds an App over storage and initializes the session from it.
func NewApp(cfg *config.Config, storage session.Storage, in io.Reader, out io.Writer, logger *slog.Logger) (*App, error) {
	store := session.NewStore(storage, logger)
	if err := store.Init(); err != nil {
		logger.Warn("Could not read stored session, continuing signed out", slog.String("error", err.Error()))
	}

	client, err := api.New(cfg.APIURL, store, api.WithTimeout(cfg.HTTPTimeout))
	if err != nil {
		return nil, err
	}

	return &App{
		store:  store,
		guard:  guard.New(store),
		client: client,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
	}, nil
}

// Close stops any running session watcher.
func (a *App) Close() {
	a.store.Close()
}

// Run executes one command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "google":
		return a.google(ctx, rest)
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami(ctx)
	case "open":
		return a.open(rest)
	case "watch":
		return a.watch(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.out, "Unknown command %q\n\n%s", cmd, usage)
		return ErrUsage
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	var err error
	if *email == "" {
		if *email, err = promptLine(a.in, a.out, "Email"); err != nil {
			return err
		}
	}
	if *name == "" {
		if *name, err = promptLine(a.in, a.out, "Display name"); err != nil {
			return err
		}
	}
	password, err := promptPassword(a.out)
	if err != nil {
		return err
	}

	resp, err := a.client.Register(ctx, *email, *name, password)
	if err != nil {
		return err
	}
	a.logger.Info("Registered", slog.String("user_id", resp.User.ID))
	fmt.Fprintf(a.out, "Welcome, %s! You are signed in as %s.\n", resp.User.Username, resp.User.Email)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	var err error
	if *email == "" {
		if *email, err = promptLine(a.in, a.out, "Email"); err != nil {
			return err
		}
	}
	password, err := promptPassword(a.out)
	if err != nil {
		return err
	}

	resp, err := a.client.Login(ctx, *email, password)
	if err != nil {
		return err
	}
	a.logger.Info("Logged in", slog.String("user_id", resp.User.ID))
	fmt.Fprintf(a.out, "Signed in as %s.\n", resp.User.Email)
	return nil
}

func (a *App) google(ctx context.Context, args []string) error {
	fs := a.flagSet("google")
	code := fs.String("code", "", "Google authorization code")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	var (
		resp *dto.AuthResponse
		err  error
	)
	switch {
	case *code != "":
		resp, err = a.client.ExchangeCode(ctx, *code)
	case fs.NArg() == 1:
		resp, err = a.client.GoogleLogin(ctx, fs.Arg(0))
	default:
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}
	if err != nil {
		return err
	}
	a.logger.Info("Logged in with Google", slog.String("user_id", resp.User.ID))
	fmt.Fprintf(a.out, "Signed in with Google as %s.\n", resp.User.Email)
	return nil
}

func (a *App) logout() error {
	a.store.Logout()
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s>\nid: %s\nmember since: %s\n",
		user.Username, user.Email, user.ID, user.CreatedAt.Format(time.DateOnly))
	if user.ProfilePicture != "" {
		fmt.Fprintf(a.out, "picture: %s\n", user.ProfilePicture)
	}
	return nil
}

func (a *App) open(args []string) error {
	if len(args) != 1 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}
	d := a.guard.Resolve(args[0])
	switch d.Action {
	case guard.ActionRedirect:
		fmt.Fprintf(a.out, "redirect %s\n", d.Location)
	case guard.ActionRender:
		fmt.Fprintf(a.out, "render %s\n", d.Location)
	default:
		fmt.Fprintln(a.out, "loading")
	}
	return nil
}

// watch prints every session change until ctx is cancelled.
func (a *App) watch(ctx context.Context) error {
	fmt.Fprintf(a.out, "session %s, watching for changes (Ctrl+C to stop)\n", a.store.State())
	unsubscribe := a.store.Subscribe(func(s session.State) {
		fmt.Fprintf(a.out, "session %s\n", s)
	})
	defer unsubscribe()
	return a.store.Run(ctx)
}
