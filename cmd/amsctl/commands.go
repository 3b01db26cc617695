package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/artisthub/ams-client/internal/api"
	"github.com/artisthub/ams-client/internal/api/handler"
	"github.com/artisthub/ams-client/internal/app"
	"github.com/artisthub/ams-client/internal/core/domain"
	"github.com/artisthub/ams-client/internal/pkg/config"
)

const usage = `usage: amsctl <command> [flags]

commands:
  signup     register a new account
  login      log in and store the session for the profile
  dashboard  show the dashboard for the logged-in role
  logout     drop the stored session
  whoami     show the stored session
  route      print the dashboard route for the stored (or given) role
  serve      run the browser console
`

// cli carries what every command needs.
type cli struct {
	app    *app.App
	stdout io.Writer
	stderr io.Writer
}

type command func(ctx context.Context, c *cli, args []string) error

var commands = map[string]command{
	"signup":    cmdSignup,
	"login":     cmdLogin,
	"dashboard": cmdDashboard,
	"logout":    cmdLogout,
	"whoami":    cmdWhoami,
	"route":     cmdRoute,
	"serve":     cmdServe,
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, env envconfig.Lookuper, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	cfg, err := config.LoadFrom(ctx, env)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	a, err := app.New(ctx, cfg, "amsctl", stderr)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	defer a.Close(context.Background())

	c := &cli{app: a, stdout: stdout, stderr: stderr}
	if err := cmd(ctx, c, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "Error:", displayError(err))
		return 1
	}
	return 0
}

func displayError(err error) string {
	var ae *domain.AuthError
	if errors.As(err, &ae) {
		return ae.Display()
	}
	return err.Error()
}

func newFlagSet(name string, c *cli) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func cmdSignup(ctx context.Context, c *cli, args []string) error {
	var form domain.SignupForm
	var role string
	fs := newFlagSet("signup", c)
	fs.StringVar(&form.FirstName, "first-name", "", "first name")
	fs.StringVar(&form.LastName, "last-name", "", "last name")
	fs.StringVar(&form.Email, "email", "", "email address")
	fs.StringVar(&form.Password, "password", "", "password")
	fs.StringVar(&form.ConfirmPassword, "confirm-password", "", "password again")
	fs.StringVar(&form.Phone, "phone", "", "phone number")
	fs.StringVar(&form.DOB, "dob", "", "date of birth, YYYY-MM-DD")
	fs.StringVar(&form.Gender, "gender", domain.GenderMale, "m, f or other")
	fs.StringVar(&form.Address, "address", "", "postal address")
	fs.StringVar(&role, "role", string(domain.RoleArtist), "one of: "+roleChoices())
	if err := fs.Parse(args); err != nil {
		return err
	}
	form.Role = domain.Role(strings.TrimSpace(role))

	summary, err := c.app.Controller(c.app.Config.Profile).SignUp(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, summary.Notice())
	if summary.Status != "" {
		fmt.Fprintf(c.stdout, "status: %s\n", summary.Status)
	}
	return nil
}

func cmdLogin(ctx context.Context, c *cli, args []string) error {
	var email, password string
	fs := newFlagSet("login", c)
	fs.StringVar(&email, "email", "", "email address")
	fs.StringVar(&password, "password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := c.app.Controller(c.app.Config.Profile).Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "logged in as %s (%s)\n", displayName(session), roleLabel(session.Role))
	fmt.Fprintf(c.stdout, "dashboard: %s\n", domain.RouteFor(session.Role))
	return nil
}

func cmdDashboard(ctx context.Context, c *cli, args []string) error {
	if err := newFlagSet("dashboard", c).Parse(args); err != nil {
		return err
	}

	payload, err := c.app.Controller(c.app.Config.Profile).LoadDashboard(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUnauthenticated):
		return errors.New("not logged in, run: amsctl login -email <email> -password <password>")
	case errors.Is(err, domain.ErrUnauthorized):
		return errors.New("session expired, please log in again")
	case errors.Is(err, domain.ErrStaleResponse):
		return errors.New("session changed while loading, run the command again")
	default:
		return err
	}

	view := handler.RenderDashboard(payload)
	fmt.Fprintln(c.stdout, view.Title)
	for _, s := range view.Stats {
		fmt.Fprintf(c.stdout, "  %s: %s\n", s.Label, s.Value)
	}
	return nil
}

func cmdLogout(ctx context.Context, c *cli, args []string) error {
	if err := newFlagSet("logout", c).Parse(args); err != nil {
		return err
	}
	if err := c.app.Controller(c.app.Config.Profile).Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "logged out")
	return nil
}

func cmdWhoami(ctx context.Context, c *cli, args []string) error {
	if err := newFlagSet("whoami", c).Parse(args); err != nil {
		return err
	}
	session, err := c.app.Controller(c.app.Config.Profile).Current(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "%s (%s)\n", displayName(session), roleLabel(session.Role))
	if session.User != nil && session.User.Email != "" {
		fmt.Fprintf(c.stdout, "email: %s\n", session.User.Email)
	}
	fmt.Fprintf(c.stdout, "profile: %s\n", c.app.Config.Profile)
	return nil
}

func cmdRoute(ctx context.Context, c *cli, args []string) error {
	var role string
	fs := newFlagSet("route", c)
	fs.StringVar(&role, "role", "", "role to resolve instead of the stored session's ("+roleChoices()+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if role == "" {
		session, err := c.app.Controller(c.app.Config.Profile).Current(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				fmt.Fprintln(c.stdout, domain.RouteLogin)
				return nil
			}
			return err
		}
		role = string(session.Role)
	}
	fmt.Fprintln(c.stdout, domain.RouteFor(domain.Role(role)))
	return nil
}

func cmdServe(ctx context.Context, c *cli, args []string) error {
	addr := c.app.Config.Console.Addr
	fs := newFlagSet("serve", c)
	fs.StringVar(&addr, "addr", addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a := c.app
	e := api.NewRouter(api.Deps{
		Gateway:      a.Gateway,
		Stores:       a.Stores,
		Logger:       a.Log,
		CookieSecure: a.Config.Console.CookieSecure,
		Checks:       map[string]handler.Pinger{"store": a.Stores},
	})

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info().Str("addr", addr).Str("backend", a.Config.Store.Backend).Msg("console listening")
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.Log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	a.Log.Info().Msg("console exited cleanly")
	return nil
}

func displayName(s *domain.Session) string {
	if name := s.User.DisplayName(); name != "" {
		return name
	}
	return "unknown user"
}

func roleChoices() string {
	names := make([]string, len(domain.Roles))
	for i, r := range domain.Roles {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}

func roleLabel(r domain.Role) string {
	if r == "" {
		return "no role"
	}
	return string(r)
}
