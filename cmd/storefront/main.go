package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/naveenspark/storefront/internal/config"
	"github.com/naveenspark/storefront/internal/logging"
	"github.com/naveenspark/storefront/internal/session"
	"github.com/naveenspark/storefront/internal/tui"
	"github.com/naveenspark/storefront/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is what every command needs after startup.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	store  *session.Store
	closer io.Closer
}

func (r *env) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// setup loads configuration, opens the log file and restores the saved
// session. A damaged cookie is discarded and the user starts signed out.
func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, closer, err := logging.Open(cfg.Logging)
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", "api", cfg.APIURL, "home", cfg.Home, "env_file", cfg.EnvFileFound)

	store := session.NewStore(session.NewCookieJar(cfg.CookiePath()), logger)
	if err := store.Rehydrate(); err != nil {
		logger.Warn("saved session discarded", "err", err)
	}
	return &env{cfg: cfg, logger: logger, store: store, closer: closer}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront account pages in your terminal",
		Long: `Sign in to the storefront and manage your profile. Usage:

	storefront                      open the home page
	storefront login --redirect /shipping
	storefront profile
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI("/")
		},
	}
	root.AddCommand(
		newLoginCmd(),
		newProfileCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newVersionCmd(),
	)
	return root
}

func newLoginCmd() *cobra.Command {
	var redirect string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open the login page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(loginTarget(redirect))
		},
	}
	cmd.Flags().StringVar(&redirect, "redirect", "", "page to open after signing in, e.g. /shipping")
	return cmd
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Open the profile page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI("/profile")
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup()
			if err != nil {
				return err
			}
			defer rt.Close() //nolint:errcheck

			if _, ok := rt.store.Current(); !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Already logged out.")
				return nil
			}
			if err := rt.store.Clear(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup()
			if err != nil {
				return err
			}
			defer rt.Close() //nolint:errcheck

			rec, ok := rt.store.Current()
			if !ok {
				printSignedOut(cmd.OutOrStdout())
				return nil
			}
			printAccount(cmd.OutOrStdout(), rec)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "storefront "+version)
		},
	}
}

// loginTarget is the route of the login page, carrying redirect when set.
func loginTarget(redirect string) string {
	if redirect == "" {
		return "/login"
	}
	return "/login?" + url.Values{"redirect": {redirect}}.Encode()
}

func runTUI(start string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close() //nolint:errcheck

	api := client.New(rt.cfg.APIURL, client.WithLogger(rt.logger))
	app := tui.NewApp(api, rt.store, start, tui.Options{
		WebURL:     rt.cfg.WebURL,
		NotifyFor:  rt.cfg.NotifyFor,
		Version:    version,
		ReleaseURL: rt.cfg.ReleaseURL,
		Logger:     rt.logger,
	})

	rt.logger.Info("starting", "version", version, "route", start)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
