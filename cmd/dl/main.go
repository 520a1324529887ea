// Command dl is a diagnostic CLI for the DeuceLeague app core: it evaluates
// navigation-gate decisions, simulates back presses, checks onboarding
// statuses, and drives the payment flow against a real backend.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/deuceleague/appcore/internal/client"
	"github.com/deuceleague/appcore/internal/config"
	"github.com/deuceleague/appcore/internal/events"
	"github.com/deuceleague/appcore/internal/onboarding"
	"github.com/deuceleague/appcore/internal/session"
	"github.com/deuceleague/appcore/internal/ui"
)

var (
	backendURL string
	authToken  string
	userID     string
	jsonOutput bool
	noColor    bool
	verbose    bool

	cfg       *config.Config
	backend   *client.HTTPClient
	publisher events.Publisher
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dl",
	Short: "Diagnostic CLI for the DeuceLeague app core",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		cfg = config.Default()
		if os.Getenv("DEUCE_BACKEND_URL") != "" {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
		}
		if backendURL == "" {
			backendURL = cfg.BackendURL
		}
		if backendURL == "" {
			backendURL = activeRemoteURL()
		}
		if backendURL == "" {
			return fmt.Errorf("no backend configured: pass --backend, set DEUCE_BACKEND_URL, or run 'dl remote use <name>'")
		}
		if authToken == "" {
			authToken = cfg.AuthToken
		}
		if authToken == "" {
			authToken = activeRemoteToken()
		}

		backend = client.NewHTTPClient(backendURL, authToken)

		publisher = &events.NoopPublisher{}
		if url := natsURL(); url != "" {
			pub, err := events.NewNATSPublisher(url)
			if err != nil {
				return fmt.Errorf("connecting event bus: %w", err)
			}
			publisher = pub
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if publisher != nil {
			publisher.Close()
		}
		if backend != nil {
			backend.Close()
		}
	},
}

func natsURL() string {
	if cfg != nil && cfg.NATSURL != "" {
		return cfg.NATSURL
	}
	return activeRemoteNATSURL()
}

// currentSession builds the simulated session from the --user flag.
func currentSession() session.Provider {
	return session.Static(session.Session{UserID: userID})
}

func newChecker() *onboarding.Checker {
	return onboarding.NewChecker(backend, &onboarding.CheckerConfig{
		StaleAfter: cfg.StatusStaleAfter,
		RetryDelay: cfg.StatusRetryDelay,
		Publisher:  publisher,
		Logger:     logger,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (default from DEUCE_BACKEND_URL or the active remote)")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "bearer token for backend calls")
	rootCmd.PersistentFlags().StringVar(&userID, "user", os.Getenv("DEUCE_USER_ID"), "user id for the simulated session")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug detail to stderr")

	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(navCmd)
	rootCmd.AddCommand(backCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(paymentCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
