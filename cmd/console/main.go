// Command console is a small demonstration client for the administration
// console: it logs in, keeps the session silently refreshed, and streams
// session transitions to the log until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/consoleops/go-admin-client/internal/config"
	"github.com/consoleops/go-admin-client/oauthclient"
	"github.com/consoleops/go-admin-client/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file")
	username := flag.String("username", "", "username to log in with")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	displayAppname("Admin Console")

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokens, err := tokenClient(ctx, cfg)
	if err != nil {
		return err
	}

	manager, err := session.NewManager(tokens,
		session.WithLogger(logger),
		session.WithRefreshInterval(cfg.RefreshInterval),
		session.WithRefreshMargin(cfg.RefreshMargin),
	)
	if err != nil {
		return err
	}
	manager.Start(ctx)

	updates, unsubscribe := manager.Subscribe()
	defer unsubscribe()
	go logSessionTransitions(logger, updates)

	if *username != "" {
		// The password comes from the environment so it never appears in
		// process listings.
		password := os.Getenv("CONSOLE_PASSWORD")
		s, err := manager.Login(ctx, *username, password)
		if err != nil {
			return err
		}
		logger.Info().Str("subject", s.Subject).Msg("Logged in")
	}

	waitForStopSignal()
	manager.Logout()
	cancel()
	<-manager.Done()
	return nil
}

func tokenClient(ctx context.Context, cfg *config.Config) (*oauthclient.Client, error) {
	if cfg.OAuthTokenURL != "" {
		return oauthclient.New(cfg.OAuthTokenURL, cfg.ClientID), nil
	}
	return oauthclient.NewFromIssuer(ctx, cfg.OIDCIssuer, cfg.ClientID)
}

func logSessionTransitions(logger zerolog.Logger, updates <-chan *session.Session) {
	for s := range updates {
		if s == nil {
			logger.Info().Msg("Session: unauthenticated")
			continue
		}
		logger.Info().
			Str("subject", s.Subject).
			Str("active_tenant", s.ActiveTenantID).
			Time("expiry", s.AccessTokenExpiry).
			Msg("Session: authenticated")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
