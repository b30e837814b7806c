package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	"github.com/omondijeff/pension-pilot-mail-service/pkg/api"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/config"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/mail"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/status"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/system"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/version"
)

func main() {
	var (
		debug      bool
		configPath string
	)
	flag.BoolVar(&debug, "debug", false, "enables debug mode")
	flag.StringVar(&configPath, "config", "", "path to config.yaml")
	flag.Parse()

	// .env files only matter outside production deployments.
	_ = godotenv.Load()

	log := system.SetupLogger(debug)
	defer func() { _ = log.Sync() }()
	log.With("version", version.Version).Info("Starting mail service")

	cfg, err := config.LoadOrDefaults(configPath)
	if err != nil {
		log.Fatalf("Error loading mail service config: %v", err)
	}
	if !cfg.IsProduction() {
		debug = true
	}
	if debug {
		log.Infof("listen=%s relay=%s:%d env=%s",
			cfg.Server.ListenAddress, cfg.Mail.Host, cfg.Mail.Port, cfg.Environment)
	}

	manager := mail.NewManager(cfg.Mail, log)
	gateway := mail.NewGateway(manager, cfg.Mail, log)

	// The startup retry ladder runs in the background; the listener below
	// accepts requests immediately and relies on lazy reinitialization
	// until the transport is verified.
	go func() {
		if err := manager.Initialize(context.Background()); err != nil {
			log.Warnw("Mail transport not available after startup retries", "error", err)
		}
	}()

	server := api.NewServer(log.Desugar(), cfg, debug)
	err = server.RegisterAll([]api.APIController{
		mail.NewAPIController(gateway, manager, log),
		status.NewController(manager, cfg.Frontend.BrandingName, log),
	})
	if err != nil {
		log.Fatalf("Error registering mail service controllers: %v", err)
	}

	if err := server.Listen(); err != nil {
		log.Fatalf("HTTP server terminated: %v", err)
	}
}
