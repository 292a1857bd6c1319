package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dougsko/radio2csv/pkg/config"
	"github.com/dougsko/radio2csv/pkg/logging"
)

var (
	configPath = flag.String("config", "", "Configuration file path")
	version    = flag.Bool("version", false, "Show version information")
)

const (
	Version = "0.3.0"
	Build   = "development"
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("radio2csvd version %s (%s)\n", Version, Build)
		os.Exit(0)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logging.InitGlobalLogger(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseGlobalLogger()

	logging.Info("main", fmt.Sprintf("radio2csvd version %s starting...", Version))
	logging.Info("main", fmt.Sprintf("Archive: %s (max %d snapshots)", cfg.Archive.DatabasePath, cfg.Archive.MaxSnapshots))
	logging.Info("main", fmt.Sprintf("Web interface: http://%s:%d", cfg.Web.BindAddress, cfg.Web.Port))

	daemon, err := NewArchiveDaemon(cfg)
	if err != nil {
		logging.Error("main", fmt.Sprintf("Failed to create daemon: %v", err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := daemon.Start(); err != nil {
		logging.Error("main", fmt.Sprintf("Failed to start daemon: %v", err))
		os.Exit(1)
	}

	logging.Info("main", "radio2csvd started successfully")

	<-sigChan
	logging.Info("main", "Shutting down...")

	if err := daemon.Stop(); err != nil {
		logging.Error("main", fmt.Sprintf("Error during shutdown: %v", err))
	}

	logging.Info("main", "radio2csvd stopped")
}
