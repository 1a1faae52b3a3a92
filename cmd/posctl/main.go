package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appetiteclub/pos/cmd/posctl/internal/client"
	"github.com/appetiteclub/pos/cmd/posctl/internal/commands"
	"github.com/appetiteclub/pos/pkg"
	"github.com/appetiteclub/pos/pkg/config"
	"github.com/appetiteclub/pos/pkg/logger"
)

const (
	appNamespace = "POSCTL"
	appName      = "posctl"
	appVersion   = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Command flags are parsed by each command; config comes from env and POSCTL_CONFIG_FILE.
	cfg, err := config.Load(appNamespace, nil, map[string]any{
		"log.level":   "info",
		"pos.url":     client.DefaultBaseURL,
		"pos.timeout": "15s",
		"nats.url":    "nats://localhost:4222",
	})
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := cfg.GetString("log.level")
	logger := logger.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(cfg.StringOr("pos.url", client.DefaultBaseURL), cfg.DurationOr("pos.timeout", 15*time.Second))
	command, args := os.Args[1], os.Args[2:]

	switch command {
	case "place":
		if err := commands.Place(ctx, api, logger, os.Stdout, args); err != nil {
			log.Fatalf("Place order failed: %v", err)
		}

	case "orders":
		if err := commands.Orders(ctx, api, os.Stdout, args); err != nil {
			log.Fatalf("Fetch orders failed: %v", err)
		}

	case "advance":
		if err := commands.Advance(ctx, api, os.Stdout, args); err != nil {
			log.Fatalf("Advance failed: %v", err)
		}

	case "seed-demo":
		if err := commands.SeedDemo(ctx, api, logger, os.Stdout); err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		logger.Info("Demo seeding completed successfully")

	case "watch":
		natsURL, _ := cfg.GetString("nats.url")
		sub, err := pkg.NewNATSSubscriber(natsURL, appName)
		if err != nil {
			log.Fatalf("Cannot connect to NATS subscriber: %v", err)
		}
		defer sub.Close()
		if err := commands.Watch(ctx, sub, logger, os.Stdout); err != nil {
			log.Fatalf("Watch failed: %v", err)
		}

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - POS command line

Usage:
  %s <command> [options]

Commands:
  place        Add items to a table's cart and place the order
               -table T1..T10 (required), -method cash|upi, items as id or id=qty
  orders       Print the kitchen board (-refresh forces a backend fetch)
  advance      Move orders to their next kitchen status
  seed-demo    Place a few sample orders across tables
  watch        Print order events published on NATS
  version      Print version information
  help         Show this help message

Environment Variables:
  POSCTL_POS__URL       POS service URL (default: %s)
  POSCTL_NATS__URL      NATS URL for watch (default: nats://localhost:4222)
  POSCTL_LOG__LEVEL     Log level: debug, info, error (default: info)

Examples:
  %s place -table T3 -method upi dn1=2 dn17
  %s orders -refresh
  %s advance ORD-1718000000000

`, appName, appName, client.DefaultBaseURL, appName, appName, appName)
}
