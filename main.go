package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lotterypool/cmd"
	"lotterypool/config"
	"lotterypool/database"

	log "github.com/sirupsen/logrus"
)

const usage = `usage:
  lotterypool                          run the service
  lotterypool migrate up|down [n]|status
  lotterypool deploy <manager-address>
  lotterypool fund <address> <amount>
  lotterypool freeze|unfreeze <address>
  lotterypool caller-key <address>`

func main() {
	if len(os.Args) > 1 {
		if err := runCommand(os.Args[1], os.Args[2:]); err != nil {
			log.Fatalf("%s error: %v", os.Args[1], err)
		}
		return
	}

	// Normal service operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func runCommand(name string, args []string) error {
	ctx := context.Background()

	switch name {
	case "migrate":
		return handleMigrationCommand(args)
	case "deploy":
		if len(args) != 1 {
			return fmt.Errorf("usage: lotterypool deploy <manager-address>")
		}
		return cmd.Deploy(ctx, args[0])
	case "fund":
		if len(args) != 2 {
			return fmt.Errorf("usage: lotterypool fund <address> <amount>")
		}
		return cmd.Fund(ctx, args[0], args[1])
	case "freeze", "unfreeze":
		if len(args) != 1 {
			return fmt.Errorf("usage: lotterypool %s <address>", name)
		}
		return cmd.SetFrozen(ctx, args[0], name == "freeze")
	case "caller-key":
		if len(args) != 1 {
			return fmt.Errorf("usage: lotterypool caller-key <address>")
		}
		return cmd.CallerKey(args[0])
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", name, usage)
	}
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lotterypool migrate [up|down|status] [args...]")
	}

	databaseURL := config.Get().GetDatabaseURL()

	switch args[0] {
	case "up":
		return database.MigrateUp(databaseURL)
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(databaseURL, steps)
	case "status":
		return database.MigrateStatus(databaseURL)
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
