package cmd

import (
	"context"
	"fmt"

	"lotterypool/config"
	"lotterypool/domain/entities"
	"lotterypool/server"

	log "github.com/sirupsen/logrus"
)

// withRuntime runs fn against a short-lived runtime
func withRuntime(ctx context.Context, fn func(rt *Runtime) error) error {
	rt, err := NewRuntime(ctx, config.Get())
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt)
}

// Deploy creates a pool managed by managerArg and prints its ID
func Deploy(ctx context.Context, managerArg string) error {
	manager, err := entities.ParseAddress(managerArg)
	if err != nil {
		return err
	}

	return withRuntime(ctx, func(rt *Runtime) error {
		log.Infof("Attempting to deploy from account %s", manager)
		pool, err := rt.Pools.Deploy(ctx, manager)
		if err != nil {
			return fmt.Errorf("failed to deploy pool: %w", err)
		}
		log.Infof("Pool deployed with ID %d", pool.ID)
		fmt.Println(pool.ID)
		return nil
	})
}

// Fund credits amountArg coins to addressArg, opening the account if needed
func Fund(ctx context.Context, addressArg, amountArg string) error {
	address, err := entities.ParseAddress(addressArg)
	if err != nil {
		return err
	}
	amount, err := entities.ParseAmount(amountArg)
	if err != nil {
		return err
	}

	return withRuntime(ctx, func(rt *Runtime) error {
		account, err := rt.Pools.Fund(ctx, address, amount)
		if err != nil {
			return fmt.Errorf("failed to fund %s: %w", address, err)
		}
		log.Infof("Funded %s with %s, balance is now %s",
			address, entities.FormatAmount(amount), entities.FormatAmount(account.Balance))
		return nil
	})
}

// SetFrozen freezes or unfreezes addressArg
func SetFrozen(ctx context.Context, addressArg string, frozen bool) error {
	address, err := entities.ParseAddress(addressArg)
	if err != nil {
		return err
	}

	return withRuntime(ctx, func(rt *Runtime) error {
		if err := rt.Pools.SetFrozen(ctx, address, frozen); err != nil {
			return fmt.Errorf("failed to update %s: %w", address, err)
		}
		log.WithFields(log.Fields{"address": address, "frozen": frozen}).Info("Account updated")
		return nil
	})
}

// CallerKey prints the X-Caller-Key value that authenticates addressArg against the HTTP API
func CallerKey(addressArg string) error {
	address, err := entities.ParseAddress(addressArg)
	if err != nil {
		return err
	}

	secret := config.Get().CallerKeySecret
	if secret == "" {
		return fmt.Errorf("CALLER_KEY_SECRET is not set")
	}
	fmt.Println(server.GenerateCallerKey(address, secret))
	return nil
}
