//go:build ignore

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gofresh/internal/config"
	"gofresh/internal/store"
)

// check_store opens the configured store, round-trips a probe key and lists
// which session state keys are present.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s store: %v\n", cfg.Store.Driver, err)
		os.Exit(1)
	}
	defer closeStore()

	const probeKey = "store_check"
	probe := []byte(fmt.Sprintf(`{"checkedAt":%q}`, time.Now().UTC().Format(time.RFC3339)))

	if err := s.Set(ctx, probeKey, probe); err != nil {
		fmt.Fprintf(os.Stderr, "Set failed: %v\n", err)
		os.Exit(1)
	}
	got, err := s.Get(ctx, probeKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Get failed: %v\n", err)
		os.Exit(1)
	}
	if !bytes.Equal(got, probe) {
		fmt.Fprintf(os.Stderr, "Get returned %s, want %s\n", got, probe)
		os.Exit(1)
	}
	if err := s.Remove(ctx, probeKey); err != nil {
		fmt.Fprintf(os.Stderr, "Remove failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to %s store\n", cfg.Store.Driver)

	fmt.Println("\nSession state:")
	for _, key := range []string{
		store.KeyCart,
		store.KeyOrders,
		store.KeyUser,
		store.KeyUsers,
		store.KeyLanguage,
		store.KeyNotificationsRead,
	} {
		value, err := s.Get(ctx, key)
		switch {
		case errors.Is(err, store.ErrKeyNotFound):
			fmt.Printf("  - %-20s (absent)\n", key)
		case err != nil:
			fmt.Printf("  - %-20s error: %v\n", key, err)
		default:
			fmt.Printf("  - %-20s %d bytes\n", key, len(value))
		}
	}
}
