package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"nostr-metadata/internal/config"
	"nostr-metadata/internal/nostr"
)

func main() {
	if err := run(os.Stdout); err != nil {
		slog.Error("metadata example failed", "error", err)
		os.Exit(1)
	}
}

// run initializes the process, builds a profile and prints its JSON and
// display name
func run(stdout io.Writer) error {
	if _, err := config.Init(); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	metadata := nostr.NewMetadata().
		WithName("test").
		WithDisplayName("Testing Rust Nostr").
		WithLud16("yuki@getalby.com")

	displayName, _ := metadata.DisplayName()

	if _, err := fmt.Fprintf(stdout, "JSON: %s\n", metadata.AsJSON()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(stdout, "Display name: %s\n", displayName); err != nil {
		return err
	}
	return nil
}
