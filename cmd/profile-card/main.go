// profile-card renders kind-0 metadata JSON as a standalone HTML page.
//
// Usage:
//
//	profile-card -in metadata.json -out card.html
//
// Input defaults to stdin and output to stdout. The input may be either the
// metadata object itself or a full kind-0 event, whose signature is checked.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"nostr-metadata/internal/config"
	"nostr-metadata/internal/nostr"
	"nostr-metadata/internal/render"
	"nostr-metadata/internal/types"
)

func main() {
	inPath := flag.String("in", "", "metadata or kind-0 event JSON file (default stdin)")
	outPath := flag.String("out", "", "HTML output file (default stdout)")
	flag.Parse()

	cfg, err := config.Init()
	if err != nil {
		slog.Error("initialization failed", "error", err)
		os.Exit(1)
	}

	in := io.Reader(os.Stdin)
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			slog.Error("failed to open input", "path", *inPath, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	var out bytes.Buffer
	if err := run(in, &out, render.Options{QRSize: cfg.QRSize}); err != nil {
		slog.Error("failed to render profile card", "error", err)
		os.Exit(1)
	}

	if err := writeOutput(os.Stdout, *outPath, out.Bytes()); err != nil {
		slog.Error("failed to write output", "path", *outPath, "error", err)
		os.Exit(1)
	}
}

// writeOutput writes the card to path, or to stdout when path is empty
func writeOutput(stdout io.Writer, path string, card []byte) error {
	if path == "" {
		_, err := stdout.Write(card)
		return err
	}
	return os.WriteFile(path, card, 0o644)
}

func run(in io.Reader, out io.Writer, opts render.Options) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	metadata, err := decodeInput(data)
	if err != nil {
		return err
	}
	return render.NewCard(metadata, opts).Render(out)
}

// decodeInput accepts a bare metadata object or a signed kind-0 event. Only
// objects carrying kind, content, pubkey and sig are treated as events, so
// metadata with custom "kind" or "content" keys still renders.
func decodeInput(data []byte) (*nostr.Metadata, error) {
	var envelope struct {
		Kind    any `json:"kind"`
		Content any `json:"content"`
		PubKey  any `json:"pubkey"`
		Sig     any `json:"sig"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("invalid input JSON: %w", err)
	}
	if envelope.Kind == nil || envelope.Content == nil || envelope.PubKey == nil || envelope.Sig == nil {
		return nostr.ParseMetadata(string(data))
	}

	var evt types.Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("invalid event JSON: %w", err)
	}
	if !nostr.ValidateEventSignature(&evt) {
		return nil, errors.New("event signature validation failed")
	}
	return nostr.MetadataFromEvent(&evt)
}
