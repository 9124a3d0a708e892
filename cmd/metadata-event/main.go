// metadata-event builds a kind-0 profile event from flags, signs it and
// prints the event JSON. Nothing is published.
//
// Usage:
//
//	metadata-event -sec nsec1... -name alice -display-name "Alice" -lud16 alice@example.com
//
// The secret key falls back to NOSTR_SECRET_KEY. A NIP-49 ncryptsec key is
// decrypted with -password or NOSTR_SECRET_KEY_PASSWORD. Only flags that are
// passed end up in the metadata, so -about "" sets an empty about.
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
	"time"

	"nostr-metadata/internal/config"
	"nostr-metadata/internal/nostr"
	"nostr-metadata/internal/types"
)

// profileFlags maps flag names to metadata keys
var profileFlags = []struct {
	flag  string
	key   string
	usage string
}{
	{"name", nostr.KeyName, "short username"},
	{"display-name", nostr.KeyDisplayName, "human readable name"},
	{"about", nostr.KeyAbout, "bio, markdown allowed"},
	{"website", nostr.KeyWebsite, "website URL"},
	{"picture", nostr.KeyPicture, "avatar URL"},
	{"banner", nostr.KeyBanner, "banner image URL"},
	{"nip05", nostr.KeyNip05, "NIP-05 identifier (name@domain)"},
	{"lud06", nostr.KeyLud06, "LNURL-pay string"},
	{"lud16", nostr.KeyLud16, "Lightning address (user@domain)"},
}

type options struct {
	secret    string
	password  string
	createdAt int64
	metadata  *nostr.Metadata
}

func main() {
	cfg, err := config.Init()
	if err != nil {
		slog.Error("initialization failed", "error", err)
		os.Exit(1)
	}

	opts, err := parseArgs(os.Args[1:], cfg)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	if err := run(opts, os.Stdout); err != nil {
		slog.Error("failed to build metadata event", "error", err)
		os.Exit(1)
	}
}

func parseArgs(args []string, cfg *config.Config) (*options, error) {
	fs := flag.NewFlagSet("metadata-event", flag.ContinueOnError)
	secret := fs.String("sec", "", "secret key (hex, nsec or ncryptsec), default $NOSTR_SECRET_KEY")
	password := fs.String("password", "", "ncryptsec password, default $NOSTR_SECRET_KEY_PASSWORD")
	createdAt := fs.Int64("created-at", 0, "unix timestamp, default now")

	values := make(map[string]*string, len(profileFlags))
	for _, pf := range profileFlags {
		values[pf.flag] = fs.String(pf.flag, "", pf.usage)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	opts := &options{
		secret:    *secret,
		password:  *password,
		createdAt: *createdAt,
		metadata:  nostr.NewMetadata(),
	}
	if opts.secret == "" && cfg != nil {
		opts.secret = cfg.SecretKey
	}
	if opts.password == "" && cfg != nil {
		opts.password = cfg.SecretKeyPassword
	}
	if opts.secret == "" {
		return nil, errors.New("secret key required: use -sec flag or NOSTR_SECRET_KEY env var")
	}
	if opts.createdAt == 0 {
		opts.createdAt = time.Now().Unix()
	}

	keyByFlag := make(map[string]string, len(profileFlags))
	for _, pf := range profileFlags {
		keyByFlag[pf.flag] = pf.key
	}
	fs.Visit(func(f *flag.Flag) {
		if key, ok := keyByFlag[f.Name]; ok {
			opts.metadata.WithCustomField(key, *values[f.Name])
		}
	})

	return opts, nil
}

func run(opts *options, stdout io.Writer) error {
	keys, err := nostr.ParseKeysWithPassword(opts.secret, opts.password)
	if err != nil {
		return err
	}

	evt := nostr.NewMetadataEvent(opts.metadata, opts.createdAt)
	if err := keys.SignEvent(evt); err != nil {
		return err
	}
	slog.Info("metadata event signed", "event_id", nostr.ShortID(evt.ID), "npub", keys.Npub())

	return writeEvent(stdout, evt)
}

func writeEvent(w io.Writer, evt *types.Event) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(evt); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
