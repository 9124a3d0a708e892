package nostr

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"nostr-metadata/internal/types"
)

// ErrNotMetadataEvent is returned when an event is not kind 0
var ErrNotMetadataEvent = errors.New("not a metadata event")

// NewMetadataEvent builds an unsigned kind-0 event carrying m as content
func NewMetadataEvent(m *Metadata, createdAt int64) *types.Event {
	return &types.Event{
		CreatedAt: createdAt,
		Kind:      types.KindMetadata,
		Tags:      [][]string{},
		Content:   m.AsJSON(),
	}
}

// MetadataFromEvent parses the profile carried by a kind-0 event
func MetadataFromEvent(evt *types.Event) (*Metadata, error) {
	if evt.Kind != types.KindMetadata {
		return nil, fmt.Errorf("%w: kind %d", ErrNotMetadataEvent, evt.Kind)
	}
	m, err := ParseMetadata(evt.Content)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", ShortID(evt.ID), err)
	}
	return m, nil
}

// ComputeEventID hashes the canonical serialization
// [0, pubkey, created_at, kind, tags, content]
func ComputeEventID(evt *types.Event) string {
	hash := sha256.Sum256(serializeEvent(evt))
	return hex.EncodeToString(hash[:])
}

// serializeEvent writes the NIP-01 commitment array. Strings are escaped the
// NIP-01 way rather than with encoding/json, which also escapes U+2028 and
// U+2029 and rewrites invalid UTF-8; either would change the id other
// clients compute for the same event.
func serializeEvent(evt *types.Event) []byte {
	buf := make([]byte, 0, 128+len(evt.Content))
	buf = append(buf, "[0,"...)
	buf = appendEscaped(buf, evt.PubKey)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, evt.CreatedAt, 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(evt.Kind), 10)
	buf = append(buf, ",["...)
	for i, tag := range evt.Tags {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '[')
		for j, v := range tag {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = appendEscaped(buf, v)
		}
		buf = append(buf, ']')
	}
	buf = append(buf, "],"...)
	buf = appendEscaped(buf, evt.Content)
	return append(buf, ']')
}

// appendEscaped quotes s with the seven short escapes NIP-01 names and
// \u00XX for the remaining control characters. Every other byte is copied
// verbatim.
func appendEscaped(buf []byte, s string) []byte {
	const hexDigits = "0123456789abcdef"

	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		default:
			if c < 0x20 {
				buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			} else {
				buf = append(buf, c)
			}
		}
	}
	return append(buf, '"')
}

// SignEvent sets pubkey, id and signature on evt
func (k *Keys) SignEvent(evt *types.Event) error {
	if evt.Tags == nil {
		evt.Tags = [][]string{}
	}
	evt.PubKey = k.publicKey
	evt.ID = ComputeEventID(evt)

	idBytes, _ := hex.DecodeString(evt.ID)
	sig, err := schnorr.Sign(k.secretKey, idBytes)
	if err != nil {
		return fmt.Errorf("failed to sign event: %w", err)
	}
	evt.Sig = hex.EncodeToString(sig.Serialize())

	slog.Debug("signed event", "event_id", ShortID(evt.ID), "kind", evt.Kind)
	return nil
}

// ValidateEventSignature checks that the id matches the event fields and
// that the Schnorr signature over it verifies
func ValidateEventSignature(evt *types.Event) bool {
	if len(evt.Sig) != 128 || len(evt.PubKey) != 64 {
		return false
	}
	if ComputeEventID(evt) != evt.ID {
		return false
	}

	sigBytes, err := hex.DecodeString(evt.Sig)
	if err != nil {
		return false
	}
	pubKeyBytes, err := hex.DecodeString(evt.PubKey)
	if err != nil {
		return false
	}
	idBytes, err := hex.DecodeString(evt.ID)
	if err != nil {
		return false
	}

	sig, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return false
	}
	pubKey, err := schnorr.ParsePubKey(pubKeyBytes)
	if err != nil {
		return false
	}

	return sig.Verify(idBytes, pubKey)
}

// ShortID truncates ID/pubkey to 12 chars for logging
func ShortID(id string) string {
	if len(id) >= 12 {
		return id[:12]
	}
	return id
}
