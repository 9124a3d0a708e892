package nostr

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"nostr-metadata/internal/nips"
)

// ErrInvalidSecretKey is returned for malformed or out-of-range secret keys
var ErrInvalidSecretKey = errors.New("invalid secret key")

// Keys is a secp256k1 key pair used to sign events
type Keys struct {
	secretKey *btcec.PrivateKey
	publicKey string // x-only, hex
}

// ParseKeys accepts a secret key as 64-char hex or nsec1 bech32
func ParseKeys(secret string) (*Keys, error) {
	return ParseKeysWithPassword(secret, "")
}

// ParseKeysWithPassword also accepts a NIP-49 ncryptsec1 string, decrypted
// with password
func ParseKeysWithPassword(secret, password string) (*Keys, error) {
	secret = strings.TrimSpace(secret)

	var secretHex string
	switch lower := strings.ToLower(secret); {
	case strings.HasPrefix(lower, "nsec1"):
		decoded, err := nips.DecodeSecretKey(secret)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSecretKey, err)
		}
		secretHex = decoded
	case strings.HasPrefix(lower, "ncryptsec1"):
		if password == "" {
			return nil, fmt.Errorf("%w: ncryptsec needs a password", ErrInvalidSecretKey)
		}
		decoded, security, err := nips.DecryptSecretKey(secret, password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSecretKey, err)
		}
		if security == nips.KeyKnownInsecure {
			slog.Warn("ncryptsec marks the secret key as previously handled insecurely")
		}
		secretHex = decoded
	default:
		secretHex = secret
	}

	secretBytes, err := hex.DecodeString(secretHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecretKey, err)
	}
	if len(secretBytes) != 32 {
		return nil, fmt.Errorf("%w: expected 32 bytes, got %d", ErrInvalidSecretKey, len(secretBytes))
	}

	secretKey, _ := btcec.PrivKeyFromBytes(secretBytes)
	if secretKey.Key.IsZero() {
		return nil, fmt.Errorf("%w: zero scalar", ErrInvalidSecretKey)
	}
	return newKeys(secretKey), nil
}

// GenerateKeys creates a fresh random key pair
func GenerateKeys() (*Keys, error) {
	secretKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return newKeys(secretKey), nil
}

func newKeys(secretKey *btcec.PrivateKey) *Keys {
	return &Keys{
		secretKey: secretKey,
		publicKey: hex.EncodeToString(schnorr.SerializePubKey(secretKey.PubKey())),
	}
}

// PublicKey returns the x-only public key as hex
func (k *Keys) PublicKey() string {
	return k.publicKey
}

func (k *Keys) Npub() string {
	// publicKey is always 32 bytes of valid hex
	npub, _ := nips.EncodePubkey(k.publicKey)
	return npub
}

func (k *Keys) Nsec() string {
	nsec, _ := nips.EncodeSecretKey(hex.EncodeToString(k.secretKey.Serialize()))
	return nsec
}

// Ncryptsec encrypts the secret key under password (NIP-49)
func (k *Keys) Ncryptsec(password string, logN uint8) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	return nips.EncryptSecretKey(hex.EncodeToString(k.secretKey.Serialize()), password, logN, nips.KeySecurityUnknown)
}
