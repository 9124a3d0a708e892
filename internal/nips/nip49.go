package nips

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"
)

// NIP-49 password-encrypted secret keys (ncryptsec)

const (
	ncryptsecHRP     = "ncryptsec"
	ncryptsecVersion = 0x02
	ncryptsecSaltLen = 16
	ncryptsecLen     = 1 + 1 + ncryptsecSaltLen + chacha20poly1305.NonceSizeX + 1 + 32 + chacha20poly1305.Overhead

	// DefaultLogN is the scrypt cost used when encrypting (64 MiB)
	DefaultLogN = 16
	// maxLogN bounds the memory a decoded string can demand (4 GiB)
	maxLogN = 22
)

// ErrInvalidNcryptsec is returned for malformed or undecryptable ncryptsec strings
var ErrInvalidNcryptsec = errors.New("invalid ncryptsec")

// KeySecurity records how the secret key was handled before encryption
type KeySecurity byte

const (
	KeyKnownInsecure    KeySecurity = 0x00
	KeyNotKnownInsecure KeySecurity = 0x01
	KeySecurityUnknown  KeySecurity = 0x02
)

// EncryptSecretKey encrypts a hex secret key under password. logN is the
// scrypt cost exponent.
func EncryptSecretKey(hexSecret, password string, logN uint8, security KeySecurity) (string, error) {
	salt := make([]byte, ncryptsecSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return encryptSecretKeyWithNonce(hexSecret, password, logN, security, salt, nonce)
}

// encryptSecretKeyWithNonce encrypts with a specific salt and nonce (for testing)
func encryptSecretKeyWithNonce(hexSecret, password string, logN uint8, security KeySecurity, salt, nonce []byte) (string, error) {
	secret, err := hex.DecodeString(hexSecret)
	if err != nil {
		return "", err
	}
	if len(secret) != 32 {
		return "", errors.New("invalid key length")
	}
	if logN == 0 || logN > maxLogN {
		return "", fmt.Errorf("log_n %d out of range", logN)
	}
	if security > KeySecurityUnknown {
		return "", fmt.Errorf("unknown key security byte %d", security)
	}

	aead, err := ncryptsecCipher(password, salt, logN)
	if err != nil {
		return "", err
	}

	payload := make([]byte, 0, ncryptsecLen)
	payload = append(payload, ncryptsecVersion, logN)
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = append(payload, byte(security))
	payload = aead.Seal(payload, nonce, secret, []byte{byte(security)})

	return encodeBytes(ncryptsecHRP, payload)
}

// DecryptSecretKey decrypts an ncryptsec1 string and returns the hex secret
// key with the security byte it was stored with
func DecryptSecretKey(ncryptsec, password string) (string, KeySecurity, error) {
	payload, err := decodeBytes(ncryptsec, ncryptsecHRP)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrInvalidNcryptsec, err)
	}
	if len(payload) != ncryptsecLen {
		return "", 0, fmt.Errorf("%w: payload is %d bytes", ErrInvalidNcryptsec, len(payload))
	}
	if payload[0] != ncryptsecVersion {
		return "", 0, fmt.Errorf("%w: unsupported version %d", ErrInvalidNcryptsec, payload[0])
	}

	logN := payload[1]
	if logN == 0 || logN > maxLogN {
		return "", 0, fmt.Errorf("%w: log_n %d out of range", ErrInvalidNcryptsec, logN)
	}
	salt := payload[2 : 2+ncryptsecSaltLen]
	rest := payload[2+ncryptsecSaltLen:]
	nonce := rest[:chacha20poly1305.NonceSizeX]
	security := rest[chacha20poly1305.NonceSizeX]
	ciphertext := rest[chacha20poly1305.NonceSizeX+1:]

	aead, err := ncryptsecCipher(password, salt, logN)
	if err != nil {
		return "", 0, err
	}
	secret, err := aead.Open(nil, nonce, ciphertext, []byte{security})
	if err != nil {
		return "", 0, fmt.Errorf("%w: wrong password or corrupted data", ErrInvalidNcryptsec)
	}

	return hex.EncodeToString(secret), KeySecurity(security), nil
}

// ncryptsecCipher derives the symmetric key with scrypt over the NFKC form
// of the password
func ncryptsecCipher(password string, salt []byte, logN uint8) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(norm.NFKC.String(password)), salt, 1<<logN, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return chacha20poly1305.NewX(key)
}
