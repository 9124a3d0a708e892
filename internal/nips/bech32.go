package nips

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// ErrInvalidBech32 wraps every decoding failure
var ErrInvalidBech32 = errors.New("invalid bech32")

// encodeBytes bech32-encodes raw 8-bit bytes
func encodeBytes(hrp string, raw []byte) (string, error) {
	grp, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, grp)
}

// decodeBytes decodes a bech32 string of any length and checks its hrp.
// NIP-19 and LUD-01 strings use the original bech32 checksum, so bech32m
// strings are rejected even though the library accepts both.
func decodeBytes(bech, wantHRP string) ([]byte, error) {
	hrp, buf, err := bech32.DecodeNoLimit(bech)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBech32, err)
	}
	if hrp != wantHRP {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrInvalidBech32, wantHRP, hrp)
	}
	if reencoded, err := bech32.Encode(hrp, buf); err != nil || reencoded != strings.ToLower(bech) {
		return nil, fmt.Errorf("%w: not a bech32 checksum", ErrInvalidBech32)
	}
	grp, err := bech32.ConvertBits(buf, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBech32, err)
	}
	return grp, nil
}

func encodeKey(hrp, hexKey string) (string, error) {
	keyBytes, err := hex.DecodeString(hexKey)
	if err != nil {
		return "", err
	}
	if len(keyBytes) != 32 {
		return "", errors.New("invalid key length")
	}
	return encodeBytes(hrp, keyBytes)
}

func decodeKey(bech, hrp string) (string, error) {
	keyBytes, err := decodeBytes(bech, hrp)
	if err != nil {
		return "", err
	}
	if len(keyBytes) != 32 {
		return "", fmt.Errorf("%w: %s payload is %d bytes", ErrInvalidBech32, hrp, len(keyBytes))
	}
	return hex.EncodeToString(keyBytes), nil
}

// EncodePubkey encodes a hex pubkey to npub format
func EncodePubkey(hexPubkey string) (string, error) {
	return encodeKey("npub", hexPubkey)
}

// DecodePubkey decodes an npub to a hex pubkey
func DecodePubkey(npub string) (string, error) {
	return decodeKey(npub, "npub")
}

// EncodeSecretKey encodes a hex secret key to nsec format
func EncodeSecretKey(hexSecret string) (string, error) {
	return encodeKey("nsec", hexSecret)
}

// DecodeSecretKey decodes an nsec to a hex secret key
func DecodeSecretKey(nsec string) (string, error) {
	return decodeKey(nsec, "nsec")
}

// EncodeLNURL encodes a URL as an upper-case LUD-01 lnurl string
func EncodeLNURL(rawURL string) (string, error) {
	lnurl, err := encodeBytes("lnurl", []byte(rawURL))
	if err != nil {
		return "", err
	}
	return strings.ToUpper(lnurl), nil
}

// DecodeLNURL decodes an lnurl string (either case) back to its URL
func DecodeLNURL(lnurl string) (string, error) {
	const scheme = "lightning:"
	if len(lnurl) > len(scheme) && strings.EqualFold(lnurl[:len(scheme)], scheme) {
		lnurl = lnurl[len(scheme):]
	}
	urlBytes, err := decodeBytes(lnurl, "lnurl")
	if err != nil {
		return "", err
	}
	return string(urlBytes), nil
}
