package nostr

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKeysHex(t *testing.T) {
	keys, err := ParseKeys(testSecretHex)
	require.NoError(t, err)

	require.Equal(t, testPubkeyHex, keys.PublicKey())
	require.Equal(t, "npub1h00x5r5gglsumv46tmqzrny5n6euauf9hqcy5ay0uywqgpuepmkq5x62ut", keys.Npub())
	require.Equal(t, "nsec1ahys6ph7u9mp2g5us5ndcqzajk0y4uaacz6gc4mke9gmetldajzsy4y8e6", keys.Nsec())
}

func TestParseKeysNsec(t *testing.T) {
	keys, err := ParseKeys("  nsec1ahys6ph7u9mp2g5us5ndcqzajk0y4uaacz6gc4mke9gmetldajzsy4y8e6\n")
	require.NoError(t, err)
	require.Equal(t, testPubkeyHex, keys.PublicKey())
}

func TestParseKeysInvalid(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"empty", ""},
		{"not hex", strings.Repeat("zz", 32)},
		{"short", "abcd"},
		{"zero", strings.Repeat("00", 32)},
		{"bad nsec checksum", "nsec1ahys6ph7u9mp2g5us5ndcqzajk0y4uaacz6gc4mke9gmetldajzsy4y8e7"},
		{"npub instead of nsec", "npub1h00x5r5gglsumv46tmqzrny5n6euauf9hqcy5ay0uywqgpuepmkq5x62ut"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKeys(tt.secret)
			require.True(t, errors.Is(err, ErrInvalidSecretKey), "got %v", err)
		})
	}
}

func TestGenerateKeysRoundTrip(t *testing.T) {
	keys, err := GenerateKeys()
	require.NoError(t, err)
	require.Len(t, keys.PublicKey(), 64)

	again, err := ParseKeys(keys.Nsec())
	require.NoError(t, err)
	require.Equal(t, keys.PublicKey(), again.PublicKey())
}

func TestParseKeysWithPasswordNcryptsec(t *testing.T) {
	const (
		ncryptsec = "ncryptsec1qgg9947rlpvqu76pj5ecreduf9jxhselq2nae2kghhvd5g7dgjtcxfqtd67p9m0w57lspw8gsq6yphnm8623nsl8xn9j4jdzz84zm3frztj3z7s35vpzmqf6ksu8r89qk5z2zxfmu5gv8th8wclt0h4p"
		secretHex = "3501454135014541350145413501453fefb02227e449e57cf4d3a3ce05378683"
	)

	keys, err := ParseKeysWithPassword(ncryptsec, "nostr")
	require.NoError(t, err)
	plain, err := ParseKeys(secretHex)
	require.NoError(t, err)
	require.Equal(t, plain.PublicKey(), keys.PublicKey())
	require.Equal(t, plain.Nsec(), keys.Nsec())

	_, err = ParseKeys(ncryptsec)
	require.True(t, errors.Is(err, ErrInvalidSecretKey), "missing password")

	_, err = ParseKeysWithPassword(ncryptsec, "wrong")
	require.True(t, errors.Is(err, ErrInvalidSecretKey), "wrong password")
}

func TestKeysNcryptsecRoundTrip(t *testing.T) {
	keys, err := ParseKeys(testSecretHex)
	require.NoError(t, err)

	ncryptsec, err := keys.Ncryptsec("hunter2", 4)
	require.NoError(t, err)

	again, err := ParseKeysWithPassword(ncryptsec, "hunter2")
	require.NoError(t, err)
	require.Equal(t, testPubkeyHex, again.PublicKey())

	_, err = keys.Ncryptsec("", 4)
	require.Error(t, err)
}
