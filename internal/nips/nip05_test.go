package nips

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNIP05(t *testing.T) {
	tests := []struct {
		input       string
		want        NIP05Identifier
		wellKnown   string
		displayName string
	}{
		{
			input:       "Yuki@YukiKishimoto.com",
			want:        NIP05Identifier{Name: "yuki", Domain: "yukikishimoto.com"},
			wellKnown:   "https://yukikishimoto.com/.well-known/nostr.json?name=yuki",
			displayName: "yuki@yukikishimoto.com",
		},
		{
			input:       "_@example.com",
			want:        NIP05Identifier{Name: "_", Domain: "example.com"},
			wellKnown:   "https://example.com/.well-known/nostr.json?name=_",
			displayName: "example.com",
		},
		{
			input:       "example.com",
			want:        NIP05Identifier{Name: "_", Domain: "example.com"},
			wellKnown:   "https://example.com/.well-known/nostr.json?name=_",
			displayName: "example.com",
		},
		{
			input:       "first.last-1@example.com",
			want:        NIP05Identifier{Name: "first.last-1", Domain: "example.com"},
			wellKnown:   "https://example.com/.well-known/nostr.json?name=first.last-1",
			displayName: "first.last-1@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, err := ParseNIP05(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, id)
			require.Equal(t, tt.wellKnown, id.WellKnownURL())
			require.Equal(t, tt.displayName, id.DisplayName())
		})
	}
}

func TestParseNIP05Invalid(t *testing.T) {
	for _, input := range []string{"", "  ", "bad name@example.com", "bob@", "bob@example.com/x", "bob+tag@example.com"} {
		_, err := ParseNIP05(input)
		require.True(t, errors.Is(err, ErrInvalidNIP05), "input %q: got %v", input, err)
	}
}
