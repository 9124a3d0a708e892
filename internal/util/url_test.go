package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublicHTTPURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"https://example.com/pic.png", "https://example.com/pic.png", true},
		{" http://example.com ", "http://example.com", true},
		{"javascript:alert(1)", "", false},
		{"data:image/png;base64,AAAA", "", false},
		{"ftp://example.com/file", "", false},
		{"/relative/path.png", "", false},
		{"https://localhost/x", "", false},
		{"https://127.0.0.1/x", "", false},
		{"https://192.168.1.10/x", "", false},
		{"https://10.0.0.1/x", "", false},
		{"https://[::1]/x", "", false},
		{"https://printer.local/x", "", false},
		{"https://hidden.onion/x", "", false},
		{"https://169.254.169.254/latest", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := PublicHTTPURL(tt.raw)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
