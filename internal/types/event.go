// Package types provides shared type definitions used across internal packages.
package types

// Kind 0 carries a user's profile metadata as stringified JSON content (NIP-01)
const KindMetadata = 0

// Event represents a Nostr event (NIP-01)
type Event struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}
