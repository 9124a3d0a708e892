package nips

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidNIP05 is returned for malformed nip05 identifiers
var ErrInvalidNIP05 = errors.New("invalid nip05 identifier")

// nip05NamePattern restricts the local part to a-z0-9-_.
var nip05NamePattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// NIP05Identifier is a parsed name@domain internet identifier
type NIP05Identifier struct {
	Name   string
	Domain string
}

// ParseNIP05 parses name@domain; a bare domain means the root "_" name
func ParseNIP05(nip05 string) (NIP05Identifier, error) {
	nip05 = strings.ToLower(strings.TrimSpace(nip05))
	if nip05 == "" {
		return NIP05Identifier{}, fmt.Errorf("%w: empty", ErrInvalidNIP05)
	}

	name, domain, found := strings.Cut(nip05, "@")
	if !found {
		name, domain = "_", nip05
	}
	if !nip05NamePattern.MatchString(name) {
		return NIP05Identifier{}, fmt.Errorf("%w: name %q", ErrInvalidNIP05, name)
	}
	if domain == "" || strings.ContainsAny(domain, "@/?# ") {
		return NIP05Identifier{}, fmt.Errorf("%w: domain %q", ErrInvalidNIP05, domain)
	}

	return NIP05Identifier{Name: name, Domain: domain}, nil
}

func (id NIP05Identifier) String() string {
	return id.Name + "@" + id.Domain
}

// WellKnownURL is the document a verifier fetches for this identifier
func (id NIP05Identifier) WellKnownURL() string {
	return fmt.Sprintf("https://%s/.well-known/nostr.json?name=%s", id.Domain, url.QueryEscape(id.Name))
}

// DisplayName shows root identifiers (_@domain) as just the domain
func (id NIP05Identifier) DisplayName() string {
	if id.Name == "_" {
		return id.Domain
	}
	return id.String()
}
