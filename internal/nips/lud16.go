package nips

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLightningAddress is returned for lud16 values not shaped user@domain
var ErrInvalidLightningAddress = errors.New("invalid lightning address")

// LightningAddress is a parsed LUD-16 identifier
type LightningAddress struct {
	User   string
	Domain string
}

// ParseLightningAddress parses user@domain. Both parts are lower-cased.
func ParseLightningAddress(lud16 string) (LightningAddress, error) {
	parts := strings.SplitN(strings.TrimSpace(lud16), "@", 2)
	if len(parts) != 2 {
		return LightningAddress{}, fmt.Errorf("%w: expected user@domain", ErrInvalidLightningAddress)
	}
	user := strings.ToLower(parts[0])
	domain := strings.ToLower(parts[1])

	if user == "" || domain == "" {
		return LightningAddress{}, fmt.Errorf("%w: empty username or domain", ErrInvalidLightningAddress)
	}
	if strings.ContainsAny(user, "/?#: ") || strings.ContainsAny(domain, "@/?# ") {
		return LightningAddress{}, fmt.Errorf("%w: %q", ErrInvalidLightningAddress, lud16)
	}

	return LightningAddress{User: user, Domain: domain}, nil
}

func (a LightningAddress) String() string {
	return a.User + "@" + a.Domain
}

// PayURL is the LNURL-pay endpoint, https://<domain>/.well-known/lnurlp/<user>.
// Onion domains use plain http.
func (a LightningAddress) PayURL() string {
	scheme := "https"
	if strings.HasSuffix(a.Domain, ".onion") {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/.well-known/lnurlp/%s", scheme, a.Domain, a.User)
}

// LNURL returns the pay endpoint encoded as a lud06 string
func (a LightningAddress) LNURL() (string, error) {
	return EncodeLNURL(a.PayURL())
}

// URI is the lightning: link wallets open
func (a LightningAddress) URI() string {
	return "lightning:" + a.String()
}
