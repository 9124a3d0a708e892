package nostr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Profile metadata keys (NIP-01, NIP-24, LUD-06, LUD-16)
const (
	KeyName        = "name"
	KeyDisplayName = "display_name"
	KeyAbout       = "about"
	KeyWebsite     = "website"
	KeyPicture     = "picture"
	KeyBanner      = "banner"
	KeyNip05       = "nip05"
	KeyLud06       = "lud06"
	KeyLud16       = "lud16"
)

// displayNameAlias is the camelCase spelling some clients still publish
const displayNameAlias = "displayName"

// metadataKeys is the serialization order of the known attributes
var metadataKeys = []string{
	KeyName,
	KeyDisplayName,
	KeyAbout,
	KeyWebsite,
	KeyPicture,
	KeyBanner,
	KeyNip05,
	KeyLud06,
	KeyLud16,
}

// ErrInvalidMetadata is returned when metadata JSON cannot be parsed
var ErrInvalidMetadata = errors.New("invalid metadata")

// Metadata holds kind-0 profile attributes. Every attribute is optional:
// an unset attribute is omitted from JSON and reported as absent by its
// getter, while an attribute set to "" is kept and serialized.
//
// Attribute text is stored as valid UTF-8: each run of invalid bytes passed
// to a builder is replaced with U+FFFD, so getters return exactly what
// AsJSON writes.
//
// The With* builders mutate the receiver and return it so calls can be
// chained. A Metadata is not safe for concurrent mutation.
type Metadata struct {
	name        *string
	displayName *string
	about       *string
	website     *string
	picture     *string
	banner      *string
	nip05       *string
	lud06       *string
	lud16       *string

	// custom holds any other key as compact JSON
	custom map[string]json.RawMessage
}

// NewMetadata returns an empty Metadata with all attributes unset
func NewMetadata() *Metadata {
	return &Metadata{}
}

// ParseMetadata builds a Metadata from a JSON object such as kind-0 content
func ParseMetadata(data string) (*Metadata, error) {
	m := NewMetadata()
	if err := m.UnmarshalJSON([]byte(data)); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metadata) WithName(name string) *Metadata {
	m.name = text(name)
	return m
}

func (m *Metadata) WithDisplayName(displayName string) *Metadata {
	m.displayName = text(displayName)
	return m
}

func (m *Metadata) WithAbout(about string) *Metadata {
	m.about = text(about)
	return m
}

func (m *Metadata) WithWebsite(website string) *Metadata {
	m.website = text(website)
	return m
}

func (m *Metadata) WithPicture(picture string) *Metadata {
	m.picture = text(picture)
	return m
}

func (m *Metadata) WithBanner(banner string) *Metadata {
	m.banner = text(banner)
	return m
}

func (m *Metadata) WithNip05(nip05 string) *Metadata {
	m.nip05 = text(nip05)
	return m
}

// WithLud06 sets the bech32 LNURL-pay string
func (m *Metadata) WithLud06(lud06 string) *Metadata {
	m.lud06 = text(lud06)
	return m
}

// WithLud16 sets the Lightning address (user@domain). The value is not validated.
func (m *Metadata) WithLud16(lud16 string) *Metadata {
	m.lud16 = text(lud16)
	return m
}

// WithCustomField stores value under key. Known keys, and the "displayName"
// alias of display_name, are routed to their attribute and only accept
// strings; other values for known keys, and values that cannot be encoded as
// JSON, are dropped.
func (m *Metadata) WithCustomField(key string, value any) *Metadata {
	if key == displayNameAlias {
		key = KeyDisplayName
	}
	if field := m.field(key); field != nil {
		s, ok := value.(string)
		if !ok {
			slog.Debug("ignoring non-string value for metadata attribute", "key", key)
			return m
		}
		*field = text(s)
		return m
	}

	raw, err := encodeJSON(value)
	if err != nil {
		slog.Warn("ignoring custom metadata field", "key", key, "error", err)
		return m
	}
	if m.custom == nil {
		m.custom = make(map[string]json.RawMessage)
	}
	m.custom[key] = raw
	return m
}

func (m *Metadata) Name() (string, bool)        { return deref(m.name) }
func (m *Metadata) DisplayName() (string, bool) { return deref(m.displayName) }
func (m *Metadata) About() (string, bool)       { return deref(m.about) }
func (m *Metadata) Website() (string, bool)     { return deref(m.website) }
func (m *Metadata) Picture() (string, bool)     { return deref(m.picture) }
func (m *Metadata) Banner() (string, bool)      { return deref(m.banner) }
func (m *Metadata) Nip05() (string, bool)       { return deref(m.nip05) }
func (m *Metadata) Lud06() (string, bool)       { return deref(m.lud06) }
func (m *Metadata) Lud16() (string, bool)       { return deref(m.lud16) }

// CustomField returns the raw JSON stored under a non-standard key
func (m *Metadata) CustomField(key string) (json.RawMessage, bool) {
	raw, ok := m.custom[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(raw), true
}

// CustomKeys returns the non-standard keys in sorted order
func (m *Metadata) CustomKeys() []string {
	return slices.Sorted(maps.Keys(m.custom))
}

// IsEmpty reports whether no attribute has been set
func (m *Metadata) IsEmpty() bool {
	for _, key := range metadataKeys {
		if *m.field(key) != nil {
			return false
		}
	}
	return len(m.custom) == 0
}

// Clone returns an independent copy
func (m *Metadata) Clone() *Metadata {
	c := NewMetadata()
	for _, key := range metadataKeys {
		if v := *m.field(key); v != nil {
			s := *v
			*c.field(key) = &s
		}
	}
	for key, raw := range m.custom {
		if c.custom == nil {
			c.custom = make(map[string]json.RawMessage, len(m.custom))
		}
		c.custom[key] = slices.Clone(raw)
	}
	return c
}

// Equal reports whether both values hold the same set of attributes
func (m *Metadata) Equal(other *Metadata) bool {
	if m == nil || other == nil {
		return m == other
	}
	for _, key := range metadataKeys {
		a, b := *m.field(key), *other.field(key)
		if (a == nil) != (b == nil) {
			return false
		}
		if a != nil && *a != *b {
			return false
		}
	}
	if len(m.custom) != len(other.custom) {
		return false
	}
	for key, raw := range m.custom {
		otherRaw, ok := other.custom[key]
		if !ok || !bytes.Equal(raw, otherRaw) {
			return false
		}
	}
	return true
}

// AsJSON serializes the set attributes as a JSON object. Output is
// deterministic: known keys in a fixed order, then custom keys sorted.
// Unset attributes are omitted; an empty Metadata yields "{}". HTML
// characters are written as-is; U+2028 and U+2029 are escaped.
func (m *Metadata) AsJSON() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	writeMember := func(key string, value []byte) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(encodeString(key))
		buf.WriteByte(':')
		buf.Write(value)
	}

	for _, key := range metadataKeys {
		if v := *m.field(key); v != nil {
			writeMember(key, encodeString(*v))
		}
	}
	for _, key := range m.CustomKeys() {
		writeMember(key, m.custom[key])
	}

	buf.WriteByte('}')
	return buf.String()
}

func (m *Metadata) String() string {
	return m.AsJSON()
}

func (m *Metadata) MarshalJSON() ([]byte, error) {
	return []byte(m.AsJSON()), nil
}

// UnmarshalJSON replaces the receiver's attributes with those in data.
// Null values leave an attribute unset. "displayName" is accepted for
// display_name when the latter is absent.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidMetadata)
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &members); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	if alias, ok := members[displayNameAlias]; ok {
		if _, hasDisplayName := members[KeyDisplayName]; !hasDisplayName {
			members[KeyDisplayName] = alias
			delete(members, displayNameAlias)
		}
	}

	parsed := Metadata{}
	for key, raw := range members {
		if field := parsed.field(key); field != nil {
			if isNull(raw) {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("%w: %q must be a string", ErrInvalidMetadata, key)
			}
			*field = &s
			continue
		}

		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidMetadata, key, err)
		}
		if parsed.custom == nil {
			parsed.custom = make(map[string]json.RawMessage)
		}
		parsed.custom[key] = compact.Bytes()
	}

	*m = parsed
	return nil
}

// field maps a known key to its attribute slot, or nil for custom keys
func (m *Metadata) field(key string) **string {
	switch key {
	case KeyName:
		return &m.name
	case KeyDisplayName:
		return &m.displayName
	case KeyAbout:
		return &m.about
	case KeyWebsite:
		return &m.website
	case KeyPicture:
		return &m.picture
	case KeyBanner:
		return &m.banner
	case KeyNip05:
		return &m.nip05
	case KeyLud06:
		return &m.lud06
	case KeyLud16:
		return &m.lud16
	}
	return nil
}

// text returns s as it will be serialized
func text(s string) *string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	return &s
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// encodeJSON marshals v without HTML escaping, matching what relays and
// other clients produce for event content.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	// Encoder.Encode adds a trailing newline
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func encodeString(s string) []byte {
	// strings always encode
	b, _ := encodeJSON(s)
	return b
}
