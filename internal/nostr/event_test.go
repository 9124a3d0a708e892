package nostr

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"nostr-metadata/internal/types"
)

const (
	testSecretHex = "edc90d06fee17615229c8526dc005d959e4af3bdc0b48c5776c951bcafedec85"
	testPubkeyHex = "bbde6a0e8847e1cdb2ba5ec021cc949eb3cef125b8304a748fe11c0407990eec"
)

func scenarioMetadata() *Metadata {
	return NewMetadata().
		WithName("test").
		WithDisplayName("Testing Rust Nostr").
		WithLud16("yuki@getalby.com")
}

func TestComputeEventIDKnownVector(t *testing.T) {
	evt := NewMetadataEvent(scenarioMetadata(), 1700000000)
	evt.PubKey = testPubkeyHex

	require.Equal(t, "be4a2d14ddfb061638acc6d5b8ca09291d49205b237646acc19dde5ee31d132a", ComputeEventID(evt))
}

func TestComputeEventIDNilTags(t *testing.T) {
	withNil := &types.Event{PubKey: testPubkeyHex, CreatedAt: 1, Kind: 1, Content: "<hi>"}
	withEmpty := &types.Event{PubKey: testPubkeyHex, CreatedAt: 1, Kind: 1, Tags: [][]string{}, Content: "<hi>"}
	require.Equal(t, ComputeEventID(withEmpty), ComputeEventID(withNil))
}

func TestComputeEventIDEscaping(t *testing.T) {
	evt := &types.Event{
		PubKey:    testPubkeyHex,
		CreatedAt: 1700000000,
		Kind:      1,
		Tags:      [][]string{{"t", "line\u2029sep"}},
		Content:   "hello\u2028world\n\t\x01 \"q\" \\ <b>&</b> \x7f \u00e9",
	}

	require.Equal(t,
		"[0,\"bbde6a0e8847e1cdb2ba5ec021cc949eb3cef125b8304a748fe11c0407990eec\",1700000000,1,"+
			"[[\"t\",\"line\u2029sep\"]],"+
			"\"hello\u2028world\\n\\t\\u0001 \\\"q\\\" \\\\ <b>&</b> \x7f \u00e9\"]",
		string(serializeEvent(evt)))
	require.Equal(t, "4ec58bbfd10bafefb7bba082301ce3aa8fa78082186d97a45c5ec1b8adeb440a", ComputeEventID(evt))

	lineSep := &types.Event{PubKey: testPubkeyHex, CreatedAt: 1700000000, Kind: 1, Content: "hello\u2028world"}
	require.Equal(t, "b5377c60a9c5e0cce5f0d3ed00d9afa1fa0d3140bb137e2d9c5902c15667e19d", ComputeEventID(lineSep))
}

func TestComputeEventIDKeepsInvalidUTF8(t *testing.T) {
	evt := &types.Event{PubKey: testPubkeyHex, CreatedAt: 1, Kind: 1, Content: "a\xffb"}
	require.Contains(t, string(serializeEvent(evt)), "\"a\xffb\"")

	replaced := *evt
	replaced.Content = "a\uFFFDb"
	require.NotEqual(t, ComputeEventID(&replaced), ComputeEventID(evt))
}

func TestSignEventWithLineSeparatorsValidates(t *testing.T) {
	keys, err := ParseKeys(testSecretHex)
	require.NoError(t, err)

	evt := NewMetadataEvent(NewMetadata().WithAbout("first\u2028second"), 1700000000)
	require.NoError(t, keys.SignEvent(evt))

	data, err := json.Marshal(evt)
	require.NoError(t, err)
	var parsed types.Event
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.True(t, ValidateEventSignature(&parsed))
}

func TestSignMetadataEvent(t *testing.T) {
	keys, err := ParseKeys(testSecretHex)
	require.NoError(t, err)

	evt := NewMetadataEvent(scenarioMetadata(), 1700000000)
	require.Equal(t, types.KindMetadata, evt.Kind)
	require.NoError(t, keys.SignEvent(evt))

	require.Equal(t, testPubkeyHex, evt.PubKey)
	require.Equal(t, "be4a2d14ddfb061638acc6d5b8ca09291d49205b237646acc19dde5ee31d132a", evt.ID)
	require.Len(t, evt.Sig, 128)
	require.True(t, ValidateEventSignature(evt))

	// What a relay would receive and re-parse
	data, err := json.Marshal(evt)
	require.NoError(t, err)
	var parsed types.Event
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.True(t, ValidateEventSignature(&parsed))

	m, err := MetadataFromEvent(&parsed)
	require.NoError(t, err)
	require.True(t, scenarioMetadata().Equal(m))
}

func TestValidateEventSignatureRejectsTampering(t *testing.T) {
	keys, err := GenerateKeys()
	require.NoError(t, err)

	evt := NewMetadataEvent(NewMetadata().WithName("alice"), 1700000000)
	require.NoError(t, keys.SignEvent(evt))
	require.True(t, ValidateEventSignature(evt))

	tampered := *evt
	tampered.Content = `{"name":"mallory"}`
	require.False(t, ValidateEventSignature(&tampered), "content change must invalidate the event")

	resigned := tampered
	resigned.ID = ComputeEventID(&resigned)
	require.False(t, ValidateEventSignature(&resigned), "old signature must not cover a new id")

	short := *evt
	short.Sig = evt.Sig[:64]
	require.False(t, ValidateEventSignature(&short))
}

func TestMetadataFromEventWrongKind(t *testing.T) {
	_, err := MetadataFromEvent(&types.Event{Kind: 1, Content: `{"name":"x"}`})
	require.True(t, errors.Is(err, ErrNotMetadataEvent))
}

func TestMetadataFromEventBadContent(t *testing.T) {
	_, err := MetadataFromEvent(&types.Event{ID: "abcdef0123456789", Kind: 0, Content: "not json"})
	require.True(t, errors.Is(err, ErrInvalidMetadata))
}

func TestShortID(t *testing.T) {
	require.Equal(t, "bbde6a0e8847", ShortID(testPubkeyHex))
	require.Equal(t, "abc", ShortID("abc"))
}
