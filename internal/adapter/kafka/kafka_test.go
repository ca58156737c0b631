package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/gsod-etl/internal/domain"
)

func TestToMessage(t *testing.T) {
	event := domain.OutputEvent{
		Key:   []byte("030050-99999-19291001"),
		Value: []byte(`{"station":{"usaf":"030050"}}`),
		Headers: map[string]string{
			"station":   "030050-99999-1929",
			"parsed_at": "2026-08-24T12:00:00Z",
		},
	}

	msg := toMessage(event)

	assert.Equal(t, []byte("030050-99999-19291001"), msg.Key)
	assert.JSONEq(t, `{"station":{"usaf":"030050"}}`, string(msg.Value))

	// Headers come out sorted by key.
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "parsed_at", msg.Headers[0].Key)
	assert.Equal(t, []byte("2026-08-24T12:00:00Z"), msg.Headers[0].Value)
	assert.Equal(t, "station", msg.Headers[1].Key)
	assert.Equal(t, []byte("030050-99999-1929"), msg.Headers[1].Value)
}

func TestToMessage_NoHeaders(t *testing.T) {
	msg := toMessage(domain.OutputEvent{Key: []byte("k"), Value: []byte("v")})
	assert.Empty(t, msg.Headers)
}
