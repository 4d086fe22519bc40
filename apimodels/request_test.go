package apimodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTranscriptRequest(t *testing.T) {
	req, err := ParseTranscriptRequest([]byte(`{"conversation": "Doctor: Hi. Patient: Hello.", "extra": 1}`))
	require.NoError(t, err)
	assert.Equal(t, "Doctor: Hi. Patient: Hello.", req.Conversation)

	req, err = ParseTranscriptRequest([]byte(`{"conversation": ""}`))
	require.NoError(t, err)
	assert.Empty(t, req.Conversation)
}

func TestParseTranscriptRequestErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		is   error
	}{
		{"missing key", `{}`, ErrMissingConversation},
		{"null value", `{"conversation": null}`, ErrInvalidConversation},
		{"number value", `{"conversation": 42}`, ErrInvalidConversation},
		{"object value", `{"conversation": {"text": "x"}}`, ErrInvalidConversation},
		{"array body", `[]`, nil},
		{"null body", `null`, nil},
		{"truncated", `{"conversation":`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTranscriptRequest([]byte(tt.body))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			} else {
				assert.NotErrorIs(t, err, ErrMissingConversation)
				assert.NotErrorIs(t, err, ErrInvalidConversation)
			}
		})
	}
}
