package apimodels

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMissingConversation = errors.New(`"conversation" field is required`)
	ErrInvalidConversation = errors.New(`"conversation" must be a string`)
)

type TranscriptRequest struct {
	// Conversation is the raw doctor-patient transcript. An empty string is
	// accepted; only the key's presence is checked.
	Conversation string `json:"conversation"`
}

// ParseTranscriptRequest decodes a JSON object body. An absent key yields
// ErrMissingConversation; a null or non-string value yields
// ErrInvalidConversation. Unknown fields are ignored.
func ParseTranscriptRequest(data []byte) (*TranscriptRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("invalid transcript request: %w", err)
	}
	if fields == nil {
		return nil, errors.New("invalid transcript request: body is null")
	}

	raw, ok := fields["conversation"]
	if !ok {
		return nil, ErrMissingConversation
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, ErrInvalidConversation
	}

	var req TranscriptRequest
	if err := json.Unmarshal(raw, &req.Conversation); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConversation, err)
	}
	return &req, nil
}
