package nodes

import (
	"strings"
	"time"
)

func ValidateRequest(in GraphInput, now func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, ErrInvalidTopic
	}

	return &GraphState{
		SessionID: sessionID,
		Topic:     topic,
		Now:       now(),
	}, nil
}
