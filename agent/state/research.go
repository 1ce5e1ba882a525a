package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
)

var (
	ErrInvalidSession = errors.New("session id is empty")
	ErrInvalidTopic   = errors.New("research topic is empty")
)

// ResearchState is the full record of one research session: an append-only
// conversation plus the artifacts produced at compression and assessment.
// Turns are never mutated in place or truncated.
type ResearchState struct {
	SessionID string `json:"session_id"`
	Topic     string `json:"topic"`

	Messages   []*schema.Message `json:"messages"`
	Iterations int               `json:"iterations"`

	CompressedResearch string   `json:"compressed_research,omitempty"`
	RawNotes           []string `json:"raw_notes,omitempty"`
	QAReport           string   `json:"qa_report,omitempty"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewResearchState seeds a session with a single human turn carrying the
// research topic.
func NewResearchState(sessionID, topic string, now time.Time) *ResearchState {
	return &ResearchState{
		SessionID: sessionID,
		Topic:     topic,
		Messages:  []*schema.Message{schema.UserMessage(topic)},
		StartedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// Append adds turns to the conversation.
func (s *ResearchState) Append(now time.Time, msgs ...*schema.Message) {
	s.Messages = append(s.Messages, msgs...)
	s.UpdatedAt = now.UTC()
}

// LastMessage returns the most recent turn, or nil.
func (s *ResearchState) LastMessage() *schema.Message {
	if s == nil || len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// PendingToolCalls returns the tool-call requests carried by the most recent
// turn when it is an assistant turn.
func (s *ResearchState) PendingToolCalls() []schema.ToolCall {
	last := s.LastMessage()
	if last == nil || last.Role != schema.Assistant {
		return nil
	}
	return last.ToolCalls
}

// Validate checks the tool-result correlation invariant: every tool turn
// answers a pending call from the immediately preceding assistant turn, and
// every pending call is answered before the next assistant turn.
func (s *ResearchState) Validate() error {
	if s == nil || strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	if strings.TrimSpace(s.Topic) == "" {
		return ErrInvalidTopic
	}

	pending := map[string]bool{}
	for i, msg := range s.Messages {
		if msg == nil {
			return fmt.Errorf("nil message at index %d", i)
		}
		switch msg.Role {
		case schema.Assistant:
			if len(pending) > 0 {
				return fmt.Errorf("assistant turn at index %d with %d unresolved tool calls", i, len(pending))
			}
			for _, call := range msg.ToolCalls {
				pending[call.ID] = true
			}
		case schema.Tool:
			if !pending[msg.ToolCallID] {
				return fmt.Errorf("tool turn at index %d answers unknown call id %q", i, msg.ToolCallID)
			}
			delete(pending, msg.ToolCallID)
		}
	}
	return nil
}

// CollectRawNotes joins the textual content of every assistant and tool turn,
// in original order, with single newlines. This is the audit trail kept
// alongside the synthesized report.
func CollectRawNotes(msgs []*schema.Message) string {
	notes := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg == nil {
			continue
		}
		if msg.Role == schema.Assistant || msg.Role == schema.Tool {
			notes = append(notes, msg.Content)
		}
	}
	return strings.Join(notes, "\n")
}
