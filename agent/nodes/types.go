package nodes

import (
	"errors"
	"time"

	statex "github.com/nattavee/Fathom-Deep-Research-Agent/agent/state"
)

// Prompt names resolved from the store at each step of the session.
const (
	PromptResearchDecision = "research_decision"
	PromptCompressSystem   = "compress_system"
	PromptCompressHuman    = "compress_human"
	PromptQAReview         = "qa_review"
)

var (
	ErrInvalidSession = errors.New("session id is empty")
	ErrInvalidTopic   = errors.New("research topic is empty")
)

// GraphInput starts one research session.
type GraphInput struct {
	SessionID string
	Topic     string
}

// GraphOutput is the terminal result of the graph.
type GraphOutput struct {
	SessionID          string
	CompressedResearch string
	RawNotes           []string
	QAReport           string
	Iterations         int
}

// GraphState is threaded through the graph nodes of one session.
type GraphState struct {
	SessionID string
	Topic     string
	Now       time.Time

	Session *statex.ResearchState
}
