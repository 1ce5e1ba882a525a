package nodes

import (
	"fmt"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
	statex "github.com/nattavee/Fathom-Deep-Research-Agent/agent/state"
)

// InitSession seeds the conversation with the single human turn carrying the
// research topic.
func InitSession(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.Session = statex.NewResearchState(in.SessionID, in.Topic, in.Now)
	return in, nil
}
