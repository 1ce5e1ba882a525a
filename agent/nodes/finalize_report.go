package nodes

import (
	"fmt"
	"strings"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
)

func FinalizeReport(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Session == nil {
		return GraphOutput{}, fmt.Errorf("%w: session state is nil", contractx.ErrValidation)
	}
	if strings.TrimSpace(in.Session.CompressedResearch) == "" {
		return GraphOutput{}, fmt.Errorf("%w: compression produced an empty report", contractx.ErrValidation)
	}

	return GraphOutput{
		SessionID:          in.SessionID,
		CompressedResearch: in.Session.CompressedResearch,
		RawNotes:           in.Session.RawNotes,
		QAReport:           in.Session.QAReport,
		Iterations:         in.Session.Iterations,
	}, nil
}
