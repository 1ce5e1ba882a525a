package nodes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
	promptx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/prompt"
)

// AssessQuality runs the independent review over the compressed report only;
// the raw conversation is deliberately not visible to this step.
func AssessQuality(
	ctx context.Context,
	in *GraphState,
	prompts *promptx.Store,
	models contractx.ModelSet,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session state is nil", contractx.ErrValidation)
	}

	tpl, err := prompts.Resolve(PromptQAReview, "")
	if err != nil {
		return nil, err
	}
	logTemplate(tpl)
	content, err := tpl.Render(map[string]string{
		"research_report": in.Session.CompressedResearch,
	})
	if err != nil {
		return nil, err
	}

	resp, err := models.Assessment().Invoke(ctx, []*schema.Message{schema.UserMessage(content)})
	if err != nil {
		return nil, err
	}

	in.Session.QAReport = strings.TrimSpace(resp.Content)
	in.Session.UpdatedAt = time.Now().UTC()
	return in, nil
}
