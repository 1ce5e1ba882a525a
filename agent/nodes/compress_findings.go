package nodes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
	promptx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/prompt"
	statex "github.com/nattavee/Fathom-Deep-Research-Agent/agent/state"
)

// CompressFindings synthesizes the accumulated conversation into the final
// report and, independently, snapshots the raw assistant/tool content as the
// audit trail.
func CompressFindings(
	ctx context.Context,
	in *GraphState,
	prompts *promptx.Store,
	models contractx.ModelSet,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session state is nil", contractx.ErrValidation)
	}

	sysTpl, err := prompts.Resolve(PromptCompressSystem, "")
	if err != nil {
		return nil, err
	}
	logTemplate(sysTpl)
	system, err := sysTpl.Render(map[string]string{
		"date": in.Now.Format(decisionDateLayout),
	})
	if err != nil {
		return nil, err
	}

	humanTpl, err := prompts.Resolve(PromptCompressHuman, "")
	if err != nil {
		return nil, err
	}
	logTemplate(humanTpl)
	human, err := humanTpl.Render(map[string]string{
		"research_topic": in.Topic,
	})
	if err != nil {
		return nil, err
	}

	conversation := make([]*schema.Message, 0, len(in.Session.Messages)+2)
	conversation = append(conversation, schema.SystemMessage(system))
	conversation = append(conversation, in.Session.Messages...)
	conversation = append(conversation, schema.UserMessage(human))

	resp, err := models.Compression().Invoke(ctx, conversation)
	if err != nil {
		return nil, err
	}

	in.Session.CompressedResearch = strings.TrimSpace(resp.Content)
	in.Session.RawNotes = []string{statex.CollectRawNotes(in.Session.Messages)}
	in.Session.UpdatedAt = time.Now().UTC()
	return in, nil
}
