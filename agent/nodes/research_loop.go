package nodes

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
	promptx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/prompt"
)

const decisionDateLayout = "Mon Jan 2, 2006"

// RunResearchLoop drives the decide/execute cycle: each pass resolves the
// decision prompt, asks the decision model whether to call tools or stop, and
// dispatches any requested batch in order. The loop exits when the model
// produces a plain answer, or when maxIterations tool rounds have run — in
// that case compression is forced with a warning. A tool batch is always
// fully dispatched before the loop can exit, so no request is left pending.
func RunResearchLoop(
	ctx context.Context,
	in *GraphState,
	prompts *promptx.Store,
	models contractx.ModelSet,
	tools contractx.ToolGateway,
	maxIterations int,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session state is nil", contractx.ErrValidation)
	}

	for {
		system, err := resolveDecisionPrompt(prompts, in.Now)
		if err != nil {
			return nil, err
		}

		conversation := make([]*schema.Message, 0, len(in.Session.Messages)+1)
		conversation = append(conversation, schema.SystemMessage(system))
		conversation = append(conversation, in.Session.Messages...)

		resp, err := models.Decision().Invoke(ctx, conversation)
		if err != nil {
			return nil, err
		}
		in.Session.Append(time.Now(), resp)
		in.Session.Iterations++

		calls := resp.ToolCalls
		if len(calls) == 0 {
			// Plain answer: the model is done gathering evidence.
			return in, nil
		}

		results, err := tools.Execute(ctx, calls)
		if err != nil {
			return nil, err
		}
		in.Session.Append(time.Now(), results...)

		if maxIterations > 0 && in.Session.Iterations >= maxIterations {
			log.Warn().
				Str("session_id", in.SessionID).
				Int("iterations", in.Session.Iterations).
				Msg("iteration budget reached, forcing compression")
			return in, nil
		}
	}
}

func resolveDecisionPrompt(prompts *promptx.Store, now time.Time) (string, error) {
	tpl, err := prompts.Resolve(PromptResearchDecision, "")
	if err != nil {
		return "", err
	}
	logTemplate(tpl)
	return tpl.Render(map[string]string{
		"date": now.Format(decisionDateLayout),
	})
}

// logTemplate emits the telemetry side channel for a resolved template.
func logTemplate(tpl *promptx.Template) {
	log.Debug().
		Fields(tpl.OTelAttributes()).
		Fields(tpl.TraceMetadata()).
		Msg("prompt resolved")
}
