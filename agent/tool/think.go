package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
)

const ToolThink = "think"

// ThinkToolInfo describes the self-reflection capability. The model uses it
// to pause and reason about what it has learned before searching again.
func ThinkToolInfo() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: ToolThink,
		Desc: "Record a strategic reflection on research progress and next steps.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"reflection": {Type: schema.String, Desc: "Detailed reflection on progress, gaps, and next steps", Required: true},
		}),
	}
}

// ThinkHandler echoes the reflection back into the conversation so the next
// decision step can build on it.
func ThinkHandler(ctx context.Context, args map[string]any) (string, error) {
	reflection, err := stringArg(args, "reflection")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Reflection recorded: %s", reflection), nil
}
