package researcher

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/nattavee/Fathom-Deep-Research-Agent/agent/nodes"
)

func (r *Researcher) compileSessionGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, r.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("init_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.InitSession(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node init_session: %w", err)
	}

	if err := graph.AddLambdaNode("research_loop",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RunResearchLoop(ctx, in, r.prompts, r.models, r.tools, r.maxIterations)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node research_loop: %w", err)
	}

	if err := graph.AddLambdaNode("compress_findings",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CompressFindings(ctx, in, r.prompts, r.models)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node compress_findings: %w", err)
	}

	if err := graph.AddLambdaNode("assess_quality",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AssessQuality(ctx, in, r.prompts, r.models)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node assess_quality: %w", err)
	}

	if err := graph.AddLambdaNode("archive_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ArchiveSession(ctx, in, r.archive)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node archive_session: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_report",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReport(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_report: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "init_session"},
		{"init_session", "research_loop"},
		{"research_loop", "compress_findings"},
		{"compress_findings", "assess_quality"},
		{"assess_quality", "archive_session"},
		{"archive_session", "finalize_report"},
		{"finalize_report", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("researcher.session"))
	if err != nil {
		return nil, fmt.Errorf("compile researcher graph: %w", err)
	}
	return runner, nil
}
