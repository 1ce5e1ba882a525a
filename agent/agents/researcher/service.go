package researcher

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
	nodex "github.com/nattavee/Fathom-Deep-Research-Agent/agent/nodes"
	promptx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/prompt"
	statex "github.com/nattavee/Fathom-Deep-Research-Agent/agent/state"
)

var (
	ErrInvalidSession = nodex.ErrInvalidSession
	ErrInvalidTopic   = nodex.ErrInvalidTopic
)

const defaultMaxIterations = 6

type Config struct {
	// MaxIterations bounds the decide/execute cycle; when reached the
	// session is forced into compression. Zero means the default, a
	// negative value disables the bound.
	MaxIterations int
}

// Researcher runs research sessions: an iterative decide/execute loop
// followed by compression, quality assessment, and archival.
type Researcher struct {
	prompts *promptx.Store
	models  contractx.ModelSet
	tools   contractx.ToolGateway
	archive statex.Store

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	maxIterations int

	now func() time.Time
}

// New validates dependencies and compiles the session graph once. The
// archive store may be nil; everything else is required.
func New(
	prompts *promptx.Store,
	models contractx.ModelSet,
	tools contractx.ToolGateway,
	archive statex.Store,
	cfg Config,
) (*Researcher, error) {
	if prompts == nil {
		return nil, errors.New("prompt store is required")
	}
	if models == nil {
		return nil, errors.New("model set is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	maxIterations := cfg.MaxIterations
	if maxIterations == 0 {
		maxIterations = defaultMaxIterations
	}
	if maxIterations < 0 {
		maxIterations = 0
	}

	r := &Researcher{
		prompts:       prompts,
		models:        models,
		tools:         tools,
		archive:       archive,
		maxIterations: maxIterations,
		now:           time.Now,
	}

	graphRunner, err := r.compileSessionGraph(context.Background())
	if err != nil {
		return nil, err
	}
	r.graphRunner = graphRunner

	return r, nil
}

// Research runs one full session from topic to assessed report.
func (r *Researcher) Research(ctx context.Context, sessionID, topic string) (contractx.ResearchReport, error) {
	out, err := r.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Topic:     topic,
	})
	if err != nil {
		return contractx.ResearchReport{}, err
	}
	return contractx.ResearchReport{
		SessionID:          out.SessionID,
		CompressedResearch: out.CompressedResearch,
		RawNotes:           out.RawNotes,
		QAReport:           out.QAReport,
		Iterations:         out.Iterations,
	}, nil
}
