package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ModelInvoker runs one chat completion over an accumulated conversation.
// Implementations block until the full response is available; cancellation
// happens through ctx.
type ModelInvoker interface {
	Invoke(ctx context.Context, messages []*schema.Message) (*schema.Message, error)
}

// ModelSet exposes the three independently configured model profiles a
// research session needs.
type ModelSet interface {
	// Decision drives the search-or-stop loop and may emit tool calls.
	Decision() ModelInvoker
	// Compression synthesizes the final report with a large output budget.
	Compression() ModelInvoker
	// Assessment reviews the compressed report; never emits tool calls.
	Assessment() ModelInvoker
}

// ToolGateway executes a batch of tool calls, producing exactly one
// tool-role message per call in call order.
type ToolGateway interface {
	Execute(ctx context.Context, calls []schema.ToolCall) ([]*schema.Message, error)
}
