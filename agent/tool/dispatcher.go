package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
)

// Handler executes one tool call and returns its textual result.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Dispatcher is a registry of named capabilities built once at startup.
// Lookup misses are typed errors, never a silent no-op.
type Dispatcher struct {
	infos    []*schema.ToolInfo
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]Handler, 4),
	}
}

// Register binds a tool definition to its handler. Names must be unique.
func (d *Dispatcher) Register(info *schema.ToolInfo, handler Handler) error {
	if info == nil || strings.TrimSpace(info.Name) == "" {
		return fmt.Errorf("%w: tool info with a name is required", contractx.ErrValidation)
	}
	if handler == nil {
		return fmt.Errorf("%w: handler is required for tool=%s", contractx.ErrValidation, info.Name)
	}
	if _, ok := d.handlers[info.Name]; ok {
		return fmt.Errorf("%w: tool=%s already registered", contractx.ErrValidation, info.Name)
	}
	d.handlers[info.Name] = handler
	d.infos = append(d.infos, info)
	return nil
}

// Infos returns the registered tool definitions in registration order,
// suitable for binding to a tool-calling chat model.
func (d *Dispatcher) Infos() []*schema.ToolInfo {
	return d.infos
}

// Execute runs every call in its original order and returns one tool-role
// message per call, correlated by ToolCallID. Any lookup or handler failure
// aborts the batch; there is no partial salvage.
func (d *Dispatcher) Execute(ctx context.Context, calls []schema.ToolCall) ([]*schema.Message, error) {
	results := make([]*schema.Message, 0, len(calls))
	for _, call := range calls {
		name := strings.TrimSpace(call.Function.Name)
		handler, ok := d.handlers[name]
		if !ok {
			return nil, fmt.Errorf("%w: tool=%q", contractx.ErrToolNotFound, name)
		}

		args, err := decodeArgs(call.Function.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid args for tool=%s: %v", contractx.ErrValidation, name, err)
		}

		out, err := handler(ctx, args)
		if err != nil {
			return nil, fmt.Errorf("%w: tool=%s: %v", contractx.ErrToolInvoke, name, err)
		}

		results = append(results, &schema.Message{
			Role:       schema.Tool,
			Content:    out,
			ToolCallID: call.ID,
		})
	}
	return results, nil
}

func decodeArgs(raw string) (map[string]any, error) {
	args := map[string]any{}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return nil, err
	}
	return args, nil
}
