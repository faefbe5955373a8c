package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "triagebot/agent/contract"
)

// GatedTool pairs a side-effecting action with a predicate over the user
// context. Membership in a responder's tool set is fixed at construction;
// whether the tool is offered is re-evaluated on every turn.
type GatedTool struct {
	Info    *schema.ToolInfo
	Enabled func(user *contractx.UserContext) bool
	Run     func(ctx context.Context, user *contractx.UserContext) (string, error)
}

// Offered filters tools down to those whose gate passes for this turn.
// Gate evaluation must not mutate the user context.
func Offered(tools []GatedTool, user *contractx.UserContext) []GatedTool {
	var offered []GatedTool
	for _, t := range tools {
		if t.Enabled != nil && t.Enabled(user) {
			offered = append(offered, t)
		}
	}
	return offered
}

// Infos extracts the eino tool descriptors for an offered set.
func Infos(tools []GatedTool) []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		infos = append(infos, t.Info)
	}
	return infos
}

// ForResponder returns the fixed tool membership for a responder type.
func ForResponder(rt contractx.ResponderType) []GatedTool {
	switch rt {
	case contractx.ResponderBilling:
		return []GatedTool{Refund()}
	case contractx.ResponderTechnical:
		return []GatedTool{RestartService()}
	default:
		return nil
	}
}

// Executor runs a tool call by name against the offered set for one turn.
type Executor func(ctx context.Context, tool string, user *contractx.UserContext) (contractx.ToolResult, error)

// NewExecutor builds an Executor over the tools offered this turn. A call
// naming a tool outside the offered set is a contract violation, not a
// soft failure: the gate already removed it from what the model may use.
func NewExecutor(offered []GatedTool) Executor {
	byName := make(map[string]GatedTool, len(offered))
	for _, t := range offered {
		if t.Info == nil || t.Info.Name == "" {
			continue
		}
		byName[t.Info.Name] = t
	}

	return func(ctx context.Context, tool string, user *contractx.UserContext) (contractx.ToolResult, error) {
		t, ok := byName[tool]
		if !ok {
			return contractx.ToolResult{}, fmt.Errorf("%w: tool=%s is not offered for this turn", contractx.ErrSchemaViolation, tool)
		}

		out, err := t.Run(ctx, user)
		if err != nil {
			return contractx.ToolResult{
				Tool:  tool,
				Error: err.Error(),
			}, nil
		}
		return contractx.ToolResult{
			Tool:   tool,
			Output: out,
		}, nil
	}
}
