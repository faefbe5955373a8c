package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "triagebot/agent/contract"
)

const (
	ToolRefund         = "process_refund"
	ToolRestartService = "restart_service"
)

// Refund is offered only to premium users. Repeated invocation produces
// repeated confirmations; there is no ledger behind it.
func Refund() GatedTool {
	return GatedTool{
		Info: &schema.ToolInfo{
			Name:        ToolRefund,
			Desc:        "Process a refund for a premium user.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		Enabled: func(user *contractx.UserContext) bool {
			return user != nil && user.IsPremiumUser
		},
		Run: func(_ context.Context, user *contractx.UserContext) (string, error) {
			name := "user"
			if user != nil && strings.TrimSpace(user.Name) != "" {
				name = strings.TrimSpace(user.Name)
			}
			return fmt.Sprintf("✅ Refund processed for %s.", name), nil
		},
	}
}

// RestartService is offered only while the current issue is technical.
func RestartService() GatedTool {
	return GatedTool{
		Info: &schema.ToolInfo{
			Name:        ToolRestartService,
			Desc:        "Restart the user's service if the issue is technical.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		Enabled: func(user *contractx.UserContext) bool {
			return user != nil && user.IssueType == string(contractx.CategoryTechnical)
		},
		Run: func(_ context.Context, _ *contractx.UserContext) (string, error) {
			return "🔄 Service restarted successfully.", nil
		},
	}
}
