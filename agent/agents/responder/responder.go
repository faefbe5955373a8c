package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "triagebot/agent/contract"
	toolx "triagebot/agent/tool"
)

type responderImpl struct {
	rt           contractx.ResponderType
	instructions string
	chatModel    einomodel.ToolCallingChatModel
	tools        []toolx.GatedTool

	textRunner compose.Runnable[map[string]any, *schema.Message]
}

// New builds a responder with fixed instructions and fixed tool membership.
// Tool membership never changes after construction; which of those tools the
// model is offered is re-decided on every Run from the user context.
func New(
	ctx context.Context,
	rt contractx.ResponderType,
	chatModel einomodel.ToolCallingChatModel,
	instructions string,
	tools []toolx.GatedTool,
) (contractx.Responder, error) {
	if strings.TrimSpace(instructions) == "" {
		return nil, fmt.Errorf("%w: instructions are required for responder=%s", contractx.ErrValidation, rt)
	}

	textRunner, err := compileResponderGraph(ctx, chatModel, instructions, fmt.Sprintf("responder.%s.text_graph", rt))
	if err != nil {
		return nil, fmt.Errorf("%w: compile text graph for responder=%s: %v", contractx.ErrModelInvoke, rt, err)
	}

	return &responderImpl{
		rt:           rt,
		instructions: instructions,
		chatModel:    chatModel,
		tools:        tools,
		textRunner:   textRunner,
	}, nil
}

func (r *responderImpl) Name() string {
	return string(r.rt)
}

func (r *responderImpl) Run(ctx context.Context, req contractx.ResponderRequest) (contractx.ResponderResponse, error) {
	offered := toolx.Offered(r.tools, req.User)
	if len(offered) == 0 {
		message, err := r.invokeText(ctx, r.textRunner, req, nil)
		if err != nil {
			return contractx.ResponderResponse{}, err
		}
		return contractx.ResponderResponse{Message: message}, nil
	}

	toolModel, err := r.chatModel.WithTools(toolx.Infos(offered))
	if err != nil {
		return contractx.ResponderResponse{}, fmt.Errorf("%w: bind tools for responder=%s: %v", contractx.ErrModelInvoke, r.rt, err)
	}

	// The offered set can differ between turns, so the tool-bound graph is
	// compiled per call rather than at construction.
	toolRunner, err := compileResponderGraph(ctx, toolModel, r.instructions, fmt.Sprintf("responder.%s.tool_graph", r.rt))
	if err != nil {
		return contractx.ResponderResponse{}, fmt.Errorf("%w: compile tool graph for responder=%s: %v", contractx.ErrModelInvoke, r.rt, err)
	}

	msg, err := r.invoke(ctx, toolRunner, req, nil)
	if err != nil {
		return contractx.ResponderResponse{}, err
	}

	if len(msg.ToolCalls) == 0 {
		message := strings.TrimSpace(msg.Content)
		if message == "" {
			return contractx.ResponderResponse{}, fmt.Errorf("%w: responder=%s returned empty message", contractx.ErrSchemaViolation, r.rt)
		}
		return contractx.ResponderResponse{Message: message}, nil
	}

	execute := toolx.NewExecutor(offered)
	results := make([]contractx.ToolResult, 0, len(msg.ToolCalls))
	for _, call := range msg.ToolCalls {
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			return contractx.ResponderResponse{}, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}
		result, err := execute(ctx, name, req.User)
		if err != nil {
			return contractx.ResponderResponse{}, err
		}
		results = append(results, result)
	}

	message, err := r.invokeText(ctx, r.textRunner, req, results)
	if err != nil {
		return contractx.ResponderResponse{}, err
	}

	return contractx.ResponderResponse{
		Message:     message,
		ToolResults: results,
	}, nil
}

func (r *responderImpl) invokeText(
	ctx context.Context,
	runner compose.Runnable[map[string]any, *schema.Message],
	req contractx.ResponderRequest,
	toolResults []contractx.ToolResult,
) (string, error) {
	msg, err := r.invoke(ctx, runner, req, toolResults)
	if err != nil {
		return "", err
	}

	message := strings.TrimSpace(msg.Content)
	if message == "" {
		return "", fmt.Errorf("%w: responder=%s returned empty message", contractx.ErrSchemaViolation, r.rt)
	}
	return message, nil
}

func (r *responderImpl) invoke(
	ctx context.Context,
	runner compose.Runnable[map[string]any, *schema.Message],
	req contractx.ResponderRequest,
	toolResults []contractx.ToolResult,
) (*schema.Message, error) {
	payload := map[string]any{
		"user_message": req.Prompt,
		"user":         summarizeUser(req.User),
	}
	if len(toolResults) > 0 {
		payload["tool_results"] = toolResults
	}

	input, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal responder payload: %v", contractx.ErrValidation, err)
	}

	msg, err := runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: responder=%s invoke: %v", contractx.ErrModelInvoke, r.rt, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: responder=%s returned nil message", contractx.ErrSchemaViolation, r.rt)
	}
	return msg, nil
}

func summarizeUser(user *contractx.UserContext) map[string]any {
	if user == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":            user.Name,
		"is_premium_user": user.IsPremiumUser,
		"issue_type":      user.IssueType,
	}
}
