package responder

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "triagebot/agent/contract"
	toolx "triagebot/agent/tool"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int

	boundTools []*schema.ToolInfo
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	f.boundTools = tools
	return f, nil
}

func TestResponderPlainText(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: "You can reset your password from the settings page."},
		},
	}

	resp, err := newTestResponder(t, contractx.ResponderGeneral, fake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := resp.Run(context.Background(), contractx.ResponderRequest{
		Prompt: "how do I reset my password",
		User:   &contractx.UserContext{Name: "Omer"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Message != "You can reset your password from the settings page." {
		t.Fatalf("unexpected message: %q", out.Message)
	}
	if len(out.ToolResults) != 0 {
		t.Fatalf("expected no tool results, got %#v", out.ToolResults)
	}
	if fake.boundTools != nil {
		t.Fatal("no tools must be bound for a responder without gated tools")
	}
}

func TestResponderToolCallFlow(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{
						ID:   "call_1",
						Type: "function",
						Function: schema.FunctionCall{
							Name:      toolx.ToolRefund,
							Arguments: "{}",
						},
					},
				},
			},
			{Content: "Done! Your refund has been processed."},
		},
	}

	resp, err := newTestResponder(t, contractx.ResponderBilling, fake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := resp.Run(context.Background(), contractx.ResponderRequest{
		Prompt: "I want a refund",
		User:   &contractx.UserContext{Name: "Omer", IsPremiumUser: true},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Message != "Done! Your refund has been processed." {
		t.Fatalf("unexpected message: %q", out.Message)
	}
	if len(out.ToolResults) != 1 {
		t.Fatalf("expected 1 tool result, got %d", len(out.ToolResults))
	}
	if out.ToolResults[0].Output != "✅ Refund processed for Omer." {
		t.Fatalf("unexpected tool output: %q", out.ToolResults[0].Output)
	}
	if len(fake.boundTools) != 1 || fake.boundTools[0].Name != toolx.ToolRefund {
		t.Fatalf("unexpected bound tools: %#v", fake.boundTools)
	}
}

func TestResponderGatedToolNotBoundForNonPremium(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: "I cannot process refunds for your account tier."},
		},
	}

	resp, err := newTestResponder(t, contractx.ResponderBilling, fake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := resp.Run(context.Background(), contractx.ResponderRequest{
		Prompt: "I want a refund",
		User:   &contractx.UserContext{Name: "Omer", IsPremiumUser: false},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if fake.boundTools != nil {
		t.Fatalf("refund tool must not be bound for non-premium user, got %#v", fake.boundTools)
	}
	if len(out.ToolResults) != 0 {
		t.Fatalf("expected no tool results, got %#v", out.ToolResults)
	}
}

func TestResponderRejectsNonOfferedToolCall(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{
						ID:   "call_1",
						Type: "function",
						Function: schema.FunctionCall{
							Name: toolx.ToolRestartService,
						},
					},
				},
			},
		},
	}

	resp, err := newTestResponder(t, contractx.ResponderBilling, fake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = resp.Run(context.Background(), contractx.ResponderRequest{
		Prompt: "restart my service",
		User:   &contractx.UserContext{IsPremiumUser: true},
	})
	if err == nil {
		t.Fatal("expected error for non-offered tool call")
	}
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestResponderModelFailurePropagates(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{err: errors.New("connection refused")}

	resp, err := newTestResponder(t, contractx.ResponderGeneral, fake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = resp.Run(context.Background(), contractx.ResponderRequest{
		Prompt: "hello",
		User:   &contractx.UserContext{},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestResponderEmptyMessageIsViolation(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: "   "},
		},
	}

	resp, err := newTestResponder(t, contractx.ResponderGeneral, fake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = resp.Run(context.Background(), contractx.ResponderRequest{
		Prompt: "hello",
		User:   &contractx.UserContext{},
	})
	if err == nil {
		t.Fatal("expected error for empty message")
	}
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func newTestResponder(t *testing.T, rt contractx.ResponderType, fake *fakeToolCallingModel) (contractx.Responder, error) {
	t.Helper()
	return New(context.Background(), rt, fake, "test instructions", toolx.ForResponder(rt))
}
