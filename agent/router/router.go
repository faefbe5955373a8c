package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "triagebot/agent/contract"
	transcriptx "triagebot/agent/transcript"
)

// GraphInput is one user query plus the session's user context.
type GraphInput struct {
	Prompt string
	User   *contractx.UserContext
}

// GraphState flows through the single-turn protocol:
// validate -> classify -> dispatch -> record -> finalize.
type GraphState struct {
	Prompt string
	User   *contractx.UserContext

	// IssueToken is the normalized triage output, stored in the user
	// context even when it parses to no known category.
	IssueToken string
	Category   contractx.Category

	Reply       string
	ToolResults []contractx.ToolResult
}

type GraphOutput struct {
	Reply    string
	Category contractx.Category
}

// Router performs one triage classification per query and dispatches to
// exactly one category responder.
type Router struct {
	registry    contractx.Registry
	transcripts transcriptx.Store
	sessionID   string

	graphRunner compose.Runnable[GraphInput, GraphOutput]

	now func() time.Time
}

func New(registry contractx.Registry, transcripts transcriptx.Store, sessionID string) (*Router, error) {
	if registry == nil {
		return nil, errors.New("responder registry is required")
	}
	if transcripts == nil {
		transcripts = transcriptx.Noop{}
	}

	r := &Router{
		registry:    registry,
		transcripts: transcripts,
		sessionID:   strings.TrimSpace(sessionID),
		now:         time.Now,
	}

	graphRunner, err := r.compileHandleQueryGraph(context.Background())
	if err != nil {
		return nil, err
	}
	r.graphRunner = graphRunner

	return r, nil
}

// HandleQuery runs the full single-turn protocol for one prompt. The user
// context is mutated in place: IssueType is set to the normalized triage
// token before dispatch.
func (r *Router) HandleQuery(ctx context.Context, prompt string, user *contractx.UserContext) (string, error) {
	out, err := r.graphRunner.Invoke(ctx, GraphInput{
		Prompt: prompt,
		User:   user,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (r *Router) validateRequest(in GraphInput) (*GraphState, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is empty", contractx.ErrValidation)
	}
	if in.User == nil {
		return nil, fmt.Errorf("%w: user context is required", contractx.ErrValidation)
	}
	return &GraphState{
		Prompt: prompt,
		User:   in.User,
	}, nil
}

func (r *Router) classify(ctx context.Context, in *GraphState) (*GraphState, error) {
	resp, err := r.registry.Triage().Run(ctx, contractx.ResponderRequest{
		Prompt: in.Prompt,
		User:   in.User,
	})
	if err != nil {
		return nil, err
	}

	token := contractx.NormalizeToken(resp.Message)
	in.IssueToken = token
	// The token is stored even when unrecognized; the context always
	// reflects the latest classification verbatim.
	in.User.IssueType = token
	in.Category = contractx.ParseCategory(token)

	evt := log.Info()
	if in.Category == contractx.CategoryUnrecognized {
		evt = log.Warn()
	}
	evt.Str("raw", resp.Message).
		Str("token", token).
		Str("category", string(in.Category)).
		Msg("triage classified query")

	return in, nil
}

func (r *Router) dispatch(ctx context.Context, in *GraphState, responder contractx.Responder) (*GraphState, error) {
	resp, err := responder.Run(ctx, contractx.ResponderRequest{
		Prompt: in.Prompt,
		User:   in.User,
	})
	if err != nil {
		return nil, err
	}

	in.Reply = resp.Message
	in.ToolResults = resp.ToolResults

	log.Debug().
		Str("responder", responder.Name()).
		Int("tools_invoked", len(resp.ToolResults)).
		Msg("responder handled query")

	return in, nil
}

func (r *Router) recordTranscript(ctx context.Context, in *GraphState) (*GraphState, error) {
	turn := &transcriptx.Turn{
		SessionID:  r.sessionID,
		Prompt:     in.Prompt,
		Category:   in.IssueToken,
		Recognized: in.Category != contractx.CategoryUnrecognized,
		Reply:      in.Reply,
		CreatedAt:  r.now().UTC(),
	}

	// A transcript failure must never fail the query.
	if err := r.transcripts.Append(ctx, turn); err != nil {
		log.Warn().Err(err).Msg("transcript append failed")
	}
	return in, nil
}

func (r *Router) finalizeReply(in *GraphState) (GraphOutput, error) {
	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: responder returned empty reply", contractx.ErrSchemaViolation)
	}
	return GraphOutput{
		Reply:    reply,
		Category: in.Category,
	}, nil
}
