package router

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "triagebot/agent/contract"
)

// compileHandleQueryGraph wires the single-turn protocol:
//
//	validate_request -> classify -> [billing|technical|general] ->
//	record_transcript -> finalize_reply
//
// The branch is total over the Category enum; the unrecognized fallback
// shares the general path so exactly one responder runs beyond triage.
func (r *Router) compileHandleQueryGraph(
	ctx context.Context,
) (compose.Runnable[GraphInput, GraphOutput], error) {
	graph := compose.NewGraph[GraphInput, GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in GraphInput) (*GraphState, error) {
			return r.validateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("classify",
		compose.InvokableLambda(func(ctx context.Context, in *GraphState) (*GraphState, error) {
			return r.classify(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify: %w", err)
	}

	if err := graph.AddLambdaNode("billing_path",
		compose.InvokableLambda(func(ctx context.Context, in *GraphState) (*GraphState, error) {
			return r.dispatch(ctx, in, r.registry.Billing())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node billing_path: %w", err)
	}

	if err := graph.AddLambdaNode("technical_path",
		compose.InvokableLambda(func(ctx context.Context, in *GraphState) (*GraphState, error) {
			return r.dispatch(ctx, in, r.registry.Technical())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node technical_path: %w", err)
	}

	if err := graph.AddLambdaNode("general_path",
		compose.InvokableLambda(func(ctx context.Context, in *GraphState) (*GraphState, error) {
			return r.dispatch(ctx, in, r.registry.General())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node general_path: %w", err)
	}

	if err := graph.AddLambdaNode("record_transcript",
		compose.InvokableLambda(func(ctx context.Context, in *GraphState) (*GraphState, error) {
			return r.recordTranscript(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_transcript: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *GraphState) (GraphOutput, error) {
			return r.finalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *GraphState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
			}
			switch in.Category {
			case contractx.CategoryBilling:
				return "billing_path", nil
			case contractx.CategoryTechnical:
				return "technical_path", nil
			default:
				// CategoryGeneral and CategoryUnrecognized share the
				// fallback route.
				return "general_path", nil
			}
		},
		map[string]bool{
			"billing_path":   true,
			"technical_path": true,
			"general_path":   true,
		},
	)

	if err := graph.AddBranch("classify", branch); err != nil {
		return nil, fmt.Errorf("add category branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "classify"},
		{"billing_path", "record_transcript"},
		{"technical_path", "record_transcript"},
		{"general_path", "record_transcript"},
		{"record_transcript", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("router.handle_query"))
	if err != nil {
		return nil, fmt.Errorf("compile router graph: %w", err)
	}
	return runner, nil
}
