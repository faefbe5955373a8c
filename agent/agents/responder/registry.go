package responder

import (
	"context"
	"fmt"

	contractx "triagebot/agent/contract"
	llmx "triagebot/agent/llm"
	promptx "triagebot/agent/prompt"
	toolx "triagebot/agent/tool"
)

type registryImpl struct {
	triage    contractx.Responder
	billing   contractx.Responder
	technical contractx.Responder
	general   contractx.Responder
}

func (r *registryImpl) Triage() contractx.Responder {
	return r.triage
}

func (r *registryImpl) Billing() contractx.Responder {
	return r.billing
}

func (r *registryImpl) Technical() contractx.Responder {
	return r.technical
}

func (r *registryImpl) General() contractx.Responder {
	return r.general
}

// NewRegistry constructs every responder from the shared LLM configuration
// and the embedded prompt set.
func NewRegistry(ctx context.Context, cfg llmx.Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()

	instructions := map[contractx.ResponderType]string{
		contractx.ResponderTriage:    prompts.Triage,
		contractx.ResponderBilling:   prompts.Billing,
		contractx.ResponderTechnical: prompts.Technical,
		contractx.ResponderGeneral:   prompts.General,
	}

	build := func(rt contractx.ResponderType) (contractx.Responder, error) {
		modelCfg := cfg.GeminiFor(rt)
		chatModel, err := modelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create model for responder=%s: %v", contractx.ErrModelInvoke, rt, err)
		}
		return New(ctx, rt, chatModel, instructions[rt], toolx.ForResponder(rt))
	}

	triage, err := build(contractx.ResponderTriage)
	if err != nil {
		return nil, err
	}
	billing, err := build(contractx.ResponderBilling)
	if err != nil {
		return nil, err
	}
	technical, err := build(contractx.ResponderTechnical)
	if err != nil {
		return nil, err
	}
	general, err := build(contractx.ResponderGeneral)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		triage:    triage,
		billing:   billing,
		technical: technical,
		general:   general,
	}, nil
}
