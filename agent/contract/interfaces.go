package contract

import "context"

type Responder interface {
	Name() string
	Run(ctx context.Context, req ResponderRequest) (ResponderResponse, error)
}

type Registry interface {
	Triage() Responder
	Billing() Responder
	Technical() Responder
	General() Responder
}
