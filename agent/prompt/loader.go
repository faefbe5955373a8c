package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/triage.txt
	triageRaw string

	//go:embed template/billing.txt
	billingRaw string

	//go:embed template/technical.txt
	technicalRaw string

	//go:embed template/general.txt
	generalRaw string
)

// PromptSet holds the fixed instructions for every responder.
type PromptSet struct {
	Triage    string
	Billing   string
	Technical string
	General   string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings. Safe to call
// concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Triage:    strings.TrimSpace(triageRaw),
		Billing:   strings.TrimSpace(billingRaw),
		Technical: strings.TrimSpace(technicalRaw),
		General:   strings.TrimSpace(generalRaw),
	}
}
