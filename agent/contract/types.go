package contract

import "strings"

type ResponderType string

const (
	ResponderTriage    ResponderType = "triage"
	ResponderBilling   ResponderType = "billing"
	ResponderTechnical ResponderType = "technical"
	ResponderGeneral   ResponderType = "general"
)

// Category is the triage classification of a query. Unrecognized is the
// designated fallback for any token outside the fixed set, so dispatch over
// Category is total and the masking branch is explicit.
type Category string

const (
	CategoryBilling      Category = "billing"
	CategoryTechnical    Category = "technical"
	CategoryGeneral      Category = "general"
	CategoryUnrecognized Category = "unrecognized"
)

// NormalizeToken trims and lower-cases a triage output token. Idempotent.
func NormalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseCategory maps a normalized triage token to a Category by exact
// equality. Partial matches, synonyms, and multi-word output all map to
// CategoryUnrecognized.
func ParseCategory(normalized string) Category {
	switch normalized {
	case string(CategoryBilling):
		return CategoryBilling
	case string(CategoryTechnical):
		return CategoryTechnical
	case string(CategoryGeneral):
		return CategoryGeneral
	default:
		return CategoryUnrecognized
	}
}

// UserContext describes the current user for one session. The session loop
// owns it and passes it by pointer; only the router writes IssueType, once
// per query, with the normalized triage token.
type UserContext struct {
	Name          string `json:"name,omitempty"`
	IsPremiumUser bool   `json:"is_premium_user"`
	IssueType     string `json:"issue_type,omitempty"`
}

type ResponderRequest struct {
	Prompt string       `json:"prompt"`
	User   *UserContext `json:"user"`
}

type ResponderResponse struct {
	Message     string       `json:"message"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}
