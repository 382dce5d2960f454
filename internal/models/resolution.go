// internal/models/resolution.go
package models

// ResolutionMethod names the stage that produced the final SQL.
type ResolutionMethod string

const (
	MethodTemplate       ResolutionMethod = "template"
	MethodChainOfThought ResolutionMethod = "chain_of_thought"
	MethodLLM            ResolutionMethod = "llm"
	MethodNone           ResolutionMethod = "none"
)

// ConversationTurn is one prior message of the enclosing conversation.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResolutionResult is the single envelope every resolution normalizes into.
// Rows and PostValidation are attached by the caller after execution.
type ResolutionResult struct {
	Success        bool                   `json:"success"`
	SQL            string                 `json:"sql,omitempty"`
	Method         ResolutionMethod       `json:"method"`
	Error          string                 `json:"error,omitempty"`
	PreValidation  *Verdict               `json:"preValidation,omitempty"`
	PostValidation *Verdict               `json:"postValidation,omitempty"`
	Rows           []map[string]any       `json:"rows,omitempty"`
	Timings        map[string]int64       `json:"timings"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}
