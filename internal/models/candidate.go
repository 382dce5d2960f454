// internal/models/candidate.go
package models

// CandidateOrigin tells which stage produced a SQL candidate.
type CandidateOrigin string

const (
	OriginTemplate CandidateOrigin = "template"
	OriginLLM      CandidateOrigin = "llm"
)

// SQLCandidate is a single executable statement produced by a pipeline stage.
// Text always starts with SELECT or WITH after extraction.
type SQLCandidate struct {
	Text             string          `json:"text"`
	Origin           CandidateOrigin `json:"origin"`
	GenerationTimeMs int64           `json:"generationTimeMs"`
}
