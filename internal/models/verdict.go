// internal/models/verdict.go
package models

// Verdict is the outcome of one validation pass. Valid=false always carries
// at least one reason; Valid=true may still carry informational reasons.
type Verdict struct {
	Valid         bool     `json:"valid"`
	Reasons       []string `json:"reasons"`
	QueryType     Intent   `json:"queryType"`
	ChecksApplied []string `json:"checksApplied"`
}

// NewVerdict returns a valid verdict for the given intent.
func NewVerdict(intent Intent) *Verdict {
	return &Verdict{Valid: true, QueryType: intent}
}

// Flag marks the verdict invalid and appends the reason.
func (v *Verdict) Flag(reason string) {
	v.Valid = false
	v.Reasons = append(v.Reasons, reason)
}

// Note appends an informational reason without changing validity.
func (v *Verdict) Note(reason string) {
	v.Reasons = append(v.Reasons, reason)
}

// Applied records that a named check ran against this verdict.
func (v *Verdict) Applied(check string) {
	v.ChecksApplied = append(v.ChecksApplied, check)
}
