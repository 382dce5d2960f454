// internal/models/temporal.go
package models

import "time"

// TemporalMetadata holds the calendar facts fetched before LLM generation so
// the model never guesses where we are in the fiscal year. Fetched fresh per
// question; depends on CURRENT_DATE and live row counts.
type TemporalMetadata struct {
	CurrentDate             time.Time `json:"currentDate"`
	CurrentMonth            int       `json:"currentMonth"`
	MonthsWithDataThisYear  int       `json:"monthsWithDataThisYear"`
	MonthsRemainingThisYear int       `json:"monthsRemainingThisYear"`
}
