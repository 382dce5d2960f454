// internal/models/intent.go
package models

// Intent is the closed taxonomy that selects which semantic range-check
// applies to a question's results. It is recomputed per question, never
// stored.
type Intent string

const (
	IntentDistribution  Intent = "distribution"
	IntentProfitability Intent = "profitability"
	IntentPercentage    Intent = "percentage"
	IntentRevenue       Intent = "revenue"
	IntentExpense       Intent = "expense"
	IntentWithdrawal    Intent = "withdrawal"
	IntentExchangeRate  Intent = "exchange_rate"
	IntentGeneral       Intent = "general"
)
