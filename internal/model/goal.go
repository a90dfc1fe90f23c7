package model

import "time"

// Goal is a savings target with a user-maintained progress amount. The
// current amount is edited independently and is not derived from the
// transaction history.
type Goal struct {
	TargetDate    time.Time `json:"targetDate"`
	CreatedAt     time.Time `json:"createdAt"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	ID            int64     `json:"id"`
}

// ProgressPercent reports completion as a percentage, clamped at 100.
func (g Goal) ProgressPercent() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	pct := g.CurrentAmount / g.TargetAmount * 100
	if pct > 100 {
		return 100
	}
	return pct
}
