package models

import "gorm.io/gorm"

// DailyUsage is the aggregate token spend for one UTC calendar day.
// Rows are created lazily and never deleted; they serve as the audit trail
// behind the daily budget check.
type DailyUsage struct {
	gorm.Model
	Date         string `gorm:"type:varchar(10);uniqueIndex"` // YYYY-MM-DD, UTC
	InputTokens  int64
	OutputTokens int64
	CallCount    int64
}

// TotalTokens is the figure the admission check compares against the budget.
func (u *DailyUsage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}
