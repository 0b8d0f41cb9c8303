package usage

import (
	"time"

	"studyforge_go_backend/internal/config"
	"studyforge_go_backend/internal/models"
	"studyforge_go_backend/pkg/logger"

	"gorm.io/gorm"
)

// Ledger tracks daily (UTC) token spend and gates new generation requests
// against the configured budget. Admission is a soft check made before a
// call; usage is recorded only after a successful call, so concurrent bursts
// can transiently overshoot the limit.
type Ledger struct {
	db         *gorm.DB
	dailyLimit int64
	enabled    bool
}

func NewLedger(db *gorm.DB, cfg *config.RateLimitConfig) *Ledger {
	return &Ledger{
		db:         db,
		dailyLimit: cfg.DailyTokenLimit,
		enabled:    cfg.Enabled,
	}
}

// Admit reports whether today's total token count is still under the budget.
func (l *Ledger) Admit() (bool, error) {
	if !l.enabled {
		return true, nil
	}

	record, err := l.TodayUsage()
	if err != nil {
		return false, err
	}
	return record.TotalTokens() < l.dailyLimit, nil
}

// Record adds a successful call's token counts to today's record. The
// increment runs as a single database update so concurrent calls do not lose
// counts.
func (l *Ledger) Record(inputTokens, outputTokens int) error {
	if _, err := l.TodayUsage(); err != nil {
		return err
	}

	err := l.db.Model(&models.DailyUsage{}).
		Where("date = ?", todayKey()).
		UpdateColumns(map[string]interface{}{
			"input_tokens":  gorm.Expr("input_tokens + ?", inputTokens),
			"output_tokens": gorm.Expr("output_tokens + ?", outputTokens),
			"call_count":    gorm.Expr("call_count + ?", 1),
			"updated_at":    time.Now().UTC(),
		}).Error
	if err != nil {
		logger.Errorf("[Usage] Failed to record %d/%d tokens: %v", inputTokens, outputTokens, err)
	}
	return err
}

// TodayUsage returns today's record, creating it lazily on first use.
func (l *Ledger) TodayUsage() (*models.DailyUsage, error) {
	record := models.DailyUsage{Date: todayKey()}
	err := l.db.Where(models.DailyUsage{Date: record.Date}).FirstOrCreate(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Remaining returns how many tokens are left in today's budget, never
// negative.
func (l *Ledger) Remaining() (int64, error) {
	record, err := l.TodayUsage()
	if err != nil {
		return 0, err
	}
	remaining := l.dailyLimit - record.TotalTokens()
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func todayKey() string {
	return time.Now().UTC().Format("2006-01-02")
}
