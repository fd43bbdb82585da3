package core

import (
	"fmt"
	"math"
)

// AchievedLabel is the ETA sentinel for a goal whose target is already met.
const AchievedLabel = "Tercapai"

// GoalProgress is the derived state of a savings goal. ETAPeriods and ETALabel
// are nil when no estimate exists: the goal is unmet and the plan contributes
// nothing per period.
type GoalProgress struct {
	Saved      int64   `json:"saved"`
	Percent    int     `json:"percent"`
	Remaining  int64   `json:"remaining"`
	ETAPeriods *int    `json:"eta_periods"`
	ETALabel   *string `json:"eta_label"`
	Unit       string  `json:"unit"`
}

// PeriodUnit returns the localized period word for a saving frequency.
func PeriodUnit(f SavingFrequency) string {
	if f == FrequencyMonthly {
		return "bulan"
	}
	return "minggu"
}

// GoalProgressFor derives a goal's saved amount, completion percent and ETA
// from the transaction history of its linked wallet.
//
// Saved is the wallet's derived balance (WalletBalance rules), not a stored
// counter. Percent is clamped to [0, 100] and defined as 0 when the target is
// not positive. A met target yields ETAPeriods 0 with the achieved sentinel
// regardless of the saving plan; an unmet target with no planned contribution
// has no estimate.
func GoalProgressFor(goal Goal, txs []Transaction) GoalProgress {
	saved := WalletBalance(txs, goal.WalletID)
	progress := GoalProgress{
		Saved: saved,
		Unit:  PeriodUnit(goal.SavingFrequency),
	}

	if goal.TargetAmount > 0 {
		pct := int(math.Round(float64(saved) / float64(goal.TargetAmount) * 100))
		progress.Percent = min(100, max(0, pct))
	}

	remaining := goal.TargetAmount - saved
	if remaining < 0 {
		remaining = 0
	}
	progress.Remaining = remaining

	if remaining <= 0 {
		periods := 0
		label := AchievedLabel
		progress.ETAPeriods = &periods
		progress.ETALabel = &label
		return progress
	}
	if goal.SavingAmount <= 0 {
		return progress
	}

	periods := int((remaining + goal.SavingAmount - 1) / goal.SavingAmount)
	label := fmt.Sprintf("%d %s", periods, progress.Unit)
	progress.ETAPeriods = &periods
	progress.ETALabel = &label
	return progress
}
