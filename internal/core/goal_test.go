package core

import (
	"testing"
	"time"
)

var goalDate = time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)

func savingsGoal(target, saving int64, freq SavingFrequency) Goal {
	return Goal{
		ID:              "g",
		Name:            "Dana darurat",
		TargetAmount:    target,
		SavingAmount:    saving,
		SavingFrequency: freq,
		Priority:        PriorityHigh,
		WalletID:        "savings",
	}
}

func TestGoalProgress(t *testing.T) {
	goal := savingsGoal(1000000, 250000, FrequencyMonthly)
	txs := []Transaction{
		NewIncome("savings", "", 400000, goalDate),
		NewExpense("savings", "", "", 100000, goalDate),
	}

	p := GoalProgressFor(goal, txs)
	if p.Saved != 300000 {
		t.Fatalf("saved = %d, want 300000", p.Saved)
	}
	if p.Percent != 30 {
		t.Fatalf("percent = %d, want 30", p.Percent)
	}
	if p.Remaining != 700000 {
		t.Fatalf("remaining = %d, want 700000", p.Remaining)
	}
	if p.ETAPeriods == nil || *p.ETAPeriods != 3 {
		t.Fatalf("eta periods = %v, want 3", p.ETAPeriods)
	}
	if p.ETALabel == nil || *p.ETALabel != "3 bulan" {
		t.Fatalf("eta label = %v, want \"3 bulan\"", p.ETALabel)
	}
}

func TestGoalAchieved(t *testing.T) {
	// Achieved regardless of saving amount, even zero.
	goal := savingsGoal(500000, 0, FrequencyWeekly)
	txs := []Transaction{NewIncome("savings", "", 600000, goalDate)}

	p := GoalProgressFor(goal, txs)
	if p.ETAPeriods == nil || *p.ETAPeriods != 0 {
		t.Fatalf("achieved goal should have 0 eta periods, got %v", p.ETAPeriods)
	}
	if p.ETALabel == nil || *p.ETALabel != AchievedLabel {
		t.Fatalf("achieved goal label = %v, want %q", p.ETALabel, AchievedLabel)
	}
	if p.Percent != 100 {
		t.Fatalf("percent = %d, want 100 (clamped)", p.Percent)
	}
	if p.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", p.Remaining)
	}
}

func TestGoalStalled(t *testing.T) {
	// Unmet target with no planned contribution has no estimate.
	goal := savingsGoal(500000, 0, FrequencyMonthly)
	txs := []Transaction{NewIncome("savings", "", 100000, goalDate)}

	p := GoalProgressFor(goal, txs)
	if p.ETAPeriods != nil {
		t.Fatalf("stalled goal should have nil eta periods, got %d", *p.ETAPeriods)
	}
	if p.ETALabel != nil {
		t.Fatalf("stalled goal should have nil eta label, got %q", *p.ETALabel)
	}
}

func TestGoalZeroTarget(t *testing.T) {
	goal := savingsGoal(0, 1000, FrequencyWeekly)
	txs := []Transaction{NewIncome("savings", "", 100, goalDate)}

	p := GoalProgressFor(goal, txs)
	if p.Percent != 0 {
		t.Fatalf("zero target should yield 0 percent, got %d", p.Percent)
	}
	// Nothing remaining means the goal reads as achieved.
	if p.ETAPeriods == nil || *p.ETAPeriods != 0 {
		t.Fatalf("eta periods = %v, want 0", p.ETAPeriods)
	}
}

func TestGoalETACeiling(t *testing.T) {
	goal := savingsGoal(1000, 300, FrequencyWeekly)
	p := GoalProgressFor(goal, nil) // nothing saved yet
	// 1000 / 300 = 3.33 -> 4 weeks
	if p.ETAPeriods == nil || *p.ETAPeriods != 4 {
		t.Fatalf("eta periods = %v, want 4", p.ETAPeriods)
	}
	if p.ETALabel == nil || *p.ETALabel != "4 minggu" {
		t.Fatalf("eta label = %v, want \"4 minggu\"", p.ETALabel)
	}
}
