package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moco/internal/amqp"
	"moco/internal/core"
	"moco/internal/log"
)

// --- Savings goals ---

func (s *FinanceService) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.ID = uuid.NewString()
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	s.invalidate(g.UserID)
	s.publishChange(ctx, amqp.TableGoals, log.OpCreate, g.ID, g.UserID)
	return g, nil
}

func (s *FinanceService) UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	s.invalidate(g.UserID)
	s.publishChange(ctx, amqp.TableGoals, log.OpUpdate, g.ID, g.UserID)
	return g, nil
}

func (s *FinanceService) DeleteGoal(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteGoal(ctx, id, userID); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	s.invalidate(userID)
	s.publishChange(ctx, amqp.TableGoals, log.OpDelete, id, userID)
	return nil
}

// --- Debts and installment payments ---

func (s *FinanceService) CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	d.ID = uuid.NewString()
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	if err := s.repo.CreateDebt(ctx, d); err != nil {
		return core.Debt{}, fmt.Errorf("create debt: %w", err)
	}
	s.invalidate(d.UserID)
	s.publishChange(ctx, amqp.TableDebts, log.OpCreate, d.ID, d.UserID)
	return d, nil
}

func (s *FinanceService) UpdateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	if err := s.repo.UpdateDebt(ctx, d); err != nil {
		return core.Debt{}, fmt.Errorf("update debt: %w", err)
	}
	s.invalidate(d.UserID)
	s.publishChange(ctx, amqp.TableDebts, log.OpUpdate, d.ID, d.UserID)
	return d, nil
}

func (s *FinanceService) DeleteDebt(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteDebt(ctx, id, userID); err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	s.invalidate(userID)
	s.publishChange(ctx, amqp.TableDebts, log.OpDelete, id, userID)
	return nil
}

// AddPayment records an installment against an existing debt. Overpayment is
// allowed; the derived status just goes negative and stays settled.
func (s *FinanceService) AddPayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	p.ID = uuid.NewString()
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now().UTC()
	}
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}
	if _, err := s.repo.GetDebt(ctx, p.DebtID, p.UserID); err != nil {
		return core.Payment{}, fmt.Errorf("look up debt: %w", err)
	}
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return core.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	s.invalidate(p.UserID)
	s.publishChange(ctx, amqp.TableDebtPayments, log.OpCreate, p.ID, p.UserID)
	return p, nil
}

// DeletePayment removes an installment; the debt's status is recomputed from
// the remaining payments on the next read.
func (s *FinanceService) DeletePayment(ctx context.Context, userID, id string) error {
	if err := s.repo.DeletePayment(ctx, id, userID); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	s.invalidate(userID)
	s.publishChange(ctx, amqp.TableDebtPayments, log.OpDelete, id, userID)
	return nil
}
