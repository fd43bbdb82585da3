package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"moco/internal/amqp"
	"moco/internal/core"
	"moco/internal/log"
)

// Budget writes run through two guards before persisting: the sum of expense
// category allocations may not exceed total income, and a category's
// subcategory allocations may not exceed the category's own allocation. Both
// checks evaluate the plan as it would look after the write.

func (s *FinanceService) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	c.ID = uuid.NewString()
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.checkCategoryPlan(ctx, c); err != nil {
		return core.Category{}, err
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.invalidate(c.UserID)
	s.publishChange(ctx, amqp.TableCategories, log.OpCreate, c.ID, c.UserID)
	return c, nil
}

func (s *FinanceService) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.checkCategoryPlan(ctx, c); err != nil {
		return core.Category{}, err
	}
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	s.invalidate(c.UserID)
	s.publishChange(ctx, amqp.TableCategories, log.OpUpdate, c.ID, c.UserID)
	return c, nil
}

func (s *FinanceService) DeleteCategory(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteCategory(ctx, id, userID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.invalidate(userID)
	s.publishChange(ctx, amqp.TableCategories, log.OpDelete, id, userID)
	return nil
}

func (s *FinanceService) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	return s.repo.ListCategories(ctx, userID)
}

func (s *FinanceService) CreateSubcategory(ctx context.Context, sub core.Subcategory) (core.Subcategory, error) {
	sub.ID = uuid.NewString()
	if err := sub.Validate(); err != nil {
		return core.Subcategory{}, err
	}
	if err := s.checkSubcategoryPlan(ctx, sub); err != nil {
		return core.Subcategory{}, err
	}
	if err := s.repo.CreateSubcategory(ctx, sub); err != nil {
		return core.Subcategory{}, fmt.Errorf("create subcategory: %w", err)
	}
	s.invalidate(sub.UserID)
	s.publishChange(ctx, amqp.TableSubcategories, log.OpCreate, sub.ID, sub.UserID)
	return sub, nil
}

func (s *FinanceService) UpdateSubcategory(ctx context.Context, sub core.Subcategory) (core.Subcategory, error) {
	if err := sub.Validate(); err != nil {
		return core.Subcategory{}, err
	}
	if err := s.checkSubcategoryPlan(ctx, sub); err != nil {
		return core.Subcategory{}, err
	}
	if err := s.repo.UpdateSubcategory(ctx, sub); err != nil {
		return core.Subcategory{}, fmt.Errorf("update subcategory: %w", err)
	}
	s.invalidate(sub.UserID)
	s.publishChange(ctx, amqp.TableSubcategories, log.OpUpdate, sub.ID, sub.UserID)
	return sub, nil
}

func (s *FinanceService) DeleteSubcategory(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteSubcategory(ctx, id, userID); err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	s.invalidate(userID)
	s.publishChange(ctx, amqp.TableSubcategories, log.OpDelete, id, userID)
	return nil
}

func (s *FinanceService) ListSubcategories(ctx context.Context, userID string) ([]core.Subcategory, error) {
	return s.repo.ListSubcategories(ctx, userID)
}

// checkCategoryPlan evaluates the allocation plan with c applied and rejects
// it when expense allocations would exceed total income.
func (s *FinanceService) checkCategoryPlan(ctx context.Context, c core.Category) error {
	categories, err := s.repo.ListCategories(ctx, c.UserID)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	subs, err := s.repo.ListSubcategories(ctx, c.UserID)
	if err != nil {
		return fmt.Errorf("list subcategories: %w", err)
	}

	plan := applyCategory(categories, c)
	totalIncome := core.TotalIncome(plan)

	var allocated int64
	for _, pc := range plan {
		if pc.Type == core.CategoryExpense {
			allocated += core.AllocatedForCategory(pc, totalIncome, subs)
		}
	}
	if allocated > totalIncome {
		return ErrOverAllocated
	}
	return nil
}

// checkSubcategoryPlan rejects a subcategory write when the parent's children
// would together claim more than the parent's resolved allocation. Parents
// without an allocation of their own are skipped: the fixed-amount fallback
// makes the children the definition of the allocation.
func (s *FinanceService) checkSubcategoryPlan(ctx context.Context, sub core.Subcategory) error {
	categories, err := s.repo.ListCategories(ctx, sub.UserID)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	subs, err := s.repo.ListSubcategories(ctx, sub.UserID)
	if err != nil {
		return fmt.Errorf("list subcategories: %w", err)
	}

	var parent *core.Category
	for i := range categories {
		if categories[i].ID == sub.CategoryID {
			parent = &categories[i]
			break
		}
	}
	if parent == nil || (parent.Percent == nil && parent.Amount == nil) {
		return nil
	}

	plan := applySubcategory(subs, sub)
	parentAllocated := core.AllocatedForCategory(*parent, core.TotalIncome(categories), plan)

	var claimed int64
	for _, ps := range plan {
		if ps.CategoryID == parent.ID {
			claimed += core.AllocatedForSubcategory(ps, parentAllocated)
		}
	}
	if claimed > parentAllocated {
		return ErrSubOverAllocated
	}
	return nil
}

func applyCategory(categories []core.Category, c core.Category) []core.Category {
	plan := make([]core.Category, 0, len(categories)+1)
	for _, existing := range categories {
		if existing.ID != c.ID {
			plan = append(plan, existing)
		}
	}
	return append(plan, c)
}

func applySubcategory(subs []core.Subcategory, sub core.Subcategory) []core.Subcategory {
	plan := make([]core.Subcategory, 0, len(subs)+1)
	for _, existing := range subs {
		if existing.ID != sub.ID {
			plan = append(plan, existing)
		}
	}
	return append(plan, sub)
}
