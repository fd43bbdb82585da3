package core

import "math"

// TotalIncome sums the fixed amounts of all income categories. Income
// categories hold their contribution directly in Amount; Percent is unused on
// that side of the tree.
func TotalIncome(categories []Category) int64 {
	var total int64
	for _, c := range categories {
		if c.Type == CategoryIncome && c.Amount != nil {
			total += *c.Amount
		}
	}
	return total
}

// roundPercent computes percent/100 * base with half-up rounding. All
// percent-derived amounts in the engine go through here so rounding behaves
// the same everywhere; drift across many small subcategories is accepted and
// never reconciled back to the parent.
func roundPercent(percent float64, base int64) int64 {
	return int64(math.Round(percent / 100 * float64(base)))
}

// AllocatedForCategory resolves a category's budgeted amount.
//
// Income categories return their fixed Amount. Expense categories resolve in
// precedence order: Percent of totalIncome beats a fixed Amount (an Amount
// left behind alongside a Percent is treated as stale), and when neither is
// set the allocation falls back to the sum of the category's fixed-amount
// subcategories. Percent-based children are excluded from that fallback since
// they have no value without a resolved parent.
func AllocatedForCategory(cat Category, totalIncome int64, subs []Subcategory) int64 {
	if cat.Type == CategoryIncome {
		if cat.Amount == nil {
			return 0
		}
		return *cat.Amount
	}
	if cat.Percent != nil {
		return roundPercent(*cat.Percent, totalIncome)
	}
	if cat.Amount != nil {
		return *cat.Amount
	}
	var sum int64
	for _, s := range subs {
		if s.CategoryID == cat.ID && s.Percent == nil && s.Amount != nil {
			sum += *s.Amount
		}
	}
	return sum
}

// AllocatedForSubcategory resolves a subcategory's budgeted amount relative to
// its parent's resolved allocation. Percent beats Amount, same as at the
// category level; neither set yields 0.
func AllocatedForSubcategory(sub Subcategory, parentAllocated int64) int64 {
	if sub.Percent != nil {
		return roundPercent(*sub.Percent, parentAllocated)
	}
	if sub.Amount != nil {
		return *sub.Amount
	}
	return 0
}

// SpentForCategory sums expense transactions charged to the category or to any
// of its subcategories. Each transaction is visited exactly once, so a row
// carrying both a category_id and a subcategory_id inside the same tree is
// never double counted.
func SpentForCategory(cat Category, subs []Subcategory, txs []Transaction) int64 {
	children := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		if s.CategoryID == cat.ID {
			children[s.ID] = struct{}{}
		}
	}
	var spent int64
	for _, t := range txs {
		if t.Type != TypeExpense {
			continue
		}
		_, inTree := children[t.SubcategoryID]
		if t.CategoryID == cat.ID || inTree {
			spent += t.Amount
		}
	}
	return spent
}

// SpentForSubcategory sums expense transactions charged directly to the
// subcategory.
func SpentForSubcategory(sub Subcategory, txs []Transaction) int64 {
	var spent int64
	for _, t := range txs {
		if t.Type == TypeExpense && t.SubcategoryID == sub.ID {
			spent += t.Amount
		}
	}
	return spent
}

// UsagePercent reports spent as a share of allocated, capped at 100 for
// display. A zero or negative allocation yields 0 rather than dividing.
func UsagePercent(spent, allocated int64) int {
	if allocated <= 0 {
		return 0
	}
	p := int(math.Round(float64(spent) / float64(allocated) * 100))
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
