// Package core implements the moco calculation engine: pure functions that
// turn raw rows (wallets, transactions, categories, goals, debts, payments)
// into derived financial state. Nothing in this package performs I/O or keeps
// state between calls; every function is total over its declared input shape,
// so malformed or dangling data degrades to zero instead of an error.
package core

import "strconv"

// ParseAmount extracts a whole-currency-unit amount from free-form input by
// stripping every non-digit rune. Empty or non-numeric input yields 0; the
// result is never negative since signs are discarded with everything else.
//
// Examples:
//
//	ParseAmount("1.234.567") -> 1234567
//	ParseAmount("Rp 2.500")  -> 2500
//	ParseAmount("abc")       -> 0
func ParseAmount(s string) int64 {
	digits := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) == 0 {
		return 0
	}
	v, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		// Only reachable on int64 overflow; treat as malformed.
		return 0
	}
	return v
}

// FormatAmount renders an amount with id-ID thousands grouping, e.g.
// 1234567 -> "1.234.567". There is no decimal component: amounts are whole
// rupiah. ParseAmount(FormatAmount(x)) == x for all non-negative x.
func FormatAmount(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	if len(s) > 3 {
		grouped := make([]byte, 0, len(s)+len(s)/3)
		pre := len(s) % 3
		if pre > 0 {
			grouped = append(grouped, s[:pre]...)
		}
		for i := pre; i < len(s); i += 3 {
			if len(grouped) > 0 {
				grouped = append(grouped, '.')
			}
			grouped = append(grouped, s[i:i+3]...)
		}
		s = string(grouped)
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatRupiah prefixes the grouped amount with the currency label.
func FormatRupiah(v int64) string {
	return "Rp " + FormatAmount(v)
}
