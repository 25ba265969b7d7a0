package core

import (
	"cmp"
	"slices"
)

// Sum returns the total amount of all expenses; zero for an empty input.
func Sum(records []Expense) Money {
	var total Money
	for _, e := range records {
		total = total.Add(e.Amount)
	}
	return total
}

// GroupSumBy sums amounts per key. Buckets appear in the order their keys are
// first met while scanning records.
func GroupSumBy[K comparable](records []Expense, keyFn func(Expense) K) Totals[K] {
	var out Totals[K]
	for _, e := range records {
		out.add(keyFn(e), e.Amount)
	}
	return out
}

// GroupByCategory sums amounts per category. Values outside the enumeration
// are bucketed under UnknownCategory.
func GroupByCategory(records []Expense) Totals[Category] {
	return GroupSumBy(records, categoryKey)
}

// GroupByMonth sums amounts per YYYY-MM month of the expense date.
func GroupByMonth(records []Expense) Totals[string] {
	return GroupSumBy(records, func(e Expense) string { return e.Date.MonthKey() })
}

// GroupByPaymentMethod sums amounts per payment method. Values outside the
// enumeration are bucketed under UnknownPaymentMethod.
func GroupByPaymentMethod(records []Expense) Totals[PaymentMethod] {
	return GroupSumBy(records, paymentMethodKey)
}

func categoryKey(e Expense) Category {
	if e.Category.Valid() {
		return e.Category
	}
	return UnknownCategory
}

func paymentMethodKey(e Expense) PaymentMethod {
	if e.PaymentMethod.Valid() {
		return e.PaymentMethod
	}
	return UnknownPaymentMethod
}

// FilterByCategory keeps expenses of the given category in their original order.
func FilterByCategory(records []Expense, category Category) []Expense {
	return filter(records, func(e Expense) bool { return e.Category == category })
}

// FilterByDateRange keeps expenses dated within [start, end], both inclusive.
// Canonical dates are zero padded so string order equals chronological order.
func FilterByDateRange(records []Expense, start, end string) []Expense {
	return filter(records, func(e Expense) bool {
		d := e.Date.String()
		return d >= start && d <= end
	})
}

// FilterByAmountRange keeps expenses whose amount is within [minAmount, maxAmount].
func FilterByAmountRange(records []Expense, minAmount, maxAmount Money) []Expense {
	return filter(records, func(e Expense) bool {
		return e.Amount.Cents >= minAmount.Cents && e.Amount.Cents <= maxAmount.Cents
	})
}

func filter(records []Expense, keep func(Expense) bool) []Expense {
	out := make([]Expense, 0, len(records))
	for _, e := range records {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// SortByDate returns a new slice ordered by date. Equal dates keep their
// relative order.
func SortByDate(records []Expense, ascending bool) []Expense {
	return sortBy(records, ascending, func(a, b Expense) int {
		return a.Date.Compare(b.Date.Time)
	})
}

// SortByAmount returns a new slice ordered by amount. Equal amounts keep
// their relative order.
func SortByAmount(records []Expense, ascending bool) []Expense {
	return sortBy(records, ascending, func(a, b Expense) int {
		return cmp.Compare(a.Amount.Cents, b.Amount.Cents)
	})
}

func sortBy(records []Expense, ascending bool, compare func(a, b Expense) int) []Expense {
	out := slices.Clone(records)
	if out == nil {
		out = []Expense{}
	}
	slices.SortStableFunc(out, func(a, b Expense) int {
		if ascending {
			return compare(a, b)
		}
		return compare(b, a)
	})
	return out
}
