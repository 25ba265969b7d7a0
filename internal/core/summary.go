package core

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Bucket is one group-by entry.
type Bucket[K comparable] struct {
	Key    K
	Amount Money
}

// Totals maps keys to summed amounts, keeping keys in first-seen order. It
// encodes to a JSON object whose members keep that order.
type Totals[K comparable] struct {
	m *orderedmap.OrderedMap[K, Money]
}

// add accumulates amount into key, creating the bucket at zero on first sight.
// Updating an existing key keeps its position.
func (t *Totals[K]) add(key K, amount Money) {
	if t.m == nil {
		t.m = orderedmap.New[K, Money]()
	}
	prev, _ := t.m.Get(key)
	t.m.Set(key, prev.Add(amount))
}

// Get returns the amount for key and whether the key is present.
func (t Totals[K]) Get(key K) (Money, bool) {
	if t.m == nil {
		return Money{}, false
	}
	return t.m.Get(key)
}

// Len returns the number of buckets.
func (t Totals[K]) Len() int {
	if t.m == nil {
		return 0
	}
	return t.m.Len()
}

// Keys returns the keys in first-seen order.
func (t Totals[K]) Keys() []K {
	buckets := t.Buckets()
	keys := make([]K, len(buckets))
	for i, b := range buckets {
		keys[i] = b.Key
	}
	return keys
}

// Buckets returns the buckets in first-seen order.
func (t Totals[K]) Buckets() []Bucket[K] {
	if t.m == nil {
		return []Bucket[K]{}
	}
	out := make([]Bucket[K], 0, t.m.Len())
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Bucket[K]{Key: pair.Key, Amount: pair.Value})
	}
	return out
}

// Sum adds every bucket amount.
func (t Totals[K]) Sum() Money {
	var total Money
	for _, b := range t.Buckets() {
		total = total.Add(b.Amount)
	}
	return total
}

func (t Totals[K]) MarshalJSON() ([]byte, error) {
	if t.m == nil {
		return []byte("{}"), nil
	}
	return t.m.MarshalJSON()
}

// ExpenseSummary is derived from a list of expenses and never persisted.
type ExpenseSummary struct {
	TotalAmount     Money                 `json:"totalAmount"`
	ByCategory      Totals[Category]      `json:"byCategory"`
	ByMonth         Totals[string]        `json:"byMonth"`
	ByPaymentMethod Totals[PaymentMethod] `json:"byPaymentMethod"`
	// Unrecognized counts records bucketed under a sentinel key because their
	// category, payment method or date was not recognised, plus records whose
	// stored amount was unreadable and counted as zero.
	Unrecognized int `json:"unrecognized,omitempty"`
}

// BuildSummary computes the total and the three breakdowns. It never fails;
// an empty input yields a zero total and empty mappings.
func BuildSummary(records []Expense) ExpenseSummary {
	unrecognized := 0
	for _, e := range records {
		if !e.Category.Valid() || !e.PaymentMethod.Valid() || e.Date.IsZero() || e.Amount.Unreadable() {
			unrecognized++
		}
	}
	return ExpenseSummary{
		TotalAmount:     Sum(records),
		ByCategory:      GroupByCategory(records),
		ByMonth:         GroupByMonth(records),
		ByPaymentMethod: GroupByPaymentMethod(records),
		Unrecognized:    unrecognized,
	}
}
