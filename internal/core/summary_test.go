package core

import (
	"encoding/json"
	"testing"
)

func TestBuildSummaryEmpty(t *testing.T) {
	s := BuildSummary(nil)
	if s.TotalAmount.Cents != 0 || s.ByCategory.Len() != 0 || s.ByMonth.Len() != 0 || s.ByPaymentMethod.Len() != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"totalAmount":0,"byCategory":{},"byMonth":{},"byPaymentMethod":{}}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestBuildSummaryScenario(t *testing.T) {
	s := BuildSummary(scenario())

	if s.TotalAmount.Cents != 6500 {
		t.Fatalf("total = %s", s.TotalAmount)
	}
	checks := []struct {
		name string
		get  func() (Money, bool)
		want int64
	}{
		{"Food", func() (Money, bool) { return s.ByCategory.Get(Food) }, 5000},
		{"Travel", func() (Money, bool) { return s.ByCategory.Get(Travel) }, 1500},
		{"2024-01", func() (Money, bool) { return s.ByMonth.Get("2024-01") }, 3500},
		{"2024-02", func() (Money, bool) { return s.ByMonth.Get("2024-02") }, 3000},
		{"Cash", func() (Money, bool) { return s.ByPaymentMethod.Get(Cash) }, 3500},
		{"Credit Card", func() (Money, bool) { return s.ByPaymentMethod.Get(CreditCard) }, 3000},
	}
	for _, c := range checks {
		got, ok := c.get()
		if !ok || got.Cents != c.want {
			t.Fatalf("%s = %d (present=%v), want %d", c.name, got.Cents, ok, c.want)
		}
	}
	if s.ByCategory.Len() != 2 || s.ByMonth.Len() != 2 || s.ByPaymentMethod.Len() != 2 {
		t.Fatalf("unexpected bucket counts: %d %d %d", s.ByCategory.Len(), s.ByMonth.Len(), s.ByPaymentMethod.Len())
	}
	if s.Unrecognized != 0 {
		t.Fatalf("unexpected unrecognized count %d", s.Unrecognized)
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"totalAmount":65,"byCategory":{"Food":50,"Travel":15},"byMonth":{"2024-01":35,"2024-02":30},"byPaymentMethod":{"Cash":35,"Credit Card":30}}`
	if string(b) != want {
		t.Fatalf("got %s\nwant %s", b, want)
	}
}

func TestBuildSummaryIgnoresRecurringFlag(t *testing.T) {
	a := scenario()
	b := scenario()
	for i := range b {
		b[i].IsRecurring = true
	}
	sa, _ := json.Marshal(BuildSummary(a))
	sb, _ := json.Marshal(BuildSummary(b))
	if string(sa) != string(sb) {
		t.Fatalf("recurring flag changed the summary: %s vs %s", sa, sb)
	}
}

func TestBuildSummaryCountsUnrecognized(t *testing.T) {
	records := append(scenario(), exp("bad", 500, "Groceries", "2024-01-01", Cash))
	s := BuildSummary(records)
	if s.Unrecognized != 1 {
		t.Fatalf("expected 1 unrecognized record, got %d", s.Unrecognized)
	}
	if s.ByCategory.Sum() != s.TotalAmount {
		t.Fatalf("unrecognized record lost from category totals")
	}

	unreadable := exp("stored", 0, Food, "2024-01-01", Cash)
	unreadable.Amount = UnreadableMoney()
	s = BuildSummary(append(scenario(), unreadable))
	if s.Unrecognized != 1 || s.TotalAmount.Cents != 6500 {
		t.Fatalf("unreadable amount: unrecognized=%d total=%d", s.Unrecognized, s.TotalAmount.Cents)
	}
}

func TestTotalsKeepPositionOnRevisit(t *testing.T) {
	records := []Expense{
		exp("a", 100, Travel, "2024-02-01", Cash),
		exp("b", 200, Food, "2024-01-01", Cash),
		exp("c", 300, Travel, "2024-02-03", Cash),
	}
	byMonth := GroupByMonth(records)
	if keys := byMonth.Keys(); len(keys) != 2 || keys[0] != "2024-02" || keys[1] != "2024-01" {
		t.Fatalf("keys = %v", keys)
	}
	b, err := json.Marshal(GroupByCategory(records))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"Travel":4,"Food":2}` {
		t.Fatalf("got %s", b)
	}
	if got := byMonth.Sum(); got.Cents != 600 {
		t.Fatalf("sum = %d", got.Cents)
	}
}
