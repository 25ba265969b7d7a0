// Package charts renders the summary breakdowns as echarts bar charts.
package charts

import (
	"bytes"
	"fmt"
	"html/template"
	"slices"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"expense-tracker/internal/core"
)

// DefaultColor is used for categories without a palette entry.
const DefaultColor = "#999999"

var palette = map[core.Category]string{
	core.Food:           "#FF5733",
	core.Housing:        "#33A8FF",
	core.Transportation: "#FF33A8",
	core.Entertainment:  "#A833FF",
	core.Utilities:      "#33FFA8",
	core.Healthcare:     "#3366FF",
	core.Shopping:       "#FF9933",
	core.Personal:       "#33FF33",
	core.Education:      "#9933FF",
	core.Travel:         "#FF3366",
	core.OtherCategory:  "#999999",
}

// CategoryColor returns the palette colour for c.
func CategoryColor(c core.Category) string {
	if v, ok := palette[c]; ok {
		return v
	}
	return DefaultColor
}

// Set holds the three rendered charts of the summary panel.
type Set struct {
	ByCategory      template.HTML
	ByPaymentMethod template.HTML
	ByMonth         template.HTML
}

// Render builds all three charts from s. Empty breakdowns render as "".
func Render(s core.ExpenseSummary) (Set, error) {
	var set Set
	var err error
	if set.ByCategory, err = CategoryChart(s.ByCategory); err != nil {
		return Set{}, fmt.Errorf("category chart: %w", err)
	}
	if set.ByPaymentMethod, err = PaymentMethodChart(s.ByPaymentMethod); err != nil {
		return Set{}, fmt.Errorf("payment method chart: %w", err)
	}
	if set.ByMonth, err = MonthChart(s.ByMonth); err != nil {
		return Set{}, fmt.Errorf("month chart: %w", err)
	}
	return set, nil
}

// CategoryChart colours each bar with its category colour.
func CategoryChart(t core.Totals[core.Category]) (template.HTML, error) {
	buckets := t.Buckets()
	labels := make([]string, 0, len(buckets))
	data := make([]opts.BarData, 0, len(buckets))
	for _, b := range buckets {
		labels = append(labels, b.Key.String())
		data = append(data, opts.BarData{
			Name:      b.Key.String(),
			Value:     b.Amount.Float(),
			ItemStyle: &opts.ItemStyle{Color: CategoryColor(b.Key)},
		})
	}
	return renderBar("Expenses by Category", "chart_by_category", labels, data)
}

func PaymentMethodChart(t core.Totals[core.PaymentMethod]) (template.HTML, error) {
	buckets := t.Buckets()
	labels := make([]string, 0, len(buckets))
	data := make([]opts.BarData, 0, len(buckets))
	for _, b := range buckets {
		labels = append(labels, b.Key.String())
		data = append(data, opts.BarData{Name: b.Key.String(), Value: b.Amount.Float()})
	}
	return renderBar("Expenses by Payment Method", "chart_by_payment_method", labels, data)
}

// MonthChart orders months ascending and labels them MM/YY. The unknown
// month sorts last.
func MonthChart(t core.Totals[string]) (template.HTML, error) {
	buckets := t.Buckets()
	slices.SortStableFunc(buckets, func(a, b core.Bucket[string]) int {
		switch {
		case a.Key == b.Key:
			return 0
		case a.Key == core.UnknownMonth:
			return 1
		case b.Key == core.UnknownMonth:
			return -1
		case a.Key < b.Key:
			return -1
		}
		return 1
	})
	labels := make([]string, 0, len(buckets))
	data := make([]opts.BarData, 0, len(buckets))
	for _, b := range buckets {
		label := MonthLabel(b.Key)
		labels = append(labels, label)
		data = append(data, opts.BarData{Name: label, Value: b.Amount.Float()})
	}
	return renderBar("Expenses by Month", "chart_by_month", labels, data)
}

// MonthLabel turns a YYYY-MM key into MM/YY; other keys are returned as is.
func MonthLabel(key string) string {
	t, err := time.Parse(core.MonthLayout, key)
	if err != nil {
		return key
	}
	return t.Format("01/06")
}

func renderBar(title, chartID string, labels []string, data []opts.BarData) (template.HTML, error) {
	if len(data) == 0 {
		return "", nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  "320px",
			ChartID: chartID,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Rotate:      30,
				HideOverlap: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "USD",
		}),
	)
	bar.SetXAxis(labels).AddSeries(title, data)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", err
	}
	// rendered from our own series data, not user markup
	return template.HTML(buf.String()), nil
}
