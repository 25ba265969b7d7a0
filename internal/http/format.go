package http

import (
	"fmt"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"

	"expense-tracker/internal/charts"
	"expense-tracker/internal/core"
)

// FormatCurrency renders USD with thousands separators, e.g. "$1,234.56".
func FormatCurrency(m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}

// FormatDate renders "Jan 5, 2024", or "" for the zero date.
func FormatDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2, 2006")
}

// FormatMonth turns a YYYY-MM key into "January 2024". Unparsable keys are
// returned unchanged.
func FormatMonth(key string) string {
	t, err := time.Parse(core.MonthLayout, key)
	if err != nil {
		return key
	}
	return t.Format("January 2006")
}

// categoryBadgeStyle tints the badge background with the category colour.
func categoryBadgeStyle(c core.Category) template.CSS {
	color := charts.CategoryColor(c)
	return template.CSS(fmt.Sprintf("background-color: %s25; color: %s", color, color))
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"currency":    FormatCurrency,
		"date":        FormatDate,
		"month":       FormatMonth,
		"badgeStyle":  categoryBadgeStyle,
		"categoryHex": charts.CategoryColor,
	}
}
