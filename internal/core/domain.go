package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the canonical calendar date format.
const DateLayout = "2006-01-02"

// MonthLayout is the key format used when grouping by month.
const MonthLayout = "2006-01"

const (
	Food           Category = "Food"
	Housing        Category = "Housing"
	Transportation Category = "Transportation"
	Entertainment  Category = "Entertainment"
	Utilities      Category = "Utilities"
	Healthcare     Category = "Healthcare"
	Shopping       Category = "Shopping"
	Personal       Category = "Personal"
	Education      Category = "Education"
	Travel         Category = "Travel"
	OtherCategory  Category = "Other"

	// UnknownCategory buckets records whose category is outside the enumeration.
	UnknownCategory Category = "Unknown"
)

const (
	Cash          PaymentMethod = "Cash"
	CreditCard    PaymentMethod = "Credit Card"
	DebitCard     PaymentMethod = "Debit Card"
	BankTransfer  PaymentMethod = "Bank Transfer"
	MobilePayment PaymentMethod = "Mobile Payment"
	OtherMethod   PaymentMethod = "Other"

	// UnknownPaymentMethod buckets records whose method is outside the enumeration.
	UnknownPaymentMethod PaymentMethod = "Unknown"
)

// UnknownMonth is the month key used for records with an unparsable date.
const UnknownMonth = "unknown"

type (
	Category      string
	PaymentMethod string

	// Date is a calendar day without a time component, always in UTC.
	Date struct {
		time.Time
	}

	Expense struct {
		ID            string        `json:"id"`
		Amount        Money         `json:"amount"`
		Description   string        `json:"description"`
		Category      Category      `json:"category"`
		Date          Date          `json:"date"`
		PaymentMethod PaymentMethod `json:"paymentMethod"`
		IsRecurring   bool          `json:"isRecurring"` // display only
	}
)

var (
	ErrEmptyID              = errors.New("empty id")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrEmptyDescription     = errors.New("empty description")
	ErrDescriptionTooLong   = errors.New("description too long (max 200 characters)")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

var categories = []Category{
	Food, Housing, Transportation, Entertainment, Utilities, Healthcare,
	Shopping, Personal, Education, Travel, OtherCategory,
}

var paymentMethods = []PaymentMethod{
	Cash, CreditCard, DebitCard, BankTransfer, MobilePayment, OtherMethod,
}

// Categories returns the closed set of categories in declaration order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// PaymentMethods returns the closed set of payment methods in declaration order.
func PaymentMethods() []PaymentMethod {
	return append([]PaymentMethod(nil), paymentMethods...)
}

func (c Category) String() string { return string(c) }

// Valid reports whether c is a member of the category enumeration.
func (c Category) Valid() bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the enumeration, exactly first and then
// ignoring case and surrounding spaces.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, v := range categories {
		if string(v) == s {
			return v, nil
		}
	}
	for _, v := range categories {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return "", ErrInvalidCategory
}

func (p PaymentMethod) String() string { return string(p) }

// Valid reports whether p is a member of the payment method enumeration.
func (p PaymentMethod) Valid() bool {
	for _, v := range paymentMethods {
		if p == v {
			return true
		}
	}
	return false
}

// ParsePaymentMethod matches s against the enumeration, exactly first and then
// ignoring case and surrounding spaces.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	for _, v := range paymentMethods {
		if string(v) == s {
			return v, nil
		}
	}
	for _, v := range paymentMethods {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return "", ErrInvalidPaymentMethod
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a canonical YYYY-MM-DD string. A trailing time component
// ("2024-01-05T10:00:00Z" or "2024-01-05 10:00:00") is truncated first.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// String returns the canonical YYYY-MM-DD form, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthKey returns the YYYY-MM grouping key.
func (d Date) MonthKey() string {
	if d.IsZero() {
		return UnknownMonth
	}
	return d.Format(MonthLayout)
}

// MarshalJSON renders the canonical date string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a date or timestamp string. Unparsable values decode
// to the zero Date rather than failing the whole document.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

const maxDescriptionLen = 200

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(e.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if !e.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}
