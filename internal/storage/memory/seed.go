package memory

import "expense-tracker/internal/core"

// SampleExpenses returns the demo data set shown when no backend is configured.
func SampleExpenses() []core.Expense {
	return []core.Expense{
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a01", 120000, "Monthly rent", core.Housing, 2024, 1, 1, core.BankTransfer, true),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a02", 8543, "Grocery shopping", core.Food, 2024, 1, 5, core.DebitCard, false),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a03", 4500, "Gas refill", core.Transportation, 2024, 1, 8, core.CreditCard, false),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a04", 1599, "Streaming subscription", core.Entertainment, 2024, 1, 10, core.CreditCard, true),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a05", 9820, "Electricity bill", core.Utilities, 2024, 1, 15, core.BankTransfer, true),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a06", 3000, "Pharmacy", core.Healthcare, 2024, 1, 18, core.Cash, false),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a07", 6499, "New running shoes", core.Shopping, 2024, 1, 22, core.CreditCard, false),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a08", 2500, "Haircut", core.Personal, 2024, 1, 27, core.Cash, false),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a09", 120000, "Monthly rent", core.Housing, 2024, 2, 1, core.BankTransfer, true),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a10", 4950, "Online course", core.Education, 2024, 2, 3, core.DebitCard, false),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a11", 6275, "Restaurant dinner", core.Food, 2024, 2, 9, core.MobilePayment, false),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a12", 34900, "Weekend train trip", core.Travel, 2024, 2, 16, core.CreditCard, false),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a13", 1200, "Parking", core.Transportation, 2024, 2, 20, core.Cash, false),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a14", 7315, "Grocery shopping", core.Food, 2024, 2, 24, core.DebitCard, false),
		sample("6f1c2a8e-0b1d-4c52-9a43-0d5a4f6e7a15", 2000, "Charity donation", core.OtherCategory, 2024, 3, 2, core.OtherMethod, false),
	}
}

func sample(id string, cents int64, desc string, cat core.Category, y, m, d int, pm core.PaymentMethod, recurring bool) core.Expense {
	return core.Expense{
		ID:            id,
		Amount:        core.Money{Cents: cents},
		Description:   desc,
		Category:      cat,
		Date:          core.NewDate(y, m, d),
		PaymentMethod: pm,
		IsRecurring:   recurring,
	}
}
