package model

// CategoryKind selects one of the two sign-partitioned category lists.
type CategoryKind string

const (
	// KindIncome selects the income category list.
	KindIncome CategoryKind = "income"
	// KindExpense selects the expense category list.
	KindExpense CategoryKind = "expense"
)

// KindForType maps a transaction type to the category list constraining it.
func KindForType(t TransactionType) CategoryKind {
	if t == TypeIncome {
		return KindIncome
	}
	return KindExpense
}

// DefaultIncomeCategories seeds the income list on first run.
var DefaultIncomeCategories = []string{
	"Salary", "Freelance", "Investments", "Gifts", "Other Income",
}

// DefaultExpenseCategories seeds the expense list on first run.
var DefaultExpenseCategories = []string{
	"Housing", "Food", "Transportation", "Utilities",
	"Entertainment", "Healthcare", "Shopping", "Other Expenses",
}
