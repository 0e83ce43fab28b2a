package model

import "github.com/shopspring/decimal"

// Summary is a read-only snapshot of an account's budget and history.
type Summary struct {
	Name           string
	Period         Period
	Transactions   []Transaction
	Initial        decimal.Decimal
	Used           decimal.Decimal
	Remaining      decimal.Decimal
	PercentageUsed decimal.Decimal
	OverBudget     bool
}

// NewSummary snapshots budget and transactions. The transaction slice is copied.
func NewSummary(name string, budget *Budget, transactions []Transaction) Summary {
	txns := make([]Transaction, len(transactions))
	copy(txns, transactions)

	return Summary{
		Name:           name,
		Period:         budget.Period(),
		Initial:        budget.Initial(),
		Used:           budget.Used(),
		Remaining:      budget.Remaining(),
		PercentageUsed: budget.PercentageUsed(),
		OverBudget:     budget.IsOverBudget(),
		Transactions:   txns,
	}
}

// TotalEmission sums the emission of every transaction in the snapshot.
func (s Summary) TotalEmission() decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.Transactions {
		total = total.Add(t.Emission())
	}
	return total
}
