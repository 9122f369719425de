package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/credit"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// transactionInput is the wire form of a raw transaction.
type transactionInput struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
}

// toModel converts one record. A blank direction is taken from the amount
// sign; an explicit direction requires a non-negative amount.
func (in transactionInput) toModel() (model.Transaction, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(in.Date))
	if err != nil {
		return model.Transaction{}, common.NewValidationError("date", in.Date, "expected YYYY-MM-DD")
	}
	if strings.TrimSpace(in.Description) == "" {
		return model.Transaction{}, common.NewValidationError("description", in.Description, "must not be empty")
	}

	amount := in.Amount
	var dir model.Direction
	switch raw := strings.TrimSpace(in.Direction); {
	case raw == "":
		if amount.IsZero() {
			return model.Transaction{}, common.NewValidationError("amount", amount.String(), "must be non-zero without a direction")
		}
		dir = model.DirectionCredit
		if amount.IsNegative() {
			dir = model.DirectionDebit
		}
		amount = amount.Abs()
	default:
		var ok bool
		if dir, ok = model.ParseDirection(raw); !ok {
			return model.Transaction{}, common.NewValidationError("direction", in.Direction, "expected credit or debit")
		}
		if amount.IsNegative() {
			return model.Transaction{}, common.NewValidationError("amount", amount.String(), "must be non-negative")
		}
	}

	txn := model.Transaction{
		ID:          uuid.NewString(),
		Date:        date,
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		Direction:   dir,
		Source:      "api",
	}
	txn.Hash = txn.GenerateHash()
	return txn, nil
}

type transactionsRequest struct {
	FinancialYear string             `json:"financial_year,omitempty"`
	Transactions  []transactionInput `json:"transactions"`
}

// toModel converts every usable record and counts the rest. It fails with
// common.ErrNoUsableRows only when nothing survives.
func (req transactionsRequest) toModel() ([]model.Transaction, int, error) {
	txns := make([]model.Transaction, 0, len(req.Transactions))
	skipped := 0
	for _, in := range req.Transactions {
		txn, err := in.toModel()
		if err != nil {
			skipped++
			continue
		}
		txns = append(txns, txn)
	}
	if len(txns) == 0 {
		return nil, skipped, fmt.Errorf("%w: %d record(s) skipped", common.ErrNoUsableRows, skipped)
	}
	return txns, skipped, nil
}

type classifiedTransaction struct {
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	Direction     model.Direction `json:"direction"`
	Category      model.Category  `json:"category"`
	Section       model.Section   `json:"section"`
	Amount        decimal.Decimal `json:"amount"`
	TaxDeductible bool            `json:"tax_deductible"`
}

func newClassifiedTransaction(txn model.ClassifiedTransaction) classifiedTransaction {
	return classifiedTransaction{
		Date:          txn.Date.Format("2006-01-02"),
		Description:   txn.Description,
		Amount:        txn.Amount,
		Direction:     txn.Direction,
		Category:      txn.Category,
		Section:       txn.Section,
		TaxDeductible: txn.TaxDeductible,
	}
}

type classifyResponse struct {
	Transactions []classifiedTransaction `json:"transactions"`
	Skipped      int                     `json:"skipped_rows"`
}

type optimizeResponse struct {
	Calculation model.TaxCalculation `json:"calculation"`
	Advice      string               `json:"advice"`
	Skipped     int                  `json:"skipped_rows"`
	Saved       bool                 `json:"saved"`
}

type whatIfRequest struct {
	Scenario credit.Scenario `json:"scenario"`
	credit.Inputs
}

type whatIfResponse struct {
	Assessment credit.Assessment `json:"assessment"`
	Delta      credit.Delta      `json:"delta"`
}

// advisoryRequest mirrors the advisory contract: two scores and the action.
type advisoryRequest struct {
	ActionType     credit.ScenarioType `json:"action_type"`
	Amount         float64             `json:"amount"`
	CurrentScore   int                 `json:"current_score"`
	ProjectedScore int                 `json:"projected_score"`
}

func (req advisoryRequest) toDelta() (credit.Delta, error) {
	scenario := credit.Scenario{Type: req.ActionType, Amount: req.Amount}
	if err := scenario.Validate(); err != nil {
		return credit.Delta{}, err
	}
	for name, score := range map[string]int{"current_score": req.CurrentScore, "projected_score": req.ProjectedScore} {
		if score < credit.MinScore || score > credit.MaxScore {
			return credit.Delta{}, common.NewValidationError(name, score, "must be between 300 and 900")
		}
	}
	return credit.Delta{
		Scenario:    scenario,
		Baseline:    req.CurrentScore,
		Projected:   req.ProjectedScore,
		Improvement: req.ProjectedScore - req.CurrentScore,
	}, nil
}
