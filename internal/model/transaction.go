package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether money entered or left the account.
type Direction string

// Direction constants.
const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// ParseDirection accepts credit/debit in any case, plus the common CR/DR shorthands.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit", "cr", "deposit":
		return DirectionCredit, true
	case "debit", "dr", "withdrawal":
		return DirectionDebit, true
	default:
		return "", false
	}
}

// IsCredit reports whether d is an inflow.
func (d Direction) IsCredit() bool {
	return d == DirectionCredit
}

// Transaction represents a single financial transaction from any source.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string
	Source      string // file or feed the row came from
	Hash        string
	Direction   Direction
	Amount      decimal.Decimal // magnitude; the sign lives in Direction
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		strings.ToLower(strings.TrimSpace(t.Description)),
		t.Direction)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
