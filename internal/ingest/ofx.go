package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagRegex  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes formatting quirks some banks ship in OFX exports.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagRegex.ReplaceAllString(content, "$1>")
}

// ReadOFX reads bank and credit card statements from an OFX/QFX export.
// Negative amounts are debits.
func ReadOFX(r io.Reader, source string) (Batch, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return Batch{}, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var batch Batch
	add := func(list *ofxgo.TransactionList, account string) {
		if list == nil {
			return
		}
		for _, ofxTx := range list.Transactions {
			txn, ok := convertOFX(ofxTx, source)
			if !ok {
				slog.Debug("skipping OFX transaction", "account", account, "fitid", ofxTx.FiTID)
				batch.Skipped++
				continue
			}
			batch.Transactions = append(batch.Transactions, txn)
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))
		}
	}

	slog.Info("Parsed OFX file",
		"transactions", len(batch.Transactions),
		"skipped", batch.Skipped)

	if len(batch.Transactions) == 0 {
		return batch, fmt.Errorf("%w: no statement transactions", common.ErrNoUsableRows)
	}
	return batch, nil
}

func convertOFX(ofxTx ofxgo.Transaction, source string) (model.Transaction, bool) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil || amount.IsZero() || ofxTx.DtPosted.IsZero() {
		return model.Transaction{}, false
	}

	description := ofxDescription(ofxTx)
	if description == "" {
		return model.Transaction{}, false
	}

	direction := model.DirectionCredit
	if amount.IsNegative() {
		direction = model.DirectionDebit
	}

	id := string(ofxTx.FiTID)
	if id == "" {
		id = uuid.NewString()
	}

	txn := model.Transaction{
		ID:          id,
		Date:        ofxTx.DtPosted.Time,
		Description: description,
		Amount:      amount.Abs(),
		Direction:   direction,
		Source:      source,
	}
	txn.Hash = txn.GenerateHash()
	return txn, true
}

// ofxDescription prefers NAME, appending MEMO when it adds detail the keyword
// rules may need (e.g. "NEFT" + "SALARY MARCH").
func ofxDescription(tx ofxgo.Transaction) string {
	name := strings.TrimSpace(string(tx.Name))
	if name == "" && tx.Payee != nil {
		name = strings.TrimSpace(string(tx.Payee.Name))
	}
	memo := strings.TrimSpace(string(tx.Memo))
	switch {
	case memo == "" || strings.EqualFold(memo, name):
		return name
	case name == "":
		return memo
	default:
		return name + " " + memo
	}
}
