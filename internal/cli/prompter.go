package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/taxwise/internal/credit"
)

// Prompter asks for numeric values on a terminal, re-asking until the answer
// is valid.
type Prompter struct {
	reader *LineReader
	writer io.Writer
}

// NewPrompter creates a prompter reading from r and writing prompts to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		reader: NewLineReader(r),
		writer: w,
	}
}

// PromptFloat asks for a non-negative number. An empty answer keeps def.
func (p *Prompter) PromptFloat(ctx context.Context, label string, def float64) (float64, error) {
	for {
		fmt.Fprint(p.writer, FormatPrompt(fmt.Sprintf("%s [%s]", label, strconv.FormatFloat(def, 'f', -1, 64))))

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return 0, err
		}
		if line == "" {
			return def, nil
		}

		v, err := strconv.ParseFloat(strings.ReplaceAll(line, ",", ""), 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			fmt.Fprintln(p.writer, FormatError("Please enter a non-negative number"))
			continue
		}
		return v, nil
	}
}

// PromptInt asks for a non-negative whole number. An empty answer keeps def.
func (p *Prompter) PromptInt(ctx context.Context, label string, def int) (int, error) {
	for {
		fmt.Fprint(p.writer, FormatPrompt(fmt.Sprintf("%s [%d]", label, def)))

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return 0, err
		}
		if line == "" {
			return def, nil
		}

		v, err := strconv.Atoi(line)
		if err != nil || v < 0 {
			fmt.Fprintln(p.writer, FormatError("Please enter a non-negative whole number"))
			continue
		}
		return v, nil
	}
}

// PromptCreditInputs collects the four credit profile fields, offering the
// values in defaults as the answers to keep.
func (p *Prompter) PromptCreditInputs(ctx context.Context, defaults credit.Inputs) (credit.Inputs, error) {
	var (
		in  credit.Inputs
		err error
	)
	if in.TotalCreditLimit, err = p.PromptFloat(ctx, "Total credit limit (₹)", defaults.TotalCreditLimit); err != nil {
		return credit.Inputs{}, err
	}
	if in.OutstandingDebt, err = p.PromptFloat(ctx, "Outstanding debt (₹)", defaults.OutstandingDebt); err != nil {
		return credit.Inputs{}, err
	}
	if in.LatePayments24m, err = p.PromptInt(ctx, "Late payments in the last 24 months", defaults.LatePayments24m); err != nil {
		return credit.Inputs{}, err
	}
	if in.OldestAccountYears, err = p.PromptFloat(ctx, "Age of oldest account (years)", defaults.OldestAccountYears); err != nil {
		return credit.Inputs{}, err
	}
	return in, nil
}
