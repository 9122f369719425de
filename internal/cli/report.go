package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/taxwise/internal/advisory"
	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/credit"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/Veraticus/taxwise/internal/tax"
	"github.com/charmbracelet/lipgloss"
)

// reportSections is the display order of deduction sections.
var reportSections = []model.Section{model.Section80C, model.Section80D, model.Section24B}

// RenderTaxReport renders an optimisation report for financialYear.
func RenderTaxReport(r *tax.Report, financialYear string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Gross income:"), common.FormatINR(r.GrossIncome))
	if r.Transactions > 0 {
		fmt.Fprintf(&b, "%s\n", SubtleStyle.Render(fmt.Sprintf("%d transactions analysed", r.Transactions)))
	}

	b.WriteString("\n" + BoldStyle.Render("Deductions found") + "\n")
	rows := make([][]string, 0, len(reportSections)+1)
	for _, s := range reportSections {
		rows = append(rows, []string{string(s), common.FormatINR(r.Deductions.Get(s))})
	}
	if r.Section80E.IsPositive() {
		rows = append(rows, []string{string(model.Section80E), common.FormatINR(r.Section80E)})
	}
	b.WriteString(renderTable([]string{"Section", "Amount"}, rows, 1))

	b.WriteString("\n" + BoldStyle.Render("Regime comparison") + "\n")
	b.WriteString(renderTable(
		[]string{"Regime", "Deductions", "Taxable income", "Tax"},
		[][]string{
			regimeRow("Old", r.Old),
			regimeRow("New", r.New),
		},
		1, 2, 3,
	))

	rec := r.Recommendation
	b.WriteString("\n" + SuccessStyle.Bold(true).Render(
		fmt.Sprintf("%s Choose the %s regime: tax %s, saving %s",
			SuccessIcon, rec.Regime, common.FormatINR(rec.FinalTax), common.FormatINR(rec.SavingsPotential))))
	b.WriteString("\n" + rec.Advice)

	if rec.Regime == model.RegimeOld && len(r.Suggestions) > 0 {
		b.WriteString("\n\n" + BoldStyle.Render("Unused allowances") + "\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "• %s (%s): invest %s more to save %s\n",
				s.InvestmentType, s.Section, common.FormatINRFloat(s.Amount), common.FormatINRFloat(s.TaxSaving))
		}
	}

	title := ChartIcon + " Tax optimisation"
	if financialYear != "" {
		title += " FY " + financialYear
	}
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

func regimeRow(name string, r tax.Result) []string {
	return []string{
		name,
		common.FormatINR(r.TotalDeductions),
		common.FormatINR(r.TaxableIncome),
		common.FormatINR(r.TaxLiability),
	}
}

// RenderAssessment renders a credit score with its band and advice.
func RenderAssessment(a credit.Assessment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Score:"), scoreStyle(a.Score).Render(fmt.Sprintf("%d (%s)", a.Score, a.Band)))
	fmt.Fprintf(&b, "%s %.0f%%\n", BoldStyle.Render("Utilization:"), a.Utilization)
	fmt.Fprintf(&b, "%s %d\n", BoldStyle.Render("Late payments (24m):"), a.Inputs.LatePayments24m)
	fmt.Fprintf(&b, "%s %.1f years\n", BoldStyle.Render("Oldest account:"), a.Inputs.OldestAccountYears)

	b.WriteString("\n" + BoldStyle.Render("Advice") + "\n")
	for _, item := range a.Advice {
		fmt.Fprintf(&b, "%s %s\n  %s\n", item.Icon, BoldStyle.Render(item.Title), item.Text)
	}

	return RenderBox(ChartIcon+" Credit health", strings.TrimRight(b.String(), "\n"))
}

// RenderWhatIf renders a simulated score change and, when advice is not nil,
// the advice attached to it.
func RenderWhatIf(d credit.Delta, advice *advisory.Result) string {
	var b strings.Builder

	change := fmt.Sprintf("%+d", d.Improvement)
	changeStyle := SubtleStyle
	if d.Improvement > 0 {
		changeStyle = SuccessStyle
	}

	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Scenario:"), d.Scenario.Describe())
	fmt.Fprintf(&b, "%s %d → %s (%s)\n",
		BoldStyle.Render("Score:"), d.Baseline, scoreStyle(d.Projected).Render(fmt.Sprint(d.Projected)), changeStyle.Render(change))

	if advice == nil {
		return RenderBox(ChartIcon+" What-if simulation", strings.TrimRight(b.String(), "\n"))
	}

	label := RobotIcon + " Advisory"
	if advice.IsSimulated {
		label += SubtleStyle.Render(" (simulated)")
	} else if advice.Provider != "" {
		label += SubtleStyle.Render(" via " + advice.Provider)
	}
	b.WriteString("\n" + BoldStyle.Render(label) + "\n")
	b.WriteString(advice.Text)

	return RenderBox(ChartIcon+" What-if simulation", b.String())
}

// RenderTransactions renders classified transactions as a table.
func RenderTransactions(txns []model.ClassifiedTransaction) string {
	rows := make([][]string, 0, len(txns))
	for _, txn := range txns {
		amount := common.FormatINR(txn.Amount)
		if !txn.Direction.IsCredit() {
			amount = "-" + amount
		}
		section := ""
		if txn.TaxDeductible {
			section = string(txn.Section)
		}
		rows = append(rows, []string{
			txn.Date.Format("2006-01-02"),
			truncate(txn.Description, 40),
			amount,
			string(txn.Category),
			section,
		})
	}
	return renderTable([]string{"Date", "Description", "Amount", "Category", "Section"}, rows, 2)
}

// RenderHistory renders stored tax calculations, newest first.
func RenderHistory(calcs []model.TaxCalculation) string {
	rows := make([][]string, 0, len(calcs))
	for _, c := range calcs {
		rows = append(rows, []string{
			c.CalculationDate.Local().Format("2006-01-02 15:04"),
			c.FinancialYear,
			common.FormatINRFloat(c.TotalIncome),
			common.FormatINRFloat(c.OldRegimeTax),
			common.FormatINRFloat(c.NewRegimeTax),
			string(c.RecommendedRegime),
		})
	}
	return renderTable([]string{"Calculated", "FY", "Income", "Old tax", "New tax", "Regime"}, rows, 2, 3, 4)
}

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 750:
		return SuccessStyle.Bold(true)
	case score >= 650:
		return WarningStyle.Bold(true)
	default:
		return ErrorStyle.Bold(true)
	}
}

// renderTable lays out rows under headers; rightAligned lists numeric columns.
func renderTable(headers []string, rows [][]string, rightAligned ...int) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	right := make(map[int]bool, len(rightAligned))
	for _, i := range rightAligned {
		right[i] = true
	}

	cell := func(i int, text string) string {
		style := TableCellStyle.Width(widths[i] + 2)
		if right[i] {
			style = style.Align(lipgloss.Right)
		}
		return style.Render(text)
	}

	var b strings.Builder
	headerCells := make([]string, len(headers))
	for i, h := range headers {
		headerCells[i] = cell(i, h)
	}
	b.WriteString(TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)) + "\n")

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, text := range row {
			cells[i] = cell(i, text)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
