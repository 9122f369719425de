package main

import (
	"fmt"

	"github.com/Veraticus/taxwise/internal/cli"
	"github.com/Veraticus/taxwise/internal/credit"
	"github.com/Veraticus/taxwise/internal/tui"
	"github.com/spf13/cobra"
)

func creditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credit",
		Short: "Score a credit profile and explore what-if scenarios",
	}

	cmd.AddCommand(creditScoreCmd())
	cmd.AddCommand(creditWhatIfCmd())
	cmd.AddCommand(creditSimulateCmd())

	return cmd
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("limit", 0, "Total credit limit across cards (₹)")
	cmd.Flags().Float64("debt", 0, "Outstanding debt (₹)")
	cmd.Flags().Int("late", 0, "Late payments in the last 24 months")
	cmd.Flags().Float64("age", 0, "Age of the oldest account in years")
}

// profileFromFlags reads the profile flags. When none was given and prompt
// is set, the values are asked for interactively.
func profileFromFlags(cmd *cobra.Command, prompt bool) (credit.Inputs, error) {
	var in credit.Inputs
	in.TotalCreditLimit, _ = cmd.Flags().GetFloat64("limit")
	in.OutstandingDebt, _ = cmd.Flags().GetFloat64("debt")
	in.LatePayments24m, _ = cmd.Flags().GetInt("late")
	in.OldestAccountYears, _ = cmd.Flags().GetFloat64("age")

	anySet := false
	for _, name := range []string{"limit", "debt", "late", "age"} {
		anySet = anySet || cmd.Flags().Changed(name)
	}
	if anySet || !prompt {
		return in, in.Validate()
	}

	p := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	return p.PromptCreditInputs(cmd.Context(), in)
}

func creditScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute a simulated credit score with advice",
		Long: `Compute a simulated CIBIL-style score (300-900) and prioritised advice.
Without profile flags the values are prompted for.`,
		RunE: runCreditScore,
	}
	addProfileFlags(cmd)
	cmd.Flags().Bool("json", false, "Output JSON")
	return cmd
}

func runCreditScore(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	in, err := profileFromFlags(cmd, !asJSON)
	if err != nil {
		return err
	}
	assessment, err := credit.Assess(in)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), assessment)
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderAssessment(assessment))
	return nil
}

func creditWhatIfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatif",
		Short: "Project the score after paying off debt or raising limits",
		Long: `Project the score change of a single action and ask the advisory service
to explain it. Without a configured provider the advice is simulated.

Examples:
  taxwise credit whatif --limit 500000 --debt 200000 --age 5 --scenario payoff --amount 160000
  taxwise credit whatif --limit 100000 --debt 90000 --scenario limit_increase --amount 100000`,
		RunE: runCreditWhatIf,
	}
	addProfileFlags(cmd)
	cmd.Flags().String("scenario", string(credit.ScenarioPayoff), "Scenario: payoff or limit_increase")
	cmd.Flags().Float64("amount", 0, "Scenario amount (₹)")
	cmd.Flags().Bool("no-advice", false, "Skip the advisory call")
	cmd.Flags().Bool("json", false, "Output JSON")
	return cmd
}

func runCreditWhatIf(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	scenarioFlag, _ := cmd.Flags().GetString("scenario")
	amount, _ := cmd.Flags().GetFloat64("amount")
	noAdvice, _ := cmd.Flags().GetBool("no-advice")
	asJSON, _ := cmd.Flags().GetBool("json")

	scenarioType, err := credit.ParseScenarioType(scenarioFlag)
	if err != nil {
		return err
	}
	in, err := profileFromFlags(cmd, !asJSON)
	if err != nil {
		return err
	}
	delta, err := credit.Simulate(in, credit.Scenario{Type: scenarioType, Amount: amount})
	if err != nil {
		return err
	}

	result := struct {
		Delta  credit.Delta `json:"delta"`
		Advice any          `json:"advice,omitempty"`
	}{Delta: delta}

	if noAdvice {
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderWhatIf(delta, nil))
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	advisor := newAdvisor(ctx, cfg)
	defer closeAdvisor(advisor)

	advice := advisor.Advise(ctx, delta)
	if asJSON {
		result.Advice = advice
		return writeJSON(cmd.OutOrStdout(), result)
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderWhatIf(delta, &advice))
	return nil
}

func creditSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Explore scenarios interactively",
		Long: `Open an interactive simulator. Edit the profile and scenario amount and the
projected score updates as you type; press Enter for advice.`,
		RunE: runCreditSimulate,
	}
	addProfileFlags(cmd)
	cmd.Flags().Bool("no-advice", false, "Disable the advisory panel")
	return cmd
}

func runCreditSimulate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	noAdvice, _ := cmd.Flags().GetBool("no-advice")

	in, err := profileFromFlags(cmd, false)
	if err != nil {
		return err
	}

	var advisor tui.Advisor
	if !noAdvice {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		live := newAdvisor(ctx, cfg)
		defer closeAdvisor(live)
		advisor = live
	}

	return tui.Run(ctx, advisor, in)
}
