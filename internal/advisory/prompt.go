package advisory

import (
	"fmt"
	"strings"

	"github.com/Veraticus/taxwise/internal/credit"
)

// SystemInstruction frames every live model call.
const SystemInstruction = "You are an Indian credit bureau expert giving professional, actionable and " +
	"non-judgemental advice on CIBIL scores and personal financial strategy."

// SimulatedPrefix opens every fallback text.
const SimulatedPrefix = "(Simulated advice: live advisory unavailable)"

// BuildPrompt renders the user prompt for a what-if delta.
func BuildPrompt(delta credit.Delta) string {
	return fmt.Sprintf(`Act as a senior credit health consultant.
A client's simulated CIBIL score is %d. They are considering %s.
Our model projects the score would move to %d (%+d points).

Give a concise, professional analysis in exactly four numbered points:
1. The credit factor this action affects.
2. How the action changes the score.
3. One best practice to keep the gain.
4. A clear recommendation.`,
		delta.Baseline, delta.Scenario.Describe(), delta.Projected, delta.Improvement)
}

// Fallback is the deterministic advice used whenever the live path fails.
func Fallback(delta credit.Delta) string {
	conclusion := "no immediate score impact, but it maintains credit stability"
	if delta.Improvement > 0 {
		conclusion = "highly beneficial and strongly recommended if financially feasible"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s With a current score of %d, %s is projected to take you to %d (%+d points).\n",
		SimulatedPrefix, delta.Baseline, delta.Scenario.Describe(), delta.Projected, delta.Improvement)
	b.WriteString("1. Factor: this action works on credit utilization, the share of your available credit in use.\n")
	fmt.Fprintf(&b, "2. Mechanism: lower utilization signals less reliance on credit; the model credits this with %d point(s).\n", delta.Improvement)
	b.WriteString("3. Best practice: keep reported utilization below 10% by clearing card balances before the statement date.\n")
	fmt.Fprintf(&b, "4. Conclusion: %s.", conclusion)
	return b.String()
}
