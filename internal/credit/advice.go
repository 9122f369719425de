package credit

import (
	"fmt"
	"math"
	"sort"
)

// AdviceItem is one recommendation. Lower Priority is more urgent.
type AdviceItem struct {
	Icon     string `json:"icon"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Priority int    `json:"priority"`
}

// Advise returns advice for in sorted by ascending priority. It is never empty.
func Advise(in Inputs) []AdviceItem {
	var items []AdviceItem
	util := in.Utilization()

	if in.LatePayments24m > 0 {
		items = append(items, AdviceItem{
			Icon:     "❌",
			Title:    "Critical: Clear Payment History",
			Text:     fmt.Sprintf("%d late payment(s) in the last 24 months are the biggest drag on your score. Set up autopay and pay every due on time from here on.", in.LatePayments24m),
			Priority: 1,
		})
	} else {
		items = append(items, AdviceItem{
			Icon:     "✅",
			Title:    "Excellent Payment History",
			Text:     "No late payments in 24 months. Keep paying every bill on time to maintain this strength.",
			Priority: 4,
		})
	}

	switch pct := int(math.Round(util * 100)); {
	case util >= 0.5:
		items = append(items, AdviceItem{
			Icon:     "⚠️",
			Title:    "Urgent: High Credit Utilization",
			Text:     fmt.Sprintf("You are using %d%% of your available credit. Bring it below 30%%, ideally under 10%%, by paying down balances.", pct),
			Priority: 2,
		})
	case util >= 0.3:
		items = append(items, AdviceItem{
			Icon:     "🟡",
			Title:    "Improve Utilization",
			Text:     fmt.Sprintf("Utilization is %d%%. Paying down balances or requesting a limit increase would bring it under 30%%.", pct),
			Priority: 3,
		})
	}

	if in.OldestAccountYears < 3 {
		items = append(items, AdviceItem{
			Icon:     "⏳",
			Title:    "Build Credit History",
			Text:     "Your credit history is short. Keep your oldest accounts open and active so their age keeps counting.",
			Priority: 5,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority < items[j].Priority
	})
	return items
}
