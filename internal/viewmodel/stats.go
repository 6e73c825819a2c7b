package viewmodel

import (
	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/shopspring/decimal"
)

type CampaignStats struct {
	Campaigns     int             `json:"campaigns"`
	AvgBudget     decimal.Decimal `json:"avgBudget"`
	HighestBudget decimal.Decimal `json:"highestBudget"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
}

// ComputeCampaignStats aggregates budgets in a single pass. The average is rounded to cents.
func ComputeCampaignStats(campaigns []models.Campaign) CampaignStats {
	var st CampaignStats
	for i, c := range campaigns {
		st.Campaigns++
		st.TotalSpent = st.TotalSpent.Add(c.Budget)
		if i == 0 || c.Budget.GreaterThan(st.HighestBudget) {
			st.HighestBudget = c.Budget
		}
	}
	if st.Campaigns > 0 {
		st.AvgBudget = st.TotalSpent.Div(decimal.NewFromInt(int64(st.Campaigns))).Round(2)
	}
	return st
}
