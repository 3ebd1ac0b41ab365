package models

// DashboardSummary holds aggregate customer and opportunity counts. It is
// derived from the full collection on every request and never stored.
type DashboardSummary struct {
	TotalCustomers          int `json:"totalCustomers"`
	ActiveCustomers         int `json:"activeCustomers"`
	InactiveCustomers       int `json:"inactiveCustomers"`
	LeadCustomers           int `json:"leadCustomers"`
	TotalOpportunities      int `json:"totalOpportunities"`
	NewOpportunities        int `json:"newOpportunities"`
	ClosedWonOpportunities  int `json:"closedWonOpportunities"`
	ClosedLostOpportunities int `json:"closedLostOpportunities"`
}

// Summarize counts customers by status and every embedded opportunity by
// status. Records carrying a status outside the known set count towards the
// totals only.
func Summarize(customers []Customer) DashboardSummary {
	var s DashboardSummary
	for i := range customers {
		c := &customers[i]
		s.TotalCustomers++
		switch c.Status {
		case CustomerStatusActive:
			s.ActiveCustomers++
		case CustomerStatusInactive:
			s.InactiveCustomers++
		case CustomerStatusLead:
			s.LeadCustomers++
		}

		for _, o := range c.Opportunities {
			s.TotalOpportunities++
			switch o.Status {
			case OpportunityStatusNew:
				s.NewOpportunities++
			case OpportunityStatusClosedWon:
				s.ClosedWonOpportunities++
			case OpportunityStatusClosedLost:
				s.ClosedLostOpportunities++
			}
		}
	}
	return s
}
