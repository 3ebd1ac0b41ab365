package models

import "strings"

// StatusAll disables the status predicate of a FilterCriteria.
const StatusAll = "All"

// FilterCriteria narrows a customer listing.
type FilterCriteria struct {
	SearchQuery     string `json:"searchQuery" form:"search"`
	StatusFilter    string `json:"statusFilter" form:"status"`
	OpportunityType string `json:"opportunityType" form:"opportunityType"`
}

// DefaultFilterCriteria returns criteria that match every customer.
func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{StatusFilter: StatusAll}
}

// IsZero reports whether the criteria let every customer through.
func (f FilterCriteria) IsZero() bool {
	return f.SearchQuery == "" && f.OpportunityType == "" &&
		(f.StatusFilter == "" || f.StatusFilter == StatusAll)
}

// Matches reports whether the customer passes every predicate of the criteria.
// An empty status filter behaves like "All".
func (f FilterCriteria) Matches(c *Customer) bool {
	if f.StatusFilter != "" && f.StatusFilter != StatusAll && c.Status != f.StatusFilter {
		return false
	}
	if f.SearchQuery != "" &&
		!strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.SearchQuery)) {
		return false
	}
	// Customers carry no opportunity type, so a non-empty type never matches.
	if f.OpportunityType != "" {
		return false
	}
	return true
}

// ApplyFilter returns the customers that match the criteria, keeping their
// original order.
func ApplyFilter(customers []Customer, f FilterCriteria) []Customer {
	out := make([]Customer, 0, len(customers))
	for i := range customers {
		if f.Matches(&customers[i]) {
			out = append(out, customers[i])
		}
	}
	return out
}
