package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleCustomers() []Customer {
	return []Customer{
		{ID: "1", Name: "Alice", Status: CustomerStatusActive},
		{ID: "2", Name: "Bob", Status: CustomerStatusLead},
		{ID: "3", Name: "Malice Cooper", Status: CustomerStatusInactive},
	}
}

func names(customers []Customer) []string {
	out := make([]string, 0, len(customers))
	for _, c := range customers {
		out = append(out, c.Name)
	}
	return out
}

func TestApplyFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria FilterCriteria
		want     []string
	}{
		{
			name:     "default criteria keep everything",
			criteria: DefaultFilterCriteria(),
			want:     []string{"Alice", "Bob", "Malice Cooper"},
		},
		{
			name:     "zero value behaves like All",
			criteria: FilterCriteria{},
			want:     []string{"Alice", "Bob", "Malice Cooper"},
		},
		{
			name:     "case-insensitive substring keeps order",
			criteria: FilterCriteria{SearchQuery: "ALI", StatusFilter: StatusAll},
			want:     []string{"Alice", "Malice Cooper"},
		},
		{
			name:     "status equality",
			criteria: FilterCriteria{StatusFilter: CustomerStatusLead},
			want:     []string{"Bob"},
		},
		{
			name:     "search and status combine",
			criteria: FilterCriteria{SearchQuery: "ali", StatusFilter: CustomerStatusActive},
			want:     []string{"Alice"},
		},
		{
			name:     "no match",
			criteria: FilterCriteria{SearchQuery: "zed", StatusFilter: StatusAll},
			want:     []string{},
		},
		{
			name:     "opportunity type never matches",
			criteria: FilterCriteria{StatusFilter: StatusAll, OpportunityType: "Upsell"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilter(sampleCustomers(), tt.criteria)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestApplyFilter_SpecScenario(t *testing.T) {
	customers := []Customer{
		{Name: "Alice", Status: CustomerStatusActive},
		{Name: "Bob", Status: CustomerStatusLead},
	}

	got := ApplyFilter(customers, FilterCriteria{SearchQuery: "ali", StatusFilter: StatusAll})

	assert.Equal(t, []Customer{{Name: "Alice", Status: CustomerStatusActive}}, got)
}

func TestFilterCriteria_IsZero(t *testing.T) {
	assert.True(t, FilterCriteria{}.IsZero())
	assert.True(t, DefaultFilterCriteria().IsZero())
	assert.False(t, FilterCriteria{StatusFilter: CustomerStatusLead}.IsZero())
	assert.False(t, FilterCriteria{SearchQuery: "a"}.IsZero())
}
