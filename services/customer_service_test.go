package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"clientconnect-backend/metrics"
	"clientconnect-backend/models"
	"clientconnect-backend/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

type CustomerServiceSuite struct {
	suite.Suite
	store   *store.MemoryCustomerStore
	metrics *metrics.Metrics
	service *CustomerService
	ctx     context.Context
}

func (s *CustomerServiceSuite) SetupTest() {
	s.store = store.NewMemoryCustomerStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = NewCustomerService(s.store, s.metrics, discardLogger())
	s.ctx = context.Background()
}

func TestCustomerServiceSuite(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) create(name, status string) *models.Customer {
	c, err := s.service.CreateCustomer(s.ctx, CreateCustomerInput{Name: name, Contact: name + "@example.com", Status: status})
	s.Require().NoError(err)
	return c
}

func (s *CustomerServiceSuite) TestCreateCustomer_Defaults() {
	c := s.create("Dan Brown", "")

	s.Equal(models.CustomerStatusLead, c.Status)
	s.NotNil(c.Opportunities)
	s.Empty(c.Opportunities)
	s.True(models.IsValidID(c.ID))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CustomersCreated))

	got, err := s.service.GetCustomer(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.Name, got.Name)
}

func (s *CustomerServiceSuite) TestCreateCustomer_RequiresNameAndContact() {
	_, err := s.service.CreateCustomer(s.ctx, CreateCustomerInput{Name: "  ", Contact: "x"})
	s.ErrorIs(err, models.ErrValidation)

	_, err = s.service.CreateCustomer(s.ctx, CreateCustomerInput{Name: "Eve", Contact: ""})
	s.ErrorIs(err, models.ErrValidation)

	_, err = s.service.CreateCustomer(s.ctx, CreateCustomerInput{Name: "Eve", Contact: "e", Status: "Prospect"})
	s.ErrorIs(err, models.ErrValidation)
}

func (s *CustomerServiceSuite) TestUpdateStatus() {
	c := s.create("Bob Smith", models.CustomerStatusLead)

	updated, err := s.service.UpdateStatus(s.ctx, c.ID, models.CustomerStatusActive)
	s.Require().NoError(err)
	s.Equal(models.CustomerStatusActive, updated.Status)

	got, err := s.service.GetCustomer(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.CustomerStatusActive, got.Status)
}

func (s *CustomerServiceSuite) TestUpdateStatus_RejectsUnknownStatus() {
	c := s.create("Bob Smith", models.CustomerStatusLead)

	_, err := s.service.UpdateStatus(s.ctx, c.ID, "Archived")
	s.ErrorIs(err, models.ErrValidation)

	got, err := s.service.GetCustomer(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.CustomerStatusLead, got.Status)
}

func (s *CustomerServiceSuite) TestUpdateStatus_Missing() {
	_, err := s.service.UpdateStatus(s.ctx, "00000000-0000-0000-0000-000000000000", models.CustomerStatusActive)
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *CustomerServiceSuite) TestGetCustomer_MalformedID() {
	_, err := s.service.GetCustomer(s.ctx, "not-a-real-id")
	s.ErrorIs(err, models.ErrNotFound)
	s.ErrorIs(err, models.ErrInvalidID)
}

func (s *CustomerServiceSuite) TestAddOpportunity() {
	c := s.create("Alice Johnson", models.CustomerStatusActive)

	opp, err := s.service.AddOpportunity(s.ctx, c.ID, "Website Redesign", models.OpportunityStatusNew)
	s.Require().NoError(err)
	s.Equal("Website Redesign", opp.Name)
	s.NotEmpty(opp.ID)

	second, err := s.service.AddOpportunity(s.ctx, c.ID, "Hosting", models.OpportunityStatusClosedWon)
	s.Require().NoError(err)

	got, err := s.service.GetCustomer(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Opportunities, 2)
	s.Equal(opp.ID, got.Opportunities[0].ID)
	s.Equal(second.ID, got.Opportunities[1].ID)
	s.Equal(2.0, testutil.ToFloat64(s.metrics.OpportunitiesAdded))
}

func (s *CustomerServiceSuite) TestAddOpportunity_Validation() {
	c := s.create("Alice Johnson", models.CustomerStatusActive)

	_, err := s.service.AddOpportunity(s.ctx, c.ID, "", models.OpportunityStatusNew)
	s.ErrorIs(err, models.ErrValidation)

	_, err = s.service.AddOpportunity(s.ctx, c.ID, "Deal", "")
	s.ErrorIs(err, models.ErrValidation)

	_, err = s.service.AddOpportunity(s.ctx, c.ID, "Deal", "Pending")
	s.ErrorIs(err, models.ErrValidation)

	got, err := s.service.GetCustomer(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Empty(got.Opportunities)
}

func (s *CustomerServiceSuite) TestAddOpportunity_MissingCustomer() {
	_, err := s.service.AddOpportunity(s.ctx, "00000000-0000-0000-0000-000000000000", "Deal", models.OpportunityStatusNew)
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *CustomerServiceSuite) TestUpdateOpportunity_PartialAndPositionPreserved() {
	c := s.create("Alice Johnson", models.CustomerStatusActive)
	first, err := s.service.AddOpportunity(s.ctx, c.ID, "Website Redesign", models.OpportunityStatusNew)
	s.Require().NoError(err)
	_, err = s.service.AddOpportunity(s.ctx, c.ID, "Hosting", models.OpportunityStatusNew)
	s.Require().NoError(err)

	updated, err := s.service.UpdateOpportunity(s.ctx, c.ID, first.ID,
		models.OpportunityPatch{Status: strPtr(models.OpportunityStatusClosedWon)})
	s.Require().NoError(err)
	s.Equal("Website Redesign", updated.Name)
	s.Equal(models.OpportunityStatusClosedWon, updated.Status)

	got, err := s.service.GetCustomer(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(first.ID, got.Opportunities[0].ID)
	s.Equal(models.OpportunityStatusClosedWon, got.Opportunities[0].Status)
}

func (s *CustomerServiceSuite) TestUpdateOpportunity_Errors() {
	c := s.create("Alice Johnson", models.CustomerStatusActive)
	opp, err := s.service.AddOpportunity(s.ctx, c.ID, "Deal", models.OpportunityStatusNew)
	s.Require().NoError(err)

	_, err = s.service.UpdateOpportunity(s.ctx, c.ID, "missing", models.OpportunityPatch{Name: strPtr("x")})
	s.ErrorIs(err, models.ErrNotFound)

	_, err = s.service.UpdateOpportunity(s.ctx, c.ID, opp.ID, models.OpportunityPatch{Status: strPtr("Won")})
	s.ErrorIs(err, models.ErrValidation)

	_, err = s.service.UpdateOpportunity(s.ctx, c.ID, opp.ID, models.OpportunityPatch{Name: strPtr(" ")})
	s.ErrorIs(err, models.ErrValidation)
}

func (s *CustomerServiceSuite) TestListCustomers_Filter() {
	s.create("Alice Johnson", models.CustomerStatusActive)
	s.create("Bob Smith", models.CustomerStatusLead)
	s.create("Carol White", models.CustomerStatusInactive)

	all, err := s.service.ListCustomers(s.ctx, models.FilterCriteria{})
	s.Require().NoError(err)
	s.Len(all, 3)

	leads, err := s.service.ListCustomers(s.ctx, models.FilterCriteria{StatusFilter: models.CustomerStatusLead})
	s.Require().NoError(err)
	s.Require().Len(leads, 1)
	s.Equal("Bob Smith", leads[0].Name)

	search, err := s.service.ListCustomers(s.ctx, models.FilterCriteria{SearchQuery: "o", StatusFilter: models.StatusAll})
	s.Require().NoError(err)
	s.Len(search, 3)
}

func (s *CustomerServiceSuite) TestConcurrentAddOpportunity() {
	c := s.create("Alice Johnson", models.CustomerStatusActive)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.AddOpportunity(s.ctx, c.ID, "Deal", models.OpportunityStatusNew)
			s.NoError(err)
		}()
	}
	wg.Wait()

	got, err := s.service.GetCustomer(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Len(got.Opportunities, 20)
}

func (s *CustomerServiceSuite) TestSeed() {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	n, err := s.service.Seed(s.ctx, SampleCustomers(now))
	s.Require().NoError(err)
	s.Equal(3, n)

	n, err = s.service.Seed(s.ctx, SampleCustomers(now))
	s.Require().NoError(err)
	s.Zero(n)

	all, err := s.service.ListCustomers(s.ctx, models.DefaultFilterCriteria())
	s.Require().NoError(err)
	s.Len(all, 3)
}

type failingCustomerStore struct {
	store.CustomerStore
}

func (failingCustomerStore) List(context.Context) ([]models.Customer, error) {
	return nil, models.ErrStorageWithCause("failed to list customers", errors.New("connection refused"))
}

func TestDashboardService_ComputeSummary(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryCustomerStore()
	svc := NewCustomerService(s, metrics.New(prometheus.NewRegistry()), discardLogger())

	n, err := svc.Seed(ctx, SampleCustomers(time.Now()))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	summary, err := NewDashboardService(s).ComputeSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardSummary{
		TotalCustomers:          3,
		ActiveCustomers:         1,
		InactiveCustomers:       1,
		LeadCustomers:           1,
		TotalOpportunities:      2,
		NewOpportunities:        1,
		ClosedWonOpportunities:  0,
		ClosedLostOpportunities: 1,
	}, summary)
}

func TestDashboardService_StorageFailure(t *testing.T) {
	_, err := NewDashboardService(failingCustomerStore{}).ComputeSummary(context.Background())
	assert.ErrorIs(t, err, models.ErrStorage)
}
