// services/customer_service.go
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clientconnect-backend/metrics"
	"clientconnect-backend/models"
	"clientconnect-backend/store"
)

// CustomerService validates customer and opportunity mutations before handing
// them to the store.
type CustomerService struct {
	store   store.CustomerStore
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewCustomerService(s store.CustomerStore, m *metrics.Metrics, logger *slog.Logger) *CustomerService {
	return &CustomerService{store: s, metrics: m, logger: logger, now: time.Now}
}

// CreateCustomerInput holds the fields accepted when creating a customer.
type CreateCustomerInput struct {
	Name    string
	Contact string
	Status  string
	Picture string
}

// ListCustomers returns customers in storage order, narrowed by criteria.
func (s *CustomerService) ListCustomers(ctx context.Context, criteria models.FilterCriteria) ([]models.Customer, error) {
	customers, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if criteria.IsZero() {
		return customers, nil
	}
	return models.ApplyFilter(customers, criteria), nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return s.store.Get(ctx, id)
}

func (s *CustomerService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	contact := strings.TrimSpace(input.Contact)
	if name == "" || contact == "" {
		return nil, models.ErrInvalidInput("name and contact are required")
	}
	if input.Status != "" && !models.IsValidCustomerStatus(input.Status) {
		return nil, models.ErrInvalidInput("status must be one of Active, Inactive, Lead")
	}

	customer := models.NewCustomer(name, contact, input.Status, input.Picture, s.now().UTC())
	if err := s.store.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.metrics.CustomersCreated.Inc()
	s.logger.Info("customer created", "customer_id", customer.ID, "status", customer.Status)
	return customer, nil
}

func (s *CustomerService) UpdateStatus(ctx context.Context, id, status string) (*models.Customer, error) {
	if !models.IsValidCustomerStatus(status) {
		return nil, models.ErrInvalidInput("status must be one of Active, Inactive, Lead")
	}

	customer, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.metrics.StatusUpdates.Inc()
	s.logger.Info("customer status updated", "customer_id", id, "status", status)
	return customer, nil
}

// AddOpportunity appends a new opportunity to the customer's pipeline and
// returns only the new entry.
func (s *CustomerService) AddOpportunity(ctx context.Context, customerID, name, status string) (*models.Opportunity, error) {
	name = strings.TrimSpace(name)
	if name == "" || status == "" {
		return nil, models.ErrInvalidInput("name and status are required")
	}
	if !models.IsValidOpportunityStatus(status) {
		return nil, models.ErrInvalidInput("status must be one of New, Closed Won, Closed Lost")
	}

	opp := models.NewOpportunity(name, status)
	if err := s.store.AppendOpportunity(ctx, customerID, opp); err != nil {
		return nil, err
	}

	s.metrics.OpportunitiesAdded.Inc()
	s.logger.Info("opportunity added", "customer_id", customerID, "opportunity_id", opp.ID)
	return &opp, nil
}

// UpdateOpportunity applies a partial update. Fields left nil keep their value.
func (s *CustomerService) UpdateOpportunity(ctx context.Context, customerID, opportunityID string, patch models.OpportunityPatch) (*models.Opportunity, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, models.ErrInvalidInput("name cannot be empty")
		}
		patch.Name = &trimmed
	}
	if patch.Status != nil && !models.IsValidOpportunityStatus(*patch.Status) {
		return nil, models.ErrInvalidInput("status must be one of New, Closed Won, Closed Lost")
	}

	opp, err := s.store.UpdateOpportunity(ctx, customerID, opportunityID, patch)
	if err != nil {
		return nil, err
	}

	s.metrics.OpportunitiesUpdated.Inc()
	s.logger.Info("opportunity updated", "customer_id", customerID, "opportunity_id", opportunityID)
	return opp, nil
}

// Seed inserts the given customers when the store is empty. It reports how
// many were inserted.
func (s *CustomerService) Seed(ctx context.Context, customers []*models.Customer) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("seed skipped, customers already present", "count", count)
		return 0, nil
	}

	for i, customer := range customers {
		if err := s.store.Create(ctx, customer); err != nil {
			return i, err
		}
	}
	s.logger.Info("seeded customers", "count", len(customers))
	return len(customers), nil
}

// SampleCustomers returns the demo pipeline used by the seed command.
func SampleCustomers(now time.Time) []*models.Customer {
	alice := models.NewCustomer("Alice Johnson", "alice@example.com", models.CustomerStatusActive,
		"https://i.pravatar.cc/150?img=1", now)
	alice.Opportunities = append(alice.Opportunities,
		models.NewOpportunity("Website Redesign", models.OpportunityStatusNew))

	bob := models.NewCustomer("Bob Smith", "bob@example.com", models.CustomerStatusLead,
		"https://i.pravatar.cc/150?img=2", now.Add(time.Millisecond))

	carol := models.NewCustomer("Carol White", "carol@example.com", models.CustomerStatusInactive,
		"https://i.pravatar.cc/150?img=3", now.Add(2*time.Millisecond))
	carol.Opportunities = append(carol.Opportunities,
		models.NewOpportunity("Consultation Service", models.OpportunityStatusClosedLost))

	return []*models.Customer{alice, bob, carol}
}
