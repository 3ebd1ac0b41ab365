package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"clientconnect-backend/models"
)

// MemoryCustomerStore keeps customers in insertion order behind a mutex. It
// backs tests and the default development setup.
type MemoryCustomerStore struct {
	mu        sync.RWMutex
	order     []string
	customers map[string]*models.Customer
	now       func() time.Time
}

// NewMemoryCustomerStore constructs an empty in-memory customer store.
func NewMemoryCustomerStore() *MemoryCustomerStore {
	return &MemoryCustomerStore{
		customers: make(map[string]*models.Customer),
		now:       time.Now,
	}
}

func (s *MemoryCustomerStore) List(_ context.Context) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Customer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.customers[id].Clone())
	}
	return out, nil
}

func (s *MemoryCustomerStore) Get(_ context.Context, id string) (*models.Customer, error) {
	id, err := canonicalCustomerID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, customerNotFound(id)
	}
	return c.Clone(), nil
}

func (s *MemoryCustomerStore) Create(_ context.Context, customer *models.Customer) error {
	id, err := canonicalCustomerID(customer.ID)
	if err != nil {
		return err
	}
	customer.ID = id
	customer.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[customer.ID]; exists {
		return models.ErrConflictWithMsg("customer id already exists")
	}
	s.customers[customer.ID] = customer.Clone()
	s.order = append(s.order, customer.ID)
	return nil
}

func (s *MemoryCustomerStore) UpdateStatus(_ context.Context, id, status string) (*models.Customer, error) {
	id, err := canonicalCustomerID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, customerNotFound(id)
	}
	c.Status = status
	c.UpdatedAt = s.now()
	return c.Clone(), nil
}

func (s *MemoryCustomerStore) AppendOpportunity(_ context.Context, customerID string, opp models.Opportunity) error {
	customerID, err := canonicalCustomerID(customerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerID]
	if !ok {
		return customerNotFound(customerID)
	}
	c.Opportunities = append(c.Opportunities, opp)
	c.UpdatedAt = s.now()
	return nil
}

func (s *MemoryCustomerStore) UpdateOpportunity(_ context.Context, customerID, opportunityID string, patch models.OpportunityPatch) (*models.Opportunity, error) {
	customerID, err := canonicalCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerID]
	if !ok {
		return nil, customerNotFound(customerID)
	}
	idx := c.FindOpportunity(opportunityID)
	if idx < 0 {
		return nil, opportunityNotFound(customerID, opportunityID)
	}

	patch.Apply(&c.Opportunities[idx])
	if !patch.IsEmpty() {
		c.UpdatedAt = s.now()
	}
	updated := c.Opportunities[idx]
	return &updated, nil
}

func (s *MemoryCustomerStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.order)), nil
}

func (s *MemoryCustomerStore) Ping(_ context.Context) error {
	return nil
}

// MemoryUserStore stores users in memory, keyed by id.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

// NewMemoryUserStore constructs an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*models.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return emailTaken()
		}
	}
	if user.Username != nil {
		for _, existing := range s.users {
			if existing.Username != nil && *existing.Username == *user.Username {
				return usernameTaken()
			}
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, userNotFound()
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, ok := s.users[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, userNotFound()
}

func (s *MemoryUserStore) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return userNotFound()
	}
	user.LastLogin = &at
	return nil
}
