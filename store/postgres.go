package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"clientconnect-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerStore persists customers in PostgreSQL through gorm. The
// opportunity sequence lives in a JSONB column so each customer stays a single
// row, mirroring the document layout.
type GormCustomerStore struct {
	db *gorm.DB
}

// NewGormCustomerStore creates a customer store on top of an open gorm handle.
func NewGormCustomerStore(db *gorm.DB) *GormCustomerStore {
	return &GormCustomerStore{db: db}
}

func (s *GormCustomerStore) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&customers).Error; err != nil {
		return nil, models.ErrStorageWithCause("failed to list customers", err)
	}
	for i := range customers {
		customers[i].Normalize()
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

func (s *GormCustomerStore) Get(ctx context.Context, id string) (*models.Customer, error) {
	id, err := canonicalCustomerID(id)
	if err != nil {
		return nil, err
	}
	return s.find(s.db.WithContext(ctx), id)
}

func (s *GormCustomerStore) find(tx *gorm.DB, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := tx.Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerNotFound(id)
		}
		return nil, models.ErrStorageWithCause("failed to get customer", err)
	}
	customer.Normalize()
	return &customer, nil
}

func (s *GormCustomerStore) Create(ctx context.Context, customer *models.Customer) error {
	id, err := canonicalCustomerID(customer.ID)
	if err != nil {
		return err
	}
	customer.ID = id
	customer.Normalize()
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrConflictWithMsg("customer id already exists")
		}
		return models.ErrStorageWithCause("failed to create customer", err)
	}
	return nil
}

func (s *GormCustomerStore) UpdateStatus(ctx context.Context, id, status string) (*models.Customer, error) {
	id, err := canonicalCustomerID(id)
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return nil, models.ErrStorageWithCause("failed to update customer status", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, customerNotFound(id)
	}
	return s.Get(ctx, id)
}

// AppendOpportunity locks the customer row for the read-modify-write so two
// concurrent appends to the same customer cannot drop one another.
func (s *GormCustomerStore) AppendOpportunity(ctx context.Context, customerID string, opp models.Opportunity) error {
	customerID, err := canonicalCustomerID(customerID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.find(tx.Clauses(clause.Locking{Strength: "UPDATE"}), customerID)
		if err != nil {
			return err
		}
		customer.Opportunities = append(customer.Opportunities, opp)
		customer.UpdatedAt = time.Now()
		if err := tx.Save(customer).Error; err != nil {
			return models.ErrStorageWithCause("failed to add opportunity", err)
		}
		return nil
	})
}

func (s *GormCustomerStore) UpdateOpportunity(ctx context.Context, customerID, opportunityID string, patch models.OpportunityPatch) (*models.Opportunity, error) {
	customerID, err := canonicalCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	var updated models.Opportunity
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.find(tx.Clauses(clause.Locking{Strength: "UPDATE"}), customerID)
		if err != nil {
			return err
		}
		idx := customer.FindOpportunity(opportunityID)
		if idx < 0 {
			return opportunityNotFound(customerID, opportunityID)
		}

		patch.Apply(&customer.Opportunities[idx])
		updated = customer.Opportunities[idx]
		if patch.IsEmpty() {
			return nil
		}
		customer.UpdatedAt = time.Now()
		if err := tx.Save(customer).Error; err != nil {
			return models.ErrStorageWithCause("failed to update opportunity", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *GormCustomerStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Customer{}).Count(&n).Error; err != nil {
		return 0, models.ErrStorageWithCause("failed to count customers", err)
	}
	return n, nil
}

func (s *GormCustomerStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// GormUserStore persists users in PostgreSQL.
type GormUserStore struct {
	db *gorm.DB
}

// NewGormUserStore creates a user store on top of an open gorm handle.
func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	if _, err := s.FindByEmail(ctx, user.Email); err == nil {
		return emailTaken()
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if user.Username != nil {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", *user.Username).Count(&n).Error; err != nil {
			return models.ErrStorageWithCause("failed to check username", err)
		}
		if n > 0 {
			return usernameTaken()
		}
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return emailTaken()
		}
		return models.ErrStorageWithCause("failed to create user", err)
	}
	return nil
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("lower(email) = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userNotFound()
		}
		return nil, models.ErrStorageWithCause("failed to find user", err)
	}
	return &user, nil
}

func (s *GormUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if !models.IsValidID(id) {
		return nil, userNotFound()
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userNotFound()
		}
		return nil, models.ErrStorageWithCause("failed to find user", err)
	}
	return &user, nil
}

func (s *GormUserStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", &at)
	if result.Error != nil {
		return models.ErrStorageWithCause("failed to update last login", result.Error)
	}
	if result.RowsAffected == 0 {
		return userNotFound()
	}
	return nil
}
