// Package store holds the persistence backends for customers, users and
// revoked tokens.
//
// Error contract: every store returns models.ErrNotFound (wrapped in an
// AppError) for missing records, an InvalidID error for malformed ids and a
// StorageError for backend failures.
package store

import (
	"context"
	"fmt"
	"time"

	"clientconnect-backend/models"
)

// CustomerStore owns the customer collection and the opportunities embedded in
// each customer.
type CustomerStore interface {
	List(ctx context.Context) ([]models.Customer, error)
	Get(ctx context.Context, id string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	UpdateStatus(ctx context.Context, id, status string) (*models.Customer, error)
	AppendOpportunity(ctx context.Context, customerID string, opp models.Opportunity) error
	UpdateOpportunity(ctx context.Context, customerID, opportunityID string, patch models.OpportunityPatch) (*models.Opportunity, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// UserStore persists registered users. Emails are unique.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// RevocationStore remembers token ids that were logged out before expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// canonicalCustomerID returns the lowercase hyphenated form of id so every
// backend keys customers identically.
func canonicalCustomerID(id string) (string, error) {
	canonical, ok := models.CanonicalID(id)
	if !ok {
		return "", models.ErrInvalidIDWithMsg("invalid customer id format")
	}
	return canonical, nil
}

func customerNotFound(id string) error {
	return models.ErrNotFoundWithMsg(fmt.Sprintf("customer %s not found", id))
}

func opportunityNotFound(customerID, opportunityID string) error {
	return models.ErrNotFoundWithMsg(
		fmt.Sprintf("opportunity %s not found for customer %s", opportunityID, customerID),
	)
}

func userNotFound() error {
	return models.ErrNotFoundWithMsg("user not found")
}

func emailTaken() error {
	return models.ErrConflictWithMsg("email already registered")
}

func usernameTaken() error {
	return models.ErrConflictWithMsg("username already taken")
}
