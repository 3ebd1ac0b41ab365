package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer status constants
const (
	CustomerStatusActive   = "Active"
	CustomerStatusInactive = "Inactive"
	CustomerStatusLead     = "Lead"
)

// Opportunity status constants
const (
	OpportunityStatusNew        = "New"
	OpportunityStatusClosedWon  = "Closed Won"
	OpportunityStatusClosedLost = "Closed Lost"
)

// Customer is a CRM contact together with its sales pipeline. Opportunities are
// embedded in the customer record and keep their insertion order.
type Customer struct {
	ID            string        `json:"id" bson:"_id" gorm:"type:uuid;primaryKey"`
	Name          string        `json:"name" bson:"name" gorm:"not null"`
	Contact       string        `json:"contact" bson:"contact" gorm:"not null"`
	Picture       string        `json:"picture" bson:"picture" gorm:"default:''"`
	Status        string        `json:"status" bson:"status" gorm:"type:varchar(16);not null;default:'Lead';index"`
	Opportunities []Opportunity `json:"opportunities" bson:"opportunities" gorm:"type:jsonb;serializer:json"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Opportunity is a sales-pipeline item owned by exactly one customer.
type Opportunity struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Status string `json:"status" bson:"status"`
}

// OpportunityPatch carries the fields of a partial opportunity update.
// Nil fields keep their previous value.
type OpportunityPatch struct {
	Name   *string
	Status *string
}

// NewCustomer builds a customer with defaults applied: a fresh id, Lead status
// and an empty pipeline.
func NewCustomer(name, contact, status, picture string, now time.Time) *Customer {
	if status == "" {
		status = CustomerStatusLead
	}
	return &Customer{
		ID:            uuid.NewString(),
		Name:          name,
		Contact:       contact,
		Picture:       picture,
		Status:        status,
		Opportunities: []Opportunity{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewOpportunity builds an opportunity with a globally unique id. An empty
// status defaults to New.
func NewOpportunity(name, status string) Opportunity {
	if status == "" {
		status = OpportunityStatusNew
	}
	return Opportunity{
		ID:     uuid.NewString(),
		Name:   name,
		Status: status,
	}
}

// BeforeCreate fills the id for rows inserted directly through gorm.
func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return
}

// Normalize replaces a nil pipeline with an empty one so the record always
// serialises "opportunities" as an array.
func (c *Customer) Normalize() {
	if c.Opportunities == nil {
		c.Opportunities = []Opportunity{}
	}
}

// Clone returns a deep copy of the customer.
func (c *Customer) Clone() *Customer {
	out := *c
	out.Opportunities = make([]Opportunity, len(c.Opportunities))
	copy(out.Opportunities, c.Opportunities)
	return &out
}

// FindOpportunity returns the index of the opportunity with the given id, or -1.
func (c *Customer) FindOpportunity(id string) int {
	for i := range c.Opportunities {
		if c.Opportunities[i].ID == id {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the patch changes nothing.
func (p OpportunityPatch) IsEmpty() bool {
	return p.Name == nil && p.Status == nil
}

// Apply writes the provided fields onto o.
func (p OpportunityPatch) Apply(o *Opportunity) {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
}

// IsValidCustomerStatus checks if the customer status is valid
func IsValidCustomerStatus(status string) bool {
	switch status {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusLead:
		return true
	default:
		return false
	}
}

// IsValidOpportunityStatus checks if the opportunity status is valid
func IsValidOpportunityStatus(status string) bool {
	switch status {
	case OpportunityStatusNew, OpportunityStatusClosedWon, OpportunityStatusClosedLost:
		return true
	default:
		return false
	}
}

// IsValidID reports whether id is a well-formed record identifier.
func IsValidID(id string) bool {
	_, ok := CanonicalID(id)
	return ok
}

// CanonicalID parses id in any form uuid.Parse accepts (upper case, braced,
// urn:uuid:) and returns the lowercase hyphenated form ids are stored under.
func CanonicalID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
