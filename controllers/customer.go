package controllers

import (
	"log/slog"
	"net/http"

	"clientconnect-backend/models"
	"clientconnect-backend/services"

	"github.com/gin-gonic/gin"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact" binding:"required"`
	Status  string `json:"status"`
	Picture string `json:"picture"`
}

// UpdateStatusInput defines the body of a status change
type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// CreateOpportunityInput defines the body for adding an opportunity
type CreateOpportunityInput struct {
	Name   string `json:"name" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// UpdateOpportunityInput uses pointers so omitted fields stay untouched
type UpdateOpportunityInput struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

// CustomerController serves the customer and opportunity endpoints
type CustomerController struct {
	service *services.CustomerService
	logger  *slog.Logger
}

func NewCustomerController(service *services.CustomerService, logger *slog.Logger) *CustomerController {
	return &CustomerController{service: service, logger: logger}
}

// GetCustomers lists customers, optionally narrowed by ?search=&status=&opportunityType=
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	var criteria models.FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		bindError(c, err)
		return
	}

	customers, err := cc.service.ListCustomers(c.Request.Context(), criteria)
	if err != nil {
		handleError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	customer, err := cc.service.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	customer, err := cc.service.CreateCustomer(c.Request.Context(), services.CreateCustomerInput{
		Name:    input.Name,
		Contact: input.Contact,
		Status:  input.Status,
		Picture: input.Picture,
	})
	if err != nil {
		handleError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (cc *CustomerController) UpdateStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	customer, err := cc.service.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		handleError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// AddOpportunity responds with the new opportunity only
func (cc *CustomerController) AddOpportunity(c *gin.Context) {
	var input CreateOpportunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	opp, err := cc.service.AddOpportunity(c.Request.Context(), c.Param("id"), input.Name, input.Status)
	if err != nil {
		handleError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusCreated, opp)
}

func (cc *CustomerController) UpdateOpportunity(c *gin.Context) {
	var input UpdateOpportunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	opp, err := cc.service.UpdateOpportunity(c.Request.Context(), c.Param("id"), c.Param("opportunityId"),
		models.OpportunityPatch{Name: input.Name, Status: input.Status})
	if err != nil {
		handleError(c, cc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Opportunity updated successfully",
		"opportunity": opp,
	})
}
