package services

import (
	"context"

	"clientconnect-backend/models"
	"clientconnect-backend/store"
)

// DashboardService aggregates the pipeline from a single customer snapshot.
type DashboardService struct {
	store store.CustomerStore
}

func NewDashboardService(s store.CustomerStore) *DashboardService {
	return &DashboardService{store: s}
}

func (s *DashboardService) ComputeSummary(ctx context.Context) (models.DashboardSummary, error) {
	customers, err := s.store.List(ctx)
	if err != nil {
		return models.DashboardSummary{}, err
	}
	return models.Summarize(customers), nil
}
