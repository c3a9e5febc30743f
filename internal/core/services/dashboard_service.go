package services

import (
	"context"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// DashboardService aggregates counts for the staff landing page
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardStats represents the aggregate counts
type DashboardStats struct {
	Items             int64 `json:"items"`
	Boxes             int64 `json:"boxes"`
	Groups            int64 `json:"groups"`
	OpenCheckouts     int64 `json:"open_checkouts"`
	ReturnedCheckouts int64 `json:"returned_checkouts"`
	OpenRequests      int64 `json:"open_requests"`
}

// GetStats collects the dashboard counts
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Item{}).Count(&stats.Items).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Box{}).Count(&stats.Boxes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Group{}).Count(&stats.Groups).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Checkout{}).Where("checked_in_at IS NULL").Count(&stats.OpenCheckouts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Checkout{}).Where("checked_in_at IS NOT NULL").Count(&stats.ReturnedCheckouts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Request{}).Where("converted_checkout_id IS NULL").Count(&stats.OpenRequests).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
