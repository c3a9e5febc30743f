package repositories

import (
	"context"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

var boxSortFields = map[string]string{
	"name":       "name",
	"shelf":      "shelf",
	"slot":       "slot",
	"created_at": "created_at",
}

// boxRepository implements BoxRepository interface
type boxRepository struct {
	db *gorm.DB
}

// NewBoxRepository creates a new box repository
func NewBoxRepository(db *gorm.DB) BoxRepository {
	return &boxRepository{db: db}
}

// Create creates a new box
func (r *boxRepository) Create(ctx context.Context, box *models.Box) error {
	return r.db.WithContext(ctx).Create(box).Error
}

// GetByID gets a box by ID
func (r *boxRepository) GetByID(ctx context.Context, id uint) (*models.Box, error) {
	var box models.Box
	if err := r.db.WithContext(ctx).First(&box, id).Error; err != nil {
		return nil, err
	}
	return &box, nil
}

// Update updates a box
func (r *boxRepository) Update(ctx context.Context, box *models.Box) error {
	return r.db.WithContext(ctx).Save(box).Error
}

// Delete soft deletes a box
func (r *boxRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Box{}, id).Error
}

// List lists boxes with search, sort and pagination
func (r *boxRepository) List(ctx context.Context, opts ListOptions) ([]*models.Box, int64, error) {
	var boxes []*models.Box
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Box{})
	if opts.Search != "" {
		query = query.Where("name LIKE ?", "%"+opts.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order(orderClause(opts.Sort, "name ASC", boxSortFields)).
		Offset(opts.Offset).
		Limit(opts.Limit).
		Find(&boxes).Error

	return boxes, total, err
}
