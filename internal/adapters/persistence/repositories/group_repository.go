package repositories

import (
	"context"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

var groupSortFields = map[string]string{
	"name":       "name",
	"shelf":      "shelf",
	"slot":       "slot",
	"created_at": "created_at",
}

// groupRepository implements GroupRepository interface
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// Create creates a new group
func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// GetByID gets a group by ID
func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// Update updates a group
func (r *groupRepository) Update(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// Delete soft deletes a group
func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Group{}, id).Error
}

// List lists groups with search, sort and pagination
func (r *groupRepository) List(ctx context.Context, opts ListOptions) ([]*models.Group, int64, error) {
	var groups []*models.Group
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Group{})
	if opts.Search != "" {
		query = query.Where("name LIKE ?", "%"+opts.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order(orderClause(opts.Sort, "name ASC", groupSortFields)).
		Offset(opts.Offset).
		Limit(opts.Limit).
		Find(&groups).Error

	return groups, total, err
}
