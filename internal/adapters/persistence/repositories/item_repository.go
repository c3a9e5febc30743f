package repositories

import (
	"context"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// itemSortFields maps sortable item fields to columns.
var itemSortFields = map[string]string{
	"name":       "name",
	"stock":      "stock",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// itemRepository implements ItemRepository interface
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// Create creates a new item
func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetByID gets an item by ID with its group
func (r *itemRepository) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("Group").
		First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIDs gets items by IDs, ordered to match the input slice. Missing ids
// are simply absent from the result.
func (r *itemRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var items []*models.Item
	err := r.db.WithContext(ctx).
		Preload("Group").
		Where("id IN ?", ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	ordered := make([]*models.Item, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered, nil
}

// Update updates an item
func (r *itemRepository) Update(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete soft deletes an item
func (r *itemRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Item{}, id).Error
}

// List lists items with search, sort and pagination
func (r *itemRepository) List(ctx context.Context, opts ListOptions) ([]*models.Item, int64, error) {
	var items []*models.Item
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Item{})
	if opts.Search != "" {
		query = query.Where("name LIKE ?", "%"+opts.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Group").
		Order(orderClause(opts.Sort, "name ASC", itemSortFields)).
		Offset(opts.Offset).
		Limit(opts.Limit).
		Find(&items).Error

	return items, total, err
}
