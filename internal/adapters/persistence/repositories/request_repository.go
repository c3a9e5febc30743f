package repositories

import (
	"context"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

var requestSortFields = map[string]string{
	"requester_name": "requester_name",
	"needed_from":    "needed_from",
	"created_at":     "created_at",
}

// requestRepository implements RequestRepository interface
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// Create creates a request together with its item set
func (r *requestRepository) Create(ctx context.Context, request *models.Request, itemIDs []uint) error {
	request.Items = make([]models.Item, len(itemIDs))
	for i, id := range itemIDs {
		request.Items[i] = models.Item{ID: id}
	}

	return r.db.WithContext(ctx).
		Omit("Items.*").
		Create(request).Error
}

// GetByID gets a request with its items
func (r *requestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("items.id ASC")
		}).
		Preload("Items.Group").
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// List lists requests, newest first by default
func (r *requestRepository) List(ctx context.Context, opts ListOptions) ([]*models.Request, int64, error) {
	var requests []*models.Request
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Request{})
	if opts.Search != "" {
		query = query.Where("requester_name LIKE ? OR purpose LIKE ?",
			"%"+opts.Search+"%", "%"+opts.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("items.id ASC")
		}).
		Order(orderClause(opts.Sort, "created_at DESC", requestSortFields)).
		Offset(opts.Offset).
		Limit(opts.Limit).
		Find(&requests).Error

	return requests, total, err
}

// MarkConverted records the checkout spawned from a request. The guard on
// converted_checkout_id makes the conversion one-shot even under a race.
func (r *requestRepository) MarkConverted(ctx context.Context, id, checkoutID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND converted_checkout_id IS NULL", id).
		Update("converted_checkout_id", checkoutID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountUnconverted counts requests not yet turned into a checkout
func (r *requestRepository) CountUnconverted(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("converted_checkout_id IS NULL").
		Count(&count).Error
	return count, err
}
