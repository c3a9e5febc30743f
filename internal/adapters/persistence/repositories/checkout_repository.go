package repositories

import (
	"context"
	"time"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

var checkoutSortFields = map[string]string{
	"purpose":        "purpose",
	"checked_out_at": "checked_out_at",
	"checked_in_at":  "checked_in_at",
	"created_at":     "created_at",
}

// checkoutRepository implements CheckoutRepository interface
type checkoutRepository struct {
	db *gorm.DB
}

// NewCheckoutRepository creates a new checkout repository
func NewCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &checkoutRepository{db: db}
}

// Create creates a checkout together with its fixed item set. Only the join
// rows are written for the items, the item records themselves stay untouched.
func (r *checkoutRepository) Create(ctx context.Context, checkout *models.Checkout, itemIDs []uint) error {
	checkout.Items = make([]models.Item, len(itemIDs))
	for i, id := range itemIDs {
		checkout.Items[i] = models.Item{ID: id}
	}

	return r.db.WithContext(ctx).
		Omit("Items.*").
		Create(checkout).Error
}

// GetByID gets a checkout with items, user and ordered problems
func (r *checkoutRepository) GetByID(ctx context.Context, id uint) (*models.Checkout, error) {
	var checkout models.Checkout
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("items.id ASC")
		}).
		Preload("Items.Group").
		Preload("Problems", func(db *gorm.DB) *gorm.DB {
			return db.Order("checkout_problems.position ASC")
		}).
		Preload("Problems.Item").
		First(&checkout, id).Error
	if err != nil {
		return nil, err
	}
	return &checkout, nil
}

// List lists checkouts filtered by status ("open", "returned" or empty for
// all), with substring search on purpose.
func (r *checkoutRepository) List(ctx context.Context, status string, opts ListOptions) ([]*models.Checkout, int64, error) {
	var checkouts []*models.Checkout
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Checkout{})
	switch status {
	case "open":
		query = query.Where("checked_in_at IS NULL")
	case "returned":
		query = query.Where("checked_in_at IS NOT NULL")
	}
	if opts.Search != "" {
		query = query.Where("purpose LIKE ?", "%"+opts.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("items.id ASC")
		}).
		Preload("Problems", func(db *gorm.DB) *gorm.DB {
			return db.Order("checkout_problems.position ASC")
		}).
		Order(orderClause(opts.Sort, "checked_out_at DESC", checkoutSortFields)).
		Offset(opts.Offset).
		Limit(opts.Limit).
		Find(&checkouts).Error

	return checkouts, total, err
}

// CompleteReturn writes the terminal state in one transaction: checked_in_at
// and the signature on the checkout row plus the problem rows.
func (r *checkoutRepository) CompleteReturn(ctx context.Context, id uint, checkedInAt time.Time, signature string, problems []models.CheckoutProblem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Checkout{}).
			Where("id = ? AND checked_in_at IS NULL", id).
			Updates(map[string]interface{}{
				"checked_in_at":    checkedInAt,
				"return_signature": signature,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		for i := range problems {
			problems[i].CheckoutID = id
			problems[i].Position = i
		}
		if len(problems) > 0 {
			if err := tx.Create(&problems).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountOpenSince counts checkouts still open that were checked out before the
// given time.
func (r *checkoutRepository) CountOpenSince(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Checkout{}).
		Where("checked_in_at IS NULL AND checked_out_at < ?", before).
		Count(&count).Error
	return count, err
}
