package repositories

import (
	"context"
	"time"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
)

// ListOptions carries the server-side filter/sort/pagination contract shared
// by the catalog list endpoints. Search is a case-insensitive substring match
// on the entity's name field. Sort is a field name, optionally prefixed with
// '-' for descending order.
type ListOptions struct {
	Search string
	Sort   string
	Offset int
	Limit  int
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ItemRepository defines item repository interface
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uint) (*models.Item, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, opts ListOptions) ([]*models.Item, int64, error)
}

// BoxRepository defines box repository interface
type BoxRepository interface {
	Create(ctx context.Context, box *models.Box) error
	GetByID(ctx context.Context, id uint) (*models.Box, error)
	Update(ctx context.Context, box *models.Box) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, opts ListOptions) ([]*models.Box, int64, error)
}

// GroupRepository defines group repository interface
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, opts ListOptions) ([]*models.Group, int64, error)
}

// CheckoutRepository defines checkout repository interface. CompleteReturn is
// the single terminal write: checked_in_at, the signature filename and the
// problem rows land together or not at all.
type CheckoutRepository interface {
	Create(ctx context.Context, checkout *models.Checkout, itemIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Checkout, error)
	List(ctx context.Context, status string, opts ListOptions) ([]*models.Checkout, int64, error)
	CompleteReturn(ctx context.Context, id uint, checkedInAt time.Time, signature string, problems []models.CheckoutProblem) error
	CountOpenSince(ctx context.Context, before time.Time) (int64, error)
}

// RequestRepository defines request repository interface
type RequestRepository interface {
	Create(ctx context.Context, request *models.Request, itemIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Request, error)
	List(ctx context.Context, opts ListOptions) ([]*models.Request, int64, error)
	MarkConverted(ctx context.Context, id, checkoutID uint) error
	CountUnconverted(ctx context.Context) (int64, error)
}
