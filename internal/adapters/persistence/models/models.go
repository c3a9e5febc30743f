package models

import (
	"time"

	"github.com/joel-wlf/bbg-lager/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth tables
// ============================================================

// User represents a staff account
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'STAFF'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// User roles
const (
	RoleStaff = "STAFF"
	RoleAdmin = "ADMIN"
)

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog tables
// ============================================================

// Box is a physical storage box with shelf/slot coordinates ("Kiste").
type Box struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Shelf     int            `gorm:"not null" json:"shelf"`
	Slot      int            `gorm:"not null" json:"slot"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Box) TableName() string {
	return "boxes"
}

// Group is a location/category grouping for items ("Gruppe").
type Group struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Shelf     int            `gorm:"not null" json:"shelf"`
	Slot      int            `gorm:"not null" json:"slot"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Group) TableName() string {
	return "groups"
}

// Item is a lendable catalog entry.
type Item struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:100;not null;index" json:"name"`
	Stock         int            `gorm:"not null;default:0" json:"stock"`
	Organisations []string       `gorm:"serializer:json" json:"organisations"`
	Notes         string         `gorm:"type:text" json:"notes"`
	GroupID       *uint          `gorm:"index" json:"group_id"`
	Image         string         `gorm:"size:255" json:"image"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Group *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

func (Item) TableName() string {
	return "items"
}

// ============================================================
// Lending tables
// ============================================================

// Checkout records items lent out for a purpose ("Entnahme"). The item set is
// fixed at creation. CheckedInAt is the terminal-state marker and is written
// together with ReturnSignature in a single update.
type Checkout struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Purpose         string     `gorm:"size:255;not null" json:"purpose"`
	CheckedOutAt    time.Time  `gorm:"not null" json:"checked_out_at"`
	CheckedInAt     *time.Time `json:"checked_in_at"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	ReturnSignature string     `gorm:"size:255" json:"return_signature"`
	Notes           string     `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User     *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items    []Item            `gorm:"many2many:checkout_items" json:"items,omitempty"`
	Problems []CheckoutProblem `gorm:"foreignKey:CheckoutID" json:"problems,omitempty"`
}

func (Checkout) TableName() string {
	return "checkouts"
}

// IsReturned reports whether the checkout reached its terminal state.
func (c *Checkout) IsReturned() bool {
	return c.CheckedInAt != nil
}

// Status derives the lifecycle state from the terminal marker.
func (c *Checkout) Status() domain.CheckoutStatus {
	if c.IsReturned() {
		return domain.CheckoutStatusReturned
	}
	return domain.CheckoutStatusOpen
}

// ItemIDs returns the ids of the checkout's items in stored order.
func (c *Checkout) ItemIDs() []uint {
	ids := make([]uint, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ID
	}
	return ids
}

// CheckoutProblem is a staff-entered reason an item was not confirmed at
// return time. Rows are ordered by Position within a checkout.
type CheckoutProblem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CheckoutID  uint      `gorm:"not null;index" json:"checkout_id"`
	ItemID      uint      `gorm:"not null" json:"item_id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Position    int       `gorm:"not null" json:"position"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (CheckoutProblem) TableName() string {
	return "checkout_problems"
}

// Request is an unauthenticated request for items ("Anfrage"). Never mutated
// after submission except for the one-shot conversion marker.
type Request struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	RequesterName       string    `gorm:"size:100;not null" json:"requester_name"`
	Purpose             string    `gorm:"size:255;not null" json:"purpose"`
	NeededFrom          time.Time `gorm:"not null" json:"needed_from"`
	ConvertedCheckoutID *uint     `gorm:"index" json:"converted_checkout_id"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`

	Items             []Item    `gorm:"many2many:request_items" json:"items,omitempty"`
	ConvertedCheckout *Checkout `gorm:"foreignKey:ConvertedCheckoutID" json:"-"`
}

func (Request) TableName() string {
	return "requests"
}

// IsConverted reports whether staff already spawned a checkout from this
// request.
func (r *Request) IsConverted() bool {
	return r.ConvertedCheckoutID != nil
}

// ItemIDs returns the ids of the requested items in stored order.
func (r *Request) ItemIDs() []uint {
	ids := make([]uint, len(r.Items))
	for i, item := range r.Items {
		ids[i] = item.ID
	}
	return ids
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Box{},
		&Group{},
		&Item{},
		&Checkout{},
		&CheckoutProblem{},
		&Request{},
	)
}
