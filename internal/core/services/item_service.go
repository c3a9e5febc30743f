package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/repositories"
	"github.com/joel-wlf/bbg-lager/internal/core/domain"
	"github.com/joel-wlf/bbg-lager/internal/pkg/imaging"

	"gorm.io/gorm"
)

// ItemService handles catalog item business logic including image uploads.
type ItemService struct {
	itemRepo  repositories.ItemRepository
	groupRepo repositories.GroupRepository
	fileStore FileStore
}

// NewItemService creates a new item service
func NewItemService(itemRepo repositories.ItemRepository, groupRepo repositories.GroupRepository, fileStore FileStore) *ItemService {
	return &ItemService{
		itemRepo:  itemRepo,
		groupRepo: groupRepo,
		fileStore: fileStore,
	}
}

// ItemInput represents create/update item input
type ItemInput struct {
	Name          string   `json:"name"`
	Stock         int      `json:"stock"`
	Organisations []string `json:"organisations"`
	Notes         string   `json:"notes,omitempty"`
	GroupID       *uint    `json:"group_id,omitempty"`
}

// validate checks the shared create/update rules.
func (s *ItemService) validate(ctx context.Context, input *ItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domain.NewValidationError("name", "Bitte geben Sie einen Namen an.")
	}
	if input.Stock < 0 {
		return domain.NewValidationError("stock", "Der Bestand darf nicht negativ sein.")
	}
	if input.GroupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *input.GroupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrGroupNotFound
			}
			return err
		}
	}
	return nil
}

// Create creates a new item
func (s *ItemService) Create(ctx context.Context, input *ItemInput) (*models.Item, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:          strings.TrimSpace(input.Name),
		Stock:         input.Stock,
		Organisations: input.Organisations,
		Notes:         input.Notes,
		GroupID:       input.GroupID,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return item, nil
}

// Update updates an existing item
func (s *ItemService) Update(ctx context.Context, id uint, input *ItemInput) (*models.Item, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(input.Name)
	item.Stock = input.Stock
	item.Organisations = input.Organisations
	item.Notes = input.Notes
	item.GroupID = input.GroupID

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return item, nil
}

// SetImage validates and stores an uploaded item image and records its
// filename on the item.
func (s *ItemService) SetImage(ctx context.Context, id uint, originalName string, data []byte) (*models.Item, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := imaging.Validate(data); err != nil {
		return nil, domain.NewValidationError("image", err.Error())
	}

	filename, err := s.fileStore.Save("items", item.ID, originalName, data)
	if err != nil {
		return nil, fmt.Errorf("storing image: %w", err)
	}

	item.Image = filename
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return item, nil
}

// GetByID gets an item by ID
func (s *ItemService) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// Delete soft deletes an item
func (s *ItemService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.itemRepo.Delete(ctx, id)
}

// List lists items with search, sort and pagination
func (s *ItemService) List(ctx context.Context, opts repositories.ListOptions) ([]*models.Item, int64, error) {
	return s.itemRepo.List(ctx, opts)
}
