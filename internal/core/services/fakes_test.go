package services

import (
	"context"
	"errors"
	"time"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces. They mimic the gorm
// implementations closely enough for service tests: not-found is
// gorm.ErrRecordNotFound, CompleteReturn only closes open checkouts and
// MarkConverted only converts unconverted requests.

type fakeItemRepo struct {
	items  map[uint]*models.Item
	nextID uint
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uint]*models.Item), nextID: 1}
}

func (r *fakeItemRepo) add(name string) *models.Item {
	item := &models.Item{ID: r.nextID, Name: name, Stock: 1}
	r.items[item.ID] = item
	r.nextID++
	return item
}

func (r *fakeItemRepo) Create(ctx context.Context, item *models.Item) error {
	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *fakeItemRepo) GetByIDs(ctx context.Context, ids []uint) ([]*models.Item, error) {
	var found []*models.Item
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			found = append(found, item)
		}
	}
	return found, nil
}

func (r *fakeItemRepo) Update(ctx context.Context, item *models.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, id uint) error {
	delete(r.items, id)
	return nil
}

func (r *fakeItemRepo) List(ctx context.Context, opts repositories.ListOptions) ([]*models.Item, int64, error) {
	var items []*models.Item
	for _, item := range r.items {
		items = append(items, item)
	}
	return items, int64(len(items)), nil
}

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

type fakeCheckoutRepo struct {
	checkouts map[uint]*models.Checkout
	itemRepo  *fakeItemRepo
	nextID    uint

	failCompleteReturn bool
	completeCalls      int
}

func newFakeCheckoutRepo(itemRepo *fakeItemRepo) *fakeCheckoutRepo {
	return &fakeCheckoutRepo{
		checkouts: make(map[uint]*models.Checkout),
		itemRepo:  itemRepo,
		nextID:    1,
	}
}

func (r *fakeCheckoutRepo) Create(ctx context.Context, checkout *models.Checkout, itemIDs []uint) error {
	checkout.ID = r.nextID
	r.nextID++
	for _, id := range itemIDs {
		if item, ok := r.itemRepo.items[id]; ok {
			checkout.Items = append(checkout.Items, *item)
		}
	}
	r.checkouts[checkout.ID] = checkout
	return nil
}

func (r *fakeCheckoutRepo) GetByID(ctx context.Context, id uint) (*models.Checkout, error) {
	checkout, ok := r.checkouts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *checkout
	return &copied, nil
}

func (r *fakeCheckoutRepo) List(ctx context.Context, status string, opts repositories.ListOptions) ([]*models.Checkout, int64, error) {
	var checkouts []*models.Checkout
	for _, checkout := range r.checkouts {
		switch status {
		case "open":
			if checkout.IsReturned() {
				continue
			}
		case "returned":
			if !checkout.IsReturned() {
				continue
			}
		}
		checkouts = append(checkouts, checkout)
	}
	return checkouts, int64(len(checkouts)), nil
}

func (r *fakeCheckoutRepo) CompleteReturn(ctx context.Context, id uint, checkedInAt time.Time, signature string, problems []models.CheckoutProblem) error {
	r.completeCalls++
	if r.failCompleteReturn {
		r.failCompleteReturn = false
		return errors.New("write failed")
	}

	checkout, ok := r.checkouts[id]
	if !ok || checkout.IsReturned() {
		return gorm.ErrRecordNotFound
	}

	checkout.CheckedInAt = &checkedInAt
	checkout.ReturnSignature = signature
	for i := range problems {
		problems[i].CheckoutID = id
		problems[i].Position = i
	}
	checkout.Problems = problems
	return nil
}

func (r *fakeCheckoutRepo) CountOpenSince(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	for _, checkout := range r.checkouts {
		if !checkout.IsReturned() && checkout.CheckedOutAt.Before(before) {
			count++
		}
	}
	return count, nil
}

type fakeRequestRepo struct {
	requests map[uint]*models.Request
	itemRepo *fakeItemRepo
	nextID   uint
}

func newFakeRequestRepo(itemRepo *fakeItemRepo) *fakeRequestRepo {
	return &fakeRequestRepo{
		requests: make(map[uint]*models.Request),
		itemRepo: itemRepo,
		nextID:   1,
	}
}

func (r *fakeRequestRepo) Create(ctx context.Context, request *models.Request, itemIDs []uint) error {
	request.ID = r.nextID
	r.nextID++
	request.CreatedAt = time.Now()
	for _, id := range itemIDs {
		if item, ok := r.itemRepo.items[id]; ok {
			request.Items = append(request.Items, *item)
		}
	}
	r.requests[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *fakeRequestRepo) List(ctx context.Context, opts repositories.ListOptions) ([]*models.Request, int64, error) {
	var requests []*models.Request
	for _, request := range r.requests {
		requests = append(requests, request)
	}
	return requests, int64(len(requests)), nil
}

func (r *fakeRequestRepo) MarkConverted(ctx context.Context, id, checkoutID uint) error {
	request, ok := r.requests[id]
	if !ok || request.IsConverted() {
		return gorm.ErrRecordNotFound
	}
	request.ConvertedCheckoutID = &checkoutID
	return nil
}

func (r *fakeRequestRepo) CountUnconverted(ctx context.Context) (int64, error) {
	var count int64
	for _, request := range r.requests {
		if !request.IsConverted() {
			count++
		}
	}
	return count, nil
}

// fakeFileStore records saves without touching disk.
type fakeFileStore struct {
	saves    int
	failNext bool
	lastName string
	lastData []byte
}

func (f *fakeFileStore) Save(collection string, recordID uint, originalName string, data []byte) (string, error) {
	if f.failNext {
		f.failNext = false
		return "", errors.New("disk full")
	}
	f.saves++
	f.lastName = originalName
	f.lastData = data
	return originalName, nil
}
