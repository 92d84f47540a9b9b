package service

import (
	"context"
	"sort"
	"sync"

	"github.com/bakepos/server/internal/model"
	"github.com/bakepos/server/internal/repository"
)

// fakeStore is an in-memory stand-in for repository.Store. RunAtomic
// snapshots state and restores it when the callback fails, mirroring a
// rolled-back transaction.
type fakeStore struct {
	mu         sync.Mutex
	products   map[string]model.Product
	categories map[string]model.Category
	orders     []model.Order
	users      map[string]model.UserAccount
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:   make(map[string]model.Product),
		categories: make(map[string]model.Category),
		users:      make(map[string]model.UserAccount),
	}
}

func (f *fakeStore) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	productSnapshot := make(map[string]model.Product, len(f.products))
	for k, v := range f.products {
		productSnapshot[k] = v
	}
	orderSnapshot := make([]model.Order, len(f.orders))
	copy(orderSnapshot, f.orders)
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.products = productSnapshot
		f.orders = orderSnapshot
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetProduct(ctx context.Context, id string) (model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) GetProductForUpdate(ctx context.Context, id string) (model.Product, error) {
	return f.GetProduct(ctx, id)
}

func (f *fakeStore) CreateProduct(ctx context.Context, p model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
	return nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, p model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeStore) DeleteProduct(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) DecrementStock(ctx context.Context, id string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock -= quantity
	f.products[id] = p
	return nil
}

func (f *fakeStore) ProductReferencedByOrder(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		for _, item := range o.CartItems {
			if item.ProductID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetCategory(ctx context.Context, id string) (model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return model.Category{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, c model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories[c.ID] = c
	return nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, c model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	f.categories[c.ID] = c
	return nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeStore) CategoryHasProducts(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.CategoryID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) InsertOrder(ctx context.Context, o model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeStore) ListOrders(ctx context.Context) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Order, len(f.orders))
	copy(out, f.orders)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (f *fakeStore) DeleteOrder(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.orders {
		if o.ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (model.UserAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.UserAccount{}, repository.ErrNotFound
}

func (f *fakeStore) UserEmailExists(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateUser(ctx context.Context, u model.UserAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]model.UserAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.UserAccount, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeStore) UpdateUserStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	f.users[id] = u
	return nil
}
