package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/models"
)

// MemStore is a mutex-guarded map-backed Store. It mirrors the Mongo
// implementation's semantics, in particular the conditional stock decrement,
// and backs the test suite plus the STORE=memory dev mode.
type MemStore struct {
	mu sync.RWMutex

	users    map[primitive.ObjectID]models.User
	products map[primitive.ObjectID]models.Product
	carts    map[primitive.ObjectID]models.Cart // keyed by userId
	orders   map[primitive.ObjectID]models.Order
	requests map[primitive.ObjectID]models.Request
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:    make(map[primitive.ObjectID]models.User),
		products: make(map[primitive.ObjectID]models.Product),
		carts:    make(map[primitive.ObjectID]models.Cart),
		orders:   make(map[primitive.ObjectID]models.Order),
		requests: make(map[primitive.ObjectID]models.Request),
	}
}

// ----- Users -----

func (s *MemStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *MemStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := u
	return &out, nil
}

func (s *MemStore) UpdateProfile(_ context.Context, id primitive.ObjectID, name, phone, address string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if name != "" {
		u.Name = name
	}
	if phone != "" {
		u.Phone = phone
	}
	if address != "" {
		u.Address = address
	}
	s.users[id] = u
	out := u
	return &out, nil
}

func (s *MemStore) UpdateUser(_ context.Context, id primitive.ObjectID, upd models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	s.users[id] = u
	out := u
	return &out, nil
}

func (s *MemStore) SetUserActive(_ context.Context, id primitive.ObjectID, active bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.IsActive = active
	s.users[id] = u
	out := u
	return &out, nil
}

func (s *MemStore) SetVendorApproval(_ context.Context, id primitive.ObjectID, status string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.ApprovalStatus = status
	s.users[id] = u
	out := u
	return &out, nil
}

func (s *MemStore) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemStore) ListUsersByRole(_ context.Context, role models.Role) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	for _, u := range s.users {
		if u.Role == role {
			u.Password = ""
			users = append(users, u)
		}
	}
	sortNewestFirst(users, func(u models.User) (time.Time, primitive.ObjectID) { return u.CreatedAt, u.ID })
	return users, nil
}

// ----- Products -----

func (s *MemStore) CreateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	s.products[product.ID] = *product
	return nil
}

func (s *MemStore) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := p
	return &out, nil
}

func (s *MemStore) ListProducts(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := []models.Product{}
	for _, p := range s.products {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Category != "" && filter.Category != "all" && p.Category != filter.Category {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		if filter.VendorID != nil && p.VendorID != *filter.VendorID {
			continue
		}
		products = append(products, p)
	}
	sortNewestFirst(products, func(p models.Product) (time.Time, primitive.ObjectID) { return p.CreatedAt, p.ID })
	if filter.Limit > 0 && int64(len(products)) > filter.Limit {
		products = products[:filter.Limit]
	}
	return products, nil
}

func (s *MemStore) UpdateProductOwned(_ context.Context, id, vendorID primitive.ObjectID, upd models.ProductUpdate) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok || p.VendorID != vendorID {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.StockQuantity != nil {
		p.StockQuantity = *upd.StockQuantity
	}
	if upd.ImageURL != nil {
		p.ImageURL = *upd.ImageURL
	}
	p.UpdatedAt = time.Now()
	s.products[id] = p
	out := p
	return &out, nil
}

func (s *MemStore) DeleteProductOwned(_ context.Context, id, vendorID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok || p.VendorID != vendorID {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemStore) SetProductStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	s.products[id] = p
	out := p
	return &out, nil
}

// DecrementStock performs check and subtract inside one critical section so
// stock cannot go negative under concurrent checkouts.
func (s *MemStore) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	if p.StockQuantity < qty {
		return ErrInsufficientStock
	}
	p.StockQuantity -= qty
	s.products[id] = p
	return nil
}

func (s *MemStore) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	p.StockQuantity += qty
	s.products[id] = p
	return nil
}

// ----- Carts -----

func (s *MemStore) GetCart(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := c
	out.Items = append([]models.CartItem(nil), c.Items...)
	return &out, nil
}

func (s *MemStore) SaveCart(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cart.ID.IsZero() {
		if existing, ok := s.carts[cart.UserID]; ok {
			cart.ID = existing.ID
		} else {
			cart.ID = primitive.NewObjectID()
		}
	}
	cart.UpdatedAt = time.Now()
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	stored := *cart
	stored.Items = append([]models.CartItem(nil), cart.Items...)
	s.carts[cart.UserID] = stored
	return nil
}

func (s *MemStore) ClearCart(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		return nil
	}
	c.Items = []models.CartItem{}
	c.TotalPrice = 0
	c.UpdatedAt = time.Now()
	s.carts[userID] = c
	return nil
}

// ----- Orders -----

func (s *MemStore) CreateOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.OrderID == order.OrderID {
			return ErrDuplicate
		}
	}
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	s.orders[order.ID] = stored
	return nil
}

func (s *MemStore) GetOrder(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := o
	out.Items = append([]models.OrderItem(nil), o.Items...)
	return &out, nil
}

func (s *MemStore) UpdateOrderStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus, payment models.PaymentStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.OrderStatus = status
	o.PaymentStatus = payment
	s.orders[id] = o
	out := o
	out.Items = append([]models.OrderItem(nil), o.Items...)
	return &out, nil
}

func (s *MemStore) listOrders(match func(models.Order) bool) []models.Order {
	orders := []models.Order{}
	for _, o := range s.orders {
		if match(o) {
			o.Items = append([]models.OrderItem(nil), o.Items...)
			orders = append(orders, o)
		}
	}
	sortNewestFirst(orders, func(o models.Order) (time.Time, primitive.ObjectID) { return o.CreatedAt, o.ID })
	return orders
}

func (s *MemStore) ListOrdersByCustomer(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listOrders(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (s *MemStore) ListOrdersByVendor(_ context.Context, vendorID primitive.ObjectID) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listOrders(func(o models.Order) bool { return o.HasVendor(vendorID) }), nil
}

func (s *MemStore) ListOrders(_ context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listOrders(func(models.Order) bool { return true }), nil
}

// ----- Requests -----

func (s *MemStore) CreateRequest(_ context.Context, req *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.ID = primitive.NewObjectID()
	req.CreatedAt = time.Now()
	stored := *req
	stored.Quotes = append([]models.Quote(nil), req.Quotes...)
	s.requests[req.ID] = stored
	return nil
}

func (s *MemStore) GetRequest(_ context.Context, id primitive.ObjectID) (*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := r
	out.Quotes = append([]models.Quote(nil), r.Quotes...)
	return &out, nil
}

func (s *MemStore) listRequests(match func(models.Request) bool) []models.Request {
	requests := []models.Request{}
	for _, r := range s.requests {
		if match(r) {
			r.Quotes = append([]models.Quote(nil), r.Quotes...)
			requests = append(requests, r)
		}
	}
	sortNewestFirst(requests, func(r models.Request) (time.Time, primitive.ObjectID) { return r.CreatedAt, r.ID })
	return requests
}

func (s *MemStore) ListRequestsByUser(_ context.Context, userID primitive.ObjectID) ([]models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listRequests(func(r models.Request) bool { return r.UserID == userID }), nil
}

func (s *MemStore) ListRequests(_ context.Context) ([]models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listRequests(func(models.Request) bool { return true }), nil
}

func (s *MemStore) AddQuote(_ context.Context, id primitive.ObjectID, quote models.Quote) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Quotes = append(append([]models.Quote(nil), r.Quotes...), quote)
	r.Status = models.StatusQuoted
	s.requests[id] = r
	out := r
	return &out, nil
}

func (s *MemStore) SetRequestStatus(_ context.Context, id primitive.ObjectID, status string, assignedVendor primitive.ObjectID) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Status = status
	if !assignedVendor.IsZero() {
		r.AssignedVendor = assignedVendor
	}
	s.requests[id] = r
	out := r
	out.Quotes = append([]models.Quote(nil), r.Quotes...)
	return &out, nil
}

// ----- Reporting -----

func (s *MemStore) AdminStats(_ context.Context) (*models.AdminStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.AdminStats{
		TotalProducts: int64(len(s.products)),
		TotalOrders:   int64(len(s.orders)),
	}
	for _, u := range s.users {
		switch u.Role {
		case models.RoleCustomer:
			stats.TotalUsers++
		case models.RoleVendor:
			stats.TotalVendors++
		}
	}
	for _, o := range s.orders {
		if o.OrderStatus == models.OrderDelivered {
			stats.Revenue += o.TotalAmount
		}
	}
	return stats, nil
}

func (s *MemStore) VendorStats(_ context.Context, vendorID primitive.ObjectID) (*models.VendorStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.VendorStats{}
	for _, p := range s.products {
		if p.VendorID == vendorID {
			stats.Products++
		}
	}
	for _, o := range s.orders {
		if !o.HasVendor(vendorID) {
			continue
		}
		stats.Orders++
		if o.OrderStatus == models.OrderDelivered {
			for _, item := range o.Items {
				if item.VendorID == vendorID {
					stats.Revenue += item.Price * float64(item.Quantity)
				}
			}
		}
	}
	return stats, nil
}

func (s *MemStore) VendorOverview(_ context.Context) ([]models.VendorOverview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	overview := []models.VendorOverview{}
	for _, u := range s.users {
		if u.Role != models.RoleVendor {
			continue
		}
		row := models.VendorOverview{VendorID: u.ID, Name: u.Name}
		for _, p := range s.products {
			if p.VendorID == u.ID {
				row.Products++
			}
		}
		for _, o := range s.orders {
			if o.HasVendor(u.ID) {
				row.Orders++
			}
		}
		overview = append(overview, row)
	}
	return overview, nil
}

func (s *MemStore) RevenueReport(_ context.Context, start, end time.Time) ([]models.RevenueBucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDay := map[string]*models.RevenueBucket{}
	for _, o := range s.orders {
		if o.OrderStatus != models.OrderDelivered {
			continue
		}
		if !start.IsZero() && !end.IsZero() {
			if o.CreatedAt.Before(start) || o.CreatedAt.After(end) {
				continue
			}
		}
		day := o.CreatedAt.Format("2006-01-02")
		b, ok := byDay[day]
		if !ok {
			b = &models.RevenueBucket{Date: day}
			byDay[day] = b
		}
		b.Total += o.TotalAmount
		b.Count++
	}

	buckets := []models.RevenueBucket{}
	for _, b := range byDay {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets, nil
}

// sortNewestFirst orders entities by creation time descending, breaking ties
// by ObjectID so the order stays stable within one timestamp.
func sortNewestFirst[T any](items []T, key func(T) (time.Time, primitive.ObjectID)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return fmt.Sprintf("%x", idi[:]) > fmt.Sprintf("%x", idj[:])
	})
}
