package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Store is the persistence boundary. MongoStore is the production
// implementation; MemStore backs tests and the STORE=memory dev mode.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, phone, address string) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, upd models.UserUpdate) (*models.User, error)
	SetUserActive(ctx context.Context, id primitive.ObjectID, active bool) (*models.User, error)
	SetVendorApproval(ctx context.Context, id primitive.ObjectID, status string) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)

	// Products
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	UpdateProductOwned(ctx context.Context, id, vendorID primitive.ObjectID, upd models.ProductUpdate) (*models.Product, error)
	DeleteProductOwned(ctx context.Context, id, vendorID primitive.ObjectID) error
	SetProductStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Product, error)

	// DecrementStock atomically subtracts qty from a product's stock only if
	// the remaining stock suffices; ErrInsufficientStock otherwise. Stock can
	// never go negative through this call.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	// IncrementStock adds qty back; used by cancellation and saga rollback.
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error

	// Carts
	GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	ClearCart(ctx context.Context, userID primitive.ObjectID) error

	// Orders
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, payment models.PaymentStatus) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	ListOrdersByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)

	// Requests
	CreateRequest(ctx context.Context, req *models.Request) error
	GetRequest(ctx context.Context, id primitive.ObjectID) (*models.Request, error)
	ListRequestsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Request, error)
	ListRequests(ctx context.Context) ([]models.Request, error)
	AddQuote(ctx context.Context, id primitive.ObjectID, quote models.Quote) (*models.Request, error)
	SetRequestStatus(ctx context.Context, id primitive.ObjectID, status string, assignedVendor primitive.ObjectID) (*models.Request, error)

	// Reporting
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	VendorStats(ctx context.Context, vendorID primitive.ObjectID) (*models.VendorStats, error)
	VendorOverview(ctx context.Context) ([]models.VendorOverview, error)
	RevenueReport(ctx context.Context, start, end time.Time) ([]models.RevenueBucket, error)
}
