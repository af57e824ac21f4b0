package services

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/models"
	"marketplace-backend/storage"
	"marketplace-backend/utils"
)

type OrderService struct {
	store storage.Store

	// atomicStock: place orders through per-product conditional decrements
	// with compensation. false selects the legacy check-then-decrement flow.
	atomicStock bool

	// restrictVendor limits vendors to forward fulfilment steps.
	restrictVendor bool
}

func NewOrderService(store storage.Store, atomicStock, restrictVendor bool) *OrderService {
	return &OrderService{store: store, atomicStock: atomicStock, restrictVendor: restrictVendor}
}

type CreateOrderInput struct {
	Items           []models.OrderItem     `json:"items" binding:"required,min=1,dive"`
	TotalAmount     float64                `json:"totalAmount" binding:"gte=0"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   models.PaymentMethod   `json:"paymentMethod" binding:"required"`
}

// Create places an order: every item's stock is claimed, the order is
// persisted with status pending, and the customer's cart is cleared.
// Cash settles on delivery; upi/card are treated as settled up front.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrInvalidQuantity)
	}
	if !in.PaymentMethod.Valid() {
		return nil, fmt.Errorf("invalid payment method %q", in.PaymentMethod)
	}
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w for %s", ErrInvalidQuantity, item.Name)
		}
	}

	if s.atomicStock {
		if err := s.claimStock(ctx, in.Items); err != nil {
			return nil, err
		}
	} else if err := s.checkStock(ctx, in.Items); err != nil {
		return nil, err
	}

	paymentStatus := models.PaymentCompleted
	if in.PaymentMethod == models.PaymentCash {
		paymentStatus = models.PaymentPending
	}

	order := &models.Order{
		OrderID:         utils.NewOrderID(),
		UserID:          userID,
		Items:           in.Items,
		TotalAmount:     in.TotalAmount,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   paymentStatus,
		OrderStatus:     models.OrderPending,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		if s.atomicStock {
			s.releaseStock(ctx, in.Items)
		}
		return nil, err
	}

	if !s.atomicStock {
		// Legacy flow decrements after the insert. The decrement stays
		// conditional at the storage layer, so a concurrent checkout that
		// won the race leaves this order short rather than stock negative.
		for _, item := range in.Items {
			if err := s.store.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				log.Printf("order %s: stock decrement for %s failed: %v", order.OrderID, item.Name, err)
			}
		}
	}

	if err := s.store.ClearCart(ctx, userID); err != nil {
		log.Printf("order %s: cart clear failed: %v", order.OrderID, err)
	}
	return order, nil
}

// claimStock decrements every item atomically, undoing already-applied
// decrements when a later item cannot be satisfied.
func (s *OrderService) claimStock(ctx context.Context, items []models.OrderItem) error {
	for i, item := range items {
		err := s.store.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err == nil {
			continue
		}
		s.releaseStock(ctx, items[:i])
		if err == storage.ErrInsufficientStock || err == storage.ErrNotFound {
			return fmt.Errorf("%w for %s", storage.ErrInsufficientStock, item.Name)
		}
		return err
	}
	return nil
}

// releaseStock re-increments claimed stock. Best effort: a product deleted
// mid-flight must not fail the compensation of the others.
func (s *OrderService) releaseStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if err := s.store.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("stock restore for %s failed: %v", item.Name, err)
		}
	}
}

// checkStock is the legacy pre-flight read of every product. Two concurrent
// checkouts can both pass it; that window is the documented parity behavior.
func (s *OrderService) checkStock(ctx context.Context, items []models.OrderItem) error {
	for _, item := range items {
		product, err := s.store.GetProduct(ctx, item.ProductID)
		if err != nil || product.StockQuantity < item.Quantity {
			return fmt.Errorf("%w for %s", storage.ErrInsufficientStock, item.Name)
		}
	}
	return nil
}

// Get returns an order to its owner or to an admin.
func (s *OrderService) Get(ctx context.Context, callerID primitive.ObjectID, role models.Role, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != callerID && role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return order, nil
}

// Cancel moves an owned pending or confirmed order to cancelled and restores
// every item's stock. Restoration is best effort per item.
func (s *OrderService) Cancel(ctx context.Context, userID, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	if order.OrderStatus != models.OrderPending && order.OrderStatus != models.OrderConfirmed {
		return nil, fmt.Errorf("%w: order cannot be cancelled at this stage", ErrInvalidStatus)
	}

	updated, err := s.store.UpdateOrderStatus(ctx, id, models.OrderCancelled, order.PaymentStatus)
	if err != nil {
		return nil, err
	}
	s.releaseStock(ctx, order.Items)
	return updated, nil
}

// SetStatus advances an order's status on behalf of a vendor or admin.
// Vendors must own at least one line item. Terminal states are sealed for
// everyone. Delivering a cash order settles its payment.
func (s *OrderService) SetStatus(ctx context.Context, callerID primitive.ObjectID, role models.Role, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, status)
	}

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	switch role {
	case models.RoleAdmin:
	case models.RoleVendor:
		if !order.HasVendor(callerID) {
			return nil, ErrForbidden
		}
		if s.restrictVendor && !order.OrderStatus.StepsForward(status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, order.OrderStatus, status)
		}
	default:
		return nil, ErrForbidden
	}

	if order.OrderStatus.Terminal() {
		return nil, fmt.Errorf("%w: order is already %s", ErrInvalidStatus, order.OrderStatus)
	}

	payment := order.PaymentStatus
	if status == models.OrderDelivered && order.PaymentMethod == models.PaymentCash {
		payment = models.PaymentCompleted
	}
	return s.store.UpdateOrderStatus(ctx, id, status, payment)
}

func (s *OrderService) ListForCustomer(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.store.ListOrdersByCustomer(ctx, userID)
}

func (s *OrderService) ListForVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Order, error) {
	return s.store.ListOrdersByVendor(ctx, vendorID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.store.ListOrders(ctx)
}
