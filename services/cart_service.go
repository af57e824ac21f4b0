package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/models"
	"marketplace-backend/storage"
)

type CartService struct {
	store storage.Store

	// strictStock re-validates the merged quantity when an add lands on an
	// existing line item. The historical behavior (false) only checks the
	// increment against live stock.
	strictStock bool
}

func NewCartService(store storage.Store, strictStock bool) *CartService {
	return &CartService{store: store, strictStock: strictStock}
}

// Get returns the customer's cart, or an empty cart value if none has been
// persisted yet. It never fails for an authenticated customer.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.store.GetCart(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if err == storage.ErrNotFound {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	return nil, err
}

// Add puts quantity units of a product into the cart, snapshotting name,
// price and owning vendor at add-time. A quantity of zero means one.
func (s *CartService) Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.StockQuantity < quantity {
		return nil, fmt.Errorf("%w for %s", storage.ErrInsufficientStock, product.Name)
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			if s.strictStock && product.StockQuantity < cart.Items[i].Quantity+quantity {
				return nil, fmt.Errorf("%w for %s", storage.ErrInsufficientStock, product.Name)
			}
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
			VendorID:  product.VendorID,
		})
	}

	cart.RecalcTotal()
	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets an existing line item's quantity, re-checking the live
// product stock. A product deleted since add-time no longer gates the update.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, storage.ErrNotFound
	}

	if product, err := s.store.GetProduct(ctx, productID); err == nil {
		if product.StockQuantity < quantity {
			return nil, fmt.Errorf("%w for %s", storage.ErrInsufficientStock, product.Name)
		}
	}

	cart.Items[idx].Quantity = quantity
	cart.RecalcTotal()
	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove filters the product out of the cart. Removing an absent item is not
// an error; the cart itself must exist.
func (s *CartService) Remove(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	cart.RecalcTotal()
	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart in place; a customer with no cart is a no-op.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return s.store.ClearCart(ctx, userID)
}
