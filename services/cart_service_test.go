package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/models"
	"marketplace-backend/storage"
)

func seedProduct(t *testing.T, s storage.Store, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		VendorID:      primitive.NewObjectID(),
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		Status:        models.StatusApproved,
	}
	if err := s.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func TestCartGetWithoutPersistedCart(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewCartService(store, false)
	userID := primitive.NewObjectID()

	cart, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 0 || cart.TotalPrice != 0 {
		t.Fatalf("empty cart expected, got %+v", cart)
	}
	// A bare read must not persist anything.
	if _, err := store.GetCart(context.Background(), userID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("cart was persisted by Get: %v", err)
	}
}

func TestCartAddSnapshotsAndTotals(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewCartService(store, false)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	p := seedProduct(t, store, "Oak Shelf", 80, 5)

	cart, err := svc.Add(ctx, userID, p.ID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(cart.Items))
	}
	item := cart.Items[0]
	if item.Name != "Oak Shelf" || item.Price != 80 || item.Quantity != 3 || item.VendorID != p.VendorID {
		t.Fatalf("snapshot wrong: %+v", item)
	}
	if cart.TotalPrice != 240 {
		t.Fatalf("total = %v, want 240", cart.TotalPrice)
	}

	// Adding never reserves stock.
	got, _ := store.GetProduct(ctx, p.ID)
	if got.StockQuantity != 5 {
		t.Fatalf("stock = %d, want 5 (no reservation)", got.StockQuantity)
	}
}

func TestCartAddDefaultsQuantityToOne(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewCartService(store, false)
	p := seedProduct(t, store, "Lamp", 25, 2)

	cart, err := svc.Add(context.Background(), primitive.NewObjectID(), p.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if cart.Items[0].Quantity != 1 {
		t.Fatalf("quantity = %d, want 1", cart.Items[0].Quantity)
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewCartService(store, false)

	_, err := svc.Add(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 1)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCartAddInsufficientStock(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewCartService(store, false)
	p := seedProduct(t, store, "Bench", 60, 2)

	_, err := svc.Add(context.Background(), primitive.NewObjectID(), p.ID, 3)
	if !errors.Is(err, storage.ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}
}

// Lenient mode matches the historical behavior: merging into an existing line
// item only checks the increment, so the merged quantity may exceed stock.
func TestCartAddMergeLenient(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewCartService(store, false)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	p := seedProduct(t, store, "Stool", 30, 4)

	if _, err := svc.Add(ctx, userID, p.ID, 3); err != nil {
		t.Fatal(err)
	}
	cart, err := svc.Add(ctx, userID, p.ID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if cart.Items[0].Quantity != 6 {
		t.Fatalf("merged quantity = %d, want 6", cart.Items[0].Quantity)
	}
	if cart.TotalPrice != 180 {
		t.Fatalf("total = %v, want 180", cart.TotalPrice)
	}
}

func TestCartAddMergeStrict(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewCartService(store, true)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	p := seedProduct(t, store, "Stool", 30, 4)

	if _, err := svc.Add(ctx, userID, p.ID, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, userID, p.ID, 3); !errors.Is(err, storage.ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock in strict mode", err)
	}
	// 3 + 1 still fits.
	cart, err := svc.Add(ctx, userID, p.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if cart.Items[0].Quantity != 4 {
		t.Fatalf("quantity = %d, want 4", cart.Items[0].Quantity)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewCartService(store, false)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	p := seedProduct(t, store, "Table", 100, 10)

	if _, err := svc.Add(ctx, userID, p.ID, 1); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateQuantity(ctx, userID, p.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("quantity 0: got %v, want ErrInvalidQuantity", err)
	}
	if _, err := svc.UpdateQuantity(ctx, userID, p.ID, 11); !errors.Is(err, storage.ErrInsufficientStock) {
		t.Fatalf("quantity 11 of 10: got %v, want ErrInsufficientStock", err)
	}
	if _, err := svc.UpdateQuantity(ctx, userID, primitive.NewObjectID(), 2); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown line item: got %v, want ErrNotFound", err)
	}

	cart, err := svc.UpdateQuantity(ctx, userID, p.ID, 7)
	if err != nil {
		t.Fatal(err)
	}
	if cart.Items[0].Quantity != 7 || cart.TotalPrice != 700 {
		t.Fatalf("update wrong: %+v", cart)
	}
}

func TestCartUpdateQuantityNoCart(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewCartService(store, false)

	_, err := svc.UpdateQuantity(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 2)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCartRemoveIdempotent(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewCartService(store, false)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	p1 := seedProduct(t, store, "Desk", 200, 5)
	p2 := seedProduct(t, store, "Chair", 50, 5)

	if _, err := svc.Add(ctx, userID, p1.ID, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, userID, p2.ID, 2); err != nil {
		t.Fatal(err)
	}

	cart, err := svc.Remove(ctx, userID, p1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 1 || cart.TotalPrice != 100 {
		t.Fatalf("after remove: %+v", cart)
	}

	// Removing the same product again succeeds and changes nothing.
	cart, err = svc.Remove(ctx, userID, p1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 1 || cart.TotalPrice != 100 {
		t.Fatalf("second remove changed cart: %+v", cart)
	}
}

func TestCartClearNoCartIsNoop(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewCartService(store, false)

	if err := svc.Clear(context.Background(), primitive.NewObjectID()); err != nil {
		t.Fatalf("clear without cart: %v", err)
	}
}
