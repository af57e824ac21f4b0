package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/models"
	"marketplace-backend/storage"
)

func orderInput(p *models.Product, qty int) CreateOrderInput {
	return CreateOrderInput{
		Items: []models.OrderItem{{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  qty,
			VendorID:  p.VendorID,
		}},
		TotalAmount:     p.Price * float64(qty),
		ShippingAddress: models.ShippingAddress{Street: "1 Main St", City: "Pune", Country: "IN"},
		PaymentMethod:   models.PaymentCash,
	}
}

func TestCreateOrderHappyPath(t *testing.T) {
	store := storage.NewMemStore()
	carts := NewCartService(store, false)
	svc := NewOrderService(store, true, false)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	p := seedProduct(t, store, "Teak Box", 120, 5)

	if _, err := carts.Add(ctx, userID, p.ID, 3); err != nil {
		t.Fatal(err)
	}

	order, err := svc.Create(ctx, userID, orderInput(p, 3))
	if err != nil {
		t.Fatal(err)
	}
	if order.OrderStatus != models.OrderPending {
		t.Fatalf("status = %s, want pending", order.OrderStatus)
	}
	if order.PaymentStatus != models.PaymentPending {
		t.Fatalf("cash payment status = %s, want pending", order.PaymentStatus)
	}
	if !strings.HasPrefix(order.OrderID, "ORD") {
		t.Fatalf("order id %q missing ORD prefix", order.OrderID)
	}

	got, _ := store.GetProduct(ctx, p.ID)
	if got.StockQuantity != 2 {
		t.Fatalf("stock = %d, want 2", got.StockQuantity)
	}

	cart, err := carts.Get(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 0 || cart.TotalPrice != 0 {
		t.Fatalf("cart not cleared: %+v", cart)
	}
}

func TestCreateOrderCardSettlesUpFront(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	p := seedProduct(t, store, "Vase", 45, 2)

	in := orderInput(p, 1)
	in.PaymentMethod = models.PaymentCard
	order, err := svc.Create(context.Background(), primitive.NewObjectID(), in)
	if err != nil {
		t.Fatal(err)
	}
	if order.PaymentStatus != models.PaymentCompleted {
		t.Fatalf("card payment status = %s, want completed", order.PaymentStatus)
	}
}

func TestCreateOrderInsufficientStockNamesItem(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	p := seedProduct(t, store, "Rosewood Tray", 75, 1)

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), orderInput(p, 2))
	if !errors.Is(err, storage.ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}
	if !strings.Contains(err.Error(), "Rosewood Tray") {
		t.Fatalf("error %q does not name the item", err)
	}

	got, _ := store.GetProduct(context.Background(), p.ID)
	if got.StockQuantity != 1 {
		t.Fatalf("stock = %d, want 1 untouched", got.StockQuantity)
	}
}

func TestCreateOrderRollsBackEarlierDecrements(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	ctx := context.Background()
	p1 := seedProduct(t, store, "Plenty", 10, 8)
	p2 := seedProduct(t, store, "Scarce", 20, 1)

	in := orderInput(p1, 2)
	in.Items = append(in.Items, models.OrderItem{
		ProductID: p2.ID, Name: p2.Name, Price: p2.Price, Quantity: 3, VendorID: p2.VendorID,
	})

	_, err := svc.Create(ctx, primitive.NewObjectID(), in)
	if !errors.Is(err, storage.ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}

	got1, _ := store.GetProduct(ctx, p1.ID)
	got2, _ := store.GetProduct(ctx, p2.ID)
	if got1.StockQuantity != 8 || got2.StockQuantity != 1 {
		t.Fatalf("compensation failed: %d/%d, want 8/1", got1.StockQuantity, got2.StockQuantity)
	}
}

func TestCreateOrderParityMode(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, false, false)
	ctx := context.Background()
	p := seedProduct(t, store, "Cabinet", 300, 4)

	order, err := svc.Create(ctx, primitive.NewObjectID(), orderInput(p, 3))
	if err != nil {
		t.Fatal(err)
	}
	if order.OrderStatus != models.OrderPending {
		t.Fatalf("status = %s, want pending", order.OrderStatus)
	}
	got, _ := store.GetProduct(ctx, p.ID)
	if got.StockQuantity != 1 {
		t.Fatalf("stock = %d, want 1", got.StockQuantity)
	}

	if _, err := svc.Create(ctx, primitive.NewObjectID(), orderInput(p, 2)); !errors.Is(err, storage.ErrInsufficientStock) {
		t.Fatalf("sequential oversell passed: %v", err)
	}
}

func TestCreateOrderNoItems(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateOrderInput{
		PaymentMethod: models.PaymentCash,
	})
	if err == nil {
		t.Fatal("empty order accepted")
	}
}

func TestCancelRestoresStockOnce(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	p := seedProduct(t, store, "Mirror", 90, 4)

	order, err := svc.Create(ctx, userID, orderInput(p, 2))
	if err != nil {
		t.Fatal(err)
	}
	got, _ := store.GetProduct(ctx, p.ID)
	if got.StockQuantity != 2 {
		t.Fatalf("stock after order = %d, want 2", got.StockQuantity)
	}

	cancelled, err := svc.Cancel(ctx, userID, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cancelled.OrderStatus != models.OrderCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.OrderStatus)
	}
	got, _ = store.GetProduct(ctx, p.ID)
	if got.StockQuantity != 4 {
		t.Fatalf("stock after cancel = %d, want 4", got.StockQuantity)
	}

	// Cancelling again must not restore stock twice.
	if _, err := svc.Cancel(ctx, userID, order.ID); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("second cancel: got %v, want ErrInvalidStatus", err)
	}
	got, _ = store.GetProduct(ctx, p.ID)
	if got.StockQuantity != 4 {
		t.Fatalf("stock after repeat cancel = %d, want 4", got.StockQuantity)
	}
}

func TestCancelSurvivesDeletedProduct(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	p := seedProduct(t, store, "Ephemeral", 10, 3)

	order, err := svc.Create(ctx, userID, orderInput(p, 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteProductOwned(ctx, p.ID, p.VendorID); err != nil {
		t.Fatal(err)
	}

	cancelled, err := svc.Cancel(ctx, userID, order.ID)
	if err != nil {
		t.Fatalf("cancel failed on deleted product: %v", err)
	}
	if cancelled.OrderStatus != models.OrderCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.OrderStatus)
	}
}

func TestCancelNotOwner(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	ctx := context.Background()
	p := seedProduct(t, store, "Locked", 10, 3)

	order, err := svc.Create(ctx, primitive.NewObjectID(), orderInput(p, 1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Cancel(ctx, primitive.NewObjectID(), order.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestCancelShippedOrder(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	p := seedProduct(t, store, "Gone", 10, 3)

	order, err := svc.Create(ctx, userID, orderInput(p, 1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.UpdateOrderStatus(ctx, order.ID, models.OrderShipped, order.PaymentStatus); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Cancel(ctx, userID, order.ID); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("got %v, want ErrInvalidStatus", err)
	}
}

func TestSetStatusVendorMembership(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	ctx := context.Background()
	p := seedProduct(t, store, "Shared", 10, 5)

	order, err := svc.Create(ctx, primitive.NewObjectID(), orderInput(p, 1))
	if err != nil {
		t.Fatal(err)
	}

	stranger := primitive.NewObjectID()
	if _, err := svc.SetStatus(ctx, stranger, models.RoleVendor, order.ID, models.OrderShipped); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger vendor: got %v, want ErrForbidden", err)
	}

	updated, err := svc.SetStatus(ctx, p.VendorID, models.RoleVendor, order.ID, models.OrderShipped)
	if err != nil {
		t.Fatal(err)
	}
	if updated.OrderStatus != models.OrderShipped {
		t.Fatalf("status = %s, want shipped", updated.OrderStatus)
	}
}

func TestSetStatusCustomerForbidden(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	p := seedProduct(t, store, "Mine", 10, 5)

	order, err := svc.Create(ctx, userID, orderInput(p, 1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetStatus(ctx, userID, models.RoleCustomer, order.ID, models.OrderConfirmed); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestSetStatusTerminalSealed(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	ctx := context.Background()
	adminID := primitive.NewObjectID()
	p := seedProduct(t, store, "Done", 10, 5)

	order, err := svc.Create(ctx, primitive.NewObjectID(), orderInput(p, 1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetStatus(ctx, adminID, models.RoleAdmin, order.ID, models.OrderDelivered); err != nil {
		t.Fatal(err)
	}

	// Not even an admin can leave a terminal state.
	for _, target := range []models.OrderStatus{models.OrderPending, models.OrderShipped, models.OrderCancelled} {
		if _, err := svc.SetStatus(ctx, adminID, models.RoleAdmin, order.ID, target); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("delivered -> %s: got %v, want ErrInvalidStatus", target, err)
		}
	}
}

func TestSetStatusDeliveredSettlesCashPayment(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	ctx := context.Background()
	p := seedProduct(t, store, "COD", 10, 5)

	order, err := svc.Create(ctx, primitive.NewObjectID(), orderInput(p, 1))
	if err != nil {
		t.Fatal(err)
	}
	if order.PaymentStatus != models.PaymentPending {
		t.Fatalf("cash order starts %s, want pending", order.PaymentStatus)
	}

	updated, err := svc.SetStatus(ctx, primitive.NewObjectID(), models.RoleAdmin, order.ID, models.OrderDelivered)
	if err != nil {
		t.Fatal(err)
	}
	if updated.PaymentStatus != models.PaymentCompleted {
		t.Fatalf("payment = %s, want completed on delivery", updated.PaymentStatus)
	}
}

func TestSetStatusVendorRestrictedPolicy(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, true)
	ctx := context.Background()
	p := seedProduct(t, store, "Stepwise", 10, 5)

	order, err := svc.Create(ctx, primitive.NewObjectID(), orderInput(p, 1))
	if err != nil {
		t.Fatal(err)
	}

	// Forward movement is allowed, backward steps and cancellation are not.
	if _, err := svc.SetStatus(ctx, p.VendorID, models.RoleVendor, order.ID, models.OrderProcessing); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetStatus(ctx, p.VendorID, models.RoleVendor, order.ID, models.OrderConfirmed); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("backward step: got %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.SetStatus(ctx, p.VendorID, models.RoleVendor, order.ID, models.OrderCancelled); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("vendor cancel under policy: got %v, want ErrInvalidStatus", err)
	}
}

func TestGetOrderOwnerOrAdmin(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	p := seedProduct(t, store, "Private", 10, 5)

	order, err := svc.Create(ctx, userID, orderInput(p, 1))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(ctx, userID, models.RoleCustomer, order.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.Get(ctx, primitive.NewObjectID(), models.RoleAdmin, order.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := svc.Get(ctx, primitive.NewObjectID(), models.RoleCustomer, order.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger read: got %v, want ErrForbidden", err)
	}
}

func TestConcurrentCheckoutLastUnit(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewOrderService(store, true, false)
	ctx := context.Background()
	p := seedProduct(t, store, "Last One", 500, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, primitive.NewObjectID(), orderInput(p, 1))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, storage.ErrInsufficientStock):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}

	got, _ := store.GetProduct(ctx, p.ID)
	if got.StockQuantity != 0 {
		t.Fatalf("stock = %d, want 0", got.StockQuantity)
	}
}
