package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/models"
	"marketplace-backend/storage"
)

// RequestService runs the custom-item workflow: a customer describes what
// they want, vendors quote, the customer accepts one quote.
type RequestService struct {
	store storage.Store
}

func NewRequestService(store storage.Store) *RequestService {
	return &RequestService{store: store}
}

type CreateRequestInput struct {
	ProductName     string `json:"productName" binding:"required"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	PreferredVendor string `json:"preferredVendor"`
}

func (s *RequestService) Create(ctx context.Context, userID primitive.ObjectID, in CreateRequestInput) (*models.Request, error) {
	req := &models.Request{
		UserID:          userID,
		ProductName:     in.ProductName,
		Description:     in.Description,
		Category:        in.Category,
		PreferredVendor: in.PreferredVendor,
		Status:          models.StatusPending,
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *RequestService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Request, error) {
	return s.store.ListRequestsByUser(ctx, userID)
}

func (s *RequestService) ListAll(ctx context.Context) ([]models.Request, error) {
	return s.store.ListRequests(ctx)
}

// Quote attaches a vendor's offer and moves the request to quoted. Requests
// already decided (approved/rejected) no longer take quotes.
func (s *RequestService) Quote(ctx context.Context, vendor *models.User, id primitive.ObjectID, amount float64) (*models.Request, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("quote amount must be positive")
	}
	req, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status == models.StatusApproved || req.Status == models.StatusRejected {
		return nil, fmt.Errorf("%w: request is already %s", ErrInvalidStatus, req.Status)
	}
	return s.store.AddQuote(ctx, id, models.Quote{
		VendorID:   vendor.ID,
		VendorName: vendor.Name,
		Amount:     amount,
	})
}

// Accept lets the request's owner pick a quote by vendor name; the request
// becomes approved with that quote's vendor assigned.
func (s *RequestService) Accept(ctx context.Context, userID, id primitive.ObjectID, vendorName string) (*models.Request, error) {
	req, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, ErrForbidden
	}
	for _, q := range req.Quotes {
		if q.VendorName == vendorName {
			return s.store.SetRequestStatus(ctx, id, models.StatusApproved, q.VendorID)
		}
	}
	return nil, ErrNoQuote
}

// SetStatus is the admin override over the request lifecycle.
func (s *RequestService) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Request, error) {
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected, models.StatusQuoted:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, status)
	}
	return s.store.SetRequestStatus(ctx, id, status, primitive.NilObjectID)
}
