package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go-bill-tracker/internal/event"
	"go-bill-tracker/internal/model"
	"go-bill-tracker/internal/repository"
	"go-bill-tracker/pkg/apierror"
	"go-bill-tracker/pkg/validator"
)

type BillService struct {
	bills repository.BillStore
	bus   event.Bus
}

func NewBillService(bills repository.BillStore, bus event.Bus) *BillService {
	return &BillService{bills: bills, bus: bus}
}

// Create stores a new bill owned by principal.
func (s *BillService) Create(ctx context.Context, principal model.Principal, req model.CreateBillRequest) (model.Bill, error) {
	if err := validator.Validate(req); err != nil {
		return model.Bill{}, apierror.Validation("Invalid bill data", err.Error())
	}

	now := time.Now().UTC()
	bill := model.Bill{
		ID:        uuid.NewString(),
		UserID:    principal.ID,
		Name:      req.Name,
		Amount:    *req.Amount,
		DueDate:   model.Date{Time: req.DueDate.UTC()},
		Category:  req.Category,
		Paid:      req.Paid,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.bills.Create(ctx, bill); err != nil {
		return model.Bill{}, err
	}

	s.bus.Publish(event.New(event.TypeBillCreated, principal.ID, bill))
	return bill, nil
}

// List returns principal's bills ordered by due date, earliest first.
func (s *BillService) List(ctx context.Context, principal model.Principal) ([]model.Bill, error) {
	bills, err := s.bills.Find(ctx, ownerFilter(principal))
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return bills, nil
}

func (s *BillService) Get(ctx context.Context, principal model.Principal, id string) (model.Bill, error) {
	return s.loadOwned(ctx, principal, id)
}

func (s *BillService) Update(ctx context.Context, principal model.Principal, id string, req model.UpdateBillRequest) (model.Bill, error) {
	if _, err := s.loadOwned(ctx, principal, id); err != nil {
		return model.Bill{}, err
	}

	if err := validator.Validate(req); err != nil {
		return model.Bill{}, apierror.Validation("Invalid bill data", err.Error())
	}

	patch := model.BillPatch{
		Name:     req.Name,
		Amount:   req.Amount,
		Category: req.Category,
		Paid:     req.Paid,
		Notes:    req.Notes,
	}
	if req.DueDate != nil {
		due := req.DueDate.UTC()
		patch.DueDate = &due
	}

	updated, err := s.bills.UpdateByID(ctx, id, patch)
	if errors.Is(err, model.ErrBillNotFound) {
		return model.Bill{}, billNotFound(id)
	}
	if err != nil {
		return model.Bill{}, fmt.Errorf("update bill: %w", err)
	}

	s.bus.Publish(event.New(event.TypeBillUpdated, principal.ID, updated))
	return updated, nil
}

func (s *BillService) Delete(ctx context.Context, principal model.Principal, id string) error {
	if _, err := s.loadOwned(ctx, principal, id); err != nil {
		return err
	}

	err := s.bills.DeleteByID(ctx, id)
	if errors.Is(err, model.ErrBillNotFound) {
		return billNotFound(id)
	}
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}

	s.bus.Publish(event.New(event.TypeBillDeleted, principal.ID, map[string]string{"id": id}))
	return nil
}
