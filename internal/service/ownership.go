package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"go-bill-tracker/internal/model"
	"go-bill-tracker/pkg/apierror"
)

// loadOwned resolves a single bill for principal. Existence is checked
// before ownership: an unknown id is NotFound (404) for everyone, while a
// bill owned by someone else is Forbidden (401).
func (s *BillService) loadOwned(ctx context.Context, principal model.Principal, id string) (model.Bill, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Bill{}, billNotFound(id)
	}

	bill, err := s.bills.FindByID(ctx, id)
	if errors.Is(err, model.ErrBillNotFound) {
		return model.Bill{}, billNotFound(id)
	}
	if err != nil {
		return model.Bill{}, fmt.Errorf("load bill: %w", err)
	}

	if err := authorizeOwner(bill, principal); err != nil {
		return model.Bill{}, err
	}

	return bill, nil
}

func authorizeOwner(bill model.Bill, principal model.Principal) error {
	if principal.ID == "" || bill.UserID != principal.ID {
		return apierror.Forbidden("Not authorized")
	}
	return nil
}

// ownerFilter scopes a collection read to principal; callers cannot widen it.
func ownerFilter(principal model.Principal) model.BillFilter {
	return model.BillFilter{OwnerID: principal.ID, SortBy: model.SortByDueDate}
}

func billNotFound(id string) error {
	return apierror.NotFound("Bill not found", id)
}
