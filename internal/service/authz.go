package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/port"
)

// resolveOrderRights turns caller identity plus the order into a capability
// set, so handlers check one value instead of sprinkling role conditionals.
//
// View: the buyer who placed it, any seller present in the order, admin/owner.
// Status updates: admin/owner, or a seller present in the order.
// Cancel: the buyer (stage-checked separately) or admin/owner.
func resolveOrderRights(ctx context.Context, sellers port.SellerRepository, caller domain.Caller, order domain.Order) (domain.OrderRights, error) {
	if caller.IsAdmin() {
		return domain.OrderRights{View: true, UpdateStatus: true, Cancel: true}, nil
	}

	var rights domain.OrderRights

	if order.BuyerID == caller.UserID {
		rights.View = true
		rights.Cancel = true
	}

	seller, err := sellers.FindSellerByUser(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrSellerNotFound) {
			return rights, nil
		}
		return rights, fmt.Errorf("sellers.FindSellerByUser: %w", err)
	}

	if lo.Contains(order.SellerIDs, seller.ID) {
		rights.View = true
		rights.UpdateStatus = true
	}

	return rights, nil
}
