package app

import (
	"context"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/repository"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/usecase"
)

// RolePolicy resolves order access from the actor's stored role. Customers
// see their own orders, vendors the orders carrying their lines, admins
// everything.
type RolePolicy struct {
	users repository.UserRepository
}

// NewRolePolicy constructs the role based access policy.
func NewRolePolicy(users repository.UserRepository) usecase.AccessPolicy {
	return &RolePolicy{users: users}
}

func (p *RolePolicy) CanViewOrder(ctx context.Context, actorID int64, order *model.Order) (bool, error) {
	usr, err := p.users.GetByID(ctx, actorID)
	if err != nil {
		return false, err
	}
	switch usr.Role {
	case model.RoleAdmin:
		return true, nil
	case model.RoleVendor:
		return order.CustomerID == actorID || order.VendorOnOrder(actorID), nil
	default:
		return order.CustomerID == actorID, nil
	}
}

func (p *RolePolicy) CanUpdateStatus(ctx context.Context, actorID int64, order *model.Order) (bool, error) {
	usr, err := p.users.GetByID(ctx, actorID)
	if err != nil {
		return false, err
	}
	switch usr.Role {
	case model.RoleAdmin:
		return true, nil
	case model.RoleVendor:
		return order.VendorOnOrder(actorID), nil
	default:
		return false, nil
	}
}

func (p *RolePolicy) ScopeSearch(ctx context.Context, actorID int64, filter *repository.SearchFilter) error {
	usr, err := p.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	switch usr.Role {
	case model.RoleAdmin:
	case model.RoleVendor:
		filter.VendorID = &actorID
		filter.CustomerID = nil
	default:
		filter.CustomerID = &actorID
		filter.VendorID = nil
	}
	return nil
}
