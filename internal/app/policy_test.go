package app

import (
	"context"
	"testing"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/repository"
	testhelpers "github.com/IbrahimUniJos/Kasuwa-sub002/internal/test"
)

func policyFixture() (*testhelpers.UserRepositoryStub, *model.Order) {
	users := testhelpers.NewUserRepositoryStub()
	users.Seed(1, "customer", model.RoleCustomer)
	users.Seed(2, "vendor", model.RoleVendor)
	users.Seed(3, "admin", model.RoleAdmin)
	users.Seed(4, "bystander", model.RoleCustomer)

	order := &model.Order{
		ID:         10,
		CustomerID: 1,
		Items:      []model.OrderItem{{ProductID: 5, VendorID: 2, Quantity: 1}},
	}
	return users, order
}

func TestRolePolicyCanViewOrder(t *testing.T) {
	users, order := policyFixture()
	policy := NewRolePolicy(users)

	cases := []struct {
		name    string
		actorID int64
		want    bool
	}{
		{name: "owning customer", actorID: 1, want: true},
		{name: "vendor on order", actorID: 2, want: true},
		{name: "admin", actorID: 3, want: true},
		{name: "unrelated customer", actorID: 4, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := policy.CanViewOrder(context.Background(), tc.actorID, order)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRolePolicyCanUpdateStatus(t *testing.T) {
	users, order := policyFixture()
	policy := NewRolePolicy(users)

	cases := []struct {
		name    string
		actorID int64
		want    bool
	}{
		{name: "owning customer cannot", actorID: 1, want: false},
		{name: "vendor on order", actorID: 2, want: true},
		{name: "admin", actorID: 3, want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := policy.CanUpdateStatus(context.Background(), tc.actorID, order)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRolePolicyScopeSearch(t *testing.T) {
	users, _ := policyFixture()
	policy := NewRolePolicy(users)

	filter := repository.SearchFilter{}
	if err := policy.ScopeSearch(context.Background(), 1, &filter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.CustomerID == nil || *filter.CustomerID != 1 || filter.VendorID != nil {
		t.Fatalf("expected customer scoped filter, got %+v", filter)
	}

	filter = repository.SearchFilter{}
	if err := policy.ScopeSearch(context.Background(), 2, &filter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.VendorID == nil || *filter.VendorID != 2 || filter.CustomerID != nil {
		t.Fatalf("expected vendor scoped filter, got %+v", filter)
	}

	other := int64(99)
	filter = repository.SearchFilter{CustomerID: &other}
	if err := policy.ScopeSearch(context.Background(), 3, &filter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.CustomerID != &other {
		t.Fatalf("expected admin filter untouched, got %+v", filter)
	}
}
