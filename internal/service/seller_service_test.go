package service_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/service"
)

func TestSellerLifecycle(t *testing.T) {
	ctx := t.Context()

	stores := newMemStores()
	svc := service.NewSeller(&memSellers{s: stores}, zap.NewNop())

	caller := domain.Caller{UserID: uuid.New(), Role: domain.RoleCustomer}
	admin := domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin}

	request := domain.Seller{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		ShopName: gofakeit.Company(),
		Phone:    gofakeit.Phone(),
	}

	t.Run("registration starts unapproved", func(t *testing.T) {
		seller, err := svc.RegisterSeller(ctx, caller, request)
		require.NoError(t, err)

		assert.Equal(t, caller.UserID, seller.UserID)
		assert.False(t, seller.Approved)
	})

	t.Run("second registration for the same user: conflict", func(t *testing.T) {
		_, err := svc.RegisterSeller(ctx, caller, request)
		require.ErrorIs(t, err, domain.ErrSellerExists)
	})

	t.Run("missing shop name: rejected", func(t *testing.T) {
		bad := request
		bad.ShopName = ""

		_, err := svc.RegisterSeller(ctx, domain.Caller{UserID: uuid.New()}, bad)

		var fieldErr domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "shopName", fieldErr.Field)
	})

	t.Run("admin approves", func(t *testing.T) {
		sellers, err := svc.ListSellers(ctx, admin)
		require.NoError(t, err)
		require.Len(t, sellers, 1)

		approved, err := svc.ApproveSeller(ctx, admin, sellers[0].ID)
		require.NoError(t, err)
		assert.True(t, approved.Approved)
	})

	t.Run("non-admin approval: forbidden", func(t *testing.T) {
		_, err := svc.ApproveSeller(ctx, caller, uuid.New())
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("non-admin listing: forbidden", func(t *testing.T) {
		_, err := svc.ListSellers(ctx, caller)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("approving unknown seller: not found", func(t *testing.T) {
		_, err := svc.ApproveSeller(ctx, admin, uuid.New())
		require.ErrorIs(t, err, domain.ErrSellerNotFound)
	})
}

func TestUpdateSeller(t *testing.T) {
	ctx := t.Context()

	stores := newMemStores()
	svc := service.NewSeller(&memSellers{s: stores}, zap.NewNop())

	owner := domain.Caller{UserID: uuid.New(), Role: domain.RoleCustomer}
	admin := domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin}

	seller, err := svc.RegisterSeller(ctx, owner, domain.Seller{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		ShopName: gofakeit.Company(),
		Phone:    gofakeit.Phone(),
	})
	require.NoError(t, err)

	_, err = svc.ApproveSeller(ctx, admin, seller.ID)
	require.NoError(t, err)

	t.Run("owner updates own profile", func(t *testing.T) {
		updated := seller
		updated.ShopName = gofakeit.Company()
		updated.Phone = gofakeit.Phone()

		actual, err := svc.UpdateSeller(ctx, owner, updated)
		require.NoError(t, err)

		assert.Equal(t, updated.ShopName, actual.ShopName)
		assert.Equal(t, updated.Phone, actual.Phone)
		// ownership and approval survive the rewrite
		assert.Equal(t, owner.UserID, actual.UserID)
		assert.True(t, actual.Approved)
	})

	t.Run("admin updates any seller", func(t *testing.T) {
		updated := seller
		updated.Name = gofakeit.Name()

		actual, err := svc.UpdateSeller(ctx, admin, updated)
		require.NoError(t, err)
		assert.Equal(t, updated.Name, actual.Name)
	})

	t.Run("another customer: forbidden", func(t *testing.T) {
		stranger := domain.Caller{UserID: uuid.New(), Role: domain.RoleCustomer}

		_, err := svc.UpdateSeller(ctx, stranger, seller)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("missing email: rejected", func(t *testing.T) {
		bad := seller
		bad.Email = ""

		_, err := svc.UpdateSeller(ctx, owner, bad)

		var fieldErr domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "email", fieldErr.Field)
	})

	t.Run("unknown seller: not found", func(t *testing.T) {
		unknown := seller
		unknown.ID = uuid.New()

		_, err := svc.UpdateSeller(ctx, admin, unknown)
		require.ErrorIs(t, err, domain.ErrSellerNotFound)
	})
}

func TestDeleteSeller(t *testing.T) {
	ctx := t.Context()

	stores := newMemStores()
	svc := service.NewSeller(&memSellers{s: stores}, zap.NewNop())

	owner := domain.Caller{UserID: uuid.New(), Role: domain.RoleCustomer}
	admin := domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin}

	seller, err := svc.RegisterSeller(ctx, owner, domain.Seller{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		ShopName: gofakeit.Company(),
		Phone:    gofakeit.Phone(),
	})
	require.NoError(t, err)

	t.Run("owner cannot delete, admin only", func(t *testing.T) {
		err := svc.DeleteSeller(ctx, owner, seller.ID)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin deletes", func(t *testing.T) {
		require.NoError(t, svc.DeleteSeller(ctx, admin, seller.ID))

		_, err := svc.GetSeller(ctx, seller.ID)
		require.ErrorIs(t, err, domain.ErrSellerNotFound)
	})

	t.Run("unknown seller: not found", func(t *testing.T) {
		err := svc.DeleteSeller(ctx, admin, uuid.New())
		require.ErrorIs(t, err, domain.ErrSellerNotFound)
	})
}
