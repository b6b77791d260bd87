package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
)

func TestOrganizationService_CreateOrganization(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	admin := domain.Actor{UserID: 2, Role: domain.RoleAdmin, IsActive: true}

	t.Run("Creator becomes the admin and first member", func(t *testing.T) {
		orgRepo, userRepo := new(MockOrganizationRepo), new(MockUserRepo)
		svc := NewOrganizationService(&fakeTx{}, orgRepo, userRepo).(*organizationService)
		svc.now = fixedClock(now)

		userRepo.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2}, nil)
		orgRepo.On("Create", ctx, mock.AnythingOfType("*domain.Organization")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Organization).ID = 1
		}).Return(nil)
		userRepo.On("JoinOrganization", ctx, int32(2), int32(1), domain.MembershipActive, now).Return(nil)
		orgRepo.On("RecomputeCounters", ctx, int32(1)).Return(nil)

		org, err := svc.CreateOrganization(ctx, admin, &domain.Organization{Name: "HMIF"}, nil)
		require.NoError(t, err)
		assert.True(t, org.IsAdmin(2))
		assert.Equal(t, domain.OrganizationActive, org.Status)
		userRepo.AssertExpectations(t)
		orgRepo.AssertExpectations(t)
	})

	t.Run("Creator already affiliated", func(t *testing.T) {
		orgRepo, userRepo := new(MockOrganizationRepo), new(MockUserRepo)
		svc := NewOrganizationService(&fakeTx{}, orgRepo, userRepo)
		userRepo.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, OrganizationID: int32Ptr(3)}, nil)

		_, err := svc.CreateOrganization(ctx, admin, &domain.Organization{Name: "HMIF"}, nil)
		assert.True(t, apperror.Is(err, apperror.KindConflict))
		orgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Members cannot create organizations", func(t *testing.T) {
		svc := NewOrganizationService(&fakeTx{}, new(MockOrganizationRepo), new(MockUserRepo))
		_, err := svc.CreateOrganization(ctx, domain.Actor{UserID: 5, Role: domain.RoleMember, IsActive: true}, &domain.Organization{Name: "X"}, nil)
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	})

	t.Run("Super admin without an admin", func(t *testing.T) {
		orgRepo, userRepo := new(MockOrganizationRepo), new(MockUserRepo)
		svc := NewOrganizationService(&fakeTx{}, orgRepo, userRepo)
		orgRepo.On("Create", ctx, mock.AnythingOfType("*domain.Organization")).Return(nil)

		org, err := svc.CreateOrganization(ctx, domain.Actor{UserID: 1, Role: domain.RoleSuperAdmin, IsActive: true}, &domain.Organization{Name: "HMIF"}, nil)
		require.NoError(t, err)
		assert.Nil(t, org.AdminID)
		orgRepo.AssertNotCalled(t, "RecomputeCounters", mock.Anything, mock.Anything)
	})
}

func TestOrganizationService_UpdateOrganization(t *testing.T) {
	ctx := context.Background()
	orgRepo := new(MockOrganizationRepo)
	svc := NewOrganizationService(&fakeTx{}, orgRepo, new(MockUserRepo))

	org := &domain.Organization{ID: 1, Name: "HMIF"}
	orgRepo.On("GetByID", ctx, int32(1)).Return(org, nil)
	orgRepo.On("Update", ctx, org).Return(nil)

	name := "HMIF ITB"
	res, err := svc.UpdateOrganization(ctx, orgAdmin(2, 1), 1, OrganizationUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "HMIF ITB", res.Name)

	_, err = svc.UpdateOrganization(ctx, orgAdmin(2, 4), 1, OrganizationUpdate{Name: &name})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestOrganizationService_DeleteOrganization(t *testing.T) {
	ctx := context.Background()
	orgRepo := new(MockOrganizationRepo)
	tx := &fakeTx{}
	svc := NewOrganizationService(tx, orgRepo, new(MockUserRepo))
	orgRepo.On("Delete", ctx, int32(1)).Return(nil)

	require.NoError(t, svc.DeleteOrganization(ctx, orgAdmin(2, 1), 1))
	assert.Equal(t, 1, tx.calls)

	err := svc.DeleteOrganization(ctx, member(7, 1), 1)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}
