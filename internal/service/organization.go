package service

import (
	"context"
	"strings"
	"time"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/policy"
	"himpunan-backend/internal/repository"
)

type organizationService struct {
	tx       repository.Transactor
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
	now      clock
}

func NewOrganizationService(
	tx repository.Transactor,
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
) OrganizationService {
	return &organizationService{
		tx:       tx,
		orgRepo:  orgRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// CreateOrganization registers a new organization. An admin creator becomes
// its admin; a super admin may name one with adminID. The admin is affiliated
// as an active member in the same transaction.
func (s *organizationService) CreateOrganization(ctx context.Context, actor domain.Actor, org *domain.Organization, adminID *int32) (*domain.Organization, error) {
	logger.EnterMethod("organizationService.CreateOrganization", "actorID", actor.UserID, "name", org.Name)

	if strings.TrimSpace(org.Name) == "" {
		return nil, apperror.Validation("organization name is required")
	}
	if err := authorize(actor, policy.CreateOrganization, policy.Resource{}); err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() {
		self := actor.UserID
		adminID = &self
	}
	if org.Status == "" {
		org.Status = domain.OrganizationActive
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if adminID != nil {
			admin, err := s.userRepo.GetByID(ctx, *adminID)
			if err != nil {
				return err
			}
			if admin.Affiliated() {
				return apperror.Conflict("user is already a member of an organization")
			}
		}

		org.AdminID = adminID
		if err := s.orgRepo.Create(ctx, org); err != nil {
			return err
		}
		if adminID == nil {
			return nil
		}
		if err := s.userRepo.JoinOrganization(ctx, *adminID, org.ID, domain.MembershipActive, s.now()); err != nil {
			return err
		}
		if err := s.orgRepo.RecomputeCounters(ctx, org.ID); err != nil {
			return err
		}
		org.TotalMembers = 1
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("organizationService.CreateOrganization", err, "name", org.Name)
		return nil, err
	}

	logger.Info("Organization created", "orgID", org.ID, "name", org.Name, "adminID", org.AdminID)
	logger.ExitMethod("organizationService.CreateOrganization", "orgID", org.ID)
	return org, nil
}

func (s *organizationService) GetOrganization(ctx context.Context, id int32) (*domain.Organization, error) {
	return s.orgRepo.GetByID(ctx, id)
}

func (s *organizationService) ListOrganizations(ctx context.Context, page, pageSize int32) ([]domain.Organization, int32, error) {
	page, pageSize = domain.NormalizePage(page, pageSize)
	return s.orgRepo.List(ctx, page, pageSize)
}

func (s *organizationService) UpdateOrganization(ctx context.Context, actor domain.Actor, id int32, in OrganizationUpdate) (*domain.Organization, error) {
	logger.EnterMethod("organizationService.UpdateOrganization", "actorID", actor.UserID, "orgID", id)

	if err := authorize(actor, policy.ManageOrganization, policy.OrgResource(id)); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperror.Validation("organization name is required")
		}
		org.Name = *in.Name
	}
	if in.Aka != nil {
		org.Aka = *in.Aka
	}
	if in.Description != nil {
		org.Description = *in.Description
	}
	if in.ContactEmail != nil {
		org.ContactEmail = *in.ContactEmail
	}
	if in.ContactPhone != nil {
		org.ContactPhone = *in.ContactPhone
	}
	if in.Address != nil {
		org.Address = *in.Address
	}
	if in.Status != nil {
		switch *in.Status {
		case domain.OrganizationActive, domain.OrganizationInactive, domain.OrganizationSuspended:
			org.Status = *in.Status
		default:
			return nil, apperror.Validation("invalid organization status")
		}
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		logger.ExitMethodWithError("organizationService.UpdateOrganization", err, "orgID", id)
		return nil, err
	}
	logger.ExitMethod("organizationService.UpdateOrganization", "orgID", id)
	return org, nil
}

// DeleteOrganization removes the organization with its activities and tasks.
// Members are detached rather than deleted.
func (s *organizationService) DeleteOrganization(ctx context.Context, actor domain.Actor, id int32) error {
	logger.EnterMethod("organizationService.DeleteOrganization", "actorID", actor.UserID, "orgID", id)

	if err := authorize(actor, policy.DeleteOrganization, policy.OrgResource(id)); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.orgRepo.Delete(ctx, id)
	})
	if err != nil {
		logger.ExitMethodWithError("organizationService.DeleteOrganization", err, "orgID", id)
		return err
	}
	logger.Info("Organization deleted", "orgID", id, "by", actor.UserID)
	logger.ExitMethod("organizationService.DeleteOrganization", "orgID", id)
	return nil
}
