package service

import (
	"context"
	"fmt"
	"time"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/policy"
	"himpunan-backend/internal/repository"
)

type membershipService struct {
	tx       repository.Transactor
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	notifier notifier
	now      clock
}

func NewMembershipService(
	tx repository.Transactor,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	noteRepo repository.NotificationRepository,
) MembershipService {
	return &membershipService{
		tx:       tx,
		userRepo: userRepo,
		orgRepo:  orgRepo,
		notifier: notifier{noteRepo: noteRepo},
		now:      time.Now,
	}
}

// JoinOrganization files a pending membership for the caller. The store
// rejects the join when the user is already affiliated, even under a race.
func (s *membershipService) JoinOrganization(ctx context.Context, actor domain.Actor, orgID int32) (*domain.User, error) {
	logger.EnterMethod("membershipService.JoinOrganization", "userID", actor.UserID, "orgID", orgID)

	if actor.OrganizationID != nil {
		return nil, apperror.Conflict("you are already a member of an organization")
	}

	var (
		user *domain.User
		org  *domain.Organization
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if org, err = s.orgRepo.GetByID(ctx, orgID); err != nil {
			return err
		}
		if err := s.userRepo.JoinOrganization(ctx, actor.UserID, orgID, domain.MembershipPending, s.now()); err != nil {
			return err
		}
		if err := s.orgRepo.RecomputeCounters(ctx, orgID); err != nil {
			return err
		}
		user, err = s.userRepo.GetByID(ctx, actor.UserID)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("membershipService.JoinOrganization", err, "userID", actor.UserID, "orgID", orgID)
		return nil, err
	}

	if org.AdminID != nil {
		s.notifier.send(ctx, &domain.Notification{
			UserID:         *org.AdminID,
			SenderID:       &user.ID,
			OrganizationID: &org.ID,
			Title:          "New Join Request",
			Content:        fmt.Sprintf("%s requested to join %s", user.FullName, org.Name),
			Type:           domain.NotificationMembership,
			Attributes:     map[string]string{"user_id": fmt.Sprintf("%d", user.ID)},
		})
	}
	logger.Info("Member joined", "userID", user.ID, "orgID", orgID, "status", user.MembershipStatus)
	logger.ExitMethod("membershipService.JoinOrganization", "userID", user.ID)
	return user, nil
}

func (s *membershipService) UpdateMembershipStatus(ctx context.Context, actor domain.Actor, userID int32, status domain.MembershipStatus) (*domain.User, error) {
	logger.EnterMethod("membershipService.UpdateMembershipStatus", "actorID", actor.UserID, "userID", userID, "status", status)

	if !status.Valid() {
		return nil, apperror.Validation("invalid membership status")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Affiliated() {
		return nil, apperror.Validation("user is not a member of any organization")
	}
	if err := authorize(actor, policy.ManageMembership, memberResource(user)); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateMembershipStatus(ctx, userID, status); err != nil {
		logger.ExitMethodWithError("membershipService.UpdateMembershipStatus", err, "userID", userID)
		return nil, err
	}
	user.MembershipStatus = status

	s.notifier.send(ctx, &domain.Notification{
		UserID:         user.ID,
		SenderID:       &actor.UserID,
		OrganizationID: user.OrganizationID,
		Title:          "Membership Updated",
		Content:        fmt.Sprintf("Your membership status is now %s", status),
		Type:           domain.NotificationMembership,
	})
	logger.ExitMethod("membershipService.UpdateMembershipStatus", "userID", userID, "status", status)
	return user, nil
}

func (s *membershipService) LeaveOrganization(ctx context.Context, actor domain.Actor) error {
	logger.EnterMethod("membershipService.LeaveOrganization", "userID", actor.UserID)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		orgID, err := s.userRepo.Detach(ctx, actor.UserID)
		if err != nil {
			return err
		}
		logger.Info("Member left", "userID", actor.UserID, "orgID", orgID)
		return s.orgRepo.RecomputeCounters(ctx, orgID)
	})
	if err != nil {
		logger.ExitMethodWithError("membershipService.LeaveOrganization", err, "userID", actor.UserID)
		return err
	}
	logger.ExitMethod("membershipService.LeaveOrganization", "userID", actor.UserID)
	return nil
}

func (s *membershipService) RemoveMember(ctx context.Context, actor domain.Actor, userID int32) error {
	logger.EnterMethod("membershipService.RemoveMember", "actorID", actor.UserID, "userID", userID)

	if userID == actor.UserID {
		return apperror.Validation("use leave to exit your own organization")
	}

	var orgID int32
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if !user.Affiliated() {
			return apperror.NotFound("user is not a member of any organization")
		}
		if err := authorize(actor, policy.ManageMembership, memberResource(user)); err != nil {
			return err
		}
		if orgID, err = s.userRepo.Detach(ctx, userID); err != nil {
			return err
		}
		return s.orgRepo.RecomputeCounters(ctx, orgID)
	})
	if err != nil {
		logger.ExitMethodWithError("membershipService.RemoveMember", err, "userID", userID)
		return err
	}

	s.notifier.send(ctx, &domain.Notification{
		UserID:   userID,
		SenderID: &actor.UserID,
		Title:    "Removed from Organization",
		Content:  "You have been removed from your organization",
		Type:     domain.NotificationMembership,
	})
	logger.Info("Member removed", "userID", userID, "orgID", orgID, "by", actor.UserID)
	logger.ExitMethod("membershipService.RemoveMember", "userID", userID)
	return nil
}

// ChangeOrgAdmin hands the organization's single admin slot to another member.
func (s *membershipService) ChangeOrgAdmin(ctx context.Context, actor domain.Actor, orgID, newAdminID int32) (*domain.Organization, error) {
	logger.EnterMethod("membershipService.ChangeOrgAdmin", "actorID", actor.UserID, "orgID", orgID, "newAdminID", newAdminID)

	var org *domain.Organization
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if org, err = s.orgRepo.GetByID(ctx, orgID); err != nil {
			return err
		}
		if err := authorize(actor, policy.ChangeOrgAdmin, policy.OrgResource(orgID)); err != nil {
			return err
		}
		newAdmin, err := s.userRepo.GetByID(ctx, newAdminID)
		if err != nil {
			return err
		}
		if newAdmin.OrganizationID == nil || *newAdmin.OrganizationID != orgID {
			return apperror.NotFound("new admin user not found in this organization")
		}
		if err := s.orgRepo.SetAdmin(ctx, orgID, &newAdminID); err != nil {
			return err
		}
		org.AdminID = &newAdminID
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("membershipService.ChangeOrgAdmin", err, "orgID", orgID)
		return nil, err
	}

	s.notifier.send(ctx, &domain.Notification{
		UserID:         newAdminID,
		SenderID:       &actor.UserID,
		OrganizationID: &org.ID,
		Title:          "Organization Admin",
		Content:        fmt.Sprintf("You are now the admin of %s", org.Name),
		Type:           domain.NotificationMembership,
	})
	logger.Info("Organization admin changed", "orgID", orgID, "newAdminID", newAdminID, "by", actor.UserID)
	logger.ExitMethod("membershipService.ChangeOrgAdmin", "orgID", orgID)
	return org, nil
}

func (s *membershipService) GetMyMembership(ctx context.Context, actor domain.Actor) (*Membership, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	m := &Membership{User: user}
	if user.OrganizationID != nil {
		if m.Organization, err = s.orgRepo.GetByID(ctx, *user.OrganizationID); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (s *membershipService) ListMembers(ctx context.Context, actor domain.Actor, orgID int32, status domain.MembershipStatus, page, pageSize int32) ([]domain.User, int32, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperror.Validation("invalid membership status")
	}
	if err := authorize(actor, policy.ListMembers, policy.OrgResource(orgID)); err != nil {
		return nil, 0, err
	}
	page, pageSize = domain.NormalizePage(page, pageSize)
	return s.userRepo.ListByOrganization(ctx, orgID, status, page, pageSize)
}

// ListJoinRequests lists members still awaiting approval.
func (s *membershipService) ListJoinRequests(ctx context.Context, actor domain.Actor, orgID int32, page, pageSize int32) ([]domain.User, int32, error) {
	return s.ListMembers(ctx, actor, orgID, domain.MembershipPending, page, pageSize)
}
