package service

import (
	"context"
	"strings"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/policy"
	"himpunan-backend/internal/repository"
)

type userService struct {
	tx       repository.Transactor
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	taskRepo repository.TaskRepository
}

func NewUserService(
	tx repository.Transactor,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	taskRepo repository.TaskRepository,
) UserService {
	return &userService{tx: tx, userRepo: userRepo, orgRepo: orgRepo, taskRepo: taskRepo}
}

func (s *userService) GetUser(ctx context.Context, actor domain.Actor, userID int32) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ViewUser, memberResource(u)); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor domain.Actor, in ProfileUpdate) (*domain.User, error) {
	logger.EnterMethod("userService.UpdateProfile", "userID", actor.UserID)

	u, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		if strings.TrimSpace(*in.FullName) == "" {
			return nil, apperror.Validation("full name is required")
		}
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Username != nil {
		u.Username = strings.TrimSpace(*in.Username)
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		logger.ExitMethodWithError("userService.UpdateProfile", err, "userID", actor.UserID)
		return nil, err
	}
	logger.ExitMethod("userService.UpdateProfile", "userID", actor.UserID)
	return u, nil
}

// DeleteUser removes an account. Its claims on open tasks are given back
// first, and every organization it touched gets its counters refreshed.
// Tasks it created stay with their organization.
func (s *userService) DeleteUser(ctx context.Context, actor domain.Actor, userID int32) error {
	logger.EnterMethod("userService.DeleteUser", "actorID", actor.UserID, "userID", userID)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := authorize(actor, policy.DeleteUser, memberResource(u)); err != nil {
			return err
		}
		if u.ID == actor.UserID {
			return apperror.Conflict("you cannot delete your own account")
		}

		orgIDs, err := s.taskRepo.ReleaseUser(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.userRepo.Delete(ctx, userID); err != nil {
			return err
		}
		if u.OrganizationID != nil {
			orgIDs = append(orgIDs, *u.OrganizationID)
		}
		return s.recompute(ctx, orgIDs)
	})
	if err != nil {
		logger.ExitMethodWithError("userService.DeleteUser", err, "userID", userID)
		return err
	}
	logger.Info("User deleted", "userID", userID, "by", actor.UserID)
	logger.ExitMethod("userService.DeleteUser", "userID", userID)
	return nil
}

func (s *userService) recompute(ctx context.Context, orgIDs []int32) error {
	done := make(map[int32]bool, len(orgIDs))
	for _, id := range orgIDs {
		if done[id] {
			continue
		}
		done[id] = true
		if err := s.orgRepo.RecomputeCounters(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *userService) ListUsers(ctx context.Context, actor domain.Actor, filter domain.UserFilter, page, pageSize int32) ([]domain.User, int32, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, 0, apperror.Validation("invalid role")
	}
	if err := authorize(actor, policy.ManageAccounts, policy.Resource{}); err != nil {
		return nil, 0, err
	}
	filter.Search = strings.TrimSpace(filter.Search)
	page, pageSize = domain.NormalizePage(page, pageSize)
	return s.userRepo.List(ctx, filter, page, pageSize)
}

// CreateAdmin registers an account with the admin role. The new admin has no
// organization until they create one or are made an organization's admin.
func (s *userService) CreateAdmin(ctx context.Context, actor domain.Actor, in RegisterInput) (*domain.User, error) {
	logger.EnterMethod("userService.CreateAdmin", "actorID", actor.UserID, "email", in.Email)

	if err := authorize(actor, policy.ManageAccounts, policy.Resource{}); err != nil {
		return nil, err
	}
	user, err := newAccount(in, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("userService.CreateAdmin", err, "email", user.Email)
		return nil, err
	}

	logger.Info("Admin created", "userID", user.ID, "by", actor.UserID)
	logger.ExitMethod("userService.CreateAdmin", "userID", user.ID)
	return user, nil
}

// UpdateUser edits any account, including its role and active flag.
// Callers cannot demote or disable themselves.
func (s *userService) UpdateUser(ctx context.Context, actor domain.Actor, userID int32, in AccountUpdate) (*domain.User, error) {
	logger.EnterMethod("userService.UpdateUser", "actorID", actor.UserID, "userID", userID)

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ManageAccounts, memberResource(u)); err != nil {
		return nil, err
	}

	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperror.Validation("invalid role")
		}
		if u.ID == actor.UserID && *in.Role != u.Role {
			return nil, apperror.Conflict("you cannot change your own role")
		}
		u.Role = *in.Role
	}
	if in.IsActive != nil {
		if u.ID == actor.UserID && !*in.IsActive {
			return nil, apperror.Conflict("you cannot deactivate your own account")
		}
		u.IsActive = *in.IsActive
	}
	if in.FullName != nil {
		if strings.TrimSpace(*in.FullName) == "" {
			return nil, apperror.Validation("full name is required")
		}
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return nil, apperror.Validation("email is required")
		}
		u.Email = email
	}
	if in.Username != nil {
		u.Username = strings.TrimSpace(*in.Username)
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		logger.ExitMethodWithError("userService.UpdateUser", err, "userID", userID)
		return nil, err
	}
	logger.Info("Account updated", "userID", userID, "by", actor.UserID, "role", u.Role, "active", u.IsActive)
	logger.ExitMethod("userService.UpdateUser", "userID", userID)
	return u, nil
}

func (s *userService) SetActive(ctx context.Context, actor domain.Actor, userID int32, active bool) (*domain.User, error) {
	return s.UpdateUser(ctx, actor, userID, AccountUpdate{IsActive: &active})
}
