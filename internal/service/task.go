package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/policy"
	"himpunan-backend/internal/repository"
)

type taskService struct {
	tx       repository.Transactor
	taskRepo repository.TaskRepository
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
	ledger   scoreLedger
	notifier notifier
	now      clock
}

func NewTaskService(
	tx repository.Transactor,
	taskRepo repository.TaskRepository,
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	scoreRepo repository.ScoreRepository,
	noteRepo repository.NotificationRepository,
) TaskService {
	return &taskService{
		tx:       tx,
		taskRepo: taskRepo,
		orgRepo:  orgRepo,
		userRepo: userRepo,
		ledger:   scoreLedger{userRepo: userRepo, scoreRepo: scoreRepo},
		notifier: notifier{noteRepo: noteRepo},
		now:      time.Now,
	}
}

func (s *taskService) CreateTask(ctx context.Context, actor domain.Actor, in CreateTaskInput) (*domain.Task, error) {
	logger.EnterMethod("taskService.CreateTask", "actorID", actor.UserID, "orgID", in.OrganizationID)

	if strings.TrimSpace(in.Title) == "" {
		return nil, apperror.Validation("title is required")
	}
	if in.ScoreReward < 0 {
		return nil, apperror.Validation("score reward cannot be negative")
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, apperror.Validation("invalid task priority")
	}
	if in.MaxAssignees < 1 {
		in.MaxAssignees = 1
	}

	now := s.now()
	creator := actor.UserID
	task := &domain.Task{
		OrganizationID:   in.OrganizationID,
		Title:            in.Title,
		Description:      in.Description,
		Status:           domain.TaskAvailable,
		Priority:         in.Priority,
		CreatedByID:      &creator,
		ScoreReward:      in.ScoreReward,
		MaxAssignees:     in.MaxAssignees,
		RequiresApproval: in.RequiresApproval,
		ApprovalStatus:   domain.ApprovalNone,
		Category:         in.Category,
		Tags:             in.Tags,
		DueDate:          in.DueDate,
		StartDate:        in.StartDate,
	}
	// A pre-assigned task starts out claimed by its assignee.
	if in.AssignedToID != nil {
		id := *in.AssignedToID
		task.AssignedToID = &id
		task.Status = domain.TaskClaimed
		task.CurrentAssignees = 1
		task.ClaimedAt = &now
	}
	task.ProgressPercentage = domain.ProgressFor(task.Status, 0)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.orgRepo.GetByID(ctx, in.OrganizationID); err != nil {
			return err
		}
		if err := authorize(actor, policy.CreateTask, policy.OrgResource(in.OrganizationID)); err != nil {
			return err
		}
		if task.AssignedToID != nil {
			if _, err := s.userRepo.GetByID(ctx, *task.AssignedToID); err != nil {
				return err
			}
		}
		if err := s.taskRepo.Create(ctx, task); err != nil {
			return err
		}
		return s.orgRepo.RecomputeCounters(ctx, in.OrganizationID)
	})
	if err != nil {
		logger.ExitMethodWithError("taskService.CreateTask", err, "orgID", in.OrganizationID)
		return nil, err
	}

	if task.AssignedToID != nil {
		s.notifyAssigned(ctx, task, *task.AssignedToID, actor.UserID)
	}
	logger.ExitMethod("taskService.CreateTask", "taskID", task.ID, "status", task.Status)
	return task, nil
}

func (s *taskService) GetTask(ctx context.Context, actor domain.Actor, id int32) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ViewTask, policy.OrgResource(task.OrganizationID)); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, actor domain.Actor, orgID int32, status domain.TaskStatus, page, pageSize int32) ([]domain.Task, int32, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperror.Validation("invalid task status")
	}
	if err := authorize(actor, policy.ViewTask, policy.OrgResource(orgID)); err != nil {
		return nil, 0, err
	}
	page, pageSize = domain.NormalizePage(page, pageSize)
	return s.taskRepo.ListByOrganization(ctx, orgID, status, page, pageSize)
}

func (s *taskService) ListMyTasks(ctx context.Context, actor domain.Actor) ([]domain.Task, error) {
	return s.taskRepo.ListByAssignee(ctx, actor.UserID)
}

// ClaimTask adds the caller as an assignee. The row lock serializes
// concurrent claims and the store re-checks status and capacity.
func (s *taskService) ClaimTask(ctx context.Context, actor domain.Actor, id int32) (*domain.Task, error) {
	logger.EnterMethod("taskService.ClaimTask", "userID", actor.UserID, "taskID", id)

	var claimed *domain.Task
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		task, err := s.taskRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, policy.ClaimTask, policy.OrgResource(task.OrganizationID)); err != nil {
			return err
		}
		if err := task.CheckClaim(actor.UserID); err != nil {
			return err
		}
		claimed, err = s.taskRepo.AddAssignee(ctx, id, actor.UserID, s.now())
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("taskService.ClaimTask", err, "taskID", id, "userID", actor.UserID)
		return nil, err
	}

	logger.Info("Task claimed", "taskID", id, "userID", actor.UserID, "assignees", claimed.CurrentAssignees)
	logger.ExitMethod("taskService.ClaimTask", "taskID", id)
	return claimed, nil
}

// UpdateTask applies in and credits the reward when the task enters completed
// for the first time.
func (s *taskService) UpdateTask(ctx context.Context, actor domain.Actor, id int32, in domain.TaskUpdate) (*domain.Task, error) {
	logger.EnterMethod("taskService.UpdateTask", "actorID", actor.UserID, "taskID", id)

	var (
		task     *domain.Task
		credited []int32
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.taskRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, policy.UpdateTask, policy.TaskResource(task)); err != nil {
			return err
		}

		wasCompleted := task.Status == domain.TaskCompleted
		hadAssignees := task.HasAssignees()
		previousAssignee := task.AssignedToID

		if in.AssignedToID != nil {
			if _, err := s.userRepo.GetByID(ctx, *in.AssignedToID); err != nil {
				return err
			}
		}
		if err := task.Apply(in, s.now()); err != nil {
			return err
		}
		if err := s.taskRepo.Update(ctx, task); err != nil {
			return err
		}

		if task.Status == domain.TaskAvailable && hadAssignees {
			if err := s.taskRepo.ClearAssignees(ctx, task.ID); err != nil {
				return err
			}
			logger.Info("Task released", "taskID", task.ID, "by", actor.UserID)
		}

		if in.AssignedToID != nil && (previousAssignee == nil || *previousAssignee != *in.AssignedToID) {
			if err := s.taskRepo.ReplaceAssignee(ctx, task.ID, *in.AssignedToID); err != nil {
				return err
			}
			task.Assignees = []int32{*in.AssignedToID}
			task.CurrentAssignees = 1
		}

		if !wasCompleted && task.CreditDue() {
			credited, err = s.credit(ctx, task)
			return err
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("taskService.UpdateTask", err, "taskID", id)
		return nil, err
	}

	s.notifyCredited(ctx, task, credited)
	logger.ExitMethod("taskService.UpdateTask", "taskID", id, "status", task.Status)
	return task, nil
}

func (s *taskService) CompleteTask(ctx context.Context, actor domain.Actor, id int32) (*domain.Task, error) {
	status := domain.TaskCompleted
	return s.UpdateTask(ctx, actor, id, domain.TaskUpdate{Status: &status})
}

// ApproveTask settles the approval gate of a completed task. Approval credits
// the reward; rejection leaves the task completed and uncredited.
func (s *taskService) ApproveTask(ctx context.Context, actor domain.Actor, id int32, approve bool) (*domain.Task, error) {
	logger.EnterMethod("taskService.ApproveTask", "actorID", actor.UserID, "taskID", id, "approve", approve)

	var (
		task     *domain.Task
		credited []int32
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.taskRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, policy.ApproveTask, policy.OrgResource(task.OrganizationID)); err != nil {
			return err
		}
		if !task.RequiresApproval {
			return apperror.Validation("task does not require approval")
		}
		if task.Status != domain.TaskCompleted || task.ApprovalStatus != domain.ApprovalPending {
			return apperror.Conflict("task is not awaiting approval")
		}

		if approve {
			task.ApprovalStatus = domain.ApprovalApproved
		} else {
			task.ApprovalStatus = domain.ApprovalRejected
		}
		if err := s.taskRepo.Update(ctx, task); err != nil {
			return err
		}
		if task.CreditDue() {
			credited, err = s.credit(ctx, task)
			return err
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("taskService.ApproveTask", err, "taskID", id)
		return nil, err
	}

	s.notifyCredited(ctx, task, credited)
	logger.ExitMethod("taskService.ApproveTask", "taskID", id, "approvalStatus", task.ApprovalStatus)
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, actor domain.Actor, id int32) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		task, err := s.taskRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, policy.DeleteTask, policy.TaskResource(task)); err != nil {
			return err
		}
		if err := s.taskRepo.Delete(ctx, id); err != nil {
			return err
		}
		logger.Info("Task deleted", "taskID", id, "by", actor.UserID)
		return s.orgRepo.RecomputeCounters(ctx, task.OrganizationID)
	})
}

// credit pays the reward to every recipient. The score_credited_at stamp is
// claimed first, so a task that was already paid credits nobody.
func (s *taskService) credit(ctx context.Context, task *domain.Task) ([]int32, error) {
	now := s.now()
	first, err := s.taskRepo.MarkScoreCredited(ctx, task.ID, now)
	if err != nil {
		return nil, err
	}
	if !first {
		logger.Warn("Task reward already credited", "taskID", task.ID)
		return nil, nil
	}
	task.ScoreCreditedAt = &now

	recipients := task.Recipients()
	if task.ScoreReward == 0 {
		return nil, nil
	}
	reason := fmt.Sprintf("Task completed: %s", task.Title)
	for _, userID := range recipients {
		if _, err := s.ledger.adjust(ctx, userID, task.ScoreReward, domain.ScoreTaskReward, reason, &task.ID, nil); err != nil {
			return nil, err
		}
	}
	logger.Info("Task reward credited", "taskID", task.ID, "reward", task.ScoreReward, "recipients", recipients)
	return recipients, nil
}

func (s *taskService) notifyAssigned(ctx context.Context, task *domain.Task, userID, senderID int32) {
	orgID := task.OrganizationID
	s.notifier.send(ctx, &domain.Notification{
		UserID:         userID,
		SenderID:       &senderID,
		OrganizationID: &orgID,
		Title:          "Task Assigned",
		Content:        fmt.Sprintf("You have been assigned to %q", task.Title),
		Type:           domain.NotificationTask,
		Attributes:     map[string]string{"task_id": fmt.Sprintf("%d", task.ID)},
	})
}

func (s *taskService) notifyCredited(ctx context.Context, task *domain.Task, recipients []int32) {
	orgID := task.OrganizationID
	for _, userID := range recipients {
		s.notifier.send(ctx, &domain.Notification{
			UserID:         userID,
			OrganizationID: &orgID,
			Title:          "Task Reward",
			Content:        fmt.Sprintf("You earned %d points for completing %q", task.ScoreReward, task.Title),
			Type:           domain.NotificationScore,
			Attributes:     map[string]string{"task_id": fmt.Sprintf("%d", task.ID)},
		})
	}
}
