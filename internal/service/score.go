package service

import (
	"context"
	"fmt"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/policy"
	"himpunan-backend/internal/repository"
)

// scoreLedger is the only writer of users.score. Every change is paired with
// a score_transactions row so the score stays the sum of its deltas. Callers
// must run it inside a transaction.
type scoreLedger struct {
	userRepo  repository.UserRepository
	scoreRepo repository.ScoreRepository
}

func (l scoreLedger) adjust(ctx context.Context, userID, delta int32, typ domain.ScoreTransactionType, reason string, taskID, createdBy *int32) (int32, error) {
	score, err := l.userRepo.AdjustScore(ctx, userID, delta)
	if err != nil {
		return 0, err
	}
	tx := &domain.ScoreTransaction{
		UserID:        userID,
		Amount:        delta,
		Type:          typ,
		RelatedTaskID: taskID,
		CreatedByID:   createdBy,
		Reason:        reason,
	}
	if err := l.scoreRepo.CreateTransaction(ctx, tx); err != nil {
		return 0, err
	}
	logger.Info("Score adjusted", "userID", userID, "delta", delta, "type", typ, "score", score)
	return score, nil
}

type scoreService struct {
	tx       repository.Transactor
	userRepo repository.UserRepository
	ledger   scoreLedger
	scores   repository.ScoreRepository
	notifier notifier
}

func NewScoreService(
	tx repository.Transactor,
	userRepo repository.UserRepository,
	scoreRepo repository.ScoreRepository,
	noteRepo repository.NotificationRepository,
) ScoreService {
	return &scoreService{
		tx:       tx,
		userRepo: userRepo,
		ledger:   scoreLedger{userRepo: userRepo, scoreRepo: scoreRepo},
		scores:   scoreRepo,
		notifier: notifier{noteRepo: noteRepo},
	}
}

// SetScore overrides a user's score. It is recorded as an adjustment of the
// difference so the ledger keeps adding up.
func (s *scoreService) SetScore(ctx context.Context, actor domain.Actor, userID, score int32, reason string) (*domain.User, error) {
	logger.EnterMethod("scoreService.SetScore", "actorID", actor.UserID, "userID", userID, "score", score)
	if score < 0 {
		return nil, apperror.Validation("score cannot be negative")
	}

	var target *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := authorize(actor, policy.AdjustScore, memberResource(u)); err != nil {
			return err
		}

		delta := score - u.Score
		if delta != 0 {
			if reason == "" {
				reason = "Score set by administrator"
			}
			createdBy := actor.UserID
			if u.Score, err = s.ledger.adjust(ctx, u.ID, delta, domain.ScoreAdminAdjustment, reason, nil, &createdBy); err != nil {
				return err
			}
		}
		target = u
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("scoreService.SetScore", err, "userID", userID)
		return nil, err
	}

	s.notifier.send(ctx, &domain.Notification{
		UserID:         target.ID,
		SenderID:       &actor.UserID,
		OrganizationID: target.OrganizationID,
		Title:          "Score Updated",
		Content:        fmt.Sprintf("Your score is now %d", target.Score),
		Type:           domain.NotificationScore,
	})
	logger.ExitMethod("scoreService.SetScore", "userID", userID, "score", target.Score)
	return target, nil
}

func (s *scoreService) GetScoreHistory(ctx context.Context, actor domain.Actor, userID int32, page, pageSize int32) ([]domain.ScoreTransaction, int32, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if err := authorize(actor, policy.ViewUser, memberResource(u)); err != nil {
		return nil, 0, err
	}
	page, pageSize = domain.NormalizePage(page, pageSize)
	return s.scores.ListByUser(ctx, userID, page, pageSize)
}
