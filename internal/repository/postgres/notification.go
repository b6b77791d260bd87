package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.EnterMethod("notificationRepository.Create", "userID", n.UserID, "title", n.Title)

	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "reason", "failed to marshal attributes")
		return apperror.Wrap(err, "failed to encode notification attributes")
	}

	query := `INSERT INTO notifications (user_id, sender_id, organization_id, title, content, type, priority, is_read, attributes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	logger.DatabaseCall("INSERT", "notifications", "userID", n.UserID)

	n.CreatedOn = time.Now()
	if n.Priority == "" {
		n.Priority = "normal"
	}
	err = conn(ctx, r.db).QueryRowContext(ctx, query, n.UserID, n.SenderID, n.OrganizationID, n.Title, n.Content, n.Type,
		n.Priority, n.IsRead, attrs, n.CreatedOn).Scan(&n.ID)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)

	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "userID", n.UserID)
		return translate(err, "notification")
	}
	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	db := conn(ctx, r.db)
	query := `SELECT id, user_id, sender_id, organization_id, title, content, COALESCE(type, ''), priority, is_read, attributes, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, translate(err, "notification")
	}
	defer rows.Close()

	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE user_id = $1`
	if err := db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, translate(err, "notification")
	}

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		var senderID, orgID sql.NullInt32
		if err := rows.Scan(&n.ID, &n.UserID, &senderID, &orgID, &n.Title, &n.Content, &n.Type, &n.Priority, &n.IsRead, &attrs, &n.CreatedOn); err != nil {
			return nil, 0, translate(err, "notification")
		}
		n.SenderID = int32Ptr(senderID)
		n.OrganizationID = int32Ptr(orgID)
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, apperror.Wrap(err, "failed to decode notification attributes")
			}
		}
		notes = append(notes, n)
	}
	return notes, count, translate(rows.Err(), "notification")
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int32) (int32, error) {
	var count int32
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&count)
	return count, translate(err, "notification")
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, userID)
	if err != nil {
		return translate(err, "notification")
	}
	return requireRows(result, "notification")
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID int32) (int64, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, translate(err, "notification")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, apperror.Wrap(err, "database error")
	}
	return n, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID int32) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err, "notification")
	}
	return requireRows(result, "notification")
}
