package postgres

import (
	"context"
	"database/sql"
	"time"

	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/repository"
)

type scoreRepository struct {
	db *sql.DB
}

func NewScoreRepository(db *sql.DB) repository.ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) CreateTransaction(ctx context.Context, tx *domain.ScoreTransaction) error {
	query := `INSERT INTO score_transactions (user_id, amount, type, related_task_id, created_by_id, reason, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	tx.CreatedOn = time.Now()
	err := conn(ctx, r.db).QueryRowContext(ctx, query, tx.UserID, tx.Amount, tx.Type, tx.RelatedTaskID, tx.CreatedByID,
		tx.Reason, tx.CreatedOn).Scan(&tx.ID)
	return translate(err, "score transaction")
}

func (r *scoreRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.ScoreTransaction, int32, error) {
	db := conn(ctx, r.db)

	var count int32
	countQuery := `SELECT count(*) FROM score_transactions WHERE user_id = $1`
	if err := db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, translate(err, "score transaction")
	}

	query := `SELECT id, user_id, amount, type, related_task_id, created_by_id, COALESCE(reason, ''), created_on
	          FROM score_transactions WHERE user_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := db.QueryContext(ctx, query, userID, pageSize, domain.Offset(page, pageSize))
	if err != nil {
		return nil, 0, translate(err, "score transaction")
	}
	defer rows.Close()

	var txs []domain.ScoreTransaction
	for rows.Next() {
		var tx domain.ScoreTransaction
		var taskID, createdBy sql.NullInt32
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &taskID, &createdBy, &tx.Reason, &tx.CreatedOn); err != nil {
			return nil, 0, translate(err, "score transaction")
		}
		tx.RelatedTaskID = int32Ptr(taskID)
		tx.CreatedByID = int32Ptr(createdBy)
		txs = append(txs, tx)
	}
	return txs, count, translate(rows.Err(), "score transaction")
}

// Sum totals the user's ledger. It matches users.score when the two are kept in step.
func (r *scoreRepository) Sum(ctx context.Context, userID int32) (int32, error) {
	var total int32
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM score_transactions WHERE user_id = $1`, userID).Scan(&total)
	return total, translate(err, "score transaction")
}
