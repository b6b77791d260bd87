package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// conn returns the transaction bound to ctx, or db when there is none.
func conn(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.OrganizationRepository
	repository.ActivityRepository
	repository.AttendanceRepository
	repository.TaskRepository
	repository.ScoreRepository
	repository.NotificationRepository
}

// PoolOptions bounds the connection pool.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to PostgreSQL and verifies the connection before returning.
func Open(ctx context.Context, dsn string, opts PoolOptions) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		OrganizationRepository: NewOrganizationRepository(db),
		ActivityRepository:     NewActivityRepository(db),
		AttendanceRepository:   NewAttendanceRepository(db),
		TaskRepository:         NewTaskRepository(db),
		ScoreRepository:        NewScoreRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// WithinTx runs fn inside a transaction. A nested call joins the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit transaction", "error", err)
		return apperror.Wrap(err, "failed to commit transaction")
	}
	return nil
}

var constraintMessages = map[string]string{
	"users_email_key":                     "email is already registered",
	"users_username_key":                  "username is already taken",
	"users_score_check":                   "score cannot be negative",
	"organizations_name_key":              "organization name is already taken",
	"activities_qr_code_key":              "qr code is already in use",
	"attendances_activity_id_user_id_key": "already attended this activity",
	"task_assignees_pkey":                 "you have already claimed this task",
}

// translate maps driver errors onto the application error kinds. entity names
// the row being looked up for not-found messages.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NotFound(entity + " not found")
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		msg, ok := constraintMessages[pqErr.Constraint]
		switch pqErr.Code {
		case "23505": // unique_violation
			if !ok {
				msg = entity + " already exists"
			}
			return &apperror.Error{Kind: apperror.KindConflict, Message: msg, Err: err}
		case "23503": // foreign_key_violation
			return &apperror.Error{Kind: apperror.KindNotFound, Message: "referenced record not found", Err: err}
		case "23514": // check_violation
			if !ok {
				msg = "invalid " + entity
			}
			return &apperror.Error{Kind: apperror.KindValidation, Message: msg, Err: err}
		}
	}
	return apperror.Wrap(err, "database error")
}

// requireRows turns a zero-row write into a not-found error.
func requireRows(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, "database error")
	}
	if n == 0 {
		return apperror.NotFound(entity + " not found")
	}
	return nil
}

func int32Ptr(v sql.NullInt32) *int32 {
	if !v.Valid {
		return nil
	}
	i := v.Int32
	return &i
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
