package postgres

import (
	"context"
	"database/sql"
	"time"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/repository"
)

type attendanceRepository struct {
	db *sql.DB
}

func NewAttendanceRepository(db *sql.DB) repository.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id, activity_id, user_id, check_in_time, check_out_time, status, COALESCE(location, ''),
	COALESCE(notes, ''), duration, created_on, updated_on`

func scanAttendance(row rowScanner) (*domain.Attendance, error) {
	a := &domain.Attendance{}
	var checkOut sql.NullTime
	var duration sql.NullInt32
	err := row.Scan(&a.ID, &a.ActivityID, &a.UserID, &a.CheckInTime, &checkOut, &a.Status, &a.Location,
		&a.Notes, &duration, &a.CreatedOn, &a.UpdatedOn)
	if err != nil {
		return nil, err
	}
	a.CheckOutTime = timePtr(checkOut)
	a.Duration = int32Ptr(duration)
	return a, nil
}

// Create inserts a check-in. The unique (activity_id, user_id) constraint
// turns a second check-in into a conflict.
func (r *attendanceRepository) Create(ctx context.Context, a *domain.Attendance) error {
	query := `INSERT INTO attendances (activity_id, user_id, check_in_time, status, location, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`
	now := time.Now()
	a.CreatedOn = now
	a.UpdatedOn = now
	logger.DatabaseCall("INSERT", "attendances", "activityID", a.ActivityID, "userID", a.UserID)
	err := conn(ctx, r.db).QueryRowContext(ctx, query, a.ActivityID, a.UserID, a.CheckInTime, a.Status, a.Location,
		a.Notes, now).Scan(&a.ID)
	logger.DatabaseResult("INSERT", 1, err, "attendanceID", a.ID)
	return translate(err, "attendance")
}

func (r *attendanceRepository) GetByID(ctx context.Context, id int32) (*domain.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`
	a, err := scanAttendance(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err, "attendance")
	}
	return a, nil
}

func (r *attendanceRepository) GetOpenForUpdate(ctx context.Context, activityID, userID int32) (*domain.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances
	          WHERE activity_id = $1 AND user_id = $2 AND check_out_time IS NULL
	          FOR UPDATE`
	a, err := scanAttendance(conn(ctx, r.db).QueryRowContext(ctx, query, activityID, userID))
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("no active attendance record found")
	}
	if err != nil {
		return nil, translate(err, "attendance")
	}
	return a, nil
}

// RecordCheckOut writes the check-out only if none was recorded yet, so a
// racing second check-out finds nothing to update.
func (r *attendanceRepository) RecordCheckOut(ctx context.Context, a *domain.Attendance) error {
	query := `UPDATE attendances SET check_out_time=$1, duration=$2, location=$3, updated_on=$4
	          WHERE id=$5 AND check_out_time IS NULL`
	a.UpdatedOn = time.Now()
	res, err := conn(ctx, r.db).ExecContext(ctx, query, a.CheckOutTime, a.Duration, a.Location, a.UpdatedOn, a.ID)
	if err != nil {
		return translate(err, "attendance")
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "attendanceID", a.ID)
	if err != nil {
		return apperror.Wrap(err, "database error")
	}
	if n == 0 {
		return apperror.NotFound("no active attendance record found")
	}
	return nil
}

func (r *attendanceRepository) ListByActivity(ctx context.Context, activityID int32, status domain.AttendanceStatus, page, pageSize int32) ([]domain.Attendance, int32, error) {
	db := conn(ctx, r.db)

	var count int32
	countQuery := `SELECT count(*) FROM attendances WHERE activity_id = $1 AND ($2 = '' OR status = $2)`
	if err := db.QueryRowContext(ctx, countQuery, activityID, status).Scan(&count); err != nil {
		return nil, 0, translate(err, "attendance")
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendances
	          WHERE activity_id = $1 AND ($2 = '' OR status = $2)
	          ORDER BY check_in_time LIMIT $3 OFFSET $4`
	rows, err := db.QueryContext(ctx, query, activityID, status, pageSize, domain.Offset(page, pageSize))
	if err != nil {
		return nil, 0, translate(err, "attendance")
	}
	defer rows.Close()
	return collectAttendances(rows, count)
}

// ListByUser returns the user's attendance history, optionally restricted to
// activities of one organization.
func (r *attendanceRepository) ListByUser(ctx context.Context, userID int32, orgID *int32, page, pageSize int32) ([]domain.Attendance, int32, error) {
	db := conn(ctx, r.db)

	filter := `FROM attendances a JOIN activities act ON act.id = a.activity_id
	           WHERE a.user_id = $1 AND ($2::int IS NULL OR act.organization_id = $2)`

	var count int32
	if err := db.QueryRowContext(ctx, `SELECT count(*) `+filter, userID, orgID).Scan(&count); err != nil {
		return nil, 0, translate(err, "attendance")
	}

	query := `SELECT a.id, a.activity_id, a.user_id, a.check_in_time, a.check_out_time, a.status, COALESCE(a.location, ''),
	          COALESCE(a.notes, ''), a.duration, a.created_on, a.updated_on ` + filter + `
	          ORDER BY a.check_in_time DESC LIMIT $3 OFFSET $4`
	rows, err := db.QueryContext(ctx, query, userID, orgID, pageSize, domain.Offset(page, pageSize))
	if err != nil {
		return nil, 0, translate(err, "attendance")
	}
	defer rows.Close()
	return collectAttendances(rows, count)
}

func collectAttendances(rows *sql.Rows, count int32) ([]domain.Attendance, int32, error) {
	var list []domain.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, translate(err, "attendance")
		}
		list = append(list, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate(err, "attendance")
	}
	return list, count, nil
}

func (r *attendanceRepository) Update(ctx context.Context, a *domain.Attendance) error {
	query := `UPDATE attendances SET status=$1, location=$2, notes=$3, updated_on=$4 WHERE id=$5`
	a.UpdatedOn = time.Now()
	res, err := conn(ctx, r.db).ExecContext(ctx, query, a.Status, a.Location, a.Notes, a.UpdatedOn, a.ID)
	if err != nil {
		return translate(err, "attendance")
	}
	return requireRows(res, "attendance")
}

func (r *attendanceRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "attendances", "attendanceID", id)
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return translate(err, "attendance")
	}
	return requireRows(res, "attendance")
}
