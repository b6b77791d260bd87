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

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

const activityColumns = `id, organization_id, title, COALESCE(description, ''), COALESCE(type, ''), start_date_time, end_date_time,
	COALESCE(location, ''), status, qr_code, attendance_mode, created_by_id, created_on, updated_on`

func scanActivity(row rowScanner) (*domain.Activity, error) {
	a := &domain.Activity{}
	var createdBy sql.NullInt32
	err := row.Scan(&a.ID, &a.OrganizationID, &a.Title, &a.Description, &a.Type, &a.StartDateTime, &a.EndDateTime,
		&a.Location, &a.Status, &a.QRCode, &a.AttendanceMode, &createdBy, &a.CreatedOn, &a.UpdatedOn)
	if err != nil {
		return nil, err
	}
	a.CreatedByID = int32Ptr(createdBy)
	return a, nil
}

func (r *activityRepository) Create(ctx context.Context, a *domain.Activity) error {
	query := `INSERT INTO activities (organization_id, title, description, type, start_date_time, end_date_time, location, status, qr_code, attendance_mode, created_by_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12) RETURNING id`
	now := time.Now()
	a.CreatedOn = now
	a.UpdatedOn = now
	logger.DatabaseCall("INSERT", "activities", "orgID", a.OrganizationID, "title", a.Title)
	err := conn(ctx, r.db).QueryRowContext(ctx, query, a.OrganizationID, a.Title, a.Description, a.Type, a.StartDateTime,
		a.EndDateTime, a.Location, a.Status, a.QRCode, a.AttendanceMode, a.CreatedByID, now).Scan(&a.ID)
	logger.DatabaseResult("INSERT", 1, err, "activityID", a.ID)
	return translate(err, "activity")
}

func (r *activityRepository) GetByID(ctx context.Context, id int32) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`
	a, err := scanActivity(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err, "activity")
	}
	return a, nil
}

func (r *activityRepository) GetOpenByQRCode(ctx context.Context, id int32, qrCode string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities
	          WHERE id = $1 AND qr_code = $2 AND status IN ('scheduled', 'ongoing')`
	a, err := scanActivity(conn(ctx, r.db).QueryRowContext(ctx, query, id, qrCode))
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("invalid QR code or activity")
	}
	if err != nil {
		return nil, translate(err, "activity")
	}
	return a, nil
}

func (r *activityRepository) ListByOrganization(ctx context.Context, orgID int32, status domain.ActivityStatus, page, pageSize int32) ([]domain.Activity, int32, error) {
	db := conn(ctx, r.db)

	var count int32
	countQuery := `SELECT count(*) FROM activities WHERE organization_id = $1 AND ($2 = '' OR status = $2)`
	if err := db.QueryRowContext(ctx, countQuery, orgID, status).Scan(&count); err != nil {
		return nil, 0, translate(err, "activity")
	}

	query := `SELECT ` + activityColumns + ` FROM activities
	          WHERE organization_id = $1 AND ($2 = '' OR status = $2)
	          ORDER BY start_date_time DESC LIMIT $3 OFFSET $4`
	rows, err := db.QueryContext(ctx, query, orgID, status, pageSize, domain.Offset(page, pageSize))
	if err != nil {
		return nil, 0, translate(err, "activity")
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, translate(err, "activity")
		}
		activities = append(activities, *a)
	}
	return activities, count, translate(rows.Err(), "activity")
}

func (r *activityRepository) Update(ctx context.Context, a *domain.Activity) error {
	query := `UPDATE activities SET title=$1, description=$2, type=$3, start_date_time=$4, end_date_time=$5, location=$6,
	          status=$7, attendance_mode=$8, updated_on=$9 WHERE id=$10`
	a.UpdatedOn = time.Now()
	res, err := conn(ctx, r.db).ExecContext(ctx, query, a.Title, a.Description, a.Type, a.StartDateTime, a.EndDateTime,
		a.Location, a.Status, a.AttendanceMode, a.UpdatedOn, a.ID)
	if err != nil {
		return translate(err, "activity")
	}
	return requireRows(res, "activity")
}

func (r *activityRepository) UpdateStatus(ctx context.Context, id int32, status domain.ActivityStatus) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE activities SET status=$1, updated_on=$2 WHERE id=$3`, status, time.Now(), id)
	if err != nil {
		return translate(err, "activity")
	}
	return requireRows(res, "activity")
}

func (r *activityRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "activities", "activityID", id)
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return translate(err, "activity")
	}
	return requireRows(res, "activity")
}

// RefreshStatuses moves scheduled and ongoing activities to the status their
// time window implies at now. Completed and cancelled rows are left alone.
func (r *activityRepository) RefreshStatuses(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE activities SET status = CASE
	              WHEN $1 < start_date_time THEN 'scheduled'
	              WHEN $1 < end_date_time THEN 'ongoing'
	              ELSE 'completed' END,
	          updated_on = $1
	          WHERE status IN ('scheduled', 'ongoing')
	            AND status <> CASE
	              WHEN $1 < start_date_time THEN 'scheduled'
	              WHEN $1 < end_date_time THEN 'ongoing'
	              ELSE 'completed' END`
	logger.DatabaseCall("UPDATE", "activities.status")
	res, err := conn(ctx, r.db).ExecContext(ctx, query, now)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return 0, translate(err, "activity")
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	if err != nil {
		return 0, apperror.Wrap(err, "database error")
	}
	return n, nil
}
