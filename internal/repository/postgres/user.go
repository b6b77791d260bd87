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

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const userColumns = `id, email, COALESCE(username, ''), full_name, password_hash, COALESCE(phone_number, ''), role,
	organization_id, membership_status, join_date, score, is_active, created_on, updated_on`

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var orgID sql.NullInt32
	var joinDate sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.PasswordHash, &u.PhoneNumber, &u.Role,
		&orgID, &u.MembershipStatus, &joinDate, &u.Score, &u.IsActive, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, err
	}
	u.OrganizationID = int32Ptr(orgID)
	u.JoinDate = timePtr(joinDate)
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, username, full_name, password_hash, phone_number, role, membership_status, score, is_active, created_on, updated_on)
	          VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6, $7, 0, true, $8, $8) RETURNING id`
	now := time.Now()
	u.CreatedOn = now
	u.UpdatedOn = now
	u.IsActive = true
	if u.MembershipStatus == "" {
		u.MembershipStatus = domain.MembershipInactive
	}
	logger.DatabaseCall("INSERT", "users", "email", u.Email)
	err := conn(ctx, r.db).QueryRowContext(ctx, query, u.Email, u.Username, u.FullName, u.PasswordHash, u.PhoneNumber,
		u.Role, u.MembershipStatus, now).Scan(&u.ID)
	logger.DatabaseResult("INSERT", 1, err, "userID", u.ID)
	return translate(err, "user")
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err, "user")
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translate(err, "user")
	}
	return u, nil
}

// GetActor loads the identity tuple used for authorization. Organization
// admin status comes from organizations.admin_id.
func (r *userRepository) GetActor(ctx context.Context, id int32) (*domain.Actor, error) {
	query := `SELECT u.id, u.role, u.organization_id, u.is_active, COALESCE(o.admin_id = u.id, false)
	          FROM users u LEFT JOIN organizations o ON o.id = u.organization_id
	          WHERE u.id = $1`
	a := &domain.Actor{}
	var orgID sql.NullInt32
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&a.UserID, &a.Role, &orgID, &a.IsActive, &a.IsOrgAdmin)
	if err != nil {
		return nil, translate(err, "user")
	}
	a.OrganizationID = int32Ptr(orgID)
	return a, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, username=NULLIF($2, ''), full_name=$3, phone_number=NULLIF($4, ''), role=$5, is_active=$6, updated_on=$7 WHERE id=$8`
	u.UpdatedOn = time.Now()
	res, err := conn(ctx, r.db).ExecContext(ctx, query, u.Email, u.Username, u.FullName, u.PhoneNumber, u.Role, u.IsActive, u.UpdatedOn, u.ID)
	if err != nil {
		return translate(err, "user")
	}
	return requireRows(res, "user")
}

func (r *userRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "users", "userID", id)
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate(err, "user")
	}
	return requireRows(res, "user")
}

func (r *userRepository) ListByOrganization(ctx context.Context, orgID int32, status domain.MembershipStatus, page, pageSize int32) ([]domain.User, int32, error) {
	offset := domain.Offset(page, pageSize)
	db := conn(ctx, r.db)

	var count int32
	countQuery := `SELECT count(*) FROM users WHERE organization_id = $1 AND ($2 = '' OR membership_status = $2)`
	if err := db.QueryRowContext(ctx, countQuery, orgID, status).Scan(&count); err != nil {
		return nil, 0, translate(err, "user")
	}

	query := `SELECT ` + userColumns + ` FROM users
	          WHERE organization_id = $1 AND ($2 = '' OR membership_status = $2)
	          ORDER BY join_date DESC NULLS LAST, id LIMIT $3 OFFSET $4`
	rows, err := db.QueryContext(ctx, query, orgID, status, pageSize, offset)
	if err != nil {
		return nil, 0, translate(err, "user")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, translate(err, "user")
		}
		users = append(users, *u)
	}
	return users, count, translate(rows.Err(), "user")
}

// List pages through every account, newest first.
func (r *userRepository) List(ctx context.Context, filter domain.UserFilter, page, pageSize int32) ([]domain.User, int32, error) {
	db := conn(ctx, r.db)
	where := `WHERE ($1 = '' OR full_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%' OR username ILIKE '%' || $1 || '%')
	            AND ($2 = '' OR role = $2)`

	var count int32
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM users `+where, filter.Search, filter.Role).Scan(&count); err != nil {
		return nil, 0, translate(err, "user")
	}

	query := `SELECT ` + userColumns + ` FROM users ` + where + ` ORDER BY created_on DESC, id DESC LIMIT $3 OFFSET $4`
	rows, err := db.QueryContext(ctx, query, filter.Search, filter.Role, pageSize, domain.Offset(page, pageSize))
	if err != nil {
		return nil, 0, translate(err, "user")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, translate(err, "user")
		}
		users = append(users, *u)
	}
	return users, count, translate(rows.Err(), "user")
}

// JoinOrganization affiliates a user that has no organization. A user who is
// already affiliated gets a conflict, even when two joins race.
func (r *userRepository) JoinOrganization(ctx context.Context, userID, orgID int32, status domain.MembershipStatus, at time.Time) error {
	query := `UPDATE users SET organization_id=$1, membership_status=$2, join_date=$3, updated_on=$3
	          WHERE id=$4 AND organization_id IS NULL`
	logger.DatabaseCall("UPDATE", "users", "userID", userID, "orgID", orgID)
	res, err := conn(ctx, r.db).ExecContext(ctx, query, orgID, status, at, userID)
	if err != nil {
		return translate(err, "organization")
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "userID", userID)
	if err != nil {
		return apperror.Wrap(err, "database error")
	}
	if n == 0 {
		return apperror.Conflict("user is already a member of an organization")
	}
	return nil
}

// Detach clears the user's affiliation and returns the organization they left.
// The organization's admin slot is released if the user held it.
func (r *userRepository) Detach(ctx context.Context, userID int32) (int32, error) {
	db := conn(ctx, r.db)
	query := `UPDATE users u SET organization_id=NULL, membership_status=$1, join_date=NULL, updated_on=$2
	          FROM users prev
	          WHERE u.id = prev.id AND u.id=$3 AND prev.organization_id IS NOT NULL
	          RETURNING prev.organization_id`
	var orgID int32
	err := db.QueryRowContext(ctx, query, domain.MembershipInactive, time.Now(), userID).Scan(&orgID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, apperror.NotFound("user is not a member of any organization")
		}
		return 0, translate(err, "user")
	}

	if _, err := db.ExecContext(ctx, `UPDATE organizations SET admin_id=NULL WHERE id=$1 AND admin_id=$2`, orgID, userID); err != nil {
		return 0, translate(err, "organization")
	}
	return orgID, nil
}

func (r *userRepository) UpdateMembershipStatus(ctx context.Context, userID int32, status domain.MembershipStatus) error {
	query := `UPDATE users SET membership_status=$1, updated_on=$2 WHERE id=$3`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, status, time.Now(), userID)
	if err != nil {
		return translate(err, "user")
	}
	return requireRows(res, "user")
}

// AdjustScore relies on the users_score_check constraint to reject a negative result.
func (r *userRepository) AdjustScore(ctx context.Context, userID, delta int32) (int32, error) {
	query := `UPDATE users SET score = score + $1, updated_on=$2 WHERE id=$3 RETURNING score`
	var score int32
	logger.DatabaseCall("UPDATE", "users.score", "userID", userID, "delta", delta)
	err := conn(ctx, r.db).QueryRowContext(ctx, query, delta, time.Now(), userID).Scan(&score)
	if err != nil {
		return 0, translate(err, "user")
	}
	return score, nil
}
