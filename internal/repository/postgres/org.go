package postgres

import (
	"context"
	"database/sql"
	"time"

	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/repository"
)

type organizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

const orgColumns = `id, name, COALESCE(aka, ''), COALESCE(description, ''), COALESCE(contact_email, ''), COALESCE(contact_phone, ''),
	COALESCE(address, ''), status, admin_id, total_members, total_activities, total_tasks, created_on, updated_on`

func scanOrganization(row rowScanner) (*domain.Organization, error) {
	o := &domain.Organization{}
	var adminID sql.NullInt32
	err := row.Scan(&o.ID, &o.Name, &o.Aka, &o.Description, &o.ContactEmail, &o.ContactPhone, &o.Address, &o.Status,
		&adminID, &o.TotalMembers, &o.TotalActivities, &o.TotalTasks, &o.CreatedOn, &o.UpdatedOn)
	if err != nil {
		return nil, err
	}
	o.AdminID = int32Ptr(adminID)
	return o, nil
}

func (r *organizationRepository) Create(ctx context.Context, o *domain.Organization) error {
	query := `INSERT INTO organizations (name, aka, description, contact_email, contact_phone, address, status, admin_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`
	now := time.Now()
	o.CreatedOn = now
	o.UpdatedOn = now
	if o.Status == "" {
		o.Status = domain.OrganizationActive
	}
	logger.DatabaseCall("INSERT", "organizations", "name", o.Name)
	err := conn(ctx, r.db).QueryRowContext(ctx, query, o.Name, o.Aka, o.Description, o.ContactEmail, o.ContactPhone,
		o.Address, o.Status, o.AdminID, now).Scan(&o.ID)
	logger.DatabaseResult("INSERT", 1, err, "orgID", o.ID)
	return translate(err, "organization")
}

func (r *organizationRepository) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	o, err := scanOrganization(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err, "organization")
	}
	return o, nil
}

func (r *organizationRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Organization, int32, error) {
	db := conn(ctx, r.db)

	var count int32
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM organizations`).Scan(&count); err != nil {
		return nil, 0, translate(err, "organization")
	}

	query := `SELECT ` + orgColumns + ` FROM organizations ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := db.QueryContext(ctx, query, pageSize, domain.Offset(page, pageSize))
	if err != nil {
		return nil, 0, translate(err, "organization")
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, translate(err, "organization")
		}
		orgs = append(orgs, *o)
	}
	return orgs, count, translate(rows.Err(), "organization")
}

func (r *organizationRepository) Update(ctx context.Context, o *domain.Organization) error {
	query := `UPDATE organizations SET name=$1, aka=$2, description=$3, contact_email=$4, contact_phone=$5, address=$6, status=$7, updated_on=$8
	          WHERE id=$9`
	o.UpdatedOn = time.Now()
	res, err := conn(ctx, r.db).ExecContext(ctx, query, o.Name, o.Aka, o.Description, o.ContactEmail, o.ContactPhone,
		o.Address, o.Status, o.UpdatedOn, o.ID)
	if err != nil {
		return translate(err, "organization")
	}
	return requireRows(res, "organization")
}

// Delete removes the organization with its activities and tasks. Members are
// detached first so they end up unaffiliated and inactive.
func (r *organizationRepository) Delete(ctx context.Context, id int32) error {
	db := conn(ctx, r.db)
	_, err := db.ExecContext(ctx, `UPDATE users SET organization_id=NULL, membership_status='inactive', join_date=NULL, updated_on=$1
	                               WHERE organization_id=$2`, time.Now(), id)
	if err != nil {
		return translate(err, "organization")
	}

	logger.DatabaseCall("DELETE", "organizations", "orgID", id)
	res, err := db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return translate(err, "organization")
	}
	return requireRows(res, "organization")
}

func (r *organizationRepository) SetAdmin(ctx context.Context, orgID int32, adminID *int32) error {
	query := `UPDATE organizations SET admin_id=$1, updated_on=$2 WHERE id=$3`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, adminID, time.Now(), orgID)
	if err != nil {
		return translate(err, "organization")
	}
	return requireRows(res, "organization")
}

func (r *organizationRepository) RecomputeCounters(ctx context.Context, orgID int32) error {
	query := `UPDATE organizations SET
	              total_members = (SELECT count(*) FROM users WHERE organization_id = $1),
	              total_activities = (SELECT count(*) FROM activities WHERE organization_id = $1),
	              total_tasks = (SELECT count(*) FROM tasks WHERE organization_id = $1)
	          WHERE id = $1`
	logger.DatabaseCall("UPDATE", "organizations.counters", "orgID", orgID)
	_, err := conn(ctx, r.db).ExecContext(ctx, query, orgID)
	return translate(err, "organization")
}
