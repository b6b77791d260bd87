package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/repository"
)

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `t.id, t.organization_id, t.title, COALESCE(t.description, ''), t.status, t.priority, t.assigned_to_id,
	COALESCE((SELECT array_agg(ta.user_id ORDER BY ta.assigned_at) FROM task_assignees ta WHERE ta.task_id = t.id), '{}'),
	t.created_by_id, t.score_reward, t.progress_percentage, t.max_assignees, t.current_assignees, t.requires_approval,
	t.approval_status, COALESCE(t.category, ''), t.tags, t.due_date, t.start_date, t.claimed_at, t.completion_date,
	t.score_credited_at, t.created_on, t.updated_on`

func scanTask(row rowScanner) (*domain.Task, error) {
	t := &domain.Task{}
	var assignedTo, createdBy sql.NullInt32
	var assignees pq.Int64Array
	var dueDate, startDate, claimedAt, completionDate, creditedAt sql.NullTime
	err := row.Scan(&t.ID, &t.OrganizationID, &t.Title, &t.Description, &t.Status, &t.Priority, &assignedTo,
		&assignees, &createdBy, &t.ScoreReward, &t.ProgressPercentage, &t.MaxAssignees, &t.CurrentAssignees,
		&t.RequiresApproval, &t.ApprovalStatus, &t.Category, pq.Array(&t.Tags), &dueDate, &startDate, &claimedAt,
		&completionDate, &creditedAt, &t.CreatedOn, &t.UpdatedOn)
	if err != nil {
		return nil, err
	}
	t.AssignedToID = int32Ptr(assignedTo)
	t.CreatedByID = int32Ptr(createdBy)
	for _, id := range assignees {
		t.Assignees = append(t.Assignees, int32(id))
	}
	t.DueDate = timePtr(dueDate)
	t.StartDate = timePtr(startDate)
	t.ClaimedAt = timePtr(claimedAt)
	t.CompletionDate = timePtr(completionDate)
	t.ScoreCreditedAt = timePtr(creditedAt)
	return t, nil
}

// Create inserts the task and, when it is pre-assigned, its first assignee row.
func (r *taskRepository) Create(ctx context.Context, t *domain.Task) error {
	db := conn(ctx, r.db)
	query := `INSERT INTO tasks (organization_id, title, description, status, priority, assigned_to_id, created_by_id, score_reward,
	              progress_percentage, max_assignees, current_assignees, requires_approval, approval_status, category, tags,
	              due_date, start_date, claimed_at, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $19) RETURNING id`
	now := time.Now()
	t.CreatedOn = now
	t.UpdatedOn = now
	logger.DatabaseCall("INSERT", "tasks", "orgID", t.OrganizationID, "title", t.Title)
	err := db.QueryRowContext(ctx, query, t.OrganizationID, t.Title, t.Description, t.Status, t.Priority, t.AssignedToID,
		t.CreatedByID, t.ScoreReward, t.ProgressPercentage, t.MaxAssignees, t.CurrentAssignees, t.RequiresApproval,
		t.ApprovalStatus, t.Category, pq.Array(t.Tags), t.DueDate, t.StartDate, t.ClaimedAt, now).Scan(&t.ID)
	logger.DatabaseResult("INSERT", 1, err, "taskID", t.ID)
	if err != nil {
		return translate(err, "task")
	}

	if t.AssignedToID != nil {
		_, err = db.ExecContext(ctx, `INSERT INTO task_assignees (task_id, user_id, assigned_at) VALUES ($1, $2, $3)`,
			t.ID, *t.AssignedToID, now)
		if err != nil {
			return translate(err, "task")
		}
		t.Assignees = []int32{*t.AssignedToID}
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int32) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`
	t, err := scanTask(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err, "task")
	}
	return t, nil
}

// GetForUpdate locks the task row until the surrounding transaction ends.
func (r *taskRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1 FOR UPDATE OF t`
	t, err := scanTask(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err, "task")
	}
	return t, nil
}

func (r *taskRepository) ListByOrganization(ctx context.Context, orgID int32, status domain.TaskStatus, page, pageSize int32) ([]domain.Task, int32, error) {
	db := conn(ctx, r.db)

	var count int32
	countQuery := `SELECT count(*) FROM tasks WHERE organization_id = $1 AND ($2 = '' OR status = $2)`
	if err := db.QueryRowContext(ctx, countQuery, orgID, status).Scan(&count); err != nil {
		return nil, 0, translate(err, "task")
	}

	query := `SELECT ` + taskColumns + ` FROM tasks t
	          WHERE t.organization_id = $1 AND ($2 = '' OR t.status = $2)
	          ORDER BY t.created_on DESC LIMIT $3 OFFSET $4`
	rows, err := db.QueryContext(ctx, query, orgID, status, pageSize, domain.Offset(page, pageSize))
	if err != nil {
		return nil, 0, translate(err, "task")
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, count, nil
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID int32) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t
	          WHERE t.assigned_to_id = $1 OR EXISTS (SELECT 1 FROM task_assignees ta WHERE ta.task_id = t.id AND ta.user_id = $1)
	          ORDER BY t.due_date NULLS LAST, t.created_on DESC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, translate(err, "task")
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows *sql.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, translate(err, "task")
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "task")
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title=$1, description=$2, status=$3, priority=$4, assigned_to_id=$5, score_reward=$6,
	              progress_percentage=$7, approval_status=$8, category=$9, tags=$10, due_date=$11, start_date=$12,
	              completion_date=$13, updated_on=$14
	          WHERE id=$15`
	t.UpdatedOn = time.Now()
	res, err := conn(ctx, r.db).ExecContext(ctx, query, t.Title, t.Description, t.Status, t.Priority, t.AssignedToID,
		t.ScoreReward, t.ProgressPercentage, t.ApprovalStatus, t.Category, pq.Array(t.Tags), t.DueDate, t.StartDate,
		t.CompletionDate, t.UpdatedOn, t.ID)
	if err != nil {
		return translate(err, "task")
	}
	return requireRows(res, "task")
}

func (r *taskRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "tasks", "taskID", id)
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return translate(err, "task")
	}
	return requireRows(res, "task")
}

// AddAssignee records a claim. The UPDATE only matches a task that is still
// claimable and below capacity, and the task_assignees primary key rejects a
// user claiming the same task twice.
func (r *taskRepository) AddAssignee(ctx context.Context, taskID, userID int32, at time.Time) (*domain.Task, error) {
	db := conn(ctx, r.db)
	query := `UPDATE tasks SET current_assignees = current_assignees + 1, status = 'claimed', progress_percentage = $4,
	              assigned_to_id = COALESCE(assigned_to_id, $2), claimed_at = COALESCE(claimed_at, $3), updated_on = $3
	          WHERE id = $1 AND status IN ('available', 'claimed') AND current_assignees < GREATEST(max_assignees, 1)`
	logger.DatabaseCall("UPDATE", "tasks.claim", "taskID", taskID, "userID", userID)
	res, err := db.ExecContext(ctx, query, taskID, userID, at, domain.ProgressFor(domain.TaskClaimed, 0))
	if err != nil {
		return nil, translate(err, "task")
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "taskID", taskID)
	if err != nil {
		return nil, apperror.Wrap(err, "database error")
	}
	if n == 0 {
		return nil, domain.ErrTaskNotClaimable
	}

	_, err = db.ExecContext(ctx, `INSERT INTO task_assignees (task_id, user_id, assigned_at) VALUES ($1, $2, $3)`, taskID, userID, at)
	if err != nil {
		return nil, translate(err, "task")
	}
	return r.GetByID(ctx, taskID)
}

// ReplaceAssignee makes userID the task's only assignee.
func (r *taskRepository) ReplaceAssignee(ctx context.Context, taskID, userID int32) error {
	db := conn(ctx, r.db)
	now := time.Now()
	if _, err := db.ExecContext(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, taskID); err != nil {
		return translate(err, "task")
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO task_assignees (task_id, user_id, assigned_at) VALUES ($1, $2, $3)`, taskID, userID, now); err != nil {
		return translate(err, "task")
	}
	res, err := db.ExecContext(ctx, `UPDATE tasks SET assigned_to_id=$1, current_assignees=1, claimed_at=COALESCE(claimed_at, $2), updated_on=$2 WHERE id=$3`,
		userID, now, taskID)
	if err != nil {
		return translate(err, "task")
	}
	return requireRows(res, "task")
}

func (r *taskRepository) ClearAssignees(ctx context.Context, taskID int32) error {
	db := conn(ctx, r.db)
	logger.DatabaseCall("DELETE", "task_assignees", "taskID", taskID)
	if _, err := db.ExecContext(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, taskID); err != nil {
		return translate(err, "task")
	}
	res, err := db.ExecContext(ctx, `UPDATE tasks SET assigned_to_id=NULL, current_assignees=0, claimed_at=NULL, updated_on=$1 WHERE id=$2`,
		time.Now(), taskID)
	if err != nil {
		return translate(err, "task")
	}
	return requireRows(res, "task")
}

// ReleaseUser frees the user's slot on every claimed or in-progress task. The
// primary assignee passes to the earliest remaining claimant, and a claimed
// task left with nobody goes back to available.
func (r *taskRepository) ReleaseUser(ctx context.Context, userID int32) ([]int32, error) {
	db := conn(ctx, r.db)
	query := `UPDATE tasks t SET
	              current_assignees = GREATEST(t.current_assignees - 1, 0),
	              assigned_to_id = CASE WHEN t.assigned_to_id = $1 THEN
	                  (SELECT ta.user_id FROM task_assignees ta WHERE ta.task_id = t.id AND ta.user_id <> $1 ORDER BY ta.assigned_at LIMIT 1)
	                  ELSE t.assigned_to_id END,
	              status = CASE WHEN t.status = 'claimed' AND t.current_assignees <= 1 THEN 'available' ELSE t.status END,
	              progress_percentage = CASE WHEN t.status = 'claimed' AND t.current_assignees <= 1 THEN 0 ELSE t.progress_percentage END,
	              claimed_at = CASE WHEN t.status = 'claimed' AND t.current_assignees <= 1 THEN NULL ELSE t.claimed_at END,
	              updated_on = $2
	          WHERE t.status IN ('claimed', 'in_progress')
	            AND EXISTS (SELECT 1 FROM task_assignees ta WHERE ta.task_id = t.id AND ta.user_id = $1)
	          RETURNING t.organization_id`
	logger.DatabaseCall("UPDATE", "tasks.release", "userID", userID)
	rows, err := db.QueryContext(ctx, query, userID, time.Now())
	if err != nil {
		return nil, translate(err, "task")
	}
	defer rows.Close()

	seen := make(map[int32]bool)
	var orgIDs []int32
	for rows.Next() {
		var orgID int32
		if err := rows.Scan(&orgID); err != nil {
			return nil, translate(err, "task")
		}
		if !seen[orgID] {
			seen[orgID] = true
			orgIDs = append(orgIDs, orgID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "task")
	}
	rows.Close()

	if _, err := db.ExecContext(ctx, `DELETE FROM task_assignees WHERE user_id = $1`, userID); err != nil {
		return nil, translate(err, "task")
	}
	return orgIDs, nil
}

func (r *taskRepository) MarkScoreCredited(ctx context.Context, taskID int32, at time.Time) (bool, error) {
	query := `UPDATE tasks SET score_credited_at=$1 WHERE id=$2 AND score_credited_at IS NULL`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, at, taskID)
	if err != nil {
		return false, translate(err, "task")
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "taskID", taskID, "op", "score_credited")
	if err != nil {
		return false, apperror.Wrap(err, "database error")
	}
	return n == 1, nil
}
