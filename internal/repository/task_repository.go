package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studytrack/backend/internal/model"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	var deadline interface{}
	if task.Deadline != nil {
		deadline = task.Deadline.UTC().Format(time.RFC3339Nano)
	}
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO tasks (id, user_id, title, category, deadline, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.UserID,
		task.Title,
		task.Category,
		deadline,
		boolToInt(task.Completed),
		task.CreatedAt.UTC().Format(time.RFC3339Nano),
		task.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, title, category, deadline, completed, created_at, updated_at
		 FROM tasks
		 WHERE id = ? AND user_id = ?`,
		taskID,
		userID,
	)
	return scanTask(row)
}

// List returns the user's tasks, optionally filtered by category.
// Open tasks sort before completed ones, then by deadline.
func (r *TaskRepository) List(ctx context.Context, userID, category string) ([]model.Task, error) {
	query := `SELECT id, user_id, title, category, deadline, completed, created_at, updated_at
	          FROM tasks
	          WHERE user_id = ?`
	args := []interface{}{userID}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY completed ASC, deadline IS NULL, deadline ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	var deadline interface{}
	if task.Deadline != nil {
		deadline = task.Deadline.UTC().Format(time.RFC3339Nano)
	}
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE tasks
		 SET title = ?, category = ?, deadline = ?, completed = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		task.Title,
		task.Category,
		deadline,
		boolToInt(task.Completed),
		task.UpdatedAt.UTC().Format(time.RFC3339Nano),
		task.ID,
		task.UserID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`,
		taskID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByCompletion returns (open, done) task counts, optionally
// restricted to one category.
func (r *TaskRepository) CountByCompletion(ctx context.Context, userID, category string) (int, int, error) {
	query := `SELECT COALESCE(SUM(CASE WHEN completed = 0 THEN 1 ELSE 0 END), 0),
	                 COALESCE(SUM(CASE WHEN completed = 1 THEN 1 ELSE 0 END), 0)
	          FROM tasks
	          WHERE user_id = ?`
	args := []interface{}{userID}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}

	var open, done int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&open, &done); err != nil {
		return 0, 0, fmt.Errorf("count tasks: %w", err)
	}
	return open, done, nil
}

func scanTask(s scanner) (*model.Task, error) {
	task := model.Task{}
	var deadline sql.NullString
	var completed int
	var createdAt, updatedAt string
	err := s.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Category,
		&deadline,
		&completed,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	if deadline.Valid {
		parsed, parseErr := parseTime(deadline.String)
		if parseErr != nil {
			return nil, fmt.Errorf("parse task deadline: %w", parseErr)
		}
		task.Deadline = &parsed
	}
	task.Completed = completed != 0

	parsedCreatedAt, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse task created_at: %w", err)
	}
	parsedUpdatedAt, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse task updated_at: %w", err)
	}
	task.CreatedAt = parsedCreatedAt
	task.UpdatedAt = parsedUpdatedAt

	return &task, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
