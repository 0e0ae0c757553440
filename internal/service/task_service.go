package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "studytrack/backend/internal/errors"
	"studytrack/backend/internal/model"
	"studytrack/backend/internal/repository"
)

type TaskService struct {
	taskRepo *repository.TaskRepository
}

type TaskInput struct {
	Title    string
	Category string
	Deadline *time.Time
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

func (s *TaskService) Create(ctx context.Context, userID string, input TaskInput) (*model.Task, *apperrors.APIError) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.BadRequest("invalid_title", "task title is required")
	}

	now := time.Now().UTC()
	task := model.Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Category:  strings.TrimSpace(input.Category),
		Deadline:  input.Deadline,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, apperrors.Internal("failed to create task")
	}
	return &task, nil
}

func (s *TaskService) List(ctx context.Context, userID, category string) ([]model.Task, *apperrors.APIError) {
	tasks, err := s.taskRepo.List(ctx, userID, strings.TrimSpace(category))
	if err != nil {
		return nil, apperrors.Internal("failed to list tasks")
	}
	return tasks, nil
}

func (s *TaskService) Update(ctx context.Context, userID, taskID string, input TaskInput) (*model.Task, *apperrors.APIError) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.BadRequest("invalid_title", "task title is required")
	}

	task, err := s.taskRepo.GetByID(ctx, userID, taskID)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("task_not_found", "task not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load task")
	}

	task.Title = title
	task.Category = strings.TrimSpace(input.Category)
	task.Deadline = input.Deadline
	task.UpdatedAt = time.Now().UTC()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, apperrors.Internal("failed to update task")
	}
	return task, nil
}

func (s *TaskService) SetCompleted(ctx context.Context, userID, taskID string, completed bool) (*model.Task, *apperrors.APIError) {
	task, err := s.taskRepo.GetByID(ctx, userID, taskID)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("task_not_found", "task not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load task")
	}

	task.Completed = completed
	task.UpdatedAt = time.Now().UTC()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, apperrors.Internal("failed to update task")
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) *apperrors.APIError {
	err := s.taskRepo.Delete(ctx, userID, taskID)
	if err == repository.ErrNotFound {
		return apperrors.NotFound("task_not_found", "task not found")
	}
	if err != nil {
		return apperrors.Internal("failed to delete task")
	}
	return nil
}
