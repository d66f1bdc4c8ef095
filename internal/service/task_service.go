package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/domain"
	"quote-pipeline-api/internal/dto"
	"quote-pipeline-api/internal/repository"
	"quote-pipeline-api/internal/response"
)

// TaskService defines the interface for task business logic
type TaskService interface {
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	ListTasks(ctx context.Context, includeDone bool) ([]*dto.TaskResponse, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	SetTaskDone(ctx context.Context, id uuid.UUID, done bool) (*dto.TaskResponse, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

// taskServiceImpl is the implementation of TaskService
type taskServiceImpl struct {
	taskRepo  repository.TaskRepository
	quoteRepo repository.QuoteRepository
	logger    *zap.Logger
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	quoteRepo repository.QuoteRepository,
	logger *zap.Logger,
) TaskService {
	return &taskServiceImpl{
		taskRepo:  taskRepo,
		quoteRepo: quoteRepo,
		logger:    logger,
	}
}

// CreateTask creates a new follow-up task
func (s *taskServiceImpl) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if req.QuoteID != nil {
		if _, err := s.quoteRepo.FindByID(ctx, *req.QuoteID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeNotFound, "Quote not found", "")
			}
			return nil, response.NewAppError(response.ErrCodeStorage, "Failed to verify quote", err.Error())
		}
	}

	task := &domain.Task{
		Title:      req.Title,
		Details:    req.Details,
		DueAt:      req.DueAt,
		AssigneeID: req.AssigneeID,
		QuoteID:    req.QuoteID,
	}
	if userID, ok := ctx.Value("user_id").(uuid.UUID); ok {
		task.CreatedBy = &userID
		if task.AssigneeID == nil {
			task.AssigneeID = &userID
		}
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		s.logger.Error("Failed to create task", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to create task", err.Error())
	}
	return toTaskResponse(task), nil
}

// ListTasks returns tasks ordered by due date, undated last
func (s *taskServiceImpl) ListTasks(ctx context.Context, includeDone bool) ([]*dto.TaskResponse, error) {
	tasks, err := s.taskRepo.FindAll(ctx, includeDone)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to list tasks", err.Error())
	}

	responses := make([]*dto.TaskResponse, len(tasks))
	for i, t := range tasks {
		responses[i] = toTaskResponse(t)
	}
	return responses, nil
}

// UpdateTask applies a merge-patch of task fields
func (s *taskServiceImpl) UpdateTask(ctx context.Context, id uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to get task", err.Error())
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Details != nil {
		task.Details = *req.Details
	}
	if req.DueAt != nil {
		task.DueAt = req.DueAt
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		s.logger.Error("Failed to update task", zap.String("task_id", id.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to update task", err.Error())
	}
	return toTaskResponse(task), nil
}

// SetTaskDone toggles completion on a task
func (s *taskServiceImpl) SetTaskDone(ctx context.Context, id uuid.UUID, done bool) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to get task", err.Error())
	}

	task.Done = done
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to update task", err.Error())
	}
	return toTaskResponse(task), nil
}

// DeleteTask removes a task
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if _, err := s.taskRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return response.NewAppError(response.ErrCodeStorage, "Failed to get task", err.Error())
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return response.NewAppError(response.ErrCodeStorage, "Failed to delete task", err.Error())
	}
	return nil
}

// toTaskResponse converts a domain task to its API representation
func toTaskResponse(task *domain.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:         task.ID,
		Title:      task.Title,
		Details:    task.Details,
		DueAt:      task.DueAt,
		Done:       task.Done,
		AssigneeID: task.AssigneeID,
		QuoteID:    task.QuoteID,
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}
}
