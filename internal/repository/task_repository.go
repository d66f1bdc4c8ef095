package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindAll(ctx context.Context, includeDone bool) ([]*domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountOpen(ctx context.Context) (int64, error)
}

// taskRepositoryImpl is the GORM implementation of TaskRepository
type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

func (r *taskRepositoryImpl) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindAll returns tasks ordered by due date (undated last), open tasks
// first unless includeDone is set.
func (r *taskRepositoryImpl) FindAll(ctx context.Context, includeDone bool) ([]*domain.Task, error) {
	query := r.db.WithContext(ctx).
		Order("CASE WHEN due_at IS NULL THEN 1 ELSE 0 END, due_at ASC").
		Order("created_at DESC")
	if !includeDone {
		query = query.Where("done = ?", false)
	}

	var tasks []*domain.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error
}

func (r *taskRepositoryImpl) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("done = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
