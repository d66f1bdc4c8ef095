package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/domain"
	"quote-pipeline-api/internal/dto"
	"quote-pipeline-api/internal/repository"
	"quote-pipeline-api/internal/response"
)

// ActivityService defines the interface for activity logging
type ActivityService interface {
	LogActivity(ctx context.Context, customerID uuid.UUID, req *dto.CreateActivityRequest) (*dto.ActivityResponse, error)
	ListCustomerActivities(ctx context.Context, customerID uuid.UUID) ([]*dto.ActivityResponse, error)
	ListQuoteActivities(ctx context.Context, quoteID uuid.UUID) ([]*dto.ActivityResponse, error)
}

// activityServiceImpl is the implementation of ActivityService
type activityServiceImpl struct {
	activityRepo repository.ActivityRepository
	customerRepo repository.CustomerRepository
	quoteRepo    repository.QuoteRepository
	logger       *zap.Logger
}

// NewActivityService creates a new instance of ActivityService
func NewActivityService(
	activityRepo repository.ActivityRepository,
	customerRepo repository.CustomerRepository,
	quoteRepo repository.QuoteRepository,
	logger *zap.Logger,
) ActivityService {
	return &activityServiceImpl{
		activityRepo: activityRepo,
		customerRepo: customerRepo,
		quoteRepo:    quoteRepo,
		logger:       logger,
	}
}

// LogActivity records an interaction against a customer, optionally tied
// to a quote. OccurredAt defaults to now.
func (s *activityServiceImpl) LogActivity(ctx context.Context, customerID uuid.UUID, req *dto.CreateActivityRequest) (*dto.ActivityResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Customer not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to get customer", err.Error())
	}
	if req.QuoteID != nil {
		if _, err := s.quoteRepo.FindByID(ctx, *req.QuoteID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeNotFound, "Quote not found", "")
			}
			return nil, response.NewAppError(response.ErrCodeStorage, "Failed to verify quote", err.Error())
		}
	}

	var metadataJSON datatypes.JSON
	if req.Metadata != nil {
		data, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid activity metadata", err.Error())
		}
		metadataJSON = data
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	activity := &domain.Activity{
		CustomerID: customerID,
		QuoteID:    req.QuoteID,
		Type:       domain.ActivityType(req.Type),
		Summary:    req.Summary,
		Metadata:   metadataJSON,
		OccurredAt: occurredAt,
	}
	if userID, ok := ctx.Value("user_id").(uuid.UUID); ok {
		activity.CreatedBy = &userID
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Error("Failed to log activity", zap.String("customer_id", customerID.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to log activity", err.Error())
	}
	return toActivityResponse(activity), nil
}

// ListCustomerActivities returns a customer's activities, newest first
func (s *activityServiceImpl) ListCustomerActivities(ctx context.Context, customerID uuid.UUID) ([]*dto.ActivityResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Customer not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to get customer", err.Error())
	}

	activities, err := s.activityRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to list activities", err.Error())
	}
	return toActivityResponses(activities), nil
}

// ListQuoteActivities returns the activities tied to a quote, newest first
func (s *activityServiceImpl) ListQuoteActivities(ctx context.Context, quoteID uuid.UUID) ([]*dto.ActivityResponse, error) {
	if _, err := s.quoteRepo.FindByID(ctx, quoteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Quote not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to get quote", err.Error())
	}

	activities, err := s.activityRepo.FindByQuoteID(ctx, quoteID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to list activities", err.Error())
	}
	return toActivityResponses(activities), nil
}

func toActivityResponses(activities []*domain.Activity) []*dto.ActivityResponse {
	responses := make([]*dto.ActivityResponse, len(activities))
	for i, a := range activities {
		responses[i] = toActivityResponse(a)
	}
	return responses
}

// toActivityResponse converts a domain activity to its API representation
func toActivityResponse(activity *domain.Activity) *dto.ActivityResponse {
	resp := &dto.ActivityResponse{
		ID:         activity.ID,
		CustomerID: activity.CustomerID,
		QuoteID:    activity.QuoteID,
		Type:       string(activity.Type),
		Summary:    activity.Summary,
		OccurredAt: activity.OccurredAt,
		CreatedAt:  activity.CreatedAt,
	}
	if len(activity.Metadata) > 0 {
		var metadata map[string]interface{}
		if err := json.Unmarshal(activity.Metadata, &metadata); err == nil {
			resp.Metadata = metadata
		}
	}
	return resp
}
