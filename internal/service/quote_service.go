package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/client"
	"quote-pipeline-api/internal/domain"
	"quote-pipeline-api/internal/dto"
	"quote-pipeline-api/internal/metrics"
	"quote-pipeline-api/internal/repository"
	"quote-pipeline-api/internal/response"
)

const (
	boardCacheKey = "quotes:board"
	boardCacheTTL = 30 * time.Second

	maxAttachmentSize = 25 << 20
)

// QuoteService defines the interface for quote business logic
type QuoteService interface {
	CreateQuote(ctx context.Context, req *dto.CreateQuoteRequest) (*dto.QuoteResponse, error)
	GetQuote(ctx context.Context, id uuid.UUID) (*dto.QuoteResponse, error)
	ListQuotes(ctx context.Context) ([]*dto.QuoteResponse, error)
	UpdateQuote(ctx context.Context, id uuid.UUID, req *dto.UpdateQuoteRequest) (*dto.QuoteResponse, error)
	ReorderQuotes(ctx context.Context, req *dto.ReorderQuotesRequest) ([]*dto.QuoteResponse, error)
	MoveQuoteStage(ctx context.Context, id uuid.UUID, req *dto.MoveStageRequest) (*dto.QuoteResponse, error)
	AttachFile(ctx context.Context, id uuid.UUID, filename, contentType string, file io.Reader, size int64) (*dto.AttachmentResponse, error)
}

// quoteServiceImpl is the implementation of QuoteService
type quoteServiceImpl struct {
	quoteRepo    repository.QuoteRepository
	customerRepo repository.CustomerRepository
	s3Client     client.S3ClientInterface
	cache        *redis.Client
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewQuoteService creates a new instance of QuoteService. cache may be
// nil; the board listing then always hits the database.
func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	customerRepo repository.CustomerRepository,
	s3Client client.S3ClientInterface,
	cache *redis.Client,
	m *metrics.Metrics,
	logger *zap.Logger,
) QuoteService {
	return &quoteServiceImpl{
		quoteRepo:    quoteRepo,
		customerRepo: customerRepo,
		s3Client:     s3Client,
		cache:        cache,
		metrics:      m,
		logger:       logger,
	}
}

// CreateQuote creates a new quote at the tail of its stage
func (s *quoteServiceImpl) CreateQuote(ctx context.Context, req *dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	stage := domain.StageNew
	if req.Stage != "" {
		stage = domain.Stage(req.Stage)
	}

	if req.CustomerID != nil {
		if _, err := s.customerRepo.FindByID(ctx, *req.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeNotFound, "Customer not found", "")
			}
			return nil, response.NewAppError(response.ErrCodeStorage, "Failed to verify customer", err.Error())
		}
	}

	quote := &domain.Quote{
		Title:         req.Title,
		ClientName:    req.ClientName,
		CustomerID:    req.CustomerID,
		Value:         req.Value,
		Stage:         stage,
		SONumber:      req.SONumber,
		ReminderEmail: req.ReminderEmail,
		NextChaseAt:   req.NextChaseAt,
		Status:        req.Status,
		Notes:         req.Notes,
	}
	if userID, ok := ctx.Value("user_id").(uuid.UUID); ok {
		quote.CreatedBy = &userID
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		s.logger.Error("Failed to create quote", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to create quote", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementQuoteCreated()
	}
	s.invalidateBoardCache(ctx)
	s.logger.Info("Quote created",
		zap.String("quote_id", quote.ID.String()),
		zap.String("stage", string(quote.Stage)),
		zap.Int("position", quote.Position))

	return toQuoteResponse(quote), nil
}

// GetQuote returns a single quote by ID
func (s *quoteServiceImpl) GetQuote(ctx context.Context, id uuid.UUID) (*dto.QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Quote not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to get quote", err.Error())
	}
	return toQuoteResponse(quote), nil
}

// ListQuotes returns all quotes in board order: stage rank, position,
// next chase time (nulls last), newest first.
func (s *quoteServiceImpl) ListQuotes(ctx context.Context) ([]*dto.QuoteResponse, error) {
	if cached := s.readBoardCache(ctx); cached != nil {
		return cached, nil
	}

	quotes, err := s.quoteRepo.FindAllOrdered(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to list quotes", err.Error())
	}

	responses := make([]*dto.QuoteResponse, len(quotes))
	for i, q := range quotes {
		responses[i] = toQuoteResponse(q)
	}

	s.writeBoardCache(ctx, responses)
	return responses, nil
}

// UpdateQuote applies a merge-patch of quote fields. Stage and position
// are never touched here; moves go through MoveQuoteStage or
// ReorderQuotes so sibling positions stay contiguous.
func (s *quoteServiceImpl) UpdateQuote(ctx context.Context, id uuid.UUID, req *dto.UpdateQuoteRequest) (*dto.QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Quote not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to get quote", err.Error())
	}

	if req.CustomerID != nil && (quote.CustomerID == nil || *quote.CustomerID != *req.CustomerID) {
		if _, err := s.customerRepo.FindByID(ctx, *req.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeNotFound, "Customer not found", "")
			}
			return nil, response.NewAppError(response.ErrCodeStorage, "Failed to verify customer", err.Error())
		}
	}

	if req.Title != nil {
		quote.Title = *req.Title
	}
	if req.ClientName != nil {
		quote.ClientName = *req.ClientName
	}
	if req.CustomerID != nil {
		quote.CustomerID = req.CustomerID
		quote.Customer = nil
	}
	if req.Value != nil {
		quote.Value = req.Value
	}
	if req.SONumber != nil {
		quote.SONumber = *req.SONumber
	}
	if req.ReminderEmail != nil {
		quote.ReminderEmail = *req.ReminderEmail
	}
	if req.NextChaseAt != nil {
		quote.NextChaseAt = req.NextChaseAt
	}
	if req.ClearChase {
		quote.NextChaseAt = nil
	}
	if req.Status != nil {
		quote.Status = *req.Status
	}
	if req.Notes != nil {
		quote.Notes = *req.Notes
	}

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		s.logger.Error("Failed to update quote", zap.String("quote_id", id.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to update quote", err.Error())
	}

	s.invalidateBoardCache(ctx)
	return s.GetQuote(ctx, id)
}

// ReorderQuotes applies a bulk drag-and-drop result atomically. Every
// affected stage ends up renumbered 1..N; a single unknown ID rolls the
// whole batch back. Returns the freshly loaded board so the caller sees
// the positions the renumbering actually settled on.
func (s *quoteServiceImpl) ReorderQuotes(ctx context.Context, req *dto.ReorderQuotesRequest) ([]*dto.QuoteResponse, error) {
	seen := make(map[uuid.UUID]bool, len(req.Updates))
	moves := make([]repository.QuoteMove, len(req.Updates))
	for i, u := range req.Updates {
		if seen[u.ID] {
			return nil, response.NewAppError(response.ErrCodeValidation, "Duplicate quote ID in reorder request", u.ID.String())
		}
		seen[u.ID] = true
		moves[i] = repository.QuoteMove{
			ID:       u.ID,
			Stage:    domain.Stage(u.Stage),
			Position: u.Position,
		}
	}

	if err := s.quoteRepo.Reorder(ctx, moves); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "One or more quotes not found", "")
		}
		s.logger.Error("Failed to reorder quotes", zap.Int("updates", len(moves)), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to reorder quotes", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementQuoteReorder()
	}
	s.invalidateBoardCache(ctx)
	s.logger.Info("Quotes reordered", zap.Int("updates", len(moves)))
	return s.ListQuotes(ctx)
}

// MoveQuoteStage moves a single quote to another stage. With no position
// the card is appended to the tail; renumbering normalizes the rank
// either way.
func (s *quoteServiceImpl) MoveQuoteStage(ctx context.Context, id uuid.UUID, req *dto.MoveStageRequest) (*dto.QuoteResponse, error) {
	position := req.Position
	if position <= 0 {
		position = 1 << 30
	}

	if err := s.quoteRepo.MoveStage(ctx, id, domain.Stage(req.Stage), position); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Quote not found", "")
		}
		s.logger.Error("Failed to move quote", zap.String("quote_id", id.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to move quote", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementQuoteReorder()
	}
	s.invalidateBoardCache(ctx)
	return s.GetQuote(ctx, id)
}

// AttachFile uploads a single attachment for the quote and records its
// URL. A new upload replaces the previous attachment reference; the old
// object is removed best-effort.
func (s *quoteServiceImpl) AttachFile(ctx context.Context, id uuid.UUID, filename, contentType string, file io.Reader, size int64) (*dto.AttachmentResponse, error) {
	if size > maxAttachmentSize {
		return nil, response.NewAppError(response.ErrCodeValidation, "Attachment exceeds maximum size", "")
	}

	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Quote not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to get quote", err.Error())
	}

	key := s.s3Client.GenerateAttachmentKey(quote.ID.String(), filepath.Ext(filename))
	url, err := s.s3Client.UploadFile(ctx, key, file, contentType)
	if err != nil {
		s.logger.Error("Failed to upload attachment",
			zap.String("quote_id", id.String()),
			zap.String("key", key),
			zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to upload attachment", err.Error())
	}

	previousURL := quote.AttachmentURL
	quote.AttachmentURL = url
	quote.AttachmentName = filename
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to record attachment", err.Error())
	}

	if previousURL != "" && previousURL != url {
		if key := s.s3Client.KeyFromURL(previousURL); key != "" {
			if err := s.s3Client.DeleteFile(ctx, key); err != nil {
				s.logger.Warn("Failed to delete replaced attachment",
					zap.String("quote_id", id.String()),
					zap.Error(err))
			}
		}
	}

	s.invalidateBoardCache(ctx)
	s.logger.Info("Attachment uploaded",
		zap.String("quote_id", id.String()),
		zap.String("file_name", filename))

	return &dto.AttachmentResponse{
		QuoteID:        quote.ID,
		AttachmentURL:  url,
		AttachmentName: filename,
	}, nil
}

func (s *quoteServiceImpl) readBoardCache(ctx context.Context) []*dto.QuoteResponse {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, boardCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var responses []*dto.QuoteResponse
	if err := json.Unmarshal(data, &responses); err != nil {
		return nil
	}
	return responses
}

func (s *quoteServiceImpl) writeBoardCache(ctx context.Context, responses []*dto.QuoteResponse) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(responses)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, boardCacheKey, data, boardCacheTTL).Err(); err != nil {
		s.logger.Debug("Failed to write board cache", zap.Error(err))
	}
}

func (s *quoteServiceImpl) invalidateBoardCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, boardCacheKey).Err(); err != nil {
		s.logger.Debug("Failed to invalidate board cache", zap.Error(err))
	}
}

// toQuoteResponse converts a domain quote to its API representation
func toQuoteResponse(quote *domain.Quote) *dto.QuoteResponse {
	resp := &dto.QuoteResponse{
		ID:             quote.ID,
		Title:          quote.Title,
		ClientName:     quote.ClientName,
		CustomerID:     quote.CustomerID,
		Value:          quote.Value,
		Stage:          quote.Stage,
		Position:       quote.Position,
		SONumber:       quote.SONumber,
		LastChasedAt:   quote.LastChasedAt,
		NextChaseAt:    quote.NextChaseAt,
		ReminderEmail:  quote.ReminderEmail,
		AttachmentURL:  quote.AttachmentURL,
		AttachmentName: quote.AttachmentName,
		Status:         quote.Status,
		Notes:          quote.Notes,
		CreatedBy:      quote.CreatedBy,
		CreatedAt:      quote.CreatedAt,
		UpdatedAt:      quote.UpdatedAt,
	}
	if quote.Customer != nil {
		resp.CustomerName = quote.Customer.Name
	}
	return resp
}
