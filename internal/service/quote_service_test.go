package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/client"
	"quote-pipeline-api/internal/domain"
	"quote-pipeline-api/internal/dto"
	"quote-pipeline-api/internal/repository"
	"quote-pipeline-api/internal/response"
)

func newQuoteService(quoteRepo *MockQuoteRepository, customerRepo *MockCustomerRepository) QuoteService {
	if customerRepo == nil {
		customerRepo = &MockCustomerRepository{}
	}
	return NewQuoteService(quoteRepo, customerRepo, client.NewMockS3Client(), nil, nil, zap.NewNop())
}

func TestCreateQuote_DefaultsToNewStage(t *testing.T) {
	var created *domain.Quote
	quoteRepo := &MockQuoteRepository{
		CreateFunc: func(ctx context.Context, quote *domain.Quote) error {
			quote.Position = 1
			created = quote
			return nil
		},
	}
	svc := newQuoteService(quoteRepo, nil)

	resp, err := svc.CreateQuote(context.Background(), &dto.CreateQuoteRequest{
		Title:      "Survey",
		ClientName: "Acme Ltd",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, domain.StageNew, created.Stage)
	assert.Equal(t, domain.StageNew, resp.Stage)
	assert.Equal(t, 1, resp.Position)
}

func TestCreateQuote_RecordsCreator(t *testing.T) {
	var created *domain.Quote
	quoteRepo := &MockQuoteRepository{
		CreateFunc: func(ctx context.Context, quote *domain.Quote) error {
			created = quote
			return nil
		},
	}
	svc := newQuoteService(quoteRepo, nil)

	userID := uuid.New()
	ctx := context.WithValue(context.Background(), "user_id", userID)

	_, err := svc.CreateQuote(ctx, &dto.CreateQuoteRequest{
		Title:      "Survey",
		ClientName: "Acme Ltd",
	})
	require.NoError(t, err)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, userID, *created.CreatedBy)
}

func TestCreateQuote_UnknownCustomer(t *testing.T) {
	quoteRepo := &MockQuoteRepository{}
	customerRepo := &MockCustomerRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newQuoteService(quoteRepo, customerRepo)

	customerID := uuid.New()
	_, err := svc.CreateQuote(context.Background(), &dto.CreateQuoteRequest{
		Title:      "Survey",
		ClientName: "Acme Ltd",
		CustomerID: &customerID,
	})

	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
}

func TestGetQuote_NotFound(t *testing.T) {
	svc := newQuoteService(&MockQuoteRepository{}, nil)

	_, err := svc.GetQuote(context.Background(), uuid.New())

	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
}

func TestListQuotes_IncludesCustomerName(t *testing.T) {
	customerID := uuid.New()
	quoteRepo := &MockQuoteRepository{
		FindAllOrderedFunc: func(ctx context.Context) ([]*domain.Quote, error) {
			return []*domain.Quote{
				{
					Title:      "Survey",
					ClientName: "Acme Ltd",
					Stage:      domain.StageNew,
					Position:   1,
					CustomerID: &customerID,
					Customer:   &domain.Customer{Name: "Acme Holdings"},
				},
			}, nil
		},
	}
	svc := newQuoteService(quoteRepo, nil)

	quotes, err := svc.ListQuotes(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Acme Holdings", quotes[0].CustomerName)
}

func TestUpdateQuote_PatchesOnlyProvidedFields(t *testing.T) {
	id := uuid.New()
	stored := &domain.Quote{
		BaseModel:  domain.BaseModel{ID: id},
		Title:      "Old title",
		ClientName: "Acme Ltd",
		Stage:      domain.StageTender,
		Position:   3,
		Notes:      "keep me",
	}

	var updated *domain.Quote
	quoteRepo := &MockQuoteRepository{
		FindByIDFunc: func(ctx context.Context, qid uuid.UUID) (*domain.Quote, error) {
			return stored, nil
		},
		UpdateFunc: func(ctx context.Context, quote *domain.Quote) error {
			updated = quote
			return nil
		},
	}
	svc := newQuoteService(quoteRepo, nil)

	newTitle := "New title"
	_, err := svc.UpdateQuote(context.Background(), id, &dto.UpdateQuoteRequest{
		Title: &newTitle,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "keep me", updated.Notes)
	// Stage and position are untouched by field updates
	assert.Equal(t, domain.StageTender, updated.Stage)
	assert.Equal(t, 3, updated.Position)
}

func TestUpdateQuote_ClearChase(t *testing.T) {
	id := uuid.New()
	next := time.Now().Add(time.Hour)
	stored := &domain.Quote{
		BaseModel:   domain.BaseModel{ID: id},
		Title:       "Survey",
		ClientName:  "Acme Ltd",
		Stage:       domain.StageFollowUp,
		NextChaseAt: &next,
	}

	var updated *domain.Quote
	quoteRepo := &MockQuoteRepository{
		FindByIDFunc: func(ctx context.Context, qid uuid.UUID) (*domain.Quote, error) {
			return stored, nil
		},
		UpdateFunc: func(ctx context.Context, quote *domain.Quote) error {
			updated = quote
			return nil
		},
	}
	svc := newQuoteService(quoteRepo, nil)

	_, err := svc.UpdateQuote(context.Background(), id, &dto.UpdateQuoteRequest{
		ClearChase: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.NextChaseAt)
}

func TestReorderQuotes_RejectsDuplicateIDs(t *testing.T) {
	svc := newQuoteService(&MockQuoteRepository{}, nil)

	id := uuid.New()
	_, err := svc.ReorderQuotes(context.Background(), &dto.ReorderQuotesRequest{
		Updates: []dto.QuoteMoveUpdate{
			{ID: id, Stage: "new", Position: 1},
			{ID: id, Stage: "won", Position: 2},
		},
	})

	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeValidation, appErr.Code)
}

func TestReorderQuotes_UnknownIDMapsToNotFound(t *testing.T) {
	quoteRepo := &MockQuoteRepository{
		ReorderFunc: func(ctx context.Context, moves []repository.QuoteMove) error {
			return gorm.ErrRecordNotFound
		},
	}
	svc := newQuoteService(quoteRepo, nil)

	_, err := svc.ReorderQuotes(context.Background(), &dto.ReorderQuotesRequest{
		Updates: []dto.QuoteMoveUpdate{
			{ID: uuid.New(), Stage: "won", Position: 1},
		},
	})

	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
}

func TestReorderQuotes_ReturnsFreshBoard(t *testing.T) {
	quoteRepo := &MockQuoteRepository{
		FindAllOrderedFunc: func(ctx context.Context) ([]*domain.Quote, error) {
			return []*domain.Quote{
				{Title: "second", Stage: domain.StageNew, Position: 1},
				{Title: "first", Stage: domain.StageNew, Position: 2},
			}, nil
		},
	}
	svc := newQuoteService(quoteRepo, nil)

	quotes, err := svc.ReorderQuotes(context.Background(), &dto.ReorderQuotesRequest{
		Updates: []dto.QuoteMoveUpdate{
			{ID: uuid.New(), Stage: "new", Position: 1},
		},
	})
	require.NoError(t, err)

	// The response is the post-renumber board, not an ack
	require.Len(t, quotes, 2)
	assert.Equal(t, "second", quotes[0].Title)
	assert.Equal(t, 1, quotes[0].Position)
	assert.Equal(t, "first", quotes[1].Title)
	assert.Equal(t, 2, quotes[1].Position)
}

func TestCreateQuote_RepositoryFailureMapsToStorage(t *testing.T) {
	quoteRepo := &MockQuoteRepository{
		CreateFunc: func(ctx context.Context, quote *domain.Quote) error {
			return errors.New("connection refused")
		},
	}
	svc := newQuoteService(quoteRepo, nil)

	_, err := svc.CreateQuote(context.Background(), &dto.CreateQuoteRequest{
		Title:      "Survey",
		ClientName: "Acme Ltd",
	})

	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeStorage, appErr.Code)
}

func TestReorderQuotes_RepositoryFailureMapsToStorage(t *testing.T) {
	quoteRepo := &MockQuoteRepository{
		ReorderFunc: func(ctx context.Context, moves []repository.QuoteMove) error {
			return errors.New("connection refused")
		},
	}
	svc := newQuoteService(quoteRepo, nil)

	_, err := svc.ReorderQuotes(context.Background(), &dto.ReorderQuotesRequest{
		Updates: []dto.QuoteMoveUpdate{
			{ID: uuid.New(), Stage: "won", Position: 1},
		},
	})

	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeStorage, appErr.Code)
}

func TestMoveQuoteStage_AppendsWhenPositionOmitted(t *testing.T) {
	id := uuid.New()
	var gotPosition int
	quoteRepo := &MockQuoteRepository{
		MoveStageFunc: func(ctx context.Context, qid uuid.UUID, stage domain.Stage, position int) error {
			gotPosition = position
			return nil
		},
		FindByIDFunc: func(ctx context.Context, qid uuid.UUID) (*domain.Quote, error) {
			return &domain.Quote{BaseModel: domain.BaseModel{ID: id}, Stage: domain.StageWon, Position: 4}, nil
		},
	}
	svc := newQuoteService(quoteRepo, nil)

	_, err := svc.MoveQuoteStage(context.Background(), id, &dto.MoveStageRequest{Stage: "won"})
	require.NoError(t, err)
	assert.Greater(t, gotPosition, 1<<20, "omitted position should append past any real slot")
}

func TestAttachFile_StorageFailure(t *testing.T) {
	id := uuid.New()
	quoteRepo := &MockQuoteRepository{
		FindByIDFunc: func(ctx context.Context, qid uuid.UUID) (*domain.Quote, error) {
			return &domain.Quote{BaseModel: domain.BaseModel{ID: id}}, nil
		},
	}
	s3 := client.NewMockS3Client()
	s3.UploadFileFunc = func(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
		return "", errors.New("connection refused")
	}

	svc := NewQuoteService(quoteRepo, &MockCustomerRepository{}, s3, nil, nil, zap.NewNop())

	_, err := svc.AttachFile(context.Background(), id, "quote.pdf", "application/pdf", strings.NewReader("data"), 4)

	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeStorage, appErr.Code)
}

func TestAttachFile_RecordsURLAndName(t *testing.T) {
	id := uuid.New()
	stored := &domain.Quote{BaseModel: domain.BaseModel{ID: id}, Title: "Survey", ClientName: "Acme Ltd"}

	var updated *domain.Quote
	quoteRepo := &MockQuoteRepository{
		FindByIDFunc: func(ctx context.Context, qid uuid.UUID) (*domain.Quote, error) {
			return stored, nil
		},
		UpdateFunc: func(ctx context.Context, quote *domain.Quote) error {
			updated = quote
			return nil
		},
	}
	svc := newQuoteService(quoteRepo, nil)

	result, err := svc.AttachFile(context.Background(), id, "quote.pdf", "application/pdf", strings.NewReader("data"), 4)
	require.NoError(t, err)

	assert.Equal(t, "quote.pdf", result.AttachmentName)
	assert.Contains(t, result.AttachmentURL, "quotes/"+id.String())
	require.NotNil(t, updated)
	assert.Equal(t, result.AttachmentURL, updated.AttachmentURL)
}

func TestAttachFile_RejectsOversizedUpload(t *testing.T) {
	svc := newQuoteService(&MockQuoteRepository{}, nil)

	_, err := svc.AttachFile(context.Background(), uuid.New(), "big.bin", "application/octet-stream", strings.NewReader(""), maxAttachmentSize+1)

	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeValidation, appErr.Code)
}
