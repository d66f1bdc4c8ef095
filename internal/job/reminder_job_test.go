package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quote-pipeline-api/internal/client"
	"quote-pipeline-api/internal/domain"
	"quote-pipeline-api/internal/repository"
)

// mockQuoteRepo implements the repository methods the job touches
type mockQuoteRepo struct {
	repository.QuoteRepository

	mu          sync.Mutex
	due         []*domain.Quote
	findErr     error
	marked      []uuid.UUID
	markErr     error
	findStarted chan struct{}
	findBlock   chan struct{}
}

func (m *mockQuoteRepo) FindDueReminders(ctx context.Context, now time.Time) ([]*domain.Quote, error) {
	if m.findStarted != nil {
		close(m.findStarted)
		m.findStarted = nil
	}
	if m.findBlock != nil {
		<-m.findBlock
	}
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.due, nil
}

func (m *mockQuoteRepo) MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	m.marked = append(m.marked, id)
	return nil
}

// mockMailer records dispatched messages and can fail per recipient
type mockMailer struct {
	mu     sync.Mutex
	sent   []client.Message
	failTo map[string]bool
}

func (m *mockMailer) Send(ctx context.Context, msg client.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo[msg.To] {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func dueQuote(title, email string) *domain.Quote {
	past := time.Now().Add(-time.Hour)
	return &domain.Quote{
		BaseModel:     domain.BaseModel{ID: uuid.New()},
		Title:         title,
		ClientName:    "Acme Ltd",
		Stage:         domain.StageFollowUp,
		ReminderEmail: email,
		NextChaseAt:   &past,
	}
}

func TestReminderJob_SendsAndMarksDueQuotes(t *testing.T) {
	q1 := dueQuote("Roof survey", "sales@acme.test")
	q2 := dueQuote("Boiler quote", "ops@acme.test")

	repo := &mockQuoteRepo{due: []*domain.Quote{q1, q2}}
	mailer := &mockMailer{}
	job := NewReminderJob(repo, mailer, nil, zap.NewNop())

	job.Run()

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "sales@acme.test", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Subject, "Roof survey")
	assert.Contains(t, mailer.sent[0].Subject, "Acme Ltd")

	assert.ElementsMatch(t, []uuid.UUID{q1.ID, q2.ID}, repo.marked)
}

func TestReminderJob_BodyContainsStageValueAndLastChased(t *testing.T) {
	q := dueQuote("Roof survey", "sales@acme.test")
	value := 12500.50
	q.Value = &value

	repo := &mockQuoteRepo{due: []*domain.Quote{q}}
	mailer := &mockMailer{}
	job := NewReminderJob(repo, mailer, nil, zap.NewNop())

	job.Run()

	require.Len(t, mailer.sent, 1)
	body := mailer.sent[0].Body
	assert.Contains(t, body, "follow_up")
	assert.Contains(t, body, "12500.50")
	assert.Contains(t, body, "Never")
}

func TestReminderJob_ValueAbsentRendersNA(t *testing.T) {
	q := dueQuote("Roof survey", "sales@acme.test")

	repo := &mockQuoteRepo{due: []*domain.Quote{q}}
	mailer := &mockMailer{}
	job := NewReminderJob(repo, mailer, nil, zap.NewNop())

	job.Run()

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Body, "N/A")
}

func TestReminderJob_SendFailureLeavesQuoteDue(t *testing.T) {
	ok := dueQuote("delivered", "good@acme.test")
	bad := dueQuote("undeliverable", "bad@acme.test")

	repo := &mockQuoteRepo{due: []*domain.Quote{bad, ok}}
	mailer := &mockMailer{failTo: map[string]bool{"bad@acme.test": true}}
	job := NewReminderJob(repo, mailer, nil, zap.NewNop())

	job.Run()

	// Failed send never marks: the quote stays due for the next sweep
	require.Len(t, repo.marked, 1)
	assert.Equal(t, ok.ID, repo.marked[0])
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "good@acme.test", mailer.sent[0].To)
}

func TestReminderJob_FindErrorAborts(t *testing.T) {
	repo := &mockQuoteRepo{findErr: errors.New("db down")}
	mailer := &mockMailer{}
	job := NewReminderJob(repo, mailer, nil, zap.NewNop())

	job.Run()

	assert.Empty(t, mailer.sent)
	assert.Empty(t, repo.marked)
}

func TestReminderJob_OverlappingTickSkipped(t *testing.T) {
	started := make(chan struct{})
	block := make(chan struct{})
	repo := &mockQuoteRepo{
		due:         []*domain.Quote{dueQuote("slow", "sales@acme.test")},
		findStarted: started,
		findBlock:   block,
	}
	mailer := &mockMailer{}
	job := NewReminderJob(repo, mailer, nil, zap.NewNop())

	done := make(chan struct{})
	go func() {
		job.Run()
		close(done)
	}()
	<-started

	// Second tick while the first is blocked inside the sweep
	job.Run()
	assert.Empty(t, mailer.sent, "overlapping tick must not dispatch")

	close(block)
	<-done

	// Only the first tick dispatched
	assert.Len(t, mailer.sent, 1)
}

func TestReminderJob_InjectedClock(t *testing.T) {
	q := dueQuote("Roof survey", "sales@acme.test")
	fixed := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	var markedAt time.Time
	repo := &mockQuoteRepo{due: []*domain.Quote{q}}
	job := NewReminderJob(repo, &mockMailer{}, nil, zap.NewNop())
	job.now = func() time.Time { return fixed }

	// Wrap mark to capture the timestamp
	job.quoteRepo = &markCapture{mockQuoteRepo: repo, at: &markedAt}

	job.Run()

	assert.Equal(t, fixed, markedAt)
}

// markCapture records the timestamp passed to MarkReminderSent
type markCapture struct {
	*mockQuoteRepo
	at *time.Time
}

func (m *markCapture) MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	*m.at = at
	return m.mockQuoteRepo.MarkReminderSent(ctx, id, at)
}
