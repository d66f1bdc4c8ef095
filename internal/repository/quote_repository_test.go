package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/database"
	"quote-pipeline-api/internal/domain"
)

func setupQuoteRepo(t *testing.T) (QuoteRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	return NewQuoteRepository(db), db
}

func mustCreateQuote(t *testing.T, repo QuoteRepository, title string, stage domain.Stage) *domain.Quote {
	t.Helper()

	quote := &domain.Quote{
		Title:      title,
		ClientName: "Acme Ltd",
		Stage:      stage,
	}
	require.NoError(t, repo.Create(context.Background(), quote))
	return quote
}

// stagePositions returns the positions of a stage in board order
func stagePositions(t *testing.T, db *gorm.DB, stage domain.Stage) []int {
	t.Helper()

	var quotes []*domain.Quote
	require.NoError(t, db.
		Where("stage = ?", stage).
		Order("position ASC").
		Find(&quotes).Error)

	positions := make([]int, len(quotes))
	for i, q := range quotes {
		positions[i] = q.Position
	}
	return positions
}

func TestQuoteRepository_Create_AssignsTailPosition(t *testing.T) {
	repo, _ := setupQuoteRepo(t)

	first := mustCreateQuote(t, repo, "first", domain.StageNew)
	second := mustCreateQuote(t, repo, "second", domain.StageNew)
	third := mustCreateQuote(t, repo, "third", domain.StageNew)

	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
	assert.Equal(t, 3, third.Position)
}

func TestQuoteRepository_Create_PositionsPerStage(t *testing.T) {
	repo, _ := setupQuoteRepo(t)

	inNew := mustCreateQuote(t, repo, "in new", domain.StageNew)
	inTender := mustCreateQuote(t, repo, "in tender", domain.StageTender)

	// Each stage numbers independently from 1
	assert.Equal(t, 1, inNew.Position)
	assert.Equal(t, 1, inTender.Position)
}

func TestQuoteRepository_FindByID_NotFound(t *testing.T) {
	repo, _ := setupQuoteRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestQuoteRepository_Reorder_MovesAcrossStages(t *testing.T) {
	repo, db := setupQuoteRepo(t)
	ctx := context.Background()

	a := mustCreateQuote(t, repo, "a", domain.StageNew)
	b := mustCreateQuote(t, repo, "b", domain.StageNew)
	c := mustCreateQuote(t, repo, "c", domain.StageFollowUp)

	// Drag "a" to follow_up ahead of "c"
	err := repo.Reorder(ctx, []QuoteMove{
		{ID: a.ID, Stage: domain.StageFollowUp, Position: 1},
		{ID: c.ID, Stage: domain.StageFollowUp, Position: 2},
	})
	require.NoError(t, err)

	moved, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageFollowUp, moved.Stage)
	assert.Equal(t, 1, moved.Position)

	// Source stage closed the gap
	assert.Equal(t, []int{1}, stagePositions(t, db, domain.StageNew))
	remaining, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining.Position)

	assert.Equal(t, []int{1, 2}, stagePositions(t, db, domain.StageFollowUp))
}

func TestQuoteRepository_Reorder_UnknownIDRollsBack(t *testing.T) {
	repo, _ := setupQuoteRepo(t)
	ctx := context.Background()

	a := mustCreateQuote(t, repo, "a", domain.StageNew)
	b := mustCreateQuote(t, repo, "b", domain.StageNew)

	err := repo.Reorder(ctx, []QuoteMove{
		{ID: a.ID, Stage: domain.StageWon, Position: 1},
		{ID: uuid.New(), Stage: domain.StageWon, Position: 2},
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Nothing moved
	unchanged, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageNew, unchanged.Stage)
	assert.Equal(t, 1, unchanged.Position)

	unchangedB, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unchangedB.Position)
}

func TestQuoteRepository_Reorder_RenumbersContiguously(t *testing.T) {
	repo, db := setupQuoteRepo(t)
	ctx := context.Background()

	a := mustCreateQuote(t, repo, "a", domain.StageNew)
	b := mustCreateQuote(t, repo, "b", domain.StageNew)
	c := mustCreateQuote(t, repo, "c", domain.StageNew)

	// Client sends sparse positions; store renumbers to 1..N
	err := repo.Reorder(ctx, []QuoteMove{
		{ID: c.ID, Stage: domain.StageNew, Position: 10},
		{ID: a.ID, Stage: domain.StageNew, Position: 20},
		{ID: b.ID, Stage: domain.StageNew, Position: 30},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, stagePositions(t, db, domain.StageNew))

	got := make(map[uuid.UUID]int)
	for _, id := range []uuid.UUID{a.ID, b.ID, c.ID} {
		q, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		got[id] = q.Position
	}
	assert.Equal(t, 1, got[c.ID])
	assert.Equal(t, 2, got[a.ID])
	assert.Equal(t, 3, got[b.ID])
}

func TestQuoteRepository_Reorder_Idempotent(t *testing.T) {
	repo, db := setupQuoteRepo(t)
	ctx := context.Background()

	a := mustCreateQuote(t, repo, "a", domain.StageNew)
	b := mustCreateQuote(t, repo, "b", domain.StageNew)

	moves := []QuoteMove{
		{ID: b.ID, Stage: domain.StageNew, Position: 1},
		{ID: a.ID, Stage: domain.StageNew, Position: 2},
	}
	require.NoError(t, repo.Reorder(ctx, moves))
	first := stagePositions(t, db, domain.StageNew)

	require.NoError(t, repo.Reorder(ctx, moves))
	second := stagePositions(t, db, domain.StageNew)

	assert.Equal(t, first, second)
}

func TestQuoteRepository_MoveStage_InsertsAtSlot(t *testing.T) {
	repo, db := setupQuoteRepo(t)
	ctx := context.Background()

	mustCreateQuote(t, repo, "t1", domain.StageTender)
	t2 := mustCreateQuote(t, repo, "t2", domain.StageTender)
	moved := mustCreateQuote(t, repo, "from new", domain.StageNew)

	require.NoError(t, repo.MoveStage(ctx, moved.ID, domain.StageTender, 2))

	got, err := repo.FindByID(ctx, moved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageTender, got.Stage)
	assert.Equal(t, 2, got.Position)

	// Former occupant of slot 2 shifted down
	shifted, err := repo.FindByID(ctx, t2.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, shifted.Position)

	assert.Equal(t, []int{1, 2, 3}, stagePositions(t, db, domain.StageTender))
	assert.Empty(t, stagePositions(t, db, domain.StageNew))
}

func TestQuoteRepository_MoveStage_AppendWithLargePosition(t *testing.T) {
	repo, db := setupQuoteRepo(t)
	ctx := context.Background()

	mustCreateQuote(t, repo, "w1", domain.StageWon)
	moved := mustCreateQuote(t, repo, "mover", domain.StageNew)

	require.NoError(t, repo.MoveStage(ctx, moved.ID, domain.StageWon, 1<<30))

	got, err := repo.FindByID(ctx, moved.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Position)
	assert.Equal(t, []int{1, 2}, stagePositions(t, db, domain.StageWon))
}

func TestQuoteRepository_FindAllOrdered(t *testing.T) {
	repo, _ := setupQuoteRepo(t)
	ctx := context.Background()

	// Stages created out of rank order
	lost := mustCreateQuote(t, repo, "lost", domain.StageLost)
	tender := mustCreateQuote(t, repo, "tender", domain.StageTender)
	new1 := mustCreateQuote(t, repo, "new1", domain.StageNew)
	new2 := mustCreateQuote(t, repo, "new2", domain.StageNew)

	quotes, err := repo.FindAllOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 4)

	order := []uuid.UUID{quotes[0].ID, quotes[1].ID, quotes[2].ID, quotes[3].ID}
	assert.Equal(t, []uuid.UUID{new1.ID, new2.ID, tender.ID, lost.ID}, order)
}

func TestQuoteRepository_FindDueReminders(t *testing.T) {
	repo, _ := setupQuoteRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	due := &domain.Quote{Title: "due", ClientName: "c", Stage: domain.StageFollowUp, ReminderEmail: "sales@acme.test", NextChaseAt: &past}
	notYet := &domain.Quote{Title: "not yet", ClientName: "c", Stage: domain.StageFollowUp, ReminderEmail: "sales@acme.test", NextChaseAt: &future}
	noEmail := &domain.Quote{Title: "no email", ClientName: "c", Stage: domain.StageFollowUp, NextChaseAt: &past}
	noChase := &domain.Quote{Title: "no chase", ClientName: "c", Stage: domain.StageFollowUp, ReminderEmail: "sales@acme.test"}

	for _, q := range []*domain.Quote{due, notYet, noEmail, noChase} {
		require.NoError(t, repo.Create(ctx, q))
	}

	found, err := repo.FindDueReminders(ctx, now)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, due.ID, found[0].ID)
}

func TestQuoteRepository_MarkReminderSent(t *testing.T) {
	repo, _ := setupQuoteRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	quote := &domain.Quote{Title: "due", ClientName: "c", Stage: domain.StageFollowUp, ReminderEmail: "sales@acme.test", NextChaseAt: &past}
	require.NoError(t, repo.Create(ctx, quote))

	require.NoError(t, repo.MarkReminderSent(ctx, quote.ID, now))

	got, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Nil(t, got.NextChaseAt)
	require.NotNil(t, got.LastChasedAt)
	assert.WithinDuration(t, now, *got.LastChasedAt, time.Second)

	// Already cleared: a second mark is rejected, the occurrence fired once
	err = repo.MarkReminderSent(ctx, quote.ID, now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// And the quote is no longer due
	found, err := repo.FindDueReminders(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestQuoteRepository_Count(t *testing.T) {
	repo, _ := setupQuoteRepo(t)
	ctx := context.Background()

	mustCreateQuote(t, repo, "a", domain.StageNew)
	mustCreateQuote(t, repo, "b", domain.StageWon)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
