package ticket

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dcomputer22/trackdesk/internal/domain"
	"github.com/Dcomputer22/trackdesk/internal/events"
	"github.com/Dcomputer22/trackdesk/internal/storage"
	"github.com/Dcomputer22/trackdesk/pkg/util"
)

func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	return NewStore(Dependencies{Store: mem}), mem
}

func mustCreate(t *testing.T, s *Store, title, description string, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	ticket, err := s.Create(context.Background(), title, description, status)
	require.NoError(t, err)
	return ticket
}

func TestCreateAssignsIdentity(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	ticket := mustCreate(t, store, "Fix bug", "steps to reproduce", domain.TicketStatusOpen)
	require.NotEmpty(t, ticket.ID)
	require.False(t, ticket.CreatedAt.IsZero())
	assert.Equal(t, "Fix bug", ticket.Title)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)

	other := mustCreate(t, store, "Second", "", domain.TicketStatusOpen)
	assert.NotEqual(t, ticket.ID, other.ID, "ids must be pairwise distinct")

	tickets, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
}

func TestCreateTrimsTitle(t *testing.T) {
	store, _ := newTestStore(t)
	ticket := mustCreate(t, store, "  Fix bug  ", "", domain.TicketStatusOpen)
	assert.Equal(t, "Fix bug", ticket.Title)
}

func TestCreateEmptyTitle(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := store.Create(ctx, title, "", domain.TicketStatusOpen)
		require.Error(t, err)
		assert.True(t, util.HasCode(err, util.CodeEmptyTitle))
	}

	tickets, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tickets, "rejected create leaves the collection unchanged")
}

func TestCreateInvalidStatus(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.Create(ctx, "Fix bug", "", domain.TicketStatus("bogus"))
	require.Error(t, err)
	assert.True(t, util.HasCode(err, util.CodeInvalidStatus))

	// No silent fallback for the empty string either.
	_, err = store.Create(ctx, "Fix bug", "", domain.TicketStatus(""))
	assert.True(t, util.HasCode(err, util.CodeInvalidStatus))
}

func TestCreateDescriptionTooLong(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	longest := strings.Repeat("d", MaxDescriptionLength)
	_, err := store.Create(ctx, "Fix bug", longest, domain.TicketStatusOpen)
	require.NoError(t, err, "exactly the limit is allowed")

	_, err = store.Create(ctx, "Fix bug", longest+"d", domain.TicketStatusOpen)
	require.Error(t, err)
	assert.True(t, util.HasCode(err, util.CodeDescriptionTooLong))
}

func TestUpdateReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	first := mustCreate(t, store, "First", "", domain.TicketStatusOpen)
	second := mustCreate(t, store, "Second", "", domain.TicketStatusOpen)
	third := mustCreate(t, store, "Third", "", domain.TicketStatusOpen)

	updated, err := store.Update(ctx, second.ID, "Second (edited)", "now with detail", domain.TicketStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.ID)
	assert.Equal(t, domain.TicketStatusClosed, updated.Status)
	assert.True(t, updated.CreatedAt.Equal(second.CreatedAt), "edits never touch createdAt")

	tickets, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	// Editing replaces in place; it does not move the ticket to the end.
	assert.Equal(t, []string{first.ID, second.ID, third.ID},
		[]string{tickets[0].ID, tickets[1].ID, tickets[2].ID})
	assert.Equal(t, "Second (edited)", tickets[1].Title)
}

func TestUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	mustCreate(t, store, "Only", "", domain.TicketStatusOpen)

	_, err := store.Update(ctx, "missing-id", "Title", "", domain.TicketStatusOpen)
	require.Error(t, err)
	assert.True(t, util.HasCode(err, util.CodeNotFound))
}

func TestUpdateValidatesLikeCreate(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	ticket := mustCreate(t, store, "Fix bug", "original", domain.TicketStatusOpen)

	_, err := store.Update(ctx, ticket.ID, "  ", "", domain.TicketStatusOpen)
	assert.True(t, util.HasCode(err, util.CodeEmptyTitle))

	_, err = store.Update(ctx, ticket.ID, "Fix bug", "", domain.TicketStatus("resolved"))
	assert.True(t, util.HasCode(err, util.CodeInvalidStatus))

	tickets, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", tickets[0].Description, "rejected update leaves prior state")
}

func TestReopenClosedTicket(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	ticket := mustCreate(t, store, "Fix bug", "", domain.TicketStatusClosed)

	// No forced ordering between statuses.
	updated, err := store.Update(ctx, ticket.ID, ticket.Title, "", domain.TicketStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, updated.Status)
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	ticket := mustCreate(t, store, "Fix bug", "", domain.TicketStatusOpen)

	require.NoError(t, store.Delete(ctx, "never-existed"))
	tickets, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	require.NoError(t, store.Delete(ctx, ticket.ID))
	require.NoError(t, store.Delete(ctx, ticket.ID), "second delete is a no-op")

	tickets, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestStatsTracksTransitions(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	ticket := mustCreate(t, store, "T1", "d", domain.TicketStatusOpen)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStats{Total: 1, Open: 1}, stats)

	_, err = store.Update(ctx, ticket.ID, "T1", "d", domain.TicketStatusClosed)
	require.NoError(t, err)

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStats{Total: 1, Closed: 1}, stats)
}

func TestStatsInvariantAcrossSequences(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	a := mustCreate(t, store, "A", "", domain.TicketStatusOpen)
	b := mustCreate(t, store, "B", "", domain.TicketStatusInProgress)
	mustCreate(t, store, "C", "", domain.TicketStatusClosed)

	check := func() {
		t.Helper()
		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		tickets, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(tickets), stats.Total)
		assert.Equal(t, stats.Total, stats.Open+stats.InProgress+stats.Closed)
	}

	check()
	_, err := store.Update(ctx, a.ID, "A", "", domain.TicketStatusClosed)
	require.NoError(t, err)
	check()
	require.NoError(t, store.Delete(ctx, b.ID))
	check()
	mustCreate(t, store, "D", "", domain.TicketStatusOpen)
	check()
	require.NoError(t, store.Delete(ctx, "absent"))
	check()
}

func TestCollectionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	first := mustCreate(t, store, "First", "alpha", domain.TicketStatusOpen)
	second := mustCreate(t, store, "Second", "beta", domain.TicketStatusInProgress)

	// A fresh store over the same substrate sees an equal collection: same
	// ids, fields, and order.
	reloaded := NewStore(Dependencies{Store: mem})
	tickets, err := reloaded.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, first.ID, tickets[0].ID)
	assert.Equal(t, "alpha", tickets[0].Description)
	assert.True(t, first.CreatedAt.Equal(tickets[0].CreatedAt))
	assert.Equal(t, second.ID, tickets[1].ID)
	assert.Equal(t, domain.TicketStatusInProgress, tickets[1].Status)
}

func TestMutationsPersistBeforeReturning(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	ticket := mustCreate(t, store, "Fix bug", "", domain.TicketStatusOpen)

	raw, ok, err := mem.Read(ctx, "ticketapp_tickets")
	require.NoError(t, err)
	require.True(t, ok, "create re-serialized the collection before returning")
	assert.Contains(t, raw, ticket.ID)
}

func TestTicketEventsPublished(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()
	store := NewStore(Dependencies{Store: storage.NewMemory(), Dispatcher: dispatcher})

	var got []events.EventType
	for _, eventType := range []events.EventType{events.EventTicketCreated, events.EventTicketUpdated, events.EventTicketDeleted} {
		eventType := eventType
		dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			got = append(got, e.Type)
			return nil
		})
	}

	ticket := mustCreate(t, store, "Fix bug", "", domain.TicketStatusOpen)
	_, err := store.Update(ctx, ticket.ID, "Fix bug", "", domain.TicketStatusClosed)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, ticket.ID))
	require.NoError(t, store.Delete(ctx, ticket.ID), "no event for a no-op delete")

	assert.Equal(t, []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventTicketDeleted,
	}, got)
}
