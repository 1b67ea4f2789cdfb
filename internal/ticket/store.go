// Package ticket implements validated CRUD over the persisted ticket
// collection and the derived dashboard statistics.
package ticket

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/Dcomputer22/trackdesk/internal/domain"
	"github.com/Dcomputer22/trackdesk/internal/events"
	"github.com/Dcomputer22/trackdesk/internal/observability"
	"github.com/Dcomputer22/trackdesk/internal/storage"
	"github.com/Dcomputer22/trackdesk/pkg/util"
)

// ticketsKey names the persisted collection record; it matches the original
// browser storage layout.
const ticketsKey = "ticketapp_tickets"

// MaxDescriptionLength caps the optional description, counted in runes.
const MaxDescriptionLength = 500

const metricsComponent = "ticket"

// Store coordinates ticket CRUD. Every mutating call reads the full
// persisted collection, applies the change in memory, and re-serializes the
// whole collection before returning, so memory and store agree after every
// call. The read-modify-write is not atomic against other processes writing
// the same record; the last writer wins.
type Store struct {
	store      storage.Store
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// Dependencies bundles collaborators for the store. Store is required; the
// rest default to no-ops.
type Dependencies struct {
	Store      storage.Store
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewStore builds the ticket store.
func NewStore(deps Dependencies) *Store {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// List returns the current collection in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.load(ctx)
	s.metrics.RecordOp(metricsComponent, "list", err)
	return tickets, err
}

// Create validates the input, assigns a fresh ID and creation timestamp,
// appends the ticket and persists the collection.
func (s *Store) Create(ctx context.Context, title, description string, status domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.create(ctx, title, description, status)
	s.metrics.RecordOp(metricsComponent, "create", err)
	return ticket, err
}

func (s *Store) create(ctx context.Context, title, description string, status domain.TicketStatus) (*domain.Ticket, error) {
	trimmed, err := s.validate(title, description, status)
	if err != nil {
		return nil, err
	}

	tickets, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	ticket := domain.Ticket{
		ID:          xid.New().String(),
		Title:       trimmed,
		Description: description,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.save(ctx, append(tickets, ticket)); err != nil {
		return nil, err
	}

	s.logger.Debug("ticket created", zap.String("ticket_id", ticket.ID))
	s.publish(ctx, events.EventTicketCreated, events.TicketCreatedPayload{
		TicketID: ticket.ID,
		Title:    ticket.Title,
		Status:   ticket.Status,
	})
	return &ticket, nil
}

// Update validates like Create, then replaces the matching ticket's fields
// in place. Position in the collection and CreatedAt are preserved. All
// status transitions are legal; a closed ticket may be reopened.
func (s *Store) Update(ctx context.Context, id, title, description string, status domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.update(ctx, id, title, description, status)
	s.metrics.RecordOp(metricsComponent, "update", err)
	return ticket, err
}

func (s *Store) update(ctx context.Context, id, title, description string, status domain.TicketStatus) (*domain.Ticket, error) {
	trimmed, err := s.validate(title, description, status)
	if err != nil {
		return nil, err
	}

	tickets, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range tickets {
		if tickets[i].ID != id {
			continue
		}
		oldStatus := tickets[i].Status
		tickets[i].Title = trimmed
		tickets[i].Description = description
		tickets[i].Status = status
		if err := s.save(ctx, tickets); err != nil {
			return nil, err
		}
		s.logger.Debug("ticket updated", zap.String("ticket_id", id))
		s.publish(ctx, events.EventTicketUpdated, events.TicketUpdatedPayload{
			TicketID:  id,
			OldStatus: oldStatus,
			NewStatus: status,
		})
		ticket := tickets[i]
		return &ticket, nil
	}
	return nil, util.NewNotFound("ticket", id)
}

// Delete removes the ticket with the given id if present and persists the
// collection. Deleting an absent id is a successful no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.delete(ctx, id)
	s.metrics.RecordOp(metricsComponent, "delete", err)
	return err
}

func (s *Store) delete(ctx context.Context, id string) error {
	tickets, err := s.load(ctx)
	if err != nil {
		return err
	}

	removed := false
	kept := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if ticket.ID == id {
			removed = true
			continue
		}
		kept = append(kept, ticket)
	}
	if err := s.save(ctx, kept); err != nil {
		return err
	}
	if removed {
		s.logger.Debug("ticket deleted", zap.String("ticket_id", id))
		s.publish(ctx, events.EventTicketDeleted, events.TicketDeletedPayload{TicketID: id})
	}
	return nil
}

// Stats derives the status breakdown of the current collection. It is a pure
// read; Open+InProgress+Closed always equals Total.
func (s *Store) Stats(ctx context.Context) (domain.TicketStats, error) {
	tickets, err := s.load(ctx)
	s.metrics.RecordOp(metricsComponent, "stats", err)
	if err != nil {
		return domain.TicketStats{}, err
	}

	stats := domain.TicketStats{Total: len(tickets)}
	for _, ticket := range tickets {
		switch ticket.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusClosed:
			stats.Closed++
		}
	}
	return stats, nil
}

// validate applies the shared create/update rules and returns the trimmed
// title. A rejected call leaves the persisted collection untouched because
// validation runs before any write.
func (s *Store) validate(title, description string, status domain.TicketStatus) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", util.NewEmptyTitle()
	}
	if !status.Valid() {
		return "", util.NewInvalidStatus(string(status))
	}
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return "", util.NewDescriptionTooLong(n, MaxDescriptionLength)
	}
	return trimmed, nil
}

func (s *Store) load(ctx context.Context) ([]domain.Ticket, error) {
	raw, ok, err := s.store.Read(ctx, ticketsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal([]byte(raw), &tickets); err != nil {
		return nil, util.NewStorageUnavailable(err)
	}
	return tickets, nil
}

func (s *Store) save(ctx context.Context, tickets []domain.Ticket) error {
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	raw, err := json.Marshal(tickets)
	if err != nil {
		return err
	}
	return s.store.Write(ctx, ticketsKey, string(raw))
}

func (s *Store) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
