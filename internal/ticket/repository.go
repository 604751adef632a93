package ticket

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/session"
	"github.com/spec-kit/ticket-desk/internal/storage"
	"github.com/spec-kit/ticket-desk/internal/validate"
	"github.com/spec-kit/ticket-desk/pkg/outcome"
)

// CollectionKey is the store key holding the serialized ticket
// collection. Every write replaces the whole collection.
const CollectionKey = "ticketapp_tickets"

// CreateInput describes the ticket creation payload.
type CreateInput struct {
	Title       string
	Description string
	Status      domain.TicketStatus
}

// DeleteResult is the outcome of a delete call. The first call without
// confirmation returns the target ticket untouched with
// RequiresConfirmation set; a confirmed call returns the removed record.
type DeleteResult struct {
	RequiresConfirmation bool
	Ticket               domain.Ticket
}

// Repository provides CRUD over the ticket collection scoped to the
// current session's user. It publishes a change event after every
// successful mutation; interested parties subscribe through it rather
// than through ambient dispatch.
type Repository struct {
	store      *storage.Adapter
	sessions   *session.Manager
	dispatcher events.Dispatcher
	origin     string
	logger     *zap.Logger
	now        func() time.Time

	mu     sync.Mutex
	issued map[string]struct{}
}

// Dependencies bundles what the repository needs.
type Dependencies struct {
	Store      *storage.Adapter
	Sessions   *session.Manager
	Dispatcher events.Dispatcher
	Origin     string
	Logger     *zap.Logger
}

// NewRepository constructs the repository.
func NewRepository(deps Dependencies) *Repository {
	return &Repository{
		store:      deps.Store,
		sessions:   deps.Sessions,
		dispatcher: deps.Dispatcher,
		origin:     deps.Origin,
		logger:     deps.Logger,
		now:        time.Now,
		issued:     make(map[string]struct{}),
	}
}

// Subscribe registers a handler for one of the ticket-change events.
func (r *Repository) Subscribe(eventType events.Type, handler events.Handler) {
	if r.dispatcher != nil {
		r.dispatcher.Subscribe(eventType, handler)
	}
}

// Create validates the input and persists a new ticket owned by the
// current user. Nothing is written on validation failure.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*domain.Ticket, error) {
	user, err := r.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.TicketStatusOpen
	}
	if result := validate.TicketCreate(input.Title, input.Description, status); !result.Valid {
		return nil, outcome.Validation(result.Errors)
	}

	now := r.now()
	ticket := domain.Ticket{
		ID:          r.GenerateTicketID(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      user.ID,
	}

	collection := r.readCollection(ctx)
	collection = append(collection, ticket)
	if err := r.store.Set(ctx, CollectionKey, collection); err != nil {
		return nil, err
	}

	r.logger.Info("ticket created", zap.String("ticket_id", ticket.ID), zap.String("status", string(ticket.Status)))
	r.publish(ctx, events.TicketCreated, ticket)
	return &ticket, nil
}

// List returns the current user's tickets newest-first. An empty,
// corrupt, or missing collection reads as no tickets; an absent
// session reads the same way.
func (r *Repository) List(ctx context.Context) []domain.Ticket {
	user := r.sessions.CurrentUser(ctx)
	if user == nil {
		return []domain.Ticket{}
	}

	collection := r.readCollection(ctx)
	owned := make([]domain.Ticket, 0, len(collection))
	for _, ticket := range collection {
		if ticket.UserID == user.ID && ticket.WellFormed() {
			owned = append(owned, ticket)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	return owned
}

// GetByID returns the user's ticket with the given id, or nil.
func (r *Repository) GetByID(ctx context.Context, id string) *domain.Ticket {
	for _, ticket := range r.List(ctx) {
		if ticket.ID == id {
			found := ticket
			return &found
		}
	}
	return nil
}

// ListByStatus filters the user's tickets by status.
func (r *Repository) ListByStatus(ctx context.Context, status domain.TicketStatus) []domain.Ticket {
	tickets := r.List(ctx)
	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if ticket.Status == status {
			filtered = append(filtered, ticket)
		}
	}
	return filtered
}

// Update validates only the supplied fields, merges them, and persists
// the whole collection. UpdatedAt always moves strictly forward. A
// patch carrying no fields is rejected; it must not look like a change.
func (r *Repository) Update(ctx context.Context, id string, patch domain.TicketPatch) (*domain.Ticket, error) {
	user, err := r.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, outcome.Validation(map[string]string{"patch": "At least one field is required"})
	}
	if result := validate.TicketUpdate(patch); !result.Valid {
		return nil, outcome.Validation(result.Errors)
	}

	collection := r.readCollection(ctx)
	index := r.findOwned(collection, user.ID, id)
	if index < 0 {
		return nil, outcome.NotFound("ticket")
	}

	ticket := collection[index]
	if patch.Title != nil {
		ticket.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		ticket.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}

	updatedAt := r.now()
	if !updatedAt.After(ticket.UpdatedAt) {
		updatedAt = ticket.UpdatedAt.Add(time.Millisecond)
	}
	ticket.UpdatedAt = updatedAt

	collection[index] = ticket
	if err := r.store.Set(ctx, CollectionKey, collection); err != nil {
		return nil, err
	}

	r.logger.Info("ticket updated", zap.String("ticket_id", ticket.ID))
	r.publish(ctx, events.TicketUpdated, ticket)
	return &ticket, nil
}

// Delete removes a ticket once the caller confirms. The unconfirmed
// call mutates nothing and hands back the target so the caller can ask.
func (r *Repository) Delete(ctx context.Context, id string, confirmed bool) (*DeleteResult, error) {
	user, err := r.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	collection := r.readCollection(ctx)
	index := r.findOwned(collection, user.ID, id)
	if index < 0 {
		return nil, outcome.NotFound("ticket")
	}

	target := collection[index]
	if !confirmed {
		return &DeleteResult{RequiresConfirmation: true, Ticket: target}, nil
	}

	collection = append(collection[:index], collection[index+1:]...)
	if err := r.store.Set(ctx, CollectionKey, collection); err != nil {
		return nil, err
	}

	r.logger.Info("ticket deleted", zap.String("ticket_id", target.ID))
	r.publish(ctx, events.TicketDeleted, target)
	return &DeleteResult{Ticket: target}, nil
}

// GenerateTicketID produces a collision-free identifier: millisecond
// timestamp plus a random suffix, re-drawn until unseen. Uniqueness is
// a hard invariant, not best effort.
func (r *Repository) GenerateTicketID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		id := "TKT-" + strconv.FormatInt(r.now().UnixMilli(), 10) + "-" + suffix
		if _, taken := r.issued[id]; taken {
			continue
		}
		r.issued[id] = struct{}{}
		return id
	}
}

func (r *Repository) requireUser(ctx context.Context) (*domain.User, error) {
	if !r.sessions.IsAuthenticated(ctx) {
		return nil, outcome.Unauthenticated("not authenticated")
	}
	user := r.sessions.CurrentUser(ctx)
	if user == nil {
		return nil, outcome.Unauthenticated("not authenticated")
	}
	return user, nil
}

func (r *Repository) readCollection(ctx context.Context) []domain.Ticket {
	var collection []domain.Ticket
	if !r.store.Get(ctx, CollectionKey, &collection) {
		return []domain.Ticket{}
	}
	return collection
}

func (r *Repository) findOwned(collection []domain.Ticket, userID, id string) int {
	for i, ticket := range collection {
		if ticket.ID == id && ticket.UserID == userID {
			return i
		}
	}
	return -1
}

func (r *Repository) publish(ctx context.Context, eventType events.Type, ticket domain.Ticket) {
	if r.dispatcher == nil {
		return
	}
	_ = r.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticket.ID,
		UserID:    ticket.UserID,
		Origin:    r.origin,
		Timestamp: r.now(),
	})
}
