package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const (
	openStatusName        = "Open"
	openStatusDescription = "Ticket awaiting triage"

	commentTicketCreated    = "Ticket created by requester."
	commentAdminUpdate      = "Update applied by administrator."
	commentTechnicianUpdate = "Update applied by technician."
)

// Actor is the authenticated caller of a lifecycle operation. Technician
// is set only for users holding the technician role.
type Actor struct {
	User       *domain.User
	Technician *domain.Technician
}

// TicketService is the single entry point for ticket mutations. It
// enforces role and ownership rules, sequences the side effects of each
// mutation inside one transaction, and publishes events once the
// transaction has committed.
type TicketService struct {
	tickets     repository.TicketRepository
	catalog     repository.CatalogRepository
	technicians repository.TechnicianRepository
	assignments *AssignmentService
	comments    repository.CommentRepository
	ratings     repository.RatingRepository
	history     repository.HistoryRepository
	tx          repository.TxManager
	dispatcher  events.Dispatcher

	atRiskThreshold float64
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo        repository.TicketRepository
	CatalogRepo       repository.CatalogRepository
	TechnicianRepo    repository.TechnicianRepository
	AssignmentManager *AssignmentService
	CommentRepo       repository.CommentRepository
	RatingRepo        repository.RatingRepository
	HistoryRepo       repository.HistoryRepository
	TxManager         repository.TxManager
	Dispatcher        events.Dispatcher
	AtRiskThreshold   float64
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Title             string
	Description       string
	AreaID            string
	CategoryID        *string
	SubcategoryID     *string
	PriorityID        *string
	AttachmentPath    *string
	SLAHoursObjective *int
}

// TicketUpdateInput carries the mutable ticket fields. Nil means the
// field is left untouched.
type TicketUpdateInput struct {
	CategoryID    *string
	SubcategoryID *string
	PriorityID    *string
	AreaID        *string
	StatusID      *string
	TechnicianID  *string
	Comment       string
}

// HasStateChange reports whether any state-affecting field is supplied.
func (in TicketUpdateInput) HasStateChange() bool {
	return in.CategoryID != nil || in.SubcategoryID != nil || in.PriorityID != nil ||
		in.AreaID != nil || in.StatusID != nil || in.TechnicianID != nil
}

// TicketListInput describes listing filters for the ticket index.
type TicketListInput struct {
	StatusID     *string
	PriorityID   *string
	AreaID       *string
	CategoryID   *string
	TechnicianID *string
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// TicketDetail aggregates a ticket with its satellite records.
type TicketDetail struct {
	Ticket     *domain.Ticket
	Comments   []domain.Comment
	History    []domain.HistoryEntry
	Assignment *domain.Assignment
	Rating     *domain.Rating
	SLA        sla.Result
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	threshold := deps.AtRiskThreshold
	if threshold <= 0 || threshold >= 1 {
		threshold = sla.DefaultAtRiskThreshold
	}
	return &TicketService{
		tickets:         deps.TicketRepo,
		catalog:         deps.CatalogRepo,
		technicians:     deps.TechnicianRepo,
		assignments:     deps.AssignmentManager,
		comments:        deps.CommentRepo,
		ratings:         deps.RatingRepo,
		history:         deps.HistoryRepo,
		tx:              deps.TxManager,
		dispatcher:      deps.Dispatcher,
		atRiskThreshold: threshold,
	}
}

// Create opens a new ticket for the requester. Title, description and
// area are required. The well-known "Open" status is resolved with a
// get-or-create so an empty catalog does not block intake, the initial
// history entry carries a nil previous status, and every administrator
// is notified.
func (s *TicketService) Create(ctx context.Context, requester *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	missing := map[string]any{}
	if strings.TrimSpace(input.Title) == "" {
		missing["title"] = "required"
	}
	if strings.TrimSpace(input.Description) == "" {
		missing["description"] = "required"
	}
	if strings.TrimSpace(input.AreaID) == "" {
		missing["area_id"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("title, description and area are required", missing)
	}

	if _, err := s.catalog.GetArea(ctx, input.AreaID); err != nil {
		return nil, s.mapCatalogErr(err, "area")
	}
	if input.PriorityID != nil {
		if _, err := s.catalog.GetPriority(ctx, *input.PriorityID); err != nil {
			return nil, s.mapCatalogErr(err, "priority")
		}
	}
	if input.CategoryID != nil {
		if _, err := s.catalog.GetCategory(ctx, *input.CategoryID); err != nil {
			return nil, s.mapCatalogErr(err, "category")
		}
	}

	ticket := &domain.Ticket{
		Title:             strings.TrimSpace(input.Title),
		Description:       strings.TrimSpace(input.Description),
		RequesterID:       requester.ID,
		CategoryID:        input.CategoryID,
		SubcategoryID:     input.SubcategoryID,
		PriorityID:        input.PriorityID,
		AreaID:            input.AreaID,
		AttachmentPath:    input.AttachmentPath,
		SLAHoursObjective: input.SLAHoursObjective,
	}

	err := s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		openStatus, err := s.catalog.EnsureStatus(txCtx, openStatusName, openStatusDescription, false)
		if err != nil {
			return err
		}
		ticket.StatusID = openStatus.ID
		if err := s.tickets.Create(txCtx, ticket); err != nil {
			return err
		}
		entry := &domain.HistoryEntry{
			TicketID:    ticket.ID,
			ActorID:     &requester.ID,
			NewStatusID: &ticket.StatusID,
			Comment:     commentTicketCreated,
		}
		return s.history.Create(txCtx, entry)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: requester.ID, Role: requester.Role},
		Payload: events.TicketCreatedPayload{
			Title:          ticket.Title,
			RequesterID:    requester.ID,
			RequesterEmail: requester.Email,
		},
	})
	return ticket, nil
}

// Update applies field changes to a ticket. Administrators may change
// any field; a technician may change only the status, and only on a
// ticket they are actively assigned to. One history entry captures the
// previous and new status together with the supplied comment; when no
// comment is given a default phrasing distinguishes the actor role.
func (s *TicketService) Update(ctx context.Context, actor Actor, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.mapTicketErr(err)
	}

	switch actor.User.Role {
	case domain.RoleAdmin:
	case domain.RoleTechnician:
		if input.CategoryID != nil || input.SubcategoryID != nil || input.PriorityID != nil ||
			input.AreaID != nil || input.TechnicianID != nil {
			return nil, apperrors.NewPermissionDenied("technicians may only change the ticket status")
		}
		if err := s.requireActiveAssignment(ctx, actor, ticket.ID); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewPermissionDenied("requesters cannot update tickets")
	}

	if !input.HasStateChange() {
		return ticket, nil
	}

	prevStatusID := ticket.StatusID
	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		if actor.User.Role == domain.RoleTechnician {
			comment = commentTechnicianUpdate
		} else {
			comment = commentAdminUpdate
		}
	}

	if input.CategoryID != nil {
		if _, err := s.catalog.GetCategory(ctx, *input.CategoryID); err != nil {
			return nil, s.mapCatalogErr(err, "category")
		}
		ticket.CategoryID = input.CategoryID
	}
	if input.SubcategoryID != nil {
		ticket.SubcategoryID = input.SubcategoryID
	}
	if input.PriorityID != nil {
		if _, err := s.catalog.GetPriority(ctx, *input.PriorityID); err != nil {
			return nil, s.mapCatalogErr(err, "priority")
		}
		ticket.PriorityID = input.PriorityID
	}
	if input.AreaID != nil {
		if _, err := s.catalog.GetArea(ctx, *input.AreaID); err != nil {
			return nil, s.mapCatalogErr(err, "area")
		}
		ticket.AreaID = *input.AreaID
	}

	var newStatus *domain.Status
	if input.StatusID != nil {
		newStatus, err = s.catalog.GetStatus(ctx, *input.StatusID)
		if err != nil {
			return nil, s.mapCatalogErr(err, "status")
		}
		ticket.StatusID = newStatus.ID
		s.applyCloseStamp(ticket, newStatus)
	}

	var technician *domain.Technician
	if input.TechnicianID != nil {
		technician, err = s.technicians.GetByID(ctx, *input.TechnicianID)
		if err != nil {
			return nil, s.mapCatalogErr(err, "technician")
		}
	}

	err = s.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.tickets.Update(txCtx, ticket); err != nil {
			return err
		}
		if technician != nil {
			if _, err := s.assignments.Assign(txCtx, ticket.ID, technician.ID); err != nil {
				return err
			}
		}
		entry := &domain.HistoryEntry{
			TicketID:         ticket.ID,
			ActorID:          &actor.User.ID,
			PreviousStatusID: &prevStatusID,
			NewStatusID:      &ticket.StatusID,
			Comment:          comment,
		}
		return s.history.Create(txCtx, entry)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	statusName := ""
	if newStatus != nil {
		statusName = newStatus.Name
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: actor.User.ID, Role: actor.User.Role},
		Payload: events.TicketStatusChangedPayload{
			RequesterID:   ticket.RequesterID,
			OldStatusID:   &prevStatusID,
			NewStatusID:   ticket.StatusID,
			NewStatusName: statusName,
			Comment:       comment,
		},
	})
	if technician != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Actor:    events.Actor{UserID: actor.User.ID, Role: actor.User.Role},
			Payload: events.TicketAssignedPayload{
				TechnicianID:     technician.ID,
				TechnicianUserID: technician.UserID,
				Title:            ticket.Title,
			},
		})
	}
	return ticket, nil
}

// AddComment appends to the ticket conversation. Any administrator or
// technician may comment, the requester only on their own ticket. The
// other party is notified; the commenter never is.
func (s *TicketService) AddComment(ctx context.Context, actor Actor, ticketID, text string, attachmentPath *string) (*domain.Comment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.mapTicketErr(err)
	}
	if !actor.User.Role.Can(domain.CapViewAllTickets) && ticket.RequesterID != actor.User.ID {
		return nil, apperrors.NewPermissionDenied("ticket belongs to another requester")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("comment text is required", map[string]any{"text": "required"})
	}

	comment := &domain.Comment{
		TicketID:       ticket.ID,
		AuthorID:       actor.User.ID,
		Text:           strings.TrimSpace(text),
		AttachmentPath: attachmentPath,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: actor.User.ID, Role: actor.User.Role},
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorID:    actor.User.ID,
			AuthorName:  actor.User.Name,
			AuthorRole:  actor.User.Role,
			RequesterID: ticket.RequesterID,
			TextPreview: textPreview(comment.Text, 120),
		},
	})
	return comment, nil
}

// Rate records the requester's satisfaction score for their ticket.
// Submission is idempotent: once a rating exists, later calls return it
// unchanged instead of erroring.
func (s *TicketService) Rate(ctx context.Context, requester *domain.User, ticketID string, score int, resolved bool, comment string) (*domain.Rating, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.mapTicketErr(err)
	}
	if ticket.RequesterID != requester.ID {
		return nil, apperrors.NewPermissionDenied("only the ticket requester may rate it")
	}
	if score < 1 || score > 5 {
		return nil, apperrors.NewValidationError("score must be between 1 and 5", map[string]any{"score": score})
	}

	if existing, err := s.ratings.GetByTicket(ctx, ticketID); err == nil {
		return existing, nil
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	rating := &domain.Rating{
		TicketID: ticket.ID,
		AuthorID: requester.ID,
		Score:    score,
		Resolved: resolved,
		Comment:  comment,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		// A concurrent submission won the insert race; first wins.
		if repository.IsUniqueViolation(err) {
			return s.ratings.GetByTicket(ctx, ticketID)
		}
		return nil, apperrors.MapError(err)
	}
	return rating, nil
}

// Delete removes a ticket and everything hanging off it. Admin only.
func (s *TicketService) Delete(ctx context.Context, actor Actor, ticketID string) error {
	if actor.User.Role != domain.RoleAdmin {
		return apperrors.NewPermissionDenied("only administrators may delete tickets")
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return s.mapTicketErr(err)
	}
	return nil
}

// Get returns the full detail view of a ticket the actor may read.
func (s *TicketService) Get(ctx context.Context, actor Actor, ticketID string) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.mapTicketErr(err)
	}
	if !actor.User.Role.Can(domain.CapViewAllTickets) && ticket.RequesterID != actor.User.ID {
		return nil, apperrors.NewPermissionDenied("ticket belongs to another requester")
	}

	detail := &TicketDetail{Ticket: ticket}
	if detail.Comments, err = s.comments.ListByTicket(ctx, ticketID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if detail.History, err = s.history.ListByTicket(ctx, ticketID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if detail.Assignment, err = s.assignments.ActiveAssignment(ctx, ticketID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if rating, err := s.ratings.GetByTicket(ctx, ticketID); err == nil {
		detail.Rating = rating
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}
	if detail.SLA, err = s.EvaluateSLA(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return detail, nil
}

// List returns tickets visible to the actor. Requesters see only their
// own tickets regardless of the supplied filters.
func (s *TicketService) List(ctx context.Context, actor Actor, input TicketListInput) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		StatusID:     input.StatusID,
		PriorityID:   input.PriorityID,
		AreaID:       input.AreaID,
		CategoryID:   input.CategoryID,
		TechnicianID: input.TechnicianID,
		SearchTerm:   input.SearchTerm,
		CreatedFrom:  input.CreatedFrom,
		CreatedTo:    input.CreatedTo,
		Limit:        input.Limit,
		Offset:       input.Offset,
	}
	if !actor.User.Role.Can(domain.CapViewAllTickets) {
		requesterID := actor.User.ID
		filter.RequesterID = &requesterID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// EvaluateSLA derives the SLA deadline and compliance status for a
// ticket at the current time.
func (s *TicketService) EvaluateSLA(ctx context.Context, ticket *domain.Ticket) (sla.Result, error) {
	input := sla.Input{
		CreatedAt:     ticket.CreatedAt,
		OverrideHours: ticket.SLAHoursObjective,
		ClosedAt:      ticket.ClosedAt,
		Now:           time.Now(),
	}
	if ticket.PriorityID != nil {
		priority, err := s.catalog.GetPriority(ctx, *ticket.PriorityID)
		if err != nil {
			return sla.Result{}, err
		}
		input.PriorityHours = priority.SLAHours
	}
	status, err := s.catalog.GetStatus(ctx, ticket.StatusID)
	if err != nil {
		return sla.Result{}, err
	}
	input.IsFinal = status.IsFinal
	return sla.EvaluateWithThreshold(input, s.atRiskThreshold), nil
}

// applyCloseStamp keeps the close timestamp in lockstep with status
// finality: entering a final status stamps it once, leaving one clears it.
func (s *TicketService) applyCloseStamp(ticket *domain.Ticket, status *domain.Status) {
	if status.IsFinal {
		if ticket.ClosedAt == nil {
			now := time.Now()
			ticket.ClosedAt = &now
		}
		return
	}
	ticket.ClosedAt = nil
}

func (s *TicketService) requireActiveAssignment(ctx context.Context, actor Actor, ticketID string) error {
	if actor.Technician == nil {
		return apperrors.NewPermissionDenied("technician profile required")
	}
	assignment, err := s.assignments.ActiveAssignment(ctx, ticketID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if assignment == nil || assignment.TechnicianID != actor.Technician.ID {
		return apperrors.NewPermissionDenied("technician is not assigned to this ticket")
	}
	return nil
}

func (s *TicketService) mapTicketErr(err error) error {
	if err == pgx.ErrNoRows {
		return apperrors.NewNotFound("ticket", nil)
	}
	return apperrors.MapError(err)
}

func (s *TicketService) mapCatalogErr(err error, resource string) error {
	if err == pgx.ErrNoRows {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.MapError(err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// textPreview truncates to max runes so multibyte text is never cut
// mid-character.
func textPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) <= max {
		return body
	}
	runes := []rune(body)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
