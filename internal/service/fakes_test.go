package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// The fakes below back the service tests with map-based storage. They
// mirror the contract of the pgx repositories, in particular returning
// pgx.ErrNoRows for absent records and a 23505 PgError for duplicate
// ratings.

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newFakeAssignmentService(assignments *memAssignmentRepo) *AssignmentService {
	return NewAssignmentService(assignments, newMemTechnicianRepo(), newMemTicketRepo())
}

type dispatcherRecorder struct {
	published []events.Event
}

func (d *dispatcherRecorder) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *dispatcherRecorder) Subscribe(events.EventType, events.EventHandler) {}

func (d *dispatcherRecorder) ofType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

type memTicketRepo struct {
	seq     int
	tickets map[string]domain.Ticket
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: map[string]domain.Ticket{}}
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *memTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *memTicketRepo) ListByRequester(ctx context.Context, requesterID string, limit, offset int) ([]domain.Ticket, error) {
	return r.ListWithFilter(ctx, repository.TicketFilter{RequesterID: &requesterID, Limit: limit, Offset: offset})
}

func (r *memTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.RequesterID != nil && ticket.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.StatusID != nil && ticket.StatusID != *filter.StatusID {
			continue
		}
		if filter.SearchTerm != nil &&
			!strings.Contains(strings.ToLower(ticket.Title), strings.ToLower(*filter.SearchTerm)) {
			continue
		}
		out = append(out, ticket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memCatalogRepo struct {
	categories    map[string]domain.Category
	subcategories map[string]domain.Subcategory
	priorities    map[string]domain.Priority
	statuses      map[string]domain.Status
	areas         map[string]domain.Area
}

func newMemCatalogRepo() *memCatalogRepo {
	return &memCatalogRepo{
		categories:    map[string]domain.Category{},
		subcategories: map[string]domain.Subcategory{},
		priorities:    map[string]domain.Priority{},
		statuses:      map[string]domain.Status{},
		areas:         map[string]domain.Area{},
	}
}

func (r *memCatalogRepo) addStatus(id, name string, isFinal bool) domain.Status {
	status := domain.Status{ID: id, Name: name, IsFinal: isFinal, CreatedAt: time.Now()}
	r.statuses[id] = status
	return status
}

func (r *memCatalogRepo) addPriority(id, name string, slaHours *int) domain.Priority {
	priority := domain.Priority{ID: id, Name: name, SLAHours: slaHours, CreatedAt: time.Now()}
	r.priorities[id] = priority
	return priority
}

func (r *memCatalogRepo) addArea(id, name string) domain.Area {
	area := domain.Area{ID: id, Name: name, CreatedAt: time.Now()}
	r.areas[id] = area
	return area
}

func (r *memCatalogRepo) addCategory(id, name string) domain.Category {
	category := domain.Category{ID: id, Name: name, Active: true, CreatedAt: time.Now()}
	r.categories[id] = category
	return category
}

func (r *memCatalogRepo) ListCategories(context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *memCatalogRepo) ListSubcategories(_ context.Context, categoryID string) ([]domain.Subcategory, error) {
	var out []domain.Subcategory
	for _, s := range r.subcategories {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memCatalogRepo) ListPriorities(context.Context) ([]domain.Priority, error) {
	var out []domain.Priority
	for _, p := range r.priorities {
		out = append(out, p)
	}
	return out, nil
}

func (r *memCatalogRepo) ListStatuses(context.Context) ([]domain.Status, error) {
	var out []domain.Status
	for _, s := range r.statuses {
		out = append(out, s)
	}
	return out, nil
}

func (r *memCatalogRepo) ListAreas(context.Context) ([]domain.Area, error) {
	var out []domain.Area
	for _, a := range r.areas {
		out = append(out, a)
	}
	return out, nil
}

func (r *memCatalogRepo) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &category, nil
}

func (r *memCatalogRepo) GetPriority(_ context.Context, id string) (*domain.Priority, error) {
	priority, ok := r.priorities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &priority, nil
}

func (r *memCatalogRepo) GetStatus(_ context.Context, id string) (*domain.Status, error) {
	status, ok := r.statuses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &status, nil
}

func (r *memCatalogRepo) GetArea(_ context.Context, id string) (*domain.Area, error) {
	area, ok := r.areas[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &area, nil
}

func (r *memCatalogRepo) CreateCategory(_ context.Context, category *domain.Category) error {
	category.ID = fmt.Sprintf("category-%d", len(r.categories)+1)
	category.CreatedAt = time.Now()
	r.categories[category.ID] = *category
	return nil
}

func (r *memCatalogRepo) UpdateCategory(_ context.Context, category *domain.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.categories[category.ID] = *category
	return nil
}

func (r *memCatalogRepo) CreateSubcategory(_ context.Context, subcategory *domain.Subcategory) error {
	subcategory.ID = fmt.Sprintf("subcategory-%d", len(r.subcategories)+1)
	subcategory.CreatedAt = time.Now()
	r.subcategories[subcategory.ID] = *subcategory
	return nil
}

func (r *memCatalogRepo) UpdateSubcategory(_ context.Context, subcategory *domain.Subcategory) error {
	if _, ok := r.subcategories[subcategory.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.subcategories[subcategory.ID] = *subcategory
	return nil
}

func (r *memCatalogRepo) CreatePriority(_ context.Context, priority *domain.Priority) error {
	priority.ID = fmt.Sprintf("priority-%d", len(r.priorities)+1)
	priority.CreatedAt = time.Now()
	r.priorities[priority.ID] = *priority
	return nil
}

func (r *memCatalogRepo) UpdatePriority(_ context.Context, priority *domain.Priority) error {
	if _, ok := r.priorities[priority.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.priorities[priority.ID] = *priority
	return nil
}

func (r *memCatalogRepo) CreateStatus(_ context.Context, status *domain.Status) error {
	status.ID = fmt.Sprintf("status-%d", len(r.statuses)+1)
	status.CreatedAt = time.Now()
	r.statuses[status.ID] = *status
	return nil
}

func (r *memCatalogRepo) UpdateStatus(_ context.Context, status *domain.Status) error {
	if _, ok := r.statuses[status.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.statuses[status.ID] = *status
	return nil
}

func (r *memCatalogRepo) CreateArea(_ context.Context, area *domain.Area) error {
	area.ID = fmt.Sprintf("area-%d", len(r.areas)+1)
	area.CreatedAt = time.Now()
	r.areas[area.ID] = *area
	return nil
}

func (r *memCatalogRepo) UpdateArea(_ context.Context, area *domain.Area) error {
	if _, ok := r.areas[area.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.areas[area.ID] = *area
	return nil
}

func (r *memCatalogRepo) EnsureStatus(_ context.Context, name, description string, isFinal bool) (*domain.Status, error) {
	for _, status := range r.statuses {
		if status.Name == name {
			return &status, nil
		}
	}
	status := domain.Status{
		ID:          "status-" + strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Name:        name,
		Description: description,
		IsFinal:     isFinal,
		CreatedAt:   time.Now(),
	}
	r.statuses[status.ID] = status
	return &status, nil
}

func (r *memCatalogRepo) FinalStatusIDs(context.Context) ([]string, error) {
	var out []string
	for id, status := range r.statuses {
		if status.IsFinal {
			out = append(out, id)
		}
	}
	return out, nil
}

type memTechnicianRepo struct {
	seq         int
	technicians map[string]domain.Technician
}

func newMemTechnicianRepo() *memTechnicianRepo {
	return &memTechnicianRepo{technicians: map[string]domain.Technician{}}
}

func (r *memTechnicianRepo) EnsureForUser(ctx context.Context, userID string) (*domain.Technician, error) {
	if existing, err := r.GetByUserID(ctx, userID); err == nil {
		return existing, nil
	}
	r.seq++
	technician := domain.Technician{
		ID:        fmt.Sprintf("tech-%d", r.seq),
		UserID:    userID,
		Active:    true,
		CreatedAt: time.Now(),
	}
	r.technicians[technician.ID] = technician
	return &technician, nil
}

func (r *memTechnicianRepo) GetByID(_ context.Context, id string) (*domain.Technician, error) {
	technician, ok := r.technicians[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &technician, nil
}

func (r *memTechnicianRepo) GetByUserID(_ context.Context, userID string) (*domain.Technician, error) {
	for _, technician := range r.technicians {
		if technician.UserID == userID {
			return &technician, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTechnicianRepo) Update(_ context.Context, technician *domain.Technician) error {
	if _, ok := r.technicians[technician.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.technicians[technician.ID] = *technician
	return nil
}

func (r *memTechnicianRepo) List(context.Context) ([]domain.Technician, error) {
	var out []domain.Technician
	for _, technician := range r.technicians {
		out = append(out, technician)
	}
	return out, nil
}

type memAssignmentRepo struct {
	seq    int
	active map[string]domain.Assignment

	// Optional, for the workload finality split.
	tickets *memTicketRepo
	catalog *memCatalogRepo
}

func newMemAssignmentRepo() *memAssignmentRepo {
	return &memAssignmentRepo{active: map[string]domain.Assignment{}}
}

func (r *memAssignmentRepo) Upsert(_ context.Context, assignment *domain.Assignment) error {
	if existing, ok := r.active[assignment.TicketID]; ok {
		existing.TechnicianID = assignment.TechnicianID
		existing.AssignedAt = time.Now()
		r.active[assignment.TicketID] = existing
		*assignment = existing
		return nil
	}
	r.seq++
	assignment.ID = fmt.Sprintf("assignment-%d", r.seq)
	assignment.Active = true
	assignment.AssignedAt = time.Now()
	r.active[assignment.TicketID] = *assignment
	return nil
}

func (r *memAssignmentRepo) GetActiveByTicket(_ context.Context, ticketID string) (*domain.Assignment, error) {
	assignment, ok := r.active[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &assignment, nil
}

func (r *memAssignmentRepo) ListActiveByTechnician(_ context.Context, technicianID string) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, assignment := range r.active {
		if assignment.TechnicianID == technicianID {
			out = append(out, assignment)
		}
	}
	return out, nil
}

func (r *memAssignmentRepo) Deactivate(_ context.Context, ticketID string) error {
	delete(r.active, ticketID)
	return nil
}

func (r *memAssignmentRepo) WorkloadByTechnician(context.Context) ([]repository.TechnicianWorkload, error) {
	byTech := map[string]*repository.TechnicianWorkload{}
	for _, assignment := range r.active {
		load, ok := byTech[assignment.TechnicianID]
		if !ok {
			load = &repository.TechnicianWorkload{TechnicianID: assignment.TechnicianID}
			byTech[assignment.TechnicianID] = load
		}
		if r.isFinal(assignment.TicketID) {
			load.ResolvedTickets++
		} else {
			load.OpenTickets++
		}
	}
	var out []repository.TechnicianWorkload
	for _, load := range byTech {
		out = append(out, *load)
	}
	return out, nil
}

func (r *memAssignmentRepo) isFinal(ticketID string) bool {
	if r.tickets == nil || r.catalog == nil {
		return false
	}
	ticket, ok := r.tickets.tickets[ticketID]
	if !ok {
		return false
	}
	status, ok := r.catalog.statuses[ticket.StatusID]
	return ok && status.IsFinal
}

type memCommentRepo struct {
	seq      int
	comments []domain.Comment
}

func newMemCommentRepo() *memCommentRepo { return &memCommentRepo{} }

func (r *memCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *memCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			out = append(out, comment)
		}
	}
	return out, nil
}

type memHistoryRepo struct {
	seq     int
	entries []domain.HistoryEntry
}

func newMemHistoryRepo() *memHistoryRepo { return &memHistoryRepo{} }

func (r *memHistoryRepo) Create(_ context.Context, entry *domain.HistoryEntry) error {
	r.seq++
	entry.ID = fmt.Sprintf("history-%d", r.seq)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memHistoryRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.HistoryEntry, error) {
	var out []domain.HistoryEntry
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *memHistoryRepo) forTicket(ticketID string) []domain.HistoryEntry {
	entries, _ := r.ListByTicket(context.Background(), ticketID)
	return entries
}

type memRatingRepo struct {
	seq     int
	ratings map[string]domain.Rating
}

func newMemRatingRepo() *memRatingRepo {
	return &memRatingRepo{ratings: map[string]domain.Rating{}}
}

func (r *memRatingRepo) Create(_ context.Context, rating *domain.Rating) error {
	if _, ok := r.ratings[rating.TicketID]; ok {
		return &pgconn.PgError{Code: "23505", ConstraintName: "ratings_ticket_id_key"}
	}
	r.seq++
	rating.ID = fmt.Sprintf("rating-%d", r.seq)
	rating.CreatedAt = time.Now()
	r.ratings[rating.TicketID] = *rating
	return nil
}

func (r *memRatingRepo) GetByTicket(_ context.Context, ticketID string) (*domain.Rating, error) {
	rating, ok := r.ratings[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &rating, nil
}

type memUserRepo struct {
	seq   int
	users map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]domain.User{}}
}

func (r *memUserRepo) add(user domain.User) domain.User {
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	r.users[user.ID] = user
	return user
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && user.Active != *filter.Active {
			continue
		}
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return r.List(ctx, repository.UserFilter{Role: &role})
}

type memNotificationRepo struct {
	seq           int
	notifications []domain.Notification
}

func newMemNotificationRepo() *memNotificationRepo { return &memNotificationRepo{} }

func (r *memNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	r.seq++
	notification.ID = fmt.Sprintf("notification-%d", r.seq)
	notification.SentAt = time.Now()
	if notification.Channel == "" {
		notification.Channel = domain.DefaultNotificationChannel
	}
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *memNotificationRepo) ListByRecipient(_ context.Context, recipientID string, limit, offset int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, notification := range r.notifications {
		if notification.RecipientID == recipientID {
			out = append(out, notification)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id, recipientID string) error {
	for i, notification := range r.notifications {
		if notification.ID == id && notification.RecipientID == recipientID {
			r.notifications[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context, recipientID string) error {
	for i, notification := range r.notifications {
		if notification.RecipientID == recipientID {
			r.notifications[i].Read = true
		}
	}
	return nil
}

func (r *memNotificationRepo) DeleteAllByRecipient(_ context.Context, recipientID string) error {
	kept := r.notifications[:0]
	for _, notification := range r.notifications {
		if notification.RecipientID != recipientID {
			kept = append(kept, notification)
		}
	}
	r.notifications = kept
	return nil
}

func (r *memNotificationRepo) CountUnread(_ context.Context, recipientID string) (int, error) {
	count := 0
	for _, notification := range r.notifications {
		if notification.RecipientID == recipientID && !notification.Read {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) forRecipient(recipientID string) []domain.Notification {
	out, _ := r.ListByRecipient(context.Background(), recipientID, 0, 0)
	return out
}
