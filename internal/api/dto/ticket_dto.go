package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title             string  `json:"title" validate:"required"`
	Description       string  `json:"description" validate:"required"`
	AreaID            string  `json:"area_id" validate:"required"`
	CategoryID        *string `json:"category_id"`
	SubcategoryID     *string `json:"subcategory_id"`
	PriorityID        *string `json:"priority_id"`
	AttachmentPath    *string `json:"attachment_path"`
	SLAHoursObjective *int    `json:"sla_hours_objective" validate:"omitempty,gt=0"`
}

// UpdateTicketRequest payload. Omitted fields are left untouched.
type UpdateTicketRequest struct {
	CategoryID    *string `json:"category_id"`
	SubcategoryID *string `json:"subcategory_id"`
	PriorityID    *string `json:"priority_id"`
	AreaID        *string `json:"area_id"`
	StatusID      *string `json:"status_id"`
	TechnicianID  *string `json:"technician_id"`
	Comment       string  `json:"comment"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Text           string  `json:"text" validate:"required"`
	AttachmentPath *string `json:"attachment_path"`
}

// CreateRatingRequest payload.
type CreateRatingRequest struct {
	Score    int    `json:"score" validate:"required,min=1,max=5"`
	Resolved bool   `json:"resolved"`
	Comment  string `json:"comment"`
}

// SLAResponse reports the derived deadline and compliance state.
type SLAResponse struct {
	Deadline  *time.Time           `json:"deadline,omitempty"`
	Status    sla.ComplianceStatus `json:"status"`
	Compliant *bool                `json:"compliant,omitempty"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	RequesterID string     `json:"requester_id"`
	StatusID    string     `json:"status_id"`
	PriorityID  *string    `json:"priority_id"`
	AreaID      string     `json:"area_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

// TicketDetailResponse provides the full ticket view.
type TicketDetailResponse struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	RequesterID       string                 `json:"requester_id"`
	CategoryID        *string                `json:"category_id"`
	SubcategoryID     *string                `json:"subcategory_id"`
	PriorityID        *string                `json:"priority_id"`
	AreaID            string                 `json:"area_id"`
	StatusID          string                 `json:"status_id"`
	AttachmentPath    *string                `json:"attachment_path,omitempty"`
	SLAHoursObjective *int                   `json:"sla_hours_objective,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	ClosedAt          *time.Time             `json:"closed_at,omitempty"`
	SLA               SLAResponse            `json:"sla"`
	Assignment        *AssignmentResponse    `json:"assignment,omitempty"`
	Rating            *RatingResponse        `json:"rating,omitempty"`
	Comments          []CommentResponse      `json:"comments"`
	History           []HistoryEntryResponse `json:"history"`
}

// AssignmentResponse response.
type AssignmentResponse struct {
	ID           string    `json:"id"`
	TechnicianID string    `json:"technician_id"`
	AssignedAt   time.Time `json:"assigned_at"`
}

// CommentResponse response.
type CommentResponse struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"author_id"`
	Text           string    `json:"text"`
	AttachmentPath *string   `json:"attachment_path,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RatingResponse response.
type RatingResponse struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	Resolved  bool      `json:"resolved"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntryResponse response.
type HistoryEntryResponse struct {
	ID               string    `json:"id"`
	ActorID          *string   `json:"actor_id"`
	PreviousStatusID *string   `json:"previous_status_id"`
	NewStatusID      *string   `json:"new_status_id"`
	Comment          string    `json:"comment"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewTicketSummary maps a domain ticket.
func NewTicketSummary(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:          ticket.ID,
		Title:       ticket.Title,
		RequesterID: ticket.RequesterID,
		StatusID:    ticket.StatusID,
		PriorityID:  ticket.PriorityID,
		AreaID:      ticket.AreaID,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		ClosedAt:    ticket.ClosedAt,
	}
}

// NewTicketDetail maps the aggregated ticket view.
func NewTicketDetail(ticket *domain.Ticket, result sla.Result, assignment *domain.Assignment, rating *domain.Rating, comments []domain.Comment, history []domain.HistoryEntry) TicketDetailResponse {
	resp := TicketDetailResponse{
		ID:                ticket.ID,
		Title:             ticket.Title,
		Description:       ticket.Description,
		RequesterID:       ticket.RequesterID,
		CategoryID:        ticket.CategoryID,
		SubcategoryID:     ticket.SubcategoryID,
		PriorityID:        ticket.PriorityID,
		AreaID:            ticket.AreaID,
		StatusID:          ticket.StatusID,
		AttachmentPath:    ticket.AttachmentPath,
		SLAHoursObjective: ticket.SLAHoursObjective,
		CreatedAt:         ticket.CreatedAt,
		UpdatedAt:         ticket.UpdatedAt,
		ClosedAt:          ticket.ClosedAt,
		SLA: SLAResponse{
			Deadline:  result.Deadline,
			Status:    result.Status,
			Compliant: result.Compliant,
		},
		Comments: make([]CommentResponse, 0, len(comments)),
		History:  make([]HistoryEntryResponse, 0, len(history)),
	}
	if assignment != nil {
		resp.Assignment = &AssignmentResponse{
			ID:           assignment.ID,
			TechnicianID: assignment.TechnicianID,
			AssignedAt:   assignment.AssignedAt,
		}
	}
	if rating != nil {
		resp.Rating = &RatingResponse{
			ID:        rating.ID,
			Score:     rating.Score,
			Resolved:  rating.Resolved,
			Comment:   rating.Comment,
			CreatedAt: rating.CreatedAt,
		}
	}
	for _, comment := range comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:             comment.ID,
			AuthorID:       comment.AuthorID,
			Text:           comment.Text,
			AttachmentPath: comment.AttachmentPath,
			CreatedAt:      comment.CreatedAt,
		})
	}
	for _, entry := range history {
		resp.History = append(resp.History, HistoryEntryResponse{
			ID:               entry.ID,
			ActorID:          entry.ActorID,
			PreviousStatusID: entry.PreviousStatusID,
			NewStatusID:      entry.NewStatusID,
			Comment:          entry.Comment,
			CreatedAt:        entry.CreatedAt,
		})
	}
	return resp
}
