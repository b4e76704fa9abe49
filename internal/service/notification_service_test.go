package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

type notificationFixture struct {
	svc           *NotificationService
	dispatcher    events.Dispatcher
	notifications *memNotificationRepo
	users         *memUserRepo
	technicians   *memTechnicianRepo
	assignments   *memAssignmentRepo

	admin1, admin2, requester, techUser domain.User
	tech                                *domain.Technician
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()

	f := &notificationFixture{
		dispatcher:    events.NewInMemoryDispatcher(),
		notifications: newMemNotificationRepo(),
		users:         newMemUserRepo(),
		technicians:   newMemTechnicianRepo(),
		assignments:   newMemAssignmentRepo(),
	}
	f.admin1 = f.users.add(domain.User{ID: "admin-1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleAdmin, Active: true})
	f.admin2 = f.users.add(domain.User{ID: "admin-2", Name: "Bruno", Email: "bruno@example.com", Role: domain.RoleAdmin, Active: true})
	f.requester = f.users.add(domain.User{ID: "req-1", Name: "Rita", Email: "rita@example.com", Role: domain.RoleRequester, Active: true})
	f.techUser = f.users.add(domain.User{ID: "tech-user-1", Name: "Tomas", Email: "tomas@example.com", Role: domain.RoleTechnician, Active: true})
	tech, err := f.technicians.EnsureForUser(context.Background(), f.techUser.ID)
	require.NoError(t, err)
	f.tech = tech

	f.svc = NewNotificationService(NotificationDependencies{
		Dispatcher:       f.dispatcher,
		NotificationRepo: f.notifications,
		UserRepo:         f.users,
		TechnicianRepo:   f.technicians,
		AssignmentRepo:   f.assignments,
		Logger:           zap.NewNop(),
		Config:           config.NotificationConfig{Channel: "portal"},
	})
	f.svc.RegisterHandlers()
	return f
}

func TestTicketCreatedNotifiesEveryAdmin(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.dispatcher.Publish(context.Background(), events.Event{
		ID:       "evt-1",
		Type:     events.EventTicketCreated,
		TicketID: "ticket-1",
		Payload: events.TicketCreatedPayload{
			Title:          "Printer offline",
			RequesterID:    f.requester.ID,
			RequesterEmail: f.requester.Email,
		},
	})
	require.NoError(t, err)

	for _, admin := range []domain.User{f.admin1, f.admin2} {
		inbox := f.notifications.forRecipient(admin.ID)
		require.Len(t, inbox, 1)
		require.Equal(t, domain.NotificationTicketCreated, inbox[0].Type)
		require.Equal(t, "ticket-1", *inbox[0].TicketID)
		require.False(t, inbox[0].Read)
	}
	require.Empty(t, f.notifications.forRecipient(f.requester.ID))
}

func TestStatusChangeNotifiesRequester(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: "ticket-1",
		Payload: events.TicketStatusChangedPayload{
			RequesterID:   f.requester.ID,
			NewStatusID:   "status-resolved",
			NewStatusName: "Resolved",
		},
	})
	require.NoError(t, err)

	inbox := f.notifications.forRecipient(f.requester.ID)
	require.Len(t, inbox, 1)
	require.Equal(t, domain.NotificationStatusChanged, inbox[0].Type)
	require.Contains(t, inbox[0].Message, "Resolved")
}

func TestStatusChangeWithoutStatusNameUsesGenericMessage(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: "ticket-1",
		Payload: events.TicketStatusChangedPayload{
			RequesterID: f.requester.ID,
			NewStatusID: "status-open",
		},
	})
	require.NoError(t, err)

	inbox := f.notifications.forRecipient(f.requester.ID)
	require.Len(t, inbox, 1)
	require.Equal(t, "Your ticket was updated.", inbox[0].Message)
}

func TestAssignmentNotifiesTechnician(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: "ticket-1",
		Payload: events.TicketAssignedPayload{
			TechnicianID:     f.tech.ID,
			TechnicianUserID: f.techUser.ID,
			Title:            "Printer offline",
		},
	})
	require.NoError(t, err)

	inbox := f.notifications.forRecipient(f.techUser.ID)
	require.Len(t, inbox, 1)
	require.Equal(t, domain.NotificationTicketAssigned, inbox[0].Type)
}

func TestStaffCommentNotifiesRequester(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: "ticket-1",
		Payload: events.TicketCommentAddedPayload{
			AuthorID:    f.techUser.ID,
			AuthorName:  f.techUser.Name,
			AuthorRole:  domain.RoleTechnician,
			RequesterID: f.requester.ID,
			TextPreview: "Replaced the toner.",
		},
	})
	require.NoError(t, err)

	require.Len(t, f.notifications.forRecipient(f.requester.ID), 1)
	require.Empty(t, f.notifications.forRecipient(f.techUser.ID))
}

func TestRequesterCommentNotifiesActiveAssignee(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.assignments.Upsert(context.Background(), &domain.Assignment{
		TicketID: "ticket-1", TechnicianID: f.tech.ID,
	}))

	err := f.dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: "ticket-1",
		Payload: events.TicketCommentAddedPayload{
			AuthorID:    f.requester.ID,
			AuthorName:  f.requester.Name,
			AuthorRole:  domain.RoleRequester,
			RequesterID: f.requester.ID,
			TextPreview: "Still not printing.",
		},
	})
	require.NoError(t, err)

	require.Len(t, f.notifications.forRecipient(f.techUser.ID), 1)
	require.Empty(t, f.notifications.forRecipient(f.requester.ID))
}

func TestRequesterCommentWithoutAssigneeIsDropped(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: "ticket-1",
		Payload: events.TicketCommentAddedPayload{
			AuthorID:    f.requester.ID,
			AuthorRole:  domain.RoleRequester,
			RequesterID: f.requester.ID,
			TextPreview: "Anyone there?",
		},
	})
	require.NoError(t, err)
	require.Empty(t, f.notifications.notifications)
}

func TestPasswordResetRequestNotifiesAdmins(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventPasswordResetRequested,
		Payload: events.PasswordResetRequestedPayload{
			UserID:    f.requester.ID,
			UserName:  f.requester.Name,
			UserEmail: f.requester.Email,
		},
	})
	require.NoError(t, err)

	require.Len(t, f.notifications.forRecipient(f.admin1.ID), 1)
	require.Len(t, f.notifications.forRecipient(f.admin2.ID), 1)
	require.Nil(t, f.notifications.forRecipient(f.admin1.ID)[0].TicketID)
}

func TestInboxLifecycle(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, f.notifications.Create(ctx, &domain.Notification{
			RecipientID: f.requester.ID,
			Type:        domain.NotificationStatusChanged,
			Title:       "Ticket updated",
			Message:     "Your ticket moved.",
		}))
	}

	count, err := f.svc.UnreadCount(ctx, f.requester.ID)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	inbox, err := f.svc.ListForRecipient(ctx, f.requester.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 3)

	require.NoError(t, f.svc.MarkRead(ctx, f.requester.ID, inbox[0].ID))
	count, err = f.svc.UnreadCount(ctx, f.requester.ID)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	// A recipient cannot touch another user's notification.
	err = f.svc.MarkRead(ctx, f.admin1.ID, inbox[1].ID)
	require.Error(t, err)

	require.NoError(t, f.svc.MarkAllRead(ctx, f.requester.ID))
	count, err = f.svc.UnreadCount(ctx, f.requester.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	require.NoError(t, f.svc.DeleteAll(ctx, f.requester.ID))
	inbox, err = f.svc.ListForRecipient(ctx, f.requester.ID, 50, 0)
	require.NoError(t, err)
	require.Empty(t, inbox)
}
