package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/notifyhub/pkg/channels"
	"github.com/dmitrymomot/notifyhub/pkg/eventbus"
	"github.com/dmitrymomot/notifyhub/pkg/notifications"
)

// EventTypeNotification is the event type delivery records are pushed under.
const EventTypeNotification = "notification"

// Dispatcher turns "notification created" facts into durable records plus
// best-effort pushes. The store write comes first: real-time delivery may
// fail or reach nobody, and the paginated backfill owns recovery either way.
type Dispatcher struct {
	store  notifications.Store
	bus    eventbus.Bus
	logger *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger for the Dispatcher.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher on top of the store and bus.
func NewDispatcher(store notifications.Store, bus eventbus.Bus, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		bus:    bus,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify stores a notification for one receiver and pushes the resulting
// delivery record on the receiver's user channel.
func (d *Dispatcher) Notify(ctx context.Context, receiverID string, sender notifications.Sender, notif notifications.Notification) (notifications.DeliveryRecord, error) {
	rec, err := d.store.Create(ctx, receiverID, sender, notif)
	if err != nil {
		return notifications.DeliveryRecord{}, fmt.Errorf("failed to store notification: %w", err)
	}

	d.push(ctx, rec)
	return rec, nil
}

// NotifyUsers fans one notification template out to multiple receivers, each
// getting their own delivery record and push.
func (d *Dispatcher) NotifyUsers(ctx context.Context, receiverIDs []string, sender notifications.Sender, template notifications.Notification) ([]notifications.DeliveryRecord, error) {
	records := make([]notifications.DeliveryRecord, 0, len(receiverIDs))
	for _, receiverID := range receiverIDs {
		rec, err := d.store.Create(ctx, receiverID, sender, template)
		if err != nil {
			return records, fmt.Errorf("failed to store notification for user %s: %w", receiverID, err)
		}
		records = append(records, rec)
	}

	for _, rec := range records {
		d.push(ctx, rec)
	}
	return records, nil
}

// push emits a delivery record on its receiver's channel. Failures are
// logged, never returned: the record is already persisted and the client's
// next paginated fetch will surface it.
func (d *Dispatcher) push(ctx context.Context, rec notifications.DeliveryRecord) {
	evt, err := eventbus.NewEvent(channels.UserChannel(rec.ReceiverID), EventTypeNotification, rec)
	if err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to encode notification push",
			slog.Int64("notification_id", rec.Notification.ID),
			slog.String("user_id", rec.ReceiverID),
			slog.Any("error", err),
		)
		return
	}
	if err := d.bus.Emit(ctx, evt); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to push notification, but it was stored successfully",
			slog.Int64("notification_id", rec.Notification.ID),
			slog.String("user_id", rec.ReceiverID),
			slog.Any("error", err),
		)
	}
}
