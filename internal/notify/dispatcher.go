// Package notify turns domain events into stored notifications. Dispatch is
// asynchronous and post-commit: services emit events only after their own
// writes succeed, and a failed delivery is logged, never propagated back to
// the request that caused it.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/storage"
)

var (
	dispatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_dispatched_total",
		Help: "Notifications written to the store, by event kind.",
	}, []string{"kind"})
	failedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Notification deliveries that failed, by event kind.",
	}, []string{"kind"})
	droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_dropped_total",
		Help: "Events dropped because the dispatch queue was full.",
	})
)

// Event is a domain occurrence someone should hear about.
type Event interface {
	// Kind names the event for logs and metrics.
	Kind() string
	// Recipient is the user the notification is for.
	Recipient() string
	// Render produces the notification title and message.
	Render() (title, message string)
}

// CollaboratorAdded fires when a user is added to a list.
type CollaboratorAdded struct {
	RecipientID string
	ListName    string
	InviterName string
}

func (e CollaboratorAdded) Kind() string      { return "collaborator_added" }
func (e CollaboratorAdded) Recipient() string { return e.RecipientID }
func (e CollaboratorAdded) Render() (string, string) {
	return "Added to a list",
		fmt.Sprintf("%s added you to the list %q", e.InviterName, e.ListName)
}

// NewFollower fires when a user gains a follower.
type NewFollower struct {
	RecipientID  string
	FollowerName string
}

func (e NewFollower) Kind() string      { return "new_follower" }
func (e NewFollower) Recipient() string { return e.RecipientID }
func (e NewFollower) Render() (string, string) {
	return "New follower",
		fmt.Sprintf("%s started following you", e.FollowerName)
}

// Dispatcher consumes events on a buffered queue and persists them as
// notifications on a single worker goroutine.
type Dispatcher struct {
	store  storage.Store
	log    *slog.Logger
	events chan Event

	closeOnce sync.Once
	done      chan struct{}
}

// NewDispatcher starts the worker. Close must be called to drain the queue
// on shutdown.
func NewDispatcher(store storage.Store, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		log:    log,
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Dispatch enqueues an event without blocking. When the queue is full the
// event is dropped and counted; losing a notification is preferable to
// stalling the request that produced it.
func (d *Dispatcher) Dispatch(event Event) {
	select {
	case d.events <- event:
	default:
		droppedTotal.Inc()
		d.log.Warn("notification queue full, dropping event",
			"kind", event.Kind(), "recipient", event.Recipient())
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.events)
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.events {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event Event) {
	title, message := event.Render()
	n := &models.Notification{
		UserID:  event.Recipient(),
		Title:   title,
		Message: message,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.store.CreateNotification(ctx, n); err != nil {
		failedTotal.WithLabelValues(event.Kind()).Inc()
		d.log.Error("failed to deliver notification",
			"kind", event.Kind(), "recipient", event.Recipient(), "error", err)
		return
	}
	dispatchedTotal.WithLabelValues(event.Kind()).Inc()
	d.log.Debug("notification delivered",
		"kind", event.Kind(), "recipient", event.Recipient())
}
