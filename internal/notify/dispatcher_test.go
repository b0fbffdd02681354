package notify

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/storage"
	"github.com/wanderlist/server/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store storage.Store, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, DisplayName: "Test User"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestDispatcherDeliversEvents(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	alice := createTestUser(t, store, "alice@example.com")

	d := NewDispatcher(store, slog.Default())
	d.Dispatch(CollaboratorAdded{
		RecipientID: alice.ID,
		ListName:    "Tokyo Eats",
		InviterName: "Bob",
	})
	d.Dispatch(NewFollower{
		RecipientID:  alice.ID,
		FollowerName: "Carol",
	})
	// Close drains the queue, so delivery is complete afterwards.
	d.Close()

	got, total, err := store.Notifications(ctx, alice.ID, false, storage.Page{})
	if err != nil {
		t.Fatalf("Notifications: %v", err)
	}
	if total != 2 {
		t.Fatalf("got %d notifications, want 2", total)
	}
	titles := map[string]bool{}
	for _, n := range got {
		titles[n.Title] = true
		if n.IsRead {
			t.Errorf("notification %q delivered as read", n.Title)
		}
	}
	if !titles["Added to a list"] || !titles["New follower"] {
		t.Errorf("unexpected titles: %v", titles)
	}
}

func TestDispatcherSurvivesFailedDelivery(t *testing.T) {
	store := newTestStore(t)
	alice := createTestUser(t, store, "alice@example.com")

	d := NewDispatcher(store, slog.Default())
	// Unknown recipient: the store rejects the insert, the dispatcher logs
	// and moves on.
	d.Dispatch(NewFollower{RecipientID: "ghost", FollowerName: "Bob"})
	d.Dispatch(NewFollower{RecipientID: alice.ID, FollowerName: "Bob"})
	d.Close()

	_, total, err := store.Notifications(context.Background(), alice.ID, false, storage.Page{})
	if err != nil {
		t.Fatalf("Notifications: %v", err)
	}
	if total != 1 {
		t.Fatalf("got %d notifications, want 1 (delivery after a failure)", total)
	}
}

func TestDispatcherCloseIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	d := NewDispatcher(store, slog.Default())
	d.Close()
	d.Close()
}

func TestEventRendering(t *testing.T) {
	title, message := CollaboratorAdded{ListName: "Tokyo Eats", InviterName: "Bob"}.Render()
	if title == "" || message == "" {
		t.Fatal("empty rendering")
	}
	if message != `Bob added you to the list "Tokyo Eats"` {
		t.Errorf("unexpected message: %q", message)
	}

	_, message = NewFollower{FollowerName: "Carol"}.Render()
	if message != "Carol started following you" {
		t.Errorf("unexpected message: %q", message)
	}
}
