package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/wanderlist/server/internal/apperror"
	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/notify"
	"github.com/wanderlist/server/internal/storage"
	"github.com/wanderlist/server/internal/storage/sqlite"
)

// env bundles the services under test, backed by a real store in a temp dir.
type env struct {
	store         storage.Store
	dispatcher    *notify.Dispatcher
	lists         *ListService
	users         *UserService
	collabs       *CollabService
	follows       *FollowService
	notifications *NotificationService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	dispatcher := notify.NewDispatcher(store, slog.Default())
	t.Cleanup(func() {
		dispatcher.Close()
		store.Close()
	})
	return &env{
		store:         store,
		dispatcher:    dispatcher,
		lists:         NewListService(store),
		users:         NewUserService(store),
		collabs:       NewCollabService(store, dispatcher),
		follows:       NewFollowService(store, dispatcher),
		notifications: NewNotificationService(store),
	}
}

func (e *env) user(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:           email,
		DisplayName:     "User " + email,
		ProfileIsPublic: true,
		ListsArePublic:  true,
	}
	if err := e.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

// drain flushes the dispatcher so notification assertions see every event.
func (e *env) drain(t *testing.T) {
	t.Helper()
	e.dispatcher.Close()
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func TestListServiceVisibility(t *testing.T) {
	ctx := context.Background()

	t.Run("create defaults to the owner's setting", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")

		if _, err := e.store.UpdatePrivacySettings(ctx, owner.ID, models.PrivacySettings{
			ListsArePublic: boolPtr(false),
		}); err != nil {
			t.Fatalf("UpdatePrivacySettings: %v", err)
		}

		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Tokyo Eats"})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		if list.IsPublic == nil || *list.IsPublic {
			t.Fatal("expected the owner's private default to apply")
		}

		// An explicit choice overrides the default.
		open, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Open", IsPublic: boolPtr(true)})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		if open.IsPublic == nil || !*open.IsPublic {
			t.Fatal("expected the explicit choice to win")
		}
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")
		_, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "   "})
		if !errors.Is(err, apperror.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("private list is walled off", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")
		stranger := e.user(t, "bob@example.com")

		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Secret", IsPublic: boolPtr(false)})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}

		if _, err := e.lists.GetList(ctx, stranger.ID, list.ID); !errors.Is(err, apperror.ErrNotAuthorized) {
			t.Fatalf("stranger read: expected ErrNotAuthorized, got %v", err)
		}
		if _, err := e.lists.GetList(ctx, "", list.ID); !errors.Is(err, apperror.ErrNotAuthorized) {
			t.Fatalf("anonymous read: expected ErrNotAuthorized, got %v", err)
		}

		detail, err := e.lists.GetList(ctx, owner.ID, list.ID)
		if err != nil {
			t.Fatalf("owner read: %v", err)
		}
		if !detail.IsOwner {
			t.Error("expected IsOwner=true for the owner")
		}
	})

	t.Run("collaborator reads and writes but cannot manage", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")
		friend := e.user(t, "bob@example.com")

		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Shared", IsPublic: boolPtr(false)})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		if _, err := e.collabs.AddCollaborator(ctx, owner.ID, list.ID, friend.Email); err != nil {
			t.Fatalf("AddCollaborator: %v", err)
		}

		if _, err := e.lists.GetList(ctx, friend.ID, list.ID); err != nil {
			t.Fatalf("collaborator read: %v", err)
		}
		place := &models.Place{PlaceID: "g-1", Name: "Ichiran"}
		if _, err := e.lists.AddPlace(ctx, friend.ID, list.ID, place); err != nil {
			t.Fatalf("collaborator write: %v", err)
		}

		// Metadata edits are writes, so collaborators may rename.
		renamed, err := e.lists.UpdateList(ctx, friend.ID, list.ID, ListInput{Name: "Renamed"})
		if err != nil {
			t.Fatalf("collaborator rename: %v", err)
		}
		if renamed.Name != "Renamed" {
			t.Errorf("got name %q, want Renamed", renamed.Name)
		}
		// Deletion stays owner-only.
		if err := e.lists.DeleteList(ctx, friend.ID, list.ID); !errors.Is(err, apperror.ErrNotAuthorized) {
			t.Fatalf("collaborator delete: expected ErrNotAuthorized, got %v", err)
		}
	})

	t.Run("public list readable but not writable by strangers", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")
		stranger := e.user(t, "bob@example.com")

		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Open", IsPublic: boolPtr(true)})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}

		if _, err := e.lists.GetList(ctx, "", list.ID); err != nil {
			t.Fatalf("anonymous read of public list: %v", err)
		}
		place := &models.Place{PlaceID: "g-1", Name: "Ichiran"}
		if _, err := e.lists.AddPlace(ctx, stranger.ID, list.ID, place); !errors.Is(err, apperror.ErrNotAuthorized) {
			t.Fatalf("stranger write: expected ErrNotAuthorized, got %v", err)
		}
	})

	t.Run("changing visibility keeps both flags in step", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")

		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Flip", IsPublic: boolPtr(true)})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		updated, err := e.lists.UpdateList(ctx, owner.ID, list.ID, ListInput{IsPublic: boolPtr(false)})
		if err != nil {
			t.Fatalf("UpdateList: %v", err)
		}
		if updated.IsPublic == nil || *updated.IsPublic || !updated.IsPrivate {
			t.Fatalf("flags out of step: is_public=%v is_private=%v", updated.IsPublic, updated.IsPrivate)
		}
	})

	t.Run("description can be cleared", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")

		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Tokyo Eats", Description: strPtr("ramen spots")})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		if list.Description != "ramen spots" {
			t.Fatalf("description = %q, want %q", list.Description, "ramen spots")
		}

		kept, err := e.lists.UpdateList(ctx, owner.ID, list.ID, ListInput{Name: "Tokyo Eats v2"})
		if err != nil {
			t.Fatalf("UpdateList: %v", err)
		}
		if kept.Description != "ramen spots" {
			t.Fatalf("nil description should leave it unchanged, got %q", kept.Description)
		}

		cleared, err := e.lists.UpdateList(ctx, owner.ID, list.ID, ListInput{Description: strPtr("")})
		if err != nil {
			t.Fatalf("UpdateList: %v", err)
		}
		if cleared.Description != "" {
			t.Fatalf("description not cleared, got %q", cleared.Description)
		}
		got, err := e.store.GetList(ctx, list.ID)
		if err != nil {
			t.Fatalf("GetList: %v", err)
		}
		if got.Description != "" {
			t.Fatalf("stored description not cleared, got %q", got.Description)
		}
	})
}

func TestCollabService(t *testing.T) {
	ctx := context.Background()

	t.Run("invite notifies the invited user", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")
		friend := e.user(t, "bob@example.com")

		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Tokyo Eats"})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		if _, err := e.collabs.AddCollaborator(ctx, owner.ID, list.ID, friend.Email); err != nil {
			t.Fatalf("AddCollaborator: %v", err)
		}
		e.drain(t)

		got, total, err := e.store.Notifications(ctx, friend.ID, false, storage.Page{})
		if err != nil {
			t.Fatalf("Notifications: %v", err)
		}
		if total != 1 {
			t.Fatalf("got %d notifications, want 1", total)
		}
		if got[0].Title != "Added to a list" {
			t.Errorf("unexpected title %q", got[0].Title)
		}
	})

	t.Run("only the owner invites", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")
		friend := e.user(t, "bob@example.com")
		other := e.user(t, "carol@example.com")

		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Tokyo Eats"})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		_, err = e.collabs.AddCollaborator(ctx, friend.ID, list.ID, other.Email)
		if !errors.Is(err, apperror.ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
	})

	t.Run("inviting the owner is invalid", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")
		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Tokyo Eats"})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		_, err = e.collabs.AddCollaborator(ctx, owner.ID, list.ID, owner.Email)
		if !errors.Is(err, apperror.ErrInvalidOperation) {
			t.Fatalf("expected ErrInvalidOperation, got %v", err)
		}
	})

	t.Run("duplicate invite is a conflict", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")
		friend := e.user(t, "bob@example.com")
		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Tokyo Eats"})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		if _, err := e.collabs.AddCollaborator(ctx, owner.ID, list.ID, friend.Email); err != nil {
			t.Fatalf("first invite: %v", err)
		}
		_, err = e.collabs.AddCollaborator(ctx, owner.ID, list.ID, friend.Email)
		if !errors.Is(err, apperror.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")
		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Tokyo Eats"})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		_, err = e.collabs.AddCollaborator(ctx, owner.ID, list.ID, "ghost@example.com")
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list collaborators returns the invited users", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")
		friend := e.user(t, "bob@example.com")

		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Tokyo Eats", IsPublic: boolPtr(false)})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		if _, err := e.collabs.AddCollaborator(ctx, owner.ID, list.ID, friend.Email); err != nil {
			t.Fatalf("AddCollaborator: %v", err)
		}

		users, err := e.collabs.ListCollaborators(ctx, owner.ID, list.ID)
		if err != nil {
			t.Fatalf("ListCollaborators: %v", err)
		}
		if len(users) != 1 || users[0].ID != friend.ID || users[0].Email != friend.Email {
			t.Fatalf("unexpected collaborators: %+v", users)
		}

		// The collaborator can read the same roster on a private list.
		users, err = e.collabs.ListCollaborators(ctx, friend.ID, list.ID)
		if err != nil {
			t.Fatalf("ListCollaborators as collaborator: %v", err)
		}
		if len(users) != 1 {
			t.Fatalf("got %d collaborators, want 1", len(users))
		}
	})

	t.Run("collaborators may leave, not evict", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "alice@example.com")
		friend := e.user(t, "bob@example.com")
		other := e.user(t, "carol@example.com")

		list, err := e.lists.CreateList(ctx, owner.ID, ListInput{Name: "Tokyo Eats"})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		for _, u := range []*models.User{friend, other} {
			if _, err := e.collabs.AddCollaborator(ctx, owner.ID, list.ID, u.Email); err != nil {
				t.Fatalf("AddCollaborator: %v", err)
			}
		}

		// friend cannot remove other.
		err = e.collabs.RemoveCollaborator(ctx, friend.ID, list.ID, other.ID)
		if !errors.Is(err, apperror.ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
		// friend can leave.
		if err := e.collabs.RemoveCollaborator(ctx, friend.ID, list.ID, friend.ID); err != nil {
			t.Fatalf("self-removal: %v", err)
		}
		// owner can evict other.
		if err := e.collabs.RemoveCollaborator(ctx, owner.ID, list.ID, other.ID); err != nil {
			t.Fatalf("owner eviction: %v", err)
		}
		// removing an absent edge is not found.
		err = e.collabs.RemoveCollaborator(ctx, owner.ID, list.ID, other.ID)
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestFollowService(t *testing.T) {
	ctx := context.Background()

	t.Run("follow notifies the followed user", func(t *testing.T) {
		e := newEnv(t)
		alice := e.user(t, "alice@example.com")
		bob := e.user(t, "bob@example.com")

		if err := e.follows.Follow(ctx, alice.ID, bob.ID); err != nil {
			t.Fatalf("Follow: %v", err)
		}
		e.drain(t)

		got, total, err := e.store.Notifications(ctx, bob.ID, false, storage.Page{})
		if err != nil {
			t.Fatalf("Notifications: %v", err)
		}
		if total != 1 || got[0].Title != "New follower" {
			t.Fatalf("unexpected notifications: %+v", got)
		}
	})

	t.Run("self-follow is invalid", func(t *testing.T) {
		e := newEnv(t)
		alice := e.user(t, "alice@example.com")
		if err := e.follows.Follow(ctx, alice.ID, alice.ID); !errors.Is(err, apperror.ErrInvalidOperation) {
			t.Fatalf("expected ErrInvalidOperation, got %v", err)
		}
	})

	t.Run("duplicate follow is a conflict", func(t *testing.T) {
		e := newEnv(t)
		alice := e.user(t, "alice@example.com")
		bob := e.user(t, "bob@example.com")
		if err := e.follows.Follow(ctx, alice.ID, bob.ID); err != nil {
			t.Fatalf("Follow: %v", err)
		}
		if err := e.follows.Follow(ctx, alice.ID, bob.ID); !errors.Is(err, apperror.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}

		// The failed attempt produced no second notification.
		e.drain(t)
		_, total, err := e.store.Notifications(ctx, bob.ID, false, storage.Page{})
		if err != nil {
			t.Fatalf("Notifications: %v", err)
		}
		if total != 1 {
			t.Fatalf("got %d notifications, want exactly 1", total)
		}
	})

	t.Run("following a missing user is not found", func(t *testing.T) {
		e := newEnv(t)
		alice := e.user(t, "alice@example.com")
		if err := e.follows.Follow(ctx, alice.ID, "ghost"); !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("followers and following list the edge", func(t *testing.T) {
		e := newEnv(t)
		alice := e.user(t, "alice@example.com")
		bob := e.user(t, "bob@example.com")
		carol := e.user(t, "carol@example.com")

		if err := e.follows.Follow(ctx, alice.ID, bob.ID); err != nil {
			t.Fatalf("Follow: %v", err)
		}
		if err := e.follows.Follow(ctx, carol.ID, bob.ID); err != nil {
			t.Fatalf("Follow: %v", err)
		}

		followers, total, err := e.follows.Followers(ctx, bob.ID, bob.ID, storage.Page{})
		if err != nil {
			t.Fatalf("Followers: %v", err)
		}
		if total != 2 || len(followers) != 2 {
			t.Fatalf("got %d followers (total %d), want 2", len(followers), total)
		}
		seen := map[string]bool{}
		for _, f := range followers {
			seen[f.ID] = true
		}
		if !seen[alice.ID] || !seen[carol.ID] {
			t.Errorf("unexpected follower set: %v", seen)
		}

		following, total, err := e.follows.Following(ctx, alice.ID, alice.ID, storage.Page{})
		if err != nil {
			t.Fatalf("Following: %v", err)
		}
		if total != 1 || following[0].ID != bob.ID {
			t.Fatalf("unexpected following set: %+v", following)
		}

		// One edge per page: the second page holds the older follower.
		page1, _, err := e.follows.Followers(ctx, bob.ID, bob.ID, storage.Page{Number: 1, Size: 1})
		if err != nil {
			t.Fatalf("Followers page 1: %v", err)
		}
		page2, _, err := e.follows.Followers(ctx, bob.ID, bob.ID, storage.Page{Number: 2, Size: 1})
		if err != nil {
			t.Fatalf("Followers page 2: %v", err)
		}
		if len(page1) != 1 || len(page2) != 1 || page1[0].ID == page2[0].ID {
			t.Fatalf("pagination returned overlapping rows: %+v / %+v", page1, page2)
		}
	})

	t.Run("private profile hides follower lists", func(t *testing.T) {
		e := newEnv(t)
		alice := e.user(t, "alice@example.com")
		bob := e.user(t, "bob@example.com")

		if _, err := e.store.UpdatePrivacySettings(ctx, bob.ID, models.PrivacySettings{
			ProfileIsPublic: boolPtr(false),
		}); err != nil {
			t.Fatalf("UpdatePrivacySettings: %v", err)
		}

		_, _, err := e.follows.Followers(ctx, alice.ID, bob.ID, storage.Page{})
		if !errors.Is(err, apperror.ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
		// bob still sees his own.
		if _, _, err := e.follows.Followers(ctx, bob.ID, bob.ID, storage.Page{}); err != nil {
			t.Fatalf("own followers: %v", err)
		}
	})
}

func TestUserService(t *testing.T) {
	ctx := context.Background()

	t.Run("get or create round trip", func(t *testing.T) {
		e := newEnv(t)
		user, created, err := e.users.GetOrCreateByFirebase(ctx, "uid-1", "alice@example.com", "Alice", "")
		if err != nil {
			t.Fatalf("GetOrCreateByFirebase: %v", err)
		}
		if !created {
			t.Fatal("expected created=true")
		}
		again, created, err := e.users.GetOrCreateByFirebase(ctx, "uid-1", "alice@example.com", "Alice", "")
		if err != nil {
			t.Fatalf("second call: %v", err)
		}
		if created || again.ID != user.ID {
			t.Fatalf("expected the same account back, got created=%v id=%s", created, again.ID)
		}
	})

	t.Run("username rules", func(t *testing.T) {
		e := newEnv(t)
		alice := e.user(t, "alice@example.com")

		for _, bad := range []string{"ab", "has space", "way_too_long_for_a_username_indeed_it_is", "emoji🙂"} {
			if err := e.users.SetUsername(ctx, alice.ID, bad); !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("username %q: expected ErrValidation, got %v", bad, err)
			}
		}

		if err := e.users.SetUsername(ctx, alice.ID, "wanderer"); err != nil {
			t.Fatalf("SetUsername: %v", err)
		}

		available, err := e.users.CheckUsername(ctx, "Wanderer")
		if err != nil {
			t.Fatalf("CheckUsername: %v", err)
		}
		if available {
			t.Error("expected the taken handle to be unavailable case-insensitively")
		}
		available, err = e.users.CheckUsername(ctx, "free_handle")
		if err != nil {
			t.Fatalf("CheckUsername: %v", err)
		}
		if !available {
			t.Error("expected an unclaimed handle to be available")
		}
	})

	t.Run("private profile gate", func(t *testing.T) {
		e := newEnv(t)
		alice := e.user(t, "alice@example.com")
		bob := e.user(t, "bob@example.com")

		if _, err := e.users.UpdatePrivacy(ctx, bob.ID, models.PrivacySettings{
			ProfileIsPublic: boolPtr(false),
		}); err != nil {
			t.Fatalf("UpdatePrivacy: %v", err)
		}

		if _, err := e.users.GetProfile(ctx, alice.ID, bob.ID); !errors.Is(err, apperror.ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
		if _, err := e.users.GetProfile(ctx, bob.ID, bob.ID); err != nil {
			t.Fatalf("own profile: %v", err)
		}
	})

	t.Run("profile annotates follow state", func(t *testing.T) {
		e := newEnv(t)
		alice := e.user(t, "alice@example.com")
		bob := e.user(t, "bob@example.com")

		if err := e.follows.Follow(ctx, alice.ID, bob.ID); err != nil {
			t.Fatalf("Follow: %v", err)
		}
		profile, err := e.users.GetProfile(ctx, alice.ID, bob.ID)
		if err != nil {
			t.Fatalf("GetProfile: %v", err)
		}
		if !profile.IsFollowing {
			t.Error("expected is_following=true")
		}
	})

	t.Run("short search query is rejected", func(t *testing.T) {
		e := newEnv(t)
		alice := e.user(t, "alice@example.com")
		_, _, err := e.users.SearchUsers(ctx, alice.ID, "a", storage.Page{})
		if !errors.Is(err, apperror.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("delete account takes the lists with it", func(t *testing.T) {
		e := newEnv(t)
		alice := e.user(t, "alice@example.com")
		list, err := e.lists.CreateList(ctx, alice.ID, ListInput{Name: "Tokyo Eats"})
		if err != nil {
			t.Fatalf("CreateList: %v", err)
		}

		if err := e.users.DeleteAccount(ctx, alice.ID); err != nil {
			t.Fatalf("DeleteAccount: %v", err)
		}
		if _, err := e.store.GetList(ctx, list.ID); !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("expected the list gone, got %v", err)
		}
	})
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.user(t, "alice@example.com")
	bob := e.user(t, "bob@example.com")

	if err := e.follows.Follow(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	e.drain(t)

	got, total, err := e.notifications.List(ctx, alice.ID, false, storage.Page{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Fatalf("got %d notifications, want 1", total)
	}

	count, err := e.notifications.UnreadCount(ctx, alice.ID)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d unread, want 1", count)
	}

	if err := e.notifications.MarkRead(ctx, alice.ID, got[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := e.notifications.MarkRead(ctx, alice.ID, got[0].ID); err != nil {
		t.Fatalf("second MarkRead should succeed: %v", err)
	}
	if err := e.notifications.MarkRead(ctx, bob.ID, got[0].ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("foreign MarkRead: expected ErrNotFound, got %v", err)
	}

	count, err = e.notifications.UnreadCount(ctx, alice.ID)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("got %d unread, want 0", count)
	}
}
