package groupstore_test

import (
	"strings"
	"testing"

	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestNewCode_Format(t *testing.T) {
	code, err := groupstore.NewCode()
	if err != nil {
		t.Fatalf("NewCode failed: %v", err)
	}

	if len(code) != 8 {
		t.Errorf("code length: got %d, want 8", len(code))
	}
	for _, c := range code {
		if !strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", c) {
			t.Errorf("code %q contains invalid character %q", code, c)
		}
	}
}

func TestNewCode_Varies(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := groupstore.NewCode()
		if err != nil {
			t.Fatalf("NewCode failed: %v", err)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("expected NewCode to produce varying codes")
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := models.Group{
		Name:      "Calc Study Group",
		ClassName: "MATH 1500",
		School:    "Mizzou",
		CreatorID: "creator-1",
		Members: []models.Member{
			{Email: "creator@test.com", Name: "Creator", UserID: "creator-1"},
		},
	}

	created, err := store.Create(ctx, g)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Code == "" {
		t.Error("expected a join code to be assigned")
	}
	if created.Code != strings.ToUpper(created.Code) {
		t.Errorf("code %q is not uppercase", created.Code)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	// Creator is seeded as the sole admin
	if len(created.Admins) != 1 || created.Admins[0] != "creator-1" {
		t.Errorf("admins: got %v, want [creator-1]", created.Admins)
	}
	if created.PendingMembers == nil {
		t.Error("expected pending_members to default to an empty slice")
	}
}

func TestStore_GetByCode_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Physics Group", "creator-1", "creator@test.com")

	found, err := store.GetByCode(ctx, strings.ToLower(g.Code))
	if err != nil {
		t.Fatalf("GetByCode failed: %v", err)
	}
	if found.ID != g.ID {
		t.Errorf("GetByCode: got group %v, want %v", found.ID, g.ID)
	}
}

func TestStore_GetByCode_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByCode(ctx, "NOSUCHCD")
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_ListForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// One group created by the user, one where they are a member, one unrelated.
	created := fixtures.CreateGroup(ctx, "Mine", "user-a", "a@test.com")
	other := fixtures.CreateGroupWithMembers(ctx, "Joined", "user-b", "b@test.com", 1)
	fixtures.CreateGroup(ctx, "Unrelated", "user-c", "c@test.com")

	groups, err := store.ListForUser(ctx, "user-a", "member1@test.com")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// Oldest first
	if groups[0].ID != created.ID || groups[1].ID != other.ID {
		t.Errorf("unexpected order: got %v, %v", groups[0].Name, groups[1].Name)
	}
}

func TestStore_ListForUser_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groups, err := store.ListForUser(ctx, "nobody", "nobody@test.com")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "To Delete", "creator-1", "creator@test.com")

	n, err := store.Delete(ctx, g.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count: got %d, want 1", n)
	}

	// Second delete is a no-op
	n, err = store.Delete(ctx, g.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if n != 0 {
		t.Errorf("deleted count on missing group: got %d, want 0", n)
	}
}
