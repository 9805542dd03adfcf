package studygroups_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	"github.com/dalemusser/studyhub/internal/testutil"
)

func TestHandleApproveMember(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithPending(ctx, "Group", "creator-1", "creator@test.com", 1)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/approve", map[string]any{
		"email":       "pending1@test.com",
		"adminUserId": "creator-1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleApproveMember(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Member struct {
			Email    string `json:"email"`
			JoinedAt string `json:"joinedAt"`
		} `json:"member"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Member.Email != "pending1@test.com" {
		t.Errorf("member email: got %q", resp.Member.Email)
	}

	got, err := groupstore.New(db).GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.HasMemberEmail("pending1@test.com") {
		t.Error("expected approved user in members")
	}
	if got.HasPendingEmail("pending1@test.com") {
		t.Error("expected pending entry to be removed")
	}
}

func TestHandleApproveMember_NotAdmin(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithPending(ctx, "Group", "creator-1", "creator@test.com", 1)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/approve", map[string]any{
		"email":       "pending1@test.com",
		"adminUserId": "random-user",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleApproveMember(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
	env := testutil.DecodeEnvelope(t, rec)
	if env.Error != "forbidden" {
		t.Errorf("error code: got %q", env.Error)
	}
}

func TestHandleApproveMember_NoPendingRequest(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Group", "creator-1", "creator@test.com")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/approve", map[string]any{
		"email":       "nobody@test.com",
		"adminUserId": "creator-1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleApproveMember(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
}

func TestHandleRejectMember(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithPending(ctx, "Group", "creator-1", "creator@test.com", 1)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/reject", map[string]any{
		"email":       "pending1@test.com",
		"adminUserId": "creator-1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleRejectMember(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	got, _ := groupstore.New(db).GetByID(ctx, g.ID)
	if got.HasPendingEmail("pending1@test.com") {
		t.Error("expected pending entry to be removed")
	}
	if got.HasMemberEmail("pending1@test.com") {
		t.Error("rejected user must not become a member")
	}
}

func TestHandleKickMember(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithMembers(ctx, "Group", "creator-1", "creator@test.com", 1)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/kick", map[string]any{
		"email":       "member1@test.com",
		"adminUserId": "creator-1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleKickMember(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	got, _ := groupstore.New(db).GetByID(ctx, g.ID)
	if got.HasMemberEmail("member1@test.com") {
		t.Error("expected member to be removed")
	}
}

func TestHandleKickMember_Creator(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Group", "creator-1", "creator@test.com")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/kick", map[string]any{
		"email":       "creator@test.com",
		"adminUserId": "creator-1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleKickMember(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
}

func TestHandlePromoteAdmin(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithMembers(ctx, "Group", "creator-1", "creator@test.com", 1)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/promote", map[string]any{
		"targetUserId": "user1",
		"creatorId":    "creator-1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandlePromoteAdmin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestHandlePromoteAdmin_NotCreator(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithMembers(ctx, "Group", "creator-1", "creator@test.com", 2)

	// Promote user1 so they are an admin, then have them try to promote user2.
	if _, err := groupstore.New(db).AddAdmin(ctx, g.ID, "user1"); err != nil {
		t.Fatalf("AddAdmin failed: %v", err)
	}

	req := testutil.NewJSONRequest(t, http.MethodPost, "/promote", map[string]any{
		"targetUserId": "user2",
		"creatorId":    "user1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandlePromoteAdmin(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
}

func TestHandlePromoteAdmin_AlreadyAdmin(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithMembers(ctx, "Group", "creator-1", "creator@test.com", 1)
	if _, err := groupstore.New(db).AddAdmin(ctx, g.ID, "user1"); err != nil {
		t.Fatalf("AddAdmin failed: %v", err)
	}

	req := testutil.NewJSONRequest(t, http.MethodPost, "/promote", map[string]any{
		"targetUserId": "user1",
		"creatorId":    "creator-1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandlePromoteAdmin(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", rec.Code)
	}
	env := testutil.DecodeEnvelope(t, rec)
	if env.Error != "already_admin" {
		t.Errorf("error code: got %q", env.Error)
	}
}

func TestHandlePromoteAdmin_Cap(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithMembers(ctx, "Group", "creator-1", "creator@test.com", 4)
	store := groupstore.New(db)
	for _, uid := range []string{"user1", "user2", "user3"} {
		if _, err := store.AddAdmin(ctx, g.ID, uid); err != nil {
			t.Fatalf("AddAdmin(%s) failed: %v", uid, err)
		}
	}

	req := testutil.NewJSONRequest(t, http.MethodPost, "/promote", map[string]any{
		"targetUserId": "user4",
		"creatorId":    "creator-1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandlePromoteAdmin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	env := testutil.DecodeEnvelope(t, rec)
	if env.Error != "limit_exceeded" {
		t.Errorf("error code: got %q", env.Error)
	}
}

func TestHandlePromoteAdmin_NotMember(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Group", "creator-1", "creator@test.com")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/promote", map[string]any{
		"targetUserId": "stranger",
		"creatorId":    "creator-1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandlePromoteAdmin(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
}

func TestHandleDemoteAdmin(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithMembers(ctx, "Group", "creator-1", "creator@test.com", 1)
	if _, err := groupstore.New(db).AddAdmin(ctx, g.ID, "user1"); err != nil {
		t.Fatalf("AddAdmin failed: %v", err)
	}

	req := testutil.NewJSONRequest(t, http.MethodPost, "/demote", map[string]any{
		"targetUserId": "user1",
		"creatorId":    "creator-1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleDemoteAdmin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	// The demoted user stays a member.
	got, _ := groupstore.New(db).GetByID(ctx, g.ID)
	if !got.HasMemberEmail("member1@test.com") {
		t.Error("expected demoted admin to remain a member")
	}
}

func TestHandleDemoteAdmin_Creator(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Group", "creator-1", "creator@test.com")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/demote", map[string]any{
		"targetUserId": "creator-1",
		"creatorId":    "creator-1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleDemoteAdmin(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
}

func TestHandleDemoteAdmin_NotAdmin(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithMembers(ctx, "Group", "creator-1", "creator@test.com", 1)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/demote", map[string]any{
		"targetUserId": "user1",
		"creatorId":    "creator-1",
	})
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleDemoteAdmin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	env := testutil.DecodeEnvelope(t, rec)
	if env.Error != "not_admin" {
		t.Errorf("error code: got %q", env.Error)
	}
}

func TestHandleListPending(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithPending(ctx, "Group", "creator-1", "creator@test.com", 2)

	req := httptest.NewRequest(http.MethodGet, "/pending-members?adminUserId=creator-1", nil)
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleListPending(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		PendingMembers []struct {
			Email string `json:"email"`
		} `json:"pendingMembers"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.PendingMembers) != 2 {
		t.Errorf("pending: got %d, want 2", len(resp.PendingMembers))
	}
}

func TestHandleListPending_Forbidden(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithPending(ctx, "Group", "creator-1", "creator@test.com", 1)

	req := httptest.NewRequest(http.MethodGet, "/pending-members?adminUserId=stranger", nil)
	req = testutil.WithChiURLParam(req, "id", g.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleListPending(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
}
