package testutil

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateGroup creates a test group with the given name and creator.
// The creator is the sole member and admin, matching what the create
// endpoint produces. Returns the group with its generated ID.
func (f *Fixtures) CreateGroup(ctx context.Context, name, creatorID, creatorEmail string) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		ClassName: "Test Class",
		School:    "Test School",
		Code:      "TESTCODE",
		CreatorID: creatorID,
		Admins:    []string{creatorID},
		Members: []models.Member{
			{Email: creatorEmail, Name: "Test Creator", UserID: creatorID, JoinedAt: now},
		},
		PendingMembers: []models.PendingMember{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	f.insertGroup(ctx, g)
	return g
}

// CreateGroupWithMembers creates a test group with extra approved members
// beyond the creator. Member emails are member1@test.com, member2@test.com,
// ... with user IDs user1, user2, ...
func (f *Fixtures) CreateGroupWithMembers(ctx context.Context, name, creatorID, creatorEmail string, extra int) models.Group {
	f.t.Helper()

	g := f.buildGroup(name, creatorID, creatorEmail)
	now := time.Now().UTC()
	for i := 1; i <= extra; i++ {
		g.Members = append(g.Members, models.Member{
			Email:    fmtMemberEmail(i),
			Name:     "Test Member",
			UserID:   fmtMemberID(i),
			JoinedAt: now,
		})
	}

	f.insertGroup(ctx, g)
	return g
}

// CreateGroupWithPending creates a test group with pending join requests.
// Pending emails are pending1@test.com, pending2@test.com, ...
func (f *Fixtures) CreateGroupWithPending(ctx context.Context, name, creatorID, creatorEmail string, pending int) models.Group {
	f.t.Helper()

	g := f.buildGroup(name, creatorID, creatorEmail)
	now := time.Now().UTC()
	for i := 1; i <= pending; i++ {
		g.PendingMembers = append(g.PendingMembers, models.PendingMember{
			Email:       fmtPendingEmail(i),
			Name:        "Test Pending",
			UserID:      fmtPendingID(i),
			RequestedAt: now,
		})
	}

	f.insertGroup(ctx, g)
	return g
}

// CreateMessage inserts a chat message for the given group.
func (f *Fixtures) CreateMessage(ctx context.Context, groupID primitive.ObjectID, senderEmail, text string) models.GroupMessage {
	f.t.Helper()

	msg := models.GroupMessage{
		ID:          primitive.NewObjectID(),
		GroupID:     groupID,
		SenderEmail: senderEmail,
		SenderName:  "Test Sender",
		Message:     text,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := f.db.Collection("group_messages").InsertOne(ctx, msg)
	if err != nil {
		f.t.Fatalf("failed to create test message: %v", err)
	}
	return msg
}

func (f *Fixtures) buildGroup(name, creatorID, creatorEmail string) models.Group {
	now := time.Now().UTC()
	return models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		ClassName: "Test Class",
		School:    "Test School",
		Code:      "TESTCODE",
		CreatorID: creatorID,
		Admins:    []string{creatorID},
		Members: []models.Member{
			{Email: creatorEmail, Name: "Test Creator", UserID: creatorID, JoinedAt: now},
		},
		PendingMembers: []models.PendingMember{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (f *Fixtures) insertGroup(ctx context.Context, g models.Group) {
	f.t.Helper()
	if _, err := f.db.Collection("study_groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
}

func fmtMemberEmail(i int) string  { return "member" + strconv.Itoa(i) + "@test.com" }
func fmtMemberID(i int) string     { return "user" + strconv.Itoa(i) }
func fmtPendingEmail(i int) string { return "pending" + strconv.Itoa(i) + "@test.com" }
func fmtPendingID(i int) string    { return "pending-user" + strconv.Itoa(i) }
