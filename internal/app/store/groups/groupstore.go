// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/normalize"
	"github.com/dalemusser/studyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("study_groups")}
}

// ErrCodeExhausted is returned when a unique join code could not be
// generated after several attempts. With 36^8 possible codes this
// effectively never happens outside test-rigged collections.
var ErrCodeExhausted = errors.New("could not generate a unique group code")

const (
	codeLength   = 8
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeAttempts = 5
)

// NewCode returns a random join code: codeLength uppercase alphanumerics.
func NewCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// Create inserts a new group. It assigns the ID, timestamps, and a fresh
// unique join code, and seeds the creator as the sole member and admin.
// The caller provides creator identity on g.CreatorID and g.Members[0].
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.Admins == nil {
		g.Admins = []string{g.CreatorID}
	}
	if g.PendingMembers == nil {
		g.PendingMembers = []models.PendingMember{}
	}

	// The unique index on code turns a collision into a duplicate-key
	// error; regenerate and retry.
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := NewCode()
		if err != nil {
			return models.Group{}, err
		}
		g.Code = code
		if _, err := s.c.InsertOne(ctx, g); err != nil {
			if wafflemongo.IsDup(err) {
				continue
			}
			return models.Group{}, err
		}
		return g, nil
	}
	return models.Group{}, ErrCodeExhausted
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetByCode looks a group up by join code, case-insensitively. Codes are
// stored uppercase, so the input is folded before the exact match.
func (s *Store) GetByCode(ctx context.Context, code string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"code": normalize.Code(code)}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// ListForUser returns the groups where the user is the creator or an
// approved member, oldest first.
func (s *Store) ListForUser(ctx context.Context, userID, email string) ([]models.Group, error) {
	filter := bson.M{"$or": []bson.M{
		{"creator_id": userID},
		{"members.email": email},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Delete removes a group by ID. Returns the number of documents deleted
// (0 or 1). Message cascade is the caller's responsibility.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
