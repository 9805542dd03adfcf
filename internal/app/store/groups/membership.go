// internal/app/store/groups/membership.go
package groupstore

// Membership transitions are single-document updates whose filters encode
// the state preconditions (pending entry present, admin slot free, ...).
// Each method returns changed=false when the filter did not match, which
// is how a concurrent conflicting mutation surfaces: last write wins and
// the loser sees no-op. Callers translate that into their own idempotent
// success or NotFound response.

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddPending appends a join request, guarded so the email cannot appear in
// both members and pending_members.
func (s *Store) AddPending(ctx context.Context, id primitive.ObjectID, p models.PendingMember) (bool, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":                   id,
		"members.email":         bson.M{"$ne": p.Email},
		"pending_members.email": bson.M{"$ne": p.Email},
	}, bson.M{
		"$push": bson.M{"pending_members": p},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// ApprovePending moves the pending entry into members in one update,
// stamping joined_at with the approval time. The caller supplies the
// loaded pending entry; the filter re-checks it is still pending.
func (s *Store) ApprovePending(ctx context.Context, id primitive.ObjectID, p models.PendingMember, approvedAt time.Time) (bool, error) {
	member := models.Member{
		Email:     p.Email,
		Name:      p.Name,
		UserID:    p.UserID,
		JoinedAt:  approvedAt.UTC(),
		PushToken: p.PushToken,
	}
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":                   id,
		"pending_members.email": p.Email,
	}, bson.M{
		"$pull": bson.M{"pending_members": bson.M{"email": p.Email}},
		"$push": bson.M{"members": member},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RemovePending drops a join request (rejection).
func (s *Store) RemovePending(ctx context.Context, id primitive.ObjectID, email string) (bool, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":                   id,
		"pending_members.email": email,
	}, bson.M{
		"$pull": bson.M{"pending_members": bson.M{"email": email}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RemoveMember kicks a member, pulling them from members and, if present,
// from admins in the same update. The creator must be screened out by the
// caller before this point.
func (s *Store) RemoveMember(ctx context.Context, id primitive.ObjectID, email, userID string) (bool, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":           id,
		"members.email": email,
	}, bson.M{
		"$pull": bson.M{
			"members": bson.M{"email": email},
			"admins":  userID,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// AddAdmin promotes userID. The filter enforces both idempotency (not
// already an admin) and the cap: a value at index MaxAdmins-1 means the
// list is already full.
func (s *Store) AddAdmin(ctx context.Context, id primitive.ObjectID, userID string) (bool, error) {
	lastSlot := fmt.Sprintf("admins.%d", models.MaxAdmins-1)
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":    id,
		"admins": bson.M{"$ne": userID},
		lastSlot: bson.M{"$exists": false},
	}, bson.M{
		"$push": bson.M{"admins": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RemoveAdmin demotes userID. Creator screening is the caller's job.
func (s *Store) RemoveAdmin(ctx context.Context, id primitive.ObjectID, userID string) (bool, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":    id,
		"admins": userID,
	}, bson.M{
		"$pull": bson.M{"admins": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// ExpirePending removes pending requests older than cutoff across all
// groups. Used by the background cleanup worker. Returns how many group
// documents were touched.
func (s *Store) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx, bson.M{
		"pending_members.requested_at": bson.M{"$lt": cutoff},
	}, bson.M{
		"$pull": bson.M{"pending_members": bson.M{"requested_at": bson.M{"$lt": cutoff}}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
