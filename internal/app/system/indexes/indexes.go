// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent;
errors are aggregated so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureStudyGroups(ctx, db); err != nil {
		problems = append(problems, "study_groups: "+err.Error())
	}
	if err := ensureGroupMessages(ctx, db); err != nil {
		problems = append(problems, "group_messages: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureStudyGroups backs the code lookup (unique), the per-user group
// listing, and the pending-expiry sweep.
func ensureStudyGroups(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("study_groups")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_code"),
		},
		{
			Keys:    bson.D{{Key: "creator_id", Value: 1}},
			Options: options.Index().SetName("creator_id"),
		},
		{
			Keys:    bson.D{{Key: "members.email", Value: 1}},
			Options: options.Index().SetName("members_email"),
		},
		{
			Keys:    bson.D{{Key: "pending_members.requested_at", Value: 1}},
			Options: options.Index().SetName("pending_requested_at"),
		},
	})
	return err
}

// ensureGroupMessages backs the ascending per-group message listing and the
// delete cascade.
func ensureGroupMessages(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("group_messages")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("group_created"),
		},
	})
	return err
}
