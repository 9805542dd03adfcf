// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxAdmins is the cap on the admins list, creator included.
const MaxAdmins = 4

// Group represents a study group document.
//
// Membership is embedded on the group document (members, pending_members,
// admins) so that every membership mutation is a single-document update.
// An email appears in at most one of members/pending_members at a time,
// and CreatorID is always present in Admins.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	ClassName   string             `bson:"class_name" json:"className"`
	School      string             `bson:"school" json:"school"`
	Description string             `bson:"description" json:"description"`

	// Code is the short human-shareable join token (8 uppercase alphanumerics).
	// Stored uppercase; lookups fold the caller's input first.
	Code string `bson:"code" json:"code,omitempty"`

	// CreatorID is immutable after creation. The creator is always an admin
	// and can never be kicked or demoted.
	CreatorID string `bson:"creator_id" json:"creatorId"`

	// Admins holds userIDs with moderation rights, capped at MaxAdmins.
	Admins []string `bson:"admins" json:"admins"`

	Members        []Member        `bson:"members" json:"members"`
	PendingMembers []PendingMember `bson:"pending_members" json:"pendingMembers"`

	// IsPrivate gates whether Code is visible to anyone but the creator.
	IsPrivate bool `bson:"is_private" json:"isPrivate"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Member is an approved group member.
type Member struct {
	Email    string    `bson:"email" json:"email"`
	Name     string    `bson:"name" json:"name"`
	UserID   string    `bson:"user_id" json:"userId"`
	JoinedAt time.Time `bson:"joined_at" json:"joinedAt"`

	// PushToken is the member's Expo push token, when the client supplied one.
	PushToken string `bson:"push_token,omitempty" json:"pushToken,omitempty"`
}

// PendingMember is a join request awaiting admin approval or rejection.
type PendingMember struct {
	Email       string    `bson:"email" json:"email"`
	Name        string    `bson:"name" json:"name"`
	UserID      string    `bson:"user_id" json:"userId"`
	RequestedAt time.Time `bson:"requested_at" json:"requestedAt"`

	PushToken string `bson:"push_token,omitempty" json:"pushToken,omitempty"`
}

// HasMemberEmail reports whether email belongs to an approved member.
func (g Group) HasMemberEmail(email string) bool {
	_, ok := g.MemberByEmail(email)
	return ok
}

// HasPendingEmail reports whether email has an outstanding join request.
func (g Group) HasPendingEmail(email string) bool {
	_, ok := g.PendingByEmail(email)
	return ok
}

// MemberByEmail returns the member entry for email, if present.
func (g Group) MemberByEmail(email string) (Member, bool) {
	for _, m := range g.Members {
		if m.Email == email {
			return m, true
		}
	}
	return Member{}, false
}

// PendingByEmail returns the pending entry for email, if present.
func (g Group) PendingByEmail(email string) (PendingMember, bool) {
	for _, p := range g.PendingMembers {
		if p.Email == email {
			return p, true
		}
	}
	return PendingMember{}, false
}

// Redacted returns a copy of the group safe to send to viewerID.
// Private groups only expose their join code to the creator.
func (g Group) Redacted(viewerID string) Group {
	if g.IsPrivate && viewerID != g.CreatorID {
		g.Code = ""
	}
	return g
}
