// internal/app/policy/grouppolicy/grouppolicy.go

// Package grouppolicy centralizes role checks for study group moderation.
//
// Roles are derived from the group document itself: the creator is the
// immutable owner, admins (creator included) may moderate membership, and
// only the creator may change the admin set. Handlers go through these
// helpers rather than scanning the arrays inline.
package grouppolicy

import "github.com/dalemusser/studyhub/internal/domain/models"

// Role is a capability level within one group.
type Role string

const (
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
	RoleMember  Role = "member"
	RoleNone    Role = "none"
)

// RoleOf returns the highest role userID holds in the group.
func RoleOf(g models.Group, userID string) Role {
	if userID == "" {
		return RoleNone
	}
	if userID == g.CreatorID {
		return RoleCreator
	}
	for _, a := range g.Admins {
		if a == userID {
			return RoleAdmin
		}
	}
	for _, m := range g.Members {
		if m.UserID == userID {
			return RoleMember
		}
	}
	return RoleNone
}

// IsCreator reports whether userID is the group's creator.
func IsCreator(g models.Group, userID string) bool {
	return userID != "" && userID == g.CreatorID
}

// IsAdmin reports whether userID may moderate the group. The creator is
// always an admin regardless of the stored admins list.
func IsAdmin(g models.Group, userID string) bool {
	r := RoleOf(g, userID)
	return r == RoleCreator || r == RoleAdmin
}

// CanModerate reports whether userID may approve, reject, or kick members.
func CanModerate(g models.Group, userID string) bool {
	return IsAdmin(g, userID)
}

// CanManageAdmins reports whether userID may promote or demote admins.
// Only the exact creator may change the admin set.
func CanManageAdmins(g models.Group, userID string) bool {
	return IsCreator(g, userID)
}

// AdminSlotsLeft returns how many admin slots remain before the cap.
func AdminSlotsLeft(g models.Group) int {
	n := models.MaxAdmins - len(g.Admins)
	if n < 0 {
		return 0
	}
	return n
}
