// internal/app/features/studygroups/types.go
package studygroups

import "github.com/dalemusser/studyhub/internal/domain/models"

// createGroupRequest is the body for POST /api/study-groups.
type createGroupRequest struct {
	Name         string `json:"name"`
	ClassName    string `json:"className"`
	School       string `json:"school"`
	Description  string `json:"description"`
	CreatorID    string `json:"creatorId"`
	CreatorEmail string `json:"creatorEmail"`
	CreatorName  string `json:"creatorName"`
	IsPrivate    bool   `json:"isPrivate"`
	PushToken    string `json:"pushToken"`
}

// joinGroupRequest is the body for POST /api/study-groups/join.
type joinGroupRequest struct {
	Code      string `json:"code"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	UserID    string `json:"userId"`
	PushToken string `json:"pushToken"`
}

// memberActionRequest is the body for approve/reject/kick, which target a
// member by email and carry the acting admin's userID.
type memberActionRequest struct {
	Email       string `json:"email"`
	AdminUserID string `json:"adminUserId"`
}

// adminActionRequest is the body for promote/demote, which target a member
// by userID and may only be issued by the creator.
type adminActionRequest struct {
	TargetUserID string `json:"targetUserId"`
	CreatorID    string `json:"creatorId"`
}

// sendMessageRequest is the body for POST /api/study-groups/{id}/messages.
type sendMessageRequest struct {
	SenderEmail string              `json:"senderEmail"`
	SenderName  string              `json:"senderName"`
	Message     string              `json:"message"`
	Attachments []models.Attachment `json:"attachments"`
}

// groupWithMessages is one entry in the list response: the group document
// annotated with its full message log, oldest first.
type groupWithMessages struct {
	models.Group
	Messages []models.GroupMessage `json:"messages"`
}
