// internal/app/features/studygroups/create.go
package studygroups

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/studyhub/internal/app/realtime"
	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	"github.com/dalemusser/studyhub/internal/app/system/apierr"
	"github.com/dalemusser/studyhub/internal/app/system/jsonutil"
	"github.com/dalemusser/studyhub/internal/app/system/normalize"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
)

// HandleCreateGroup handles POST /api/study-groups.
//
// The creator becomes the sole member and admin, and a fresh unique join
// code is generated. Responds with the full group document.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Error(w, h.Log, "decode create group", err)
		return
	}

	req.Name = normalize.Name(req.Name)
	req.ClassName = normalize.Name(req.ClassName)
	req.School = normalize.Name(req.School)
	req.CreatorEmail = normalize.Email(req.CreatorEmail)
	req.CreatorName = normalize.Name(req.CreatorName)

	if missing := firstMissing(map[string]string{
		"name":         req.Name,
		"className":    req.ClassName,
		"school":       req.School,
		"creatorId":    req.CreatorID,
		"creatorEmail": req.CreatorEmail,
		"creatorName":  req.CreatorName,
	}); missing != "" {
		jsonutil.Fail(w, apierr.Validation(missing+" is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group := models.Group{
		Name:        req.Name,
		ClassName:   req.ClassName,
		School:      req.School,
		Description: req.Description,
		CreatorID:   req.CreatorID,
		IsPrivate:   req.IsPrivate,
		Admins:      []string{req.CreatorID},
		Members: []models.Member{{
			Email:     req.CreatorEmail,
			Name:      req.CreatorName,
			UserID:    req.CreatorID,
			JoinedAt:  time.Now().UTC(),
			PushToken: req.PushToken,
		}},
	}

	created, err := groupstore.New(h.DB).Create(ctx, group)
	if err != nil {
		jsonutil.ServerError(w, h.Log, "create group failed", err)
		return
	}

	h.Hub.Publish(realtime.Event{
		Type:    realtime.EventGroupCreated,
		GroupID: created.ID.Hex(),
		Data:    created.Redacted(req.CreatorID),
	})

	jsonutil.OK(w, map[string]any{"group": created})
}

// firstMissing returns the name of the first empty required field, checked
// in a stable order so responses are deterministic.
func firstMissing(fields map[string]string) string {
	order := []string{
		"name", "className", "school",
		"creatorId", "creatorEmail", "creatorName",
		"code", "email", "userId",
		"senderEmail", "message",
		"adminUserId", "targetUserId",
	}
	for _, k := range order {
		if v, ok := fields[k]; ok && v == "" {
			return k
		}
	}
	return ""
}
