// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupMessage is one chat message in a group. Messages are append-only:
// created on send, immutable thereafter, ordered by created_at ascending.
type GroupMessage struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	GroupID     primitive.ObjectID `bson:"group_id" json:"groupId"`
	SenderEmail string             `bson:"sender_email" json:"senderEmail"`
	SenderName  string             `bson:"sender_name" json:"senderName"`
	Message     string             `bson:"message" json:"message"`
	Attachments []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// Attachment is a file reference carried on a chat message.
type Attachment struct {
	Name string `bson:"name" json:"name"`
	URI  string `bson:"uri" json:"uri"`
	Type string `bson:"type" json:"type"`
}
