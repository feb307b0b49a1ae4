package emails

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmailStatus string

const (
	EmailQueued EmailStatus = "queued"
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// Email is an outbound message. ImagePNG, when set, is embedded inline
// in the HTML body (used for booking QR codes).
type Email struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	From       string             `bson:"from" json:"from"`
	To         []string           `bson:"to" json:"to"`
	Subject    string             `bson:"subject" json:"subject"`
	HtmlBody   string             `bson:"htmlBody,omitempty" json:"htmlBody,omitempty"`
	ImagePNG   []byte             `bson:"imagePng,omitempty" json:"-"`
	EntityType string             `bson:"entityType,omitempty" json:"entityType,omitempty"`
	EntityID   string             `bson:"entityId,omitempty" json:"entityId,omitempty"`
	Status     EmailStatus        `bson:"status" json:"status"`
	ErrorMsg   string             `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	SentAt     *time.Time         `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
}
