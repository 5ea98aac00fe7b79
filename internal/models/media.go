package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaUpload describes an uploaded image. The bytes live in GridFS under the same ID.
type MediaUpload struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	UploaderID  uint               `json:"uploaderId" bson:"uploader_id"`
	Filename    string             `json:"filename" bson:"filename"`
	ContentType string             `json:"contentType" bson:"content_type"`
	Size        int64              `json:"size" bson:"size"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
}
