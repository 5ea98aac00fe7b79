package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const imagesBucket = "images"

// MediaRepository defines the interface for uploaded image storage
type MediaRepository interface {
	SaveImage(ctx context.Context, upload *models.MediaUpload, content io.Reader) error
	// OpenImage returns the image metadata and a reader the caller must close.
	OpenImage(ctx context.Context, id string) (*models.MediaUpload, io.ReadCloser, error)
}

// MongoMediaRepository keeps image bytes in GridFS and metadata in the media collection.
type MongoMediaRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMongoMediaRepository creates a new MongoMediaRepository
func NewMongoMediaRepository(db *mongo.Database) *MongoMediaRepository {
	return &MongoMediaRepository{db: db, collection: db.Collection("media")}
}

// A gridfs.Bucket keeps per-operation buffers, so each call gets its own.
func (r *MongoMediaRepository) bucket() (*gridfs.Bucket, error) {
	return gridfs.NewBucket(r.db, options.GridFSBucket().SetName(imagesBucket))
}

func (r *MongoMediaRepository) SaveImage(ctx context.Context, upload *models.MediaUpload, content io.Reader) error {
	bucket, err := r.bucket()
	if err != nil {
		return fmt.Errorf("open gridfs bucket: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := bucket.SetWriteDeadline(deadline); err != nil {
			return err
		}
	}

	upload.ID = primitive.NewObjectID()
	upload.CreatedAt = time.Now()
	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{
		"content_type": upload.ContentType,
		"uploader_id":  upload.UploaderID,
	})
	if err := bucket.UploadFromStreamWithID(upload.ID, upload.Filename, content, uploadOpts); err != nil {
		return fmt.Errorf("store image %s: %w", upload.Filename, err)
	}

	if _, err := r.collection.InsertOne(ctx, upload); err != nil {
		// keep GridFS free of files nobody can look up
		_ = bucket.DeleteContext(ctx, upload.ID)
		return fmt.Errorf("store image metadata: %w", err)
	}
	return nil
}

func (r *MongoMediaRepository) OpenImage(ctx context.Context, id string) (*models.MediaUpload, io.ReadCloser, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, models.NewNotFoundError("image", id)
	}

	var upload models.MediaUpload
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&upload); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, models.NewNotFoundError("image", id)
		}
		return nil, nil, fmt.Errorf("load image metadata %s: %w", id, err)
	}

	bucket, err := r.bucket()
	if err != nil {
		return nil, nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	stream, err := bucket.OpenDownloadStream(objID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, models.NewNotFoundError("image", id)
		}
		return nil, nil, fmt.Errorf("open image %s: %w", id, err)
	}
	return &upload, stream, nil
}
