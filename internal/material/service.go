package material

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// Service owns study material reads and direct edits. The saves/report_count
// counters live on the material document but are only ever mutated by the
// bookmark and report services, always through atomic $inc updates.
type Service struct {
	db           *mongo.Database
	materialsCol *mongo.Collection
}

// NewService creates a material Service
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:           db,
		materialsCol: db.Collection(shared.ColMaterials),
	}
}

// CreateInput carries the caller-supplied fields for a new material
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Subject     string   `json:"subject,omitempty"`
	CourseCode  string   `json:"course_code,omitempty"`
	FileURL     string   `json:"file_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Create inserts a new study material for uploaderID
func (s *Service) Create(ctx context.Context, uploaderID string, in CreateInput) (*shared.StudyMaterial, error) {
	if uploaderID == "" {
		return nil, shared.NewValidationError("uploader_id", "uploader_id is required")
	}
	if in.Title == "" {
		return nil, shared.NewValidationError("title", "title is required")
	}

	now := time.Now()
	m := &shared.StudyMaterial{
		ID:          shared.GenerateID("MAT"),
		Title:       in.Title,
		Description: in.Description,
		Subject:     in.Subject,
		CourseCode:  in.CourseCode,
		UploaderID:  uploaderID,
		FileURL:     in.FileURL,
		Tags:        shared.NormalizeTags(in.Tags),
		CreatedAt:   now,
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.materialsCol.InsertOne(queryCtx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns one material by id, or ErrNotFound
func (s *Service) Get(ctx context.Context, id string) (*shared.StudyMaterial, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var m shared.StudyMaterial
	err := s.materialsCol.FindOne(queryCtx, bson.M{"_id": id, "is_deleted": false}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListOptions filters a material listing
type ListOptions struct {
	Subject    string
	CourseCode string
	Tag        string
	UploaderID string
	Page       int64
	Limit      int64
}

// List returns materials matching the filters, newest first
func (s *Service) List(ctx context.Context, opts ListOptions) ([]shared.StudyMaterial, error) {
	filter := bson.M{"is_deleted": false}
	if opts.Subject != "" {
		filter["subject"] = opts.Subject
	}
	if opts.CourseCode != "" {
		filter["course_code"] = opts.CourseCode
	}
	if opts.Tag != "" {
		filter["tags"] = opts.Tag
	}
	if opts.UploaderID != "" {
		filter["uploader_id"] = opts.UploaderID
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.materialsCol.Find(queryCtx, filter, shared.BuildFindOptions(opts.Page, opts.Limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	materials := []shared.StudyMaterial{}
	if err := cursor.All(queryCtx, &materials); err != nil {
		return nil, err
	}
	return materials, nil
}

// SoftDelete marks a material deleted without removing the document, so
// existing bookmarks and reports keep a resolvable reference.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.materialsCol.UpdateOne(queryCtx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}
