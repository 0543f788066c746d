package bookmark

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// Service owns bookmarks and the saves counter on study materials.
//
// Creating a bookmark increments the referenced material's saves counter and
// deleting one decrements it. Both sides use atomic $inc deltas, never
// read-modify-write, so concurrent bookmarking cannot lose increments. The
// increment on creation is a precondition: if it fails (material missing,
// store error), the bookmark insert is aborted.
type Service struct {
	db           *mongo.Database
	bookmarksCol *mongo.Collection
	materialsCol *mongo.Collection
}

// NewService creates a bookmark Service
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:           db,
		bookmarksCol: db.Collection(shared.ColBookmarks),
		materialsCol: db.Collection(shared.ColMaterials),
	}
}

// CreateInput carries the caller-supplied fields for a new bookmark
type CreateInput struct {
	MaterialID   string                  `json:"material_id"`
	Folder       string                  `json:"folder,omitempty"`
	Tags         []string                `json:"tags,omitempty"`
	Notes        string                  `json:"notes,omitempty"`
	IsPrivate    *bool                   `json:"is_private,omitempty"`
	Priority     shared.BookmarkPriority `json:"priority,omitempty"`
	ReminderDate *time.Time              `json:"reminder_date,omitempty"`
}

// Create validates and inserts a bookmark for userID, bumping the material's
// saves counter first. A second bookmark for the same (user, material) pair
// fails with a conflict; the counter bump is compensated in that case so the
// saves count stays equal to the number of live bookmarks.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*shared.Bookmark, error) {
	now := time.Now()

	b := &shared.Bookmark{
		ID:         shared.GenerateID("BMK"),
		UserID:     userID,
		MaterialID: in.MaterialID,
		Folder:     in.Folder,
		Tags:       shared.NormalizeTags(in.Tags),
		Notes:      in.Notes,
		IsPrivate:  true,
		Priority:   in.Priority,
		CreatedAt:  now,
	}
	if in.IsPrivate != nil {
		b.IsPrivate = *in.IsPrivate
	}
	if b.Priority == "" {
		b.Priority = shared.BookmarkPriorityMedium
	}
	if in.ReminderDate != nil {
		t := *in.ReminderDate
		b.ReminderDate = &t
	}

	if err := shared.ValidateBookmark(b, now); err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Precondition: bump the saves counter on the referenced material. The
	// filter requires an existing, non-deleted material, so bookmarking a
	// missing material fails here before any bookmark is written.
	res, err := s.materialsCol.UpdateOne(queryCtx,
		bson.M{"_id": b.MaterialID, "is_deleted": false},
		incSaves(1),
	)
	if err != nil {
		return nil, shared.NewRelatedWriteError(shared.ColMaterials, err)
	}
	if res.MatchedCount == 0 {
		return nil, shared.ErrNotFound
	}

	if _, err := s.bookmarksCol.InsertOne(queryCtx, b); err != nil {
		// Undo the counter bump; without it a failed insert would leave the
		// saves count ahead of the real bookmark count.
		if _, derr := s.materialsCol.UpdateOne(queryCtx, bson.M{"_id": b.MaterialID}, incSaves(-1)); derr != nil {
			log.Printf("WARN: failed to compensate saves counter for material %s: %v", b.MaterialID, derr)
		}

		if shared.IsDuplicateKeyError(err) {
			return nil, shared.NewConflictError("material %s is already bookmarked", b.MaterialID)
		}
		return nil, err
	}

	return b, nil
}

// Delete removes the user's bookmark on a material and decrements the
// material's saves counter. The decrement is guarded so the counter never
// goes below zero even if it has drifted.
func (s *Service) Delete(ctx context.Context, userID, bookmarkID string) error {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var b shared.Bookmark
	err := s.bookmarksCol.FindOneAndDelete(queryCtx, bson.M{"_id": bookmarkID, "user_id": userID}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return shared.ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := s.materialsCol.UpdateOne(queryCtx,
		bson.M{"_id": b.MaterialID, "saves": bson.M{"$gt": 0}},
		incSaves(-1),
	); err != nil {
		// The bookmark itself is gone; surface the drift instead of hiding it
		return shared.NewRelatedWriteError(shared.ColMaterials, err)
	}

	return nil
}

// MarkAccessed records one access of the bookmark
func (s *Service) MarkAccessed(ctx context.Context, userID, bookmarkID string) error {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	res, err := s.bookmarksCol.UpdateOne(queryCtx,
		bson.M{"_id": bookmarkID, "user_id": userID},
		bson.M{
			"$inc": bson.M{"access_count": 1},
			"$set": bson.M{"last_accessed_at": now, "updated_at": now},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateFolder moves the bookmark to a different folder. An empty folder
// clears it.
func (s *Service) UpdateFolder(ctx context.Context, userID, bookmarkID, folder string) error {
	if folder != "" {
		probe := &shared.Bookmark{UserID: userID, MaterialID: "probe", Folder: folder}
		if err := shared.ValidateBookmark(probe, time.Now()); err != nil {
			return err
		}
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"folder": folder, "updated_at": time.Now()}}
	if folder == "" {
		update = bson.M{
			"$unset": bson.M{"folder": ""},
			"$set":   bson.M{"updated_at": time.Now()},
		}
	}

	res, err := s.bookmarksCol.UpdateOne(queryCtx, bson.M{"_id": bookmarkID, "user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AddTags unions the given tags into the bookmark's tag set. Tags are
// normalized to lowercase and de-duplicated by $addToSet.
func (s *Service) AddTags(ctx context.Context, userID, bookmarkID string, tags []string) error {
	normalized := shared.NormalizeTags(tags)
	if len(normalized) == 0 {
		return shared.NewValidationError("tags", "at least one tag is required")
	}
	for _, tag := range normalized {
		if len(tag) > shared.MaxTagLen {
			return shared.NewValidationError("tags", "tag cannot exceed 30 characters")
		}
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.bookmarksCol.UpdateOne(queryCtx,
		bson.M{"_id": bookmarkID, "user_id": userID},
		bson.M{
			"$addToSet": bson.M{"tags": bson.M{"$each": normalized}},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RemoveTags removes the given tags from the bookmark's tag set
func (s *Service) RemoveTags(ctx context.Context, userID, bookmarkID string, tags []string) error {
	normalized := shared.NormalizeTags(tags)
	if len(normalized) == 0 {
		return shared.NewValidationError("tags", "at least one tag is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.bookmarksCol.UpdateOne(queryCtx,
		bson.M{"_id": bookmarkID, "user_id": userID},
		bson.M{
			"$pull": bson.M{"tags": bson.M{"$in": normalized}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListOptions filters a user's bookmark listing
type ListOptions struct {
	Folder   string
	Priority shared.BookmarkPriority
	Tags     []string // bookmarks matching any of these tags
	Page     int64
	Limit    int64
}

// ListByUser returns the user's bookmarks, newest first, each joined with a
// fixed projection of the referenced material (id, title, subject, saves).
func (s *Service) ListByUser(ctx context.Context, userID string, opts ListOptions) ([]shared.BookmarkWithMaterial, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.bookmarksCol.Aggregate(queryCtx, listPipeline(userID, opts))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	results := []shared.BookmarkWithMaterial{}
	if err := cursor.All(queryCtx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// listFilter builds the match stage for a user's bookmark listing
func listFilter(userID string, opts ListOptions) bson.M {
	filter := bson.M{"user_id": userID}
	if opts.Folder != "" {
		filter["folder"] = opts.Folder
	}
	if opts.Priority != "" {
		filter["priority"] = opts.Priority
	}
	if len(opts.Tags) > 0 {
		filter["tags"] = bson.M{"$in": shared.NormalizeTags(opts.Tags)}
	}
	return filter
}

// listPipeline builds the aggregation joining each bookmark with its
// material summary. Only the documented subset of material fields survives
// the projection.
func listPipeline(userID string, opts ListOptions) mongo.Pipeline {
	limit := opts.Limit
	if limit <= 0 {
		limit = shared.DefaultPageSize
	}
	if limit > shared.MaxPageSize {
		limit = shared.MaxPageSize
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: listFilter(userID, opts)}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: (page - 1) * limit}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         shared.ColMaterials,
			"localField":   "material_id",
			"foreignField": "_id",
			"as":           "material",
			"pipeline": mongo.Pipeline{
				{{Key: "$project", Value: bson.M{"title": 1, "subject": 1, "saves": 1}}},
			},
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$material", "preserveNullAndEmptyArrays": true}}},
	}
}

// Get returns one bookmark owned by userID
func (s *Service) Get(ctx context.Context, userID, bookmarkID string) (*shared.Bookmark, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b shared.Bookmark
	err := s.bookmarksCol.FindOne(queryCtx, bson.M{"_id": bookmarkID, "user_id": userID}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpcomingReminders returns the user's bookmarks whose reminder falls within
// the next `days` days, soonest first.
func (s *Service) UpcomingReminders(ctx context.Context, userID string, days int) ([]shared.Bookmark, error) {
	if days <= 0 {
		days = 7
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"user_id": userID,
		"reminder_date": bson.M{
			"$gte": now,
			"$lte": now.Add(time.Duration(days) * 24 * time.Hour),
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "reminder_date", Value: 1}})

	cursor, err := s.bookmarksCol.Find(queryCtx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	bookmarks := []shared.Bookmark{}
	if err := cursor.All(queryCtx, &bookmarks); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// MostAccessed returns the user's most accessed bookmarks
func (s *Service) MostAccessed(ctx context.Context, userID string, limit int64) ([]shared.Bookmark, error) {
	if limit <= 0 {
		limit = 10
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "access_count", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.bookmarksCol.Find(queryCtx, bson.M{"user_id": userID, "access_count": bson.M{"$gt": 0}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	bookmarks := []shared.Bookmark{}
	if err := cursor.All(queryCtx, &bookmarks); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// incSaves builds the atomic delta update for the material saves counter
func incSaves(delta int) bson.M {
	return bson.M{
		"$inc": bson.M{"saves": delta},
		"$set": bson.M{"updated_at": time.Now()},
	}
}
