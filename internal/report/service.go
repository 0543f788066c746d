package report

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// Service owns reports and the report_count/is_reported flags on study
// materials. Reporting a material bumps its counter atomically before the
// report itself is inserted; a failed bump aborts the submission.
type Service struct {
	db           *mongo.Database
	reportsCol   *mongo.Collection
	materialsCol *mongo.Collection
}

// NewService creates a report Service
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:           db,
		reportsCol:   db.Collection(shared.ColReports),
		materialsCol: db.Collection(shared.ColMaterials),
	}
}

// CreateInput carries a report submission
type CreateInput struct {
	TargetType  shared.ReportTargetType `json:"target_type"`
	TargetID    string                  `json:"target_id"`
	Reason      shared.ReportReason     `json:"reason"`
	Category    shared.ReportCategory   `json:"category"`
	Severity    shared.ReportSeverity   `json:"severity"`
	Description string                  `json:"description"`
	Evidence    *shared.ReportEvidence  `json:"evidence,omitempty"`
	IsAnonymous bool                    `json:"is_anonymous,omitempty"`
	ReporterIP  string                  `json:"-"`
	UserAgent   string                  `json:"-"`
}

// Create validates and files a report. Creation applies the priority
// escalation rule, and when the target is a study material the material's
// report_count is incremented and is_reported set as a precondition of the
// insert.
func (s *Service) Create(ctx context.Context, reporterID string, in CreateInput) (*shared.Report, error) {
	now := time.Now()

	r := &shared.Report{
		ID:          shared.GenerateID("RPT"),
		ReporterID:  reporterID,
		TargetType:  in.TargetType,
		TargetID:    in.TargetID,
		Reason:      in.Reason,
		Category:    in.Category,
		Severity:    in.Severity,
		Description: in.Description,
		Evidence:    in.Evidence,
		Status:      shared.StatusPending,
		Priority:    shared.ReportPriorityMedium,
		Metadata: shared.ReportMetadata{
			IsAnonymous: in.IsAnonymous,
			ReporterIP:  in.ReporterIP,
			UserAgent:   in.UserAgent,
		},
		CreatedAt: now,
	}

	if err := shared.ValidateReport(r); err != nil {
		return nil, err
	}

	// The two creation rules touch disjoint fields; order does not matter
	shared.EscalateReportPriority(r)
	shared.StampReportStatusTimes(r, now)

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if r.TargetType == shared.TargetMaterial {
		res, err := s.materialsCol.UpdateOne(queryCtx,
			bson.M{"_id": r.TargetID},
			bumpReportCount(now),
		)
		if err != nil {
			return nil, shared.NewRelatedWriteError(shared.ColMaterials, err)
		}
		if res.MatchedCount == 0 {
			return nil, shared.ErrNotFound
		}
	}

	if _, err := s.reportsCol.InsertOne(queryCtx, r); err != nil {
		if r.TargetType == shared.TargetMaterial {
			s.compensateReportCount(queryCtx, r.TargetID)
		}
		return nil, err
	}
	return r, nil
}

// bumpReportCount builds the creation-time precondition update on the
// reported material
func bumpReportCount(now time.Time) bson.M {
	return bson.M{
		"$inc": bson.M{"report_count": 1},
		"$set": bson.M{"is_reported": true, "updated_at": now},
	}
}

// rollbackReportCount builds the atomic undo for a failed report insert. It
// leaves is_reported alone; the flag is reset separately once the counter is
// back to zero.
func rollbackReportCount(now time.Time) bson.M {
	return bson.M{
		"$inc": bson.M{"report_count": -1},
		"$set": bson.M{"updated_at": now},
	}
}

// compensateReportCount undoes the counter bump after a failed report
// insert, so the report_count stays equal to the number of stored reports.
// The decrement is guarded against going below zero, and is_reported is
// cleared again when no reports remain.
func (s *Service) compensateReportCount(ctx context.Context, materialID string) {
	now := time.Now()
	if _, err := s.materialsCol.UpdateOne(ctx,
		bson.M{"_id": materialID, "report_count": bson.M{"$gt": 0}},
		rollbackReportCount(now),
	); err != nil {
		log.Printf("WARN: failed to compensate report count for material %s: %v", materialID, err)
		return
	}
	if _, err := s.materialsCol.UpdateOne(ctx,
		bson.M{"_id": materialID, "report_count": 0},
		bson.M{"$set": bson.M{"is_reported": false, "updated_at": now}},
	); err != nil {
		log.Printf("WARN: failed to reset is_reported for material %s: %v", materialID, err)
	}
}

// Get returns one report by id, or ErrNotFound
func (s *Service) Get(ctx context.Context, id string) (*shared.Report, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var r shared.Report
	err := s.reportsCol.FindOne(queryCtx, bson.M{"_id": id}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Assign hands a pending report to a moderator and moves it to under-review.
// reviewed_at is stamped only on the first transition.
func (s *Service) Assign(ctx context.Context, reportID, moderatorID string) (*shared.Report, error) {
	if moderatorID == "" {
		return nil, shared.NewValidationError("moderator_id", "moderator_id is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"assigned_to": moderatorID,
			"status":      shared.StatusUnderReview,
			"updated_at":  now,
		},
	}

	// Stamp reviewed_at once; a report assigned a second time keeps the
	// original review timestamp.
	var current shared.Report
	err := s.reportsCol.FindOne(queryCtx, bson.M{"_id": reportID}).Decode(&current)
	if err == mongo.ErrNoDocuments {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if current.Status.IsTerminal() {
		return nil, shared.NewConflictError("report %s is already %s", reportID, current.Status)
	}
	if current.ReviewedAt == nil {
		update["$set"].(bson.M)["reviewed_at"] = now
	}

	return s.findOneAndUpdate(queryCtx, reportID, update)
}

// ResolveInput carries the resolution details for closing a report
type ResolveInput struct {
	Action           shared.ResolutionAction `json:"action"`
	Notes            string                  `json:"notes,omitempty"`
	FollowUpRequired bool                    `json:"follow_up_required,omitempty"`
}

// Resolve closes a report as resolved. resolved_at is stamped only once.
func (s *Service) Resolve(ctx context.Context, reportID, resolverID string, in ResolveInput) (*shared.Report, error) {
	return s.close(ctx, reportID, resolverID, shared.StatusResolved, in)
}

// Dismiss closes a report as dismissed
func (s *Service) Dismiss(ctx context.Context, reportID, resolverID string, in ResolveInput) (*shared.Report, error) {
	return s.close(ctx, reportID, resolverID, shared.StatusDismissed, in)
}

func (s *Service) close(ctx context.Context, reportID, resolverID string, status shared.ReportStatus, in ResolveInput) (*shared.Report, error) {
	if resolverID == "" {
		return nil, shared.NewValidationError("resolver_id", "resolver_id is required")
	}
	switch in.Action {
	case shared.ActionNone, shared.ActionWarning, shared.ActionContentRemoved,
		shared.ActionAccountSuspened, shared.ActionContentEdited:
	default:
		return nil, shared.NewValidationError("action", "invalid resolution action")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var current shared.Report
	err := s.reportsCol.FindOne(queryCtx, bson.M{"_id": reportID}).Decode(&current)
	if err == mongo.ErrNoDocuments {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if current.Status.IsTerminal() {
		return nil, shared.NewConflictError("report %s is already %s", reportID, current.Status)
	}

	now := time.Now()
	set := bson.M{
		"status": status,
		"resolution": shared.ReportResolution{
			Action:           in.Action,
			Notes:            in.Notes,
			ResolvedBy:       resolverID,
			FollowUpRequired: in.FollowUpRequired,
		},
		"updated_at": now,
	}
	if current.ResolvedAt == nil {
		set["resolved_at"] = now
	}

	return s.findOneAndUpdate(queryCtx, reportID, bson.M{"$set": set})
}

// Escalate moves a non-terminal report to escalated with urgent priority and
// records who escalated it and why as an internal note. The acting moderator
// is an explicit parameter; notes are never attributed to a synthesized
// identity.
func (s *Service) Escalate(ctx context.Context, reportID, actorID, reason string) (*shared.Report, error) {
	if actorID == "" {
		return nil, shared.NewValidationError("actor_id", "actor_id is required")
	}
	if reason == "" {
		return nil, shared.NewValidationError("reason", "escalation reason is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var current shared.Report
	err := s.reportsCol.FindOne(queryCtx, bson.M{"_id": reportID}).Decode(&current)
	if err == mongo.ErrNoDocuments {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if current.Status.IsTerminal() {
		return nil, shared.NewConflictError("report %s is already %s", reportID, current.Status)
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"status":     shared.StatusEscalated,
			"priority":   shared.ReportPriorityUrgent,
			"updated_at": now,
		},
		"$push": bson.M{
			"internal_notes": shared.InternalNote{
				ID:      uuid.NewString(),
				Note:    "Escalated: " + reason,
				AddedBy: actorID,
				AddedAt: now,
			},
		},
	}

	return s.findOneAndUpdate(queryCtx, reportID, update)
}

// AddInternalNote appends a moderator note. Notes can still be added after a
// report is resolved or dismissed.
func (s *Service) AddInternalNote(ctx context.Context, reportID, authorID, note string) (*shared.Report, error) {
	if authorID == "" {
		return nil, shared.NewValidationError("author_id", "author_id is required")
	}
	if note == "" {
		return nil, shared.NewValidationError("note", "note text is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{
			"internal_notes": shared.InternalNote{
				ID:      uuid.NewString(),
				Note:    note,
				AddedBy: authorID,
				AddedAt: time.Now(),
			},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	return s.findOneAndUpdate(queryCtx, reportID, update)
}

// findOneAndUpdate applies update and returns the post-update document
func (s *Service) findOneAndUpdate(ctx context.Context, reportID string, update bson.M) (*shared.Report, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated shared.Report
	err := s.reportsCol.FindOneAndUpdate(ctx, bson.M{"_id": reportID}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListOptions filters a moderation listing
type ListOptions struct {
	Status   shared.ReportStatus
	Priority shared.ReportPriority
	Category shared.ReportCategory
	Page     int64
	Limit    int64
}

// List returns reports matching the filters, newest first
func (s *Service) List(ctx context.Context, opts ListOptions) ([]shared.Report, error) {
	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = opts.Status
	}
	if opts.Priority != "" {
		filter["priority"] = opts.Priority
	}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.reportsCol.Find(queryCtx, filter, shared.BuildFindOptions(opts.Page, opts.Limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	reports := []shared.Report{}
	if err := cursor.All(queryCtx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// ListPending returns open reports ordered for the moderation queue
func (s *Service) ListPending(ctx context.Context, page, limit int64) ([]shared.Report, error) {
	return s.List(ctx, ListOptions{Status: shared.StatusPending, Page: page, Limit: limit})
}

// ListByTarget returns all reports filed against one target
func (s *Service) ListByTarget(ctx context.Context, targetType shared.ReportTargetType, targetID string) ([]shared.Report, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.reportsCol.Find(queryCtx,
		bson.M{"target_type": targetType, "target_id": targetID},
		shared.BuildFindOptions(1, shared.DefaultPageSize),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	reports := []shared.Report{}
	if err := cursor.All(queryCtx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// FindSimilar returns other reports against the same target. A missing
// report yields an empty slice, not an error.
func (s *Service) FindSimilar(ctx context.Context, reportID string) ([]shared.Report, error) {
	r, err := s.Get(ctx, reportID)
	if err == shared.ErrNotFound {
		return []shared.Report{}, nil
	}
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.reportsCol.Find(queryCtx, bson.M{
		"target_type": r.TargetType,
		"target_id":   r.TargetID,
		"_id":         bson.M{"$ne": r.ID},
	}, shared.BuildFindOptions(1, shared.DefaultPageSize))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	reports := []shared.Report{}
	if err := cursor.All(queryCtx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Stats is the moderation dashboard summary
type Stats struct {
	ByStatus              map[shared.ReportStatus]int32   `json:"by_status"`
	ByCategory            map[shared.ReportCategory]int32 `json:"by_category"`
	AvgResolutionHours    float64                         `json:"avg_resolution_hours"`
	MedianResolutionHours float64                         `json:"median_resolution_hours"`
	ResolvedCount         int32                           `json:"resolved_count"`
}

// GetStats aggregates report counts by status and category plus resolution
// time statistics. Unresolved reports are excluded from the resolution-time
// averages rather than counted as zero.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result := &Stats{
		ByStatus:   map[shared.ReportStatus]int32{},
		ByCategory: map[shared.ReportCategory]int32{},
	}

	statusPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.reportsCol.Aggregate(queryCtx, statusPipeline)
	if err != nil {
		return nil, err
	}
	var statusCounts []struct {
		Status shared.ReportStatus `bson:"_id"`
		Count  int32               `bson:"count"`
	}
	if err := cursor.All(queryCtx, &statusCounts); err != nil {
		return nil, err
	}
	for _, sc := range statusCounts {
		result.ByStatus[sc.Status] = sc.Count
	}

	categoryPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err = s.reportsCol.Aggregate(queryCtx, categoryPipeline)
	if err != nil {
		return nil, err
	}
	var categoryCounts []struct {
		Category shared.ReportCategory `bson:"_id"`
		Count    int32                 `bson:"count"`
	}
	if err := cursor.All(queryCtx, &categoryCounts); err != nil {
		return nil, err
	}
	for _, cc := range categoryCounts {
		result.ByCategory[cc.Category] = cc.Count
	}

	// Resolution times: only documents that actually carry resolved_at
	resolvedCursor, err := s.reportsCol.Find(queryCtx,
		bson.M{"resolved_at": bson.M{"$ne": nil}},
		options.Find().SetProjection(bson.M{"created_at": 1, "resolved_at": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer resolvedCursor.Close(queryCtx)

	var resolved []shared.Report
	if err := resolvedCursor.All(queryCtx, &resolved); err != nil {
		return nil, err
	}

	hours := make([]float64, 0, len(resolved))
	for _, r := range resolved {
		if h := r.ResolutionTimeHours(); h != nil {
			hours = append(hours, *h)
		}
	}
	result.ResolvedCount = int32(len(hours))

	if len(hours) > 0 {
		if mean, err := stats.Mean(hours); err == nil {
			result.AvgResolutionHours = mean
		}
		if median, err := stats.Median(hours); err == nil {
			result.MedianResolutionHours = median
		}
	}

	return result, nil
}
