package enrollment

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// Service owns program enrollments. completed_credits is recomputed from the
// embedded course records on every save path in this service, so a stale or
// caller-supplied value never reaches the store.
type Service struct {
	db             *mongo.Database
	enrollmentsCol *mongo.Collection
}

// NewService creates an enrollment Service
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:             db,
		enrollmentsCol: db.Collection(shared.ColEnrollments),
	}
}

// CreateInput carries the caller-supplied fields for a new enrollment
type CreateInput struct {
	ProgramID    string                `json:"program_id"`
	SchoolID     string                `json:"school_id,omitempty"`
	ProgramName  string                `json:"program_name,omitempty"`
	TotalCredits float64               `json:"total_credits"`
	Courses      []shared.CourseRecord `json:"courses,omitempty"`
}

// Create enrolls userID in a program. A second enrollment for the same
// (user, program) pair fails with a conflict.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*shared.Enrollment, error) {
	now := time.Now()
	e := &shared.Enrollment{
		ID:           shared.GenerateID("ENR"),
		UserID:       userID,
		ProgramID:    in.ProgramID,
		SchoolID:     in.SchoolID,
		ProgramName:  in.ProgramName,
		Courses:      in.Courses,
		TotalCredits: in.TotalCredits,
		Status:       "active",
		CreatedAt:    now,
	}
	if e.Courses == nil {
		e.Courses = []shared.CourseRecord{}
	}

	if err := shared.ValidateEnrollment(e); err != nil {
		return nil, err
	}
	shared.RecomputeCompletedCredits(e)

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.enrollmentsCol.InsertOne(queryCtx, e); err != nil {
		if shared.IsDuplicateKeyError(err) {
			return nil, shared.NewConflictError("user is already enrolled in program %s", in.ProgramID)
		}
		return nil, err
	}
	return e, nil
}

// Get returns an enrollment owned by userID
func (s *Service) Get(ctx context.Context, userID, enrollmentID string) (*shared.Enrollment, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var e shared.Enrollment
	err := s.enrollmentsCol.FindOne(queryCtx, bson.M{"_id": enrollmentID, "user_id": userID}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByUser returns all of the user's enrollments, newest first
func (s *Service) ListByUser(ctx context.Context, userID string) ([]shared.Enrollment, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.enrollmentsCol.Find(queryCtx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	enrollments := []shared.Enrollment{}
	if err := cursor.All(queryCtx, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// UpsertCourse adds a course record to the enrollment, or replaces the
// existing record with the same course code. The whole document is saved
// through saveCourses so completed_credits is recomputed no matter which
// course fields changed.
func (s *Service) UpsertCourse(ctx context.Context, userID, enrollmentID string, course shared.CourseRecord) (*shared.Enrollment, error) {
	e, err := s.Get(ctx, userID, enrollmentID)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i := range e.Courses {
		if e.Courses[i].CourseCode == course.CourseCode {
			e.Courses[i] = course
			replaced = true
			break
		}
	}
	if !replaced {
		if course.EnrolledAt == nil {
			now := time.Now()
			course.EnrolledAt = &now
		}
		e.Courses = append(e.Courses, course)
	}

	return s.saveCourses(ctx, e)
}

// SetCourseStatus updates the status (and optionally grade) of one embedded
// course record. Moving a course to completed stamps completed_at.
func (s *Service) SetCourseStatus(ctx context.Context, userID, enrollmentID, courseCode string, status shared.CourseStatus, grade string) (*shared.Enrollment, error) {
	e, err := s.Get(ctx, userID, enrollmentID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range e.Courses {
		if e.Courses[i].CourseCode != courseCode {
			continue
		}
		e.Courses[i].Status = status
		if grade != "" {
			e.Courses[i].Grade = grade
		}
		if status == shared.CourseCompleted && e.Courses[i].CompletedAt == nil {
			now := time.Now()
			e.Courses[i].CompletedAt = &now
		}
		found = true
		break
	}
	if !found {
		return nil, shared.ErrNotFound
	}

	return s.saveCourses(ctx, e)
}

// saveCourses validates, recomputes completed_credits and persists the
// embedded course list. Every course mutation funnels through here.
func (s *Service) saveCourses(ctx context.Context, e *shared.Enrollment) (*shared.Enrollment, error) {
	if err := shared.ValidateEnrollment(e); err != nil {
		return nil, err
	}
	shared.RecomputeCompletedCredits(e)
	e.UpdatedAt = time.Now()

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.enrollmentsCol.UpdateOne(queryCtx,
		bson.M{"_id": e.ID, "user_id": e.UserID},
		bson.M{"$set": bson.M{
			"courses":           e.Courses,
			"completed_credits": e.CompletedCredits,
			"updated_at":        e.UpdatedAt,
		}},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

// StatusCount is one bucket of the per-status course statistics
type StatusCount struct {
	Status shared.CourseStatus `bson:"_id" json:"status"`
	Count  int32               `bson:"count" json:"count"`
}

// Stats aggregates the user's embedded course records by status
func (s *Service) Stats(ctx context.Context, userID string) ([]StatusCount, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$unwind", Value: "$courses"}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$courses.status",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.enrollmentsCol.Aggregate(queryCtx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	counts := []StatusCount{}
	if err := cursor.All(queryCtx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
