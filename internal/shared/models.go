// ============================================================================
// internal/shared/models.go
// Data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"fmt"
	"time"
)

// ============================================================================
// User Models
// ============================================================================

// User represents a user account (student, moderator, or admin)
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"` // Never expose in JSON
	Role         string    `bson:"role" json:"role"`       // student, moderator, admin
	Name         string    `bson:"name" json:"name"`
	School       string    `bson:"school,omitempty" json:"school,omitempty"`
	Program      string    `bson:"program,omitempty" json:"program,omitempty"`
	IsActive     bool      `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// User roles
const (
	RoleStudent   = "student"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Session represents an active user session (for JWT tracking)
type Session struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	IPAddress string    `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
}

// ============================================================================
// Study Material Models
// ============================================================================

// StudyMaterial represents an uploaded study material.
//
// Saves, ReportCount and IsReported are denormalized counters maintained by
// the bookmark and report services via atomic $inc/$set updates. Nothing else
// may write them.
type StudyMaterial struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Subject     string    `bson:"subject,omitempty" json:"subject,omitempty"`
	CourseCode  string    `bson:"course_code,omitempty" json:"course_code,omitempty"`
	UploaderID  string    `bson:"uploader_id" json:"uploader_id"`
	FileURL     string    `bson:"file_url,omitempty" json:"file_url,omitempty"`
	Tags        []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	Saves       int32     `bson:"saves" json:"saves"`
	ReportCount int32     `bson:"report_count" json:"report_count"`
	IsReported  bool      `bson:"is_reported" json:"is_reported"`
	IsDeleted   bool      `bson:"is_deleted" json:"is_deleted"` // soft delete
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ============================================================================
// Bookmark Models
// ============================================================================

// BookmarkPriority is the priority level of a bookmark
type BookmarkPriority string

const (
	BookmarkPriorityLow    BookmarkPriority = "low"
	BookmarkPriorityMedium BookmarkPriority = "medium"
	BookmarkPriorityHigh   BookmarkPriority = "high"
)

// ReminderStatus classifies how close a bookmark's reminder date is
type ReminderStatus string

const (
	ReminderNone     ReminderStatus = "none"
	ReminderOverdue  ReminderStatus = "overdue"
	ReminderToday    ReminderStatus = "today"
	ReminderSoon     ReminderStatus = "soon"
	ReminderUpcoming ReminderStatus = "upcoming"
)

// Bookmark represents one user's saved reference to one study material.
// At most one bookmark exists per (user, material) pair, enforced by a unique
// compound index.
type Bookmark struct {
	ID             string           `bson:"_id" json:"id"`
	UserID         string           `bson:"user_id" json:"user_id"`
	MaterialID     string           `bson:"material_id" json:"material_id"`
	Folder         string           `bson:"folder,omitempty" json:"folder,omitempty"`
	Tags           []string         `bson:"tags,omitempty" json:"tags,omitempty"` // always lowercase
	Notes          string           `bson:"notes,omitempty" json:"notes,omitempty"`
	IsPrivate      bool             `bson:"is_private" json:"is_private"`
	Priority       BookmarkPriority `bson:"priority" json:"priority"`
	ReminderDate   *time.Time       `bson:"reminder_date,omitempty" json:"reminder_date,omitempty"`
	AccessCount    int32            `bson:"access_count" json:"access_count"`
	LastAccessedAt *time.Time       `bson:"last_accessed_at,omitempty" json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// BookmarkWithMaterial extends Bookmark with denormalized material info for
// list responses. Only a fixed subset of material fields is exposed.
type BookmarkWithMaterial struct {
	Bookmark `bson:",inline"`
	Material *MaterialSummary `bson:"material,omitempty" json:"material,omitempty"`
}

// MaterialSummary is the projected subset of StudyMaterial joined into reads
type MaterialSummary struct {
	ID      string `bson:"_id" json:"id"`
	Title   string `bson:"title" json:"title"`
	Subject string `bson:"subject,omitempty" json:"subject,omitempty"`
	Saves   int32  `bson:"saves" json:"saves"`
}

// ============================================================================
// Enrollment Models
// ============================================================================

// CourseStatus is the lifecycle status of an enrolled course
type CourseStatus string

const (
	CourseEnrolled   CourseStatus = "enrolled"
	CourseInProgress CourseStatus = "in-progress"
	CourseCompleted  CourseStatus = "completed"
	CourseDropped    CourseStatus = "dropped"
	CourseFailed     CourseStatus = "failed"
)

// CourseRecord is one course entry embedded in an Enrollment
type CourseRecord struct {
	CourseCode  string       `bson:"course_code" json:"course_code"`
	CourseName  string       `bson:"course_name,omitempty" json:"course_name,omitempty"`
	Semester    string       `bson:"semester" json:"semester"`
	Year        int32        `bson:"year" json:"year"`
	Term        string       `bson:"term,omitempty" json:"term,omitempty"`
	Status      CourseStatus `bson:"status" json:"status"`
	Grade       string       `bson:"grade,omitempty" json:"grade,omitempty"`
	Credits     float64      `bson:"credits" json:"credits"`
	EnrolledAt  *time.Time   `bson:"enrolled_at,omitempty" json:"enrolled_at,omitempty"`
	CompletedAt *time.Time   `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// Enrollment represents a user's enrollment in an academic program.
// At most one enrollment exists per (user, program) pair.
//
// CompletedCredits is recomputed from the embedded courses on every save and
// never trusted from caller input.
type Enrollment struct {
	ID               string         `bson:"_id" json:"id"`
	UserID           string         `bson:"user_id" json:"user_id"`
	ProgramID        string         `bson:"program_id" json:"program_id"`
	SchoolID         string         `bson:"school_id,omitempty" json:"school_id,omitempty"`
	ProgramName      string         `bson:"program_name,omitempty" json:"program_name,omitempty"`
	Courses          []CourseRecord `bson:"courses" json:"courses"`
	TotalCredits     float64        `bson:"total_credits" json:"total_credits"`
	CompletedCredits float64        `bson:"completed_credits" json:"completed_credits"`
	Status           string         `bson:"status" json:"status"` // active, completed, withdrawn
	CreatedAt        time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ============================================================================
// Notification Models
// ============================================================================

// NotificationType identifies what a notification is about
type NotificationType string

const (
	NotifComment          NotificationType = "comment"
	NotifRating           NotificationType = "rating"
	NotifMaterialApproved NotificationType = "material-approved"
	NotifMaterialRejected NotificationType = "material-rejected"
	NotifNewMaterial      NotificationType = "new-material"
	NotifCourseUpdate     NotificationType = "course-update"
	NotifReminder         NotificationType = "reminder"
	NotifSystem           NotificationType = "system"
	NotifEnrollment       NotificationType = "enrollment"
	NotifAchievement      NotificationType = "achievement"
	NotifReportResolved   NotificationType = "report-resolved"
)

// NotificationPriority is the delivery priority of a notification
type NotificationPriority string

const (
	NotifPriorityLow    NotificationPriority = "low"
	NotifPriorityMedium NotificationPriority = "medium"
	NotifPriorityHigh   NotificationPriority = "high"
	NotifPriorityUrgent NotificationPriority = "urgent"
)

// NotificationChannel is a delivery channel
type NotificationChannel string

const (
	ChannelInApp NotificationChannel = "in-app"
	ChannelEmail NotificationChannel = "email"
	ChannelPush  NotificationChannel = "push"
)

// RelatedModel identifies which entity kind a polymorphic reference points at
type RelatedModel string

const (
	RelatedMaterial   RelatedModel = "StudyMaterial"
	RelatedUser       RelatedModel = "User"
	RelatedComment    RelatedModel = "Comment"
	RelatedEnrollment RelatedModel = "Enrollment"
	RelatedReport     RelatedModel = "Report"
)

// RelatedRef is a typed reference to another entity
type RelatedRef struct {
	Model RelatedModel `bson:"model" json:"model"`
	ID    string       `bson:"id" json:"id"`
}

// Validate checks that the (model, id) combination is well formed
func (r RelatedRef) Validate() error {
	switch r.Model {
	case RelatedMaterial, RelatedUser, RelatedComment, RelatedEnrollment, RelatedReport:
	default:
		return fmt.Errorf("unknown related model %q", r.Model)
	}
	if r.ID == "" {
		return fmt.Errorf("related reference requires an id")
	}
	return nil
}

// NotificationMetadata is a denormalized snapshot stored with a notification
// so it stays readable even if the referenced entity changes or is deleted.
type NotificationMetadata struct {
	CourseName    string  `bson:"course_name,omitempty" json:"course_name,omitempty"`
	MaterialTitle string  `bson:"material_title,omitempty" json:"material_title,omitempty"`
	UserName      string  `bson:"user_name,omitempty" json:"user_name,omitempty"`
	Action        string  `bson:"action,omitempty" json:"action,omitempty"`
	Grade         string  `bson:"grade,omitempty" json:"grade,omitempty"`
	Points        float64 `bson:"points,omitempty" json:"points,omitempty"`
}

// Notification represents a message delivered to a user
type Notification struct {
	ID           string                `bson:"_id" json:"id"`
	RecipientID  string                `bson:"recipient_id" json:"recipient_id"`
	SenderID     string                `bson:"sender_id,omitempty" json:"sender_id,omitempty"`
	Type         NotificationType      `bson:"type" json:"type"`
	Title        string                `bson:"title" json:"title"`
	Message      string                `bson:"message" json:"message"`
	Related      *RelatedRef           `bson:"related,omitempty" json:"related,omitempty"`
	Metadata     *NotificationMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`
	IsRead       bool                  `bson:"is_read" json:"is_read"`
	IsArchived   bool                  `bson:"is_archived" json:"is_archived"`
	ReadAt       *time.Time            `bson:"read_at,omitempty" json:"read_at,omitempty"`
	Priority     NotificationPriority  `bson:"priority" json:"priority"`
	Channels     []NotificationChannel `bson:"channels" json:"channels"`
	ScheduledFor *time.Time            `bson:"scheduled_for,omitempty" json:"scheduled_for,omitempty"`
	ExpiresAt    *time.Time            `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedAt    time.Time             `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time             `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ============================================================================
// Report Models
// ============================================================================

// ReportTargetType identifies what kind of entity a report is against
type ReportTargetType string

const (
	TargetMaterial ReportTargetType = "StudyMaterial"
	TargetUser     ReportTargetType = "User"
	TargetComment  ReportTargetType = "Comment"
)

// ReportReason is the reporter-selected reason
type ReportReason string

const (
	ReasonSpam               ReportReason = "spam"
	ReasonInappropriate      ReportReason = "inappropriate-content"
	ReasonCopyright          ReportReason = "copyright-violation"
	ReasonHarassment         ReportReason = "harassment"
	ReasonAcademicDishonesty ReportReason = "academic-dishonesty"
	ReasonMisleading         ReportReason = "misleading-information"
	ReasonDuplicate          ReportReason = "duplicate-content"
	ReasonOther              ReportReason = "other"
)

// ReportCategory groups reasons into broad buckets
type ReportCategory string

const (
	CategoryContent   ReportCategory = "content"
	CategoryBehavior  ReportCategory = "behavior"
	CategoryLegal     ReportCategory = "legal"
	CategoryTechnical ReportCategory = "technical"
)

// ReportSeverity is the reporter-assessed severity
type ReportSeverity string

const (
	SeverityLow      ReportSeverity = "low"
	SeverityMedium   ReportSeverity = "medium"
	SeverityHigh     ReportSeverity = "high"
	SeverityCritical ReportSeverity = "critical"
)

// ReportStatus is the moderation workflow state.
// pending -> under-review -> {resolved, dismissed, escalated}, with escalated
// reachable from any non-terminal state via the explicit escalate operation.
type ReportStatus string

const (
	StatusPending     ReportStatus = "pending"
	StatusUnderReview ReportStatus = "under-review"
	StatusResolved    ReportStatus = "resolved"
	StatusDismissed   ReportStatus = "dismissed"
	StatusEscalated   ReportStatus = "escalated"
)

// ReportPriority is the moderation priority
type ReportPriority string

const (
	ReportPriorityLow    ReportPriority = "low"
	ReportPriorityMedium ReportPriority = "medium"
	ReportPriorityHigh   ReportPriority = "high"
	ReportPriorityUrgent ReportPriority = "urgent"
)

// ResolutionAction is the action taken when resolving a report
type ResolutionAction string

const (
	ActionNone            ResolutionAction = "no-action"
	ActionWarning         ResolutionAction = "warning-issued"
	ActionContentRemoved  ResolutionAction = "content-removed"
	ActionAccountSuspened ResolutionAction = "account-suspended"
	ActionContentEdited   ResolutionAction = "content-edited"
)

// ReportEvidence holds supporting material attached by the reporter
type ReportEvidence struct {
	Screenshots []string `bson:"screenshots,omitempty" json:"screenshots,omitempty"` // image URLs
	URLs        []string `bson:"urls,omitempty" json:"urls,omitempty"`
	Text        string   `bson:"text,omitempty" json:"text,omitempty"`
}

// ReportResolution records how a report was closed out
type ReportResolution struct {
	Action           ResolutionAction `bson:"action" json:"action"`
	Notes            string           `bson:"notes,omitempty" json:"notes,omitempty"`
	ResolvedBy       string           `bson:"resolved_by" json:"resolved_by"`
	FollowUpRequired bool             `bson:"follow_up_required" json:"follow_up_required"`
}

// InternalNote is one append-only moderator note on a report
type InternalNote struct {
	ID      string    `bson:"id" json:"id"`
	Note    string    `bson:"note" json:"note"`
	AddedBy string    `bson:"added_by" json:"added_by"`
	AddedAt time.Time `bson:"added_at" json:"added_at"`
}

// ReportMetadata captures submission context
type ReportMetadata struct {
	IsAnonymous bool   `bson:"is_anonymous" json:"is_anonymous"`
	ReporterIP  string `bson:"reporter_ip,omitempty" json:"reporter_ip,omitempty"`
	UserAgent   string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
}

// Report represents a user-submitted report against a material, user or comment
type Report struct {
	ID             string            `bson:"_id" json:"id"`
	ReporterID     string            `bson:"reporter_id" json:"reporter_id"`
	TargetType     ReportTargetType  `bson:"target_type" json:"target_type"`
	TargetID       string            `bson:"target_id" json:"target_id"`
	Reason         ReportReason      `bson:"reason" json:"reason"`
	Category       ReportCategory    `bson:"category" json:"category"`
	Severity       ReportSeverity    `bson:"severity" json:"severity"`
	Description    string            `bson:"description" json:"description"`
	Evidence       *ReportEvidence   `bson:"evidence,omitempty" json:"evidence,omitempty"`
	Status         ReportStatus      `bson:"status" json:"status"`
	Priority       ReportPriority    `bson:"priority" json:"priority"`
	AssignedTo     string            `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	ReviewedAt     *time.Time        `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	ResolvedAt     *time.Time        `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
	Resolution     *ReportResolution `bson:"resolution,omitempty" json:"resolution,omitempty"`
	InternalNotes  []InternalNote    `bson:"internal_notes,omitempty" json:"internal_notes,omitempty"`
	RelatedReports []string          `bson:"related_reports,omitempty" json:"related_reports,omitempty"`
	Metadata       ReportMetadata    `bson:"metadata" json:"metadata"`
	CreatedAt      time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// IsTerminal reports whether the status closes the moderation workflow
func (s ReportStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusDismissed
}

// ============================================================================
// ID Generation Helpers
// ============================================================================

// GenerateID generates a unique ID with prefix and timestamp
func GenerateID(prefix string) string {
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("%s_%d", prefix, timestamp)
}
