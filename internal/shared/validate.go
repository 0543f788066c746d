// ============================================================================
// internal/shared/validate.go
// Static field validation. Constraint failures surface synchronously as
// field-level ValidationErrors before anything is persisted.
// ============================================================================

package shared

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// Regex contracts for free-form fields
var (
	folderNameRe    = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)
	gradeRe         = regexp.MustCompile(`^[A-F][+-]?$|^[0-9]{1,3}(\.[0-9]{1,2})?%?$`)
	screenshotURLRe = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png|gif)$`)
	genericURLRe    = regexp.MustCompile(`^https?://.+`)
	ipAddressRe     = regexp.MustCompile(`^(?:[0-9]{1,3}\.){3}[0-9]{1,3}$|^([0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}$`)
)

// Field length limits
const (
	MaxFolderLen      = 50
	MaxTagLen         = 30
	MaxNotesLen       = 1000
	MinDescriptionLen = 10
	MaxDescriptionLen = 1000
)

// validate is the shared validator instance with the custom rules registered
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	regexRules := map[string]*regexp.Regexp{
		"folder_name":    folderNameRe,
		"grade":          gradeRe,
		"screenshot_url": screenshotURLRe,
		"generic_url":    genericURLRe,
		"ip_address":     ipAddressRe,
	}
	for tag, re := range regexRules {
		re := re
		v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}

	return v
}

// IsReporterIP reports whether s satisfies the stored reporter-IP contract
// (dotted IPv4 or full-form IPv6).
func IsReporterIP(s string) bool {
	return ipAddressRe.MatchString(s)
}

// checkVar runs a validator rule against a single value and converts the
// failure into a field-level ValidationError.
func checkVar(field string, value interface{}, rule, message string) error {
	if err := validate.Var(value, rule); err != nil {
		return NewValidationError(field, message)
	}
	return nil
}

// ============================================================================
// Bookmark
// ============================================================================

// ValidateBookmark checks all static constraints on a bookmark before a
// create or update. reminder_date must be strictly in the future at write
// time.
func ValidateBookmark(b *Bookmark, now time.Time) error {
	if b.UserID == "" {
		return NewValidationError("user_id", "user_id is required")
	}
	if b.MaterialID == "" {
		return NewValidationError("material_id", "material_id is required")
	}

	if b.Folder != "" {
		if len(b.Folder) > MaxFolderLen {
			return NewValidationError("folder", fmt.Sprintf("folder name cannot exceed %d characters", MaxFolderLen))
		}
		if err := checkVar("folder", b.Folder, "folder_name", "folder name may only contain letters, numbers, spaces, hyphens and underscores"); err != nil {
			return err
		}
	}

	for _, tag := range b.Tags {
		if len(tag) > MaxTagLen {
			return NewValidationError("tags", fmt.Sprintf("tag cannot exceed %d characters", MaxTagLen))
		}
	}

	if len(b.Notes) > MaxNotesLen {
		return NewValidationError("notes", fmt.Sprintf("notes cannot exceed %d characters", MaxNotesLen))
	}

	switch b.Priority {
	case "", BookmarkPriorityLow, BookmarkPriorityMedium, BookmarkPriorityHigh:
	default:
		return NewValidationError("priority", fmt.Sprintf("invalid priority %q", b.Priority))
	}

	if b.ReminderDate != nil && !b.ReminderDate.After(now) {
		return NewValidationError("reminder_date", "reminder date must be in the future")
	}

	if b.AccessCount < 0 {
		return NewValidationError("access_count", "access count cannot be negative")
	}

	return nil
}

// ============================================================================
// Enrollment
// ============================================================================

// ValidateEnrollment checks enrollment-level and embedded-course constraints
func ValidateEnrollment(e *Enrollment) error {
	if e.UserID == "" {
		return NewValidationError("user_id", "user_id is required")
	}
	if e.ProgramID == "" {
		return NewValidationError("program_id", "program_id is required")
	}
	if e.TotalCredits < 0 {
		return NewValidationError("total_credits", "total credits cannot be negative")
	}

	for i, c := range e.Courses {
		field := fmt.Sprintf("courses[%d]", i)
		if c.CourseCode == "" {
			return NewValidationError(field+".course_code", "course code is required")
		}
		switch c.Status {
		case CourseEnrolled, CourseInProgress, CourseCompleted, CourseDropped, CourseFailed:
		default:
			return NewValidationError(field+".status", fmt.Sprintf("invalid course status %q", c.Status))
		}
		if c.Credits < 0 {
			return NewValidationError(field+".credits", "credits cannot be negative")
		}
		if c.Grade != "" {
			if err := checkVar(field+".grade", c.Grade, "grade", "grade must be a letter grade (A-F with optional +/-) or a numeric grade"); err != nil {
				return err
			}
		}
	}

	return nil
}

// ============================================================================
// Notification
// ============================================================================

var validNotifTypes = map[NotificationType]bool{
	NotifComment: true, NotifRating: true, NotifMaterialApproved: true,
	NotifMaterialRejected: true, NotifNewMaterial: true, NotifCourseUpdate: true,
	NotifReminder: true, NotifSystem: true, NotifEnrollment: true,
	NotifAchievement: true, NotifReportResolved: true,
}

// ValidateNotification checks constraints at creation time. scheduled_for
// must not be in the past and expires_at must be in the future.
func ValidateNotification(n *Notification, now time.Time) error {
	if n.RecipientID == "" {
		return NewValidationError("recipient_id", "recipient_id is required")
	}
	if !validNotifTypes[n.Type] {
		return NewValidationError("type", fmt.Sprintf("invalid notification type %q", n.Type))
	}
	if n.Title == "" {
		return NewValidationError("title", "title is required")
	}
	if n.Message == "" {
		return NewValidationError("message", "message is required")
	}

	switch n.Priority {
	case "", NotifPriorityLow, NotifPriorityMedium, NotifPriorityHigh, NotifPriorityUrgent:
	default:
		return NewValidationError("priority", fmt.Sprintf("invalid priority %q", n.Priority))
	}

	for _, ch := range n.Channels {
		switch ch {
		case ChannelInApp, ChannelEmail, ChannelPush:
		default:
			return NewValidationError("channels", fmt.Sprintf("invalid channel %q", ch))
		}
	}

	if n.Related != nil {
		if err := n.Related.Validate(); err != nil {
			return NewValidationError("related", err.Error())
		}
	}

	if n.ScheduledFor != nil && n.ScheduledFor.Before(now) {
		return NewValidationError("scheduled_for", "scheduled time cannot be in the past")
	}
	if n.ExpiresAt != nil && !n.ExpiresAt.After(now) {
		return NewValidationError("expires_at", "expiry must be in the future")
	}

	return nil
}

// ============================================================================
// Report
// ============================================================================

var validReasons = map[ReportReason]bool{
	ReasonSpam: true, ReasonInappropriate: true, ReasonCopyright: true,
	ReasonHarassment: true, ReasonAcademicDishonesty: true,
	ReasonMisleading: true, ReasonDuplicate: true, ReasonOther: true,
}

var validCategories = map[ReportCategory]bool{
	CategoryContent: true, CategoryBehavior: true,
	CategoryLegal: true, CategoryTechnical: true,
}

var validSeverities = map[ReportSeverity]bool{
	SeverityLow: true, SeverityMedium: true,
	SeverityHigh: true, SeverityCritical: true,
}

// ValidateReport checks all static constraints on a report submission
func ValidateReport(r *Report) error {
	if r.ReporterID == "" {
		return NewValidationError("reporter_id", "reporter_id is required")
	}

	switch r.TargetType {
	case TargetMaterial, TargetUser, TargetComment:
	default:
		return NewValidationError("target_type", fmt.Sprintf("invalid target type %q", r.TargetType))
	}
	if r.TargetID == "" {
		return NewValidationError("target_id", "target_id is required")
	}

	if !validReasons[r.Reason] {
		return NewValidationError("reason", fmt.Sprintf("invalid reason %q", r.Reason))
	}
	if !validCategories[r.Category] {
		return NewValidationError("category", fmt.Sprintf("invalid category %q", r.Category))
	}
	if !validSeverities[r.Severity] {
		return NewValidationError("severity", fmt.Sprintf("invalid severity %q", r.Severity))
	}

	if len(r.Description) < MinDescriptionLen || len(r.Description) > MaxDescriptionLen {
		return NewValidationError("description",
			fmt.Sprintf("description must be between %d and %d characters", MinDescriptionLen, MaxDescriptionLen))
	}

	if r.Evidence != nil {
		for _, url := range r.Evidence.Screenshots {
			if err := checkVar("evidence.screenshots", url, "screenshot_url", "screenshot must be an http(s) URL ending in jpg, jpeg, png or gif"); err != nil {
				return err
			}
		}
		for _, url := range r.Evidence.URLs {
			if err := checkVar("evidence.urls", url, "generic_url", "evidence URL must start with http:// or https://"); err != nil {
				return err
			}
		}
	}

	if r.Metadata.ReporterIP != "" {
		if err := checkVar("metadata.reporter_ip", r.Metadata.ReporterIP, "ip_address", "reporter IP must be a valid IPv4 or IPv6 address"); err != nil {
			return err
		}
	}

	return nil
}
