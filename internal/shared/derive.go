// ============================================================================
// internal/shared/derive.go
// Computed (virtual) fields. These are pure functions of an entity's stored
// fields and an explicit clock value; nothing here is persisted.
// ============================================================================

package shared

import (
	"math"
	"time"
)

// ============================================================================
// Bookmark
// ============================================================================

// DaysSinceLastAccess returns the whole days since the bookmark was last
// accessed, or -1 if it was never accessed.
func (b *Bookmark) DaysSinceLastAccess(now time.Time) int {
	if b.LastAccessedAt == nil {
		return -1
	}
	return int(now.Sub(*b.LastAccessedAt).Hours() / 24)
}

// ReminderState classifies the bookmark's reminder date relative to now:
// overdue if past, today if due within the current day, soon if due in 1-3
// days, upcoming otherwise. Bookmarks without a reminder report "none".
func (b *Bookmark) ReminderState(now time.Time) ReminderStatus {
	if b.ReminderDate == nil {
		return ReminderNone
	}

	days := daysUntil(now, *b.ReminderDate)
	switch {
	case days < 0:
		return ReminderOverdue
	case days == 0:
		return ReminderToday
	case days <= 3:
		return ReminderSoon
	default:
		return ReminderUpcoming
	}
}

// daysUntil returns the number of whole days from now until t, negative when
// t is in the past.
func daysUntil(now, t time.Time) int {
	diff := t.Sub(now)
	if diff < 0 {
		// Any amount past due counts as overdue, even less than a day
		return -1
	}
	return int(diff.Hours() / 24)
}

// ============================================================================
// Enrollment
// ============================================================================

// CompletionPercentage returns completed/total credits as a percentage
// rounded to two decimals, or 0 when total credits is zero.
func (e *Enrollment) CompletionPercentage() float64 {
	if e.TotalCredits <= 0 {
		return 0
	}
	pct := e.CompletedCredits / e.TotalCredits * 100
	return math.Round(pct*100) / 100
}

// ActiveCourses returns the embedded courses currently being taken
func (e *Enrollment) ActiveCourses() []CourseRecord {
	active := make([]CourseRecord, 0, len(e.Courses))
	for _, c := range e.Courses {
		if c.Status == CourseEnrolled || c.Status == CourseInProgress {
			active = append(active, c)
		}
	}
	return active
}

// ============================================================================
// Report
// ============================================================================

// overdueThresholds maps report priority to the age (hours) after which an
// open report counts as overdue.
var overdueThresholds = map[ReportPriority]float64{
	ReportPriorityUrgent: 2,
	ReportPriorityHigh:   24,
	ReportPriorityMedium: 72,
	ReportPriorityLow:    168,
}

// AgeInHours returns the report's age in hours, rounded to one decimal
func (r *Report) AgeInHours(now time.Time) float64 {
	hours := now.Sub(r.CreatedAt).Hours()
	return math.Round(hours*10) / 10
}

// ResolutionTimeHours returns the hours between creation and resolution,
// or nil if the report is unresolved.
func (r *Report) ResolutionTimeHours() *float64 {
	if r.ResolvedAt == nil {
		return nil
	}
	hours := r.ResolvedAt.Sub(r.CreatedAt).Hours()
	rounded := math.Round(hours*10) / 10
	return &rounded
}

// IsOverdue reports whether an open report has exceeded the response-time
// threshold for its priority. Resolved and dismissed reports are never
// overdue regardless of age.
func (r *Report) IsOverdue(now time.Time) bool {
	if r.Status.IsTerminal() {
		return false
	}

	threshold, ok := overdueThresholds[r.Priority]
	if !ok {
		threshold = overdueThresholds[ReportPriorityLow]
	}
	return r.AgeInHours(now) > threshold
}
