// ============================================================================
// internal/shared/rules.go
// Pre-write rules applied by the services before persisting an entity.
// Each rule is a pure function over the entity snapshot; the rules touch
// disjoint fields so they can be applied in any order.
// ============================================================================

package shared

import (
	"strings"
	"time"
)

// criticalReasons force urgent priority regardless of the supplied severity
var criticalReasons = map[ReportReason]bool{
	ReasonHarassment:         true,
	ReasonAcademicDishonesty: true,
	ReasonCopyright:          true,
}

// EscalateReportPriority applies the creation-time priority escalation rule:
// a critical reason or critical severity forces urgent, high severity forces
// high, anything else leaves the supplied priority alone.
func EscalateReportPriority(r *Report) {
	switch {
	case criticalReasons[r.Reason] || r.Severity == SeverityCritical:
		r.Priority = ReportPriorityUrgent
	case r.Severity == SeverityHigh:
		r.Priority = ReportPriorityHigh
	}
}

// StampReportStatusTimes sets reviewed_at/resolved_at when a report is
// created already past the corresponding workflow step. Timestamps that are
// already set are never overwritten.
func StampReportStatusTimes(r *Report, now time.Time) {
	if r.Status == StatusUnderReview && r.ReviewedAt == nil {
		t := now
		r.ReviewedAt = &t
	}
	if r.Status.IsTerminal() && r.ResolvedAt == nil {
		t := now
		r.ResolvedAt = &t
	}
}

// Expiry defaults for notifications without an explicit expires_at
const (
	systemNotifTTL  = 7 * 24 * time.Hour
	defaultNotifTTL = 30 * 24 * time.Hour
)

// DefaultNotificationChannels returns the delivery channels implied by a
// priority when the caller did not pick any.
func DefaultNotificationChannels(p NotificationPriority) []NotificationChannel {
	switch p {
	case NotifPriorityUrgent:
		return []NotificationChannel{ChannelInApp, ChannelEmail, ChannelPush}
	case NotifPriorityHigh:
		return []NotificationChannel{ChannelInApp, ChannelEmail}
	default:
		return []NotificationChannel{ChannelInApp}
	}
}

// ApplyNotificationDefaults fills creation-only defaults: channels from the
// priority table when none were chosen, and an expiry of now+7d for system
// notifications or now+30d otherwise when none was set. Explicit values are
// left untouched, so the rule must only run on creation.
func ApplyNotificationDefaults(n *Notification, now time.Time) {
	if len(n.Channels) == 0 {
		n.Channels = DefaultNotificationChannels(n.Priority)
	}

	if n.ExpiresAt == nil {
		ttl := defaultNotifTTL
		if n.Type == NotifSystem {
			ttl = systemNotifTTL
		}
		expires := now.Add(ttl)
		n.ExpiresAt = &expires
	}
}

// RecomputeCompletedCredits overwrites completed_credits with the sum of
// credits over embedded courses with completed status. Runs on every save so
// a wrong caller-supplied value never survives a write.
func RecomputeCompletedCredits(e *Enrollment) {
	var total float64
	for _, c := range e.Courses {
		if c.Status == CourseCompleted {
			total += c.Credits
		}
	}
	e.CompletedCredits = total
}

// NormalizeTags lowercases and trims tags, drops empties, and de-duplicates
// while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	return result
}
