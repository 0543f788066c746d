package shared

import (
	"testing"
	"time"
)

func TestEscalateReportPriority(t *testing.T) {
	cases := []struct {
		name     string
		reason   ReportReason
		severity ReportSeverity
		supplied ReportPriority
		want     ReportPriority
	}{
		{"Harassment forces urgent", ReasonHarassment, SeverityLow, ReportPriorityLow, ReportPriorityUrgent},
		{"Academic dishonesty forces urgent", ReasonAcademicDishonesty, SeverityMedium, ReportPriorityMedium, ReportPriorityUrgent},
		{"Copyright forces urgent", ReasonCopyright, SeverityLow, ReportPriorityLow, ReportPriorityUrgent},
		{"Critical severity forces urgent", ReasonSpam, SeverityCritical, ReportPriorityLow, ReportPriorityUrgent},
		{"High severity forces high", ReasonSpam, SeverityHigh, ReportPriorityLow, ReportPriorityHigh},
		{"Otherwise supplied priority survives", ReasonSpam, SeverityMedium, ReportPriorityLow, ReportPriorityLow},
		{"Critical reason beats high severity", ReasonHarassment, SeverityHigh, ReportPriorityMedium, ReportPriorityUrgent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &Report{Reason: tc.reason, Severity: tc.severity, Priority: tc.supplied}
			EscalateReportPriority(r)
			if r.Priority != tc.want {
				t.Errorf("Priority = %q, want %q", r.Priority, tc.want)
			}
		})
	}
}

func TestStampReportStatusTimes(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Pending gets no timestamps", func(t *testing.T) {
		r := &Report{Status: StatusPending}
		StampReportStatusTimes(r, now)
		if r.ReviewedAt != nil || r.ResolvedAt != nil {
			t.Errorf("Expected no timestamps, got reviewed=%v resolved=%v", r.ReviewedAt, r.ResolvedAt)
		}
	})

	t.Run("Under review stamps reviewed_at", func(t *testing.T) {
		r := &Report{Status: StatusUnderReview}
		StampReportStatusTimes(r, now)
		if r.ReviewedAt == nil || !r.ReviewedAt.Equal(now) {
			t.Errorf("Expected reviewed_at = %v, got %v", now, r.ReviewedAt)
		}
		if r.ResolvedAt != nil {
			t.Errorf("Expected no resolved_at, got %v", r.ResolvedAt)
		}
	})

	t.Run("Resolved stamps resolved_at", func(t *testing.T) {
		r := &Report{Status: StatusResolved}
		StampReportStatusTimes(r, now)
		if r.ResolvedAt == nil || !r.ResolvedAt.Equal(now) {
			t.Errorf("Expected resolved_at = %v, got %v", now, r.ResolvedAt)
		}
	})

	t.Run("Existing timestamps are never overwritten", func(t *testing.T) {
		earlier := now.Add(-48 * time.Hour)
		r := &Report{Status: StatusDismissed, ResolvedAt: &earlier}
		StampReportStatusTimes(r, now)
		if !r.ResolvedAt.Equal(earlier) {
			t.Errorf("Expected resolved_at to stay %v, got %v", earlier, r.ResolvedAt)
		}
	})
}

func TestDefaultNotificationChannels(t *testing.T) {
	cases := []struct {
		priority NotificationPriority
		want     []NotificationChannel
	}{
		{NotifPriorityUrgent, []NotificationChannel{ChannelInApp, ChannelEmail, ChannelPush}},
		{NotifPriorityHigh, []NotificationChannel{ChannelInApp, ChannelEmail}},
		{NotifPriorityMedium, []NotificationChannel{ChannelInApp}},
		{NotifPriorityLow, []NotificationChannel{ChannelInApp}},
	}

	for _, tc := range cases {
		got := DefaultNotificationChannels(tc.priority)
		if len(got) != len(tc.want) {
			t.Errorf("%s: expected %d channels, got %d", tc.priority, len(tc.want), len(got))
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: channel[%d] = %q, want %q", tc.priority, i, got[i], tc.want[i])
			}
		}
	}
}

func TestApplyNotificationDefaults(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("System notification expires in 7 days", func(t *testing.T) {
		n := &Notification{Type: NotifSystem, Priority: NotifPriorityMedium}
		ApplyNotificationDefaults(n, now)
		want := now.Add(7 * 24 * time.Hour)
		if n.ExpiresAt == nil || !n.ExpiresAt.Equal(want) {
			t.Errorf("Expected expiry %v, got %v", want, n.ExpiresAt)
		}
	})

	t.Run("Other notifications expire in 30 days", func(t *testing.T) {
		n := &Notification{Type: NotifComment, Priority: NotifPriorityLow}
		ApplyNotificationDefaults(n, now)
		want := now.Add(30 * 24 * time.Hour)
		if n.ExpiresAt == nil || !n.ExpiresAt.Equal(want) {
			t.Errorf("Expected expiry %v, got %v", want, n.ExpiresAt)
		}
	})

	t.Run("Explicit values are left untouched", func(t *testing.T) {
		expires := now.Add(time.Hour)
		n := &Notification{
			Type:      NotifSystem,
			Priority:  NotifPriorityUrgent,
			Channels:  []NotificationChannel{ChannelEmail},
			ExpiresAt: &expires,
		}
		ApplyNotificationDefaults(n, now)
		if len(n.Channels) != 1 || n.Channels[0] != ChannelEmail {
			t.Errorf("Expected explicit channels to survive, got %v", n.Channels)
		}
		if !n.ExpiresAt.Equal(expires) {
			t.Errorf("Expected explicit expiry to survive, got %v", n.ExpiresAt)
		}
	})

	t.Run("Empty channels filled from priority", func(t *testing.T) {
		n := &Notification{Type: NotifComment, Priority: NotifPriorityUrgent}
		ApplyNotificationDefaults(n, now)
		if len(n.Channels) != 3 {
			t.Errorf("Expected 3 channels for urgent, got %v", n.Channels)
		}
	})
}

func TestRecomputeCompletedCredits(t *testing.T) {
	t.Run("Sums only completed courses", func(t *testing.T) {
		e := &Enrollment{
			CompletedCredits: 999, // caller-supplied garbage
			Courses: []CourseRecord{
				{CourseCode: "CS-101", Status: CourseCompleted, Credits: 3},
				{CourseCode: "MATH-101", Status: CourseCompleted, Credits: 4},
				{CourseCode: "CS-201", Status: CourseInProgress, Credits: 3},
				{CourseCode: "HIS-101", Status: CourseFailed, Credits: 3},
			},
		}
		RecomputeCompletedCredits(e)
		if e.CompletedCredits != 7 {
			t.Errorf("Expected 7, got %v", e.CompletedCredits)
		}
	})

	t.Run("No courses means zero", func(t *testing.T) {
		e := &Enrollment{CompletedCredits: 12}
		RecomputeCompletedCredits(e)
		if e.CompletedCredits != 0 {
			t.Errorf("Expected 0, got %v", e.CompletedCredits)
		}
	})
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"  Exam-Prep ", "MATH", "math", "", "  ", "notes"})
	want := []string{"exam-prep", "math", "notes"}

	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
