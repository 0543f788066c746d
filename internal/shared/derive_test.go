package shared

import (
	"testing"
	"time"
)

func TestBookmark_ReminderState(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	mkBookmark := func(offset time.Duration) *Bookmark {
		reminder := now.Add(offset)
		return &Bookmark{ReminderDate: &reminder}
	}

	t.Run("No reminder date", func(t *testing.T) {
		b := &Bookmark{}
		if got := b.ReminderState(now); got != ReminderNone {
			t.Errorf("Expected %q, got %q", ReminderNone, got)
		}
	})

	t.Run("Past reminder is overdue", func(t *testing.T) {
		b := mkBookmark(-2 * time.Hour)
		if got := b.ReminderState(now); got != ReminderOverdue {
			t.Errorf("Expected %q, got %q", ReminderOverdue, got)
		}
	})

	t.Run("Barely past reminder is still overdue", func(t *testing.T) {
		b := mkBookmark(-time.Minute)
		if got := b.ReminderState(now); got != ReminderOverdue {
			t.Errorf("Expected %q, got %q", ReminderOverdue, got)
		}
	})

	t.Run("Due within the day is today", func(t *testing.T) {
		b := mkBookmark(6 * time.Hour)
		if got := b.ReminderState(now); got != ReminderToday {
			t.Errorf("Expected %q, got %q", ReminderToday, got)
		}
	})

	t.Run("Due in three days is soon", func(t *testing.T) {
		b := mkBookmark(3 * 24 * time.Hour)
		if got := b.ReminderState(now); got != ReminderSoon {
			t.Errorf("Expected %q, got %q", ReminderSoon, got)
		}
	})

	t.Run("Due past three days is upcoming", func(t *testing.T) {
		b := mkBookmark(4*24*time.Hour + time.Hour)
		if got := b.ReminderState(now); got != ReminderUpcoming {
			t.Errorf("Expected %q, got %q", ReminderUpcoming, got)
		}
	})
}

func TestBookmark_DaysSinceLastAccess(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Never accessed", func(t *testing.T) {
		b := &Bookmark{}
		if got := b.DaysSinceLastAccess(now); got != -1 {
			t.Errorf("Expected -1, got %d", got)
		}
	})

	t.Run("Accessed five days ago", func(t *testing.T) {
		last := now.AddDate(0, 0, -5)
		b := &Bookmark{LastAccessedAt: &last}
		if got := b.DaysSinceLastAccess(now); got != 5 {
			t.Errorf("Expected 5, got %d", got)
		}
	})

	t.Run("Accessed earlier today", func(t *testing.T) {
		last := now.Add(-3 * time.Hour)
		b := &Bookmark{LastAccessedAt: &last}
		if got := b.DaysSinceLastAccess(now); got != 0 {
			t.Errorf("Expected 0, got %d", got)
		}
	})
}

func TestEnrollment_CompletionPercentage(t *testing.T) {
	t.Run("Zero total credits", func(t *testing.T) {
		e := &Enrollment{TotalCredits: 0, CompletedCredits: 10}
		if got := e.CompletionPercentage(); got != 0 {
			t.Errorf("Expected 0, got %v", got)
		}
	})

	t.Run("Rounds to two decimals", func(t *testing.T) {
		e := &Enrollment{TotalCredits: 120, CompletedCredits: 40}
		if got := e.CompletionPercentage(); got != 33.33 {
			t.Errorf("Expected 33.33, got %v", got)
		}
	})

	t.Run("Fully completed", func(t *testing.T) {
		e := &Enrollment{TotalCredits: 90, CompletedCredits: 90}
		if got := e.CompletionPercentage(); got != 100 {
			t.Errorf("Expected 100, got %v", got)
		}
	})
}

func TestEnrollment_ActiveCourses(t *testing.T) {
	e := &Enrollment{
		Courses: []CourseRecord{
			{CourseCode: "CS-101", Status: CourseCompleted},
			{CourseCode: "CS-201", Status: CourseEnrolled},
			{CourseCode: "MATH-101", Status: CourseInProgress},
			{CourseCode: "HIS-101", Status: CourseDropped},
			{CourseCode: "PHY-101", Status: CourseFailed},
		},
	}

	active := e.ActiveCourses()
	if len(active) != 2 {
		t.Fatalf("Expected 2 active courses, got %d", len(active))
	}
	if active[0].CourseCode != "CS-201" || active[1].CourseCode != "MATH-101" {
		t.Errorf("Unexpected active courses: %v", active)
	}
}

func TestReport_AgeAndResolutionTime(t *testing.T) {
	created := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	t.Run("Age rounded to one decimal", func(t *testing.T) {
		r := &Report{CreatedAt: created}
		now := created.Add(90 * time.Minute)
		if got := r.AgeInHours(now); got != 1.5 {
			t.Errorf("Expected 1.5, got %v", got)
		}
	})

	t.Run("Unresolved has no resolution time", func(t *testing.T) {
		r := &Report{CreatedAt: created}
		if got := r.ResolutionTimeHours(); got != nil {
			t.Errorf("Expected nil, got %v", *got)
		}
	})

	t.Run("Resolved after 26 hours", func(t *testing.T) {
		resolved := created.Add(26 * time.Hour)
		r := &Report{CreatedAt: created, ResolvedAt: &resolved}
		got := r.ResolutionTimeHours()
		if got == nil || *got != 26 {
			t.Errorf("Expected 26, got %v", got)
		}
	})
}

func TestReport_IsOverdue(t *testing.T) {
	created := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		priority ReportPriority
		status   ReportStatus
		age      time.Duration
		want     bool
	}{
		{"Urgent within threshold", ReportPriorityUrgent, StatusPending, time.Hour, false},
		{"Urgent past threshold", ReportPriorityUrgent, StatusPending, 3 * time.Hour, true},
		{"High past threshold", ReportPriorityHigh, StatusUnderReview, 25 * time.Hour, true},
		{"Medium within threshold", ReportPriorityMedium, StatusPending, 71 * time.Hour, false},
		{"Low past threshold", ReportPriorityLow, StatusEscalated, 169 * time.Hour, true},
		{"Resolved never overdue", ReportPriorityUrgent, StatusResolved, 240 * time.Hour, false},
		{"Dismissed never overdue", ReportPriorityUrgent, StatusDismissed, 240 * time.Hour, false},
		{"Unknown priority falls back to low threshold", "", StatusPending, 169 * time.Hour, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &Report{CreatedAt: created, Priority: tc.priority, Status: tc.status}
			if got := r.IsOverdue(created.Add(tc.age)); got != tc.want {
				t.Errorf("IsOverdue = %v, want %v", got, tc.want)
			}
		})
	}
}
