package shared

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// expectFieldError asserts err is a ValidationError on the given field
func expectFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if ve.Field != field {
		t.Errorf("Expected error on field %q, got %q (%s)", field, ve.Field, ve.Message)
	}
}

func TestValidateBookmark(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	valid := func() *Bookmark {
		return &Bookmark{
			UserID:     "student-001",
			MaterialID: "mat-001",
			Folder:     "CS Fundamentals",
			Priority:   BookmarkPriorityMedium,
		}
	}

	t.Run("Valid bookmark passes", func(t *testing.T) {
		if err := ValidateBookmark(valid(), now); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("Missing user_id", func(t *testing.T) {
		b := valid()
		b.UserID = ""
		expectFieldError(t, ValidateBookmark(b, now), "user_id")
	})

	t.Run("Missing material_id", func(t *testing.T) {
		b := valid()
		b.MaterialID = ""
		expectFieldError(t, ValidateBookmark(b, now), "material_id")
	})

	t.Run("Folder with illegal characters", func(t *testing.T) {
		b := valid()
		b.Folder = "notes/midterm!"
		expectFieldError(t, ValidateBookmark(b, now), "folder")
	})

	t.Run("Folder over length limit", func(t *testing.T) {
		b := valid()
		b.Folder = strings.Repeat("a", MaxFolderLen+1)
		expectFieldError(t, ValidateBookmark(b, now), "folder")
	})

	t.Run("Empty folder is allowed", func(t *testing.T) {
		b := valid()
		b.Folder = ""
		if err := ValidateBookmark(b, now); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("Tag over length limit", func(t *testing.T) {
		b := valid()
		b.Tags = []string{strings.Repeat("x", MaxTagLen+1)}
		expectFieldError(t, ValidateBookmark(b, now), "tags")
	})

	t.Run("Notes over length limit", func(t *testing.T) {
		b := valid()
		b.Notes = strings.Repeat("n", MaxNotesLen+1)
		expectFieldError(t, ValidateBookmark(b, now), "notes")
	})

	t.Run("Invalid priority", func(t *testing.T) {
		b := valid()
		b.Priority = "extreme"
		expectFieldError(t, ValidateBookmark(b, now), "priority")
	})

	t.Run("Reminder in the past", func(t *testing.T) {
		b := valid()
		past := now.Add(-time.Minute)
		b.ReminderDate = &past
		expectFieldError(t, ValidateBookmark(b, now), "reminder_date")
	})

	t.Run("Reminder exactly now is rejected", func(t *testing.T) {
		b := valid()
		exact := now
		b.ReminderDate = &exact
		expectFieldError(t, ValidateBookmark(b, now), "reminder_date")
	})

	t.Run("Reminder in the future passes", func(t *testing.T) {
		b := valid()
		future := now.Add(48 * time.Hour)
		b.ReminderDate = &future
		if err := ValidateBookmark(b, now); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}

func TestValidateEnrollment(t *testing.T) {
	valid := func() *Enrollment {
		return &Enrollment{
			UserID:       "student-001",
			ProgramID:    "prog-cs",
			TotalCredits: 120,
			Courses: []CourseRecord{
				{CourseCode: "CS-101", Status: CourseCompleted, Grade: "A+", Credits: 3},
			},
		}
	}

	t.Run("Valid enrollment passes", func(t *testing.T) {
		if err := ValidateEnrollment(valid()); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("Negative total credits", func(t *testing.T) {
		e := valid()
		e.TotalCredits = -1
		expectFieldError(t, ValidateEnrollment(e), "total_credits")
	})

	t.Run("Course without code", func(t *testing.T) {
		e := valid()
		e.Courses[0].CourseCode = ""
		expectFieldError(t, ValidateEnrollment(e), "courses[0].course_code")
	})

	t.Run("Invalid course status", func(t *testing.T) {
		e := valid()
		e.Courses[0].Status = "paused"
		expectFieldError(t, ValidateEnrollment(e), "courses[0].status")
	})

	t.Run("Grade formats", func(t *testing.T) {
		good := []string{"A", "B+", "C-", "F", "85", "92.5", "100%", "79.25%"}
		bad := []string{"G", "A++", "1234", "ninety", "92.555"}

		for _, g := range good {
			e := valid()
			e.Courses[0].Grade = g
			if err := ValidateEnrollment(e); err != nil {
				t.Errorf("Grade %q should be valid: %v", g, err)
			}
		}
		for _, g := range bad {
			e := valid()
			e.Courses[0].Grade = g
			if err := ValidateEnrollment(e); err == nil {
				t.Errorf("Grade %q should be rejected", g)
			}
		}
	})
}

func TestValidateNotification(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	valid := func() *Notification {
		return &Notification{
			RecipientID: "student-001",
			Type:        NotifComment,
			Title:       "New comment",
			Message:     "Someone commented on your material.",
			Priority:    NotifPriorityMedium,
		}
	}

	t.Run("Valid notification passes", func(t *testing.T) {
		if err := ValidateNotification(valid(), now); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("Invalid type", func(t *testing.T) {
		n := valid()
		n.Type = "carrier-pigeon"
		expectFieldError(t, ValidateNotification(n, now), "type")
	})

	t.Run("Invalid channel", func(t *testing.T) {
		n := valid()
		n.Channels = []NotificationChannel{"fax"}
		expectFieldError(t, ValidateNotification(n, now), "channels")
	})

	t.Run("Related ref missing ID", func(t *testing.T) {
		n := valid()
		n.Related = &RelatedRef{Model: RelatedMaterial}
		expectFieldError(t, ValidateNotification(n, now), "related")
	})

	t.Run("Scheduled in the past", func(t *testing.T) {
		n := valid()
		past := now.Add(-time.Hour)
		n.ScheduledFor = &past
		expectFieldError(t, ValidateNotification(n, now), "scheduled_for")
	})

	t.Run("Expiry not in the future", func(t *testing.T) {
		n := valid()
		exact := now
		n.ExpiresAt = &exact
		expectFieldError(t, ValidateNotification(n, now), "expires_at")
	})
}

func TestValidateReport(t *testing.T) {
	valid := func() *Report {
		return &Report{
			ReporterID:  "student-001",
			TargetType:  TargetMaterial,
			TargetID:    "mat-001",
			Reason:      ReasonSpam,
			Category:    CategoryContent,
			Severity:    SeverityMedium,
			Description: "This material is repeated spam content.",
		}
	}

	t.Run("Valid report passes", func(t *testing.T) {
		if err := ValidateReport(valid()); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("Invalid target type", func(t *testing.T) {
		r := valid()
		r.TargetType = "Course"
		expectFieldError(t, ValidateReport(r), "target_type")
	})

	t.Run("Description too short", func(t *testing.T) {
		r := valid()
		r.Description = "too short"
		expectFieldError(t, ValidateReport(r), "description")
	})

	t.Run("Description too long", func(t *testing.T) {
		r := valid()
		r.Description = strings.Repeat("d", MaxDescriptionLen+1)
		expectFieldError(t, ValidateReport(r), "description")
	})

	t.Run("Screenshot must be an image URL", func(t *testing.T) {
		r := valid()
		r.Evidence = &ReportEvidence{Screenshots: []string{"https://example.com/evidence.pdf"}}
		expectFieldError(t, ValidateReport(r), "evidence.screenshots")
	})

	t.Run("Screenshot extension is case-insensitive", func(t *testing.T) {
		r := valid()
		r.Evidence = &ReportEvidence{Screenshots: []string{"https://example.com/shot.PNG"}}
		if err := ValidateReport(r); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("Evidence URL must be http or https", func(t *testing.T) {
		r := valid()
		r.Evidence = &ReportEvidence{URLs: []string{"ftp://example.com/file"}}
		expectFieldError(t, ValidateReport(r), "evidence.urls")
	})

	t.Run("Reporter IP formats", func(t *testing.T) {
		good := []string{"192.168.1.1", "10.0.0.255", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"}
		bad := []string{"not-an-ip", "1.2.3", "1.2.3.4.5"}

		for _, ip := range good {
			r := valid()
			r.Metadata.ReporterIP = ip
			if err := ValidateReport(r); err != nil {
				t.Errorf("IP %q should be valid: %v", ip, err)
			}
		}
		for _, ip := range bad {
			r := valid()
			r.Metadata.ReporterIP = ip
			if err := ValidateReport(r); err == nil {
				t.Errorf("IP %q should be rejected", ip)
			}
		}
	})
}
