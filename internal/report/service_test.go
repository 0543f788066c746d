package report

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestReportCountUpdates(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Bump increments by one and sets the flag", func(t *testing.T) {
		update := bumpReportCount(now)

		inc, ok := update["$inc"].(bson.M)
		if !ok || inc["report_count"] != 1 {
			t.Errorf("Expected report_count delta +1, got %v", update)
		}
		set, ok := update["$set"].(bson.M)
		if !ok || set["is_reported"] != true {
			t.Errorf("Expected is_reported set to true, got %v", update)
		}
	})

	t.Run("Rollback decrements by one and leaves the flag alone", func(t *testing.T) {
		update := rollbackReportCount(now)

		inc, ok := update["$inc"].(bson.M)
		if !ok || inc["report_count"] != -1 {
			t.Errorf("Expected report_count delta -1, got %v", update)
		}
		set, ok := update["$set"].(bson.M)
		if !ok {
			t.Fatalf("Expected $set stage, got %v", update)
		}
		if _, touched := set["is_reported"]; touched {
			t.Errorf("Rollback must not touch is_reported, got %v", set)
		}
	})

	t.Run("Bump and rollback deltas cancel", func(t *testing.T) {
		bump := bumpReportCount(now)["$inc"].(bson.M)["report_count"].(int)
		rollback := rollbackReportCount(now)["$inc"].(bson.M)["report_count"].(int)
		if bump+rollback != 0 {
			t.Errorf("Deltas do not cancel: %d + %d", bump, rollback)
		}
	})
}
