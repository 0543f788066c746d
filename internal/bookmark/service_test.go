package bookmark

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

func TestListFilter(t *testing.T) {
	t.Run("Defaults to user scope only", func(t *testing.T) {
		filter := listFilter("student-001", ListOptions{})
		want := bson.M{"user_id": "student-001"}
		if !reflect.DeepEqual(filter, want) {
			t.Errorf("Expected %v, got %v", want, filter)
		}
	})

	t.Run("Folder and priority narrow the filter", func(t *testing.T) {
		filter := listFilter("student-001", ListOptions{
			Folder:   "CS Fundamentals",
			Priority: shared.BookmarkPriorityHigh,
		})
		if filter["folder"] != "CS Fundamentals" {
			t.Errorf("Expected folder filter, got %v", filter)
		}
		if filter["priority"] != shared.BookmarkPriorityHigh {
			t.Errorf("Expected priority filter, got %v", filter)
		}
	})

	t.Run("Tags are normalized before matching", func(t *testing.T) {
		filter := listFilter("student-001", ListOptions{Tags: []string{" Exam-Prep ", "MATH"}})
		tagFilter, ok := filter["tags"].(bson.M)
		if !ok {
			t.Fatalf("Expected tags filter, got %v", filter)
		}
		want := []string{"exam-prep", "math"}
		if !reflect.DeepEqual(tagFilter["$in"], want) {
			t.Errorf("Expected $in %v, got %v", want, tagFilter["$in"])
		}
	})
}

func TestListPipeline(t *testing.T) {
	stageValue := func(t *testing.T, p []bson.D, key string) interface{} {
		t.Helper()
		for _, stage := range p {
			if len(stage) == 1 && stage[0].Key == key {
				return stage[0].Value
			}
		}
		t.Fatalf("Stage %q not found in pipeline", key)
		return nil
	}

	t.Run("Default paging", func(t *testing.T) {
		p := listPipeline("student-001", ListOptions{})
		if got := stageValue(t, p, "$skip"); got != int64(0) {
			t.Errorf("Expected skip 0, got %v", got)
		}
		if got := stageValue(t, p, "$limit"); got != int64(shared.DefaultPageSize) {
			t.Errorf("Expected limit %d, got %v", shared.DefaultPageSize, got)
		}
	})

	t.Run("Limit is capped", func(t *testing.T) {
		p := listPipeline("student-001", ListOptions{Limit: 10000})
		if got := stageValue(t, p, "$limit"); got != int64(shared.MaxPageSize) {
			t.Errorf("Expected limit %d, got %v", shared.MaxPageSize, got)
		}
	})

	t.Run("Skip follows page and limit", func(t *testing.T) {
		p := listPipeline("student-001", ListOptions{Page: 3, Limit: 20})
		if got := stageValue(t, p, "$skip"); got != int64(40) {
			t.Errorf("Expected skip 40, got %v", got)
		}
	})

	t.Run("Lookup projects the material summary fields", func(t *testing.T) {
		p := listPipeline("student-001", ListOptions{})
		lookup, ok := stageValue(t, p, "$lookup").(bson.M)
		if !ok {
			t.Fatal("Expected $lookup stage value to be bson.M")
		}
		if lookup["from"] != shared.ColMaterials {
			t.Errorf("Expected lookup from %q, got %v", shared.ColMaterials, lookup["from"])
		}
		if lookup["localField"] != "material_id" || lookup["foreignField"] != "_id" {
			t.Errorf("Unexpected join keys: %v", lookup)
		}
	})
}

func TestIncSaves(t *testing.T) {
	update := incSaves(-1)

	inc, ok := update["$inc"].(bson.M)
	if !ok {
		t.Fatalf("Expected $inc, got %v", update)
	}
	if inc["saves"] != -1 {
		t.Errorf("Expected saves delta -1, got %v", inc["saves"])
	}
	if _, ok := update["$set"].(bson.M)["updated_at"]; !ok {
		t.Error("Expected updated_at to be touched")
	}
}

func TestCreateInputDefaults(t *testing.T) {
	// Mirrors the defaulting applied before validation in Create
	in := CreateInput{MaterialID: "mat-001", Tags: []string{"Math", "math"}}

	b := &shared.Bookmark{
		UserID:     "student-001",
		MaterialID: in.MaterialID,
		Tags:       shared.NormalizeTags(in.Tags),
		IsPrivate:  true,
		Priority:   in.Priority,
	}
	if b.Priority == "" {
		b.Priority = shared.BookmarkPriorityMedium
	}

	if !b.IsPrivate {
		t.Error("Expected bookmarks to default to private")
	}
	if b.Priority != shared.BookmarkPriorityMedium {
		t.Errorf("Expected medium priority default, got %q", b.Priority)
	}
	if len(b.Tags) != 1 || b.Tags[0] != "math" {
		t.Errorf("Expected deduplicated lowercase tags, got %v", b.Tags)
	}
}
