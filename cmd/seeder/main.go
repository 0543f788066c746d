package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// Define the test constants for the seeded accounts
const (
	// User IDs
	AdminID1     = "admin-001"
	ModeratorID1 = "moderator-001"
	StudentID1   = "student-001" // John Student, student@example.com
	StudentID2   = "student-002" // Alice Wonderland, student2@example.com
	StudentID3   = "student-003" // Bob Builder, student3@example.com

	// Common Credentials
	CommonPassword = "password"

	// Material IDs
	MaterialCS101Notes = "mat-cs101-notes"
	MaterialCS201Algo  = "mat-cs201-algo"
	MaterialMathCalc   = "mat-math101-calc"
	MaterialHisEssay   = "mat-his101-essay"
)

// Material data structure for easy seeding
type MaterialSeed struct {
	ID         string
	Title      string
	Subject    string
	CourseCode string
	UploaderID string
	Tags       []string
}

// Bookmark data structure for easy seeding
type BookmarkSeed struct {
	UserID       string
	MaterialID   string
	Folder       string
	Priority     shared.BookmarkPriority
	Tags         []string
	ReminderDays int // days from now, 0 = no reminder
}

func main() {
	log.Println("Starting Database Seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := shared.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	// Drop all collections to ensure a clean start
	if err := db.Drop(context.Background()); err != nil {
		log.Fatalf("Failed to drop database: %v", err)
	}
	log.Println("Database cleared successfully.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Recreate indexes after the drop so uniqueness holds from the start
	if err := shared.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// --- 1. Seed Users ---
	seedUsers(ctx, db, cfg.Security.BCryptCost)

	// --- 2. Seed Study Materials ---
	materialSeeds := []MaterialSeed{
		{MaterialCS101Notes, "CS101 Complete Lecture Notes", "Computer Science", "CS-101", StudentID2, []string{"notes", "lectures"}},
		{MaterialCS201Algo, "Sorting Algorithms Cheat Sheet", "Computer Science", "CS-201", StudentID2, []string{"algorithms", "cheat-sheet"}},
		{MaterialMathCalc, "Calculus I Practice Problems", "Mathematics", "MATH-101", StudentID3, []string{"practice", "calculus"}},
		{MaterialHisEssay, "World History Essay Guide", "History", "HIS-101", StudentID3, []string{"essay", "writing"}},
	}
	seedMaterials(ctx, db, materialSeeds)

	// --- 3. Seed Bookmarks (and keep material save counters consistent) ---
	bookmarkSeeds := []BookmarkSeed{
		{StudentID1, MaterialCS101Notes, "CS Fundamentals", shared.BookmarkPriorityHigh, []string{"exam-prep"}, 3},
		{StudentID1, MaterialMathCalc, "Math", shared.BookmarkPriorityMedium, []string{"practice"}, 0},
		{StudentID2, MaterialMathCalc, "", shared.BookmarkPriorityLow, nil, 0},
		{StudentID3, MaterialCS101Notes, "To Review", shared.BookmarkPriorityMedium, []string{"review"}, 10},
	}
	seedBookmarks(ctx, db, bookmarkSeeds)

	// --- 4. Seed Enrollments ---
	seedEnrollments(ctx, db)

	// --- 5. Seed Notifications ---
	seedNotifications(ctx, db)

	log.Println("All data seeding completed successfully.")
}

// ============================================================================
// SEEDING FUNCTIONS
// ============================================================================

func seedUsers(ctx context.Context, db *mongo.Database, bcryptCost int) {
	log.Println("--- Seeding Users ---")
	usersCol := db.Collection(shared.ColUsers)

	users := []shared.User{
		{ID: AdminID1, Name: "Super Admin", Email: "admin@example.com", Role: shared.RoleAdmin, IsActive: true, CreatedAt: time.Now()},
		{ID: ModeratorID1, Name: "Mod Erator", Email: "moderator@example.com", Role: shared.RoleModerator, IsActive: true, CreatedAt: time.Now()},
		{ID: StudentID1, Name: "John Student", Email: "student@example.com", Role: shared.RoleStudent, IsActive: true, CreatedAt: time.Now(), School: "Seneca", Program: "Computer Science"},
		{ID: StudentID2, Name: "Alice Wonderland", Email: "student2@example.com", Role: shared.RoleStudent, IsActive: true, CreatedAt: time.Now(), School: "Seneca", Program: "Information Systems"},
		{ID: StudentID3, Name: "Bob Builder", Email: "student3@example.com", Role: shared.RoleStudent, IsActive: true, CreatedAt: time.Now(), School: "Humber", Program: "Computer Science"},
	}

	hashedBytes, _ := bcrypt.GenerateFromPassword([]byte(CommonPassword), bcryptCost)
	hashedPassword := string(hashedBytes)

	for _, u := range users {
		u.PasswordHash = hashedPassword
		filter := bson.M{"email": u.Email}
		update := bson.M{"$set": u}
		opts := options.Update().SetUpsert(true)

		_, err := usersCol.UpdateOne(ctx, filter, update, opts)
		if err != nil {
			log.Fatalf("Error seeding user %s: %v", u.Email, err)
		}
		log.Printf("Seeded %s: %s", u.Role, u.Email)
	}
}

func seedMaterials(ctx context.Context, db *mongo.Database, seeds []MaterialSeed) {
	log.Println("--- Seeding Study Materials ---")
	materialsCol := db.Collection(shared.ColMaterials)

	now := time.Now()
	for _, s := range seeds {
		material := shared.StudyMaterial{
			ID:         s.ID,
			Title:      s.Title,
			Subject:    s.Subject,
			CourseCode: s.CourseCode,
			UploaderID: s.UploaderID,
			Tags:       s.Tags,
			Saves:      0, // Updated by bookmark seeding
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		_, err := materialsCol.InsertOne(ctx, material)
		if err != nil {
			log.Fatalf("Error seeding material %s: %v", s.ID, err)
		}
		log.Printf("Seeded Material: %s (%s)", s.Title, s.ID)
	}
}

func seedBookmarks(ctx context.Context, db *mongo.Database, seeds []BookmarkSeed) {
	log.Println("--- Seeding Bookmarks ---")
	bookmarksCol := db.Collection(shared.ColBookmarks)
	materialsCol := db.Collection(shared.ColMaterials)

	now := time.Now()
	for _, s := range seeds {
		bookmark := shared.Bookmark{
			ID:         shared.GenerateID("bkm"),
			UserID:     s.UserID,
			MaterialID: s.MaterialID,
			Folder:     s.Folder,
			Priority:   s.Priority,
			Tags:       s.Tags,
			IsPrivate:  true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if s.ReminderDays > 0 {
			reminder := now.AddDate(0, 0, s.ReminderDays)
			bookmark.ReminderDate = &reminder
		}

		_, err := bookmarksCol.InsertOne(ctx, bookmark)
		if err != nil {
			log.Fatalf("Error seeding bookmark for %s: %v", s.MaterialID, err)
		}

		// Keep the denormalized save counter in sync with the inserted rows
		_, err = materialsCol.UpdateOne(ctx,
			bson.M{"_id": s.MaterialID},
			bson.M{"$inc": bson.M{"saves": 1}},
		)
		if err != nil {
			log.Fatalf("Error updating save count for %s: %v", s.MaterialID, err)
		}
		log.Printf("Seeded Bookmark: %s -> %s", s.UserID, s.MaterialID)
	}
}

func seedEnrollments(ctx context.Context, db *mongo.Database) {
	log.Println("--- Seeding Enrollments ---")
	enrollmentsCol := db.Collection(shared.ColEnrollments)

	now := time.Now()
	enrolledAt := now.AddDate(0, -8, 0)
	completedAt := now.AddDate(0, -2, 0)

	enrollments := []shared.Enrollment{
		{
			ID:          shared.GenerateID("enr"),
			UserID:      StudentID1,
			ProgramID:   "prog-cs",
			SchoolID:    "school-seneca",
			ProgramName: "Computer Science",
			Courses: []shared.CourseRecord{
				{CourseCode: "CS-101", CourseName: "Introduction to Programming", Semester: "Fall 2025", Year: 2025, Status: shared.CourseCompleted, Grade: "A", Credits: 3, EnrolledAt: &enrolledAt, CompletedAt: &completedAt},
				{CourseCode: "MATH-101", CourseName: "Calculus I", Semester: "Winter 2026", Year: 2026, Status: shared.CourseInProgress, Credits: 4, EnrolledAt: &enrolledAt},
			},
			TotalCredits:     120,
			CompletedCredits: 3,
			Status:           "active",
			CreatedAt:        enrolledAt,
			UpdatedAt:        now,
		},
		{
			ID:          shared.GenerateID("enr"),
			UserID:      StudentID2,
			ProgramID:   "prog-is",
			SchoolID:    "school-seneca",
			ProgramName: "Information Systems",
			Courses: []shared.CourseRecord{
				{CourseCode: "CS-101", CourseName: "Introduction to Programming", Semester: "Winter 2026", Year: 2026, Status: shared.CourseEnrolled, Credits: 3, EnrolledAt: &now},
			},
			TotalCredits:     120,
			CompletedCredits: 0,
			Status:           "active",
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}

	for _, e := range enrollments {
		if _, err := enrollmentsCol.InsertOne(ctx, e); err != nil {
			log.Fatalf("Error seeding enrollment for %s: %v", e.UserID, err)
		}
		log.Printf("Seeded Enrollment: %s -> %s", e.UserID, e.ProgramID)
	}
}

func seedNotifications(ctx context.Context, db *mongo.Database) {
	log.Println("--- Seeding Notifications ---")
	notificationsCol := db.Collection(shared.ColNotifications)

	now := time.Now()
	notifications := []shared.Notification{
		{
			ID:          shared.GenerateID("ntf"),
			RecipientID: StudentID1,
			Type:        shared.NotifSystem,
			Title:       "Welcome to the platform",
			Message:     "Browse study materials and bookmark the ones you need.",
			Priority:    shared.NotifPriorityMedium,
			Channels:    []shared.NotificationChannel{shared.ChannelInApp},
			CreatedAt:   now,
		},
		{
			ID:          shared.GenerateID("ntf"),
			RecipientID: StudentID2,
			SenderID:    StudentID1,
			Type:        shared.NotifNewMaterial,
			Title:       "New material in CS-101",
			Message:     "A new study material was shared for a course you follow.",
			Priority:    shared.NotifPriorityLow,
			Channels:    []shared.NotificationChannel{shared.ChannelInApp},
			Related: &shared.RelatedRef{
				Model: shared.RelatedMaterial,
				ID:    MaterialCS101Notes,
			},
			CreatedAt: now,
		},
	}

	for _, n := range notifications {
		if _, err := notificationsCol.InsertOne(ctx, n); err != nil {
			log.Fatalf("Error seeding notification for %s: %v", n.RecipientID, err)
		}
		log.Printf("Seeded Notification: %s (%s)", n.Title, n.Type)
	}
}
