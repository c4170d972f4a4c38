package main

import (
	"context"
	"log"

	"marksportal/internal/auth"
	"marksportal/internal/marks"
	"marksportal/internal/shared"
	"marksportal/internal/store"
)

// Development data seeder: one faculty, three students, and a handful
// of marks records, written through the same services the gateway uses
// so the seeded data obeys every invariant.

const (
	// Common Credentials
	CommonPassword = "password"

	FacultyEmail  = "faculty@example.com"
	Student1Email = "student1@example.com"
	Student2Email = "student2@example.com"
	Student3Email = "student3@example.com"
)

type StudentSeed struct {
	Name  string
	Email string
}

type MarksSeed struct {
	StudentEmail string
	Course       string
	Score        float64
	Grade        string
}

func main() {
	log.Println("Starting Marks Portal Database Seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := shared.LoadServiceConfig("seeder")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	ctx := context.Background()
	if err := shared.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	users := store.NewMongoUsers(db)
	marksStore := store.NewMongoMarks(db)
	authSvc := auth.NewService(users, cfg.Security)
	marksSvc := marks.NewService(users, marksStore)

	// 1. Faculty account
	faculty, err := authSvc.Register(ctx, "Prof. Ada Mentor", FacultyEmail, CommonPassword, shared.RoleFaculty, "Computer Science")
	if err != nil {
		// Already seeded: look the account up and continue.
		existing, lookupErr := users.GetByEmail(ctx, FacultyEmail)
		if lookupErr != nil {
			log.Fatalf("Failed to seed faculty: %v", err)
		}
		faculty = existing
		log.Println("Faculty account already exists, reusing it")
	}

	// 2. Students owned by the faculty
	studentSeeds := []StudentSeed{
		{Name: "John Student", Email: Student1Email},
		{Name: "Alice Wonderland", Email: Student2Email},
		{Name: "Bob Builder", Email: Student3Email},
	}
	for _, seed := range studentSeeds {
		if _, err := authSvc.RegisterStudent(ctx, faculty.ID, seed.Name, seed.Email, CommonPassword); err != nil {
			log.Printf("Skipping student %s: %v", seed.Email, err)
		}
	}

	// 3. Marks records (idempotent: re-running the seeder overwrites)
	marksSeeds := []MarksSeed{
		{StudentEmail: Student1Email, Course: "CS101", Score: 92, Grade: shared.GradeS},
		{StudentEmail: Student1Email, Course: "MATH101", Score: 74, Grade: shared.GradeB},
		{StudentEmail: Student2Email, Course: "CS101", Score: 85, Grade: shared.GradeA},
		{StudentEmail: Student2Email, Course: "MATH101", Score: 58, Grade: shared.GradeD},
		{StudentEmail: Student3Email, Course: "CS101", Score: 39, Grade: shared.GradeF},
	}
	for _, seed := range marksSeeds {
		result, err := marksSvc.Upsert(ctx, seed.StudentEmail, seed.Course, seed.Score, seed.Grade)
		if err != nil {
			log.Printf("Failed to seed marks for %s/%s: %v", seed.StudentEmail, seed.Course, err)
			continue
		}
		action := "inserted"
		if result.WasUpdate {
			action = "updated"
		}
		log.Printf("Marks %s: %s %s -> %.0f (%s)", action, seed.StudentEmail, seed.Course, seed.Score, seed.Grade)
	}

	log.Println("Seeding complete.")
}
