package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gayratovi/online-exam-system/internal/config"
	"github.com/gayratovi/online-exam-system/internal/database"
	"github.com/gayratovi/online-exam-system/internal/logger"
)

// Seeds a demo module with enrolled students, a question bank and one open
// exam. Safe to re-run: every insert is keyed on a natural unique column.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	fmt.Println("=== Seeding Demo Module ===")

	var moduleID int
	err = pool.QueryRow(ctx,
		`INSERT INTO modules (code, name) VALUES ($1, $2)
		 ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		"CS101", "Introduction to Computer Science").Scan(&moduleID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed module")
	}
	fmt.Printf("Module CS101 ready with ID: %d\n", moduleID)

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash seed password")
	}

	names := []string{
		"Alice Johnson", "Bob Smith", "Carol Williams", "David Brown", "Emma Davis",
		"Frank Miller", "Grace Wilson", "Henry Moore", "Isla Taylor", "Jack Anderson",
		"Kate Thomas", "Liam Jackson", "Mia White", "Noah Harris", "Olivia Martin",
		"Peter Thompson", "Quinn Garcia", "Ruby Martinez", "Sam Robinson", "Tara Clark",
	}

	seeded := 0
	for i, name := range names {
		parts := strings.SplitN(name, " ", 2)
		username := fmt.Sprintf("student%02d", i+1)

		var studentID int
		err := pool.QueryRow(ctx,
			`INSERT INTO students (username, first_name, last_name, password_hash)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (username) DO UPDATE SET first_name = EXCLUDED.first_name
			 RETURNING id`,
			username, parts[0], parts[1], string(hash)).Scan(&studentID)
		if err != nil {
			fmt.Printf("Error seeding student %s: %v\n", username, err)
			continue
		}

		_, err = pool.Exec(ctx,
			`INSERT INTO student_modules (student_id, module_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, studentID, moduleID)
		if err != nil {
			fmt.Printf("Error enrolling student %s: %v\n", username, err)
			continue
		}
		seeded++
	}
	fmt.Printf("Seeded %d/%d students\n", seeded, len(names))

	type seedQuestion struct {
		text    string
		qtype   string
		a, b    string
		c, d    string
		correct string
	}
	questions := []seedQuestion{
		{"Which data structure uses FIFO ordering?", "MCQ", "Stack", "Queue", "Tree", "Graph", "B"},
		{"Which data structure uses LIFO ordering?", "MCQ", "Stack", "Queue", "Heap", "Trie", "A"},
		{"What is the time complexity of binary search?", "MCQ", "O(n)", "O(n log n)", "O(log n)", "O(1)", "C"},
		{"Which sorting algorithm has the best average case?", "MCQ", "Bubble sort", "Quicksort", "Selection sort", "Insertion sort", "B"},
		{"A linked list allows constant-time random access.", "TRUE_FALSE", "", "", "", "", "False"},
		{"A hash table lookup is O(1) on average.", "TRUE_FALSE", "", "", "", "", "True"},
		{"Recursion always uses less memory than iteration.", "TRUE_FALSE", "", "", "", "", "False"},
		{"What keyword declares a constant in Go?", "FILL", "", "", "", "", "const"},
		{"What does CPU stand for (abbreviation is fine)?", "FILL", "", "", "", "", "central processing unit"},
		{"How many bits are in one byte?", "FILL", "", "", "", "", "8"},
	}

	examID := uuid.New()
	err = pool.QueryRow(ctx,
		`INSERT INTO exams (id, title, description, module_id, is_active, duration_minutes)
		 VALUES ($1, $2, $3, $4, TRUE, 30)
		 ON CONFLICT (module_id, title) DO UPDATE SET is_active = TRUE
		 RETURNING id`,
		examID, "CS101 Practice Exam", "Fundamentals of data structures and algorithms", moduleID).Scan(&examID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed exam")
	}

	for _, q := range questions {
		var a, b, c, d *string
		if q.qtype == "MCQ" {
			a, b, c, d = &q.a, &q.b, &q.c, &q.d
		}
		var questionID uuid.UUID
		err := pool.QueryRow(ctx,
			`INSERT INTO questions (id, module_id, question_text, question_type,
			                        option_a, option_b, option_c, option_d, correct_answer)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (module_id, question_text) DO UPDATE SET correct_answer = EXCLUDED.correct_answer
			 RETURNING id`,
			uuid.New(), moduleID, q.text, q.qtype, a, b, c, d, q.correct).Scan(&questionID)
		if err != nil {
			fmt.Printf("Error seeding question: %v\n", err)
			continue
		}
		_, err = pool.Exec(ctx,
			`INSERT INTO exam_questions (exam_id, question_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, examID, questionID)
		if err != nil {
			fmt.Printf("Error linking question: %v\n", err)
		}
	}

	fmt.Printf("\nSeed completed! Exam %s is active with %d questions.\n", examID, len(questions))
	fmt.Println("Student credentials: student01..student20 / changeme")
}
