package main

import (
	"context"
	"fmt"
	"time"

	"github.com/anoexpected/stemhub-backend/internal/config"
	"github.com/anoexpected/stemhub-backend/internal/database"
	"github.com/anoexpected/stemhub-backend/internal/logger"
	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/repository"
)

// Seeds a starter curriculum tree: two exam boards, their core STEM
// subjects, and a handful of topics per subject. Safe to re-run only
// against an empty database; duplicates are reported and skipped.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	repo := repository.NewCurriculumRepository(pool)

	fmt.Println("=== Seeding Curriculum ===")

	boards := []model.ExamBoard{
		{Name: "ZIMSEC", Country: "Zimbabwe"},
		{Name: "Cambridge", Country: "United Kingdom"},
	}

	subjectNames := []string{"Mathematics", "Physics", "Chemistry", "Biology", "Computer Science"}

	topicsBySubject := map[string][]string{
		"Mathematics":      {"Algebra", "Geometry", "Trigonometry", "Calculus", "Statistics"},
		"Physics":          {"Mechanics", "Waves", "Electricity", "Thermodynamics"},
		"Chemistry":        {"Atomic Structure", "Chemical Bonding", "Organic Chemistry", "Stoichiometry"},
		"Biology":          {"Cell Biology", "Genetics", "Ecology", "Human Physiology"},
		"Computer Science": {"Programming Fundamentals", "Data Representation", "Databases", "Networks"},
	}

	boardCount, subjectCount, topicCount := 0, 0, 0

	for bi := range boards {
		board := &boards[bi]
		if err := repo.CreateExamBoard(ctx, board); err != nil {
			fmt.Printf("Error creating exam board %s: %v\n", board.Name, err)
			continue
		}
		boardCount++
		fmt.Printf("Created exam board %s (%s)\n", board.Name, board.ID)

		for _, name := range subjectNames {
			subject := &model.Subject{Name: name, ExamBoardID: board.ID, Level: "O Level"}
			if err := repo.CreateSubject(ctx, subject); err != nil {
				fmt.Printf("Error creating subject %s under %s: %v\n", name, board.Name, err)
				continue
			}
			subjectCount++

			for order, topicName := range topicsBySubject[name] {
				topic := &model.Topic{
					Name:      topicName,
					SubjectID: subject.ID,
					OrderNum:  order + 1,
				}
				if err := repo.CreateTopic(ctx, topic); err != nil {
					fmt.Printf("Error creating topic %s: %v\n", topicName, err)
					continue
				}
				topicCount++
			}
		}
	}

	fmt.Printf("\nSeed completed! %d exam boards, %d subjects, %d topics.\n",
		boardCount, subjectCount, topicCount)
}
