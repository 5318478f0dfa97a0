package orchestrators

import (
	"context"
	"log/slog"
	"time"

	domainPathway "readspace/internal/domain/pathway"

	"github.com/google/uuid"
)

// PathwayStoreForSeed defines the pathway store interface needed by SeedPathways.
type PathwayStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, p domainPathway.Pathway) error
}

// ExecuteSeedPathways creates the starter platform pathways if none exist.
// PRE: Database is initialized
// POST: Starter pathways created if count == 0
func ExecuteSeedPathways(ctx context.Context, store PathwayStoreForSeed) error {
	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Pathways already exist, skip seeding
	}

	for _, p := range starterPathways() {
		if err := store.Save(ctx, p); err != nil {
			return err
		}
	}

	slog.Info("pathway_event", "event", "pathways_seeded")
	return nil
}

func starterPathways() []domainPathway.Pathway {
	now := time.Now()

	grounding := domainPathway.Pathway{
		ID:           uuid.New().String(),
		Kind:         domainPathway.KindPlatform,
		Status:       domainPathway.StatusActive,
		Title:        "Seven Days of Grounding",
		Overview:     "A first week of short daily practices to settle the mind and build a steady rhythm before deeper work.",
		Goals:        []string{"Establish a daily practice habit", "Learn basic breath awareness", "Notice patterns in your own energy through the day"},
		SuitableFor:  []string{"Complete beginners", "Anyone returning after a long break"},
		DailyMinutes: 15,
		CreatedAt:    now,
		Requirement: domainPathway.Requirement{
			MaterialsRequired: []domainPathway.MaterialItem{
				{Label: "A quiet corner you can return to each day", Required: true},
				{Label: "A cushion or folded blanket", Required: false},
			},
			SpaceTypes:              []string{"indoor"},
			TimeNeeds:               []string{"morning", "evening"},
			SetupMinutes:            5,
			EnvironmentText:         "Somewhere you will not be interrupted for fifteen minutes.",
			AcknowledgementRequired: true,
		},
		Blocks: groundingBlocks(),
	}
	for i := range grounding.Blocks {
		grounding.Blocks[i].ID = uuid.New().String()
		grounding.Blocks[i].PathwayID = grounding.ID
	}

	morningLight := domainPathway.Pathway{
		ID:           uuid.New().String(),
		Kind:         domainPathway.KindPlatform,
		Status:       domainPathway.StatusActive,
		Title:        "Morning Light",
		Overview:     "Three days of sunrise observation and journaling to reconnect with natural rhythms.",
		Goals:        []string{"Wake with the sun for three days", "Keep a short morning journal"},
		SuitableFor:  []string{"Early risers", "Anyone whose sleep has drifted late"},
		DailyMinutes: 20,
		CreatedAt:    now,
		Requirement: domainPathway.Requirement{
			MaterialsRequired: []domainPathway.MaterialItem{
				{Label: "A notebook and pen", Required: true},
			},
			SpaceTypes:              []string{"outdoor", "window with an eastern view"},
			TimeNeeds:               []string{"sunrise"},
			SetupMinutes:            0,
			EnvironmentText:         "Anywhere you can see the morning sky.",
			AcknowledgementRequired: false,
		},
		Blocks: morningLightBlocks(),
	}
	for i := range morningLight.Blocks {
		morningLight.Blocks[i].ID = uuid.New().String()
		morningLight.Blocks[i].PathwayID = morningLight.ID
	}

	return []domainPathway.Pathway{grounding, morningLight}
}

func groundingBlocks() []domainPathway.Block {
	blocks := make([]domainPathway.Block, 0, 7)
	instructions := [][]string{
		{"Sit comfortably and count ten slow breaths.", "When the mind wanders, begin the count again.", "Repeat three times."},
		{"Repeat yesterday's breath counting.", "Spend five minutes noticing sounds around you without naming them."},
		{"Count your breaths as before.", "Follow with a slow body scan from the crown of the head to the soles of the feet."},
		{"Walk slowly for ten minutes, matching your steps to your breath.", "End seated with three deep exhalations."},
		{"Sit with eyes closed and watch the breath without counting.", "Let it find its own depth."},
		{"Repeat day five.", "Write one sentence about what you noticed."},
		{"A longer sit: twenty minutes of quiet breath awareness.", "Close by reading back your week's sentences."},
	}
	for day, steps := range instructions {
		blocks = append(blocks, domainPathway.Block{
			DayNumber:       day + 1,
			BlockOrder:      1,
			TimeOfDay:       "morning",
			DurationMinutes: 15,
			Instructions:    steps,
			PracticeType:    "meditation",
		})
	}
	return blocks
}

func morningLightBlocks() []domainPathway.Block {
	return []domainPathway.Block{
		{
			DayNumber:       1,
			BlockOrder:      1,
			TimeOfDay:       "sunrise",
			DurationMinutes: 15,
			Instructions:    []string{"Be outside or at an east-facing window before sunrise.", "Watch the light change for fifteen minutes without your phone."},
			PracticeType:    "observation",
		},
		{
			DayNumber:       1,
			BlockOrder:      2,
			TimeOfDay:       "morning",
			DurationMinutes: 5,
			Instructions:    []string{"Write three lines about what you saw and how you slept."},
			Materials:       []string{"Notebook", "Pen"},
			PracticeType:    "journaling",
		},
		{
			DayNumber:       2,
			BlockOrder:      1,
			TimeOfDay:       "sunrise",
			DurationMinutes: 15,
			Instructions:    []string{"Repeat the sunrise watch.", "Today, notice the birds. Which ones wake first?"},
			PracticeType:    "observation",
		},
		{
			DayNumber:       2,
			BlockOrder:      2,
			TimeOfDay:       "morning",
			DurationMinutes: 5,
			Instructions:    []string{"Journal three lines.", "Compare today's sky with yesterday's."},
			Materials:       []string{"Notebook", "Pen"},
			PracticeType:    "journaling",
		},
		{
			DayNumber:       3,
			BlockOrder:      1,
			TimeOfDay:       "sunrise",
			DurationMinutes: 20,
			Instructions:    []string{"A final sunrise. Stay a little longer.", "When the sun clears the horizon, take ten slow breaths."},
			PracticeType:    "observation",
		},
	}
}
