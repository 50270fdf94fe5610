package seeds

import (
	"errors"
	"fmt"

	"boq-analysis-backend/config"
	"boq-analysis-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedSystemVERules seeds the built-in value-engineering policy rules. Rules
// are keyed by keyword: existing ones are updated in place so savings bounds
// can evolve between releases, user-created rules are never touched.
func SeedSystemVERules(db *gorm.DB) error {
	config.Logger.Info("Starting system VE rule seeding...")

	rules := []models.VERule{
		{
			ID:               uuid.New(),
			Keyword:          "concrete",
			Category:         "Structural Materials",
			Advice:           "Review the specified concrete grade against structural requirements; a lower grade or blended cement mix often satisfies the design at lower cost.",
			MinSavingPercent: decimal.NewFromInt(5),
			MaxSavingPercent: decimal.NewFromInt(12),
			IsActive:         true,
			IsSystem:         true,
			CreatedBy:        "system",
		},
		{
			ID:               uuid.New(),
			Keyword:          "steel",
			Category:         "Structural Materials",
			Advice:           "Compare reinforcement detailing against standard bar schedules and consider welded mesh where the design allows; bulk procurement of standard diameters cuts waste.",
			MinSavingPercent: decimal.NewFromInt(4),
			MaxSavingPercent: decimal.NewFromInt(10),
			IsActive:         true,
			IsSystem:         true,
			CreatedBy:        "system",
		},
		{
			ID:               uuid.New(),
			Keyword:          "excavation",
			Category:         "Earthworks",
			Advice:           "Check whether excavated material can be reused as fill on site instead of carting away and importing; balancing cut and fill reduces haulage.",
			MinSavingPercent: decimal.NewFromInt(8),
			MaxSavingPercent: decimal.NewFromInt(20),
			IsActive:         true,
			IsSystem:         true,
			CreatedBy:        "system",
		},
		{
			ID:               uuid.New(),
			Keyword:          "formwork",
			Category:         "Temporary Works",
			Advice:           "Evaluate reusable modular formwork systems against conventional timber shuttering; repeated pours amortize the system cost quickly.",
			MinSavingPercent: decimal.NewFromInt(6),
			MaxSavingPercent: decimal.NewFromInt(15),
			IsActive:         true,
			IsSystem:         true,
			CreatedBy:        "system",
		},
		{
			ID:               uuid.New(),
			Keyword:          "roofing",
			Category:         "Envelope",
			Advice:           "Compare the specified roofing system with locally available sheeting profiles of equivalent performance; transport and fixing rates differ widely by profile.",
			MinSavingPercent: decimal.NewFromInt(5),
			MaxSavingPercent: decimal.NewFromInt(14),
			IsActive:         true,
			IsSystem:         true,
			CreatedBy:        "system",
		},
		{
			ID:               uuid.New(),
			Keyword:          "brick",
			Category:         "Masonry",
			Advice:           "Consider alternative walling units (concrete blocks, stabilized soil blocks) for non-facing walls where appearance is not a requirement.",
			MinSavingPercent: decimal.NewFromInt(4),
			MaxSavingPercent: decimal.NewFromInt(12),
			IsActive:         true,
			IsSystem:         true,
			CreatedBy:        "system",
		},
		{
			ID:               uuid.New(),
			Keyword:          "paving",
			Category:         "External Works",
			Advice:           "Review paving thickness and sub-base specification against expected traffic loads; over-specified external works are a common savings source.",
			MinSavingPercent: decimal.NewFromInt(7),
			MaxSavingPercent: decimal.NewFromInt(18),
			IsActive:         true,
			IsSystem:         true,
			CreatedBy:        "system",
		},
		{
			ID:               uuid.New(),
			Keyword:          "plumbing",
			Category:         "Services",
			Advice:           "Rationalize pipe runs and fixture groupings; clustering wet areas shortens runs and reduces both material and labour line items.",
			MinSavingPercent: decimal.NewFromInt(3),
			MaxSavingPercent: decimal.NewFromInt(9),
			IsActive:         true,
			IsSystem:         true,
			CreatedBy:        "system",
		},
		{
			ID:               uuid.New(),
			Keyword:          "electrical",
			Category:         "Services",
			Advice:           "Audit circuit and fitting counts against the layout; consolidated distribution boards and standard luminaire types lower both supply and install rates.",
			MinSavingPercent: decimal.NewFromInt(3),
			MaxSavingPercent: decimal.NewFromInt(10),
			IsActive:         true,
			IsSystem:         true,
			CreatedBy:        "system",
		},
		{
			ID:               uuid.New(),
			Keyword:          "finishes",
			Category:         "Finishes",
			Advice:           "Benchmark finish selections room by room; substituting premium finishes in low-traffic areas rarely affects function or letting value.",
			MinSavingPercent: decimal.NewFromInt(10),
			MaxSavingPercent: decimal.NewFromInt(25),
			IsActive:         true,
			IsSystem:         true,
			CreatedBy:        "system",
		},
	}

	createdCount := 0
	updatedCount := 0

	for _, rule := range rules {
		var existingRule models.VERule
		result := db.Where("keyword = ? AND is_system = ?", rule.Keyword, true).First(&existingRule)

		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				if err := db.Create(&rule).Error; err != nil {
					config.Logger.Error("Failed to create system VE rule",
						zap.String("keyword", rule.Keyword),
						zap.Error(err))
					return fmt.Errorf("failed to create VE rule %s: %w", rule.Keyword, err)
				}
				createdCount++
				config.Logger.Info("Created system VE rule", zap.String("keyword", rule.Keyword))
			} else {
				config.Logger.Error("Error checking for existing VE rule",
					zap.String("keyword", rule.Keyword),
					zap.Error(result.Error))
				return fmt.Errorf("error checking for VE rule %s: %w", rule.Keyword, result.Error)
			}
		} else {
			rule.ID = existingRule.ID
			if err := db.Model(&existingRule).Updates(rule).Error; err != nil {
				config.Logger.Error("Failed to update system VE rule",
					zap.String("keyword", rule.Keyword),
					zap.Error(err))
				return fmt.Errorf("failed to update VE rule %s: %w", rule.Keyword, err)
			}
			updatedCount++
		}
	}

	config.Logger.Info("System VE rule seeding completed",
		zap.Int("created", createdCount),
		zap.Int("updated", updatedCount))

	return nil
}

func SeedAll(db *gorm.DB) error {
	if err := SeedSystemVERules(db); err != nil {
		return fmt.Errorf("failed to seed VE rules: %w", err)
	}

	config.Logger.Info("Database seeding completed successfully")
	return nil
}
