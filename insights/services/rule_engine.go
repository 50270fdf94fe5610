package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	boqrepositories "boq-analysis-backend/boq/repositories"
	"boq-analysis-backend/config"
	"boq-analysis-backend/db/models"
	"boq-analysis-backend/insights/repositories"
	"boq-analysis-backend/internal/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// highUnitRateFactor flags a critical item whose unit rate is at least this
// multiple of the average rate among items sharing its unit.
var highUnitRateFactor = decimal.NewFromInt(2)

// Items sharing a unit must be at least this many before the rate comparison
// is meaningful.
const highUnitRateMinPeers = 3

// RuleEngine derives heuristic insights from a processed project's ranked
// line items. Savings bounds come exclusively from the VERule policy table.
// The generated set replaces the previous one, so regeneration is idempotent.
type RuleEngine struct {
	projectRepo  boqrepositories.ProjectRepository
	lineItemRepo boqrepositories.LineItemRepository
	insightRepo  repositories.InsightRepository
	veRuleRepo   repositories.VERuleRepository
	narrative    *NarrativeService
}

// NewRuleEngine wires the engine. narrative may be nil; VE suggestions then
// carry the rule's advice text verbatim.
func NewRuleEngine(
	projectRepo boqrepositories.ProjectRepository,
	lineItemRepo boqrepositories.LineItemRepository,
	insightRepo repositories.InsightRepository,
	veRuleRepo repositories.VERuleRepository,
	narrative *NarrativeService,
) *RuleEngine {
	return &RuleEngine{
		projectRepo:  projectRepo,
		lineItemRepo: lineItemRepo,
		insightRepo:  insightRepo,
		veRuleRepo:   veRuleRepo,
		narrative:    narrative,
	}
}

// GenerateForProject recomputes and stores the project's insight set.
func (e *RuleEngine) GenerateForProject(ctx context.Context, projectID uuid.UUID) ([]models.Insight, error) {
	project, err := e.projectRepo.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up project %s: %w", projectID, err)
	}
	if project == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	if project.Status != models.ProcessedStatus {
		return nil, apperrors.ErrProjectNotProcessed
	}

	items, err := e.lineItemRepo.ListForProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items for project %s: %w", projectID, err)
	}

	var insights []models.Insight
	if concentration := e.paretoConcentrationInsight(project, items); concentration != nil {
		insights = append(insights, *concentration)
	}
	insights = append(insights, e.highUnitRateInsights(project, items)...)

	veInsights, err := e.veSuggestionInsights(ctx, project, items)
	if err != nil {
		return nil, err
	}
	insights = append(insights, veInsights...)

	if err := e.insightRepo.ReplaceForProject(ctx, projectID, insights); err != nil {
		return nil, fmt.Errorf("failed to store insights for project %s: %w", projectID, err)
	}

	config.Logger.Info("Insights generated",
		zap.String("project_id", projectID.String()),
		zap.Int("insight_count", len(insights)),
	)

	return insights, nil
}

// paretoConcentrationInsight summarizes how few items carry the critical cost
// share. Nil when the project has no ranked items.
func (e *RuleEngine) paretoConcentrationInsight(project *models.Project, items []*models.LineItem) *models.Insight {
	if len(items) == 0 {
		return nil
	}

	criticalCount := 0
	for _, item := range items {
		if item.IsParetoCritical {
			criticalCount++
		}
	}
	if criticalCount == 0 {
		return nil
	}

	itemShare := decimal.NewFromInt(int64(criticalCount)).
		Div(decimal.NewFromInt(int64(len(items)))).
		Mul(decimal.NewFromInt(100)).
		Round(1)

	metadata, _ := json.Marshal(map[string]interface{}{
		"critical_items":     criticalCount,
		"total_items":        len(items),
		"item_share_percent": itemShare,
		"cost_threshold":     "80",
	})

	return &models.Insight{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		InsightType: models.ParetoConcentrationInsight,
		Title:       "Cost is concentrated in a small set of items",
		Detail: fmt.Sprintf(
			"%d of %d line items (%s%%) account for 80%% of the project cost. Focus estimating and procurement effort on these items first.",
			criticalCount, len(items), itemShare,
		),
		Metadata: metadata,
	}
}

// highUnitRateInsights flags critical items priced well above their peers.
// Peers are items sharing the same unit with a positive unit rate.
func (e *RuleEngine) highUnitRateInsights(project *models.Project, items []*models.LineItem) []models.Insight {
	type unitGroup struct {
		sum   decimal.Decimal
		count int
	}
	groups := make(map[string]*unitGroup)

	for _, item := range items {
		if item.Unit == nil || item.UnitRate.LessThanOrEqual(decimal.Zero) {
			continue
		}
		unit := strings.ToLower(strings.TrimSpace(*item.Unit))
		if unit == "" {
			continue
		}
		group, ok := groups[unit]
		if !ok {
			group = &unitGroup{sum: decimal.Zero}
			groups[unit] = group
		}
		group.sum = group.sum.Add(item.UnitRate)
		group.count++
	}

	var insights []models.Insight
	for _, item := range items {
		if !item.IsParetoCritical || item.Unit == nil || item.UnitRate.LessThanOrEqual(decimal.Zero) {
			continue
		}
		unit := strings.ToLower(strings.TrimSpace(*item.Unit))
		group, ok := groups[unit]
		if !ok || group.count < highUnitRateMinPeers {
			continue
		}

		average := group.sum.Div(decimal.NewFromInt(int64(group.count)))
		if average.IsZero() || item.UnitRate.LessThan(average.Mul(highUnitRateFactor)) {
			continue
		}

		lineItemID := item.ID
		metadata, _ := json.Marshal(map[string]interface{}{
			"unit":              unit,
			"unit_rate":         item.UnitRate,
			"average_unit_rate": average.Round(2),
			"factor":            highUnitRateFactor,
			"peer_count":        group.count,
		})

		insights = append(insights, models.Insight{
			ID:          uuid.New(),
			ProjectID:   project.ID,
			LineItemID:  &lineItemID,
			InsightType: models.HighUnitRateInsight,
			Title:       fmt.Sprintf("Unit rate of %s is well above comparable items", item.ItemCode),
			Detail: fmt.Sprintf(
				"Item %s (%s) is priced at %s per %s against an average of %s across %d items with the same unit. Verify the rate or seek alternative quotes.",
				item.ItemCode, item.Description, item.UnitRate, *item.Unit, average.Round(2), group.count,
			),
			Metadata: metadata,
		})
	}

	return insights
}

// veSuggestionInsights matches active policy rules against critical items by
// keyword. Savings bounds come from the matched rule's percentages applied to
// the item's cost.
func (e *RuleEngine) veSuggestionInsights(ctx context.Context, project *models.Project, items []*models.LineItem) ([]models.Insight, error) {
	rules, err := e.veRuleRepo.GetActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active VE rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, nil
	}

	oneHundred := decimal.NewFromInt(100)

	var insights []models.Insight
	for _, item := range items {
		if !item.IsParetoCritical {
			continue
		}
		description := strings.ToLower(item.Description)

		for _, rule := range rules {
			keyword := strings.ToLower(strings.TrimSpace(rule.Keyword))
			if keyword == "" || !strings.Contains(description, keyword) {
				continue
			}

			savingMin := item.TotalCost.Mul(rule.MinSavingPercent).Div(oneHundred).Round(2)
			savingMax := item.TotalCost.Mul(rule.MaxSavingPercent).Div(oneHundred).Round(2)

			detail := rule.Advice
			if e.narrative != nil {
				if narrated, err := e.narrative.NarrateSuggestion(ctx, item.Description, rule.Category, rule.Advice); err == nil && narrated != "" {
					detail = narrated
				} else if err != nil {
					config.Logger.Warn("Narrative generation failed, falling back to rule advice",
						zap.String("item_code", item.ItemCode),
						zap.Error(err),
					)
				}
			}

			lineItemID := item.ID
			metadata, _ := json.Marshal(map[string]interface{}{
				"rule_id":            rule.ID,
				"keyword":            rule.Keyword,
				"category":           rule.Category,
				"min_saving_percent": rule.MinSavingPercent,
				"max_saving_percent": rule.MaxSavingPercent,
			})

			insights = append(insights, models.Insight{
				ID:                 uuid.New(),
				ProjectID:          project.ID,
				LineItemID:         &lineItemID,
				InsightType:        models.VESuggestionInsight,
				Title:              fmt.Sprintf("Value-engineering opportunity: %s", rule.Category),
				Detail:             detail,
				EstimatedSavingMin: savingMin,
				EstimatedSavingMax: savingMax,
				Metadata:           metadata,
			})
		}
	}

	return insights, nil
}
