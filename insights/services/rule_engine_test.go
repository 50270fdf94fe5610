package services

import (
	"context"
	"os"
	"testing"

	"boq-analysis-backend/config"
	"boq-analysis-backend/db/models"
	"boq-analysis-backend/internal/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	config.Logger = zap.NewNop()
	os.Exit(m.Run())
}

type stubProjectRepo struct {
	project *models.Project
}

func (s *stubProjectRepo) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	return project, nil
}

func (s *stubProjectRepo) GetProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	if s.project == nil || s.project.ID != id {
		return nil, nil
	}
	return s.project, nil
}

func (s *stubProjectRepo) GetFilteredProjects(pageSize int, offset int, filters map[string]string) ([]models.Project, int64, error) {
	return nil, 0, nil
}

func (s *stubProjectRepo) ListProcessedProjects(ctx context.Context) ([]models.Project, error) {
	return nil, nil
}

func (s *stubProjectRepo) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (s *stubProjectRepo) LogEmailSent(emailLog *models.EmailLog) error {
	return nil
}

type stubLineItemRepo struct {
	items []*models.LineItem
}

func (s *stubLineItemRepo) ReplaceProjectData(ctx context.Context, projectID uuid.UUID, items []*models.LineItem, ingestionErrors []models.IngestionError, totalCost decimal.Decimal) error {
	return nil
}

func (s *stubLineItemRepo) ListForProject(ctx context.Context, projectID uuid.UUID) ([]*models.LineItem, error) {
	return s.items, nil
}

func (s *stubLineItemRepo) ListForProjectPaginated(ctx context.Context, projectID uuid.UUID, pageSize, offset int) ([]*models.LineItem, int64, error) {
	return s.items, int64(len(s.items)), nil
}

func (s *stubLineItemRepo) ListByWbsLevel(ctx context.Context, projectID uuid.UUID, level int) ([]*models.LineItem, error) {
	return nil, nil
}

func (s *stubLineItemRepo) ListDirectChildren(ctx context.Context, projectID uuid.UUID, level int, parentCode string) ([]*models.LineItem, error) {
	return nil, nil
}

func (s *stubLineItemRepo) ListParetoCritical(ctx context.Context, projectID uuid.UUID) ([]*models.LineItem, error) {
	return nil, nil
}

func (s *stubLineItemRepo) ListIngestionErrors(ctx context.Context, projectID uuid.UUID) ([]models.IngestionError, error) {
	return nil, nil
}

type stubInsightRepo struct {
	replaced []models.Insight
	calls    int
}

func (s *stubInsightRepo) ReplaceForProject(ctx context.Context, projectID uuid.UUID, insights []models.Insight) error {
	s.calls++
	s.replaced = insights
	return nil
}

func (s *stubInsightRepo) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.Insight, error) {
	return s.replaced, nil
}

type stubVERuleRepo struct {
	rules []models.VERule
}

func (s *stubVERuleRepo) GetActiveRules(ctx context.Context) ([]models.VERule, error) {
	return s.rules, nil
}

func (s *stubVERuleRepo) GetFilteredVERules(pageSize int, offset int, filters map[string]string) ([]models.VERule, int64, error) {
	return s.rules, int64(len(s.rules)), nil
}

func (s *stubVERuleRepo) GetVERuleByID(ctx context.Context, id uuid.UUID) (*models.VERule, error) {
	return nil, nil
}

func (s *stubVERuleRepo) CreateVERule(ctx context.Context, rule *models.VERule) (*models.VERule, error) {
	return rule, nil
}

func (s *stubVERuleRepo) UpdateVERule(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.VERule, error) {
	return nil, nil
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func criticalItem(t *testing.T, code, description, cost string) *models.LineItem {
	t.Helper()
	item := &models.LineItem{
		ID:          uuid.New(),
		ItemCode:    code,
		Description: description,
		TotalCost:   dec(t, cost),
		WbsLevel:    1,
	}
	item.IsParetoCritical = true
	return item
}

func newEngineFixture(items []*models.LineItem, rules []models.VERule) (*RuleEngine, *models.Project, *stubInsightRepo) {
	project := &models.Project{
		ID:     uuid.New(),
		Name:   "Clinic Block",
		Status: models.ProcessedStatus,
	}
	insightRepo := &stubInsightRepo{}
	engine := NewRuleEngine(
		&stubProjectRepo{project: project},
		&stubLineItemRepo{items: items},
		insightRepo,
		&stubVERuleRepo{rules: rules},
		nil,
	)
	return engine, project, insightRepo
}

func TestGenerateForProjectNotFound(t *testing.T) {
	engine, _, _ := newEngineFixture(nil, nil)

	_, err := engine.GenerateForProject(context.Background(), uuid.New())

	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func TestGenerateForProjectRequiresProcessedStatus(t *testing.T) {
	engine, project, _ := newEngineFixture(nil, nil)
	project.Status = models.UploadedStatus

	_, err := engine.GenerateForProject(context.Background(), project.ID)

	assert.ErrorIs(t, err, apperrors.ErrProjectNotProcessed)
}

func TestGenerateForProjectParetoConcentration(t *testing.T) {
	items := []*models.LineItem{
		criticalItem(t, "1", "Concrete works", "8000"),
		{ID: uuid.New(), ItemCode: "2", Description: "Paint", TotalCost: dec(t, "1000"), WbsLevel: 1},
		{ID: uuid.New(), ItemCode: "3", Description: "Sundries", TotalCost: dec(t, "1000"), WbsLevel: 1},
	}
	engine, project, insightRepo := newEngineFixture(items, nil)

	insights, err := engine.GenerateForProject(context.Background(), project.ID)

	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, models.ParetoConcentrationInsight, insights[0].InsightType)
	assert.Nil(t, insights[0].LineItemID, "concentration is a project-scope insight")
	assert.Contains(t, insights[0].Detail, "1 of 3 line items")
	assert.Equal(t, 1, insightRepo.calls)
}

func TestGenerateForProjectVESuggestionSavingsBounds(t *testing.T) {
	items := []*models.LineItem{
		criticalItem(t, "1", "Mass concrete in foundations", "10000"),
	}
	rules := []models.VERule{
		{
			ID:               uuid.New(),
			Keyword:          "concrete",
			Category:         "Structural Materials",
			Advice:           "Review concrete grade.",
			MinSavingPercent: dec(t, "5"),
			MaxSavingPercent: dec(t, "12"),
			IsActive:         true,
		},
	}
	engine, project, _ := newEngineFixture(items, rules)

	insights, err := engine.GenerateForProject(context.Background(), project.ID)

	require.NoError(t, err)

	var suggestion *models.Insight
	for i := range insights {
		if insights[i].InsightType == models.VESuggestionInsight {
			suggestion = &insights[i]
		}
	}
	require.NotNil(t, suggestion)
	assert.True(t, suggestion.EstimatedSavingMin.Equal(dec(t, "500")))
	assert.True(t, suggestion.EstimatedSavingMax.Equal(dec(t, "1200")))
	assert.Equal(t, "Review concrete grade.", suggestion.Detail)
	require.NotNil(t, suggestion.LineItemID)
	assert.Equal(t, items[0].ID, *suggestion.LineItemID)
}

func TestGenerateForProjectKeywordMatchIsCaseInsensitive(t *testing.T) {
	items := []*models.LineItem{
		criticalItem(t, "1", "STEEL reinforcement to beams", "5000"),
	}
	rules := []models.VERule{
		{ID: uuid.New(), Keyword: "Steel", Category: "Structural Materials", Advice: "Standardize bar diameters.", MinSavingPercent: dec(t, "4"), MaxSavingPercent: dec(t, "10"), IsActive: true},
	}
	engine, project, _ := newEngineFixture(items, rules)

	insights, err := engine.GenerateForProject(context.Background(), project.ID)

	require.NoError(t, err)
	found := false
	for _, insight := range insights {
		if insight.InsightType == models.VESuggestionInsight {
			found = true
		}
	}
	assert.True(t, found)
}

func TestGenerateForProjectNonCriticalItemsGetNoVESuggestions(t *testing.T) {
	items := []*models.LineItem{
		criticalItem(t, "1", "Earthworks", "9000"),
		{ID: uuid.New(), ItemCode: "2", Description: "Concrete blinding", TotalCost: dec(t, "1000"), WbsLevel: 1},
	}
	rules := []models.VERule{
		{ID: uuid.New(), Keyword: "concrete", Category: "Structural Materials", Advice: "Review grade.", MinSavingPercent: dec(t, "5"), MaxSavingPercent: dec(t, "12"), IsActive: true},
	}
	engine, project, _ := newEngineFixture(items, rules)

	insights, err := engine.GenerateForProject(context.Background(), project.ID)

	require.NoError(t, err)
	for _, insight := range insights {
		assert.NotEqual(t, models.VESuggestionInsight, insight.InsightType,
			"only Pareto-critical items produce VE suggestions")
	}
}

func TestGenerateForProjectHighUnitRate(t *testing.T) {
	unit := "m3"
	makeItem := func(code, cost, rate string, critical bool) *models.LineItem {
		item := &models.LineItem{
			ID:          uuid.New(),
			ItemCode:    code,
			Description: "Excavation works",
			TotalCost:   dec(t, cost),
			UnitRate:    dec(t, rate),
			Unit:        &unit,
			WbsLevel:    1,
		}
		item.IsParetoCritical = critical
		return item
	}
	// Average rate is (10+10+10+70)/4 = 25; 70 >= 2*25 flags the outlier.
	items := []*models.LineItem{
		makeItem("1", "7000", "70", true),
		makeItem("2", "1000", "10", false),
		makeItem("3", "1000", "10", false),
		makeItem("4", "1000", "10", false),
	}
	engine, project, _ := newEngineFixture(items, nil)

	insights, err := engine.GenerateForProject(context.Background(), project.ID)

	require.NoError(t, err)
	var flagged []models.Insight
	for _, insight := range insights {
		if insight.InsightType == models.HighUnitRateInsight {
			flagged = append(flagged, insight)
		}
	}
	require.Len(t, flagged, 1)
	require.NotNil(t, flagged[0].LineItemID)
	assert.Equal(t, items[0].ID, *flagged[0].LineItemID)
}

func TestGenerateForProjectEmptyProjectStoresEmptySet(t *testing.T) {
	engine, project, insightRepo := newEngineFixture(nil, nil)

	insights, err := engine.GenerateForProject(context.Background(), project.ID)

	require.NoError(t, err)
	assert.Empty(t, insights)
	assert.Equal(t, 1, insightRepo.calls, "regeneration always replaces the stored set")
}
