package services

import (
	"context"
	"fmt"

	"boq-analysis-backend/boq/repositories"
	"boq-analysis-backend/config"
	"boq-analysis-backend/db/models"
	"boq-analysis-backend/internal/apperrors"
	"boq-analysis-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProcessResult is the summary returned by one processing run.
type ProcessResult struct {
	ProjectID           uuid.UUID          `json:"project_id"`
	TotalItems          int                `json:"total_items"`
	TotalProjectCost    decimal.Decimal    `json:"total_project_cost"`
	ParetoCriticalItems int                `json:"pareto_critical_items"`
	Items               []*models.LineItem `json:"items"`
	RejectedRows        int                `json:"-"`
}

// AnalysisProcessor runs the Pareto/WBS analysis over a project's uploaded
// BoQ spreadsheet. All state lives in the injected collaborators; the
// processor itself holds nothing mutable between calls. Overlapping calls for
// the same project are a caller-side constraint and are not serialized here.
type AnalysisProcessor struct {
	projectRepo  repositories.ProjectRepository
	lineItemRepo repositories.LineItemRepository
	fileStorage  utils.FileStorage
	decoder      WorkbookDecoder
}

func NewAnalysisProcessor(
	projectRepo repositories.ProjectRepository,
	lineItemRepo repositories.LineItemRepository,
	fileStorage utils.FileStorage,
	decoder WorkbookDecoder,
) *AnalysisProcessor {
	return &AnalysisProcessor{
		projectRepo:  projectRepo,
		lineItemRepo: lineItemRepo,
		fileStorage:  fileStorage,
		decoder:      decoder,
	}
}

// ProcessProject re-runs the full analysis for a project: download, decode,
// parse, hierarchy tagging, Pareto ranking, then a delete-then-insert swap of
// the stored results. Steps before the swap mutate nothing, so a failed run
// leaves the previous results untouched.
func (p *AnalysisProcessor) ProcessProject(ctx context.Context, projectID uuid.UUID) (*ProcessResult, error) {
	project, err := p.projectRepo.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up project %s: %w", projectID, err)
	}
	if project == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	fileReader, err := p.fileStorage.DownloadFile(project.FilePath)
	if err != nil {
		config.Logger.Error("Failed to download project file",
			zap.String("project_id", projectID.String()),
			zap.String("file_path", project.FilePath),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to retrieve spreadsheet for project %s: %w", projectID, err)
	}
	defer fileReader.Close()

	rows, err := p.decoder.DecodeWorkbook(fileReader, project.FileName)
	if err != nil {
		config.Logger.Error("Failed to decode project spreadsheet",
			zap.String("project_id", projectID.String()),
			zap.String("file_name", project.FileName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to decode spreadsheet for project %s: %w", projectID, err)
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrEmptySpreadsheet
	}

	items := make([]*models.LineItem, 0, len(rows))
	var ingestionErrors []models.IngestionError

	for i, row := range rows {
		// Row 1 is the header, so data rows start at 2
		item, rejection := ParseBoQRow(row, i+2)
		if rejection != nil {
			ingestionErrors = append(ingestionErrors, models.IngestionError{
				ID:          uuid.New(),
				ProjectID:   project.ID,
				RowNumber:   rejection.RowNumber,
				ItemCode:    rejection.ItemCode,
				Description: rejection.Description,
				Quantity:    rejection.Quantity,
				UnitRate:    rejection.UnitRate,
				TotalCost:   rejection.TotalCost,
				Reason:      rejection.Reason,
				ErrorType:   rejection.ErrorType,
				AddedVia:    models.BulkAddedViaType,
				CreatedBy:   project.CreatedBy,
			})
			continue
		}

		item.ProjectID = project.ID
		item.WbsLevel = WbsLevel(item.ItemCode)
		item.ParentItemCode = ParentItemCode(item.ItemCode)
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, apperrors.ErrNoValidLineItems
	}

	RankByCost(items, DefaultParetoThreshold)

	// Reporting total is the level-1 sum only, so parent rows that roll up
	// their children are not double-counted.
	totalProjectCost := decimal.Zero
	paretoCriticalCount := 0
	for _, item := range items {
		if item.WbsLevel == 1 {
			totalProjectCost = totalProjectCost.Add(item.TotalCost)
		}
		if item.IsParetoCritical {
			paretoCriticalCount++
		}
	}

	if err := p.lineItemRepo.ReplaceProjectData(ctx, project.ID, items, ingestionErrors, totalProjectCost); err != nil {
		return nil, fmt.Errorf("failed to store analysis results for project %s: %w", projectID, err)
	}

	config.Logger.Info("Project processed",
		zap.String("project_id", projectID.String()),
		zap.Int("total_items", len(items)),
		zap.Int("rejected_rows", len(ingestionErrors)),
		zap.String("total_project_cost", totalProjectCost.String()),
	)

	return &ProcessResult{
		ProjectID:           project.ID,
		TotalItems:          len(items),
		TotalProjectCost:    totalProjectCost,
		ParetoCriticalItems: paretoCriticalCount,
		Items:               items,
		RejectedRows:        len(ingestionErrors),
	}, nil
}
