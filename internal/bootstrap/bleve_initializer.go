package bootstrap

import (
	"context"
	"log"

	bleveRepositories "boq-analysis-backend/bleve/repositories"
	boqRepositories "boq-analysis-backend/boq/repositories"
	"boq-analysis-backend/config"

	"go.uber.org/zap"
)

// IndexBleveData rebuilds the search indices from the database at boot. The
// on-disk index is treated as a cache of Postgres, never the source of truth.
func IndexBleveData(
	ctx context.Context,
	projectRepo boqRepositories.ProjectRepository,
	lineItemRepo boqRepositories.LineItemRepository,
	bleveRepo bleveRepositories.BleveRepositoryInterface,
) {
	// Delete all indexes first
	err := bleveRepo.DeleteAllIndices(ctx)
	if err != nil {
		log.Fatalf("Error deleting all indices: %v", err)
	}

	projects, err := projectRepo.ListProcessedProjects(ctx)
	if err != nil {
		config.Logger.Error("Error fetching processed projects for Bleve indexing", zap.Error(err))
		return
	}

	for _, project := range projects {
		items, err := lineItemRepo.ListForProject(ctx, project.ID)
		if err != nil {
			config.Logger.Error("Error fetching line items for Bleve indexing",
				zap.String("project_id", project.ID.String()),
				zap.Error(err))
			continue
		}
		if err := bleveRepo.ReindexProjectLineItems(project.ID.String(), items); err != nil {
			config.Logger.Error("Failed to index project line items into Bleve",
				zap.String("project_id", project.ID.String()),
				zap.Error(err))
		}
	}

	config.Logger.Info("Bleve indexing completed", zap.Int("projects", len(projects)))
}
