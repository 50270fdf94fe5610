package repositories

import (
	"context"

	bleveindex "boq-analysis-backend/bleve/services"
	"boq-analysis-backend/db/models"

	"github.com/blevesearch/bleve/v2"
)

type BleveRepository struct {
	indexer *bleveindex.IndexingService
}

type BleveRepositoryInterface interface {
	// General
	DeleteAllIndices(ctx context.Context) error

	// ==== Line item indexing ====
	ReindexProjectLineItems(projectID string, items []*models.LineItem) error
	DeleteProjectIndex(projectID string) error
	SearchLineItems(projectID, queryString string, paretoCriticalOnly bool, size int) (*bleve.SearchResult, error)
}

// Constructor returning both the struct and the interface
func NewBleveRepository(indexer *bleveindex.IndexingService) (*BleveRepository, BleveRepositoryInterface) {
	repo := &BleveRepository{indexer: indexer}
	return repo, repo
}

func (r *BleveRepository) DeleteAllIndices(ctx context.Context) error {
	return r.indexer.DeleteAllIndices()
}
