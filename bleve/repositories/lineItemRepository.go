package repositories

import (
	"strings"

	"boq-analysis-backend/config"
	"boq-analysis-backend/db/models"

	"github.com/blevesearch/bleve/v2"
	"go.uber.org/zap"
)

// Each project gets its own index so a re-processing run can atomically drop
// stale documents by deleting the whole index.
func lineItemIndexName(projectID string) string {
	return "line_items_" + projectID
}

type bleveLineItemDoc struct {
	ID                   string  `json:"id"`
	ProjectID            string  `json:"project_id"`
	ItemCode             string  `json:"item_code"`
	Description          string  `json:"description"`
	Unit                 string  `json:"unit,omitempty"`
	TotalCost            float64 `json:"total_cost"`
	WbsLevel             int     `json:"wbs_level"`
	ParentItemCode       string  `json:"parent_item_code,omitempty"`
	CumulativePercentage float64 `json:"cumulative_percentage"`
	IsParetoCritical     bool    `json:"is_pareto_critical"`
	RankOrder            int     `json:"rank_order"`
}

func newBleveLineItemDoc(item *models.LineItem) bleveLineItemDoc {
	doc := bleveLineItemDoc{
		ID:                   item.ID.String(),
		ProjectID:            item.ProjectID.String(),
		ItemCode:             item.ItemCode,
		Description:          item.Description,
		TotalCost:            item.TotalCost.InexactFloat64(),
		WbsLevel:             item.WbsLevel,
		CumulativePercentage: item.CumulativePercentage.InexactFloat64(),
		IsParetoCritical:     item.IsParetoCritical,
		RankOrder:            item.RankOrder,
	}
	if item.Unit != nil {
		doc.Unit = *item.Unit
	}
	if item.ParentItemCode != nil {
		doc.ParentItemCode = *item.ParentItemCode
	}
	return doc
}

// ReindexProjectLineItems replaces the project's search index with the given
// items. Mirrors the delete-then-insert semantics of the database swap.
func (r *BleveRepository) ReindexProjectLineItems(projectID string, items []*models.LineItem) error {
	indexName := lineItemIndexName(projectID)

	exists, err := r.indexer.IndexExists(indexName)
	if err != nil {
		return err
	}
	if exists {
		if err := r.indexer.DeleteIndex(indexName); err != nil {
			return err
		}
	}

	docsToBleveIndex := make(map[string]interface{}, len(items))
	for _, item := range items {
		docsToBleveIndex[item.ID.String()] = newBleveLineItemDoc(item)
	}

	if len(docsToBleveIndex) == 0 {
		config.Logger.Info("No line items to index into Bleve",
			zap.String("project_id", projectID))
		return nil
	}

	err = r.indexer.BulkIndexDocuments(indexName, docsToBleveIndex)
	if err != nil {
		config.Logger.Error("Failed to bulk index line items into Bleve",
			zap.String("project_id", projectID),
			zap.Error(err))
		return err
	}

	config.Logger.Info("Successfully indexed project line items into Bleve",
		zap.String("project_id", projectID),
		zap.Int("count", len(docsToBleveIndex)))
	return nil
}

// DeleteProjectIndex drops the project's search index entirely, used when the
// project itself is deleted.
func (r *BleveRepository) DeleteProjectIndex(projectID string) error {
	return r.indexer.DeleteIndex(lineItemIndexName(projectID))
}

// SearchLineItems runs a ranked full-text search over one project's items,
// mixing exact, prefix and fuzzy strategies over item codes and descriptions.
func (r *BleveRepository) SearchLineItems(
	projectID string,
	queryString string,
	paretoCriticalOnly bool,
	size int,
) (*bleve.SearchResult, error) {
	booleanQuery := bleve.NewBooleanQuery()
	queryString = strings.TrimSpace(queryString)
	queryStringLower := strings.ToLower(queryString)

	if queryString != "" {
		exactMatch := bleve.NewBooleanQuery()

		// Exact matches for item code
		codeExact := bleve.NewTermQuery(queryString)
		codeExact.SetField("item_code")
		codeExact.SetBoost(10.0)
		exactMatch.AddShould(codeExact)

		// Match query for analyzed description text
		matchQuery := bleve.NewMatchQuery(queryString)
		matchQuery.SetField("description")
		matchQuery.SetBoost(7.0)
		exactMatch.AddShould(matchQuery)

		// Prefix matches
		prefixMatch := bleve.NewBooleanQuery()

		codePrefix := bleve.NewPrefixQuery(queryStringLower)
		codePrefix.SetField("item_code")
		codePrefix.SetBoost(6.0)
		prefixMatch.AddShould(codePrefix)

		descPrefix := bleve.NewPrefixQuery(queryStringLower)
		descPrefix.SetField("description")
		descPrefix.SetBoost(5.0)
		prefixMatch.AddShould(descPrefix)

		// Fuzzy search for typos
		fuzzyQuery := bleve.NewFuzzyQuery(queryStringLower)
		fuzzyQuery.SetField("description")
		fuzzyQuery.SetBoost(4.0)
		fuzzyQuery.SetFuzziness(1)
		prefixMatch.AddShould(fuzzyQuery)

		booleanQuery.AddShould(exactMatch)
		booleanQuery.AddShould(prefixMatch)
	}

	// Build final query with filters
	finalQuery := bleve.NewBooleanQuery()
	if queryString != "" {
		finalQuery.AddMust(booleanQuery)
	} else {
		finalQuery.AddMust(bleve.NewMatchAllQuery())
	}

	if paretoCriticalOnly {
		criticalQuery := bleve.NewBoolFieldQuery(true)
		criticalQuery.SetField("is_pareto_critical")
		finalQuery.AddMust(criticalQuery)
	}

	return r.indexer.SearchIndex(lineItemIndexName(projectID), finalQuery, size)
}
