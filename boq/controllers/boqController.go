package controllers

import (
	indexing_repository "boq-analysis-backend/bleve/repositories"
	"boq-analysis-backend/boq/repositories"
	"boq-analysis-backend/boq/services"
	"boq-analysis-backend/utils"
	"boq-analysis-backend/websocket"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type BoqController struct {
	ProjectRepo  repositories.ProjectRepository
	LineItemRepo repositories.LineItemRepository
	Processor    *services.AnalysisProcessor
	Aggregator   *services.WbsAggregator
	FileStorage  utils.FileStorage
	BleveRepo    indexing_repository.BleveRepositoryInterface
	RedisClient  *redis.Client
	AsynqClient  *asynq.Client
	WsHub        *websocket.Hub
}
