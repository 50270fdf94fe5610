package controllers

import (
	boqrepositories "boq-analysis-backend/boq/repositories"
	"boq-analysis-backend/insights/repositories"
	"boq-analysis-backend/insights/services"
)

type InsightController struct {
	ProjectRepo boqrepositories.ProjectRepository
	InsightRepo repositories.InsightRepository
	VERuleRepo  repositories.VERuleRepository
	RuleEngine  *services.RuleEngine
}
