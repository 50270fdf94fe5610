package routes

import (
	"boq-analysis-backend/insights/controllers"
	"boq-analysis-backend/middleware"
	"boq-analysis-backend/token"

	"github.com/gofiber/fiber/v2"
)

func InsightRouterInit(
	app *fiber.App,
	insightController *controllers.InsightController,
	tokenMaker token.Maker,
) {
	protected := middleware.RequireServiceToken(tokenMaker)

	app.Get("/projects/:id/insights", insightController.GetProjectInsightsController)
	app.Post("/projects/:id/insights/generate", protected, insightController.GenerateInsightsController)

	veRuleRoutes := app.Group("/ve-rules")
	veRuleRoutes.Get("/", insightController.GetFilteredVERulesController)
	veRuleRoutes.Post("/", protected, insightController.CreateVERuleController)
	veRuleRoutes.Patch("/:id", protected, insightController.UpdateVERuleController)
}
