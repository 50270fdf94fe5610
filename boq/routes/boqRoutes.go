package routes

import (
	"boq-analysis-backend/boq/controllers"
	"boq-analysis-backend/middleware"
	"boq-analysis-backend/token"

	"github.com/gofiber/fiber/v2"
)

func BoqRouterInit(
	app *fiber.App,
	boqController *controllers.BoqController,
	tokenMaker token.Maker,
) {
	projectRoutes := app.Group("/projects")

	// Read endpoints
	projectRoutes.Get("/", boqController.GetFilteredProjectsController)
	projectRoutes.Get("/:id", boqController.GetProjectController)
	projectRoutes.Get("/:id/wbs", boqController.GetWbsDataController)
	projectRoutes.Get("/:id/items", boqController.GetProjectItemsController)
	projectRoutes.Get("/:id/pareto-critical", boqController.GetParetoCriticalController)
	projectRoutes.Get("/:id/ingestion-errors", boqController.GetIngestionErrorsController)

	// Mutating endpoints require a service token
	protected := middleware.RequireServiceToken(tokenMaker)
	projectRoutes.Post("/upload", protected, boqController.UploadProjectController)
	projectRoutes.Post("/:id/process", protected, boqController.ProcessProjectController)
	projectRoutes.Delete("/:id", protected, boqController.DeleteProjectController)
}
