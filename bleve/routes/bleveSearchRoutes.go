package routes

import (
	"boq-analysis-backend/bleve/controllers"

	"github.com/gofiber/fiber/v2"
)

func InitBleveRoutes(app *fiber.App, controller *controllers.SearchController) {
	api := app.Group("/search")

	api.Get("/line-items", controller.SearchLineItemsController)
}
