package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boq-analysis-backend/config"
	"boq-analysis-backend/db/models"
	"boq-analysis-backend/insights/tasks"
	"boq-analysis-backend/internal/apperrors"
	"boq-analysis-backend/utils"
	"boq-analysis-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProcessProjectController runs the full Pareto/WBS analysis for a project.
// The analysis itself is transactional; everything after the swap commits
// (search indexing, cache invalidation, progress events, the insight job and
// the rejected-rows report) is best effort and never fails the request.
func (bc *BoqController) ProcessProjectController(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid project ID"})
	}

	if bc.WsHub != nil {
		bc.WsHub.BroadcastToProject(projectID.String(), websocket.WebSocketMessage{
			Type:      websocket.MessageTypeProcessingStarted,
			Payload:   fiber.Map{"project_id": projectID.String()},
			Timestamp: time.Now(),
			ProjectID: projectID.String(),
		})
	}

	result, err := bc.Processor.ProcessProject(c.Context(), projectID)
	if err != nil {
		if bc.WsHub != nil {
			bc.WsHub.BroadcastToProject(projectID.String(), websocket.WebSocketMessage{
				Type:      websocket.MessageTypeProcessingFailed,
				Payload:   fiber.Map{"project_id": projectID.String(), "error": err.Error()},
				Timestamp: time.Now(),
				ProjectID: projectID.String(),
			})
		}

		switch {
		case errors.Is(err, apperrors.ErrProjectNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Project not found"})
		case errors.Is(err, apperrors.ErrEmptySpreadsheet):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "The uploaded spreadsheet contains no data rows"})
		case errors.Is(err, apperrors.ErrNoValidLineItems):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "No valid line items found in the uploaded spreadsheet"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to process project",
				"error":   err.Error(),
			})
		}
	}

	// Search index reflects the committed state, replacing any previous run's
	// documents for this project.
	if bc.BleveRepo != nil {
		if err := bc.BleveRepo.ReindexProjectLineItems(projectID.String(), result.Items); err != nil {
			config.Logger.Warn("Failed to reindex line items",
				zap.String("project_id", projectID.String()),
				zap.Error(err),
			)
		}
	}

	if bc.RedisClient != nil {
		utils.InvalidateCacheAsync(bc.RedisClient, "wbs_data")
	}

	if bc.AsynqClient != nil {
		task, err := tasks.NewInsightGenerationTask(projectID.String())
		if err != nil {
			config.Logger.Warn("Failed to build insight generation task", zap.Error(err))
		} else if _, err := bc.AsynqClient.Enqueue(task); err != nil {
			config.Logger.Warn("Failed to enqueue insight generation task",
				zap.String("project_id", projectID.String()),
				zap.Error(err),
			)
		}
	}

	reportLink := bc.sendRejectionReport(projectID)

	if bc.WsHub != nil {
		bc.WsHub.BroadcastToProject(projectID.String(), websocket.WebSocketMessage{
			Type: websocket.MessageTypeProcessingComplete,
			Payload: fiber.Map{
				"project_id":            projectID.String(),
				"total_items":           result.TotalItems,
				"total_project_cost":    result.TotalProjectCost,
				"pareto_critical_items": result.ParetoCriticalItems,
				"rejected_rows":         result.RejectedRows,
				"rejection_report":      reportLink,
			},
			Timestamp: time.Now(),
			ProjectID: projectID.String(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Project processed successfully",
		"data":    result,
		"error":   nil,
	})
}

// sendRejectionReport emails the uploader an Excel report of the rows that
// were rejected during processing. Returns the report's download link, or ""
// when there were no rejections or the report could not be produced.
func (bc *BoqController) sendRejectionReport(projectID uuid.UUID) string {
	ingestionErrors, err := bc.LineItemRepo.ListIngestionErrors(context.Background(), projectID)
	if err != nil {
		config.Logger.Warn("Failed to load ingestion errors for report",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		return ""
	}
	if len(ingestionErrors) == 0 {
		return ""
	}

	project, err := bc.ProjectRepo.GetProjectByID(context.Background(), projectID)
	if err != nil || project == nil {
		return ""
	}

	headers := []string{"RowNumber", "ItemCode", "Description", "Quantity", "UnitRate", "TotalCost", "Reason", "ErrorType"}
	filePath, err := utils.GenerateExcel(ingestionErrors, "ingestion_errors_"+projectID.String(), headers)
	if err != nil {
		config.Logger.Warn("Failed to generate ingestion error report", zap.Error(err))
		return ""
	}

	downloadLink := utils.GenerateDownloadLink(filePath)
	message := fmt.Sprintf("Processing of project %q completed with %d rejected rows. Please find the attached error report.", project.Name, len(ingestionErrors))
	subject := "BoQ Ingestion Errors - " + time.Now().Format("2006-01-02 15:04:05")

	if err := utils.SendEmail(project.CreatedBy, message, subject, filePath); err != nil {
		config.Logger.Warn("Failed to send ingestion error report email",
			zap.String("recipient", project.CreatedBy),
			zap.Error(err),
		)
		return downloadLink
	}

	active := true
	emailLog := models.EmailLog{
		ID:             uuid.New(),
		Recipient:      project.CreatedBy,
		Subject:        subject,
		Message:        message,
		SentAt:         utils.Today(),
		Active:         &active,
		AttachmentPath: downloadLink,
	}
	if err := bc.ProjectRepo.LogEmailSent(&emailLog); err != nil {
		config.Logger.Warn("Failed to log ingestion report email", zap.Error(err))
	}

	return downloadLink
}
