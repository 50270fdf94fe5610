package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"boq-analysis-backend/config"
	"boq-analysis-backend/insights/services"
	"boq-analysis-backend/websocket"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeInsightGeneration = "insights:generate"

type InsightGenerationPayload struct {
	ProjectID string `json:"project_id"`
}

// NewInsightGenerationTask builds the queue task enqueued after each
// processing run.
func NewInsightGenerationTask(projectID string) (*asynq.Task, error) {
	payload, err := json.Marshal(InsightGenerationPayload{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(
		TypeInsightGeneration,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	), nil
}

// InsightTaskHandler runs insight generation on the asynq worker and
// broadcasts completion to websocket watchers.
type InsightTaskHandler struct {
	RuleEngine *services.RuleEngine
	WsHub      *websocket.Hub
}

func (h *InsightTaskHandler) HandleInsightGenerationTask(ctx context.Context, t *asynq.Task) error {
	var payload InsightGenerationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal insight task payload: %w: %w", err, asynq.SkipRetry)
	}

	projectID, err := uuid.Parse(payload.ProjectID)
	if err != nil {
		return fmt.Errorf("invalid project id %q in insight task: %w: %w", payload.ProjectID, err, asynq.SkipRetry)
	}

	insights, err := h.RuleEngine.GenerateForProject(ctx, projectID)
	if err != nil {
		config.Logger.Error("Insight generation task failed",
			zap.String("project_id", payload.ProjectID),
			zap.Error(err),
		)
		return err
	}

	if h.WsHub != nil {
		h.WsHub.BroadcastToProject(payload.ProjectID, websocket.WebSocketMessage{
			Type: websocket.MessageTypeInsightsReady,
			Payload: map[string]interface{}{
				"project_id":    payload.ProjectID,
				"insight_count": len(insights),
			},
			Timestamp: time.Now(),
			ProjectID: payload.ProjectID,
		})
	}

	return nil
}
