// internal/workers/gift-search/parse-follow-up/handler.go
package parsefollowup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "gifting-workers/internal/common/errors"
	"gifting-workers/internal/common/logger"
	"gifting-workers/internal/common/metrics"
	"gifting-workers/internal/common/observability"
	"gifting-workers/internal/common/validation"
	"gifting-workers/internal/models"
	"gifting-workers/pkg/registry"
)

const (
	TaskType = "parse-follow-up"
)

var inputSchema = registry.MustDefault().InputSchema(TaskType)

// Detector resolves a message against a conversation's previous results.
type Detector interface {
	DetectFollowUp(ctx context.Context, conversationID, message string) (*models.FollowUpRequest, error)
}

type Handler struct {
	config     *Config
	detector   Detector
	errHandler *apperrors.ErrorHandler
	obs        *observability.Observability
	logger     logger.Logger
}

func NewHandler(config *Config, detector Detector, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		detector:   detector,
		errHandler: apperrors.NewErrorHandler(log),
		obs:        obs,
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(client, job, err, start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(client, job, err, start)
		return
	}

	h.completeJob(client, job, output, start)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	result, err := validation.ValidateJSON(inputSchema, job.Variables)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidInputError(result.Summary())
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	fu, err := h.detector.DetectFollowUp(ctx, input.ConversationID, input.Message)
	if err != nil {
		return nil, err
	}
	if fu == nil {
		h.logger.Debug("no follow-up detected", map[string]interface{}{
			"conversationId": input.ConversationID,
		})
		return &Output{Detected: false}, nil
	}

	h.logger.Info("follow-up detected", map[string]interface{}{
		"conversationId": input.ConversationID,
		"type":           string(fu.Type),
		"category":       fu.CategoryName,
	})
	return &Output{
		Detected:     true,
		FollowUpType: string(fu.Type),
		CategoryName: fu.CategoryName,
		FollowUp:     fu,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		h.failJob(client, job, apperrors.NewInternalError(err), start)
		return
	}

	ctx := context.Background()
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}

	metrics.ObserveJob(TaskType, time.Since(start), "")
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	code := apperrors.NormalizeError(err).Code

	ctx := context.Background()
	metrics.ObserveJob(TaskType, time.Since(start), string(code))
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")

	h.errHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
