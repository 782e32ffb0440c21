// internal/workers/gift-search/multi-category-search/handler.go
package multicategorysearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "gifting-workers/internal/common/errors"
	"gifting-workers/internal/common/logger"
	"gifting-workers/internal/common/metrics"
	"gifting-workers/internal/common/observability"
	"gifting-workers/internal/common/validation"
	"gifting-workers/internal/gifting/search"
	"gifting-workers/internal/models"
	"gifting-workers/pkg/registry"
)

const (
	TaskType = "multi-category-search"
)

var inputSchema = registry.MustDefault().InputSchema(TaskType)

var ErrAllLookupsFailed = errors.New("ALL_LOOKUPS_FAILED")

// ResultRecorder stores a search as the conversation's latest results.
type ResultRecorder interface {
	RecordResults(ctx context.Context, conversationID string, parsed *models.ParsedContext, results *models.GroupedSearchResults) error
}

type Handler struct {
	config     *Config
	executor   *search.Executor
	recorder   ResultRecorder
	errHandler *apperrors.ErrorHandler
	obs        *observability.Observability
	logger     logger.Logger
}

func NewHandler(config *Config, executor *search.Executor, recorder ResultRecorder, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		executor:   executor,
		recorder:   recorder,
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
	limit := input.PerCategoryLimit
	if limit <= 0 {
		limit = h.config.PerCategoryLimit
	}

	parsed := &input.ParsedContext
	results := h.executor.Search(ctx, parsed, limit)

	// Partial failures are reported in the metrics; only a total outage fails the job.
	if m := results.Metrics; m.SuccessfulSearches == 0 && m.FailedSearches > 0 {
		summary := fmt.Sprintf("%d category queries", m.FailedSearches)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewSearchTimeoutError(summary)
		}
		return nil, apperrors.NewSearchQueryFailedError(summary, ErrAllLookupsFailed)
	}

	if input.ConversationID != "" && h.recorder != nil {
		if err := h.recorder.RecordResults(ctx, input.ConversationID, parsed, results); err != nil {
			return nil, err
		}
	}

	output := &Output{
		Results:    results,
		HasResults: results.TotalResults > 0,
	}
	if len(results.Categories) > 0 {
		output.TopCategory = results.Categories[0].CategoryName
	}

	h.logger.Info("multi-category search finished", map[string]interface{}{
		"categories":   len(results.Categories),
		"totalResults": results.TotalResults,
		"successful":   results.Metrics.SuccessfulSearches,
		"failed":       results.Metrics.FailedSearches,
		"durationMs":   results.Metrics.TotalTimeMs,
	})
	return output, nil
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
