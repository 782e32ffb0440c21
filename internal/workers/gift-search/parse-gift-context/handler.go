// internal/workers/gift-search/parse-gift-context/handler.go
package parsegiftcontext

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "gifting-workers/internal/common/errors"
	"gifting-workers/internal/common/logger"
	"gifting-workers/internal/common/metrics"
	"gifting-workers/internal/common/observability"
	"gifting-workers/internal/common/validation"
	"gifting-workers/internal/gifting/contextparser"
	"gifting-workers/internal/gifting/conversation"
	"gifting-workers/internal/gifting/querygen"
	"gifting-workers/pkg/registry"
)

const (
	TaskType = "parse-gift-context"
)

var (
	ErrMessageBlank = errors.New("MESSAGE_BLANK")
)

var inputSchema = registry.MustDefault().InputSchema(TaskType)

type Handler struct {
	config     *Config
	parser     *contextparser.Parser
	store      conversation.Store
	errHandler *apperrors.ErrorHandler
	obs        *observability.Observability
	logger     logger.Logger
}

// NewHandler builds the worker. store may be nil, in which case prior context
// is only taken from the job variables.
func NewHandler(config *Config, parser *contextparser.Parser, store conversation.Store, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	if parser == nil {
		parser = contextparser.New(log)
	}
	return &Handler{
		config:     config,
		parser:     parser,
		store:      store,
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
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("%w: message has no content", ErrMessageBlank)
	}

	prior := input.PriorContext
	if prior == nil && input.ConversationID != "" && h.store != nil {
		state, err := h.store.Load(ctx, input.ConversationID)
		if err != nil {
			return nil, apperrors.NewConversationStateFailedError(input.ConversationID, err)
		}
		prior = state.Context
	}

	parsed := h.parser.Parse(input.Message, prior)
	queries := querygen.Generate(parsed)

	h.logger.Info("gift context parsed", map[string]interface{}{
		"recipient": parsed.Recipient,
		"occasion":  parsed.Occasion,
		"interests": parsed.Interests,
		"brands":    parsed.DetectedBrands,
		"queries":   len(queries),
		"hasBudget": parsed.HasBudget(),
	})

	return &Output{
		ParsedContext: parsed,
		Queries:       queries,
		QueryCount:    len(queries),
		HasBudget:     parsed.HasBudget(),
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
	err = classify(err)
	code := apperrors.NormalizeError(err).Code

	ctx := context.Background()
	metrics.ObserveJob(TaskType, time.Since(start), string(code))
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")

	h.errHandler.HandleJobError(ctx, client, job, err)
}

// classify maps this worker's sentinel errors onto application error codes.
func classify(err error) error {
	if errors.Is(err, ErrMessageBlank) {
		return apperrors.NewContextParseFailedError(err.Error())
	}
	return err
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
