// Package assistant runs a gift-search conversation turn end to end.
package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gifting-workers/internal/common/errors"
	"gifting-workers/internal/common/events"
	"gifting-workers/internal/common/logger"
	"gifting-workers/internal/gifting/contextparser"
	"gifting-workers/internal/gifting/conversation"
	"gifting-workers/internal/gifting/search"
	"gifting-workers/internal/models"
)

// showMoreFactor widens a show-more lookup so enough unseen products remain.
const showMoreFactor = 2

type Config struct {
	PerCategoryLimit int
}

type Dependencies struct {
	Parser         *contextparser.Parser
	Executor       *search.Executor
	Store          conversation.Store
	InteractionLog conversation.InteractionLog
	Publisher      events.Publisher
	Logger         logger.Logger
}

// Response is the outcome of one conversation turn.
type Response struct {
	ConversationID string                           `json:"conversationId"`
	Context        *models.ParsedContext            `json:"context,omitempty"`
	Results        *models.GroupedSearchResults     `json:"results"`
	FollowUp       *models.FollowUpRequest          `json:"followUp,omitempty"`
	Suggestions    []models.CrossCategorySuggestion `json:"suggestions"`
}

// TrackResult summarises conversation state after an interaction.
type TrackResult struct {
	ConversationID      string   `json:"conversationId"`
	InteractionID       string   `json:"interactionId"`
	PreferredCategories []string `json:"preferredCategories"`
	InteractionCount    int      `json:"interactionCount"`
}

type Service struct {
	parser       *contextparser.Parser
	executor     *search.Executor
	store        conversation.Store
	interactions conversation.InteractionLog
	publisher    events.Publisher
	limit        int
	logger       logger.Logger

	newID func() string
	now   func() time.Time
}

func NewService(cfg Config, deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Service{
		parser:       deps.Parser,
		executor:     deps.Executor,
		store:        deps.Store,
		interactions: deps.InteractionLog,
		publisher:    deps.Publisher,
		limit:        cfg.PerCategoryLimit,
		logger:       log.WithFields(map[string]interface{}{"component": "assistant"}),
		newID:        uuid.NewString,
		now:          time.Now,
	}
	if s.parser == nil {
		s.parser = contextparser.New(log)
	}
	if s.store == nil {
		s.store = conversation.NewMemoryStore()
	}
	if s.interactions == nil {
		s.interactions = conversation.NoopInteractionLog{}
	}
	if s.publisher == nil {
		s.publisher = events.NoopPublisher{}
	}
	if s.limit <= 0 {
		s.limit = search.DefaultPerCategoryLimit
	}
	return s
}

// HandleMessage answers a user message. Follow-ups on the previous results
// are tried first; anything else is parsed as a new or refined gift request.
func (s *Service) HandleMessage(ctx context.Context, conversationID, message string) (*Response, error) {
	if conversationID == "" {
		conversationID = s.newID()
	}

	tracker, err := s.load(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if prev := tracker.PreviousResults(); prev != nil {
		if fu := conversation.ParseFollowUp(message, prev); fu != nil {
			return s.followUp(ctx, conversationID, tracker, fu)
		}
	}

	parsed := s.parser.Parse(message, tracker.Context())
	results := s.executor.Search(ctx, parsed, s.limit)

	tracker.UpdateContext(parsed)
	tracker.UpdateFromResults(results)
	if err := s.save(ctx, conversationID, tracker); err != nil {
		return nil, err
	}

	resp := &Response{
		ConversationID: conversationID,
		Context:        parsed,
		Results:        results,
		Suggestions:    []models.CrossCategorySuggestion{},
	}
	if len(results.Categories) > 0 {
		resp.Suggestions = conversation.Suggest(results.Categories[0].CategoryName, parsed)
	}

	s.logger.Info("gift search completed", map[string]interface{}{
		"conversationId": conversationID,
		"categories":     len(results.Categories),
		"totalResults":   results.TotalResults,
		"failed":         results.Metrics.FailedSearches,
	})
	return resp, nil
}

// DetectFollowUp interprets message against the conversation's stored results
// without running a search. It returns nil when message is not a follow-up.
func (s *Service) DetectFollowUp(ctx context.Context, conversationID, message string) (*models.FollowUpRequest, error) {
	tracker, err := s.load(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return conversation.ParseFollowUp(message, tracker.PreviousResults()), nil
}

// RecordResults stores results, and optionally the context that produced
// them, as the conversation's latest turn.
func (s *Service) RecordResults(ctx context.Context, conversationID string, parsed *models.ParsedContext, results *models.GroupedSearchResults) error {
	tracker, err := s.load(ctx, conversationID)
	if err != nil {
		return err
	}
	if parsed != nil {
		tracker.UpdateContext(parsed)
	}
	tracker.UpdateFromResults(results)
	return s.save(ctx, conversationID, tracker)
}

// Track records a user interaction with a result category. The interaction
// log and event stream are best effort; only state persistence can fail it.
func (s *Service) Track(ctx context.Context, conversationID string, interaction models.CategoryInteraction) (*TrackResult, error) {
	if conversationID == "" {
		return nil, errors.NewInvalidInputError("conversationId is required")
	}
	if interaction.CategoryName == "" {
		return nil, errors.NewInvalidInputError("categoryName is required")
	}
	if !interaction.Action.IsValid() {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("unknown action %q", interaction.Action))
	}

	tracker, err := s.load(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	s.record(ctx, conversationID, tracker, &interaction)
	if err := s.save(ctx, conversationID, tracker); err != nil {
		return nil, err
	}

	return &TrackResult{
		ConversationID:      conversationID,
		InteractionID:       interaction.ID,
		PreferredCategories: tracker.PreferredCategories(),
		InteractionCount:    len(tracker.Interactions()),
	}, nil
}

func (s *Service) followUp(ctx context.Context, conversationID string, tracker *conversation.Tracker, fu *models.FollowUpRequest) (*Response, error) {
	prev := tracker.PreviousResults()
	shown, ok := prev.Category(fu.CategoryName)
	if !ok {
		return nil, errors.NewCategoryNotResolvedError(fu.CategoryName)
	}
	parsed := tracker.Context()

	query := models.CategoryQuery{Query: shown.SearchQuery, Category: shown.CategoryName}
	limit := s.limit
	var keep func(models.Product) bool

	switch fu.Type {
	case models.FollowUpShowMore:
		limit *= showMoreFactor
		seen := make(map[string]bool, len(shown.Products))
		for _, p := range shown.Products {
			seen[p.ID] = true
		}
		keep = func(p models.Product) bool { return !seen[p.ID] }
	case models.FollowUpRefine:
		query.Query, keep = refineQuery(shown, fu.Refinement)
	}

	results := s.executor.SearchQueries(ctx, parsed, []models.CategoryQuery{query}, limit)
	for i := range results.Categories {
		c := &results.Categories[i]
		c.DisplayName = shown.DisplayName
		c.RelevanceScore = shown.RelevanceScore
		c.Products = filterProducts(c.Products, keep)
		if fu.Type == models.FollowUpRefine && len(c.Products) > s.limit {
			c.Products = c.Products[:s.limit]
		}
		c.ResultCount = len(c.Products)
	}
	results.TotalResults = 0
	for _, c := range results.Categories {
		results.TotalResults += c.ResultCount
	}

	if fu.Type == models.FollowUpShowMore {
		var added []models.Product
		if len(results.Categories) > 0 {
			added = results.Categories[0].Products
		}
		s.record(ctx, conversationID, tracker, &models.CategoryInteraction{
			CategoryName: fu.CategoryName,
			Action:       models.ActionRequestedMore,
			Products:     added,
		})
		tracker.UpdateFromResults(appendShown(prev, fu.CategoryName, added))
	} else if len(results.Categories) > 0 {
		tracker.UpdateFromResults(replaceCategory(prev, results.Categories[0]))
	}

	if err := s.save(ctx, conversationID, tracker); err != nil {
		return nil, err
	}

	s.logger.Info("follow-up handled", map[string]interface{}{
		"conversationId": conversationID,
		"type":           string(fu.Type),
		"category":       fu.CategoryName,
		"totalResults":   results.TotalResults,
	})

	return &Response{
		ConversationID: conversationID,
		Context:        parsed,
		Results:        results,
		FollowUp:       fu,
		Suggestions:    conversation.Suggest(fu.CategoryName, parsed),
	}, nil
}

// refineQuery rewrites the category query for a refinement. Cheaper requests
// cap the price at the stated ceiling or the average of what was shown;
// better requests keep only products priced at or above that average.
func refineQuery(shown *models.CategoryResults, r *models.Refinement) (string, func(models.Product) bool) {
	text, ceiling := search.SplitQuery(shown.SearchQuery)
	avg := averagePrice(shown.Products)

	if r != nil && r.Direction == "better" {
		if ceiling > 0 {
			text = fmt.Sprintf("%s under $%d", text, ceiling)
		}
		return text, func(p models.Product) bool { return p.Price >= avg }
	}

	switch {
	case r != nil && r.PriceMax != nil:
		ceiling = *r.PriceMax
	case avg > 0:
		ceiling = int(avg)
	}
	if ceiling <= 0 {
		return text, nil
	}
	limit := float64(ceiling)
	return fmt.Sprintf("%s under $%d", text, ceiling), func(p models.Product) bool { return p.Price <= limit }
}

func (s *Service) record(ctx context.Context, conversationID string, tracker *conversation.Tracker, interaction *models.CategoryInteraction) {
	if interaction.ID == "" {
		interaction.ID = s.newID()
	}
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = s.now().UTC()
	}
	tracker.Track(*interaction)

	fields := map[string]interface{}{
		"conversationId": conversationID,
		"interactionId":  interaction.ID,
		"category":       interaction.CategoryName,
		"action":         string(interaction.Action),
	}

	if err := s.interactions.Record(ctx, conversationID, *interaction); err != nil {
		s.logger.Warn("interaction log write failed", withError(fields, err))
	}

	ids := make([]string, 0, len(interaction.Products))
	for _, p := range interaction.Products {
		ids = append(ids, p.ID)
	}
	evt := events.InteractionEvent{
		ConversationID: conversationID,
		InteractionID:  interaction.ID,
		CategoryName:   interaction.CategoryName,
		Action:         string(interaction.Action),
		ProductIDs:     ids,
		OccurredAt:     interaction.Timestamp,
	}
	if err := s.publisher.PublishInteraction(ctx, evt); err != nil {
		s.logger.Warn("interaction event publish failed", withError(fields, err))
	}
}

func (s *Service) load(ctx context.Context, conversationID string) (*conversation.Tracker, error) {
	state, err := s.store.Load(ctx, conversationID)
	if err != nil {
		return nil, errors.NewConversationStateFailedError(conversationID, err)
	}
	tracker := conversation.NewTracker(state)
	return tracker, nil
}

func (s *Service) save(ctx context.Context, conversationID string, tracker *conversation.Tracker) error {
	if err := s.store.Save(ctx, conversationID, tracker.State()); err != nil {
		return errors.NewConversationStateFailedError(conversationID, err)
	}
	return nil
}

func filterProducts(products []models.Product, keep func(models.Product) bool) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func averagePrice(products []models.Product) float64 {
	if len(products) == 0 {
		return 0
	}
	var sum float64
	for _, p := range products {
		sum += p.Price
	}
	return sum / float64(len(products))
}

// appendShown returns a copy of prev with added products appended to category.
func appendShown(prev *models.GroupedSearchResults, category string, added []models.Product) *models.GroupedSearchResults {
	out := copyResults(prev)
	if c, ok := out.Category(category); ok {
		c.Products = append(append([]models.Product{}, c.Products...), added...)
		c.ResultCount = len(c.Products)
		out.TotalResults += len(added)
	}
	return out
}

func replaceCategory(prev *models.GroupedSearchResults, updated models.CategoryResults) *models.GroupedSearchResults {
	out := copyResults(prev)
	if c, ok := out.Category(updated.CategoryName); ok {
		out.TotalResults += updated.ResultCount - c.ResultCount
		*c = updated
	}
	return out
}

func copyResults(in *models.GroupedSearchResults) *models.GroupedSearchResults {
	out := *in
	out.Categories = append([]models.CategoryResults{}, in.Categories...)
	return &out
}

func withError(fields map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}
