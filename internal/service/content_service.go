package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/anoexpected/stemhub-backend/internal/authz"
	"github.com/anoexpected/stemhub-backend/internal/config"
	"github.com/anoexpected/stemhub-backend/internal/lifecycle"
	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/repository"
	"github.com/anoexpected/stemhub-backend/internal/response"
)

// ContentStore is the persistence surface the content service needs.
// *repository.ContentRepository satisfies it; tests substitute an
// in-memory store with the same compare-and-swap semantics.
type ContentStore interface {
	Create(ctx context.Context, item *model.ContentItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ContentItem, error)
	UpdateDraft(ctx context.Context, item *model.ContentItem) error
	UpdateStateCAS(ctx context.Context, item *model.ContentItem, expectedState model.ContentState) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.ContentItem, int, error)
	ListPending(ctx context.Context, limit, offset int) ([]model.ContentItem, int, error)
	ListPublishedByTopic(ctx context.Context, topicID uuid.UUID, kind model.ContentKind) ([]model.ContentItem, error)
}

// ContentService orchestrates the content lifecycle: the gate decides who
// may act, the machine decides which transitions are legal, the store
// persists them atomically, and Redis carries the published-content cache
// and the review event stream.
type ContentService struct {
	store    ContentStore
	gate     *authz.Gate
	machine  *lifecycle.Machine
	rdb      *redis.Client
	cacheTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewContentService creates a new ContentService.
func NewContentService(
	store ContentStore,
	gate *authz.Gate,
	machine *lifecycle.Machine,
	rdb *redis.Client,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *ContentService {
	return &ContentService{
		store:    store,
		gate:     gate,
		machine:  machine,
		rdb:      rdb,
		cacheTTL: cacheTTL,
		log:      log.With().Str("component", "content_service").Logger(),
		now:      time.Now,
	}
}

// Create inserts a new content item in its initial lifecycle state.
func (s *ContentService) Create(ctx context.Context, actor *model.Actor, req *model.CreateContentRequest) (*model.ContentItem, error) {
	decision, err := s.gate.Authorize(actor, authz.ActionCreateContent, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decisionErr(decision)
	}

	item := &model.ContentItem{
		Kind:    model.ContentKind(req.Kind),
		OwnerID: actor.ID,
		TopicID: req.TopicID,
		Title:   req.Title,
		Body:    req.Body,
	}
	s.machine.Init(item, s.now())

	if err := s.store.Create(ctx, item); err != nil {
		return nil, err
	}

	// Auto-published kinds bypass review and go live immediately.
	if item.State == model.StatePublished {
		s.invalidateTopicCache(ctx, item.TopicID)
		s.publishEvent(ctx, "published", item)
	}

	s.log.Info().
		Str("content_id", item.ID.String()).
		Str("kind", string(item.Kind)).
		Str("state", string(item.State)).
		Msg("Content created")
	return item, nil
}

// SaveDraft applies edits to a draft in place (draft -> draft).
func (s *ContentService) SaveDraft(ctx context.Context, actor *model.Actor, id uuid.UUID, req *model.UpdateContentRequest) (*model.ContentItem, error) {
	item, err := s.authorizeMutation(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.machine.SaveDraft(item, actor, s.now()); err != nil {
		return nil, err
	}

	if req.Title != "" {
		item.Title = req.Title
	}
	if len(req.Body) > 0 {
		item.Body = req.Body
	}

	if err := s.store.UpdateDraft(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Submit moves a draft into the review queue (draft -> pending).
func (s *ContentService) Submit(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.ContentItem, error) {
	item, err := s.authorizeMutation(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.machine.Submit(item, actor, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.UpdateStateCAS(ctx, item, model.StateDraft); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "submitted", item)
	s.log.Info().
		Str("content_id", item.ID.String()).
		Str("owner_id", item.OwnerID.String()).
		Msg("Content submitted for review")
	return item, nil
}

// Approve publishes a pending item (pending -> published). The state swap
// is compare-and-swap against pending so a concurrent reviewer's decision
// can never be silently overwritten.
func (s *ContentService) Approve(ctx context.Context, reviewer *model.Actor, id uuid.UUID) (*model.ContentItem, error) {
	item, err := s.authorizeReview(ctx, reviewer, id)
	if err != nil {
		return nil, err
	}

	if err := s.machine.Approve(item, reviewer, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.UpdateStateCAS(ctx, item, model.StatePending); err != nil {
		return nil, err
	}

	s.invalidateTopicCache(ctx, item.TopicID)
	s.publishEvent(ctx, "published", item)
	s.log.Info().
		Str("content_id", item.ID.String()).
		Str("reviewer_id", reviewer.ID.String()).
		Msg("Content approved")
	return item, nil
}

// Reject declines a pending item with mandatory feedback (pending -> rejected).
func (s *ContentService) Reject(ctx context.Context, reviewer *model.Actor, id uuid.UUID, feedback string) (*model.ContentItem, error) {
	item, err := s.authorizeReview(ctx, reviewer, id)
	if err != nil {
		return nil, err
	}

	if err := s.machine.Reject(item, reviewer, feedback, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.UpdateStateCAS(ctx, item, model.StatePending); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "rejected", item)
	s.log.Info().
		Str("content_id", item.ID.String()).
		Str("reviewer_id", reviewer.ID.String()).
		Msg("Content rejected")
	return item, nil
}

// Get loads a single item. Published items are readable by anyone with
// content access; anything unpublished is only visible to those allowed
// to mutate it.
func (s *ContentService) Get(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.ContentItem, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	action := authz.ActionAccessContent
	if item.State != model.StatePublished {
		action = authz.ActionEditOwnContent
	}
	decision, err := s.gate.Authorize(actor, action, item)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decisionErr(decision)
	}
	return item, nil
}

// ListOwn returns the actor's own content across all states.
func (s *ContentService) ListOwn(ctx context.Context, actor *model.Actor, page, perPage int) ([]model.ContentItem, *response.Pagination, error) {
	decision, err := s.gate.Authorize(actor, authz.ActionEditOwnContent, nil)
	if err != nil {
		return nil, nil, err
	}
	if !decision.Allowed {
		return nil, nil, decisionErr(decision)
	}

	limit, offset, pagination := paginate(page, perPage)
	items, total, err := s.store.ListByOwner(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	if items == nil {
		items = []model.ContentItem{}
	}
	fillTotals(pagination, total)
	return items, pagination, nil
}

// ListPending returns the review queue, oldest first.
func (s *ContentService) ListPending(ctx context.Context, actor *model.Actor, page, perPage int) ([]model.ContentItem, *response.Pagination, error) {
	decision, err := s.gate.Authorize(actor, authz.ActionViewReviewQueue, nil)
	if err != nil {
		return nil, nil, err
	}
	if !decision.Allowed {
		return nil, nil, decisionErr(decision)
	}

	limit, offset, pagination := paginate(page, perPage)
	items, total, err := s.store.ListPending(ctx, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	if items == nil {
		items = []model.ContentItem{}
	}
	fillTotals(pagination, total)
	return items, pagination, nil
}

// ListPublishedByTopic returns published content for a topic, served from
// the Redis cache when warm.
func (s *ContentService) ListPublishedByTopic(ctx context.Context, actor *model.Actor, topicID uuid.UUID, kind model.ContentKind) ([]model.ContentItem, error) {
	decision, err := s.gate.Authorize(actor, authz.ActionAccessContent, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decisionErr(decision)
	}

	cacheKey := config.CacheKey.TopicContentKey(topicID.String(), string(kind))
	if data, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var items []model.ContentItem
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
		// Corrupt cache entry: fall through to the database.
		s.rdb.Del(ctx, cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Cache read failed, falling back to database")
	}

	items, err := s.store.ListPublishedByTopic(ctx, topicID, kind)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.ContentItem{}
	}

	if data, err := json.Marshal(items); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, data, s.cacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Cache write failed")
		}
	}
	return items, nil
}

// authorizeMutation loads the item and runs the ownership-scoped check.
func (s *ContentService) authorizeMutation(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.ContentItem, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	decision, err := s.gate.Authorize(actor, authz.ActionEditOwnContent, item)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decisionErr(decision)
	}
	return item, nil
}

// authorizeReview loads the item and runs the review permission check.
func (s *ContentService) authorizeReview(ctx context.Context, reviewer *model.Actor, id uuid.UUID) (*model.ContentItem, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	decision, err := s.gate.Authorize(reviewer, authz.ActionReviewContent, item)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decisionErr(decision)
	}
	return item, nil
}

// publishEvent fans a review event out to admin dashboards. Event loss is
// tolerated; the queue endpoint remains the source of truth.
func (s *ContentService) publishEvent(ctx context.Context, eventType string, item *model.ContentItem) {
	event := model.ReviewEvent{
		Type:       eventType,
		ContentID:  item.ID,
		Kind:       item.Kind,
		Title:      item.Title,
		OwnerID:    item.OwnerID,
		ReviewerID: item.ReviewerID,
		OccurredAt: s.now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal review event")
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.ReviewEventsChannel(), data).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Publish review event")
	}
}

// invalidateTopicCache drops the cached published lists for a topic.
func (s *ContentService) invalidateTopicCache(ctx context.Context, topicID uuid.UUID) {
	keys := []string{config.CacheKey.TopicContentKey(topicID.String(), "")}
	for _, kind := range []model.ContentKind{model.KindNote, model.KindQuiz, model.KindPastPaper} {
		keys = append(keys, config.CacheKey.TopicContentKey(topicID.String(), string(kind)))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Cache invalidation failed")
	}
}

// IsStateConflict reports whether err is the persistence layer's lost-CAS
// signal, surfaced to callers as a 409.
func IsStateConflict(err error) bool {
	return errors.Is(err, repository.ErrStateConflict)
}
