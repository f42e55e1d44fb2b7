package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoexpected/stemhub-backend/internal/authz"
	"github.com/anoexpected/stemhub-backend/internal/config"
	"github.com/anoexpected/stemhub-backend/internal/lifecycle"
	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/repository"
)

// fakeContentStore is an in-memory ContentStore with the same
// compare-and-swap semantics as the Postgres repository.
type fakeContentStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.ContentItem
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{items: make(map[uuid.UUID]model.ContentItem)}
}

func (f *fakeContentStore) Create(_ context.Context, item *model.ContentItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = uuid.New()
	f.items[item.ID] = *item
	return nil
}

func (f *fakeContentStore) GetByID(_ context.Context, id uuid.UUID) (*model.ContentItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := item
	return &copied, nil
}

func (f *fakeContentStore) UpdateDraft(_ context.Context, item *model.ContentItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.items[item.ID]
	if !ok || current.State != model.StateDraft {
		return repository.ErrStateConflict
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeContentStore) UpdateStateCAS(_ context.Context, item *model.ContentItem, expectedState model.ContentState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.items[item.ID]
	if !ok || current.State != expectedState {
		return repository.ErrStateConflict
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeContentStore) ListByOwner(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]model.ContentItem, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []model.ContentItem
	for _, item := range f.items {
		if item.OwnerID == ownerID {
			items = append(items, item)
		}
	}
	return items, len(items), nil
}

func (f *fakeContentStore) ListPending(_ context.Context, limit, offset int) ([]model.ContentItem, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []model.ContentItem
	for _, item := range f.items {
		if item.State == model.StatePending {
			items = append(items, item)
		}
	}
	return items, len(items), nil
}

func (f *fakeContentStore) ListPublishedByTopic(_ context.Context, topicID uuid.UUID, kind model.ContentKind) ([]model.ContentItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []model.ContentItem
	for _, item := range f.items {
		if item.TopicID != topicID || item.State != model.StatePublished {
			continue
		}
		if kind != "" && item.Kind != kind {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

type contentFixture struct {
	svc   *ContentService
	store *fakeContentStore
	mr    *miniredis.Miniredis
	rdb   *redis.Client
}

func newContentFixture(t *testing.T, cfg lifecycle.Config) *contentFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := newFakeContentStore()
	svc := NewContentService(
		store,
		authz.NewGate(authz.DefaultTable()),
		lifecycle.NewMachine(cfg),
		rdb,
		time.Minute,
		zerolog.Nop(),
	)
	return &contentFixture{svc: svc, store: store, mr: mr, rdb: rdb}
}

func contributorActor() *model.Actor {
	return &model.Actor{ID: uuid.New(), Role: model.RoleContributor}
}

func adminActor() *model.Actor {
	return &model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
}

func studentActor() *model.Actor {
	return &model.Actor{ID: uuid.New(), Role: model.RoleStudent}
}

func createRequest(topicID uuid.UUID) *model.CreateContentRequest {
	return &model.CreateContentRequest{
		Kind:    "note",
		TopicID: topicID,
		Title:   "Simultaneous Equations",
		Body:    json.RawMessage(`{"markdown":"# Elimination method"}`),
	}
}

func TestContentFullReviewFlow(t *testing.T) {
	fx := newContentFixture(t, nil)
	ctx := context.Background()
	owner := contributorActor()
	reviewer := adminActor()
	topicID := uuid.New()

	item, err := fx.svc.Create(ctx, owner, createRequest(topicID))
	require.NoError(t, err)
	assert.Equal(t, model.StateDraft, item.State)
	assert.Equal(t, owner.ID, item.OwnerID)

	// Draft edit sticks.
	updated, err := fx.svc.SaveDraft(ctx, owner, item.ID, &model.UpdateContentRequest{Title: "Simultaneous Equations II"})
	require.NoError(t, err)
	assert.Equal(t, "Simultaneous Equations II", updated.Title)

	// Submit moves it into the queue.
	submitted, err := fx.svc.Submit(ctx, owner, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatePending, submitted.State)

	// Editing a pending item is an invalid transition.
	_, err = fx.svc.SaveDraft(ctx, owner, item.ID, &model.UpdateContentRequest{Title: "too late"})
	assert.True(t, lifecycle.IsInvalidTransition(err))

	queue, _, err := fx.svc.ListPending(ctx, reviewer, 1, 10)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	published, err := fx.svc.Approve(ctx, reviewer, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatePublished, published.State)
	require.NotNil(t, published.ReviewerID)
	assert.Equal(t, reviewer.ID, *published.ReviewerID)

	// Published item readable by a student.
	got, err := fx.svc.Get(ctx, studentActor(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatePublished, got.State)
}

func TestContentRejectFlow(t *testing.T) {
	fx := newContentFixture(t, nil)
	ctx := context.Background()
	owner := contributorActor()
	reviewer := adminActor()

	item, err := fx.svc.Create(ctx, owner, createRequest(uuid.New()))
	require.NoError(t, err)
	_, err = fx.svc.Submit(ctx, owner, item.ID)
	require.NoError(t, err)

	// Feedback is mandatory.
	_, err = fx.svc.Reject(ctx, reviewer, item.ID, "   ")
	assert.ErrorIs(t, err, lifecycle.ErrFeedbackRequired)

	rejected, err := fx.svc.Reject(ctx, reviewer, item.ID, "sources missing")
	require.NoError(t, err)
	assert.Equal(t, model.StateRejected, rejected.State)
	require.NotNil(t, rejected.Feedback)
	assert.Equal(t, "sources missing", *rejected.Feedback)

	// Rejected is terminal: no resubmission.
	_, err = fx.svc.Submit(ctx, owner, item.ID)
	assert.True(t, lifecycle.IsInvalidTransition(err))
}

func TestContentAuthorization(t *testing.T) {
	fx := newContentFixture(t, nil)
	ctx := context.Background()
	owner := contributorActor()

	item, err := fx.svc.Create(ctx, owner, createRequest(uuid.New()))
	require.NoError(t, err)

	// Students cannot create.
	_, err = fx.svc.Create(ctx, studentActor(), createRequest(uuid.New()))
	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, authz.ReasonInsufficientRole, forbidden.Reason)

	// Unauthenticated callers are distinguished from forbidden ones.
	_, err = fx.svc.Create(ctx, nil, createRequest(uuid.New()))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Another contributor cannot edit someone else's draft.
	_, err = fx.svc.SaveDraft(ctx, contributorActor(), item.ID, &model.UpdateContentRequest{Title: "hijack"})
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, authz.ReasonNotOwner, forbidden.Reason)

	// Contributors cannot review, even their own submissions.
	_, err = fx.svc.Submit(ctx, owner, item.ID)
	require.NoError(t, err)
	_, err = fx.svc.Approve(ctx, owner, item.ID)
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, authz.ReasonInsufficientRole, forbidden.Reason)

	// An actor with a corrupted role record is a hard error.
	badActor := &model.Actor{ID: uuid.New(), Role: model.Role("owner")}
	_, err = fx.svc.Create(ctx, badActor, createRequest(uuid.New()))
	var unknownRole *model.UnknownRoleError
	assert.ErrorAs(t, err, &unknownRole)

	// Drafts are invisible to non-owners.
	draft, err := fx.svc.Create(ctx, owner, createRequest(uuid.New()))
	require.NoError(t, err)
	_, err = fx.svc.Get(ctx, studentActor(), draft.ID)
	require.ErrorAs(t, err, &forbidden)
}

// Two reviewers decide the same pending item concurrently: exactly one
// decision commits, the other loses the compare-and-swap and surfaces a
// state conflict.
func TestConcurrentReviewDecisions(t *testing.T) {
	fx := newContentFixture(t, nil)
	ctx := context.Background()
	owner := contributorActor()

	item, err := fx.svc.Create(ctx, owner, createRequest(uuid.New()))
	require.NoError(t, err)
	_, err = fx.svc.Submit(ctx, owner, item.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = fx.svc.Approve(ctx, adminActor(), item.ID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = fx.svc.Reject(ctx, adminActor(), item.ID, "duplicate of existing note")
	}()
	wg.Wait()

	conflicts := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		if IsStateConflict(err) || lifecycle.IsInvalidTransition(err) {
			conflicts++
			continue
		}
		t.Fatalf("unexpected error: %v", err)
	}
	require.Equal(t, 1, conflicts, "exactly one decision must lose")

	// The winner's outcome is whatever got persisted; it must be terminal.
	final, err := fx.store.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Contains(t, []model.ContentState{model.StatePublished, model.StateRejected}, final.State)
	require.NotNil(t, final.ReviewerID)
}

func TestAutoPublishKindSkipsReview(t *testing.T) {
	fx := newContentFixture(t, lifecycle.Config{
		model.KindNote: {AutoPublish: true},
	})
	ctx := context.Background()

	item, err := fx.svc.Create(ctx, contributorActor(), createRequest(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, model.StatePublished, item.State)
	assert.Nil(t, item.ReviewerID)
	require.NotNil(t, item.PublishedAt)

	// Immediately visible under its topic without any review step.
	items, err := fx.svc.ListPublishedByTopic(ctx, studentActor(), item.TopicID, model.KindNote)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestListPublishedByTopicUsesCache(t *testing.T) {
	fx := newContentFixture(t, nil)
	ctx := context.Background()
	owner := contributorActor()
	reviewer := adminActor()
	topicID := uuid.New()

	item, err := fx.svc.Create(ctx, owner, createRequest(topicID))
	require.NoError(t, err)
	_, err = fx.svc.Submit(ctx, owner, item.ID)
	require.NoError(t, err)
	_, err = fx.svc.Approve(ctx, reviewer, item.ID)
	require.NoError(t, err)

	reader := studentActor()

	// First read populates the cache.
	items, err := fx.svc.ListPublishedByTopic(ctx, reader, topicID, "")
	require.NoError(t, err)
	require.Len(t, items, 1)

	cacheKey := config.CacheKey.TopicContentKey(topicID.String(), "")
	assert.True(t, fx.mr.Exists(cacheKey))

	// Second read is served from the cache even if the store is emptied.
	fx.store.mu.Lock()
	fx.store.items = map[uuid.UUID]model.ContentItem{}
	fx.store.mu.Unlock()

	items, err = fx.svc.ListPublishedByTopic(ctx, reader, topicID, "")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// A corrupt cache entry falls back to the database.
	fx.mr.Set(cacheKey, "{not json")
	items, err = fx.svc.ListPublishedByTopic(ctx, reader, topicID, "")
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestApproveInvalidatesTopicCache(t *testing.T) {
	fx := newContentFixture(t, nil)
	ctx := context.Background()
	owner := contributorActor()
	reviewer := adminActor()
	topicID := uuid.New()

	first, err := fx.svc.Create(ctx, owner, createRequest(topicID))
	require.NoError(t, err)
	_, err = fx.svc.Submit(ctx, owner, first.ID)
	require.NoError(t, err)
	_, err = fx.svc.Approve(ctx, reviewer, first.ID)
	require.NoError(t, err)

	reader := studentActor()
	items, err := fx.svc.ListPublishedByTopic(ctx, reader, topicID, "")
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Publishing a second item must drop the stale cached list.
	second, err := fx.svc.Create(ctx, owner, createRequest(topicID))
	require.NoError(t, err)
	_, err = fx.svc.Submit(ctx, owner, second.ID)
	require.NoError(t, err)
	_, err = fx.svc.Approve(ctx, reviewer, second.ID)
	require.NoError(t, err)

	items, err = fx.svc.ListPublishedByTopic(ctx, reader, topicID, "")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestSubmitPublishesReviewEvent(t *testing.T) {
	fx := newContentFixture(t, nil)
	ctx := context.Background()
	owner := contributorActor()

	sub := fx.rdb.Subscribe(ctx, config.CacheKey.ReviewEventsChannel())
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	ch := sub.Channel()

	item, err := fx.svc.Create(ctx, owner, createRequest(uuid.New()))
	require.NoError(t, err)
	_, err = fx.svc.Submit(ctx, owner, item.ID)
	require.NoError(t, err)

	select {
	case msg := <-ch:
		var event model.ReviewEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, "submitted", event.Type)
		assert.Equal(t, item.ID, event.ContentID)
		assert.Equal(t, owner.ID, event.OwnerID)
	case <-time.After(2 * time.Second):
		t.Fatal("no review event received")
	}
}
