package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reviewer identity and feedback only exist after review; before that they
// must serialize as absent, not as zero values.
func TestContentItemNullableReviewFields(t *testing.T) {
	draft := ContentItem{
		ID:      uuid.New(),
		Kind:    KindQuiz,
		OwnerID: uuid.New(),
		TopicID: uuid.New(),
		Title:   "Stoichiometry Basics",
		Body:    json.RawMessage(`{"questions":[]}`),
		State:   StateDraft,
	}

	data, err := json.Marshal(draft)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "reviewer_id")
	assert.NotContains(t, string(data), "feedback")
	assert.NotContains(t, string(data), "published_at")

	var back ContentItem
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Nil(t, back.ReviewerID)
	assert.Nil(t, back.Feedback)
	assert.Equal(t, draft.Title, back.Title)

	reviewerID := uuid.New()
	feedback := "cite the data booklet values"
	now := time.Now().UTC().Truncate(time.Second)
	rejected := draft
	rejected.State = StateRejected
	rejected.ReviewerID = &reviewerID
	rejected.Feedback = &feedback
	rejected.ReviewedAt = &now

	data, err = json.Marshal(rejected)
	require.NoError(t, err)

	var back2 ContentItem
	require.NoError(t, json.Unmarshal(data, &back2))
	require.NotNil(t, back2.ReviewerID)
	assert.Equal(t, reviewerID, *back2.ReviewerID)
	require.NotNil(t, back2.Feedback)
	assert.Equal(t, feedback, *back2.Feedback)
	require.NotNil(t, back2.ReviewedAt)
	assert.True(t, now.Equal(*back2.ReviewedAt))
}
