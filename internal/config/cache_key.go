package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the cache key for a user's active session.
func (r *CacheKeyStruct) SessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

// TopicContentKey returns the cache key for a topic's published content list.
func (r *CacheKeyStruct) TopicContentKey(topicID string, kind string) string {
	if kind == "" {
		return fmt.Sprintf("topic:%s:content", topicID)
	}
	return fmt.Sprintf("topic:%s:content:%s", topicID, kind)
}

// ReviewReminderKey returns the dedup key for a stale-review reminder.
func (r *CacheKeyStruct) ReviewReminderKey(contentID string) string {
	return fmt.Sprintf("review:reminder:%s", contentID)
}

// ReviewEventsChannel returns the Redis PubSub channel for review events.
func (r *CacheKeyStruct) ReviewEventsChannel() string {
	return "review:events"
}

var CacheKey = NewCacheKeyStruct()
