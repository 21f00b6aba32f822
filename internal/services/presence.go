package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"littlesteps-backend/internal/models"
	"littlesteps-backend/internal/repository"
)

// PresenceService derives the "recently active learners" dashboard from a
// bounded window of raw sessions. A learner whose only qualifying session
// falls outside the window is silently omitted; that staleness is the
// accepted price of a single O(window) scan instead of a query per learner.
type PresenceService struct {
	sessions *repository.SessionRepo
	learners *repository.LearnerRepo
	cache    *redis.Client
	window   int
	cacheTTL time.Duration
}

func NewPresenceService(sessions *repository.SessionRepo, learners *repository.LearnerRepo, cache *redis.Client, window int, cacheTTL time.Duration) *PresenceService {
	if window <= 0 {
		window = 500
	}
	return &PresenceService{
		sessions: sessions,
		learners: learners,
		cache:    cache,
		window:   window,
		cacheTTL: cacheTTL,
	}
}

// RecentlyActive returns up to limit learners ordered by most recent
// activity, open sessions first by start time, closed ones by end time.
// Results are served from a short-TTL cache when available; cache failures
// fall through to the store.
func (s *PresenceService) RecentlyActive(ctx context.Context, limit int) ([]*models.ActiveLearner, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("presence:recent:%d", limit)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var result []*models.ActiveLearner
			if json.Unmarshal(cached, &result) == nil {
				return result, nil
			}
		}
	}

	window, err := s.sessions.RecentWindow(ctx, s.window)
	if err != nil {
		return nil, err
	}

	latest := ReduceLatestPerLearner(window)
	if len(latest) > limit {
		latest = latest[:limit]
	}

	ids := make([]uuid.UUID, len(latest))
	for i, sess := range latest {
		ids[i] = sess.LearnerID
	}

	profiles := map[uuid.UUID]*models.Learner{}
	if len(ids) > 0 {
		profiles, err = s.learners.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	result := make([]*models.ActiveLearner, 0, len(latest))
	for _, sess := range latest {
		profile, ok := profiles[sess.LearnerID]
		if !ok {
			// Orphaned session rows are a data inconsistency, not a
			// caller-visible error.
			continue
		}
		result = append(result, buildActiveLearner(sess, profile, now))
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(result); err == nil {
			s.cache.Set(ctx, cacheKey, encoded, s.cacheTTL)
		}
	}

	return result, nil
}

// PresenceKey is the per-session comparison instant: start time while open,
// end time once closed, start time again if a closed row somehow lost its
// end timestamp.
func PresenceKey(s *models.AppSession) time.Time {
	if s.Status == models.SessionActive {
		return s.StartedAt
	}
	if s.EndedAt != nil {
		return *s.EndedAt
	}
	return s.StartedAt
}

// ReduceLatestPerLearner keeps the session with the latest presence key per
// learner and returns them sorted by that key, newest first.
func ReduceLatestPerLearner(sessions []*models.AppSession) []*models.AppSession {
	latest := make(map[uuid.UUID]*models.AppSession)
	for _, s := range sessions {
		current, ok := latest[s.LearnerID]
		if !ok || PresenceKey(s).After(PresenceKey(current)) {
			latest[s.LearnerID] = s
		}
	}

	reduced := make([]*models.AppSession, 0, len(latest))
	for _, s := range latest {
		reduced = append(reduced, s)
	}
	sort.Slice(reduced, func(i, j int) bool {
		return PresenceKey(reduced[i]).After(PresenceKey(reduced[j]))
	})
	return reduced
}

func buildActiveLearner(sess *models.AppSession, profile *models.Learner, now time.Time) *models.ActiveLearner {
	key := PresenceKey(sess)
	elapsed := int(now.Sub(key).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}

	return &models.ActiveLearner{
		LearnerID:        profile.ID,
		FullName:         profile.FullName,
		AvatarURL:        profile.AvatarURL,
		IsActive:         sess.Status == models.SessionActive,
		LastSeenAt:       key,
		ElapsedSeconds:   elapsed,
		ElapsedMinutes:   elapsed / 60,
		ElapsedHours:     elapsed / 3600,
		RemainderMinutes: (elapsed % 3600) / 60,
	}
}
