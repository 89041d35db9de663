package feed

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/friendsnet/backend/internal/cache"
	"github.com/friendsnet/backend/internal/logger"
	"github.com/friendsnet/backend/internal/metrics"
	"github.com/friendsnet/backend/internal/models"
	"go.uber.org/zap"
)

const trendingTagsKey = "feed:trending_tags"

// trendingPosts is the fourth retriever: qualifying tags first, then the
// posts carrying them, newest first. No qualifying tags is a normal outcome
// (cold corpus) and yields an empty set without touching the post store.
func (s *Service) trendingPosts(ctx context.Context) ([]models.FeedPost, error) {
	tags, err := s.trendingTags(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return []models.FeedPost{}, nil
	}
	return s.store.GetByTags(ctx, tags)
}

// trendingTags returns the current trending-tag list, served from the cache
// when fresh. Cache failures degrade to a direct recomputation; trending is
// eventually consistent with the corpus by design.
func (s *Service) trendingTags(ctx context.Context) ([]string, error) {
	cached := s.tags != nil && s.opts.TrendingCacheTTL > 0

	if cached {
		raw, err := s.tags.Get(ctx, trendingTagsKey)
		if err == nil {
			var tags []string
			if jsonErr := json.Unmarshal([]byte(raw), &tags); jsonErr == nil {
				metrics.RecordCacheHit("trending_tags")
				return tags, nil
			}
		} else if !cache.IsMiss(err) && logger.Log != nil {
			logger.Log.Warn("trending tag cache read failed", zap.Error(err))
		}
		metrics.RecordCacheMiss("trending_tags")
	}

	counts, err := s.store.GetTagCounts(ctx)
	if err != nil {
		return nil, err
	}

	tags := selectTrending(counts, s.opts.TrendingMinUses, s.opts.TrendingTopTags)

	if cached {
		if raw, err := json.Marshal(tags); err == nil {
			if err := s.tags.SetEx(ctx, trendingTagsKey, raw, s.opts.TrendingCacheTTL); err != nil && logger.Log != nil {
				logger.Log.Warn("trending tag cache write failed", zap.Error(err))
			}
		}
	}

	return tags, nil
}

// selectTrending filters tag counts to those with at least minUses uses,
// ranks by count descending (tag ascending on ties, for determinism) and
// keeps the top topK.
func selectTrending(counts []models.TagCount, minUses, topK int) []string {
	qualified := make([]models.TagCount, 0, len(counts))
	for _, tc := range counts {
		if tc.Count >= minUses {
			qualified = append(qualified, tc)
		}
	}

	sort.Slice(qualified, func(i, j int) bool {
		if qualified[i].Count != qualified[j].Count {
			return qualified[i].Count > qualified[j].Count
		}
		return qualified[i].Tag < qualified[j].Tag
	})

	if len(qualified) > topK {
		qualified = qualified[:topK]
	}

	tags := make([]string, len(qualified))
	for i, tc := range qualified {
		tags[i] = tc.Tag
	}
	return tags
}
