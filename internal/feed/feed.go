package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/friendsnet/backend/internal/metrics"
	"github.com/friendsnet/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Candidate-set priorities. Lower wins during merge and dedup: content from
// the social graph always outranks engagement-ranked and trending content.
const (
	priorityFollowing     = 1
	priorityMostLiked     = 2
	priorityMostCommented = 3
	priorityTrending      = 4
)

// PostStore is the slice of the post repository the feed aggregation reads.
// All methods must be safe for concurrent use.
type PostStore interface {
	GetByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.FeedPost, error)
	GetMostLiked(ctx context.Context) ([]models.FeedPost, error)
	GetMostCommented(ctx context.Context) ([]models.FeedPost, error)
	GetTagCounts(ctx context.Context) ([]models.TagCount, error)
	GetByTags(ctx context.Context, tags []string) ([]models.FeedPost, error)
}

// TagCache caches the trending-tag list between feed builds. Implemented by
// cache.RedisClient; nil disables caching.
type TagCache interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Options are the feed aggregation knobs
type Options struct {
	PageSizeMax      int           // pagination ceiling, requested limits are clamped
	TrendingMinUses  int           // a tag must appear on at least this many posts to trend
	TrendingTopTags  int           // how many trending tags feed the trending retriever
	RetrieverTimeout time.Duration // covers all four candidate queries of one build
	TrendingCacheTTL time.Duration // 0 disables the tag cache
}

// DefaultOptions mirrors the reference behavior
func DefaultOptions() Options {
	return Options{
		PageSizeMax:      10,
		TrendingMinUses:  5,
		TrendingTopTags:  10,
		RetrieverTimeout: 5 * time.Second,
		TrendingCacheTTL: 30 * time.Second,
	}
}

// Pagination describes the returned page
type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	PageSize        int  `json:"pageSize"`
	TotalPosts      int  `json:"totalPosts"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Categories holds the pre-dedup candidate set sizes, so clients can show
// per-source totals even though the final page mixes and dedups them.
type Categories struct {
	Following     int `json:"following"`
	MostLiked     int `json:"mostLiked"`
	MostCommented int `json:"mostCommented"`
	Trending      int `json:"trending"`
}

// Result is one built feed page
type Result struct {
	Feed       []models.FeedPost `json:"feed"`
	Pagination Pagination        `json:"pagination"`
	Categories Categories        `json:"categories"`
}

// PageOutOfRangeError reports a requested page past the last one. It is a
// client error, not an empty page.
type PageOutOfRangeError struct {
	Page    int
	MaxPage int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("Page %d does not exist. Maximum page is %d", e.Page, e.MaxPage)
}

// Service builds aggregated feeds from the four candidate sets
type Service struct {
	store PostStore
	tags  TagCache
	opts  Options
}

// NewService creates a feed service. tagCache may be nil.
func NewService(store PostStore, tagCache TagCache, opts Options) *Service {
	if opts.PageSizeMax <= 0 {
		opts.PageSizeMax = 10
	}
	if opts.TrendingMinUses <= 0 {
		opts.TrendingMinUses = 5
	}
	if opts.TrendingTopTags <= 0 {
		opts.TrendingTopTags = 10
	}
	if opts.RetrieverTimeout <= 0 {
		opts.RetrieverTimeout = 5 * time.Second
	}
	return &Service{store: store, tags: tagCache, opts: opts}
}

// candidate is a post annotated with its source priority for the merge
type candidate struct {
	post     models.FeedPost
	priority int
}

// Build assembles one feed page for the user: the four candidate sets are
// fetched concurrently, merged in priority order, deduplicated (first
// occurrence in priority order wins) and paginated. Any retriever failure
// aborts the whole build; a partial feed would skew both placement and the
// category counts.
func (s *Service) Build(ctx context.Context, userID primitive.ObjectID, following []primitive.ObjectID, page, limit int) (*Result, error) {
	start := time.Now()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > s.opts.PageSizeMax {
		limit = s.opts.PageSizeMax
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.RetrieverTimeout)
	defer cancel()

	// Own posts belong in the following feed
	authors := make([]primitive.ObjectID, 0, len(following)+1)
	authors = append(authors, following...)
	authors = append(authors, userID)

	type sourceResult struct {
		priority int
		source   string
		posts    []models.FeedPost
		err      error
	}

	results := make(chan sourceResult, 4)

	go func() {
		posts, err := s.store.GetByAuthors(ctx, authors)
		results <- sourceResult{priorityFollowing, "following", posts, err}
	}()
	go func() {
		posts, err := s.store.GetMostLiked(ctx)
		results <- sourceResult{priorityMostLiked, "most_liked", posts, err}
	}()
	go func() {
		posts, err := s.store.GetMostCommented(ctx)
		results <- sourceResult{priorityMostCommented, "most_commented", posts, err}
	}()
	go func() {
		posts, err := s.trendingPosts(ctx)
		results <- sourceResult{priorityTrending, "trending", posts, err}
	}()

	var sets [4][]models.FeedPost
	var firstErr error
	for i := 0; i < 4; i++ {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s retriever: %w", res.source, res.err)
				cancel() // stop the remaining retrievers, the build is lost
			}
			continue
		}
		sets[res.priority-1] = res.posts
	}
	if firstErr != nil {
		metrics.RecordFeedGeneration("error", time.Since(start).Seconds())
		return nil, firstErr
	}

	categories := Categories{
		Following:     len(sets[priorityFollowing-1]),
		MostLiked:     len(sets[priorityMostLiked-1]),
		MostCommented: len(sets[priorityMostCommented-1]),
		Trending:      len(sets[priorityTrending-1]),
	}
	metrics.RecordFeedCandidates("following", categories.Following)
	metrics.RecordFeedCandidates("most_liked", categories.MostLiked)
	metrics.RecordFeedCandidates("most_commented", categories.MostCommented)
	metrics.RecordFeedCandidates("trending", categories.Trending)

	combined := dedupe(merge(sets))

	pageSlice, pagination, err := paginate(combined, page, limit)
	if err != nil {
		metrics.RecordFeedGeneration("page_out_of_range", time.Since(start).Seconds())
		return nil, err
	}

	metrics.RecordFeedGeneration("ok", time.Since(start).Seconds())

	return &Result{
		Feed:       pageSlice,
		Pagination: pagination,
		Categories: categories,
	}, nil
}

// merge concatenates the candidate sets in priority order and stable-sorts by
// (priority asc, createdAt desc). The stable sort preserves each retriever's
// deterministic tie order.
func merge(sets [4][]models.FeedPost) []candidate {
	total := 0
	for _, set := range sets {
		total += len(set)
	}

	all := make([]candidate, 0, total)
	for i, set := range sets {
		for _, post := range set {
			all = append(all, candidate{post: post, priority: i + 1})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].priority != all[j].priority {
			return all[i].priority < all[j].priority
		}
		return all[i].post.CreatedAt.After(all[j].post.CreatedAt)
	})

	return all
}

// dedupe keeps the first occurrence of each post in the merged sequence, so a
// post in several candidate sets lands at its highest-priority placement.
func dedupe(all []candidate) []models.FeedPost {
	seen := make(map[primitive.ObjectID]struct{}, len(all))
	out := make([]models.FeedPost, 0, len(all))
	for _, c := range all {
		if _, ok := seen[c.post.ID]; ok {
			continue
		}
		seen[c.post.ID] = struct{}{}
		out = append(out, c.post)
	}
	return out
}

// paginate slices one page out of the deduplicated feed. A page past the end
// of a non-empty feed is an explicit error; an empty feed yields an empty
// page for any requested page number.
func paginate(posts []models.FeedPost, page, limit int) ([]models.FeedPost, Pagination, error) {
	totalPosts := len(posts)
	totalPages := (totalPosts + limit - 1) / limit

	if totalPosts > 0 && page > totalPages {
		return nil, Pagination{}, &PageOutOfRangeError{Page: page, MaxPage: totalPages}
	}

	skip := (page - 1) * limit
	if skip > totalPosts {
		skip = totalPosts
	}
	end := skip + limit
	if end > totalPosts {
		end = totalPosts
	}

	return posts[skip:end], Pagination{
		CurrentPage:     page,
		PageSize:        limit,
		TotalPosts:      totalPosts,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}, nil
}
