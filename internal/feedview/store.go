package feedview

import (
	"context"
	"errors"
	"sync"

	"backend-memepool/internal/feed"
	"backend-memepool/internal/like"
)

var ErrUnknownPost = errors.New("post not in feed")

// API is the server boundary the store talks to. Client implements it over
// HTTP; tests substitute fakes.
type API interface {
	FetchPage(ctx context.Context, cursor string, size int) (feed.Page, error)
	ToggleLike(ctx context.Context, memeID string) (like.Result, error)
}

// Store holds the feed state for one viewer and applies reducer transitions
// under a single mutex. It replaces ad hoc shared mutable state: components
// read snapshots and dispatch through the methods below.
type Store struct {
	mu       sync.Mutex
	state    State
	api      API
	viewerID string
	pageSize int

	// Fetch generations order page responses. A response that arrives after a
	// newer one has already been applied is discarded, never rendered.
	nextGen  uint64
	applied  uint64
	inflight int
}

func NewStore(api API, viewerID string, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = feed.DefaultPageSize
	}
	return &Store{api: api, viewerID: viewerID, pageSize: pageSize}
}

// Snapshot returns a copy of the current state safe for rendering.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := make([]Post, len(s.state.Posts))
	copy(posts, s.state.Posts)
	return withPosts(s.state, posts)
}

// LoadFirst fetches the feed from the top, replacing current posts.
func (s *Store) LoadFirst(ctx context.Context) error {
	return s.load(ctx, true)
}

// LoadMore appends the next page. A no-op once the feed is exhausted or while
// another fetch is in flight: two appends racing on the same cursor would
// write the same page twice.
func (s *Store) LoadMore(ctx context.Context) error {
	return s.load(ctx, false)
}

func (s *Store) load(ctx context.Context, first bool) error {
	s.mu.Lock()
	if !first && (s.inflight > 0 || !s.state.HasMore) {
		s.mu.Unlock()
		return nil
	}
	cursor := ""
	if !first {
		cursor = s.state.Cursor
	}
	s.inflight++
	s.nextGen++
	gen := s.nextGen
	s.mu.Unlock()

	page, err := s.api.FetchPage(ctx, cursor, s.pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if s.applied > gen {
		// Superseded by a fetch issued later; prior state already reflects it.
		return nil
	}
	if err != nil {
		// Failed fetch leaves the visible page intact; caller may retry.
		return err
	}
	s.applied = gen
	s.state = reducePage(s.state, page, first)
	return nil
}

// ToggleLike runs the three-phase protocol for one post: predict the flip
// locally, issue the request, then reconcile with the authoritative result or
// roll back on failure. Clicks while a toggle is pending are ignored.
func (s *Store) ToggleLike(ctx context.Context, postID string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.state.Posts {
		if s.state.Posts[i].ID == postID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrUnknownPost
	}
	if s.state.Posts[idx].Pending {
		s.mu.Unlock()
		return nil
	}
	prevLiked := s.state.Posts[idx].Liked
	prevLikes := s.state.Posts[idx].Likes
	s.state = reducePredict(s.state, postID)
	s.mu.Unlock()

	res, err := s.api.ToggleLike(ctx, postID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = reduceRollback(s.state, postID, prevLiked, prevLikes)
		return err
	}
	s.state = reduceReconcile(s.state, postID, res)
	return nil
}

// ApplyNewPost handles a post_created stream event. The visibility rule runs
// client-side too: a viewer's own upload never enters their feed.
func (s *Store) ApplyNewPost(p Post) {
	if !feed.Visible(s.viewerID, p.OwnerID) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.Posts {
		if existing.ID == p.ID {
			return
		}
	}
	s.state = reduceNewPost(s.state, p)
}

// ApplyPostDeleted handles a post_deleted stream event.
func (s *Store) ApplyPostDeleted(postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduceRemovePost(s.state, postID)
}
