package feed

import (
	"context"

	"backend-memepool/internal/db"
	"backend-memepool/internal/meme"
)

const (
	DefaultPageSize = 15
	maxPageSize     = 50
)

type Options struct {
	PageSize int
	// PublicBrowsing lets anonymous viewers read the full feed. When false an
	// anonymous request yields an empty page instead of an error.
	PublicBrowsing bool
}

type Page struct {
	Memes      []meme.Meme `json:"memes"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

type Service struct {
	db   db.Querier
	opts Options
}

func NewService(db db.Querier, opts Options) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Service{db: db, opts: opts}
}

func (s *Service) FirstPage(ctx context.Context, viewerID string, size int) (Page, error) {
	return s.page(ctx, viewerID, nil, size)
}

func (s *Service) NextPage(ctx context.Context, viewerID, cursor string, size int) (Page, error) {
	cur, err := DecodeCursor(cursor)
	if err != nil {
		return Page{}, err
	}
	return s.page(ctx, viewerID, &cur, size)
}

func (s *Service) page(ctx context.Context, viewerID string, cur *Cursor, size int) (Page, error) {
	if size <= 0 {
		size = s.opts.PageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if viewerID == "" && !s.opts.PublicBrowsing {
		return Page{Memes: []meme.Meme{}}, nil
	}

	// One row past the page bound tells us hasMore without a second query.
	const baseQuery = `
		SELECT m.id, m.user_id, u.username, m.caption, m.created_at,
		       (SELECT COUNT(*) FROM meme_likes l WHERE l.meme_id = m.id),
		       EXISTS (SELECT 1 FROM meme_likes l WHERE l.meme_id = m.id AND l.user_id = $1)
		FROM memes m JOIN users u ON u.id = m.user_id
		WHERE ($1 = '' OR m.user_id <> $1)`

	var (
		query = baseQuery
		args  []any
	)
	if cur == nil {
		query += `
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $2`
		args = []any{viewerID, size + 1}
	} else {
		query += `
		  AND (m.created_at, m.id) < ($2, $3)
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $4`
		args = []any{viewerID, cur.CreatedAt, cur.ID, size + 1}
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	var memes []meme.Meme
	var ids []string
	for rows.Next() {
		var m meme.Meme
		if err := rows.Scan(&m.ID, &m.UserID, &m.Username, &m.Caption, &m.CreatedAt, &m.Likes, &m.LikedByViewer); err != nil {
			return Page{}, err
		}
		ids = append(ids, m.ID)
		memes = append(memes, m)
	}
	if err := rows.Err(); err != nil {
		return Page{}, err
	}

	page := Page{Memes: memes}
	if len(memes) > size {
		page.Memes = memes[:size]
		ids = ids[:size]
		page.HasMore = true
	}

	images, err := meme.LoadImages(ctx, s.db, ids)
	if err != nil {
		return Page{}, err
	}
	for i := range page.Memes {
		page.Memes[i].ImageURLs = images[page.Memes[i].ID]
	}

	if n := len(page.Memes); n > 0 {
		last := page.Memes[n-1]
		page.NextCursor = Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return page, nil
}
