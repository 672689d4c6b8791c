package like

import (
	"context"
	"encoding/json"
	"errors"

	"backend-memepool/internal/db"
	"backend-memepool/internal/stream"

	"github.com/jackc/pgx/v5"
)

var (
	ErrSelfLike = errors.New("cannot like your own meme")
	ErrNotFound = errors.New("meme not found")
	ErrConflict = errors.New("like state changed concurrently")
)

// maxToggleAttempts bounds internal retries when a concurrent toggle on the
// same (meme, viewer) pair races the membership flip.
const maxToggleAttempts = 3

// Result is the authoritative state after a toggle. Count always equals the
// size of the liker set at the time of the read.
type Result struct {
	Liked bool `json:"liked"`
	Count int  `json:"likes"`
}

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

// Toggle flips viewerID's membership in the meme's liker set. Each call is a
// pure toggle: liked becomes unliked and vice versa. Rapid double-submits are
// the client's problem; the engine only guarantees the flip it was asked for.
func (s *Service) Toggle(ctx context.Context, memeID, viewerID string) (Result, error) {
	var ownerID string
	err := s.db.QueryRow(ctx, `
		SELECT user_id FROM memes WHERE id=$1
	`, memeID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Result{}, ErrNotFound
	}
	if err != nil {
		return Result{}, err
	}
	if ownerID == viewerID {
		return Result{}, ErrSelfLike
	}

	var res Result
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		res, err = s.toggleOnce(ctx, memeID, viewerID)
		if !errors.Is(err, ErrConflict) {
			break
		}
	}
	if err != nil {
		return Result{}, err
	}

	if s.hub != nil {
		payload, _ := json.Marshal(map[string]any{
			"type":    "like_updated",
			"meme_id": memeID,
			"user_id": viewerID,
			"liked":   res.Liked,
			"likes":   res.Count,
		})
		s.hub.Broadcast(stream.TopicFeed, payload)
	}
	return res, nil
}

// toggleOnce applies the flip with row-level set operations. There is no
// read-modify-write of a likes document: concurrent toggles by different
// viewers land on different rows and both survive.
func (s *Service) toggleOnce(ctx context.Context, memeID, viewerID string) (Result, error) {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM meme_likes WHERE meme_id=$1 AND user_id=$2
	`, memeID, viewerID)
	if err != nil {
		return Result{}, err
	}

	liked := false
	if tag.RowsAffected() == 0 {
		ins, err := s.db.Exec(ctx, `
			INSERT INTO meme_likes (meme_id, user_id)
			VALUES ($1,$2)
			ON CONFLICT DO NOTHING
		`, memeID, viewerID)
		if err != nil {
			return Result{}, err
		}
		if ins.RowsAffected() == 0 {
			// A concurrent toggle inserted between our delete and insert.
			return Result{}, ErrConflict
		}
		liked = true
	}

	var count int
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM meme_likes WHERE meme_id=$1
	`, memeID).Scan(&count)
	if err != nil {
		return Result{}, err
	}
	return Result{Liked: liked, Count: count}, nil
}
