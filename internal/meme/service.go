package meme

import (
	"context"
	"encoding/json"
	"errors"

	"backend-memepool/internal/db"
	"backend-memepool/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("meme not found")

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (Meme, error) {
	m := Meme{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Caption:   req.Caption,
		ImageURLs: req.ImageURLs,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO memes (id, user_id, caption)
		VALUES ($1,$2,$3)
		RETURNING created_at
	`, m.ID, m.UserID, m.Caption)
	if err := row.Scan(&m.CreatedAt); err != nil {
		return Meme{}, err
	}

	for i, url := range req.ImageURLs {
		_, err := s.db.Exec(ctx, `
			INSERT INTO meme_images (id, meme_id, image_url, position)
			VALUES ($1,$2,$3,$4)
		`, uuid.NewString(), m.ID, url, i)
		if err != nil {
			return Meme{}, err
		}
	}

	if s.hub != nil {
		payload, _ := json.Marshal(map[string]any{
			"type":    "post_created",
			"meme_id": m.ID,
			"user_id": m.UserID,
		})
		s.hub.Broadcast(stream.TopicFeed, payload)
	}
	return m, nil
}

// Get returns one meme with its images, authoritative like count, and the
// viewer's membership bit. An empty viewerID always reads as not liked.
func (s *Service) Get(ctx context.Context, memeID, viewerID string) (Meme, error) {
	row := s.db.QueryRow(ctx, `
		SELECT m.id, m.user_id, u.username, m.caption, m.created_at,
		       (SELECT COUNT(*) FROM meme_likes l WHERE l.meme_id = m.id),
		       EXISTS (SELECT 1 FROM meme_likes l WHERE l.meme_id = m.id AND l.user_id = $2)
		FROM memes m JOIN users u ON u.id = m.user_id
		WHERE m.id = $1
	`, memeID, viewerID)

	var m Meme
	if err := row.Scan(&m.ID, &m.UserID, &m.Username, &m.Caption, &m.CreatedAt, &m.Likes, &m.LikedByViewer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Meme{}, ErrNotFound
		}
		return Meme{}, err
	}

	images, err := LoadImages(ctx, s.db, []string{m.ID})
	if err != nil {
		return Meme{}, err
	}
	m.ImageURLs = images[m.ID]
	return m, nil
}

func (s *Service) ListByUser(ctx context.Context, ownerID string) ([]Meme, error) {
	rows, err := s.db.Query(ctx, `
		SELECT m.id, m.user_id, m.caption, m.created_at,
		       (SELECT COUNT(*) FROM meme_likes l WHERE l.meme_id = m.id)
		FROM memes m
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC, m.id DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memes []Meme
	var ids []string
	for rows.Next() {
		var m Meme
		if err := rows.Scan(&m.ID, &m.UserID, &m.Caption, &m.CreatedAt, &m.Likes); err != nil {
			return nil, err
		}
		ids = append(ids, m.ID)
		memes = append(memes, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	images, err := LoadImages(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range memes {
		memes[i].ImageURLs = images[memes[i].ID]
	}
	return memes, nil
}

// Delete removes an owner's meme. Images and the liker set go with it in the
// same statement via ON DELETE CASCADE, so the post leaves every feed at once.
func (s *Service) Delete(ctx context.Context, memeID, ownerID string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM memes WHERE id=$1 AND user_id=$2
	`, memeID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if s.hub != nil {
		payload, _ := json.Marshal(map[string]any{
			"type":    "post_deleted",
			"meme_id": memeID,
			"user_id": ownerID,
		})
		s.hub.Broadcast(stream.TopicFeed, payload)
	}
	return nil
}

// LoadImages fetches ordered image URLs for a batch of memes in one query.
func LoadImages(ctx context.Context, q db.Querier, memeIDs []string) (map[string][]string, error) {
	if len(memeIDs) == 0 {
		return map[string][]string{}, nil
	}
	rows, err := q.Query(ctx, `
		SELECT meme_id, image_url
		FROM meme_images WHERE meme_id = ANY($1)
		ORDER BY meme_id, position
	`, memeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	images := map[string][]string{}
	for rows.Next() {
		var memeID, url string
		if err := rows.Scan(&memeID, &url); err != nil {
			return nil, err
		}
		images[memeID] = append(images[memeID], url)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}
