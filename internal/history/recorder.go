package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"

	"feedkit/internal/core"
)

type SeenItem struct {
	ID             string `gorm:"primaryKey"`
	Kind           string
	AuthorID       string
	AuthorUsername string
	CommunityID    string
	Content        string

	SeenAt time.Time
}

func (SeenItem) TableName() string {
	return "seen_items"
}

type Recorder struct {
	Logger *slog.Logger
	DB     core.DB
}

func (r *Recorder) Init(context.Context) error {
	r.Logger = r.Logger.With("component", "history.Recorder")
	return nil
}

// RecordPosts stores posts the viewer rendered. Re-seeing an item is not an
// error.
func (r *Recorder) RecordPosts(_ context.Context, posts ...core.Post) error {
	if len(posts) == 0 {
		return nil
	}

	now := time.Now()
	items := lo.Map(posts, func(p core.Post, _ int) SeenItem {
		return SeenItem{
			ID:             p.ID,
			Kind:           "post",
			AuthorID:       p.Author.ID,
			AuthorUsername: p.Author.Username,
			CommunityID:    p.CommunityID,
			Content:        p.Content,
			SeenAt:         now,
		}
	})

	return r.DB.Model(&SeenItem{}).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&items).Error
}

// Recent returns the newest seen items, most recent first.
func (r *Recorder) Recent(_ context.Context, limit int) ([]SeenItem, error) {
	if limit <= 0 {
		limit = 20
	}

	var items []SeenItem
	err := r.DB.Model(&SeenItem{}).
		Order("seen_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
