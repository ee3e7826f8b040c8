package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultHistoryLimit is the page size used when no limit is requested.
const DefaultHistoryLimit = 50

// InsertScore appends a row to the user's history, assigning an ID if needed.
func (d *Database) InsertScore(ctx context.Context, score *IdeaScore) error {
	if score == nil {
		return errors.New("score is nil")
	}
	score.UserID = strings.TrimSpace(score.UserID)
	if score.UserID == "" {
		return errors.New("score has no user")
	}
	if score.ID == "" {
		score.ID = uuid.NewString()
	}
	unlock := d.lockWrites()
	defer unlock()
	return d.gorm.WithContext(ctx).Create(score).Error
}

// LatestScore returns the most recent score_out_of_10 for the user, or nil.
func (d *Database) LatestScore(ctx context.Context, userID string) (*int, error) {
	var row IdeaScore
	err := d.gorm.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	score := row.ScoreOutOf10
	return &score, nil
}

// ListScores returns the user's history newest first along with the total count.
func (d *Database) ListScores(ctx context.Context, userID string, limit int) ([]IdeaScore, int64, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	base := d.gorm.WithContext(ctx).Model(&IdeaScore{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []IdeaScore
	if err := base.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// DeleteScore removes one of the user's rows. Rows owned by someone else are
// reported as gorm.ErrRecordNotFound.
func (d *Database) DeleteScore(ctx context.Context, userID, id string) error {
	unlock := d.lockWrites()
	defer unlock()
	res := d.gorm.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&IdeaScore{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearScores deletes the user's whole history and reports how many rows went.
func (d *Database) ClearScores(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, errors.New("user id is empty")
	}
	unlock := d.lockWrites()
	defer unlock()
	res := d.gorm.WithContext(ctx).Where("user_id = ?", userID).Delete(&IdeaScore{})
	return res.RowsAffected, res.Error
}
