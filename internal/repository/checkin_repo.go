package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/model"

	"gorm.io/gorm"
)

type CheckinRepository interface {
	Create(ctx context.Context, rec *model.CheckinRecord) error
	FindByID(ctx context.Context, id string) (*model.CheckinRecord, error)
	RecentByUser(ctx context.Context, userID string, limit int) ([]model.CheckinRecord, error)
	ByUserSince(ctx context.Context, userID string, since time.Time) ([]model.CheckinRecord, error)
	LatestByUser(ctx context.Context, userID string) (*model.CheckinRecord, error)
	LatestOfTypeSince(ctx context.Context, userID string, typ model.CheckinType, since time.Time) (*model.CheckinRecord, error)
	AllSince(ctx context.Context, since time.Time) ([]model.CheckinRecord, error)
	EditTimestamp(ctx context.Context, recordID string, newTS time.Time, editorID string) (*model.CheckinRecord, error)
	Delete(ctx context.Context, recordID string) (int64, error)
}

type checkinRepo struct{ db *gorm.DB }

func NewCheckinRepository(db *gorm.DB) CheckinRepository { return &checkinRepo{db: db} }

func (r *checkinRepo) Create(ctx context.Context, rec *model.CheckinRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *checkinRepo) FindByID(ctx context.Context, id string) (*model.CheckinRecord, error) {
	var rec model.CheckinRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *checkinRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]model.CheckinRecord, error) {
	var recs []model.CheckinRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp desc").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

func (r *checkinRepo) ByUserSince(ctx context.Context, userID string, since time.Time) ([]model.CheckinRecord, error) {
	var recs []model.CheckinRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp asc").
		Find(&recs).Error
	return recs, err
}

func (r *checkinRepo) LatestByUser(ctx context.Context, userID string) (*model.CheckinRecord, error) {
	var rec model.CheckinRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp desc").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *checkinRepo) LatestOfTypeSince(ctx context.Context, userID string, typ model.CheckinType, since time.Time) (*model.CheckinRecord, error) {
	var rec model.CheckinRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND timestamp >= ?", userID, typ, since).
		Order("timestamp desc").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *checkinRepo) AllSince(ctx context.Context, since time.Time) ([]model.CheckinRecord, error) {
	var recs []model.CheckinRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("timestamp >= ?", since).
		Order("timestamp asc").
		Find(&recs).Error
	return recs, err
}

// EditTimestamp moves a record's timestamp and stamps the editor. The
// original timestamp is preserved only on the first edit; subsequent edits
// keep the earliest value intact.
func (r *checkinRepo) EditTimestamp(ctx context.Context, recordID string, newTS time.Time, editorID string) (*model.CheckinRecord, error) {
	var rec model.CheckinRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ?", recordID).Error; err != nil {
			return err
		}
		updates := map[string]any{
			"timestamp": newTS,
			"edited_by": editorID,
			"edited_at": time.Now(),
		}
		if rec.OriginalTimestamp == nil {
			updates["original_timestamp"] = rec.Timestamp
		}
		if err := tx.Model(&rec).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&rec, "id = ?", recordID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *checkinRepo) Delete(ctx context.Context, recordID string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.CheckinRecord{}, "id = ?", recordID)
	return res.RowsAffected, res.Error
}
