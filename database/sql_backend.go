package database

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLBackend menyimpan dokumen dan event log di tabel relasional lewat GORM.
// Expiry event dihitung per baris, bukan per list seperti di Redis.
type SQLBackend struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewSQLBackend(db *gorm.DB) (*SQLBackend, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &SQLBackend{DB: db, Now: time.Now}, nil
}

// Migrate membuat tabel documents dan order_events.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.DocumentRecord{}, &models.EventRecord{}); err != nil {
		utils.ErrorLogger.Errorf("Failed to AutoMigrate: %v", err)
		return err
	}
	utils.InfoLogger.Debug("AutoMigrate completed.")
	return nil
}

func (b *SQLBackend) ReadDocument(ctx context.Context, key string) ([]byte, error) {
	var rec models.DocumentRecord
	err := b.DB.WithContext(ctx).Where("doc_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if rec.ExpiresAt != nil && !b.Now().Before(*rec.ExpiresAt) {
		return nil, ErrNotFound
	}
	return []byte(rec.Value), nil
}

func (b *SQLBackend) WriteDocument(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := b.Now()
	rec := models.DocumentRecord{
		Key:       key,
		Value:     string(value),
		UpdatedAt: now,
	}
	if ttl > 0 {
		expiresAt := now.Add(ttl)
		rec.ExpiresAt = &expiresAt
	}

	return b.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&rec).Error
}

func (b *SQLBackend) PushEvent(ctx context.Context, stream string, payload []byte, limit int, ttl time.Duration) error {
	now := b.Now()

	return b.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := models.EventRecord{Stream: stream, Payload: string(payload), CreatedAt: now}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}

		if ttl > 0 {
			if err := tx.Where("stream = ? AND created_at < ?", stream, now.Add(-ttl)).
				Delete(&models.EventRecord{}).Error; err != nil {
				return err
			}
		}

		// cari entry ke-limit dari yang terbaru, semua yang lebih lama dibuang
		var cutoff models.EventRecord
		err := tx.Where("stream = ?", stream).
			Order("id desc").
			Offset(limit - 1).
			Limit(1).
			Take(&cutoff).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return tx.Where("stream = ? AND id < ?", stream, cutoff.ID).
			Delete(&models.EventRecord{}).Error
	})
}

func (b *SQLBackend) PopEvents(ctx context.Context, stream string, max int, ttl time.Duration) ([][]byte, error) {
	var records []models.EventRecord

	err := b.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("stream = ?", stream)
		if ttl > 0 {
			query = query.Where("created_at >= ?", b.Now().Add(-ttl))
		}
		if err := query.Order("id desc").Limit(max).Find(&records).Error; err != nil {
			return err
		}
		return tx.Where("stream = ?", stream).Delete(&models.EventRecord{}).Error
	})
	if err != nil {
		return nil, err
	}

	payloads := make([][]byte, 0, len(records))
	for _, rec := range records {
		payloads = append(payloads, []byte(rec.Payload))
	}
	return payloads, nil
}

func (b *SQLBackend) Close() error {
	sqlDB, err := b.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
