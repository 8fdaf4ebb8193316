package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/food-order-app/database"
	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/utils"
)

// DocumentStore membaca dan menulis seluruh dokumen order sebagai satu nilai JSON.
type DocumentStore struct {
	Backend database.Backend
	Key     string
	TTL     time.Duration
}

func NewDocumentStore(backend database.Backend, key string, ttl time.Duration) *DocumentStore {
	return &DocumentStore{Backend: backend, Key: key, TTL: ttl}
}

// Load never fails. An absent or malformed document is replaced by defaults and
// persisted; a read error yields defaults without writing anything back.
func (s *DocumentStore) Load(ctx context.Context) models.Document {
	raw, err := s.Backend.ReadDocument(ctx, s.Key)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		utils.ErrorLogger.WithFields(logrus.Fields{"key": s.Key, "op": "load"}).
			Errorf("read failed, using defaults: %v", err)
		return models.NewDocument()
	}

	if err == nil {
		if doc, ok := models.DecodeDocument(raw); ok {
			return doc
		}
		utils.ErrorLogger.WithField("key", s.Key).Error("stored document is malformed, resetting")
	}

	doc := models.NewDocument()
	if err := s.Save(ctx, doc); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{"key": s.Key, "op": "init"}).Error(err)
	}
	return doc
}

// Save overwrites the stored document (last write wins).
func (s *DocumentStore) Save(ctx context.Context, doc models.Document) error {
	if doc.Orders == nil {
		doc.Orders = []models.Order{}
	}
	if doc.CompletedOrders == nil {
		doc.CompletedOrders = []models.Order{}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", ErrUpstream, err)
	}
	if err := s.Backend.WriteDocument(ctx, s.Key, data, s.TTL); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}
