// internal/services/event_service.go
package services

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/badge-backend/internal/models"
	"github.com/javajoker/badge-backend/internal/utils"
)

// EventService records the indexer-facing event log and mirrors each event
// to the structured log.
type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// RecordBadgeMinted emits the badge-minted event for both mint paths; the
// event shape is identical whether the badge is the root or a derivative.
func (s *EventService) RecordBadgeMinted(tx *gorm.DB, recipient string, tokenID int64, assetID uuid.UUID, root bool) (*models.BadgeEvent, error) {
	event := &models.BadgeEvent{
		EventType: models.EventTypeBadgeMinted,
		TokenID:   &tokenID,
		AssetID:   &assetID,
		Recipient: recipient,
		Topics: pq.StringArray{
			string(models.EventTypeBadgeMinted),
			recipient,
			strconv.FormatInt(tokenID, 10),
			assetID.String(),
		},
		Payload: models.JSONB{
			"recipient": recipient,
			"token_id":  tokenID,
			"asset_id":  assetID.String(),
			"root":      root,
		},
	}

	if err := tx.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to record mint event: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event":     event.EventType,
		"recipient": recipient,
		"token_id":  tokenID,
		"asset_id":  assetID,
		"root":      root,
	}).Info("Badge minted")

	return event, nil
}

// RecordBatchMetadataUpdated signals indexers that the whole id range
// [fromTokenID, toTokenID] should be treated as refreshed.
func (s *EventService) RecordBatchMetadataUpdated(tx *gorm.DB, fromTokenID, toTokenID int64) (*models.BadgeEvent, error) {
	event := &models.BadgeEvent{
		EventType: models.EventTypeBatchMetadataUpdated,
		Topics: pq.StringArray{
			string(models.EventTypeBatchMetadataUpdated),
			strconv.FormatInt(fromTokenID, 10),
			strconv.FormatInt(toTokenID, 10),
		},
		Payload: models.JSONB{
			"from_token_id": fromTokenID,
			"to_token_id":   toTokenID,
		},
	}

	if err := tx.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to record metadata event: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event":         event.EventType,
		"from_token_id": fromTokenID,
		"to_token_id":   toTokenID,
	}).Info("Batch metadata updated")

	return event, nil
}

// ListEvents returns the event log, newest first, optionally filtered by
// event type or recipient.
func (s *EventService) ListEvents(params utils.PaginationParams, eventType *models.EventType, recipient string) ([]models.BadgeEvent, int64, error) {
	query := s.db.Model(&models.BadgeEvent{})

	if eventType != nil {
		query = query.Where("event_type = ?", *eventType)
	}
	if recipient != "" {
		query = query.Where("recipient = ?", recipient)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	allowedSortFields := []string{"created_at", "event_type"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var events []models.BadgeEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch events: %w", err)
	}

	return events, total, nil
}
