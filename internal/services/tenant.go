package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-storage-portal/internal/facades"
	"github.com/sbilibin2017/gw-storage-portal/internal/logger"
	"github.com/sbilibin2017/gw-storage-portal/internal/models"
	"github.com/segmentio/kafka-go"
)

var (
	// ErrUserNotFound is returned when the target user does not exist in the store.
	ErrUserNotFound = errors.New("user not found")
	// ErrSizeShrink is returned when a resize would lower the stored quota.
	ErrSizeShrink = errors.New("new size must not be smaller than current size")
	// ErrStoreUpdateFailed marks a resize where the script succeeded but the store update did not.
	ErrStoreUpdateFailed = errors.New("storage updated but database update failed")
	// ErrStoreDeleteFailed marks a destroy where the script succeeded but the store delete did not.
	ErrStoreDeleteFailed = errors.New("storage deleted but account removal failed")
)

// UserGetter reads users by id.
type UserGetter interface {
	GetByID(ctx context.Context, userID int64) (*models.UserDB, error)
}

// TenantStoreWriter defines store mutations driven by tenant operations.
type TenantStoreWriter interface {
	UpdateSize(ctx context.Context, userID, sizeGB int64) (int64, error)
	Delete(ctx context.Context, userID int64) (int64, error)
}

// TenantBridge drives the external tenant lifecycle scripts.
type TenantBridge interface {
	Start(ctx context.Context, userID int64) (string, error)
	Resize(ctx context.Context, userID, sizeGB int64) (string, error)
	Destroy(ctx context.Context, userID int64) (string, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// publishTenantEvent publishes a tenant lifecycle event to Kafka.
func publishTenantEvent(ctx context.Context, w KafkaWriter, event models.TenantEvent) {
	if w == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "operation", event.Operation)
		return
	}

	event.EventID = uuid.NewString()
	event.Timestamp = time.Now().Unix()

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal tenant event for Kafka", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := w.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish tenant event to Kafka", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("Tenant event published to Kafka", "event_id", event.EventID, "operation", event.Operation)
	}
}

// TenantService handles tenant lifecycle operations and Kafka publishing.
type TenantService struct {
	reader      UserGetter
	writer      TenantStoreWriter
	bridge      TenantBridge
	kafkaWriter KafkaWriter
}

// NewTenantService creates a new TenantService.
func NewTenantService(
	reader UserGetter,
	writer TenantStoreWriter,
	bridge TenantBridge,
	kafkaWriter KafkaWriter,
) *TenantService {
	return &TenantService{
		reader:      reader,
		writer:      writer,
		bridge:      bridge,
		kafkaWriter: kafkaWriter,
	}
}

// Start starts the user's storage instance and returns its port and the
// script output. The port is derived, not verified against the instance.
func (s *TenantService) Start(ctx context.Context, userID int64) (int64, string, error) {
	output, err := s.bridge.Start(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to start tenant", "userID", userID, "error", err)
		return 0, "", err
	}

	port := facades.Port(userID)

	publishTenantEvent(ctx, s.kafkaWriter, models.TenantEvent{
		UserID:    userID,
		Operation: models.OpStart,
		Port:      port,
	})

	return port, output, nil
}

// Resize grows the user's storage instance and records the new quota.
// Shrinking below the stored quota is rejected before any script call.
func (s *TenantService) Resize(ctx context.Context, userID, newSizeGB int64) error {
	user, err := s.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user before resize", "userID", userID, "error", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if newSizeGB < user.SizeGB {
		logger.Log.Errorw("resize below current quota rejected",
			"userID", userID, "current", user.SizeGB, "requested", newSizeGB)
		return ErrSizeShrink
	}

	if _, err := s.bridge.Resize(ctx, userID, newSizeGB); err != nil {
		logger.Log.Errorw("failed to resize tenant", "userID", userID, "error", err)
		return err
	}

	affected, err := s.writer.UpdateSize(ctx, userID, newSizeGB)
	if err != nil || affected == 0 {
		// The external storage now disagrees with the recorded quota.
		logger.Log.Errorw("store update failed after successful resize",
			"userID", userID, "newSize", newSizeGB, "affected", affected, "error", err)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUpdateFailed, err)
		}
		return ErrStoreUpdateFailed
	}

	publishTenantEvent(ctx, s.kafkaWriter, models.TenantEvent{
		UserID:    userID,
		Operation: models.OpResize,
		SizeGB:    newSizeGB,
	})

	return nil
}

// Destroy removes the user's storage instance and then the account record.
func (s *TenantService) Destroy(ctx context.Context, userID int64) error {
	if _, err := s.bridge.Destroy(ctx, userID); err != nil {
		logger.Log.Errorw("failed to destroy tenant", "userID", userID, "error", err)
		return err
	}

	affected, err := s.writer.Delete(ctx, userID)
	if err != nil || affected == 0 {
		// Storage is gone but the account record remains.
		logger.Log.Errorw("store delete failed after successful destroy",
			"userID", userID, "affected", affected, "error", err)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreDeleteFailed, err)
		}
		return ErrStoreDeleteFailed
	}

	publishTenantEvent(ctx, s.kafkaWriter, models.TenantEvent{
		UserID:    userID,
		Operation: models.OpDestroy,
	})

	return nil
}
