package service

import (
	"context"
	"encoding/json"

	"clinical-eval-be/internal/dto"
	"clinical-eval-be/internal/model"
	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/pkg/events"
	pkgNats "clinical-eval-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains completion events off the in-process bus. Each event
// lands in the audit table when a database is configured and is mirrored to
// NATS when a broker is configured; both sinks are optional.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	db             *gorm.DB
	eventPublisher *pkgNats.Publisher
	logger         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	db *gorm.DB,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		db:             db,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.EvaluationCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal completion event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads never become valid on retry
		return
	}

	if cs.db != nil {
		audit := model.EvaluationAudit{
			Id:        uuid.New(),
			SessionId: payload.SessionId,
			Kind:      payload.Kind,
			Payload:   datatypes.JSON(msg.Payload),
		}
		if payload.Verdict != "" {
			audit.Verdict = &payload.Verdict
		}
		if payload.Kind == "checklist" {
			pct := payload.CompletionPct
			audit.CompletionPct = &pct
		}
		if err := cs.db.WithContext(ctx).Create(&audit).Error; err != nil {
			cs.logger.Error("consumer", "failed to write audit row", map[string]interface{}{
				"session_id": payload.SessionId,
				"error":      err.Error(),
			})
			msg.Nack()
			return
		}
	}

	if cs.eventPublisher != nil {
		event := events.EvaluationCompleted(payload.SessionId, payload.Kind, payload.Verdict, payload.CompletionPct)
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			cs.logger.Warn("consumer", "failed to mirror event to nats", map[string]interface{}{
				"session_id": payload.SessionId,
				"error":      err.Error(),
			})
		}
	}

	cs.logger.Info("consumer", "completion event processed", map[string]interface{}{
		"session_id": payload.SessionId,
		"kind":       payload.Kind,
	})
	msg.Ack()
}
