package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"clinical-eval-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Stream layout: one EVALUATIONS stream, subjects derived from the event
// code (EVALUATION_COMPLETED -> evaluation.completed).
const (
	streamName      = "EVALUATIONS"
	subjectWildcard = "evaluation.>"
	subjectPrefix   = "evaluation."
)

// Publisher mirrors completed-evaluation events onto NATS JetStream so
// downstream consumers (reporting, notifications) can react without a
// coupling to this process.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subjectWildcard},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.WorkQueuePolicy,
	})
	if err != nil {
		// Don't fail hard here, the stream may already exist or NATS may
		// not be ready yet
		log.Printf("Warn: Failed to ensure stream %q: %v", streamName, err)
	}

	return &Publisher{nc: nc, js: js}, nil
}

// Publish sends one event to its subject. The payload is the event data
// plus the occurrence timestamp; record text never travels here.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	payload["occurred_at"] = event.Timestamp().UTC().Format(time.RFC3339)

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	subject := SubjectFor(event.EventType())
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	return nil
}

// SubjectFor maps an event code onto the stream's subject space:
// EVALUATION_COMPLETED becomes evaluation.completed.
func SubjectFor(eventType string) string {
	s := strings.ToLower(eventType)
	s = strings.TrimPrefix(s, "evaluation_")
	return subjectPrefix + strings.ReplaceAll(s, "_", ".")
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
