// Package notify fans stored triage events out to downstream consumers
// (queue displays, dashboards).
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	rediscommon "wisefido-triage/common/redis"
	"wisefido-triage/internal/models"

	"github.com/go-redis/redis/v8"
)

// Publisher delivers a TriageEvent. Publishing happens after the record is
// stored, so a failure never undoes the attendance.
type Publisher interface {
	Publish(ctx context.Context, event models.TriageEvent) error
}

// StreamPublisher appends events to a Redis stream as a JSON "data" field.
type StreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewStreamPublisher(client *redis.Client, stream string, maxLen int64) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *StreamPublisher) Publish(ctx context.Context, event models.TriageEvent) error {
	if _, err := rediscommon.PublishJSONToStream(ctx, p.client, p.stream, p.maxLen, event); err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", p.stream, err)
	}
	return nil
}

// MQTTClient is the publish side of common/mqtt.Client.
type MQTTClient interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTPublisher sends events to one topic.
type MQTTPublisher struct {
	client MQTTClient
	topic  string
	qos    byte
}

func NewMQTTPublisher(client MQTTClient, topic string, qos byte) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic, qos: qos}
}

func (p *MQTTPublisher) Publish(_ context.Context, event models.TriageEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal triage event: %w", err)
	}
	return p.client.Publish(p.topic, p.qos, false, payload)
}

// Multi publishes to every target and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event models.TriageEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events. Used when no transport is configured.
type Nop struct{}

func (Nop) Publish(context.Context, models.TriageEvent) error { return nil }
