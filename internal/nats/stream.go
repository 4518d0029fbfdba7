package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/hearthplan/renovation-assistant/internal/model"
)

const (
	// StreamName is the name of the turn journal stream.
	StreamName = "RENOVATION"

	// SubjectPrefix is the prefix for all journal subjects.
	SubjectPrefix = "reno"
)

// Journal is the append-only audit stream of conversation turns. The
// orchestrator's working history lives in the conversation service; the
// journal exists for replay and audit, and its failures never fail a turn.
type Journal struct {
	client *Client
}

// NewJournal creates a turn journal on an established client.
func NewJournal(client *Client) *Journal {
	return &Journal{client: client}
}

// EnsureStream ensures the journal stream exists with proper
// configuration.
func (j *Journal) EnsureStream(ctx context.Context) error {
	js := j.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil // Stream already exists
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      180 * 24 * time.Hour,
		MaxBytes:    20 * 1024 * 1024 * 1024, // 20GB
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		DenyDelete:  true,
		DenyPurge:   true,
		Description: "Conversation turn journal",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// TurnSubject returns the subject for a turn.
func TurnSubject(tenantID, conversationID string, role model.Role) string {
	return fmt.Sprintf("%s.%s.%s.turn.%s", SubjectPrefix, tenantID, conversationID, role)
}

// ConversationFilter returns the filter subject for all turns in a
// conversation.
func ConversationFilter(tenantID, conversationID string) string {
	return fmt.Sprintf("%s.%s.%s.>", SubjectPrefix, tenantID, conversationID)
}

// PublishTurn appends a turn to the journal.
func (j *Journal) PublishTurn(ctx context.Context, turn *model.Turn) (uint64, error) {
	subject := TurnSubject(turn.TenantID, turn.ConversationID, turn.Role)

	data, err := json.Marshal(turn)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal turn: %w", err)
	}

	ack, err := j.client.JetStream().Publish(ctx, subject, data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish turn: %w", err)
	}

	return ack.Sequence, nil
}

// ReplayTurns reads a conversation's turns back from the journal, oldest
// first, up to limit.
func (j *Journal) ReplayTurns(ctx context.Context, tenantID, conversationID string, limit int) ([]model.Turn, error) {
	js := j.client.JetStream()

	consumer, err := js.CreateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		FilterSubject: fmt.Sprintf("%s.%s.%s.turn.>", SubjectPrefix, tenantID, conversationID),
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch turns: %w", err)
	}

	var turns []model.Turn
	for msg := range batch.Messages() {
		var turn model.Turn
		if err := json.Unmarshal(msg.Data(), &turn); err != nil {
			continue
		}
		if meta, err := msg.Metadata(); err == nil {
			turn.Sequence = meta.Sequence.Stream
		}
		turns = append(turns, turn)
	}

	if batch.Error() != nil && !errors.Is(batch.Error(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("batch error: %w", batch.Error())
	}

	return turns, nil
}
