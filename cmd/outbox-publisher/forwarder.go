package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/tableserve-backend/pkg/config"
	"github.com/angelmondragon/tableserve-backend/pkg/db/models"
	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
	"github.com/angelmondragon/tableserve-backend/pkg/metrics"
	"github.com/angelmondragon/tableserve-backend/pkg/outbox"
	"github.com/angelmondragon/tableserve-backend/pkg/outbox/registry"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	publishTimeout = 15 * time.Second
	maxPollWait    = 10 * time.Second
)

type txRunner interface {
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type outboxRepository interface {
	FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error
	MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error
	MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, terminalAttempts int) error
}

type dlqRepository interface {
	InsertTx(tx *gorm.DB, entry models.OutboxDLQ) error
}

type registryResolver interface {
	Resolve(models.OutboxEvent) (*registry.ResolvedEvent, error)
}

// sender publishes one message and waits for the broker to acknowledge it.
type sender func(ctx context.Context, msg *gcppubsub.Message) error

// markForwardedFunc moves an order batch to forwarded inside the publish
// transaction. Failing it never un-publishes the event.
type markForwardedFunc func(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error

type disposition int

const (
	published disposition = iota
	retryLater
	deadLetter
)

// attempt is the outcome of forwarding one outbox row.
type attempt struct {
	disposition disposition
	topic       string
	reason      enums.OutboxDLQErrorReason
	err         error
}

type ForwarderParams struct {
	Outbox        config.OutboxConfig
	Logger        *logger.Logger
	DB            txRunner
	Pings         map[string]func(context.Context) error
	Repository    outboxRepository
	DLQ           dlqRepository
	Registry      registryResolver
	Senders       map[string]sender
	MarkForwarded markForwardedFunc
	Metrics       *metrics.OutboxMetrics
}

// Forwarder drains outbox_events onto the kitchen topics. Each poll claims up
// to a batch of rows in one transaction; every row ends up published, retried
// on a later poll or moved to outbox_dlq.
type Forwarder struct {
	logg          *logger.Logger
	db            txRunner
	pings         map[string]func(context.Context) error
	repo          outboxRepository
	dlq           dlqRepository
	registry      registryResolver
	senders       map[string]sender
	markForwarded markForwardedFunc
	metrics       *metrics.OutboxMetrics
	batchSize     int
	maxAttempts   int
	poll          time.Duration
}

func NewForwarder(params ForwarderParams) (*Forwarder, error) {
	switch {
	case params.Logger == nil:
		return nil, errors.New("logger is required")
	case params.DB == nil:
		return nil, errors.New("database client is required")
	case params.Repository == nil:
		return nil, errors.New("outbox repository is required")
	case params.DLQ == nil:
		return nil, errors.New("dlq repository is required")
	case params.Registry == nil:
		return nil, errors.New("event registry is required")
	case len(params.Senders) == 0:
		return nil, errors.New("at least one topic sender is required")
	}

	batchSize := params.Outbox.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	maxAttempts := params.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &Forwarder{
		logg:          params.Logger,
		db:            params.DB,
		pings:         params.Pings,
		repo:          params.Repository,
		dlq:           params.DLQ,
		registry:      params.Registry,
		senders:       params.Senders,
		markForwarded: params.MarkForwarded,
		metrics:       params.Metrics,
		batchSize:     batchSize,
		maxAttempts:   maxAttempts,
		poll:          params.Outbox.PollInterval(),
	}, nil
}

// Run polls until ctx is done. A full batch is followed by another poll
// straight away; failed polls back off up to maxPollWait.
func (f *Forwarder) Run(ctx context.Context) error {
	for name, ping := range f.pings {
		if err := ping(ctx); err != nil {
			f.logg.Error(ctx, name+" ping failed", err)
			return fmt.Errorf("%s ping failed: %w", name, err)
		}
	}

	wait := f.poll
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		claimed, err := f.drain(ctx)
		if err != nil {
			f.logg.Error(ctx, "outbox drain failed", err)
			wait = nextWait(wait, maxPollWait)
		} else {
			wait = f.poll
			if claimed {
				continue
			}
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func (f *Forwarder) drain(ctx context.Context) (bool, error) {
	started := time.Now()
	claimed := 0
	err := f.db.WithTx(ctx, func(tx *gorm.DB) error {
		events, err := f.repo.FetchUnpublishedForPublish(tx, f.batchSize, f.maxAttempts)
		if err != nil {
			return fmt.Errorf("claim outbox rows: %w", err)
		}
		claimed = len(events)
		for _, event := range events {
			if err := f.settle(ctx, tx, event, f.forward(ctx, event)); err != nil {
				return err
			}
		}
		return nil
	})
	if claimed > 0 {
		f.metrics.ObserveBatch(time.Since(started))
	}
	return claimed > 0, err
}

func (f *Forwarder) forward(ctx context.Context, event models.OutboxEvent) attempt {
	resolved, err := f.registry.Resolve(event)
	if err != nil {
		return attempt{disposition: deadLetter, reason: enums.OutboxDLQReasonNonRetryable, err: err}
	}
	topic := resolved.Descriptor.Topic
	send, ok := f.senders[topic]
	if !ok || send == nil {
		return attempt{disposition: deadLetter, topic: topic, reason: enums.OutboxDLQReasonNonRetryable,
			err: fmt.Errorf("no publisher for topic %s", topic)}
	}

	sendCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := send(sendCtx, kitchenMessage(event, resolved.Envelope)); err != nil {
		var nonRetry registry.NonRetryableError
		switch {
		case errors.As(err, &nonRetry):
			return attempt{disposition: deadLetter, topic: topic, reason: enums.OutboxDLQReasonNonRetryable, err: err}
		case event.AttemptCount+1 >= f.maxAttempts:
			return attempt{disposition: deadLetter, topic: topic, reason: enums.OutboxDLQReasonMaxAttempts,
				err: fmt.Errorf("max publish attempts reached: %w", err)}
		default:
			return attempt{disposition: retryLater, topic: topic, err: err}
		}
	}
	return attempt{disposition: published, topic: topic}
}

func (f *Forwarder) settle(ctx context.Context, tx *gorm.DB, event models.OutboxEvent, a attempt) error {
	logCtx := f.logg.WithFields(ctx, map[string]any{
		"outbox_id":     event.ID.String(),
		"event_type":    event.EventType,
		"batch_id":      event.AggregateID.String(),
		"attempt_count": event.AttemptCount,
		"topic":         a.topic,
	})
	if a.err != nil {
		logCtx = f.logg.WithField(logCtx, "error", a.err.Error())
	}
	eventType := string(event.EventType)

	switch a.disposition {
	case published:
		if err := f.repo.MarkPublishedTx(tx, event.ID); err != nil {
			return fmt.Errorf("mark published %s: %w", event.ID, err)
		}
		if f.markForwarded != nil && event.AggregateType == enums.AggregateOrderBatch {
			if err := f.markForwarded(ctx, tx, event.AggregateID); err != nil {
				f.logg.Warn(f.logg.WithField(logCtx, "error", err.Error()), "batch published but not marked forwarded")
			}
		}
		f.metrics.IncPublished(eventType)
		f.logg.Info(logCtx, "order batch forwarded")
	case retryLater:
		f.metrics.IncFailed(eventType)
		f.logg.Warn(logCtx, "outbox publish failed, will retry")
		if err := f.repo.MarkFailedTx(tx, event.ID, a.err); err != nil {
			return fmt.Errorf("mark failure %s: %w", event.ID, err)
		}
	default:
		f.metrics.IncTerminal(eventType, string(a.reason))
		f.logg.Warn(f.logg.WithField(logCtx, "error_reason", a.reason), "outbox event moved to dlq")
		msg := a.err.Error()
		if err := f.dlq.InsertTx(tx, models.OutboxDLQ{
			EventID:       event.ID,
			EventType:     event.EventType,
			AggregateType: event.AggregateType,
			AggregateID:   event.AggregateID,
			Payload:       event.Payload,
			ErrorReason:   a.reason,
			ErrorMessage:  &msg,
			AttemptCount:  event.AttemptCount,
			FailedAt:      time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("insert dlq %s: %w", event.ID, err)
		}
		if err := f.repo.MarkTerminalTx(tx, event.ID, a.err, f.maxAttempts); err != nil {
			return fmt.Errorf("mark terminal %s: %w", event.ID, err)
		}
	}
	return nil
}

// kitchenMessage carries the stored envelope as-is; attributes let
// subscribers filter without decoding it.
func kitchenMessage(event models.OutboxEvent, env outbox.PayloadEnvelope) *gcppubsub.Message {
	return &gcppubsub.Message{
		Data: event.Payload,
		Attributes: map[string]string{
			"event_id":       env.EventID,
			"event_type":     string(event.EventType),
			"aggregate_type": string(event.AggregateType),
			"aggregate_id":   event.AggregateID.String(),
			"created_at":     event.CreatedAt.Format(time.RFC3339Nano),
		},
	}
}

func nextWait(current, max time.Duration) time.Duration {
	if current <= 0 {
		return max
	}
	if next := current * 2; next < max {
		return next
	}
	return max
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
