// Package events publishes domain events for downstream consumers (notification
// fan-out, analytics). Publishing is best-effort: a broker outage must never
// fail the request that triggered the event.
package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"splitlease/config"
	"splitlease/infras/kafka"
	"splitlease/shared/timezone"
)

// ProposalStatusChanged is emitted after every persisted proposal transition.
type ProposalStatusChanged struct {
	ProposalID string    `json:"proposal_id"`
	ListingID  string    `json:"listing_id"`
	GuestID    string    `json:"guest_id"`
	HostID     string    `json:"host_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ChangedBy  string    `json:"changed_by"`
	ChangedAt  time.Time `json:"changed_at"`
}

type Publisher interface {
	PublishProposalStatusChanged(ctx context.Context, event ProposalStatusChanged) error
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
}

func NewPublisher(client kafka.Client, cfg *config.Config) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
	}
}

func (p *publisherImpl) PublishProposalStatusChanged(ctx context.Context, event ProposalStatusChanged) error {
	if event.ChangedAt.IsZero() {
		event.ChangedAt = timezone.Now()
	}

	message := kafka.Message{
		Key:   event.ProposalID,
		Value: event,
	}

	if err := p.client.SendMessages(ctx, p.cfg.Kafka.Topics.ProposalEvents, message); err != nil {
		log.Error().Err(err).Str("proposalID", event.ProposalID).Msg("failed to publish proposal status change")

		return fmt.Errorf("failed to publish proposal status change: %w", err)
	}

	return nil
}
