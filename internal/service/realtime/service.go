package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Pusher delivers ephemeral JSON events to connected clients. The channel
// naming is the contract with the gateway that holds the websocket
// connections: one channel per user, one per company.
type Pusher interface {
	PushUser(ctx context.Context, userID uuid.UUID, event any) error
	PushCompany(ctx context.Context, companyID uuid.UUID, event any) error
}

func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

func CompanyChannel(companyID uuid.UUID) string {
	return "company:" + companyID.String()
}

type service struct {
	client *redis.Client
}

func NewService(client *redis.Client) Pusher {
	return &service{client: client}
}

func (s *service) PushUser(ctx context.Context, userID uuid.UUID, event any) error {
	return s.publish(ctx, UserChannel(userID), event)
}

func (s *service) PushCompany(ctx context.Context, companyID uuid.UUID, event any) error {
	return s.publish(ctx, CompanyChannel(companyID), event)
}

func (s *service) publish(ctx context.Context, channel string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal realtime event: %w", err)
	}
	return s.client.Publish(ctx, channel, payload).Err()
}
