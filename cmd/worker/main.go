package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/jmakela/profiili/adapters/event"
	"github.com/jmakela/profiili/adapters/persistence"
	"github.com/jmakela/profiili/internal/config"
	"github.com/jmakela/profiili/pkg/logger"
)

// The worker tails profile.events and re-warms the profile read cache for
// every committed change, so the first read after a write does not pay the
// database roundtrip.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	zlog := logger.NewZapLogger(cfg.App.Env)
	zlog.Info("Starting profiili worker")

	dbPool, err := persistence.NewPostgresPool(cfg, zlog)
	if err != nil {
		zlog.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, zlog)
	if err != nil {
		zlog.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	profileRepo := persistence.NewPostgresProfileRepo(dbPool, zlog)
	profileCache := persistence.NewRedisProfileCache(redisClient, zlog)

	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicProfileEvents,
		GroupID:  "profile-cache-warmer",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	zlog.Info("Worker listening", zap.String("topic", event.TopicProfileEvents))

	ctx := context.Background()
	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			zlog.Error("failed to read message", err)
			continue
		}

		var payload event.ProfileEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			zlog.Warn("skipping malformed event", zap.Error(err))
			commitMessage(consumer, msg, zlog)
			continue
		}

		p, err := profileRepo.Get(ctx, payload.ProfileID)
		if err != nil {
			zlog.Error("failed to load profile", err, zap.String("profile_id", payload.ProfileID.String()))
			continue
		}
		profileCache.Set(ctx, p)
		zlog.Info("profile cache warmed",
			zap.String("profile_id", payload.ProfileID.String()),
			zap.String("event_type", payload.EventType),
		)

		commitMessage(consumer, msg, zlog)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, zlog logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		zlog.Error("failed to commit message", err)
	}
}
