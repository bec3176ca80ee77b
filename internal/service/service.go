package service

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"talentvet/internal/config"
	"talentvet/internal/repository"
	"talentvet/internal/service/analyzer"
	"talentvet/internal/service/archive"
	"talentvet/internal/service/candidate"
	"talentvet/internal/service/email"
	"talentvet/internal/service/maintenance"
	"talentvet/internal/service/notification"
	"talentvet/internal/service/realtime"
	"talentvet/internal/service/screening"
)

type Services struct {
	Candidate    candidate.Service
	Screening    screening.Service
	Notification notification.Service
	Maintenance  maintenance.Service
	Email        email.Service
	Archive      archive.Service
}

func NewServices(ctx context.Context, repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	emailService := email.NewService(cfg, logger.Named("email"))
	pusher := realtime.NewService(redisClient)

	notificationService := notification.NewService(
		repos.Notification, repos.Preference, repos.User,
		pusher, emailService, logger.Named("notification"),
	)

	var scorer analyzer.Scorer
	if cfg.GeminiAPIKey != "" {
		geminiScorer, err := analyzer.NewGeminiScorer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		scorer = geminiScorer
	}
	analyzerService := analyzer.NewService(scorer, cfg.AnalyzerTimeout, logger.Named("analyzer"))

	screeningService := screening.NewService(
		repos.Candidate, repos.SocialProfile, repos.Screening, repos.User,
		analyzerService, notificationService, redisClient,
		cfg.AnalyzerConcurrency, logger.Named("screening"),
	)

	candidateService := candidate.NewService(
		repos.Candidate, repos.SocialProfile, repos.User,
		notificationService, logger.Named("candidate"),
	)

	var archiveService archive.Service
	if minioClient != nil {
		archiveService = archive.NewService(minioClient, cfg.MinIOBucket)
	}

	maintenanceService := maintenance.NewService(
		repos.Candidate, repos.SocialProfile, repos.Screening, repos.Notification,
		archiveService, cfg.CandidateRetention, cfg.NotificationRetention,
		logger.Named("maintenance"),
	)

	return &Services{
		Candidate:    candidateService,
		Screening:    screeningService,
		Notification: notificationService,
		Maintenance:  maintenanceService,
		Email:        emailService,
		Archive:      archiveService,
	}, nil
}
