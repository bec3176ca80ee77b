package scheduler

import (
	"context"

	"go.uber.org/zap"

	"talentvet/internal/config"
	"talentvet/internal/service/maintenance"
	"talentvet/internal/service/screening"
)

// RegisterJobs wires the recurring sweeps onto the scheduler: the hourly
// batch screening of new candidates, the half-hourly risk escalation pass
// and the nightly cleanup.
func RegisterJobs(s *Scheduler, cfg *config.Config, screeningSvc screening.Service, maintSvc maintenance.Service, logger *zap.Logger) {
	s.Register("pending-screening-sweep", cfg.BatchSweepInterval, func(ctx context.Context) error {
		result, err := screeningSvc.RunPendingSweep(ctx)
		logger.Info("pending screening sweep",
			zap.Int("processed", result.Processed),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed),
		)
		return err
	})

	s.Register("risk-escalation-sweep", cfg.EscalationSweepInterval, func(ctx context.Context) error {
		result, err := screeningSvc.RunEscalationSweep(ctx)
		logger.Info("risk escalation sweep",
			zap.Int("processed", result.Processed),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed),
		)
		return err
	})

	s.RegisterDailyAt("daily-cleanup", cfg.CleanupHour, func(ctx context.Context) error {
		result := maintSvc.RunCleanup(ctx)
		logger.Info("daily cleanup",
			zap.Int("candidates_archived", result.CandidatesArchived),
			zap.Int("candidates_failed", result.CandidatesFailed),
			zap.Int64("notifications_purged", result.NotificationsPurged),
		)
		return nil
	})
}
