package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/attune-labs/attune/internal/access"
	"github.com/attune-labs/attune/internal/domain/user"
	"github.com/attune-labs/attune/internal/pkg/logger"
	"github.com/attune-labs/attune/internal/pkg/metrics"
)

// Maintenance runs the periodic housekeeping jobs: sweeping expired rate
// windows out of memory and downgrading users whose paid subscription has
// lapsed without a renewal event from Stripe.
type Maintenance struct {
	store         *access.MemoryStore
	userService   user.Service
	userRepo      user.Repository
	sweepInterval time.Duration
	windowMaxAge  time.Duration
	scheduler     *cron.Cron
	logger        *logger.Logger
}

// NewMaintenance creates the maintenance worker
func NewMaintenance(
	store *access.MemoryStore,
	userService user.Service,
	userRepo user.Repository,
	sweepInterval time.Duration,
	windowMaxAge time.Duration,
	log *logger.Logger,
) *Maintenance {
	return &Maintenance{
		store:         store,
		userService:   userService,
		userRepo:      userRepo,
		sweepInterval: sweepInterval,
		windowMaxAge:  windowMaxAge,
		logger:        log,
	}
}

// Start schedules the maintenance jobs and begins running them
func (m *Maintenance) Start() error {
	m.scheduler = cron.New()

	sweepSpec := fmt.Sprintf("@every %s", m.sweepInterval)
	if _, err := m.scheduler.AddFunc(sweepSpec, m.sweepWindows); err != nil {
		return fmt.Errorf("failed to schedule window sweep: %w", err)
	}

	if _, err := m.scheduler.AddFunc("@daily", m.downgradeLapsed); err != nil {
		return fmt.Errorf("failed to schedule subscription sweep: %w", err)
	}

	m.scheduler.Start()
	m.logger.WithFields(map[string]interface{}{
		"sweep_interval": m.sweepInterval.String(),
		"window_max_age": m.windowMaxAge.String(),
	}).Info("Maintenance worker started")
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish
func (m *Maintenance) Stop() {
	if m.scheduler == nil {
		return
	}
	<-m.scheduler.Stop().Done()
	m.logger.Info("Maintenance worker stopped")
}

func (m *Maintenance) sweepWindows() {
	removed := m.store.Sweep(time.Now(), m.windowMaxAge)
	metrics.SetRateWindowEntries(m.store.Len())

	if removed > 0 {
		m.logger.WithFields(map[string]interface{}{
			"removed":   removed,
			"remaining": m.store.Len(),
		}).Info("Swept expired rate windows")
	}
}

// downgradeLapsed moves users whose paid subscription ended more than a
// grace day ago back to the free tier. Stripe normally reports the
// cancellation through the webhook; this sweep catches missed events.
func (m *Maintenance) downgradeLapsed() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-24 * time.Hour).Unix()
	lapsed, err := m.userRepo.ListLapsed(ctx, cutoff)
	if err != nil {
		m.logger.ErrorWithErr(err, "Failed to list lapsed subscriptions")
		return
	}

	for _, u := range lapsed {
		if err := m.userService.ChangeTier(ctx, u.ID, user.TierExplorer); err != nil {
			m.logger.WithFields(map[string]interface{}{
				"user_id": u.ID,
				"email":   u.Email,
			}).ErrorWithErr(err, "Failed to downgrade lapsed subscription")
			continue
		}
		m.logger.WithFields(map[string]interface{}{
			"user_id":   u.ID,
			"from_tier": u.Tier,
		}).Info("Downgraded lapsed subscription")
	}
}
