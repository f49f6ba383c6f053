package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"smartparking/internal/db"
)

type JobService struct {
	repo        JobStore
	locations   LocationStore
	loc         *time.Location
	pendingTTL  time.Duration
	checkoutTTL time.Duration
}

func NewJobService(repo JobStore, locations LocationStore, loc *time.Location, pendingTTL, checkoutTTL time.Duration) *JobService {
	return &JobService{repo: repo, locations: locations, loc: loc, pendingTTL: pendingTTL, checkoutTTL: checkoutTTL}
}

// ReleaseExpiredSlots completes confirmed bookings whose end time has passed
// and frees their slots. It returns the number of bookings completed.
func (s *JobService) ReleaseExpiredSlots(ctx context.Context, now time.Time) (int, error) {
	now = now.In(s.loc)
	bookings, err := s.repo.ListConfirmedWithSlot(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to list confirmed bookings: %w", err)
	}

	var ids []int
	var slots []int
	for _, b := range bookings {
		if b.EndsAt(s.loc).After(now) {
			continue
		}
		ids = append(ids, b.ID)
		if b.ParkingSlotID != nil {
			slots = append(slots, *b.ParkingSlotID)
		}
	}
	if len(ids) == 0 {
		log.Debug().Msg("Cron job: no finished bookings")
		return 0, nil
	}

	if err := s.repo.UpdateBookingStatuses(ctx, ids, db.StatusCompleted); err != nil {
		return 0, fmt.Errorf("cron job: failed to complete bookings: %w", err)
	}
	s.release(ctx, slots)

	log.Info().Ints("booking_ids", ids).Msg("Cron job: bookings completed and slots released")
	return len(ids), nil
}

// PurgeStalePending deletes pending bookings older than the pending TTL and
// frees any slot they were holding. Bookings with a checkout session are kept
// until the session has expired and the pending TTL has passed again, so a late
// payment still finds its booking.
func (s *JobService) PurgeStalePending(ctx context.Context, now time.Time) (int64, error) {
	before := now.Add(-s.pendingTTL)
	checkoutBefore := now.Add(-(s.checkoutTTL + s.pendingTTL))

	ids, slots, err := s.repo.DeleteStalePending(ctx, before, checkoutBefore)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to delete stale pending bookings: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	s.release(ctx, slots)

	log.Info().Ints("booking_ids", ids).Time("before", before).Msg("Cron job: stale pending bookings deleted")
	return int64(len(ids)), nil
}

func (s *JobService) release(ctx context.Context, slots []int) {
	for _, id := range slots {
		if err := s.locations.ReleaseSlot(ctx, id); err != nil {
			log.Error().Err(err).Int("slot_id", id).Msg("Cron job: error releasing slot")
		}
	}
}

// Schedule registers both jobs on c with the given cron expression.
func (s *JobService) Schedule(c *cron.Cron, spec string) error {
	if _, err := c.AddFunc(spec, func() {
		if _, err := s.ReleaseExpiredSlots(context.Background(), time.Now()); err != nil {
			log.Error().Err(err).Msg("Cron job: release expired slots failed")
		}
	}); err != nil {
		return fmt.Errorf("scheduling slot release: %w", err)
	}
	if _, err := c.AddFunc(spec, func() {
		if _, err := s.PurgeStalePending(context.Background(), time.Now()); err != nil {
			log.Error().Err(err).Msg("Cron job: purge stale pending failed")
		}
	}); err != nil {
		return fmt.Errorf("scheduling pending purge: %w", err)
	}
	return nil
}
