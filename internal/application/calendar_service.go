package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/auction-scheduler/internal/dates"
	"github.com/example/auction-scheduler/internal/integrations"
	"github.com/example/auction-scheduler/internal/persistence"
	"github.com/example/auction-scheduler/internal/scheduler"
)

// CalendarService orchestrates availability updates, auction-driven slot
// allocation, and pre-start cancellation.
type CalendarService struct {
	tx     persistence.TxManager
	meet   integrations.MeetingProvider
	logger *slog.Logger
	now    func() time.Time
}

// NewCalendarService wires dependencies for calendar operations.
func NewCalendarService(tx persistence.TxManager, meet integrations.MeetingProvider, logger *slog.Logger, now func() time.Time) *CalendarService {
	if now == nil {
		now = time.Now
	}
	return &CalendarService{tx: tx, meet: meet, logger: logger, now: now}
}

// SetAvailability replaces the executive's availability calendar. Only the
// executive may update their own calendar, and no occupied day may be flipped
// back to AVAILABLE.
func (s *CalendarService) SetAvailability(ctx context.Context, params SetAvailabilityParams) (Calendar, error) {
	logger := serviceLogger(ctx, s.logger, "calendar", "set_availability", "executive_id", params.ExecutiveID)

	if params.Principal.Role != RoleExecutive || params.Principal.UserID != params.ExecutiveID {
		logger.Warn("availability update rejected", "error_kind", ErrorKind(ErrUnauthorized))
		return Calendar{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	if params.ExecutiveID == "" {
		vErr.add("executiveId", "executive id is required")
	}
	for i, entry := range params.Entries {
		if err := dates.ValidateDayOnly(entry.Date); err != nil {
			vErr.add(fmt.Sprintf("availability[%d].date", i), "date must be in YYYY-MM-DD format")
		}
		if entry.Status != StatusAvailable && entry.Status != StatusBlocked {
			vErr.add(fmt.Sprintf("availability[%d].status", i), "status must be AVAILABLE or BLOCKED")
		}
	}
	if vErr.HasErrors() {
		logger.Warn("availability update rejected", "error_kind", "validation")
		return Calendar{}, vErr
	}

	merged := scheduler.MergeAvailabilityInput(entriesToScheduler(params.Entries))

	var stored persistence.Calendar
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		slots, err := repos.Slots.ListByExecutiveID(ctx, params.ExecutiveID)
		if err != nil {
			return err
		}
		occupied, err := scheduler.OccupiedDates(occupiedRanges(slots))
		if err != nil {
			return err
		}
		for _, entry := range merged {
			if entry.Status != scheduler.DayAvailable {
				continue
			}
			if _, taken := occupied[entry.Date]; taken {
				return fmt.Errorf("%w: %s", ErrAvailabilityConflict, entry.Date)
			}
		}

		stored, err = repos.Calendars.UpsertCalendar(ctx, persistence.Calendar{
			ExecutiveID:  params.ExecutiveID,
			Availability: entriesToPersistence(merged),
			Timezone:     dates.OperatingTimezone,
		})
		return err
	})
	if err != nil {
		logger.Warn("availability update failed", "error_kind", ErrorKind(err))
		return Calendar{}, err
	}

	logger.Info("availability updated", "entries", len(stored.Availability))
	return calendarFromPersistence(stored), nil
}

// ScheduleAfterAuction allocates a slot from an auction outcome. The slot
// dates are derived from the auction end date and the winning tier, the
// meeting link is provisioned, and both parties are notified. Everything
// commits atomically or not at all.
func (s *CalendarService) ScheduleAfterAuction(ctx context.Context, params ScheduleAfterAuctionParams) (Slot, error) {
	logger := serviceLogger(ctx, s.logger, "calendar", "schedule_after_auction", "slot_id", params.SlotID)

	if params.Principal.Role != RoleSystem {
		logger.Warn("schedule rejected", "error_kind", ErrorKind(ErrUnauthorized))
		return Slot{}, ErrUnauthorized
	}
	if err := validateScheduleParams(params); err != nil {
		logger.Warn("schedule rejected", "error_kind", "validation")
		return Slot{}, err
	}

	startDate, err := dates.AddDays(params.AuctionEndDate, params.TierOffsetDays)
	if err != nil {
		return Slot{}, err
	}
	endDate, err := dates.AddDays(startDate, params.TierDurationDays-1)
	if err != nil {
		return Slot{}, err
	}
	deadlineDate := ""
	if params.ContractDeadlineDate != "" {
		// Normalize through the same calendar arithmetic as the slot dates so
		// an out-of-range day rolls over instead of being stored verbatim.
		deadlineDate, err = dates.AddDays(params.ContractDeadlineDate, 0)
		if err != nil {
			return Slot{}, err
		}
	}

	var created persistence.Slot
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		if _, err := repos.Slots.FindBySlotID(ctx, params.SlotID); err == nil {
			return fmt.Errorf("%w: %s", ErrDuplicateSlot, params.SlotID)
		} else if !errors.Is(err, persistence.ErrNotFound) {
			return err
		}

		existing, err := repos.Slots.ListByExecutiveID(ctx, params.ExecutiveID)
		if err != nil {
			return err
		}
		if conflict, found := scheduler.FindOverlap(activeRanges(existing), startDate, endDate); found {
			return fmt.Errorf("%w: %s", ErrSlotOverlap, conflict.SlotID)
		}

		meetingLink, err := s.meet.CreateMeeting(ctx, integrations.MeetingRequest{
			SlotID:      params.SlotID,
			ExecutiveID: params.ExecutiveID,
			OwnerID:     params.OwnerID,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProvisioningFailure, err)
		}

		var deadline *string
		if deadlineDate != "" {
			d := deadlineDate
			deadline = &d
		}
		created, err = repos.Slots.CreateSlot(ctx, persistence.Slot{
			SlotID:               params.SlotID,
			ExecutiveID:          params.ExecutiveID,
			OwnerID:              params.OwnerID,
			ContractID:           params.ContractID,
			StartDate:            startDate,
			EndDate:              endDate,
			Status:               persistence.SlotScheduled,
			MeetingLink:          meetingLink,
			ContractDeadlineDate: deadline,
		})
		if err != nil {
			if errors.Is(err, persistence.ErrDuplicate) {
				return fmt.Errorf("%w: %s", ErrDuplicateSlot, params.SlotID)
			}
			return err
		}

		if err := s.blockSlotDates(ctx, repos, params.ExecutiveID, startDate, endDate); err != nil {
			return err
		}

		_, err = repos.Notifications.CreateMany(ctx, []persistence.NewNotification{
			{
				UserID:      params.OwnerID,
				Type:        persistence.NotificationAuctionCleared,
				ReferenceID: params.SlotID,
				Message:     fmt.Sprintf("Auction cleared. Scheduled from %s to %s. Meeting: %s", startDate, endDate, meetingLink),
			},
			{
				UserID:      params.ExecutiveID,
				Type:        persistence.NotificationAuctionCleared,
				ReferenceID: params.SlotID,
				Message:     fmt.Sprintf("New scheduled slot %s from %s to %s. Meeting: %s", params.SlotID, startDate, endDate, meetingLink),
			},
		})
		return err
	})
	if err != nil {
		logger.Warn("schedule failed", "error_kind", ErrorKind(err))
		return Slot{}, err
	}

	logger.Info("slot scheduled", "executive_id", created.ExecutiveID, "start_date", created.StartDate, "end_date", created.EndDate)
	return slotFromPersistence(created), nil
}

// CancelBeforeStart cancels a slot strictly before its start date and frees
// the executive's calendar days no other active slot claims.
func (s *CalendarService) CancelBeforeStart(ctx context.Context, params CancelBeforeStartParams) (Slot, error) {
	logger := serviceLogger(ctx, s.logger, "calendar", "cancel_before_start", "slot_id", params.SlotID)

	if params.Principal.Role != RoleSystem {
		logger.Warn("cancel rejected", "error_kind", ErrorKind(ErrUnauthorized))
		return Slot{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	if params.SlotID == "" {
		vErr.add("slotId", "slot id is required")
	}
	if err := dates.ValidateDayOnly(params.NowDate); err != nil {
		vErr.add("nowDate", "date must be in YYYY-MM-DD format")
	}
	if vErr.HasErrors() {
		logger.Warn("cancel rejected", "error_kind", "validation")
		return Slot{}, vErr
	}

	var canceled persistence.Slot
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		slot, err := repos.Slots.FindBySlotID(ctx, params.SlotID)
		if err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrSlotNotFound, params.SlotID)
			}
			return err
		}
		if slot.StartDate <= params.NowDate {
			return fmt.Errorf("%w: slot %s starts on %s", ErrAlreadyStarted, slot.SlotID, slot.StartDate)
		}

		canceled, err = repos.Slots.UpdateStatus(ctx, params.SlotID, persistence.SlotCanceled)
		if err != nil {
			return err
		}

		remaining, err := repos.Slots.ListByExecutiveID(ctx, slot.ExecutiveID)
		if err != nil {
			return err
		}
		stillOccupied, err := scheduler.OccupiedDates(activeRanges(remaining))
		if err != nil {
			return err
		}
		calendar, err := repos.Calendars.GetByExecutiveID(ctx, slot.ExecutiveID)
		if err != nil && !errors.Is(err, persistence.ErrNotFound) {
			return err
		}
		derived := scheduler.DeriveOnCancel(entriesFromPersistence(calendar.Availability), stillOccupied)
		if _, err := repos.Calendars.UpsertCalendar(ctx, persistence.Calendar{
			ExecutiveID:  slot.ExecutiveID,
			Availability: entriesToPersistence(derived),
			Timezone:     dates.OperatingTimezone,
		}); err != nil {
			return err
		}

		_, err = repos.Notifications.CreateMany(ctx, []persistence.NewNotification{{
			UserID:      slot.OwnerID,
			Type:        persistence.NotificationDeadlineAlert,
			ReferenceID: slot.SlotID,
			Message:     fmt.Sprintf("Slot %s canceled before start; reinvestment pool trigger should run.", slot.SlotID),
		}})
		return err
	})
	if err != nil {
		logger.Warn("cancel failed", "error_kind", ErrorKind(err))
		return Slot{}, err
	}

	logger.Info("slot canceled", "executive_id", canceled.ExecutiveID)
	return slotFromPersistence(canceled), nil
}

// GetCalendarView returns the executive's calendar plus the slots the caller
// may see: executives see their own slots, owners only the slots they hold
// with that executive, and the system sees everything.
func (s *CalendarService) GetCalendarView(ctx context.Context, params GetCalendarViewParams) (CalendarView, error) {
	logger := serviceLogger(ctx, s.logger, "calendar", "get_calendar_view", "executive_id", params.ExecutiveID)

	switch params.Principal.Role {
	case RoleExecutive:
		if params.Principal.UserID != params.ExecutiveID {
			logger.Warn("view rejected", "error_kind", ErrorKind(ErrUnauthorized))
			return CalendarView{}, ErrUnauthorized
		}
	case RoleOwner, RoleSystem:
	default:
		logger.Warn("view rejected", "error_kind", ErrorKind(ErrUnauthorized))
		return CalendarView{}, ErrUnauthorized
	}

	var view CalendarView
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		calendar, err := repos.Calendars.GetByExecutiveID(ctx, params.ExecutiveID)
		if err != nil {
			if !errors.Is(err, persistence.ErrNotFound) {
				return err
			}
			now := s.now().UTC()
			calendar = persistence.Calendar{
				ExecutiveID:  params.ExecutiveID,
				Availability: []persistence.DayEntry{},
				Timezone:     dates.OperatingTimezone,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
		}

		var slots []persistence.Slot
		switch params.Principal.Role {
		case RoleOwner:
			owned, err := repos.Slots.ListByOwnerID(ctx, params.Principal.UserID)
			if err != nil {
				return err
			}
			for _, slot := range owned {
				if slot.ExecutiveID == params.ExecutiveID {
					slots = append(slots, slot)
				}
			}
		default:
			slots, err = repos.Slots.ListByExecutiveID(ctx, params.ExecutiveID)
			if err != nil {
				return err
			}
		}

		view = CalendarView{Calendar: calendarFromPersistence(calendar), Slots: slotsFromPersistence(slots)}
		return nil
	})
	if err != nil {
		logger.Warn("view failed", "error_kind", ErrorKind(err))
		return CalendarView{}, err
	}
	return view, nil
}

// blockSlotDates folds a newly scheduled slot's dates into the executive's
// calendar, creating the calendar on first use.
func (s *CalendarService) blockSlotDates(ctx context.Context, repos persistence.Repositories, executiveID, startDate, endDate string) error {
	calendar, err := repos.Calendars.GetByExecutiveID(ctx, executiveID)
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return err
	}

	slotDates, err := dates.EnumerateDates(startDate, endDate)
	if err != nil {
		return err
	}
	derived := scheduler.DeriveOnSchedule(entriesFromPersistence(calendar.Availability), slotDates)

	_, err = repos.Calendars.UpsertCalendar(ctx, persistence.Calendar{
		ExecutiveID:  executiveID,
		Availability: entriesToPersistence(derived),
		Timezone:     dates.OperatingTimezone,
	})
	return err
}

func validateScheduleParams(params ScheduleAfterAuctionParams) error {
	vErr := &ValidationError{}
	if params.SlotID == "" {
		vErr.add("slotId", "slot id is required")
	}
	if params.ExecutiveID == "" {
		vErr.add("executiveId", "executive id is required")
	}
	if params.OwnerID == "" {
		vErr.add("ownerId", "owner id is required")
	}
	if params.ContractID == "" {
		vErr.add("contractId", "contract id is required")
	}
	if err := dates.ValidateDayOnly(params.AuctionEndDate); err != nil {
		vErr.add("auctionEndDate", "date must be in YYYY-MM-DD format")
	}
	if params.TierOffsetDays < 0 {
		vErr.add("tierOffsetDays", "offset must not be negative")
	}
	if params.TierDurationDays < 1 {
		vErr.add("tierDurationDays", "duration must be at least one day")
	}
	if params.ContractDeadlineDate != "" {
		if err := dates.ValidateDayOnly(params.ContractDeadlineDate); err != nil {
			vErr.add("contractDeadlineDate", "date must be in YYYY-MM-DD format")
		}
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// occupiedRanges keeps every non-canceled slot. Availability updates must not
// reopen days a completed slot still records, so only cancellation releases
// them here.
func occupiedRanges(slots []persistence.Slot) []scheduler.SlotRange {
	ranges := make([]scheduler.SlotRange, 0, len(slots))
	for _, slot := range slots {
		if slot.Status == persistence.SlotCanceled {
			continue
		}
		ranges = append(ranges, scheduler.SlotRange{SlotID: slot.SlotID, StartDate: slot.StartDate, EndDate: slot.EndDate})
	}
	return ranges
}

// activeRanges keeps the slots that contend for new bookings. Canceled and
// completed slots no longer block scheduling.
func activeRanges(slots []persistence.Slot) []scheduler.SlotRange {
	ranges := make([]scheduler.SlotRange, 0, len(slots))
	for _, slot := range slots {
		if slot.Status == persistence.SlotCanceled || slot.Status == persistence.SlotCompleted {
			continue
		}
		ranges = append(ranges, scheduler.SlotRange{SlotID: slot.SlotID, StartDate: slot.StartDate, EndDate: slot.EndDate})
	}
	return ranges
}
