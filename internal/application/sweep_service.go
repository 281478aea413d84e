package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/auction-scheduler/internal/dates"
	"github.com/example/auction-scheduler/internal/integrations"
	"github.com/example/auction-scheduler/internal/persistence"
)

// reminderOffsets are the lead times at which reminders fire, paired with the
// label embedded in the notification message.
var reminderOffsets = []struct {
	label  string
	before time.Duration
}{
	{label: "24H", before: 24 * time.Hour},
	{label: "1H", before: time.Hour},
}

// SweepService runs the periodic pass over all slots: it emits deduplicated
// reminders, moves started slots to IN_PROGRESS, and resolves slots whose
// contract deadline has passed.
type SweepService struct {
	tx        persistence.TxManager
	contracts integrations.ContractGateway
	window    time.Duration
	logger    *slog.Logger
}

// NewSweepService wires dependencies for the sweep pass. A zero window falls
// back to the default reminder window.
func NewSweepService(tx persistence.TxManager, contracts integrations.ContractGateway, window time.Duration, logger *slog.Logger) *SweepService {
	if window <= 0 {
		window = dates.DefaultReminderWindow
	}
	return &SweepService{tx: tx, contracts: contracts, window: window, logger: logger}
}

// Run executes one sweep tick at the given instant. The whole tick is a
// single transaction: any failure rolls every transition and notification
// back, and the next tick retries from committed state. Running the same tick
// twice creates nothing new.
func (s *SweepService) Run(ctx context.Context, now time.Time) (SweepResult, error) {
	logger := serviceLogger(ctx, s.logger, "sweep", "run", "now", now.UTC().Format(time.RFC3339))

	var result SweepResult
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		slots, err := repos.Slots.ListAll(ctx)
		if err != nil {
			return err
		}

		seen := make(map[persistence.NotificationSignature]struct{})
		var pending []persistence.NewNotification
		enqueue := func(n persistence.NewNotification) error {
			sig := persistence.NotificationSignature{
				UserID:      n.UserID,
				Type:        n.Type,
				ReferenceID: n.ReferenceID,
				Message:     n.Message,
			}
			if _, dup := seen[sig]; dup {
				return nil
			}
			exists, err := repos.Notifications.ExistsBySignature(ctx, sig)
			if err != nil {
				return err
			}
			if exists {
				return nil
			}
			seen[sig] = struct{}{}
			pending = append(pending, n)
			return nil
		}

		for _, slot := range slots {
			if slot.Status != persistence.SlotScheduled && slot.Status != persistence.SlotInProgress {
				continue
			}

			startInstant, err := dates.StartOfOperatingDay(slot.StartDate)
			if err != nil {
				return err
			}

			for _, offset := range reminderOffsets {
				if !dates.InWindow(now, startInstant.Add(-offset.before), s.window) {
					continue
				}
				message := fmt.Sprintf("MEETING_REMINDER_%s: Slot %s starts at %s. Meeting: %s",
					offset.label, slot.SlotID, slot.StartDate, slot.MeetingLink)
				for _, userID := range []string{slot.ExecutiveID, slot.OwnerID} {
					if err := enqueue(persistence.NewNotification{
						UserID:      userID,
						Type:        persistence.NotificationMeetingReminder,
						ReferenceID: slot.SlotID,
						Message:     message,
					}); err != nil {
						return err
					}
				}
			}

			var deadlineInstant time.Time
			if slot.ContractDeadlineDate != nil {
				deadlineInstant, err = dates.StartOfOperatingDay(*slot.ContractDeadlineDate)
				if err != nil {
					return err
				}
				for _, offset := range reminderOffsets {
					if !dates.InWindow(now, deadlineInstant.Add(-offset.before), s.window) {
						continue
					}
					message := fmt.Sprintf("DEADLINE_ALERT_%s: Contract %s deadline at %s",
						offset.label, slot.ContractID, *slot.ContractDeadlineDate)
					for _, userID := range []string{slot.ExecutiveID, slot.OwnerID} {
						if err := enqueue(persistence.NewNotification{
							UserID:      userID,
							Type:        persistence.NotificationDeadlineAlert,
							ReferenceID: slot.ContractID,
							Message:     message,
						}); err != nil {
							return err
						}
					}
				}
			}

			if slot.Status == persistence.SlotScheduled && !now.Before(startInstant) {
				if _, err := repos.Slots.UpdateStatus(ctx, slot.SlotID, persistence.SlotInProgress); err != nil {
					return err
				}
				slot.Status = persistence.SlotInProgress
			}

			if slot.ContractDeadlineDate != nil && !now.Before(deadlineInstant) {
				resolution, err := s.contracts.EvaluateContract(ctx, slot.ContractID)
				if err != nil {
					return fmt.Errorf("%w: contract %s: %v", ErrResolutionFailure, slot.ContractID, err)
				}
				switch resolution {
				case integrations.ResolutionCompleted:
					if _, err := repos.Slots.UpdateStatus(ctx, slot.SlotID, persistence.SlotCompleted); err != nil {
						return err
					}
				case integrations.ResolutionBreached:
					if _, err := repos.Slots.UpdateStatus(ctx, slot.SlotID, persistence.SlotCanceled); err != nil {
						return err
					}
				case integrations.ResolutionPending:
					// Left untouched; a later tick re-evaluates.
				}
			}
		}

		if len(pending) > 0 {
			if _, err := repos.Notifications.CreateMany(ctx, pending); err != nil {
				return err
			}
		}
		result = SweepResult{CreatedNotifications: len(pending)}
		return nil
	})
	if err != nil {
		logger.Error("sweep failed", "error_kind", ErrorKind(err))
		return SweepResult{}, err
	}

	logger.Info("sweep completed", "created_notifications", result.CreatedNotifications)
	return result, nil
}
