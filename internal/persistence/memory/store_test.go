package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/auction-scheduler/internal/persistence"
)

func newTestManager() *TxManager {
	counter := 0
	clock := time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)
	return NewTxManager(
		WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("id-%d", counter)
		}),
		WithClock(func() time.Time { return clock }),
	)
}

func seedSlot(t *testing.T, m *TxManager, slotID, executiveID string) persistence.Slot {
	t.Helper()
	var created persistence.Slot
	err := m.RunInTransaction(context.Background(), func(ctx context.Context, repos persistence.Repositories) error {
		var err error
		created, err = repos.Slots.CreateSlot(ctx, persistence.Slot{
			SlotID:      slotID,
			ExecutiveID: executiveID,
			OwnerID:     "owner-1",
			ContractID:  "contract-1",
			StartDate:   "2026-02-18",
			EndDate:     "2026-02-20",
			Status:      persistence.SlotScheduled,
			MeetingLink: "https://meet.google.com/abc-defg-hijkl",
		})
		return err
	})
	if err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return created
}

func TestRunInTransactionCommits(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	created := seedSlot(t, m, "slot-1", "exec-1")
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	err := m.RunInTransaction(context.Background(), func(ctx context.Context, repos persistence.Repositories) error {
		found, err := repos.Slots.FindBySlotID(ctx, "slot-1")
		if err != nil {
			return err
		}
		if found.ID != created.ID {
			t.Errorf("found id %s, want %s", found.ID, created.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read transaction: %v", err)
	}
}

func TestRunInTransactionDiscardsOnError(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	seedSlot(t, m, "slot-1", "exec-1")

	boom := errors.New("boom")
	err := m.RunInTransaction(context.Background(), func(ctx context.Context, repos persistence.Repositories) error {
		if _, err := repos.Slots.UpdateStatus(ctx, "slot-1", persistence.SlotCanceled); err != nil {
			return err
		}
		if _, err := repos.Notifications.CreateMany(ctx, []persistence.NewNotification{{
			UserID:      "owner-1",
			Type:        persistence.NotificationDeadlineAlert,
			ReferenceID: "slot-1",
			Message:     "should not survive",
		}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	err = m.RunInTransaction(context.Background(), func(ctx context.Context, repos persistence.Repositories) error {
		slot, err := repos.Slots.FindBySlotID(ctx, "slot-1")
		if err != nil {
			return err
		}
		if slot.Status != persistence.SlotScheduled {
			t.Errorf("status = %s, want SCHEDULED after rollback", slot.Status)
		}
		all, err := repos.Notifications.ListAll(ctx)
		if err != nil {
			return err
		}
		if len(all) != 0 {
			t.Errorf("expected no notifications after rollback, got %d", len(all))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("verification transaction: %v", err)
	}
}

func TestCreateSlotRejectsDuplicateSlotID(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	seedSlot(t, m, "slot-1", "exec-1")

	err := m.RunInTransaction(context.Background(), func(ctx context.Context, repos persistence.Repositories) error {
		_, err := repos.Slots.CreateSlot(ctx, persistence.Slot{
			SlotID:      "slot-1",
			ExecutiveID: "exec-2",
			OwnerID:     "owner-2",
			ContractID:  "contract-2",
			StartDate:   "2026-03-01",
			EndDate:     "2026-03-02",
			Status:      persistence.SlotScheduled,
		})
		return err
	})
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUpsertCalendarPreservesCreatedAt(t *testing.T) {
	t.Parallel()

	clock := time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)
	m := NewTxManager(WithClock(func() time.Time { return clock }))

	write := func(entries []persistence.DayEntry) persistence.Calendar {
		var stored persistence.Calendar
		err := m.RunInTransaction(context.Background(), func(ctx context.Context, repos persistence.Repositories) error {
			var err error
			stored, err = repos.Calendars.UpsertCalendar(ctx, persistence.Calendar{
				ExecutiveID:  "exec-1",
				Availability: entries,
				Timezone:     "America/Sao_Paulo",
			})
			return err
		})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
		return stored
	}

	first := write([]persistence.DayEntry{{Date: "2026-02-18", Status: persistence.DayAvailable}})
	clock = clock.Add(time.Hour)
	second := write([]persistence.DayEntry{{Date: "2026-02-18", Status: persistence.DayBlocked}})

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on upsert: %s -> %s", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("UpdatedAt did not advance: %s -> %s", first.UpdatedAt, second.UpdatedAt)
	}
	if len(second.Availability) != 1 || second.Availability[0].Status != persistence.DayBlocked {
		t.Errorf("availability not replaced: %v", second.Availability)
	}
}

func TestMarkReadIgnoresNonMatchingIDs(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	var created []persistence.Notification
	err := m.RunInTransaction(context.Background(), func(ctx context.Context, repos persistence.Repositories) error {
		var err error
		created, err = repos.Notifications.CreateMany(ctx, []persistence.NewNotification{
			{UserID: "user-1", Type: persistence.NotificationMeetingReminder, ReferenceID: "slot-1", Message: "a"},
			{UserID: "user-2", Type: persistence.NotificationMeetingReminder, ReferenceID: "slot-1", Message: "b"},
		})
		return err
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = m.RunInTransaction(context.Background(), func(ctx context.Context, repos persistence.Repositories) error {
		count, err := repos.Notifications.MarkRead(ctx, "user-1", []string{created[0].ID, created[1].ID, "missing"})
		if err != nil {
			return err
		}
		if count != 1 {
			t.Errorf("marked %d, want 1 (other user's id and unknown id ignored)", count)
		}
		// Marking again is a no-op.
		count, err = repos.Notifications.MarkRead(ctx, "user-1", []string{created[0].ID})
		if err != nil {
			return err
		}
		if count != 0 {
			t.Errorf("re-mark count = %d, want 0", count)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
}

func TestListByUserIDNewestFirst(t *testing.T) {
	t.Parallel()

	clock := time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)
	m := NewTxManager(WithClock(func() time.Time { return clock }))

	push := func(message string) {
		err := m.RunInTransaction(context.Background(), func(ctx context.Context, repos persistence.Repositories) error {
			_, err := repos.Notifications.CreateMany(ctx, []persistence.NewNotification{{
				UserID:      "user-1",
				Type:        persistence.NotificationAuctionCleared,
				ReferenceID: "slot-1",
				Message:     message,
			}})
			return err
		})
		if err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	push("first")
	clock = clock.Add(time.Minute)
	push("second")
	push("third") // same timestamp as second; insertion order breaks the tie

	err := m.RunInTransaction(context.Background(), func(ctx context.Context, repos persistence.Repositories) error {
		list, err := repos.Notifications.ListByUserID(ctx, "user-1")
		if err != nil {
			return err
		}
		want := []string{"third", "second", "first"}
		if len(list) != len(want) {
			t.Fatalf("got %d notifications, want %d", len(list), len(want))
		}
		for i, message := range want {
			if list[i].Message != message {
				t.Errorf("position %d = %q, want %q", i, list[i].Message, message)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestExistsBySignature(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	signature := persistence.NotificationSignature{
		UserID:      "user-1",
		Type:        persistence.NotificationMeetingReminder,
		ReferenceID: "slot-1",
		Message:     "MEETING_REMINDER_24H: Slot slot-1 starts at 2026-02-18. Meeting: x",
	}

	err := m.RunInTransaction(context.Background(), func(ctx context.Context, repos persistence.Repositories) error {
		exists, err := repos.Notifications.ExistsBySignature(ctx, signature)
		if err != nil {
			return err
		}
		if exists {
			t.Error("signature should not exist yet")
		}
		if _, err := repos.Notifications.CreateMany(ctx, []persistence.NewNotification{{
			UserID:      signature.UserID,
			Type:        signature.Type,
			ReferenceID: signature.ReferenceID,
			Message:     signature.Message,
		}}); err != nil {
			return err
		}
		exists, err = repos.Notifications.ExistsBySignature(ctx, signature)
		if err != nil {
			return err
		}
		if !exists {
			t.Error("signature should exist after create")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}
