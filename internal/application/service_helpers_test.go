package application

import (
	"context"
	"fmt"
	"time"

	"github.com/example/auction-scheduler/internal/integrations"
	"github.com/example/auction-scheduler/internal/persistence"
	"github.com/example/auction-scheduler/internal/persistence/memory"
)

// referenceNow is noon UTC on the reference day used across service tests.
var referenceNow = time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)

var (
	systemPrincipal = Principal{UserID: "system", Role: RoleSystem}
	execPrincipal   = Principal{UserID: "exec-1", Role: RoleExecutive}
	ownerPrincipal  = Principal{UserID: "owner-1", Role: RoleOwner}
)

type stubMeetProvider struct {
	link  string
	err   error
	calls int
}

func (p *stubMeetProvider) CreateMeeting(_ context.Context, req integrations.MeetingRequest) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	if p.link != "" {
		return p.link, nil
	}
	return fmt.Sprintf("https://meet.google.com/%s", req.SlotID), nil
}

type stubContractGateway struct {
	err error
}

func (g *stubContractGateway) EvaluateContract(ctx context.Context, contractID string) (integrations.Resolution, error) {
	if g.err != nil {
		return "", g.err
	}
	return integrations.SimulatedContractGateway{}.EvaluateContract(ctx, contractID)
}

type testEnv struct {
	tx        *memory.TxManager
	meet      *stubMeetProvider
	contracts *stubContractGateway
	calendars *CalendarService
	sweeps    *SweepService
	inbox     *NotificationService
}

func newTestEnv() *testEnv {
	counter := 0
	tx := memory.NewTxManager(
		memory.WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("id-%d", counter)
		}),
		memory.WithClock(func() time.Time { return referenceNow }),
	)
	meet := &stubMeetProvider{}
	contracts := &stubContractGateway{}
	return &testEnv{
		tx:        tx,
		meet:      meet,
		contracts: contracts,
		calendars: NewCalendarService(tx, meet, nil, func() time.Time { return referenceNow }),
		sweeps:    NewSweepService(tx, contracts, 0, nil),
		inbox:     NewNotificationService(tx, nil),
	}
}

// scheduleParams builds a valid request clearing on 2026-02-16 with a two day
// offset and a three day tier, landing on 2026-02-18 through 2026-02-20.
func scheduleParams(slotID string) ScheduleAfterAuctionParams {
	return ScheduleAfterAuctionParams{
		Principal:            systemPrincipal,
		SlotID:               slotID,
		ExecutiveID:          "exec-1",
		OwnerID:              "owner-1",
		ContractID:           "contract-1",
		AuctionEndDate:       "2026-02-16",
		TierOffsetDays:       2,
		TierDurationDays:     3,
		ContractDeadlineDate: "2026-02-21",
	}
}

func (env *testEnv) allSlots(ctx context.Context) ([]persistence.Slot, error) {
	var slots []persistence.Slot
	err := env.tx.RunInTransaction(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		var err error
		slots, err = repos.Slots.ListAll(ctx)
		return err
	})
	return slots, err
}

func (env *testEnv) notificationsFor(ctx context.Context, userID string) ([]persistence.Notification, error) {
	var list []persistence.Notification
	err := env.tx.RunInTransaction(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		var err error
		list, err = repos.Notifications.ListByUserID(ctx, userID)
		return err
	})
	return list, err
}

func (env *testEnv) calendarFor(ctx context.Context, executiveID string) (persistence.Calendar, error) {
	var calendar persistence.Calendar
	err := env.tx.RunInTransaction(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		var err error
		calendar, err = repos.Calendars.GetByExecutiveID(ctx, executiveID)
		return err
	})
	return calendar, err
}
