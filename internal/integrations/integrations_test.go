package integrations

import (
	"context"
	"regexp"
	"testing"
)

func TestCreateMeetingLinkShape(t *testing.T) {
	provider := &SimulatedMeetProvider{random: func() string { return "fixed-entropy" }}

	link, err := provider.CreateMeeting(context.Background(), MeetingRequest{
		SlotID:      "slot-1",
		ExecutiveID: "exec-1",
		OwnerID:     "owner-1",
	})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}

	pattern := regexp.MustCompile(`^https://meet\.google\.com/[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{5}$`)
	if !pattern.MatchString(link) {
		t.Errorf("link %q does not match meet shape", link)
	}

	again, err := provider.CreateMeeting(context.Background(), MeetingRequest{
		SlotID:      "slot-1",
		ExecutiveID: "exec-1",
		OwnerID:     "owner-1",
	})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	if again != link {
		t.Errorf("same request and entropy produced %q and %q", link, again)
	}
}

func TestCreateMeetingDistinctEntropy(t *testing.T) {
	provider := NewSimulatedMeetProvider()

	first, err := provider.CreateMeeting(context.Background(), MeetingRequest{SlotID: "slot-1"})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	second, err := provider.CreateMeeting(context.Background(), MeetingRequest{SlotID: "slot-1"})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	if first == second {
		t.Errorf("expected distinct links for repeated provisioning, got %q twice", first)
	}
}

func TestEvaluateContract(t *testing.T) {
	gateway := NewSimulatedContractGateway()

	tests := []struct {
		contractID string
		want       Resolution
	}{
		{"contract-ok", ResolutionCompleted},
		{"contract-br", ResolutionBreached},
		{"contract-42", ResolutionPending},
		{"ok", ResolutionCompleted},
		{"", ResolutionPending},
	}
	for _, tt := range tests {
		got, err := gateway.EvaluateContract(context.Background(), tt.contractID)
		if err != nil {
			t.Fatalf("%s: %v", tt.contractID, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.contractID, got, tt.want)
		}
	}
}
