// Package integrations contains the outbound gateways the scheduler depends
// on: meeting-link provisioning and contract resolution. Production wiring
// uses the simulated implementations; real providers satisfy the same
// interfaces.
package integrations

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// MeetingRequest identifies the parties a meeting link is provisioned for.
type MeetingRequest struct {
	SlotID      string
	ExecutiveID string
	OwnerID     string
}

// MeetingProvider provisions a meeting link for a scheduled slot.
type MeetingProvider interface {
	CreateMeeting(ctx context.Context, req MeetingRequest) (string, error)
}

// SimulatedMeetProvider derives stable-looking Google Meet links without
// calling any external API.
type SimulatedMeetProvider struct {
	// random supplies the per-call entropy. Overridable in tests.
	random func() string
}

// NewSimulatedMeetProvider returns a provider seeded with uuid randomness.
func NewSimulatedMeetProvider() *SimulatedMeetProvider {
	return &SimulatedMeetProvider{random: uuid.NewString}
}

// CreateMeeting returns a link in the meet.google.com xxx-xxxx-xxxxx shape.
func (p *SimulatedMeetProvider) CreateMeeting(_ context.Context, req MeetingRequest) (string, error) {
	seed := fmt.Sprintf("%s:%s:%s:%s", req.SlotID, req.ExecutiveID, req.OwnerID, p.random())
	sum := sha256.Sum256([]byte(seed))
	token := hex.EncodeToString(sum[:])[:12]
	return fmt.Sprintf("https://meet.google.com/%s-%s-%s", token[0:3], token[3:7], token[7:12]), nil
}
