package integrations

import (
	"context"
	"strings"
)

// Resolution is the outcome reported by the contract system for a contract
// whose deadline has passed.
type Resolution string

const (
	ResolutionCompleted Resolution = "COMPLETED"
	ResolutionBreached  Resolution = "BREACHED"
	ResolutionPending   Resolution = "PENDING"
)

// ContractGateway asks the contract system how a contract resolved.
type ContractGateway interface {
	EvaluateContract(ctx context.Context, contractID string) (Resolution, error)
}

// SimulatedContractGateway resolves contracts from their identifier suffix:
// "ok" completes, "br" breaches, anything else stays pending.
type SimulatedContractGateway struct{}

// NewSimulatedContractGateway returns the suffix-driven gateway.
func NewSimulatedContractGateway() *SimulatedContractGateway {
	return &SimulatedContractGateway{}
}

func (SimulatedContractGateway) EvaluateContract(_ context.Context, contractID string) (Resolution, error) {
	switch {
	case strings.HasSuffix(contractID, "ok"):
		return ResolutionCompleted, nil
	case strings.HasSuffix(contractID, "br"):
		return ResolutionBreached, nil
	default:
		return ResolutionPending, nil
	}
}
