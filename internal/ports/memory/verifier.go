package memory

import (
	"context"
	"dao-governance/internal/model"
	"dao-governance/internal/ports"
)

// StaticVerifier answers every proof the same way. The standalone
// processor uses a rejecting one until a real verifier is plugged in.
type StaticVerifier struct {
	Accept bool
}

func (v StaticVerifier) VerifyProof(ctx context.Context, proof model.Proof, inputs ports.PublicInputs) (bool, error) {
	return v.Accept, nil
}
