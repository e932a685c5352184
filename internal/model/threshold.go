package model

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// AbstractVoteTotal is the basis point denominator of every threshold ratio.
const AbstractVoteTotal int64 = 10000

// Threshold is copied onto a proposal when it is created, later scheme
// edits never reach proposals already in flight.
type Threshold struct {
	// voter count floor, or basis points of the council size for HighCouncil
	MinimalRequiredThreshold   int64 `cbor:"minimalRequiredThreshold"`
	MinimalVoteThreshold       int64 `cbor:"minimalVoteThreshold"`
	MinimalApproveThreshold    int64 `cbor:"minimalApproveThreshold"`
	MaximalRejectionThreshold  int64 `cbor:"maximalRejectionThreshold"`
	MaximalAbstentionThreshold int64 `cbor:"maximalAbstentionThreshold"`
	ProposalThreshold          int64 `cbor:"proposalThreshold"`
}

func (t Threshold) Validate(mechanism GovernanceMechanism) error {
	var err error

	fields := []struct {
		name  string
		value int64
	}{
		{"minimal required threshold", t.MinimalRequiredThreshold},
		{"minimal vote threshold", t.MinimalVoteThreshold},
		{"minimal approve threshold", t.MinimalApproveThreshold},
		{"maximal rejection threshold", t.MaximalRejectionThreshold},
		{"maximal abstention threshold", t.MaximalAbstentionThreshold},
		{"proposal threshold", t.ProposalThreshold},
	}
	for _, field := range fields {
		if field.value < 0 {
			err = multierr.Append(err, errors.New(field.name+" is negative"))
		}
	}

	if t.MinimalApproveThreshold > AbstractVoteTotal {
		err = multierr.Append(err, errors.New("minimal approve threshold exceeds the vote total"))
	}
	if t.MaximalAbstentionThreshold+t.MinimalApproveThreshold > AbstractVoteTotal {
		err = multierr.Append(err, errors.New("abstention and approve thresholds exceed the vote total"))
	}
	if t.MaximalRejectionThreshold+t.MinimalApproveThreshold > AbstractVoteTotal {
		err = multierr.Append(err, errors.New("rejection and approve thresholds exceed the vote total"))
	}
	if mechanism == GovernanceMechanismHighCouncil && t.MinimalRequiredThreshold > AbstractVoteTotal {
		err = multierr.Append(err, errors.New("high council quorum exceeds the vote total"))
	}

	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidThreshold, err.Error())
	}
	return nil
}
