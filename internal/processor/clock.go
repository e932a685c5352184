package processor

import (
	"dao-governance/internal/blockchain/blockinfofamily"
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Clock decides the time a transaction runs at.
//
// On chains running the BlockInfo processor it is the timestamp of the
// latest block, and a payload stamped earlier than that block minus the
// sync tolerance is rejected. Without block info the payload timestamp is
// used, checked against a ledger clock shared by both families that never
// goes backwards.
type Clock struct {
	RequireBlockInfo bool
	// MaxDrift bounds how far a payload may run ahead of the ledger clock,
	// zero disables the bound
	MaxDrift time.Duration
}

type ledgerTime struct {
	Timestamp int64 `cbor:"timestamp"`
}

func (c Clock) now(state ledger.State, stamp time.Time) (time.Time, error) {
	block, config, found, err := latestBlock(state)
	if err != nil {
		return time.Time{}, err
	}
	if found {
		if stamp.Before(block.Time().Add(-config.Tolerance())) {
			return time.Time{}, model.InvalidInput(fmt.Sprintf("Transaction timestamp %d is behind the latest block time %d.", stamp.Unix(), block.Timestamp))
		}
		return block.Time(), nil
	}

	if c.RequireBlockInfo {
		return time.Time{}, model.Precondition("Block info is not available.")
	}

	var last ledgerTime
	found, err = ledger.Load(state, governancefamily.GetClockAddress(), &last)
	if err != nil {
		return time.Time{}, err
	}
	if found {
		if stamp.Unix() < last.Timestamp {
			return time.Time{}, model.InvalidInput(fmt.Sprintf("Transaction timestamp %d is behind the ledger clock %d.", stamp.Unix(), last.Timestamp))
		}
		if c.MaxDrift > 0 && stamp.Unix() > last.Timestamp+int64(c.MaxDrift/time.Second) {
			return time.Time{}, model.InvalidInput(fmt.Sprintf("Transaction timestamp %d is too far ahead of the ledger clock %d.", stamp.Unix(), last.Timestamp))
		}
		if stamp.Unix() == last.Timestamp {
			return stamp, nil
		}
	}

	if err := ledger.Save(state, governancefamily.GetClockAddress(), ledgerTime{Timestamp: stamp.Unix()}); err != nil {
		return time.Time{}, err
	}
	return stamp, nil
}

// latestBlock returns the info of the latest block, found is false when
// the chain does not run the BlockInfo processor.
func latestBlock(state ledger.State) (blockinfofamily.BlockInfo, blockinfofamily.Config, bool, error) {
	entries, err := state.GetState([]string{blockinfofamily.ConfigAddress})
	if err != nil {
		return blockinfofamily.BlockInfo{}, blockinfofamily.Config{}, false, errors.New("failed to read the block info config: " + err.Error())
	}
	data := entries[blockinfofamily.ConfigAddress]
	if len(data) == 0 {
		return blockinfofamily.BlockInfo{}, blockinfofamily.Config{}, false, nil
	}

	config, err := blockinfofamily.DecodeConfig(data)
	if err != nil {
		return blockinfofamily.BlockInfo{}, blockinfofamily.Config{}, false, err
	}

	address := blockinfofamily.GetAddress(config.LatestBlock)
	entries, err = state.GetState([]string{address})
	if err != nil {
		return blockinfofamily.BlockInfo{}, blockinfofamily.Config{}, false, errors.New("failed to read the block info: " + err.Error())
	}
	data = entries[address]
	if len(data) == 0 {
		return blockinfofamily.BlockInfo{}, blockinfofamily.Config{}, false, errors.New("block info of block " + strconv.FormatUint(config.LatestBlock, 10) + " is missing")
	}

	block, err := blockinfofamily.DecodeBlockInfo(data)
	if err != nil {
		return blockinfofamily.BlockInfo{}, blockinfofamily.Config{}, false, err
	}
	return block, config, true, nil
}
