package onchain

import (
	"dao-governance/internal/blockchain/assetfamily"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const DefaultRootHistorySize = 30

type tree struct {
	NextIndex int64         `cbor:"nextIndex"`
	Roots     []common.Hash `cbor:"roots"` // ring buffer
	Current   int           `cbor:"current"`
}

// Accumulator chains keccak(root, leaf) instead of building a real
// incremental merkle tree. It keeps the same ring buffer of recent roots,
// which is all the vote engine observes.
type Accumulator struct {
	historySize int
}

func NewAccumulator(historySize int) *Accumulator {
	if historySize <= 0 {
		historySize = DefaultRootHistorySize
	}
	return &Accumulator{historySize: historySize}
}

func (a *Accumulator) load(state ledger.State, treeID common.Hash) (tree, error) {
	var t tree
	found, err := ledger.Load(state, assetfamily.GetTreeAddress(treeID), &t)
	if err != nil {
		return tree{}, err
	}
	if !found || len(t.Roots) == 0 {
		return tree{}, model.NotFound("Tree not found.")
	}
	return t, nil
}

func (a *Accumulator) CreateTree(state ledger.State, treeID common.Hash) error {
	exists, err := ledger.Exists(state, assetfamily.GetTreeAddress(treeID))
	if err != nil {
		return err
	}
	if exists {
		return model.Precondition("Tree already exists.")
	}
	return ledger.Save(state, assetfamily.GetTreeAddress(treeID), tree{Roots: make([]common.Hash, a.historySize)})
}

func (a *Accumulator) InsertLeaf(state ledger.State, treeID common.Hash, leaf common.Hash) (int64, error) {
	t, err := a.load(state, treeID)
	if err != nil {
		return 0, err
	}

	root := crypto.Keccak256Hash(t.Roots[t.Current].Bytes(), leaf.Bytes())
	t.Current = (t.Current + 1) % len(t.Roots)
	t.Roots[t.Current] = root

	index := t.NextIndex
	t.NextIndex++

	if err := ledger.Save(state, assetfamily.GetTreeAddress(treeID), t); err != nil {
		return 0, err
	}
	return index, nil
}

func (a *Accumulator) GetLastRoot(state ledger.State, treeID common.Hash) (common.Hash, error) {
	t, err := a.load(state, treeID)
	if err != nil {
		return common.Hash{}, err
	}
	return t.Roots[t.Current], nil
}

func (a *Accumulator) GetNextIndex(state ledger.State, treeID common.Hash) (int64, error) {
	t, err := a.load(state, treeID)
	if err != nil {
		return 0, err
	}
	return t.NextIndex, nil
}

func (a *Accumulator) IsKnownRoot(state ledger.State, treeID common.Hash, root common.Hash) (bool, error) {
	t, err := a.load(state, treeID)
	if err != nil {
		return false, err
	}
	if root == (common.Hash{}) {
		return false, nil
	}
	for _, known := range t.Roots {
		if known == root {
			return true, nil
		}
	}
	return false, nil
}
