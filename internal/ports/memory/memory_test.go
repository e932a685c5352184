package memory_test

import (
	"context"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"dao-governance/internal/ports/memory"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genesis = `
daos:
  - id: "0x00000000000000000000000000000000000000000000000000000000000000d1"
    creator: alice
    governanceToken: ELF
    subsisting: true
    members: [alice, bob]
    highCouncil: [alice]
balances:
  ELF:
    alice: 100
acceptAllProofs: true
rootHistorySize: 2
`

func TestLoadGenesis(t *testing.T) {
	ctx := context.Background()
	world, err := memory.LoadGenesis([]byte(genesis))
	require.NoError(t, err)

	daoID := common.HexToHash("0xd1")
	info, err := world.Registry.GetDAOInfo(ctx, daoID)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Creator)
	assert.Equal(t, "ELF", info.GovernanceToken)

	isMember, err := world.Registry.GetIsMember(ctx, daoID, "bob")
	require.NoError(t, err)
	assert.True(t, isMember)

	council, err := world.Registry.GetHighCouncilMembers(ctx, daoID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, council)

	balance, err := world.Tokens.GetBalance(ledger.NewMemoryState(), "alice", "ELF")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
	assert.True(t, world.Verifier.Accept)

	_, err = world.Registry.GetDAOInfo(ctx, common.HexToHash("0xd2"))
	assert.ErrorIs(t, err, model.ErrNotFound)
}
