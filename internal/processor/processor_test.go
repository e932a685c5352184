package processor

import (
	"context"
	"dao-governance/internal/blockchain/assetfamily"
	"dao-governance/internal/blockchain/blockinfofamily"
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/blockchain/settingsfamily"
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/governance"
	"dao-governance/internal/hashing"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"dao-governance/internal/ports"
	"dao-governance/internal/ports/memory"
	"dao-governance/internal/ports/onchain"
	"dao-governance/internal/vote"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor"
	"github.com/hyperledger/sawtooth-sdk-go/processor"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/processor_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/transaction_pb2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	t0  int64 = 1_700_000_000
	day int64 = 24 * 60 * 60
)

var daoID = common.HexToHash("0xd1")

type fixture struct {
	t          *testing.T
	state      *ledger.MemoryState
	votes      *vote.Engine
	governance *governance.Engine
	voteTP     *VoteHandler
	govTP      *GovernanceHandler
	nonce      int
}

func newFixture(t *testing.T) *fixture {
	registry := memory.NewRegistry()
	registry.AddDAO(ports.DAOInfo{DAOID: daoID, Creator: "creator", GovernanceToken: "ELF"}, true)
	registry.SetMembers(daoID, "creator", "m1", "m2")

	collaborators := ports.Collaborators{
		DAO:      registry,
		Election: registry,
		Token:    onchain.NewTokenLedger(),
		Merkle:   onchain.NewAccumulator(onchain.DefaultRootHistorySize),
		Verifier: memory.StaticVerifier{Accept: true},
	}

	router := ledger.NewRouter()
	votes := vote.NewEngine(zap.NewNop(), votefamily.Namespace(), governancefamily.Namespace(), collaborators)
	engine := governance.NewEngine(zap.NewNop(), governancefamily.Namespace(), votefamily.Namespace(), model.DefaultPeriods(), router, votes, collaborators)
	router.Register(votes.Address(), votes)
	router.Register(engine.Address(), engine)

	return &fixture{
		t:          t,
		state:      ledger.NewMemoryState(),
		votes:      votes,
		governance: engine,
		voteTP:     NewVoteHandler(zap.NewNop(), votes, Config{Timeout: time.Second}),
		govTP:      NewGovernanceHandler(zap.NewNop(), engine, Config{Timeout: time.Second}),
	}
}

func (f *fixture) tx(sender string, now int64) ledger.TxContext {
	f.nonce++
	return ledger.TxContext{
		Ctx:    context.Background(),
		TxID:   fmt.Sprintf("tx-%d", f.nonce),
		Sender: sender,
		Now:    time.Unix(now, 0),
		State:  f.state,
	}
}

type requestProcessor interface {
	process(request *processor_pb2.TpProcessRequest, state ledger.State) error
}

// send runs a signed request stamped with now the way the validator would.
func (f *fixture) send(h requestProcessor, sender string, now int64, action string, body interface{}) error {
	payload, err := ledger.EncodeEnvelope(action, now, body)
	require.NoError(f.t, err)

	f.nonce++
	request := &processor_pb2.TpProcessRequest{
		Header:    &transaction_pb2.TransactionHeader{SignerPublicKey: sender},
		Payload:   payload,
		Signature: fmt.Sprintf("sig-%d", f.nonce),
	}
	return f.state.Run(func() error {
		return h.process(request, f.state)
	})
}

func (f *fixture) lastProposalID() common.Hash {
	var created model.ProposalCreated
	found := false
	for _, event := range f.state.Events() {
		if event.Type == model.EventProposalCreated {
			require.NoError(f.t, cbor.Unmarshal(event.Data, &created))
			found = true
		}
	}
	require.True(f.t, found)
	return created.ProposalID
}

// setupOrganization creates a unique vote scheme and an organization
// governance scheme through the handlers.
func (f *fixture) setupOrganization() string {
	require.NoError(f.t, f.send(f.voteTP, "creator", t0, string(votefamily.ActionCreateVoteScheme),
		votefamily.CreateVoteSchemeRequest{Mechanism: model.VoteMechanismUniqueVote}))

	voteSchemeID, err := hashing.ContentID(model.VoteMechanismUniqueVote, false)
	require.NoError(f.t, err)

	require.NoError(f.t, f.send(f.govTP, "creator", t0, string(governancefamily.ActionAddGovernanceScheme),
		governancefamily.AddGovernanceSchemeRequest{
			DAOID:        daoID,
			Mechanism:    model.GovernanceMechanismOrganization,
			VoteSchemeID: voteSchemeID,
			Threshold: model.Threshold{
				MinimalRequiredThreshold:   1,
				MinimalVoteThreshold:       1,
				MinimalApproveThreshold:    5000,
				MaximalRejectionThreshold:  5000,
				MaximalAbstentionThreshold: 5000,
			},
		}))

	return f.governance.SchemeAddress(daoID, model.GovernanceMechanismOrganization)
}

func TestToProcessorError(t *testing.T) {
	assert.Nil(t, toProcessorError(nil))

	for _, err := range []error{
		model.InvalidInput("x"),
		model.NotFound("x"),
		model.Precondition("x"),
		model.PermissionDenied("x"),
		model.InvalidThreshold("x"),
		fmt.Errorf("wrapped: %w", model.Precondition("x")),
	} {
		var invalid *processor.InvalidTransactionError
		assert.ErrorAs(t, toProcessorError(err), &invalid, err.Error())
	}

	var internal *processor.InternalError
	assert.ErrorAs(t, toProcessorError(fmt.Errorf("failed to read the state")), &internal)
}

func TestNewTxContext(t *testing.T) {
	state := ledger.NewMemoryState()

	_, _, err := newTxContext(context.Background(), &processor_pb2.TpProcessRequest{}, state, Clock{})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	request := &processor_pb2.TpProcessRequest{
		Header:    &transaction_pb2.TransactionHeader{SignerPublicKey: "alice"},
		Payload:   []byte("garbage"),
		Signature: "sig",
	}
	_, _, err = newTxContext(context.Background(), request, state, Clock{})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	payload, err := ledger.EncodeEnvelope(string(votefamily.ActionWithdraw), t0, votefamily.WithdrawRequest{Amount: 1})
	require.NoError(t, err)
	request.Payload = payload

	tx, env, err := newTxContext(context.Background(), request, state, Clock{})
	require.NoError(t, err)
	assert.Equal(t, "alice", tx.Sender)
	assert.Equal(t, "sig", tx.TxID)
	assert.Equal(t, t0, tx.Timestamp())
	assert.Equal(t, string(votefamily.ActionWithdraw), env.Action)
}

func TestFamilies(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "daogovernance", f.govTP.FamilyName())
	assert.Equal(t, []string{"1.0"}, f.govTP.FamilyVersions())
	assert.Equal(t, []string{governancefamily.Namespace(), assetfamily.Namespace()}, f.govTP.Namespaces())

	assert.Equal(t, "daovote", f.voteTP.FamilyName())
	assert.Equal(t, []string{"1.0"}, f.voteTP.FamilyVersions())
	assert.Equal(t, []string{votefamily.Namespace(), assetfamily.Namespace(), governancefamily.GetClockAddress()}, f.voteTP.Namespaces())
}

func TestUnknownAction(t *testing.T) {
	f := newFixture(t)

	err := f.send(f.govTP, "creator", t0, "vote", votefamily.VoteRequest{})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	err = f.send(f.voteTP, "creator", t0, "create_proposal", governancefamily.CreateProposalRequest{})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestAdvisoryThroughHandlers(t *testing.T) {
	f := newFixture(t)
	schemeAddress := f.setupOrganization()

	require.NoError(t, f.send(f.govTP, "m1", t0, string(governancefamily.ActionCreateProposal),
		governancefamily.CreateProposalRequest{
			BasicInfo: model.ProposalBasicInfo{
				DAOID:         daoID,
				Title:         "Adopt the charter",
				SchemeAddress: schemeAddress,
			},
			ProposalType: model.ProposalTypeAdvisory,
		}))
	proposalID := f.lastProposalID()

	require.NoError(t, f.send(f.voteTP, "m2", t0+day, string(votefamily.ActionVote),
		votefamily.VoteRequest{VotingItemID: proposalID, Option: model.VoteOptionApproved, Amount: 1}))

	result, err := f.votes.GetVotingResult(f.state, proposalID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.ApproveCounts)
	assert.EqualValues(t, 1, result.TotalVotersCount)

	status, err := f.governance.GetProposalStatus(f.tx("anyone", t0+8*day), proposalID)
	require.NoError(t, err)
	assert.Equal(t, model.ProposalState{Status: model.ProposalStatusApproved, Stage: model.ProposalStageFinished}, status)

	// clear is a no-op on an existing proposal
	require.NoError(t, f.send(f.govTP, "anyone", t0+8*day, string(governancefamily.ActionClearProposal),
		governancefamily.ClearProposalRequest{ProposalID: proposalID}))
}

func TestRejectedTransactionLeavesNoState(t *testing.T) {
	f := newFixture(t)
	schemeAddress := f.setupOrganization()
	before := len(f.state.Events())

	// outsiders cannot propose in an organization dao
	err := f.send(f.govTP, "outsider", t0, string(governancefamily.ActionCreateProposal),
		governancefamily.CreateProposalRequest{
			BasicInfo:    model.ProposalBasicInfo{DAOID: daoID, Title: "Spam", SchemeAddress: schemeAddress},
			ProposalType: model.ProposalTypeAdvisory,
		})
	assert.ErrorIs(t, err, model.ErrPermissionDenied)
	assert.Len(t, f.state.Events(), before)
}

func TestActivePeriodFromSettings(t *testing.T) {
	f := newFixture(t)
	schemeAddress := f.setupOrganization()

	setting, err := settingsfamily.Encode(settingsfamily.KeyActivePeriod, "192h")
	require.NoError(t, err)
	_, err = f.state.SetState(map[string][]byte{settingsfamily.GetAddress(settingsfamily.KeyActivePeriod): setting})
	require.NoError(t, err)
	f.state.Commit()

	require.NoError(t, f.send(f.govTP, "m1", t0, string(governancefamily.ActionCreateProposal),
		governancefamily.CreateProposalRequest{
			BasicInfo:    model.ProposalBasicInfo{DAOID: daoID, Title: "Longer vote", SchemeAddress: schemeAddress},
			ProposalType: model.ProposalTypeAdvisory,
		}))

	proposal, err := f.governance.GetProposalInfo(f.state, f.lastProposalID())
	require.NoError(t, err)
	assert.Equal(t, t0+8*day, proposal.TimeWindow.ActiveEnd)

	// the configured engine is untouched
	assert.Equal(t, 7*24*time.Hour, f.governance.Periods().Active)
}

func TestLoadPeriodsRejectsInvalidSetting(t *testing.T) {
	state := ledger.NewMemoryState()
	setting, err := settingsfamily.Encode(settingsfamily.KeyPendingPeriod, "soon")
	require.NoError(t, err)
	_, err = state.SetState(map[string][]byte{settingsfamily.GetAddress(settingsfamily.KeyPendingPeriod): setting})
	require.NoError(t, err)

	_, err = loadPeriods(state, model.DefaultPeriods())
	assert.Error(t, err)

	periods, err := loadPeriods(ledger.NewMemoryState(), model.DefaultPeriods())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPeriods(), periods)
}

func (f *fixture) createAdvisory(schemeAddress string, now int64) common.Hash {
	require.NoError(f.t, f.send(f.govTP, "m1", now, string(governancefamily.ActionCreateProposal),
		governancefamily.CreateProposalRequest{
			BasicInfo:    model.ProposalBasicInfo{DAOID: daoID, Title: "Adopt the charter", SchemeAddress: schemeAddress},
			ProposalType: model.ProposalTypeAdvisory,
		}))
	return f.lastProposalID()
}

func (f *fixture) setBlock(blockNum uint64, timestamp int64) {
	_, err := f.state.SetState(map[string][]byte{
		blockinfofamily.ConfigAddress: blockinfofamily.EncodeConfig(blockinfofamily.Config{
			LatestBlock: blockNum,
			TargetCount: 256,
		}),
		blockinfofamily.GetAddress(blockNum): blockinfofamily.EncodeBlockInfo(blockinfofamily.BlockInfo{
			BlockNum:  blockNum,
			Timestamp: uint64(timestamp),
		}),
	})
	require.NoError(f.t, err)
	f.state.Commit()
}

func TestBackdatedVoteRejected(t *testing.T) {
	f := newFixture(t)
	proposalID := f.createAdvisory(f.setupOrganization(), t0)

	require.NoError(t, f.send(f.voteTP, "m2", t0+day, string(votefamily.ActionVote),
		votefamily.VoteRequest{VotingItemID: proposalID, Option: model.VoteOptionApproved, Amount: 1}))
	// any later transaction moves the ledger clock past the voting period
	require.NoError(t, f.send(f.govTP, "anyone", t0+10*day, string(governancefamily.ActionClearProposal),
		governancefamily.ClearProposalRequest{ProposalID: proposalID}))

	for _, voter := range []string{"m1", "creator"} {
		err := f.send(f.voteTP, voter, t0+2*day, string(votefamily.ActionVote),
			votefamily.VoteRequest{VotingItemID: proposalID, Option: model.VoteOptionRejected, Amount: 1})
		require.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Contains(t, err.Error(), "behind the ledger clock")
	}

	result, err := f.votes.GetVotingResult(f.state, proposalID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, result.RejectCounts)

	status, err := f.governance.GetProposalStatus(f.tx("anyone", t0+20*day), proposalID)
	require.NoError(t, err)
	assert.Equal(t, model.ProposalState{Status: model.ProposalStatusApproved, Stage: model.ProposalStageFinished}, status)
}

func TestTimeFromBlockInfo(t *testing.T) {
	f := newFixture(t)
	proposalID := f.createAdvisory(f.setupOrganization(), t0)
	f.setBlock(7, t0+day)

	// a payload stamped after the voting period still runs at block time
	require.NoError(t, f.send(f.voteTP, "m2", t0+30*day, string(votefamily.ActionVote),
		votefamily.VoteRequest{VotingItemID: proposalID, Option: model.VoteOptionApproved, Amount: 1}))
	record, found, err := f.votes.GetVotingRecord(f.state, proposalID, "m2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, t0+day, record.VoteTimestamp)

	// stale payloads are rejected
	err = f.send(f.voteTP, "m1", t0, string(votefamily.ActionVote),
		votefamily.VoteRequest{VotingItemID: proposalID, Option: model.VoteOptionRejected, Amount: 1})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	// once the chain is past the voting period no payload timestamp reopens it
	f.setBlock(8, t0+8*day)
	err = f.send(f.voteTP, "m1", t0+8*day, string(votefamily.ActionVote),
		votefamily.VoteRequest{VotingItemID: proposalID, Option: model.VoteOptionRejected, Amount: 1})
	assert.ErrorIs(t, err, model.ErrPrecondition)
}

func TestRequireBlockInfo(t *testing.T) {
	f := newFixture(t)
	f.voteTP = NewVoteHandler(zap.NewNop(), f.votes, Config{Clock: Clock{RequireBlockInfo: true}})

	createScheme := func() error {
		return f.send(f.voteTP, "creator", t0, string(votefamily.ActionCreateVoteScheme),
			votefamily.CreateVoteSchemeRequest{Mechanism: model.VoteMechanismUniqueVote})
	}
	assert.ErrorIs(t, createScheme(), model.ErrPrecondition)

	f.setBlock(1, t0)
	assert.NoError(t, createScheme())
}

func TestLedgerClock(t *testing.T) {
	state := ledger.NewMemoryState()
	clock := Clock{MaxDrift: time.Hour}
	at := func(ts int64) time.Time { return time.Unix(ts, 0).UTC() }

	now, err := clock.now(state, at(t0))
	require.NoError(t, err)
	assert.Equal(t, at(t0), now)

	_, err = clock.now(state, at(t0+2*60*60))
	assert.ErrorIs(t, err, model.ErrInvalidInput, "too far ahead")

	now, err = clock.now(state, at(t0+30*60))
	require.NoError(t, err)
	assert.Equal(t, at(t0+30*60), now)

	_, err = clock.now(state, at(t0+10*60))
	assert.ErrorIs(t, err, model.ErrInvalidInput, "backwards")

	// the same second twice is fine
	_, err = clock.now(state, at(t0+30*60))
	assert.NoError(t, err)
}
