package governance_test

import (
	"context"
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/governance"
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
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	governanceAddress = "governance"
	voteAddress       = "vote"
	treasuryAddress   = "treasury"

	day int64 = 24 * 60 * 60
	t0  int64 = 1_700_000_000
)

var daoID = common.HexToHash("0xd1")

type call struct {
	sender string
	method string
	params []byte
}

// recorder stands in for any contract a proposal executes against.
type recorder struct {
	calls []call
}

func (r *recorder) Invoke(tx ledger.TxContext, method string, params []byte) error {
	r.calls = append(r.calls, call{sender: tx.Sender, method: method, params: params})
	return nil
}

type fixture struct {
	t        *testing.T
	state    *ledger.MemoryState
	registry *memory.Registry
	tokens   *onchain.TokenLedger
	votes    *vote.Engine
	engine   *governance.Engine
	treasury *recorder
	nonce    int

	uniqueScheme common.Hash
}

func newFixture(t *testing.T) *fixture {
	registry := memory.NewRegistry()
	registry.AddDAO(ports.DAOInfo{DAOID: daoID, Creator: "creator", GovernanceToken: "ELF"}, true)
	registry.SetMembers(daoID, "creator", "m1", "m2")
	registry.SetHighCouncil(daoID, "c1", "c2")

	tokens := onchain.NewTokenLedger()
	tokens.Mint("ELF", "alice", 100)

	collaborators := ports.Collaborators{
		DAO:      registry,
		Election: registry,
		Token:    tokens,
		Merkle:   onchain.NewAccumulator(onchain.DefaultRootHistorySize),
		Verifier: memory.StaticVerifier{Accept: true},
	}

	router := ledger.NewRouter()
	votes := vote.NewEngine(zap.NewNop(), voteAddress, governanceAddress, collaborators)
	engine := governance.NewEngine(zap.NewNop(), governanceAddress, voteAddress, model.DefaultPeriods(), router, votes, collaborators)
	treasury := &recorder{}

	router.Register(governanceAddress, engine)
	router.Register(voteAddress, votes)
	router.Register(treasuryAddress, treasury)

	f := &fixture{
		t:        t,
		state:    ledger.NewMemoryState(),
		registry: registry,
		tokens:   tokens,
		votes:    votes,
		engine:   engine,
		treasury: treasury,
	}

	require.NoError(t, f.run(func() (err error) {
		f.uniqueScheme, err = votes.CreateVoteScheme(f.tx("creator", t0), votefamily.CreateVoteSchemeRequest{Mechanism: model.VoteMechanismUniqueVote})
		return err
	}))
	return f
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

func (f *fixture) run(fn func() error) error {
	return f.state.Run(fn)
}

func defaultThreshold() model.Threshold {
	return model.Threshold{
		MinimalRequiredThreshold:   1,
		MinimalVoteThreshold:       1,
		MinimalApproveThreshold:    5000,
		MaximalRejectionThreshold:  5000,
		MaximalAbstentionThreshold: 5000,
	}
}

func (f *fixture) addScheme(mechanism model.GovernanceMechanism, threshold model.Threshold) string {
	var schemeAddress string
	require.NoError(f.t, f.run(func() (err error) {
		schemeAddress, err = f.engine.AddGovernanceScheme(f.tx("creator", t0), governancefamily.AddGovernanceSchemeRequest{
			DAOID:        daoID,
			Mechanism:    mechanism,
			VoteSchemeID: f.uniqueScheme,
			Threshold:    threshold,
		})
		return err
	}))
	return schemeAddress
}

func basicInfo(schemeAddress string) model.ProposalBasicInfo {
	return model.ProposalBasicInfo{
		DAOID:         daoID,
		Title:         "Fund the audit",
		Description:   "Pay the auditors from the treasury.",
		ForumURL:      "https://forum.example.org/t/audit",
		SchemeAddress: schemeAddress,
	}
}

func treasuryCall() *model.Transaction {
	return &model.Transaction{ContractAddress: treasuryAddress, MethodName: "Transfer", Params: []byte{0x01}}
}

func (f *fixture) createProposal(sender string, now int64, req governancefamily.CreateProposalRequest) (common.Hash, error) {
	var proposalID common.Hash
	err := f.run(func() (err error) {
		proposalID, err = f.engine.CreateProposal(f.tx(sender, now), req)
		return err
	})
	return proposalID, err
}

func (f *fixture) createVeto(sender string, now int64, info model.ProposalBasicInfo, targetID common.Hash) (common.Hash, error) {
	var vetoID common.Hash
	err := f.run(func() (err error) {
		vetoID, err = f.engine.CreateVetoProposal(f.tx(sender, now), governancefamily.CreateVetoProposalRequest{BasicInfo: info, VetoTargetID: targetID})
		return err
	})
	return vetoID, err
}

func (f *fixture) vote(voter string, now int64, itemID common.Hash, option model.VoteOption) {
	require.NoError(f.t, f.run(func() error {
		_, err := f.votes.Vote(f.tx(voter, now), votefamily.VoteRequest{VotingItemID: itemID, Option: option, Amount: 1})
		return err
	}))
}

func (f *fixture) execute(sender string, now int64, proposalID common.Hash) error {
	return f.run(func() error {
		return f.engine.ExecuteProposal(f.tx(sender, now), governancefamily.ExecuteProposalRequest{ProposalID: proposalID})
	})
}

func (f *fixture) status(now int64, proposalID common.Hash) model.ProposalState {
	state, err := f.engine.GetProposalStatus(f.tx("anyone", now), proposalID)
	require.NoError(f.t, err)
	return state
}

func (f *fixture) eventTypes() []string {
	var types []string
	for _, event := range f.state.Events() {
		types = append(types, event.Type)
	}
	return types
}

func state(status model.ProposalStatus, stage model.ProposalStage) model.ProposalState {
	return model.ProposalState{Status: status, Stage: stage}
}
