// Package governance owns proposals and governance schemes. A proposal's
// status is never trusted as stored: it is derived on every read from the
// live tally of its voting item and the threshold it was created with.
package governance

import (
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"dao-governance/internal/ports"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Dispatcher delivers inline calls to other contracts within the running
// transaction.
type Dispatcher interface {
	Send(tx ledger.TxContext, to string, method string, params []byte) error
}

// Tally is the read side of the vote contract.
type Tally interface {
	GetVoteScheme(state ledger.State, schemeID common.Hash) (model.VoteScheme, error)
	GetVotingResult(state ledger.State, votingItemID common.Hash) (model.VotingResult, error)
}

type Engine struct {
	logger *zap.Logger

	address     string
	voteAddress string
	periods     model.Periods

	dispatcher Dispatcher
	tally      Tally

	dao      ports.DAO
	election ports.Election
	token    ports.Token
}

func NewEngine(logger *zap.Logger, address string, voteAddress string, periods model.Periods, dispatcher Dispatcher, tally Tally, collaborators ports.Collaborators) *Engine {
	return &Engine{
		logger:      logger,
		address:     address,
		voteAddress: voteAddress,
		periods:     periods,
		dispatcher:  dispatcher,
		tally:       tally,
		dao:         collaborators.DAO,
		election:    collaborators.Election,
		token:       collaborators.Token,
	}
}

func (e *Engine) Address() string {
	return e.address
}

func (e *Engine) Periods() model.Periods {
	return e.periods
}

// WithPeriods returns a copy of the engine using periods for new proposals.
func (e *Engine) WithPeriods(periods model.Periods) *Engine {
	c := *e
	c.periods = periods
	return &c
}

func (e *Engine) GetProposalInfo(state ledger.State, proposalID common.Hash) (model.Proposal, error) {
	var proposal model.Proposal
	found, err := ledger.Load(state, governancefamily.GetProposalAddressFromID(proposalID), &proposal)
	if err != nil {
		return model.Proposal{}, err
	}
	if !found {
		return model.Proposal{}, model.NotFound("Proposal not found.")
	}
	return proposal, nil
}

func (e *Engine) saveProposal(state ledger.State, proposal model.Proposal) error {
	return ledger.Save(state, governancefamily.GetProposalAddressFromID(proposal.ProposalID), proposal)
}

func (e *Engine) proposalExists(state ledger.State, proposalID common.Hash) (bool, error) {
	return ledger.Exists(state, governancefamily.GetProposalAddressFromID(proposalID))
}

// councilMembers returns the block producers of the network dao, the
// elected high council of any other dao.
func (e *Engine) councilMembers(tx ledger.TxContext, daoID common.Hash) ([]string, error) {
	info, err := e.dao.GetDAOInfo(tx.Ctx, daoID)
	if err != nil {
		return nil, err
	}
	if info.IsNetworkDAO {
		return e.election.GetVictories(tx.Ctx, daoID)
	}
	return e.election.GetHighCouncilMembers(tx.Ctx, daoID)
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
