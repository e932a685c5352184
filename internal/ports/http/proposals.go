package http

import (
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

type retrievedTimeWindow struct {
	ActiveStart  int64 `json:"activeStart"`
	ActiveEnd    int64 `json:"activeEnd"`
	ExecuteStart int64 `json:"executeStart"`
	ExecuteEnd   int64 `json:"executeEnd"`
}

type retrievedProposal struct {
	ProposalID    string              `json:"proposalID"`
	DAOID         string              `json:"daoID"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	ForumURL      string              `json:"forumURL"`
	ProposalType  string              `json:"proposalType"`
	Proposer      string              `json:"proposer"`
	SchemeAddress string              `json:"schemeAddress"`
	Mechanism     string              `json:"mechanism"`
	IsAnonymous   bool                `json:"isAnonymous"`
	Status        string              `json:"status"`
	Stage         string              `json:"stage"`
	TimeWindow    retrievedTimeWindow `json:"timeWindow"`
	VetoTargetID  string              `json:"vetoTargetID,omitempty"`
}

type retrievedStatus struct {
	Status string `json:"status"`
	Stage  string `json:"stage"`
}

func (r *retrievedProposal) assign(p model.Proposal, state model.ProposalState) {
	r.ProposalID = p.ProposalID.Hex()
	r.DAOID = p.BasicInfo.DAOID.Hex()
	r.Title = p.BasicInfo.Title
	r.Description = p.BasicInfo.Description
	r.ForumURL = p.BasicInfo.ForumURL
	r.ProposalType = p.ProposalType.String()
	r.Proposer = p.Proposer
	r.SchemeAddress = p.BasicInfo.SchemeAddress
	r.Mechanism = p.Mechanism.String()
	r.IsAnonymous = p.BasicInfo.IsAnonymous
	r.Status = state.Status.String()
	r.Stage = state.Stage.String()
	r.TimeWindow = retrievedTimeWindow(p.TimeWindow)
	if p.VetoTargetID != (common.Hash{}) {
		r.VetoTargetID = p.VetoTargetID.Hex()
	}
}

func (ser *server) viewContext(r *http.Request) ledger.TxContext {
	return ledger.TxContext{
		Ctx:   r.Context(),
		Now:   ser.now(),
		State: ser.state(r.Context()),
	}
}

func (ser *server) getProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, err := readHash(r, "proposalID")
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}
	ser.logger.Debug("getting the proposal", zap.String("proposalID", proposalID.Hex()))

	tx := ser.viewContext(r)
	proposal, err := ser.governance.GetProposalInfo(tx.State, proposalID)
	if err != nil {
		ser.engineError(w, err)
		return
	}

	state, err := ser.governance.GetProposalStatus(tx, proposalID)
	if err != nil {
		ser.engineError(w, err)
		return
	}

	var response retrievedProposal
	response.assign(proposal, state)
	ser.respond(w, response)
}

func (ser *server) getProposalStatus(w http.ResponseWriter, r *http.Request) {
	proposalID, err := readHash(r, "proposalID")
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	state, err := ser.governance.GetProposalStatus(ser.viewContext(r), proposalID)
	if err != nil {
		ser.engineError(w, err)
		return
	}

	ser.respond(w, retrievedStatus{Status: state.Status.String(), Stage: state.Stage.String()})
}

func (ser *server) getGovernanceSchemes(w http.ResponseWriter, r *http.Request) {
	daoID, err := readHash(r, "daoID")
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	state := ser.state(r.Context())
	addresses, err := ser.governance.GetSchemeAddresses(state, daoID)
	if err != nil {
		ser.engineError(w, err)
		return
	}

	schemes := make([]model.GovernanceScheme, 0, len(addresses))
	for _, address := range addresses {
		scheme, err := ser.governance.GetGovernanceScheme(state, daoID, address)
		if err != nil {
			ser.engineError(w, err)
			return
		}
		schemes = append(schemes, scheme)
	}

	ser.respond(w, schemes)
}
