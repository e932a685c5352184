package governance

import (
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/hashing"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"dao-governance/internal/vote"
	"net/url"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2048
	maxForumURLLength    = 512
)

func validateForumURL(forumURL string) error {
	if forumURL == "" {
		return nil
	}
	if len(forumURL) > maxForumURLLength {
		return model.InvalidInput("Invalid forum url.")
	}

	u, err := url.Parse(forumURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return model.InvalidInput("Invalid forum url.")
	}
	return nil
}

func validateBasicInfo(info model.ProposalBasicInfo) error {
	var err error

	if info.DAOID == (common.Hash{}) {
		err = multierr.Append(err, model.InvalidInput("Invalid dao id."))
	}
	if title := utf8.RuneCountInString(info.Title); title == 0 || title > maxTitleLength {
		err = multierr.Append(err, model.InvalidInput("Invalid proposal title."))
	}
	if utf8.RuneCountInString(info.Description) > maxDescriptionLength {
		err = multierr.Append(err, model.InvalidInput("Invalid proposal description."))
	}
	err = multierr.Append(err, validateForumURL(info.ForumURL))
	if info.SchemeAddress == "" {
		err = multierr.Append(err, model.InvalidInput("Invalid scheme address."))
	}

	return err
}

// activeWindow resolves the voting period from either a relative period
// or an explicit pair, never both. With neither set the default active
// period starts now.
func (e *Engine) activeWindow(info model.ProposalBasicInfo, now int64) (start int64, end int64, err error) {
	minActive, maxActive := seconds(e.periods.MinActive), seconds(e.periods.MaxActive)
	explicit := info.ActiveStartTime != 0 || info.ActiveEndTime != 0

	switch {
	case explicit && info.ActiveTimePeriod != 0:
		return 0, 0, model.InvalidInput("Either an active time period or an active start and end time can be set.")

	case explicit:
		start, end = info.ActiveStartTime, info.ActiveEndTime
		if start < now {
			return 0, 0, model.InvalidInput("Invalid active start time.")
		}
		if end-start < minActive || end-start > maxActive {
			return 0, 0, model.InvalidInput("Invalid active time period.")
		}
		return start, end, nil

	case info.ActiveTimePeriod != 0:
		if info.ActiveTimePeriod < minActive || info.ActiveTimePeriod > maxActive {
			return 0, 0, model.InvalidInput("Invalid active time period.")
		}
		return now, now + info.ActiveTimePeriod, nil
	}

	return now, now + seconds(e.periods.Active), nil
}

func (e *Engine) governanceWindow(info model.ProposalBasicInfo, mechanism model.GovernanceMechanism, now int64) (model.TimeWindow, error) {
	start, end, err := e.activeWindow(info, now)
	if err != nil {
		return model.TimeWindow{}, err
	}

	executeStart := end
	if mechanism == model.GovernanceMechanismHighCouncil {
		executeStart += seconds(e.periods.Pending)
	}

	return model.TimeWindow{
		ActiveStart:  start,
		ActiveEnd:    end,
		ExecuteStart: executeStart,
		ExecuteEnd:   executeStart + seconds(e.periods.Execute),
	}, nil
}

func (e *Engine) assertProposer(tx ledger.TxContext, scheme model.GovernanceScheme, governanceToken string) error {
	switch scheme.Mechanism {
	case model.GovernanceMechanismHighCouncil:
		council, err := e.councilMembers(tx, scheme.DAOID)
		if err != nil {
			return err
		}
		if !lo.Contains(council, tx.Sender) {
			return model.PermissionDenied("No permission to propose, not a high council member.")
		}

	case model.GovernanceMechanismOrganization:
		member, err := e.dao.GetIsMember(tx.Ctx, scheme.DAOID, tx.Sender)
		if err != nil {
			return err
		}
		if !member {
			return model.PermissionDenied("No permission to propose, not an organization member.")
		}

	case model.GovernanceMechanismReferendum:
		if scheme.Threshold.ProposalThreshold <= 0 {
			return nil
		}
		balance, err := e.token.GetBalance(tx.State, tx.Sender, governanceToken)
		if err != nil {
			return err
		}
		if balance < scheme.Threshold.ProposalThreshold {
			return model.PermissionDenied("No permission to propose, insufficient balance.")
		}
	}

	return nil
}

// loadProposalContext checks the dao and the scheme a new proposal refers to.
func (e *Engine) loadProposalContext(tx ledger.TxContext, info model.ProposalBasicInfo) (model.GovernanceScheme, model.VoteScheme, string, error) {
	daoInfo, err := e.dao.GetDAOInfo(tx.Ctx, info.DAOID)
	if err != nil {
		return model.GovernanceScheme{}, model.VoteScheme{}, "", err
	}
	subsisting, err := e.dao.GetSubsistStatus(tx.Ctx, info.DAOID)
	if err != nil {
		return model.GovernanceScheme{}, model.VoteScheme{}, "", err
	}
	if !subsisting {
		return model.GovernanceScheme{}, model.VoteScheme{}, "", model.Precondition("DAO is not in subsistence.")
	}

	scheme, err := e.GetGovernanceScheme(tx.State, info.DAOID, info.SchemeAddress)
	if err != nil {
		return model.GovernanceScheme{}, model.VoteScheme{}, "", err
	}
	voteScheme, err := e.tally.GetVoteScheme(tx.State, scheme.VoteSchemeID)
	if err != nil {
		return model.GovernanceScheme{}, model.VoteScheme{}, "", err
	}

	if err := e.assertProposer(tx, scheme, daoInfo.GovernanceToken); err != nil {
		return model.GovernanceScheme{}, model.VoteScheme{}, "", err
	}

	return scheme, voteScheme, daoInfo.GovernanceToken, nil
}

// CreateProposal creates a governance or advisory proposal and registers
// its voting item.
func (e *Engine) CreateProposal(tx ledger.TxContext, req governancefamily.CreateProposalRequest) (common.Hash, error) {
	switch req.ProposalType {
	case model.ProposalTypeGovernance:
		if req.Transaction == nil || req.Transaction.ContractAddress == "" || req.Transaction.MethodName == "" {
			return common.Hash{}, model.InvalidInput("Invalid transaction.")
		}
		if req.Transaction.ContractAddress == e.address && req.Transaction.MethodName == governancefamily.MethodVetoProposal {
			return common.Hash{}, model.InvalidInput("Invalid transaction, veto proposals must be created as such.")
		}
	case model.ProposalTypeAdvisory:
		if req.Transaction != nil {
			return common.Hash{}, model.InvalidInput("Advisory proposal can not have a transaction.")
		}
	default:
		return common.Hash{}, model.InvalidInput("Invalid proposal type.")
	}

	if err := validateBasicInfo(req.BasicInfo); err != nil {
		return common.Hash{}, err
	}

	scheme, voteScheme, token, err := e.loadProposalContext(tx, req.BasicInfo)
	if err != nil {
		return common.Hash{}, err
	}

	now := tx.Timestamp()
	window, err := e.governanceWindow(req.BasicInfo, scheme.Mechanism, now)
	if err != nil {
		return common.Hash{}, err
	}

	proposalID, err := hashing.ContentID(req.BasicInfo, req.ProposalType, req.Transaction, tx.Sender, tx.TxID)
	if err != nil {
		return common.Hash{}, err
	}

	proposal := model.Proposal{
		ProposalID:    proposalID,
		BasicInfo:     req.BasicInfo,
		ProposalType:  req.ProposalType,
		Status:        model.ProposalStatusPendingVote,
		Stage:         model.ProposalStageActive,
		TimeWindow:    window,
		Proposer:      tx.Sender,
		Transaction:   req.Transaction,
		Mechanism:     scheme.Mechanism,
		VoteSchemeID:  scheme.VoteSchemeID,
		VoteMechanism: voteScheme.Mechanism,
		Threshold:     scheme.Threshold,
	}
	if err := e.persistNew(tx, proposal, token); err != nil {
		return common.Hash{}, err
	}

	e.logger.Info("proposal created", zap.String("proposalID", proposalID.Hex()), zap.String("daoID", req.BasicInfo.DAOID.Hex()), zap.Stringer("type", req.ProposalType), zap.String("proposer", tx.Sender))
	return proposalID, nil
}

// persistNew registers the voting item of a fresh proposal, then stores it.
func (e *Engine) persistNew(tx ledger.TxContext, proposal model.Proposal, token string) error {
	exists, err := e.proposalExists(tx.State, proposal.ProposalID)
	if err != nil {
		return err
	}
	if exists {
		return model.Precondition("Proposal already exists.")
	}

	params, err := cbor.Marshal(votefamily.RegisterRequest{
		VotingItemID:        proposal.ProposalID,
		DAOID:               proposal.BasicInfo.DAOID,
		SchemeID:            proposal.VoteSchemeID,
		AcceptedToken:       token,
		StartTimestamp:      proposal.TimeWindow.ActiveStart,
		EndTimestamp:        proposal.TimeWindow.ActiveEnd,
		GovernanceMechanism: proposal.Mechanism,
		IsAnonymous:         proposal.BasicInfo.IsAnonymous,
	}, cbor.CanonicalEncOptions())
	if err != nil {
		return err
	}
	if err := e.dispatcher.Send(tx.As(e.address), e.voteAddress, vote.MethodRegister, params); err != nil {
		return err
	}

	if err := e.saveProposal(tx.State, proposal); err != nil {
		return err
	}

	event := model.ProposalCreated{
		ProposalID:    proposal.ProposalID,
		DAOID:         proposal.BasicInfo.DAOID,
		ProposalType:  proposal.ProposalType,
		Proposer:      proposal.Proposer,
		SchemeAddress: proposal.BasicInfo.SchemeAddress,
		TimeWindow:    proposal.TimeWindow,
		VetoTargetID:  proposal.VetoTargetID,
	}
	return ledger.Emit(tx.State, model.EventProposalCreated, event,
		ledger.Attr("proposalID", proposal.ProposalID.Hex()),
		ledger.Attr("daoID", proposal.BasicInfo.DAOID.Hex()),
	)
}
