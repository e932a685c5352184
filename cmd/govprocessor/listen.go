package main

import (
	"dao-governance/internal/blockchain/events"
	"dao-governance/internal/config"
	"dao-governance/internal/model"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Log the governance events committed by the validator",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := getLogger(config.GetLogLevel())
		if err != nil {
			return errors.New("setting up the logger failed: " + err.Error())
		}
		defer logger.Sync()

		listener := events.NewEventListener(logger.Named("events"), config.GetValidatorAddr())
		registerEventLoggers(logger, listener)

		if err := listener.Start(); err != nil {
			return errors.New("failed to start the event listener: " + err.Error())
		}

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		<-signals

		return listener.Stop()
	},
}

func registerEventLoggers(logger *zap.Logger, listener *events.EventListener) {
	events.Handle(listener, model.EventProposalCreated, func(e model.ProposalCreated) error {
		logger.Info("proposal created",
			zap.String("proposalID", e.ProposalID.Hex()),
			zap.String("daoID", e.DAOID.Hex()),
			zap.String("type", e.ProposalType.String()),
			zap.String("proposer", e.Proposer))
		return nil
	})
	events.Handle(listener, model.EventProposalExecuted, func(e model.ProposalExecuted) error {
		logger.Info("proposal executed", zap.String("proposalID", e.ProposalID.Hex()), zap.Int64("executeAt", e.ExecuteAt))
		return nil
	})
	events.Handle(listener, model.EventProposalVetoed, func(e model.ProposalVetoed) error {
		logger.Info("proposal vetoed", zap.String("proposalID", e.ProposalID.Hex()), zap.String("vetoProposalID", e.VetoProposalID.Hex()))
		return nil
	})
	events.Handle(listener, model.EventVotingItemRegistered, func(e model.VotingItemRegistered) error {
		logger.Info("voting item registered", zap.String("votingItemID", e.VotingItem.VotingItemID.Hex()))
		return nil
	})
	events.Handle(listener, model.EventVoted, func(e model.Voted) error {
		logger.Info("voted",
			zap.String("votingItemID", e.VotingItemID.Hex()),
			zap.String("voter", e.Voter),
			zap.String("option", e.Option.String()),
			zap.Int64("amount", e.Amount))
		return nil
	})
	events.Handle(listener, model.EventCommitted, func(e model.Committed) error {
		logger.Info("commitment registered", zap.String("votingItemID", e.VotingItemID.Hex()), zap.Int64("leafIndex", e.LeafIndex))
		return nil
	})
	events.Handle(listener, model.EventWithdrawn, func(e model.Withdrawn) error {
		logger.Info("tokens withdrawn", zap.String("withdrawer", e.Withdrawer), zap.Int64("amount", e.Amount))
		return nil
	})
}
