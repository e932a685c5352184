package main

import (
	"context"
	"dao-governance/internal/blockchain"
	"dao-governance/internal/config"
	"dao-governance/internal/governance"
	"dao-governance/internal/ledger"
	gatewayhttp "dao-governance/internal/ports/http"
	"dao-governance/internal/vote"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Serve read only proposal and voting views over http",
	Long: `gateway reads the ledger through the validator REST API and derives
proposal statuses at request time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGateway()
	},
}

func init() {
	gatewayCmd.Flags().String("port", "", "Port to listen on, PORT")
	gatewayCmd.Flags().String("rest-api", "", "Validator REST API url, VALIDATOR_RESTAPI_ADDR")
	rootCmd.AddCommand(gatewayCmd)
}

func runGateway() error {
	logger, err := getLogger(config.GetLogLevel())
	if err != nil {
		return errors.New("setting up the logger failed: " + err.Error())
	}
	defer logger.Sync()

	world, err := loadWorld()
	if err != nil {
		return err
	}
	collaborators := world.Collaborators()

	// views never dispatch, the router stays empty
	votes := vote.NewEngine(logger.Named("vote"), config.GetVoteAddress(), config.GetGovernanceAddress(), collaborators)
	engine := governance.NewEngine(logger.Named("governance"), config.GetGovernanceAddress(), config.GetVoteAddress(), config.GetPeriods(), ledger.NewRouter(), votes, collaborators)

	client := blockchain.NewClient(logger.Named("client"), config.GetValidatorRestAPIAddr())
	state := func(ctx context.Context) ledger.State {
		return blockchain.NewRemoteState(ctx, client)
	}

	server := gatewayhttp.NewServer(logger.Named("gateway"), engine, votes, state, config.GetPort())

	errs := make(chan error, 1)
	go func() {
		errs <- server.Run()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-signals:
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()
	return server.Shutdown(ctx)
}
