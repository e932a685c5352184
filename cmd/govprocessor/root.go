package main

import (
	"dao-governance/internal/config"
	"dao-governance/internal/governance"
	"dao-governance/internal/ledger"
	"dao-governance/internal/ports/memory"
	tp "dao-governance/internal/processor"
	"dao-governance/internal/vote"
	"errors"
	"os"
	"syscall"
	"time"

	"github.com/hyperledger/sawtooth-sdk-go/processor"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "govprocessor",
	Short: "Transaction processor for the DAO governance and vote families",
	Long: `govprocessor registers the daogovernance and daovote transaction
families with a sawtooth validator and applies their transactions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.New("failed to load " + envFile + ": " + err.Error())
		}
		return bindFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcessor()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "Optional file with environment variables")
	flags.String("validator", "", "Validator component endpoint, VALIDATOR_ADDR")
	flags.String("log-level", "", "Log level, LOG_LEVEL")
	flags.String("genesis", "", "Yaml file seeding the DAOs, councils and balances, GENESIS_FILE")

	rootCmd.AddCommand(listenCmd)
}

// bindFlags lets explicitly set flags take precedence over the environment.
func bindFlags(flags *pflag.FlagSet) error {
	for key, flag := range map[string]string{
		"VALIDATOR_ADDR":         "validator",
		"VALIDATOR_RESTAPI_ADDR": "rest-api",
		"LOG_LEVEL":              "log-level",
		"GENESIS_FILE":           "genesis",
		"PORT":                   "port",
		"PRIVATE_KEY":            "key",
	} {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func runProcessor() error {
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

	router := ledger.NewRouter()
	votes := vote.NewEngine(logger.Named("vote"), config.GetVoteAddress(), config.GetGovernanceAddress(), collaborators)
	engine := governance.NewEngine(logger.Named("governance"), config.GetGovernanceAddress(), config.GetVoteAddress(), config.GetPeriods(), router, votes, collaborators)
	router.Register(votes.Address(), votes)
	router.Register(engine.Address(), engine)

	handlerConfig := tp.Config{
		Timeout: config.GetRequestTimeout(),
		Clock: tp.Clock{
			RequireBlockInfo: config.GetRequireBlockInfo(),
			MaxDrift:         config.GetClockMaxDrift(),
		},
	}
	validatorAddr := config.GetValidatorAddr()

	transactionProcessor := processor.NewTransactionProcessor(validatorAddr)
	transactionProcessor.AddHandler(tp.NewGovernanceHandler(logger.Named("daogovernance"), engine, handlerConfig))
	transactionProcessor.AddHandler(tp.NewVoteHandler(logger.Named("daovote"), votes, handlerConfig))
	transactionProcessor.ShutdownOnSignal(syscall.SIGINT, syscall.SIGTERM)

	logger.Info("transaction processor started", zap.String("validator", validatorAddr))
	if err := transactionProcessor.Start(); err != nil {
		logger.Error("transaction processor stopped", zap.Error(err))
		return err
	}

	logger.Info("transaction processor finished")
	return nil
}

func loadWorld() (memory.World, error) {
	path := config.GetGenesisFile()
	if path == "" {
		return memory.LoadGenesis(nil)
	}
	return memory.LoadGenesisFile(path)
}

func getLogger(level zapcore.Level) (*zap.Logger, error) {
	options := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.FatalLevel),
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	config.Development = true
	config.Level.SetLevel(level)

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return logger.WithOptions(options...), nil
}
