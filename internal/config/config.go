package config

import (
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/model"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	defaultValidatorAddr  = "tcp://localhost:4004"
	defaultRestAPIAddr    = "http://localhost:8008"
	defaultRequestTimeout = 10 * time.Second
	defaultLogLevel       = "debug"
	defaultLocalPort      = ":8080"
)

const (
	keyValidatorAddr     = "VALIDATOR_ADDR"
	keyRestAPIAddr       = "VALIDATOR_RESTAPI_ADDR"
	keyRequestTimeout    = "REQ_TIMEOUT"
	keyLogLevel          = "LOG_LEVEL"
	keyGenesisFile       = "GENESIS_FILE"
	keyPort              = "PORT"
	keyGovernanceAddress = "GOVERNANCE_ADDRESS"
	keyVoteAddress       = "VOTE_ADDRESS"
	keyActivePeriod      = "ACTIVE_PERIOD"
	keyVetoActivePeriod  = "VETO_ACTIVE_PERIOD"
	keyPendingPeriod     = "PENDING_PERIOD"
	keyExecutePeriod     = "EXECUTE_PERIOD"
	keyVetoExecutePeriod = "VETO_EXECUTE_PERIOD"
	keyMinActivePeriod   = "MIN_ACTIVE_PERIOD"
	keyMaxActivePeriod   = "MAX_ACTIVE_PERIOD"
	keyRequireBlockInfo  = "REQUIRE_BLOCK_INFO"
	keyClockMaxDrift     = "CLOCK_MAX_DRIFT"
	keyPrivateKey        = "PRIVATE_KEY"
)

func init() {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

func GetValidatorAddr() string {
	return getString(keyValidatorAddr, defaultValidatorAddr)
}

func GetValidatorRestAPIAddr() string {
	addr := getString(keyRestAPIAddr, defaultRestAPIAddr)
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return addr
}

// GetPort returns the query gateway port prepended with `:`
func GetPort() string {
	port := viper.GetString(keyPort)
	if port == "" {
		return defaultLocalPort
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

// GetGenesisFile returns the path of the yaml file seeding the in-memory
// collaborators, empty when none is configured.
func GetGenesisFile() string {
	return viper.GetString(keyGenesisFile)
}

// GetGovernanceAddress is the sender identity of the governance contract in
// inline calls, its family namespace unless configured.
func GetGovernanceAddress() string {
	return getString(keyGovernanceAddress, governancefamily.Namespace())
}

func GetVoteAddress() string {
	return getString(keyVoteAddress, votefamily.Namespace())
}

func GetRequestTimeout() time.Duration {
	return getDuration(keyRequestTimeout, defaultRequestTimeout)
}

func GetLogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(getString(keyLogLevel, defaultLogLevel))
	if err != nil {
		return zapcore.DebugLevel
	}
	return level
}

// GetPeriods returns the proposal periods, each one overridable with a
// duration such as "72h".
func GetPeriods() model.Periods {
	defaults := model.DefaultPeriods()

	return model.Periods{
		Active:      getDuration(keyActivePeriod, defaults.Active),
		VetoActive:  getDuration(keyVetoActivePeriod, defaults.VetoActive),
		Pending:     getDuration(keyPendingPeriod, defaults.Pending),
		Execute:     getDuration(keyExecutePeriod, defaults.Execute),
		VetoExecute: getDuration(keyVetoExecutePeriod, defaults.VetoExecute),
		MinActive:   getDuration(keyMinActivePeriod, defaults.MinActive),
		MaxActive:   getDuration(keyMaxActivePeriod, defaults.MaxActive),
	}
}

// GetRequireBlockInfo makes the processor reject transactions while the
// chain has no block info to take the time from.
func GetRequireBlockInfo() bool {
	return viper.GetBool(keyRequireBlockInfo)
}

// GetClockMaxDrift bounds how far a payload timestamp may run ahead of the
// ledger clock on chains without block info, zero disables the bound.
func GetClockMaxDrift() time.Duration {
	return getDuration(keyClockMaxDrift, 0)
}

// GetPrivateKey returns the hex encoded key signing submitted transactions.
func GetPrivateKey() string {
	return viper.GetString(keyPrivateKey)
}

func getString(key, fallback string) string {
	value := viper.GetString(key)
	if value == "" {
		return fallback
	}
	return value
}

// getDuration falls back for unset, malformed and non-positive values.
func getDuration(key string, fallback time.Duration) time.Duration {
	value := viper.GetString(key)
	if value == "" {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
