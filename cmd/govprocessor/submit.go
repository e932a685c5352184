package main

import (
	"context"
	"dao-governance/internal/blockchain"
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/config"
	"dao-governance/internal/signkeys"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hyperledger/sawtooth-sdk-go/signing"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit <family> <action> <body.json>",
	Short: "Sign a governance or vote transaction and send it to the validator",
	Long: `submit decodes the json body into the request of the given action,
signs it with PRIVATE_KEY and posts the batch to the validator REST API.
The family is either governance or vote.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[2])
		if err != nil {
			return errors.New("failed to read the body: " + err.Error())
		}
		wait, err := cmd.Flags().GetBool("wait")
		if err != nil {
			return err
		}
		return runSubmit(args[0], args[1], data, wait)
	},
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a signing key, PRIVATE_KEY",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := signkeys.GenerateKeys()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PRIVATE_KEY=%s\n# address %s\n", keys.PrivateKey.AsHex(), keys.Address())
		return nil
	},
}

func init() {
	submitCmd.Flags().String("rest-api", "", "Validator REST API url, VALIDATOR_RESTAPI_ADDR")
	submitCmd.Flags().String("key", "", "Hex encoded private key, PRIVATE_KEY")
	submitCmd.Flags().Bool("wait", false, "Wait until the batch is committed or rejected")
	rootCmd.AddCommand(submitCmd, keygenCmd)
}

func runSubmit(family, action string, data []byte, wait bool) error {
	logger, err := getLogger(config.GetLogLevel())
	if err != nil {
		return errors.New("setting up the logger failed: " + err.Error())
	}
	defer logger.Sync()

	if config.GetPrivateKey() == "" {
		return errors.New("no private key, set PRIVATE_KEY or run keygen")
	}
	keys, err := signkeys.NewUserKeys(config.GetPrivateKey())
	if err != nil {
		return err
	}
	signer := keys.GetSigner()

	transaction, err := buildTransaction(family, action, data, time.Now().Unix(), signer)
	if err != nil {
		return err
	}

	client := blockchain.NewClient(logger.Named("client"), config.GetValidatorRestAPIAddr())

	ctx, cancel := context.WithTimeout(context.Background(), config.GetRequestTimeout())
	defer cancel()
	batchID, err := client.Submit(ctx, signer, transaction)
	if err != nil {
		return err
	}
	fmt.Println(batchID)
	if !wait {
		return nil
	}

	status, err := client.WaitForBatch(ctx, batchID)
	if err != nil {
		return err
	}
	fmt.Println(status)
	if status != blockchain.StatusCommitted {
		return errors.New("batch " + status)
	}
	return nil
}

// buildTransaction decodes the body into the request of the action and
// wraps it into a signed transaction of the family.
func buildTransaction(family, action string, data []byte, timestamp int64, signer *signing.Signer) (blockchain.Transaction, error) {
	switch family {
	case "governance":
		body, err := decodeGovernanceRequest(governancefamily.Action(action), data)
		if err != nil {
			return blockchain.Transaction{}, err
		}
		return blockchain.NewGovernanceTransaction(governancefamily.Action(action), timestamp, body, signer)
	case "vote":
		body, err := decodeVoteRequest(votefamily.Action(action), data)
		if err != nil {
			return blockchain.Transaction{}, err
		}
		return blockchain.NewVoteTransaction(votefamily.Action(action), timestamp, body, signer)
	default:
		return blockchain.Transaction{}, errors.New("unknown family: " + family)
	}
}

func decodeGovernanceRequest(action governancefamily.Action, data []byte) (interface{}, error) {
	var body interface{}
	switch action {
	case governancefamily.ActionAddGovernanceScheme:
		body = &governancefamily.AddGovernanceSchemeRequest{}
	case governancefamily.ActionUpdateGovernanceSchemeThreshold:
		body = &governancefamily.UpdateGovernanceSchemeThresholdRequest{}
	case governancefamily.ActionCreateProposal:
		body = &governancefamily.CreateProposalRequest{}
	case governancefamily.ActionCreateVetoProposal:
		body = &governancefamily.CreateVetoProposalRequest{}
	case governancefamily.ActionVetoProposal:
		body = &governancefamily.VetoProposalRequest{}
	case governancefamily.ActionExecuteProposal:
		body = &governancefamily.ExecuteProposalRequest{}
	case governancefamily.ActionClearProposal:
		body = &governancefamily.ClearProposalRequest{}
	default:
		return nil, errors.New("unknown governance action: " + string(action))
	}
	return decodeBody(body, data)
}

func decodeVoteRequest(action votefamily.Action, data []byte) (interface{}, error) {
	var body interface{}
	switch action {
	case votefamily.ActionCreateVoteScheme:
		body = &votefamily.CreateVoteSchemeRequest{}
	case votefamily.ActionVote:
		body = &votefamily.VoteRequest{}
	case votefamily.ActionRegisterCommitment:
		body = &votefamily.RegisterCommitmentRequest{}
	case votefamily.ActionWithdraw:
		body = &votefamily.WithdrawRequest{}
	default:
		return nil, errors.New("unknown vote action: " + string(action))
	}
	return decodeBody(body, data)
}

func decodeBody(body interface{}, data []byte) (interface{}, error) {
	if err := json.Unmarshal(data, body); err != nil {
		return nil, errors.New("invalid body: " + err.Error())
	}
	return body, nil
}
