/**
 * Copyright 2018 Intel Corporation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 * ------------------------------------------------------------------------------
 */

// based on https://github.com/hyperledger/sawtooth-sdk-go/blob/21f3d02d2446b6a91a945c93a8b94b1ddf616841/examples/intkey_go/src/sawtooth_intkey_client/intkey_client.go

package blockchain

import (
	"dao-governance/internal/blockchain/assetfamily"
	"dao-governance/internal/blockchain/blockinfofamily"
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/blockchain/settingsfamily"
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/hashing"
	"dao-governance/internal/ledger"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/batch_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/transaction_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/signing"
	"google.golang.org/protobuf/proto"
)

type Transaction struct {
	transaction *transaction_pb2.Transaction
}

func (t Transaction) GetTransactionID() string {
	return t.transaction.GetHeaderSignature()
}

// transactionOutputs lists the namespaces both families may write.
// Proposals register their voting item in the vote family within the same
// transaction, votes move tokens and both advance the ledger clock.
func transactionOutputs() []string {
	return []string{governancefamily.Namespace(), votefamily.Namespace(), assetfamily.Namespace()}
}

// transactionInputs adds the settings and block info the handlers only read.
func transactionInputs() []string {
	return append(transactionOutputs(), settingsfamily.Namespace, blockinfofamily.Namespace)
}

func NewGovernanceTransaction(action governancefamily.Action, timestamp int64, body interface{}, signer *signing.Signer) (Transaction, error) {
	return NewTransaction(governancefamily.FamilyName, governancefamily.FamilyVersion, string(action), timestamp, body, transactionInputs(), transactionOutputs(), signer)
}

func NewVoteTransaction(action votefamily.Action, timestamp int64, body interface{}, signer *signing.Signer) (Transaction, error) {
	return NewTransaction(votefamily.FamilyName, votefamily.FamilyVersion, string(action), timestamp, body, transactionInputs(), transactionOutputs(), signer)
}

func NewTransaction(familyName, familyVersion, action string, timestamp int64, body interface{}, inputs, outputs []string, signer *signing.Signer) (Transaction, error) {
	payloadDump, err := ledger.EncodeEnvelope(action, timestamp, body)
	if err != nil {
		return Transaction{}, err
	}

	// Construct TransactionHeader
	rawTransactionHeader := transaction_pb2.TransactionHeader{
		SignerPublicKey:  signer.GetPublicKey().AsHex(),
		FamilyName:       familyName,
		FamilyVersion:    familyVersion,
		Nonce:            uuid.NewString(),
		BatcherPublicKey: signer.GetPublicKey().AsHex(),
		Inputs:           inputs,
		Outputs:          outputs,
		PayloadSha512:    hashing.Calculate(payloadDump),
	}

	transactionHeader, err := proto.Marshal(&rawTransactionHeader)
	if err != nil {
		return Transaction{}, fmt.Errorf("unable to serialize transaction header: %v", err)
	}

	// Signature of TransactionHeader
	transactionHeaderSignature := hex.EncodeToString(
		signer.Sign(transactionHeader))

	return Transaction{
		transaction: &transaction_pb2.Transaction{
			Header:          transactionHeader,
			HeaderSignature: transactionHeaderSignature,
			Payload:         payloadDump,
		},
	}, nil
}

func createBatchList(transactions []Transaction, signer *signing.Signer) (*batch_pb2.BatchList, error) {
	if len(transactions) == 0 {
		return nil, errors.New("no transactions to submit")
	}

	// Get list of TransactionHeader signatures
	transactionSignatures := make([]string, 0, len(transactions))
	rawTransactions := make([]*transaction_pb2.Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		transactionSignatures = append(transactionSignatures, transaction.transaction.HeaderSignature)
		rawTransactions = append(rawTransactions, transaction.transaction)
	}

	// Construct BatchHeader
	rawBatchHeader := batch_pb2.BatchHeader{
		SignerPublicKey: signer.GetPublicKey().AsHex(),
		TransactionIds:  transactionSignatures,
	}
	batchHeader, err := proto.Marshal(&rawBatchHeader)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize batch header: %v", err)
	}

	// Signature of BatchHeader
	batchHeaderSignature := hex.EncodeToString(
		signer.Sign(batchHeader))

	batch := &batch_pb2.Batch{
		Header:          batchHeader,
		Transactions:    rawTransactions,
		HeaderSignature: batchHeaderSignature,
	}

	return &batch_pb2.BatchList{
		Batches: []*batch_pb2.Batch{batch},
	}, nil
}
