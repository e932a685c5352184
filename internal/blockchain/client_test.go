package blockchain_test

import (
	"context"
	"dao-governance/internal/blockchain"
	"dao-governance/internal/blockchain/assetfamily"
	"dao-governance/internal/blockchain/blockinfofamily"
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"dao-governance/internal/signkeys"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/batch_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/transaction_pb2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

type validator struct {
	t       *testing.T
	batches []*batch_pb2.BatchList
	pending int
	state   map[string][]byte
}

func (v *validator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/batches":
		assert.Equal(v.t, "application/octet-stream", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(v.t, err)

		batchList := &batch_pb2.BatchList{}
		if !assert.NoError(v.t, proto.Unmarshal(body, batchList)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		v.batches = append(v.batches, batchList)

		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"link": "http://localhost:8008/batch_statuses?id=x"}`)

	case r.URL.Path == "/batch_statuses":
		status := blockchain.StatusCommitted
		if v.pending > 0 {
			v.pending--
			status = blockchain.StatusPending
		}
		fmt.Fprintf(w, `{"data": [{"id": %q, "status": %q, "invalid_transactions": []}]}`, r.URL.Query().Get("id"), status)

	case strings.HasPrefix(r.URL.Path, "/state/"):
		data, ok := v.state[strings.TrimPrefix(r.URL.Path, "/state/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error": {"code": 75, "title": "State Not Found"}}`)
			return
		}
		fmt.Fprintf(w, `{"data": %q, "head": "abc"}`, base64.StdEncoding.EncodeToString(data))

	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func TestSubmit(t *testing.T) {
	v := &validator{t: t, pending: 2}
	server := httptest.NewServer(v)
	defer server.Close()

	keys, err := signkeys.GenerateKeys()
	require.NoError(t, err)
	signer := keys.GetSigner()

	req := governancefamily.ExecuteProposalRequest{ProposalID: common.HexToHash("0x01")}
	txn, err := blockchain.NewGovernanceTransaction(governancefamily.ActionExecuteProposal, 1_700_000_000, req, signer)
	require.NoError(t, err)
	assert.NotEmpty(t, txn.GetTransactionID())

	client := blockchain.NewClient(zap.NewExample(), server.URL+"/")
	batchID, err := client.Submit(context.Background(), signer, txn)
	require.NoError(t, err)

	status, err := client.WaitForBatch(context.Background(), batchID)
	require.NoError(t, err)
	assert.Equal(t, blockchain.StatusCommitted, status)

	require.Len(t, v.batches, 1)
	batch := v.batches[0].GetBatches()[0]
	assert.Equal(t, batchID, batch.GetHeaderSignature())
	require.Len(t, batch.GetTransactions(), 1)

	transaction := batch.GetTransactions()[0]
	assert.Equal(t, txn.GetTransactionID(), transaction.GetHeaderSignature())

	header := &transaction_pb2.TransactionHeader{}
	require.NoError(t, proto.Unmarshal(transaction.GetHeader(), header))
	assert.Equal(t, governancefamily.FamilyName, header.GetFamilyName())
	assert.Equal(t, keys.Address(), header.GetSignerPublicKey())
	assert.Contains(t, header.GetInputs(), votefamily.Namespace())
	assert.Contains(t, header.GetInputs(), blockinfofamily.Namespace)
	assert.NotContains(t, header.GetOutputs(), blockinfofamily.Namespace)
	assert.Contains(t, header.GetOutputs(), assetfamily.Namespace())
	assert.NotEmpty(t, header.GetNonce())

	env, err := ledger.DecodeEnvelope(transaction.GetPayload())
	require.NoError(t, err)
	assert.Equal(t, string(governancefamily.ActionExecuteProposal), env.Action)

	var decoded governancefamily.ExecuteProposalRequest
	require.NoError(t, env.Bind(&decoded))
	assert.Equal(t, req, decoded)
}

func TestSubmitNothing(t *testing.T) {
	keys, err := signkeys.GenerateKeys()
	require.NoError(t, err)

	client := blockchain.NewClient(zap.NewNop(), "http://localhost:0")
	_, err = client.Submit(context.Background(), keys.GetSigner())
	assert.Error(t, err)
}

func TestGetVotingResult(t *testing.T) {
	itemID := common.HexToHash("0x02")
	result := model.VotingResult{VotingItemID: itemID, ApproveCounts: 3, VotesAmount: 3, TotalVotersCount: 2}
	data, err := cbor.Marshal(result, cbor.CanonicalEncOptions())
	require.NoError(t, err)

	v := &validator{t: t, state: map[string][]byte{votefamily.GetVotingResultAddress(itemID): data}}
	server := httptest.NewServer(v)
	defer server.Close()

	client := blockchain.NewClient(zap.NewNop(), server.URL)
	got, err := client.GetVotingResult(context.Background(), itemID)
	require.NoError(t, err)
	assert.Equal(t, result, got)

	_, err = client.GetProposal(context.Background(), itemID)
	assert.ErrorIs(t, err, blockchain.ErrStateNotFound)
}

func TestRemoteState(t *testing.T) {
	v := &validator{t: t, state: map[string][]byte{"aa": {0x01, 0x02}}}
	server := httptest.NewServer(v)
	defer server.Close()

	state := blockchain.NewRemoteState(context.Background(), blockchain.NewClient(zap.NewNop(), server.URL))

	entries, err := state.GetState([]string{"aa", "bb"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"aa": {0x01, 0x02}}, entries)

	_, err = state.SetState(map[string][]byte{"aa": nil})
	assert.ErrorIs(t, err, blockchain.ErrReadOnly)
	assert.ErrorIs(t, state.AddEvent("x", nil, nil), blockchain.ErrReadOnly)
}
