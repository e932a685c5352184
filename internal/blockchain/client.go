package blockchain

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fxamacker/cbor"
	"github.com/hyperledger/sawtooth-sdk-go/signing"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"
)

const (
	batchSubmitAPI         string = "batches"
	batchStatusAPI         string = "batch_statuses"
	stateAPI               string = "state"
	contentTypeOctetStream string = "application/octet-stream"

	// seconds the validator may block a status request
	wait uint = 5
)

// Batch statuses reported by the validator
const (
	StatusCommitted = "COMMITTED"
	StatusInvalid   = "INVALID"
	StatusPending   = "PENDING"
	StatusUnknown   = "UNKNOWN"
)

// ErrStateNotFound is returned when an address holds no data.
var ErrStateNotFound = errors.New("state not found")

type Client struct {
	logger     *zap.Logger
	url        string
	httpClient *http.Client
}

func NewClient(logger *zap.Logger, validatorRestAPIUrl string) *Client {
	return &Client{
		logger:     logger,
		url:        strings.TrimSuffix(validatorRestAPIUrl, "/"),
		httpClient: &http.Client{},
	}
}

// Submit sends the transactions as a single batch signed by signer and
// returns the batch id.
func (c Client) Submit(ctx context.Context, signer *signing.Signer, transactions ...Transaction) (string, error) {
	rawBatchList, err := createBatchList(transactions, signer)
	if err != nil {
		return "", fmt.Errorf("unable to construct batch list: %v", err)
	}
	batchID := rawBatchList.Batches[0].HeaderSignature

	batchList, err := proto.Marshal(rawBatchList)
	if err != nil {
		return "", fmt.Errorf("unable to serialize batch list: %v", err)
	}

	response, err := c.sendRequest(ctx, batchSubmitAPI, batchList, contentTypeOctetStream)
	if err != nil {
		return "", err
	}
	c.logger.Debug("batch submitted", zap.String("batchID", batchID), zap.String("response", response))

	return batchID, nil
}

// WaitForBatch polls the batch status until it leaves the pending state or
// ctx is done.
func (c Client) WaitForBatch(ctx context.Context, batchID string) (string, error) {
	for {
		status, err := c.getStatus(ctx, batchID, wait)
		if err != nil {
			return "", err
		}
		if status != StatusPending {
			c.logger.Info("batch processed", zap.String("batchID", batchID), zap.String("status", status))
			return status, nil
		}

		select {
		case <-ctx.Done():
			return StatusPending, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (c Client) getStatus(ctx context.Context, batchID string, wait uint) (string, error) {
	apiSuffix := fmt.Sprintf("%s?id=%s&wait=%d", batchStatusAPI, batchID, wait)
	response, err := c.sendRequest(ctx, apiSuffix, nil, "")
	if err != nil {
		return "", err
	}

	var statuses struct {
		Data []struct {
			ID     string `yaml:"id"`
			Status string `yaml:"status"`
		} `yaml:"data"`
	}
	if err := yaml.Unmarshal([]byte(response), &statuses); err != nil {
		return "", fmt.Errorf("error reading response: %v", err)
	}
	if len(statuses.Data) == 0 {
		return "", errors.New("batch status missing for " + batchID)
	}
	return statuses.Data[0].Status, nil
}

// GetState reads the cbor record at address into v.
func (c Client) GetState(ctx context.Context, address string, v interface{}) error {
	data, err := c.GetRawState(ctx, address)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrStateNotFound
	}

	if err := cbor.Unmarshal(data, v); err != nil {
		return errors.New("failed to unmarshal the state at " + address + ": " + err.Error())
	}
	return nil
}

func (c Client) sendRequest(ctx context.Context, apiSuffix string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/%s", c.url, apiSuffix)

	method := http.MethodGet
	var body io.Reader
	if len(data) > 0 {
		method = http.MethodPost
		body = bytes.NewBuffer(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return "", err
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("failed to connect to REST API: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		c.logger.Debug("resource not found", zap.String("url", url))
		return "", ErrStateNotFound
	} else if response.StatusCode >= 400 {
		return "", fmt.Errorf("error %d: %s", response.StatusCode, response.Status)
	}

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %v", err)
	}
	return string(responseBody), nil
}

// GetRawState returns the bytes stored at address, nil when it is empty.
func (c Client) GetRawState(ctx context.Context, address string) ([]byte, error) {
	response, err := c.sendRequest(ctx, stateAPI+"/"+address, nil, "")
	if errors.Is(err, ErrStateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state struct {
		Data string `yaml:"data"`
	}
	if err := yaml.Unmarshal([]byte(response), &state); err != nil {
		return nil, fmt.Errorf("error reading response: %v", err)
	}

	data, err := base64.StdEncoding.DecodeString(state.Data)
	if err != nil {
		return nil, errors.New("failed to decode the state at " + address + ": " + err.Error())
	}
	return data, nil
}
