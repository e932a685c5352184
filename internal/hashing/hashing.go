package hashing

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fxamacker/cbor"
)

// Calculate returns the hex encoded sha512 of data
func Calculate(data []byte) string {
	h := sha512.Sum512(data)
	return hex.EncodeToString(h[:])
}

func CalculateSHA512(data string) string {
	return Calculate([]byte(data))
}

func CalculateSHA256(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])
}

// ContentID hashes the canonical cbor encoding of values, so the same
// inputs always give the same identifier.
func ContentID(values ...interface{}) (common.Hash, error) {
	data, err := cbor.Marshal(values, cbor.CanonicalEncOptions())
	if err != nil {
		return common.Hash{}, errors.New("failed to encode the id input: " + err.Error())
	}

	return crypto.Keccak256Hash(data), nil
}

// VirtualAddress derives an account address owned by the contract at owner.
// Only the owner can move funds out of it.
func VirtualAddress(owner string, seeds ...string) string {
	data := owner
	for _, seed := range seeds {
		data += "/" + seed
	}

	return CalculateSHA512(data)[0:64]
}
