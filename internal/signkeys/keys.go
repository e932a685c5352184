package signkeys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/btcsuite/btcd/btcec"
	"github.com/hyperledger/sawtooth-sdk-go/signing"
)

// UserKeys identify a transaction signer. The hex public key is the sender
// address the processors see.
type UserKeys struct {
	PrivateKey signing.PrivateKey
	PublicKey  signing.PublicKey
}

func (u UserKeys) GetSigner() *signing.Signer {
	cryptoFactory := signing.NewCryptoFactory(signing.NewSecp256k1Context())
	return cryptoFactory.NewSigner(u.PrivateKey)
}

func (u UserKeys) Address() string {
	return u.PublicKey.AsHex()
}

// source: https://github.com/ethereum/go-ethereum/blob/86d547707965685cef732aa28c15e6811ea98408/crypto/secp256k1/secp256_test.go#L19
func GenerateKeys() (UserKeys, error) {
	key, err := ecdsa.GenerateKey(btcec.S256(), rand.Reader)
	if err != nil {
		return UserKeys{}, errors.New("failed to generate the keys: " + err.Error())
	}
	pubkey := elliptic.Marshal(btcec.S256(), key.X, key.Y)

	privkey := make([]byte, 32)
	blob := key.D.Bytes()
	copy(privkey[32-len(blob):], blob)

	keys := UserKeys{
		PublicKey:  signing.NewSecp256k1PublicKey(pubkey),
		PrivateKey: signing.NewSecp256k1PrivateKey(privkey),
	}

	return keys, nil
}

// NewUserKeys restores the keys from a hex encoded private key.
func NewUserKeys(privateKeyHex string) (UserKeys, error) {
	privkey, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return UserKeys{}, errors.New("invalid private key: " + err.Error())
	}
	if len(privkey) != 32 {
		return UserKeys{}, errors.New("invalid private key length")
	}

	_, pub := btcec.PrivKeyFromBytes(btcec.S256(), privkey)

	return UserKeys{
		PublicKey:  signing.NewSecp256k1PublicKey(pub.SerializeUncompressed()),
		PrivateKey: signing.NewSecp256k1PrivateKey(privkey),
	}, nil
}
