// Package wallet abstracts the signing provider behind a small interface so
// the signature orchestrator works identically against a browser wallet
// bridge, a hardware signer or a local private key.
package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Wallet is the signing surface the orchestrator depends on. Every call may
// block on external user interaction and may return a rejection error.
type Wallet interface {
	Address() common.Address
	// SignTypedData signs an EIP-712 structured payload.
	SignTypedData(typedData apitypes.TypedData) (string, error)
	// SignMessage signs an arbitrary message with the EIP-191 personal
	// prefix.
	SignMessage(message []byte) (string, error)
}

// LocalWallet signs with an in-process secp256k1 private key.
type LocalWallet struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewLocalWallet parses a hex private key, with or without 0x prefix.
func NewLocalWallet(hexKey string) (*LocalWallet, error) {
	if hexKey == "" {
		return nil, fmt.Errorf("private key not configured")
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to derive public key")
	}

	return &LocalWallet{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(*publicKey),
	}, nil
}

// Address returns the wallet's account address.
func (w *LocalWallet) Address() common.Address {
	return w.address
}

// SignTypedData hashes the typed data per EIP-712 and signs the digest.
func (w *LocalWallet) SignTypedData(typedData apitypes.TypedData) (string, error) {
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return "", fmt.Errorf("failed to hash typed data: %w", err)
	}

	return w.sign(digest)
}

// SignMessage prefixes the message per EIP-191 and signs the digest.
func (w *LocalWallet) SignMessage(message []byte) (string, error) {
	return w.sign(accounts.TextHash(message))
}

func (w *LocalWallet) sign(digest []byte) (string, error) {
	sig, err := crypto.Sign(digest, w.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}

	// Shift the recovery id into the 27/28 form wallets produce.
	sig[crypto.RecoveryIDOffset] += 27

	return hexutil.Encode(sig), nil
}
