// Package hashlock builds the hashlock commitments that gate escrow release:
// a plain Keccak-256 hash of the secret for single-fill orders, or a Merkle
// root over indexed secret hashes for partial-fill orders. The construction
// must match what the settlement contracts verify on reveal.
package hashlock

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SecretSize is the fixed byte length of every secret.
const SecretSize = 32

// Secret is a 32-byte random value held client-side until its fill is ready.
type Secret [SecretSize]byte

// Hex returns the 0x-prefixed hex encoding of the secret.
func (s Secret) Hex() string {
	return common.BytesToHash(s[:]).Hex()
}

// GenerateSecrets creates count fresh random secrets.
func GenerateSecrets(count int) ([]Secret, error) {
	if count < 1 {
		return nil, fmt.Errorf("secret count must be at least 1, got %d", count)
	}

	secrets := make([]Secret, count)
	for i := range secrets {
		if _, err := rand.Read(secrets[i][:]); err != nil {
			return nil, fmt.Errorf("failed to generate secret: %w", err)
		}
	}

	return secrets, nil
}

// HashSecret returns the Keccak-256 digest of a secret.
func HashSecret(secret Secret) common.Hash {
	return crypto.Keccak256Hash(secret[:])
}

// MerkleLeaves derives the per-fill leaves: keccak256(uint256(index) ||
// hashSecret(secret)). The index is part of the leaf so a secret hash cannot
// be reused at a different fill position.
func MerkleLeaves(secrets []Secret) []common.Hash {
	leaves := make([]common.Hash, len(secrets))
	for i, secret := range secrets {
		idx := common.BigToHash(big.NewInt(int64(i)))
		secretHash := HashSecret(secret)
		leaves[i] = crypto.Keccak256Hash(idx[:], secretHash[:])
	}
	return leaves
}

// MerkleRoot reduces leaves pairwise bottom-up. An odd node at any level is
// paired with itself. The result is deterministic for a given leaf order.
func MerkleRoot(leaves []common.Hash) (common.Hash, error) {
	if len(leaves) == 0 {
		return common.Hash{}, fmt.Errorf("cannot build merkle root from empty leaves")
	}

	level := leaves
	for len(level) > 1 {
		next := make([]common.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, crypto.Keccak256Hash(left[:], right[:]))
		}
		level = next
	}

	return level[0], nil
}

// New returns the hashlock for a secret set: hashSecret(secrets[0]) when
// exactly one secret, otherwise the Merkle root over the indexed leaves.
func New(secrets []Secret) (common.Hash, error) {
	switch len(secrets) {
	case 0:
		return common.Hash{}, fmt.Errorf("secret set must not be empty")
	case 1:
		return HashSecret(secrets[0]), nil
	default:
		return MerkleRoot(MerkleLeaves(secrets))
	}
}
