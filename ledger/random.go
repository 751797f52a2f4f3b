package ledger

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rony4d/go-claimdrop/inter"
)

// RandomnessSource sizes randomized claims.
//
// Implementations are pseudo-random: the output depends on inputs a caller
// can observe or influence (its own address and the time of the call), so it
// only defends against unsophisticated gaming and must not be used where
// cryptographic unpredictability is required.
type RandomnessSource interface {
	// Reseed starts a new salt chain that does not depend on earlier draws.
	// It is called on every phase activation.
	Reseed(caller common.Address, now inter.Timestamp)

	// Draw returns an integer in [min, max]. If min >= max it returns min
	// without advancing the salt.
	Draw(caller common.Address, now inter.Timestamp, min, max uint64) uint64
}

// EntropyFunc supplies the external entropy mixed into every salt update.
type EntropyFunc func() []byte

// CryptoEntropy reads 32 bytes from the operating system's CSPRNG.
func CryptoEntropy() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("claimdrop: entropy source failed: " + err.Error())
	}
	return buf
}

// SaltedSource is the keccak salt chain used in production:
//
//	salt' = keccak256(now || entropy || caller || salt)
//	draw  = min + salt' mod (max - min + 1)
type SaltedSource struct {
	mu      sync.Mutex
	salt    common.Hash
	entropy EntropyFunc
}

// NewSaltedSource creates a salt chain. A nil entropy function selects
// CryptoEntropy.
func NewSaltedSource(entropy EntropyFunc) *SaltedSource {
	if entropy == nil {
		entropy = CryptoEntropy
	}
	return &SaltedSource{entropy: entropy}
}

func (s *SaltedSource) Reseed(caller common.Address, now inter.Timestamp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.salt = crypto.Keccak256Hash(now.Bytes(), s.entropy(), caller.Bytes())
}

func (s *SaltedSource) Draw(caller common.Address, now inter.Timestamp, min, max uint64) uint64 {
	if min >= max {
		return min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.salt = crypto.Keccak256Hash(now.Bytes(), s.entropy(), caller.Bytes(), s.salt.Bytes())

	span := new(big.Int).SetUint64(max - min)
	span.Add(span, common.Big1)
	off := new(big.Int).Mod(s.salt.Big(), span)
	return min + off.Uint64()
}
