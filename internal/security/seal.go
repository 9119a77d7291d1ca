package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

var ErrSealBroken = errors.New("sealed value cannot be opened")

type Argon2Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
}

var defaultParams = Argon2Params{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 2,
	KeyLen:  32,
}

const nonceLen = 24

// sealSalt is fixed so every process derives the same key from the same secret.
var sealSalt = []byte("momomoving/token-seal/v1")

// TokenSealer encrypts bearer tokens before they reach the device store.
type TokenSealer struct {
	key [32]byte
}

func NewTokenSealer(secret string) (*TokenSealer, error) {
	return NewTokenSealerWithParams(secret, defaultParams)
}

func NewTokenSealerWithParams(secret string, params Argon2Params) (*TokenSealer, error) {
	if secret == "" {
		return nil, errors.New("seal secret required")
	}
	if params.KeyLen != 32 {
		return nil, fmt.Errorf("seal key must be 32 bytes, got %d", params.KeyLen)
	}

	derived := argon2.IDKey([]byte(secret), sealSalt, params.Time, params.Memory, params.Threads, params.KeyLen)

	s := &TokenSealer{}
	copy(s.key[:], derived)
	return s, nil
}

func (s *TokenSealer) Seal(plain string) (string, error) {
	var nonce [nonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

func (s *TokenSealer) Open(sealed string) (string, error) {
	box, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSealBroken, err)
	}
	if len(box) < nonceLen+secretbox.Overhead {
		return "", ErrSealBroken
	}

	var nonce [nonceLen]byte
	copy(nonce[:], box[:nonceLen])

	plain, ok := secretbox.Open(nil, box[nonceLen:], &nonce, &s.key)
	if !ok {
		return "", ErrSealBroken
	}
	return string(plain), nil
}
