// Package otp stores short-lived email verification codes in redis. Codes
// are bcrypt-hashed before storage, so a leaked key dump cannot be replayed,
// and expiry is delegated to the key TTL.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/MohdAnasQureshi/groceryshop/pkg/redis"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrOTPExpired  = errors.New("otp expired or was never requested")
	ErrOTPMismatch = errors.New("otp does not match")
)

const keyPrefix = "otp:email:"

type Store struct {
	adapter redis.RedisAdapter
	ttl     time.Duration
}

func NewStore(adapter redis.RedisAdapter, ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &Store{adapter: adapter, ttl: ttl}
}

// Generate creates a six digit code, stores its hash under the email with
// the configured TTL, and returns the plain code for delivery.
func (s *Store) Generate(email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	if err := s.adapter.Set(keyPrefix+email, hash, s.ttl); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Verify checks a submitted code against the stored hash and consumes it on
// success, so a code can be used at most once.
func (s *Store) Verify(email, code string) error {
	hash, err := s.adapter.Get(keyPrefix + email)
	if err != nil {
		if errors.Is(err, redis.NilError) {
			return ErrOTPExpired
		}
		return err
	}

	if bcrypt.CompareHashAndPassword(hash, []byte(code)) != nil {
		return ErrOTPMismatch
	}

	return s.adapter.Del(keyPrefix + email)
}
