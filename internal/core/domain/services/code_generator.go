package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
)

// MaxCodeAttempts bounds how many candidates are tried before giving up.
const MaxCodeAttempts = 10

// ErrCodeSpaceExhausted is returned when every attempt collided with an existing code.
var ErrCodeSpaceExhausted = errors.New("could not generate a unique redemption code")

// ExistenceChecker reports whether a redemption code is already in use.
type ExistenceChecker func(ctx context.Context, code string) (bool, error)

// CodeGenerator issues redemption codes unique against the order store.
type CodeGenerator struct {
	random io.Reader
	exists ExistenceChecker
}

// NewCodeGenerator uses crypto/rand when random is nil.
func NewCodeGenerator(random io.Reader, exists ExistenceChecker) (*CodeGenerator, error) {
	if exists == nil {
		return nil, errs.NewValueIsRequiredError("exists")
	}
	if random == nil {
		random = rand.Reader
	}
	return &CodeGenerator{random: random, exists: exists}, nil
}

// Generate returns a code not yet used by any order. Errors from the
// existence check are returned as is.
func (g *CodeGenerator) Generate(ctx context.Context) (order.RedemptionCode, error) {
	for range MaxCodeAttempts {
		candidate, err := g.candidate()
		if err != nil {
			return order.RedemptionCode{}, err
		}

		taken, err := g.exists(ctx, candidate)
		if err != nil {
			return order.RedemptionCode{}, err
		}
		if !taken {
			return order.NewRedemptionCode(candidate)
		}
	}
	return order.RedemptionCode{}, fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, MaxCodeAttempts)
}

// candidate draws RedemptionCodeLength characters from the alphabet without
// modulo bias.
func (g *CodeGenerator) candidate() (string, error) {
	const alphabetLen = len(order.RedemptionCodeAlphabet)
	// largest multiple of alphabetLen that fits in a byte
	const limit = 256 - 256%alphabetLen

	out := make([]byte, 0, order.RedemptionCodeLength)
	buf := make([]byte, order.RedemptionCodeLength)
	for len(out) < order.RedemptionCodeLength {
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", fmt.Errorf("read randomness: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, order.RedemptionCodeAlphabet[int(b)%alphabetLen])
			if len(out) == order.RedemptionCodeLength {
				break
			}
		}
	}
	return string(out), nil
}
