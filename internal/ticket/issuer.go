// Package ticket issues queue tokens such as "A001" from a shared, append-only
// numbering space.
package ticket

import (
	"context"
	"fmt"
	"math"
	"sync"

	"wisefido-triage/internal/models"

	"go.uber.org/zap"
)

// Store is the read side of the persistent record store the issuer checks.
// Both methods return (nil, nil) when nothing matches.
type Store interface {
	FindMostRecentTicket(ctx context.Context) (*models.Ticket, error)
	FindTicketByToken(ctx context.Context, token string) (*models.Ticket, error)
}

// Sequence hands out candidate ticket numbers. A sequence never returns the
// same number twice and never goes backwards.
type Sequence interface {
	Next(ctx context.Context) (int, error)
}

// Format renders ticket numbers.
type Format struct {
	Prefix string
	Width  int
}

// DefaultFormat renders "A001".
func DefaultFormat() Format {
	return Format{Prefix: "A", Width: 3}
}

// Render zero-pads n to Width. Numbers wider than Width are rendered in full.
func (f Format) Render(n int) models.Ticket {
	return models.Ticket{
		Prefix: f.Prefix,
		Number: n,
		Token:  fmt.Sprintf("%s%0*d", f.Prefix, f.Width, n),
	}
}

// MaxWidth is the widest padding whose capacity still fits in an int64.
const MaxWidth = 18

// Capacity is the largest number that fits in Width digits.
func (f Format) Capacity() int {
	if f.Width > MaxWidth {
		return math.MaxInt
	}
	return int(math.Pow10(f.Width)) - 1
}

// Issuer mints unique tickets. Uniqueness is checked against the store; the
// final word belongs to the unique constraint of whoever persists the ticket.
type Issuer struct {
	store    Store
	sequence Sequence
	format   Format
	logger   *zap.Logger

	overflowOnce sync.Once
}

// NewIssuer creates an issuer drawing numbers from sequence.
func NewIssuer(store Store, sequence Sequence, format Format, logger *zap.Logger) *Issuer {
	return &Issuer{
		store:    store,
		sequence: sequence,
		format:   format,
		logger:   logger,
	}
}

// Issue returns the next ticket whose token is not already in the store.
// Taken tokens are skipped, never reused.
func (i *Issuer) Issue(ctx context.Context) (models.Ticket, error) {
	for {
		if err := ctx.Err(); err != nil {
			return models.Ticket{}, err
		}

		n, err := i.sequence.Next(ctx)
		if err != nil {
			return models.Ticket{}, fmt.Errorf("failed to advance ticket sequence: %w", err)
		}
		if n > i.format.Capacity() {
			i.overflowOnce.Do(func() {
				i.logger.Warn("Ticket numbering exceeded padded width",
					zap.Int("number", n),
					zap.Int("width", i.format.Width),
				)
			})
		}

		candidate := i.format.Render(n)
		existing, err := i.store.FindTicketByToken(ctx, candidate.Token)
		if err != nil {
			return models.Ticket{}, fmt.Errorf("failed to check ticket %s: %w", candidate.Token, err)
		}
		if existing == nil {
			return candidate, nil
		}

		i.logger.Debug("Ticket already taken, skipping",
			zap.String("ticket", candidate.Token),
		)
	}
}

// bootstrapNumber returns the number of the most recently created ticket, or 0.
func bootstrapNumber(ctx context.Context, store Store) (int, error) {
	last, err := store.FindMostRecentTicket(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load most recent ticket: %w", err)
	}
	if last == nil {
		return 0, nil
	}
	return last.Number, nil
}
