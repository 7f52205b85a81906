package services

import (
	"context"
	"time"

	"github.com/avolkova/ecommute/internal/server/convert"
	"github.com/avolkova/ecommute/internal/server/leaderboard"
	"github.com/avolkova/ecommute/internal/server/ledger"
	"github.com/avolkova/ecommute/internal/server/models"
)

// dateLayout matches the locale-style timestamps of the data the original
// system seeded, e.g. "4/24/2024, 12:00:00 AM".
const dateLayout = "1/2/2006, 3:04:05 PM"

// EmissionService converts logged commutes into ledger entries and exposes
// per-user history and the leaderboard.
type EmissionService struct {
	ledger *ledger.Ledger
	board  *leaderboard.Aggregator
	now    func() time.Time
}

func NewEmissionService(l *ledger.Ledger, b *leaderboard.Aggregator) *EmissionService {
	return &EmissionService{ledger: l, board: b, now: time.Now}
}

// Track converts distance via the mode multiplier table and appends the
// resulting amount to the ledger, stamped with the current server time.
func (s *EmissionService) Track(ctx context.Context, user string, distance int64, mode string) (*models.EmissionEntry, error) {
	amount := convert.Amount(distance, mode)
	date := s.now().Format(dateLayout)
	return s.ledger.Append(ctx, user, amount, date)
}

// UserEmissions returns the user's entries in insertion order, possibly empty.
func (s *EmissionService) UserEmissions(ctx context.Context, user string) ([]models.EmissionEntry, error) {
	return s.ledger.EntriesFor(ctx, user)
}

// Leaderboard returns the ranked per-user cumulative totals, ascending.
func (s *EmissionService) Leaderboard(ctx context.Context) ([]leaderboard.Standing, error) {
	return s.board.Rank(ctx)
}
