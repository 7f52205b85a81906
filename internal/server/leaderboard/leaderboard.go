// Package leaderboard reduces the full emission ledger into per-user
// cumulative totals and a ranked ordering.
package leaderboard

import (
	"context"
	"sort"

	"github.com/avolkova/ecommute/internal/server/ledger"
)

// Standing is one leaderboard row. Rank 1 is the lowest cumulative polluter.
type Standing struct {
	Rank  int    `json:"rank"`
	User  string `json:"user"`
	Total int64  `json:"total"`
}

type Aggregator struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Aggregator {
	return &Aggregator{ledger: l}
}

// Rank loads the full ledger, groups entries by exact username, sums the
// amounts per user, and orders ascending by total. Ties keep the order in
// which the users first appeared in the ledger.
func (a *Aggregator) Rank(ctx context.Context) ([]Standing, error) {
	entries, err := a.ledger.All(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64)
	order := []string{}
	for _, e := range entries {
		if _, seen := totals[e.User]; !seen {
			order = append(order, e.User)
		}
		totals[e.User] += e.Amount
	}

	standings := make([]Standing, 0, len(order))
	for _, user := range order {
		standings = append(standings, Standing{User: user, Total: totals[user]})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total < standings[j].Total
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings, nil
}
