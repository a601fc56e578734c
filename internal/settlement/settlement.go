// Package settlement aggregates a room's expenses into net per-participant
// contribution balances and derives the "best organizer" (the participant
// who effectively fronted the most money).
//
// Participants are keyed by display name, not user ID: two users sharing a
// name are merged. This mirrors the name-keyed share lines on expenses and
// is a documented scoping limitation, not a bug.
//
// The result is a summary statistic, not a minimal-transaction settlement
// plan; no pairwise transfer graph is computed.
package settlement

import "github.com/splitroom/splitroom/internal/models"

// Contribution is the aggregated balance for one participant name.
type Contribution struct {
	// Name is the participant's display name.
	Name string `json:"name"`

	// Paid is the total fronted across all SpentBy lines, in cents.
	Paid int64 `json:"paid"`

	// Split is the total allocated across all SpentFor lines, in cents.
	Split int64 `json:"split"`
}

// Net is the participant's net contribution: paid minus allocated share.
func (c Contribution) Net() int64 {
	return c.Paid - c.Split
}

// NetContributions folds every expense's payer and beneficiary lines into
// one Contribution per participant name. Results are ordered by first
// appearance across the expense slice, which makes tie-breaking in
// BestOrganizer deterministic.
func NetContributions(expenses []*models.Expense) []Contribution {
	index := make(map[string]int)
	var contributions []Contribution

	at := func(name string) *Contribution {
		if i, ok := index[name]; ok {
			return &contributions[i]
		}
		index[name] = len(contributions)
		contributions = append(contributions, Contribution{Name: name})
		return &contributions[len(contributions)-1]
	}

	for _, expense := range expenses {
		for _, payer := range expense.SpentBy {
			at(payer.Name).Paid += payer.Amount
		}
		for _, beneficiary := range expense.SpentFor {
			at(beneficiary.Name).Split += beneficiary.Amount
		}
	}

	return contributions
}

// Best returns the contribution with the strictly maximum net amount.
// Ties resolve to the earlier entry, i.e. the participant seen first during
// aggregation. ok is false for an empty slice.
func Best(contributions []Contribution) (best Contribution, ok bool) {
	if len(contributions) == 0 {
		return Contribution{}, false
	}

	best = contributions[0]
	for _, c := range contributions[1:] {
		if c.Net() > best.Net() {
			best = c
		}
	}

	return best, true
}

// BestOrganizer returns the participant with the strictly maximum net
// contribution across the given expenses, along with that net amount in
// cents. ok is false when there are no expenses (and so no participants).
func BestOrganizer(expenses []*models.Expense) (name string, net int64, ok bool) {
	best, ok := Best(NetContributions(expenses))
	if !ok {
		return "", 0, false
	}
	return best.Name, best.Net(), true
}
