package standings

import (
	"errors"
	"sort"
	"strings"

	"github.com/Dias09/esports-hub/models"
)

var (
	ErrInvalidSortKey = errors.New("invalid sort key")
	ErrInvalidOrder   = errors.New("invalid sort order")
)

// SortKey selects the column the leaderboard view is ordered by.
// It never influences rank assignment.
type SortKey string

const (
	SortByRank   SortKey = "rank"
	SortByName   SortKey = "name"
	SortByPoints SortKey = "points"
	SortByWins   SortKey = "wins"
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseSortKey maps a raw query value to a SortKey. An empty value falls back
// to rank ordering, anything else unknown is rejected.
func ParseSortKey(raw string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case "":
		return SortByRank, nil
	case SortByRank, SortByName, SortByPoints, SortByWins:
		return key, nil
	default:
		return "", ErrInvalidSortKey
	}
}

func ParseOrder(raw string) (Order, error) {
	switch order := Order(strings.ToLower(strings.TrimSpace(raw))); order {
	case "":
		return OrderAsc, nil
	case OrderAsc, OrderDesc:
		return order, nil
	default:
		return "", ErrInvalidOrder
	}
}

// Entry is one team together with the game names of every tournament the team
// holds an approved registration for. The caller loads both; this package
// never touches storage.
type Entry struct {
	Team          models.Team
	ApprovedGames []string
}

// RankedTeam is a team annotated with its 1-based competition rank.
type RankedTeam struct {
	models.Team
	Rank int `json:"rank"`
}

type Options struct {
	// Category filters by game name, case-insensitively. Empty selects every
	// team holding at least one approved registration.
	Category string
	SortBy   SortKey
	Order    Order
}

// Build selects the teams matching opts.Category, assigns competition ranks
// from the canonical (points desc, wins desc) ordering and re-sorts the result
// for display by (SortBy, Order). Ranks are fixed before the display sort, so
// the chosen view order never changes a team's rank.
func Build(entries []Entry, opts Options) ([]RankedTeam, error) {
	switch opts.SortBy {
	case SortByRank, SortByName, SortByPoints, SortByWins:
	default:
		return nil, ErrInvalidSortKey
	}
	switch opts.Order {
	case OrderAsc, OrderDesc:
	default:
		return nil, ErrInvalidOrder
	}

	selected := filter(entries, opts.Category)
	if len(selected) == 0 {
		return []RankedTeam{}, nil
	}

	ranked := rank(selected)
	displaySort(ranked, opts.SortBy, opts.Order)
	return ranked, nil
}

func filter(entries []Entry, category string) []models.Team {
	var teams []models.Team

	if category == "" {
		// Public leaderboard: only teams that earned a spot through an
		// approved registration.
		for _, e := range entries {
			if len(e.ApprovedGames) > 0 {
				teams = append(teams, e.Team)
			}
		}
		return teams
	}

	for _, e := range entries {
		if strings.EqualFold(e.Team.GameName, category) {
			teams = append(teams, e.Team)
		}
	}
	if len(teams) > 0 {
		return teams
	}

	// Fallback lookup: no team carries the category itself, so match against
	// the games of the tournaments teams are approved for. A category that
	// only exists as a tournament game with no attached teams stays empty.
	for _, e := range entries {
		for _, game := range e.ApprovedGames {
			if strings.EqualFold(game, category) {
				teams = append(teams, e.Team)
				break
			}
		}
	}
	return teams
}

// rank orders teams canonically and assigns competition ranks: full ties on
// (points, wins) share a rank, the next distinct group continues at the
// previous rank plus the tie-group size.
func rank(teams []models.Team) []RankedTeam {
	canonical := make([]models.Team, len(teams))
	copy(canonical, teams)
	sort.Slice(canonical, func(i, j int) bool {
		a, b := canonical[i], canonical[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.ID < b.ID
	})

	ranked := make([]RankedTeam, 0, len(canonical))
	for i, team := range canonical {
		r := i + 1
		if i > 0 {
			prev := ranked[i-1]
			if prev.Points == team.Points && prev.Wins == team.Wins {
				r = prev.Rank
			}
		}
		ranked = append(ranked, RankedTeam{Team: team, Rank: r})
	}
	return ranked
}

// displaySort reorders an already ranked slice for presentation. The input is
// in canonical order, and the stable sort keeps that order within equal keys.
func displaySort(ranked []RankedTeam, key SortKey, order Order) {
	less := func(a, b RankedTeam) bool { return a.Rank < b.Rank }
	switch key {
	case SortByName:
		less = func(a, b RankedTeam) bool {
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an != bn {
				return an < bn
			}
			return a.ID < b.ID
		}
	case SortByPoints:
		less = func(a, b RankedTeam) bool { return a.Points < b.Points }
	case SortByWins:
		less = func(a, b RankedTeam) bool { return a.Wins < b.Wins }
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if order == OrderDesc {
			return less(ranked[j], ranked[i])
		}
		return less(ranked[i], ranked[j])
	})
}
