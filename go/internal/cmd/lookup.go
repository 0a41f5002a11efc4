package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// findTeam resolves what a player typed to a team: an id, an identifier,
// an exact name or the best fuzzy match on names.
func findTeam(query string, teams []models.Team) (models.Team, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Team{}, fmt.Errorf("no team given")
	}

	if id, err := strconv.Atoi(query); err == nil {
		for _, t := range teams {
			if t.ID == id {
				return t, nil
			}
		}
	}

	lower := strings.ToLower(query)
	lookup := make(map[string]models.Team, len(teams))
	names := make([]string, 0, len(teams))
	for _, t := range teams {
		if t.Identifier == query {
			return t, nil
		}
		name := strings.ToLower(t.Name)
		if name == lower {
			return t, nil
		}
		lookup[name] = t
		names = append(names, name)
	}

	ranks := fuzzy.RankFind(lower, names)
	if len(ranks) == 0 {
		return models.Team{}, fmt.Errorf("no team matches %q", query)
	}
	sort.Sort(ranks)
	return lookup[ranks[0].Target], nil
}
