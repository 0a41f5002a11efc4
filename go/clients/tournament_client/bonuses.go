package tournament_client

import (
	"context"
	"fmt"

	"github.com/bday2025/tournament/go/internal/models"
)

// GetBonusForTeam returns nil without error when the team has no bonus slot this round.
func (c *TournamentClient) GetBonusForTeam(ctx context.Context, teamID, roundID int) (*models.Bonus, error) {
	var bonuses []models.Bonus
	endpoint := withQuery(BonusesEndpoint, map[string]string{
		"team":  itoa(teamID),
		"round": itoa(roundID),
	})
	if err := c.GetJSON(ctx, endpoint, &bonuses); err != nil {
		return nil, fmt.Errorf("failed to get bonus for team: %w", err)
	}
	if len(bonuses) == 0 {
		return nil, nil
	}
	return &bonuses[0], nil
}

func (c *TournamentClient) UseBonus(ctx context.Context, req models.UseBonusRequest) (*models.Bonus, error) {
	var bonus models.Bonus
	if err := c.PostJSON(ctx, UseBonusEndpoint, req, &bonus); err != nil {
		return nil, fmt.Errorf("failed to use bonus: %w", err)
	}
	return &bonus, nil
}
