package tournament_client

import (
	"context"
	"fmt"

	"github.com/bday2025/tournament/go/internal/models"
)

func (c *TournamentClient) GetAllTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := c.GetJSON(ctx, TeamsEndpoint, &teams); err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	return teams, nil
}

// GetTeamByIdentifier returns ErrTeamNotFound when the backend knows no such player.
func (c *TournamentClient) GetTeamByIdentifier(ctx context.Context, identifier string) (*models.Team, error) {
	var teams []models.Team
	endpoint := withQuery(TeamsEndpoint, map[string]string{"identifier": identifier})
	if err := c.GetJSON(ctx, endpoint, &teams); err != nil {
		return nil, fmt.Errorf("failed to get team by identifier: %w", err)
	}
	if len(teams) == 0 {
		return nil, ErrTeamNotFound
	}
	return &teams[0], nil
}

func (c *TournamentClient) GetBetsAvailable(ctx context.Context, identifier string) (int, error) {
	var resp models.BetsAvailableResponse
	endpoint := withQuery(BetsAvailableEndpoint, map[string]string{"identifier": identifier})
	if err := c.GetJSON(ctx, endpoint, &resp); err != nil {
		return 0, fmt.Errorf("failed to get bets available: %w", err)
	}
	return resp.BetsAvailable, nil
}

func (c *TournamentClient) GetNextOpponent(ctx context.Context, identifier string, roundID int) (*models.NextOpponent, error) {
	var resp models.NextOpponent
	endpoint := withQuery(NextOpponentEndpoint, map[string]string{
		"identifier": identifier,
		"round_id":   itoa(roundID),
	})
	if err := c.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to get next opponent: %w", err)
	}
	return &resp, nil
}
