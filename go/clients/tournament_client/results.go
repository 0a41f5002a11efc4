package tournament_client

import (
	"context"
	"fmt"

	"github.com/bday2025/tournament/go/internal/models"
)

func (c *TournamentClient) GetTournamentResults(ctx context.Context) (*models.TournamentResults, error) {
	var results models.TournamentResults
	if err := c.GetJSON(ctx, TournamentResultsEndpoint, &results); err != nil {
		return nil, fmt.Errorf("failed to get tournament results: %w", err)
	}
	return &results, nil
}

func (c *TournamentClient) GetTeamStageStatuses(ctx context.Context, roundID int) (models.TeamStageStatuses, error) {
	statuses := models.TeamStageStatuses{}
	endpoint := withQuery(TeamStageStatusesEndpoint, map[string]string{"round_id": itoa(roundID)})
	if err := c.GetJSON(ctx, endpoint, &statuses); err != nil {
		return nil, fmt.Errorf("failed to get team stage statuses: %w", err)
	}
	return statuses, nil
}
