package tournament_client

import (
	"context"
	"fmt"

	"github.com/bday2025/tournament/go/internal/models"
)

func (c *TournamentClient) GetGamesForRound(ctx context.Context, roundID int) ([]models.Game, error) {
	var games []models.Game
	endpoint := withQuery(GamesEndpoint, map[string]string{"round": itoa(roundID)})
	if err := c.GetJSON(ctx, endpoint, &games); err != nil {
		return nil, fmt.Errorf("failed to get games for round: %w", err)
	}
	return games, nil
}

func (c *TournamentClient) MarkGame(ctx context.Context, req models.MarkGameRequest) (*models.Game, error) {
	var game models.Game
	if err := c.PostJSON(ctx, MarkGameEndpoint, req, &game); err != nil {
		return nil, fmt.Errorf("failed to mark game: %w", err)
	}
	return &game, nil
}
