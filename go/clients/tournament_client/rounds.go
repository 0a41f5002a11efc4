package tournament_client

import (
	"context"
	"fmt"

	"github.com/bday2025/tournament/go/internal/models"
)

// GetRoundInfo returns the active round and its stage.
func (c *TournamentClient) GetRoundInfo(ctx context.Context) (*models.Round, error) {
	var round models.Round
	if err := c.GetJSON(ctx, RoundInfoEndpoint, &round); err != nil {
		return nil, fmt.Errorf("failed to get round info: %w", err)
	}
	return &round, nil
}
