package tournament_client

import (
	"context"
	"fmt"

	"github.com/bday2025/tournament/go/internal/models"
)

func (c *TournamentClient) GetOddsForRound(ctx context.Context, roundID int) ([]models.Odds, error) {
	var odds []models.Odds
	endpoint := withQuery(OddsEndpoint, map[string]string{"round": itoa(roundID)})
	if err := c.GetJSON(ctx, endpoint, &odds); err != nil {
		return nil, fmt.Errorf("failed to get odds for round: %w", err)
	}
	return odds, nil
}

func (c *TournamentClient) GetPlayerBets(ctx context.Context, teamID, roundID int) ([]models.Bet, error) {
	var bets []models.Bet
	endpoint := withQuery(BetsEndpoint, map[string]string{
		"team":  itoa(teamID),
		"round": itoa(roundID),
	})
	if err := c.GetJSON(ctx, endpoint, &bets); err != nil {
		return nil, fmt.Errorf("failed to get player bets: %w", err)
	}
	return bets, nil
}

func (c *TournamentClient) GetBettingTable(ctx context.Context, identifier string, roundID int) (*models.BettingTable, error) {
	var table models.BettingTable
	endpoint := withQuery(BettingTableEndpoint, map[string]string{
		"identifier": identifier,
		"round_id":   itoa(roundID),
	})
	if err := c.GetJSON(ctx, endpoint, &table); err != nil {
		return nil, fmt.Errorf("failed to get betting table: %w", err)
	}
	return &table, nil
}

func (c *TournamentClient) PlaceBet(ctx context.Context, req models.PlaceBetRequest) (*models.Bet, error) {
	var bet models.Bet
	if err := c.PostJSON(ctx, PlaceBetEndpoint, req, &bet); err != nil {
		return nil, fmt.Errorf("failed to place bet: %w", err)
	}
	return &bet, nil
}
