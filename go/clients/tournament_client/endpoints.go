package tournament_client

const (
	// DefaultBaseURL points at a backend started with the Django dev server
	DefaultBaseURL = "http://localhost:8000/api/"

	// Round state
	RoundInfoEndpoint = "get-round-info/"

	// Collections
	TeamsEndpoint   = "teams/"
	GamesEndpoint   = "games/"
	BetsEndpoint    = "bets/"
	OddsEndpoint    = "odds/"
	BonusesEndpoint = "bonuses/"

	// Player views
	BettingTableEndpoint  = "get-betting-table/"
	BetsAvailableEndpoint = "get-bets-available/"
	NextOpponentEndpoint  = "get-next-opponent/"

	// Actions
	PlaceBetEndpoint = "place-bet/"
	MarkGameEndpoint = "mark-game/"
	UseBonusEndpoint = "use-bonus/"

	// Overviews
	TournamentResultsEndpoint = "get-tournament-results/"
	TeamStageStatusesEndpoint = "team-stage-statuses/"
)
