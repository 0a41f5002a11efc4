package tournament_client

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/bday2025/tournament/go/clients"
)

// ErrTeamNotFound is returned when no team matches an identifier
var ErrTeamNotFound = errors.New("team not found")

type TournamentClient struct {
	*clients.BaseClient
}

func NewTournamentClient(baseURL string) *TournamentClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &TournamentClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}

// withQuery appends encoded parameters to an endpoint.
func withQuery(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return endpoint + "?" + values.Encode()
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
