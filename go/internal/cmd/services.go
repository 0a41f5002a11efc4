package main

import (
	"github.com/bday2025/tournament/go/clients/tournament_client"
	"github.com/bday2025/tournament/go/internal/actions"
	"github.com/bday2025/tournament/go/internal/config"
	"github.com/bday2025/tournament/go/internal/notify"
	"github.com/bday2025/tournament/go/internal/roundinfo"
	"github.com/bday2025/tournament/go/internal/views"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Client    *tournament_client.TournamentClient
	Store     *roundinfo.Store
	Poller    *roundinfo.Poller
	Navigator *views.Navigator
	Submitter *actions.Submitter
	Notifiers []notify.Notifier

	Track     *views.View[views.TrackData]
	Bet       *views.View[views.BetData]
	Joust     *views.View[views.JoustData]
	Bonus     *views.View[views.BonusData]
	Dashboard *views.View[views.DashboardData]
	Results   *views.View[views.ResultsData]

	closers []func()
}

func setupServices(cfg config.Config) *Services {
	// Wire up dependency injection chain
	// REST client → round store and poller → pages → navigator → submitter

	client := tournament_client.NewTournamentClient(cfg.APIBaseURL())
	if cfg.Backend.Timeout > 0 {
		client.SetTimeout(cfg.Backend.Timeout)
	}

	store := roundinfo.NewStore()
	poller := roundinfo.NewPoller(client, store, cfg.Poller)

	identifier := cfg.Player.Identifier
	s := &Services{
		Client:    client,
		Store:     store,
		Poller:    poller,
		Track:     views.NewTrackPage(client, identifier),
		Bet:       views.NewBetPage(client, identifier),
		Joust:     views.NewJoustPage(client, identifier),
		Bonus:     views.NewBonusPage(client, identifier),
		Dashboard: views.NewDashboardPage(client, cfg.BackendSource()),
		Results:   views.NewResultsPage(client, identifier),
	}

	s.Navigator = views.NewNavigator(store,
		[]views.Page{s.Track, s.Bet, s.Joust, s.Bonus, s.Dashboard, s.Results},
		views.FollowStage(cfg.Player.FollowStage),
	)
	s.Submitter = actions.NewSubmitter(client, store, identifier,
		actions.WithRefresher(poller),
		actions.WithPageRefetcher(s.Navigator),
	)
	s.Notifiers = setupNotifiers(cfg.Notify, s)

	log.Debug().
		Str("base_url", client.BaseURL()).
		Str("player", identifier).
		Int("notifiers", len(s.Notifiers)).
		Msg("services ready")
	return s
}

func setupNotifiers(cfg config.NotifyConfig, s *Services) []notify.Notifier {
	var notifiers []notify.Notifier
	if cfg.Log {
		notifiers = append(notifiers, notify.LogNotifier{})
	}
	if cfg.NATSURL != "" {
		nc, err := notify.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Warn().Err(err).Str("url", cfg.NATSURL).Msg("NATS notifications disabled")
		} else {
			s.closers = append(s.closers, nc.Close)
			notifiers = append(notifiers, notify.NewNATSNotifier(nc, cfg.SubjectPrefix))
		}
	}
	if cfg.DiscordWebhookURL != "" {
		d, err := notify.NewDiscordNotifier(cfg.DiscordWebhookURL, cfg.DiscordUsername)
		if err != nil {
			log.Warn().Err(err).Msg("discord notifications disabled")
		} else {
			notifiers = append(notifiers, d)
		}
	}
	return notifiers
}

// Close releases connections opened by setupServices.
func (s *Services) Close() {
	if s.Poller.Running() {
		_ = s.Poller.Stop()
	}
	for _, c := range s.closers {
		c()
	}
}
