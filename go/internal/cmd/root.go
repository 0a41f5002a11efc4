package main

import (
	"fmt"
	"strings"

	"github.com/bday2025/tournament/go/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagEnv names the environment variable behind each persistent flag. They
// match what config.Load reads so a setting has a single env name.
var flagEnv = map[string]string{
	"config":    "TOURNAMENT_CONFIG",
	"source":    "TOURNAMENT_SOURCE",
	"base-url":  "TOURNAMENT_BASE_URL",
	"player":    "TOURNAMENT_PLAYER_ID",
	"log-level": "TOURNAMENT_LOG_LEVEL",
	"follow":    "TOURNAMENT_FOLLOW_STAGE",
}

type rootOptions struct {
	configPath string
	source     string
	baseURL    string
	player     string
	logLevel   string
	follow     bool

	cfg config.Config
}

// apply layers explicitly set flags over the loaded config.
func (o *rootOptions) apply(fs *pflag.FlagSet) {
	if fs.Changed("source") {
		o.cfg.Backend.Source = o.source
	}
	if fs.Changed("base-url") {
		o.cfg.Backend.BaseURL = o.baseURL
	}
	if fs.Changed("player") {
		o.cfg.Player.Identifier = o.player
	}
	if fs.Changed("log-level") {
		o.cfg.Log.Level = o.logLevel
	}
	if fs.Changed("follow") {
		o.cfg.Player.FollowStage = o.follow
	}
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "tournament",
		Short:   "Companion client for the birthday tournament.",
		Version: releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.apply(cmd.Flags())
			if err := opts.cfg.Validate(); err != nil {
				return err
			}
			config.SetupLogging(opts.cfg.Log)
			return nil
		},
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file (env: TOURNAMENT_CONFIG)")
	fs.StringVarP(&opts.source, "source", "s", "", "backend source, local or heroku (env: TOURNAMENT_SOURCE)")
	fs.StringVar(&opts.baseURL, "base-url", "", "REST root, overrides --source (env: TOURNAMENT_BASE_URL)")
	fs.StringVarP(&opts.player, "player", "p", "", "player identifier from the team's link (env: TOURNAMENT_PLAYER_ID)")
	fs.StringVar(&opts.logLevel, "log-level", "", "trace, debug, info, warn or error (env: TOURNAMENT_LOG_LEVEL)")
	fs.BoolVar(&opts.follow, "follow", true, "switch pages when the stage changes (env: TOURNAMENT_FOLLOW_STAGE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name, flagEnv[f.Name])
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(
		newServeCmd(opts),
		newWatchCmd(opts),
		newPlayCmd(opts),
		newShowCmd(opts),
		newBetCmd(opts),
		newMarkCmd(opts),
		newBonusCmd(opts),
		newLinksCmd(opts),
	)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("tournament v{{.Version}}\n")
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func requirePlayer(opts *rootOptions) error {
	if opts.cfg.Player.Identifier == "" {
		return fmt.Errorf("a player identifier is required (--player or TOURNAMENT_PLAYER_ID)")
	}
	return nil
}
