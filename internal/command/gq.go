// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/steamctlgo/internal/meta"
	"github.com/staranto/steamctlgo/internal/steam"
)

var gameSchemaKeys = []string{
	"appid", "last_played", "name", "playtime_2weeks", "playtime_forever",
}

var gqExamples = [][2]string{
	{"steamctl gq gabelogannewell", "a user's library"},
	{"steamctl gq gabelogannewell --sort -playtime_forever", "most played first"},
	{"steamctl gq 76561197960287930 --recent", "played in the last two weeks"},
	{"steamctl gq gabelogannewell --attrs last_played::h --filter playtime_forever>600", "with last played time"},
}

// GqCommandAction is the action handler for the "gq" subcommand. It lists the
// games owned by a user, or only the recently played ones with --recent.
func GqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*steam.OwnedGame]{
		CommandName:  "gq",
		SchemaKeys:   gameSchemaKeys,
		Examples:     gqExamples,
		DefaultAttrs: []string{"appid", "name", "playtime_forever"},
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]*steam.OwnedGame, error) {
			user, err := ResolveUserArg(ctx, cmd, NewClientFromFlags(cmd))
			if err != nil {
				return nil, err
			}
			if cmd.Bool("recent") {
				return user.RecentGames(ctx)
			}
			return user.OwnedGames(ctx)
		},
	}
	return runner.Run(ctx, cmd)
}

// GqCommandBuilder constructs the cli.Command for "gq".
func GqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "gq",
		Usage:     "games query",
		UsageText: `steamctl gq <id|vanity|url> [--recent] [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "recent",
				Aliases: []string{"r"},
				Usage:   "only games played in the last two weeks",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("gq.recent", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: false,
			},
		},
		Action: GqCommandAction,
		Meta:   meta,
	}).Build()
}
