// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/staranto/steamctlgo/internal/meta"
	"github.com/staranto/steamctlgo/internal/steam"
)

var userSchemaKeys = []string{
	"avatar", "country", "created", "lastlogoff", "personaname", "personastate",
	"playing", "profileurl", "public", "realname", "steamid",
}

var uqExamples = [][2]string{
	{"steamctl uq 76561197960287930", "one user by SteamID64"},
	{"steamctl uq gabelogannewell", "one user by vanity name"},
	{"steamctl uq https://steamcommunity.com/id/gabelogannewell", "profile URLs work too"},
	{"steamctl uq a b c --attrs created::h", "several users, with account age"},
}

// UqCommandAction is the action handler for the "uq" subcommand. Summaries of
// all the given users are fetched in as few requests as possible.
func UqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*steam.User]{
		CommandName:  "uq",
		SchemaKeys:   userSchemaKeys,
		Examples:     uqExamples,
		DefaultAttrs: []string{"steamid", "personaname", "personastate"},
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]*steam.User, error) {
			if cmd.Args().Len() == 0 {
				return nil, errors.New("no user given")
			}

			client := NewClientFromFlags(cmd)
			users := make([]*steam.User, 0, cmd.Args().Len())
			for _, ref := range cmd.Args().Slice() {
				u, err := steam.ResolveUser(ctx, client, ref)
				if err != nil {
					return nil, err
				}
				users = append(users, u)
			}

			if err := steam.LoadSummaries(ctx, client, users); err != nil {
				return nil, err
			}
			return users, nil
		},
	}
	return runner.Run(ctx, cmd)
}

// UqCommandBuilder constructs the cli.Command for "uq".
func UqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "uq",
		Usage:     "user query",
		UsageText: `steamctl uq <id|vanity|url>... [options]`,
		Action:    UqCommandAction,
		Meta:      meta,
	}).Build()
}
