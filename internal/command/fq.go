// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/steamctlgo/internal/meta"
	"github.com/staranto/steamctlgo/internal/steam"
)

var friendSchemaKeys = append(append([]string{}, userSchemaKeys...),
	"friend_since", "relationship")

var fqExamples = [][2]string{
	{"steamctl fq gabelogannewell", "a user's friends"},
	{"steamctl fq gabelogannewell --filter personastate=online", "who is online"},
	{"steamctl fq 76561197960287930 --sort friend_since --attrs friend_since::h", "oldest friends first"},
}

// FqCommandAction is the action handler for the "fq" subcommand. The friends'
// summaries are loaded in batches before the records are built.
func FqCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*steam.Friend]{
		CommandName:  "fq",
		SchemaKeys:   friendSchemaKeys,
		Examples:     fqExamples,
		DefaultAttrs: []string{"steamid", "personaname", "personastate"},
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]*steam.Friend, error) {
			client := NewClientFromFlags(cmd)
			user, err := ResolveUserArg(ctx, cmd, client)
			if err != nil {
				return nil, err
			}

			friends, err := user.Friends(ctx)
			if err != nil {
				return nil, err
			}

			users := make([]*steam.User, 0, len(friends))
			for _, f := range friends {
				users = append(users, f.User)
			}
			if err := steam.LoadSummaries(ctx, client, users); err != nil {
				return nil, err
			}
			return friends, nil
		},
	}
	return runner.Run(ctx, cmd)
}

// FqCommandBuilder constructs the cli.Command for "fq".
func FqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "fq",
		Usage:     "friends query",
		UsageText: `steamctl fq <id|vanity|url> [options]`,
		Action:    FqCommandAction,
		Meta:      meta,
	}).Build()
}
