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

var appSchemaKeys = []string{
	"achievements", "appid", "categories", "coming_soon", "demos", "developers",
	"dlc", "fullgame", "genres", "header_image", "is_free", "metacritic", "name",
	"platforms", "price", "publishers", "recommendations", "release_date",
	"required_age", "short_description", "type", "website",
}

var aqExamples = [][2]string{
	{"steamctl aq 440", "show one app"},
	{"steamctl aq 440 620 570 --attrs genres,price", "several apps with extra columns"},
	{"steamctl aq --search portal", "search the store by name"},
	{"steamctl aq 440 -o raw", "complete records as JSON"},
}

// searchHit emits only what a store search listing already holds, so a search
// costs a single request.
type searchHit struct {
	*steam.App
}

func (h searchHit) Record(ctx context.Context) (map[string]any, error) {
	name, err := h.Name(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"appid": h.ID, "name": name}, nil
}

// AqCommandAction is the action handler for the "aq" subcommand. It shows the
// store details of the apps given as args, or lists the results of --search.
func AqCommandAction(ctx context.Context, cmd *cli.Command) error {
	if term := cmd.String("search"); term != "" {
		runner := &QueryActionRunner[searchHit]{
			CommandName:  "aq",
			SchemaKeys:   []string{"appid", "name"},
			Examples:     aqExamples,
			DefaultAttrs: []string{"appid", "name"},
			FetchFn: func(ctx context.Context, cmd *cli.Command) ([]searchHit, error) {
				apps, err := steam.SearchApps(ctx, NewClientFromFlags(cmd), term)
				if err != nil {
					return nil, err
				}
				hits := make([]searchHit, 0, len(apps))
				for _, a := range apps {
					hits = append(hits, searchHit{a})
				}
				return hits, nil
			},
		}
		return runner.Run(ctx, cmd)
	}

	runner := &QueryActionRunner[*steam.App]{
		CommandName:  "aq",
		SchemaKeys:   appSchemaKeys,
		Examples:     aqExamples,
		DefaultAttrs: []string{"appid", "name", "type", "release_date"},
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]*steam.App, error) {
			ids, err := AppIDArgs(cmd)
			if err != nil {
				return nil, err
			}
			if len(ids) == 0 {
				return nil, errors.New("no appid given, use --search to look one up")
			}

			client := NewClientFromFlags(cmd)
			apps := make([]*steam.App, 0, len(ids))
			for _, id := range ids {
				apps = append(apps, steam.NewApp(client, id))
			}
			return apps, nil
		},
	}
	return runner.Run(ctx, cmd)
}

// AqCommandBuilder constructs the cli.Command definition for the "aq" command,
// wiring flags, metadata, and the action/validator handlers.
func AqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "aq",
		Usage:     "app query",
		UsageText: `steamctl aq <appid>... [options] | steamctl aq --search <term> [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "search",
				Usage: "search the store instead of looking up appids",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
		},
		Action: AqCommandAction,
		Meta:   meta,
	}).Build()
}
