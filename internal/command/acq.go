// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/steamctlgo/internal/meta"
	"github.com/staranto/steamctlgo/internal/steam"
)

var achievementSchemaKeys = []string{
	"appid", "apiname", "name", "description", "hidden", "icon", "percent",
}

var userAchievementSchemaKeys = append(append([]string{}, achievementSchemaKeys...),
	"achieved", "unlocked")

var acqExamples = [][2]string{
	{"steamctl acq 440", "achievements with global unlock percentages"},
	{"steamctl acq 440 --sort -percent --filter percent<1", "the rarest ones first"},
	{"steamctl acq 440 --user gabelogannewell", "unlock state for a user"},
	{"steamctl acq 440 --user 76561197960287930 --filter achieved=true", "only unlocked"},
	{"steamctl acq 440 --chop", "shorten the common apiname prefix"},
}

// AcqCommandAction is the action handler for the "acq" subcommand. It lists
// the achievements of one app, optionally with the unlock state of --user.
func AcqCommandAction(ctx context.Context, cmd *cli.Command) error {
	postProcess := func(dataset []map[string]interface{}) error {
		if cmd.Bool("chop") {
			chopPrefix(dataset, "apiname", "_")
		}
		return nil
	}

	appArg := func(cmd *cli.Command) (*steam.App, *steam.Client, error) {
		ids, err := AppIDArgs(cmd)
		if err != nil {
			return nil, nil, err
		}
		if len(ids) != 1 {
			return nil, nil, errors.New("expected exactly one appid")
		}
		client := NewClientFromFlags(cmd)
		return steam.NewApp(client, ids[0]), client, nil
	}

	if ref := cmd.String("user"); ref != "" {
		runner := &QueryActionRunner[*steam.UserAchievement]{
			CommandName:  "acq",
			SchemaKeys:   userAchievementSchemaKeys,
			Examples:     acqExamples,
			DefaultAttrs: []string{"apiname", "name", "achieved", "unlocked"},
			PostProcess:  postProcess,
			FetchFn: func(ctx context.Context, cmd *cli.Command) ([]*steam.UserAchievement, error) {
				app, client, err := appArg(cmd)
				if err != nil {
					return nil, err
				}
				user, err := steam.ResolveUser(ctx, client, ref)
				if err != nil {
					return nil, err
				}
				return user.Achievements(ctx, app)
			},
		}
		return runner.Run(ctx, cmd)
	}

	runner := &QueryActionRunner[*steam.Achievement]{
		CommandName:  "acq",
		SchemaKeys:   achievementSchemaKeys,
		Examples:     acqExamples,
		DefaultAttrs: []string{"apiname", "name", "percent"},
		PostProcess:  postProcess,
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]*steam.Achievement, error) {
			app, _, err := appArg(cmd)
			if err != nil {
				return nil, err
			}
			return app.Achievements(ctx)
		},
	}
	return runner.Run(ctx, cmd)
}

// AcqCommandBuilder constructs the cli.Command for "acq", wiring metadata,
// flags, and action/validator handlers.
func AcqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "acq",
		Usage:     "achievement query",
		UsageText: `steamctl acq <appid> [--user <id|vanity>] [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "chop",
				Usage: "chop common apiname prefix",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("acq.chop", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: false,
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "include the unlock state of this user",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
		},
		Action: AcqCommandAction,
		Meta:   meta,
	}).Build()
}

// chopPrefix finds common leading delim-separated segments in the given
// attribute of dataset values. If at least 50% of entries share at least 2
// common leading segments, those segments (and the trailing delimiter) are
// removed and replaced with "..".
func chopPrefix(dataset []map[string]interface{}, attribute string, delim string) {
	if len(dataset) == 0 {
		return
	}

	// Collect all attribute values with their indices.
	type attributeEntry struct {
		idx   int
		value string
	}
	var attributeValues []attributeEntry
	for i, entry := range dataset {
		if val, ok := entry[attribute]; ok {
			if str, ok := val.(string); ok {
				attributeValues = append(attributeValues, attributeEntry{idx: i, value: str})
			}
		}
	}

	if len(attributeValues) == 0 {
		return
	}

	// Calculate the 50% threshold.
	threshold := (len(attributeValues) + 1) / 2

	type segmentedValue struct {
		idx      int
		value    string
		segments []string
	}
	var segmented []segmentedValue
	maxSegments := 0
	for _, av := range attributeValues {
		segs := strings.Split(av.value, delim)
		segmented = append(segmented, segmentedValue{idx: av.idx, value: av.value, segments: segs})
		if len(segs) > maxSegments {
			maxSegments = len(segs)
		}
	}

	// Find the longest common prefix of segments that appears in at least 50%.
	var commonSegments []string
	for segIdx := 0; segIdx < maxSegments; segIdx++ {
		segmentCounts := make(map[string]int)
		for _, sv := range segmented {
			if segIdx < len(sv.segments) && sameLeading(sv.segments, commonSegments) {
				segmentCounts[sv.segments[segIdx]]++
			}
		}

		var bestSegment string
		var bestCount int
		for seg, count := range segmentCounts {
			if count > bestCount || (count == bestCount && seg < bestSegment) {
				bestSegment = seg
				bestCount = count
			}
		}

		if bestCount < threshold {
			break
		}
		commonSegments = append(commonSegments, bestSegment)
	}

	if len(commonSegments) < 2 {
		return
	}

	prefixToRemove := strings.Join(commonSegments, delim) + delim
	for _, sv := range segmented {
		if strings.HasPrefix(sv.value, prefixToRemove) {
			dataset[sv.idx][attribute] = ".." + sv.value[len(prefixToRemove):]
		}
	}
}

func sameLeading(segments, prefix []string) bool {
	if len(segments) < len(prefix) {
		return false
	}
	for i := range prefix {
		if segments[i] != prefix[i] {
			return false
		}
	}
	return true
}
