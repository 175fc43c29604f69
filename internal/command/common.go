// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/steamctlgo/internal/attrs"
	"github.com/staranto/steamctlgo/internal/meta"
	"github.com/staranto/steamctlgo/internal/output"
	"github.com/staranto/steamctlgo/internal/steam"
)

// recordWorkers bounds how many records are built concurrently. Each record
// may cost a request, and the store API rate limits aggressively.
const recordWorkers = 8

// Recorder is anything that can flatten itself into an output record.
type Recorder interface {
	Record(context.Context) (map[string]any, error)
}

// ShortCircuitExamples checks the --examples flag and, if present, prints the
// examples and returns true so the caller can exit early.
func ShortCircuitExamples(cmd *cli.Command, examples [][2]string) bool {
	if cmd.Bool("examples") {
		output.DumpExamples(writer(cmd), examples)
		return true
	}
	return false
}

// DumpSchemaIfRequested prints the record keys when --schema is set, and
// returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, name string, keys []string) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(writer(cmd), name, keys)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// EmitRecords marshals the records as a JSON array and passes it to the common
// output routine.
func EmitRecords(records []map[string]any, al attrs.AttrList, cmd *cli.Command, post output.PostProcessor) error {
	if records == nil {
		records = []map[string]any{}
	}

	var raw bytes.Buffer
	enc := json.NewEncoder(&raw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	return output.SliceDiceSpit(raw, al, cmd, "", writer(cmd), post)
}

// CollectRecords builds the record of each item, preserving order. Records are
// built concurrently since most of them wait on the network.
func CollectRecords[T Recorder](ctx context.Context, items []T) ([]map[string]any, error) {
	records := make([]map[string]any, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recordWorkers)
	for i, item := range items {
		g.Go(func() error {
			rec, err := item.Record(gctx)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// NewClientFromFlags builds the Steam client from the --key, --lang, --cc,
// --timeout and --cache flags.
func NewClientFromFlags(cmd *cli.Command) *steam.Client {
	c := steam.NewClient(
		steam.WithKey(cmd.String("key")),
		steam.WithAPIURL(cmd.String("api-url")),
		steam.WithStoreURL(cmd.String("store-url")),
		steam.WithLanguage(cmd.String("lang")),
		steam.WithCountry(cmd.String("cc")),
		steam.WithTimeout(cmd.Duration("timeout")),
		steam.WithDiskCache(cmd.Bool("cache")),
	)
	log.Debugf("client: api=%s store=%s lang=%s cc=%s cache=%v",
		c.APIURL, c.StoreURL, c.Language, c.CountryCode, c.DiskCache)
	return c
}

// AppIDArgs parses the positional args as app ids.
func AppIDArgs(cmd *cli.Command) ([]int, error) {
	var ids []int
	for _, a := range cmd.Args().Slice() {
		if err := AppIDValidator(a); err != nil {
			return nil, fmt.Errorf("invalid appid %q: %w", a, err)
		}
		id, _ := strconv.Atoi(strings.TrimSpace(a))
		ids = append(ids, id)
	}
	return ids, nil
}

// ResolveUserArg resolves the single positional user reference of a command.
func ResolveUserArg(ctx context.Context, cmd *cli.Command, client *steam.Client) (*steam.User, error) {
	if cmd.Args().Len() != 1 {
		return nil, fmt.Errorf("expected exactly one user, got %d", cmd.Args().Len())
	}
	return steam.ResolveUser(ctx, client, cmd.Args().First())
}

// writer returns where command output goes. Tests swap the root writer.
func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// QueryCommandBuilder is a helper that constructs a cli.Command for query
// subcommands (aq, acq, uq, gq, fq) using a consistent pattern.
// It accepts the command name, usage text, optional UsageText, custom flags,
// the action handler, and meta. The builder automatically wires metadata,
// adds examples/schema flags, applies global and Steam flags, and sets up
// validators.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{}, qcb.Flags...)
	flags = append(flags, newExamplesFlag(), newSchemaFlag())
	flags = append(flags, NewSteamFlags(qcb.Name, qcb.Meta.Config.Source)...)
	flags = append(flags, NewGlobalFlags(qcb.Name)...)

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}

// QueryActionRunner[T] encapsulates the common query action pattern for all
// query subcommands. It handles the meta, short-circuit checks, attrs and
// output emission, with the data fetching provided by FetchFn.
type QueryActionRunner[T Recorder] struct {
	CommandName  string
	SchemaKeys   []string
	Examples     [][2]string
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command) ([]T, error)
	PostProcess  output.PostProcessor
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner[T]) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	// Step 1: GetMeta + debug.
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	// Step 2: Short-circuit checks.
	if ShortCircuitExamples(cmd, qar.Examples) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, qar.CommandName, qar.SchemaKeys) {
		return nil
	}

	// Step 3: BuildAttrs + debug.
	attrs := BuildAttrs(cmd, qar.DefaultAttrs...)
	log.Debugf("attrs: %v", attrs)

	// Step 4: Fetch data.
	items, err := qar.FetchFn(ctx, cmd)
	if err != nil {
		return err
	}

	records, err := CollectRecords(ctx, items)
	if err != nil {
		return err
	}
	log.Debugf("records: %d", len(records))

	// Step 5: Emit + return.
	return EmitRecords(records, attrs, cmd, qar.PostProcess)
}
