// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package steam

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/staranto/steamctlgo/internal/attrcache"
)

var (
	achDisplayNameAttr = attrcache.NewAttr[string]("display_name", attrcache.Forever)
	achDescriptionAttr = attrcache.NewAttr[string]("description", attrcache.Forever)
	achHiddenAttr      = attrcache.NewAttr[bool]("hidden", attrcache.Forever)
	achIconAttr        = attrcache.NewAttr[string]("icon", attrcache.Forever)
	achIconGrayAttr    = attrcache.NewAttr[string]("icon_gray", attrcache.Forever)
)

// Achievement is one achievement of an App, identified by its API name.
type Achievement struct {
	App     *App
	APIName string
	cache   attrcache.Store
}

// NewAchievement builds an Achievement without touching the network. Its schema
// fields are resolved through the owning app on first read.
func NewAchievement(app *App, apiName string) *Achievement {
	return &Achievement{App: app, APIName: apiName}
}

// achievementFromSchema builds an Achievement with every schema field seeded.
func achievementFromSchema(app *App, r gjson.Result) *Achievement {
	a := NewAchievement(app, r.Get("name").String())
	achDisplayNameAttr.Seed(&a.cache, r.Get("displayName").String())
	achDescriptionAttr.Seed(&a.cache, r.Get("description").String())
	achHiddenAttr.Seed(&a.cache, r.Get("hidden").Int() != 0)
	achIconAttr.Seed(&a.cache, r.Get("icon").String())
	achIconGrayAttr.Seed(&a.cache, r.Get("icongray").String())
	return a
}

// schemaEntry finds this achievement's entry in the app's schema. A missing
// entry is not an error; the fields read as zero values.
func (a *Achievement) schemaEntry(ctx context.Context) (gjson.Result, error) {
	schema, err := a.App.Schema(ctx)
	if err != nil {
		return gjson.Result{}, err
	}
	for _, r := range schema.Get("availableGameStats.achievements").Array() {
		if r.Get("name").String() == a.APIName {
			return r, nil
		}
	}
	return gjson.Result{}, nil
}

func (a *Achievement) schemaString(ctx context.Context, attr attrcache.Attr[string], path string) (string, error) {
	return attr.Get(&a.cache, func() (string, error) {
		r, err := a.schemaEntry(ctx)
		return r.Get(path).String(), err
	})
}

func (a *Achievement) DisplayName(ctx context.Context) (string, error) {
	return a.schemaString(ctx, achDisplayNameAttr, "displayName")
}

// Description is empty for hidden achievements unless the key owner has
// unlocked them.
func (a *Achievement) Description(ctx context.Context) (string, error) {
	return a.schemaString(ctx, achDescriptionAttr, "description")
}

func (a *Achievement) Icon(ctx context.Context) (string, error) {
	return a.schemaString(ctx, achIconAttr, "icon")
}

func (a *Achievement) IconGray(ctx context.Context) (string, error) {
	return a.schemaString(ctx, achIconGrayAttr, "icongray")
}

func (a *Achievement) Hidden(ctx context.Context) (bool, error) {
	return achHiddenAttr.Get(&a.cache, func() (bool, error) {
		r, err := a.schemaEntry(ctx)
		return r.Get("hidden").Int() != 0, err
	})
}

// GlobalPercent is the share of all players that unlocked the achievement. It is
// read from the app's percentages so it follows their TTL. ok is false when
// Steam reports nothing for this achievement.
func (a *Achievement) GlobalPercent(ctx context.Context) (float64, bool, error) {
	all, err := a.App.GlobalPercentages(ctx)
	if err != nil {
		return 0, false, err
	}
	p, ok := all[a.APIName]
	return p, ok, nil
}

// Record flattens the achievement for output.
func (a *Achievement) Record(ctx context.Context) (map[string]any, error) {
	name, err := a.DisplayName(ctx)
	if err != nil {
		return nil, err
	}
	desc, err := a.Description(ctx)
	if err != nil {
		return nil, err
	}
	hidden, err := a.Hidden(ctx)
	if err != nil {
		return nil, err
	}
	icon, err := a.Icon(ctx)
	if err != nil {
		return nil, err
	}

	rec := map[string]any{
		"appid":       a.App.ID,
		"apiname":     a.APIName,
		"name":        name,
		"description": desc,
		"hidden":      hidden,
		"icon":        icon,
	}

	p, ok, err := a.GlobalPercent(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		rec["percent"] = p
	}
	return rec, nil
}
