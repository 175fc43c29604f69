// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package steam

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/staranto/steamctlgo/internal/attrcache"
)

// App metadata is treated as immutable for the life of the process. Global
// unlock rates drift, so they are refreshed hourly.
var (
	appNameAttr         = attrcache.NewAttr[string]("name", attrcache.Forever)
	appDetailsAttr      = attrcache.NewAttr[gjson.Result]("details", attrcache.Forever)
	appSchemaAttr       = attrcache.NewAttr[gjson.Result]("schema", attrcache.Forever)
	appAchievementsAttr = attrcache.NewAttr[[]*Achievement]("achievements", attrcache.Forever)
	appPercentagesAttr  = attrcache.NewAttr[map[string]float64]("global_percentages", time.Hour)
	appDLCAttr          = attrcache.NewAttr[[]*App]("dlc", attrcache.Forever)
	appDemosAttr        = attrcache.NewAttr[[]*Demo]("demos", attrcache.Forever)
	appFullGameAttr     = attrcache.NewAttr[*App]("fullgame", attrcache.Forever)
)

// App is a Steam application (game, DLC, tool...) identified by its app id.
type App struct {
	ID     int
	client *Client
	cache  attrcache.Store
}

type AppOption func(*App)

// WithAppName pre-seeds the app's name, e.g. from a search or library listing.
func WithAppName(name string) AppOption {
	return func(a *App) {
		if name != "" {
			appNameAttr.Seed(&a.cache, name)
		}
	}
}

// NewApp builds an App without touching the network.
func NewApp(c *Client, id int, opts ...AppOption) *App {
	a := &App{ID: id, client: c}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) idString() string {
	return strconv.Itoa(a.ID)
}

func (a *App) errorContext(op string) ErrorContext {
	return ErrorContext{Operation: op, Resource: "app", ID: a.idString()}
}

// Details returns the store's appdetails "data" object.
func (a *App) Details(ctx context.Context) (gjson.Result, error) {
	return appDetailsAttr.Get(&a.cache, func() (gjson.Result, error) {
		doc, err := a.client.Fetch(ctx, Request{
			Base: a.client.StoreURL,
			Path: "/api/appdetails",
			Params: url.Values{
				"appids": {a.idString()},
				"l":      {a.client.Language},
				"cc":     {a.client.CountryCode},
			},
			DiskTTL: attrcache.Forever,
			Accept:  a.detailsFound,
		})
		if err != nil {
			return gjson.Result{}, Friendly(err, a.errorContext("get app details"))
		}
		return doc.Get(a.idString() + ".data"), nil
	})
}

// detailsFound rejects the store's {"<id>":{"success":false}} answer for ids it
// does not know, so the miss is not kept on disk.
func (a *App) detailsFound(doc gjson.Result) error {
	if !doc.Get(a.idString() + ".success").Bool() {
		return ErrAppNotFound
	}
	return nil
}

// detail returns a single field of the details document.
func (a *App) detail(ctx context.Context, path string) (gjson.Result, error) {
	d, err := a.Details(ctx)
	if err != nil {
		return gjson.Result{}, err
	}
	return d.Get(path), nil
}

func (a *App) Name(ctx context.Context) (string, error) {
	return appNameAttr.Get(&a.cache, func() (string, error) {
		r, err := a.detail(ctx, "name")
		return r.String(), err
	})
}

func (a *App) Type(ctx context.Context) (string, error) {
	r, err := a.detail(ctx, "type")
	return r.String(), err
}

func (a *App) ShortDescription(ctx context.Context) (string, error) {
	r, err := a.detail(ctx, "short_description")
	return r.String(), err
}

func (a *App) IsFree(ctx context.Context) (bool, error) {
	r, err := a.detail(ctx, "is_free")
	return r.Bool(), err
}

func (a *App) Developers(ctx context.Context) ([]string, error) {
	r, err := a.detail(ctx, "developers")
	return stringSlice(r), err
}

func (a *App) Publishers(ctx context.Context) ([]string, error) {
	r, err := a.detail(ctx, "publishers")
	return stringSlice(r), err
}

func (a *App) Genres(ctx context.Context) ([]string, error) {
	r, err := a.detail(ctx, "genres.#.description")
	return stringSlice(r), err
}

// ReleaseDate is the store's free-form release date ("10 Oct, 2007").
func (a *App) ReleaseDate(ctx context.Context) (string, error) {
	r, err := a.detail(ctx, "release_date.date")
	return r.String(), err
}

func (a *App) HeaderImage(ctx context.Context) (string, error) {
	r, err := a.detail(ctx, "header_image")
	return r.String(), err
}

func (a *App) Categories(ctx context.Context) ([]string, error) {
	r, err := a.detail(ctx, "categories.#.description")
	return stringSlice(r), err
}

// RequiredAge is zero for apps without an age gate.
func (a *App) RequiredAge(ctx context.Context) (int, error) {
	r, err := a.detail(ctx, "required_age")
	return int(r.Int()), err
}

// Recommendations returns the store's recommendation count, with ok=false when
// it lists none.
func (a *App) Recommendations(ctx context.Context) (total int, ok bool, err error) {
	r, err := a.detail(ctx, "recommendations.total")
	if err != nil || !r.Exists() {
		return 0, false, err
	}
	return int(r.Int()), true, nil
}

// DLC lists the app's downloadable content. The store only gives their ids, so
// nothing about them is fetched until read.
func (a *App) DLC(ctx context.Context) ([]*App, error) {
	return appDLCAttr.Get(&a.cache, func() ([]*App, error) {
		d, err := a.Details(ctx)
		if err != nil {
			return nil, err
		}

		var result []*App
		for _, id := range d.Get("dlc").Array() {
			result = append(result, NewApp(a.client, int(id.Int())))
		}
		return result, nil
	})
}

// Demo is a demo of an app, as listed by the full game.
type Demo struct {
	App         *App
	Description string
}

func (a *App) Demos(ctx context.Context) ([]*Demo, error) {
	return appDemosAttr.Get(&a.cache, func() ([]*Demo, error) {
		d, err := a.Details(ctx)
		if err != nil {
			return nil, err
		}

		var result []*Demo
		for _, r := range d.Get("demos").Array() {
			result = append(result, &Demo{
				App:         NewApp(a.client, int(r.Get("appid").Int())),
				Description: r.Get("description").String(),
			})
		}
		return result, nil
	})
}

// FullGame returns the game a demo or DLC belongs to, with ok=false for apps
// that stand on their own.
func (a *App) FullGame(ctx context.Context) (*App, bool, error) {
	full, err := appFullGameAttr.Get(&a.cache, func() (*App, error) {
		d, err := a.Details(ctx)
		if err != nil {
			return nil, err
		}

		fg := d.Get("fullgame")
		if !fg.Get("appid").Exists() {
			return nil, nil
		}
		return NewApp(a.client, int(fg.Get("appid").Int()), WithAppName(fg.Get("name").String())), nil
	})
	if err != nil || full == nil {
		return nil, false, err
	}
	return full, true, nil
}

// Metacritic returns the score, with ok=false when the store lists none.
func (a *App) Metacritic(ctx context.Context) (score int, ok bool, err error) {
	r, err := a.detail(ctx, "metacritic.score")
	if err != nil || !r.Exists() {
		return 0, false, err
	}
	return int(r.Int()), true, nil
}

// Schema returns the "game" object of GetSchemaForGame. Apps without stats yield
// an empty object, not an error.
func (a *App) Schema(ctx context.Context) (gjson.Result, error) {
	return appSchemaAttr.Get(&a.cache, func() (gjson.Result, error) {
		doc, err := a.client.Fetch(ctx, Request{
			Base: a.client.APIURL,
			Path: "/ISteamUserStats/GetSchemaForGame/v2/",
			Params: url.Values{
				"appid": {a.idString()},
				"l":     {a.client.Language},
			},
			Keyed:   true,
			DiskTTL: attrcache.Forever,
		})
		if err != nil {
			return gjson.Result{}, Friendly(err, a.errorContext("get achievement schema"))
		}
		return doc.Get("game"), nil
	})
}

// Achievements lists the app's achievements in schema order. Each one is built
// with its schema fields already seeded.
func (a *App) Achievements(ctx context.Context) ([]*Achievement, error) {
	return appAchievementsAttr.Get(&a.cache, func() ([]*Achievement, error) {
		schema, err := a.Schema(ctx)
		if err != nil {
			return nil, err
		}

		var result []*Achievement
		for _, r := range schema.Get("availableGameStats.achievements").Array() {
			result = append(result, achievementFromSchema(a, r))
		}
		return result, nil
	})
}

// Achievement finds one achievement by API name, with ok=false when the app has
// no such achievement.
func (a *App) Achievement(ctx context.Context, apiName string) (*Achievement, bool, error) {
	all, err := a.Achievements(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, ach := range all {
		if ach.APIName == apiName {
			return ach, true, nil
		}
	}
	return nil, false, nil
}

// GlobalPercentages maps achievement API names to the share of players that
// unlocked them. Apps without achievements yield an empty map.
func (a *App) GlobalPercentages(ctx context.Context) (map[string]float64, error) {
	return appPercentagesAttr.Get(&a.cache, func() (map[string]float64, error) {
		doc, err := a.client.Fetch(ctx, Request{
			Base:   a.client.APIURL,
			Path:   "/ISteamUserStats/GetGlobalAchievementPercentagesForApp/v0002/",
			Params: url.Values{"gameid": {a.idString()}},
		})
		if err != nil {
			return nil, Friendly(err, a.errorContext("get global achievement percentages"))
		}

		result := map[string]float64{}
		for _, r := range doc.Get("achievementpercentages.achievements").Array() {
			// Percent arrives as a number or a numeric string depending on the day.
			result[r.Get("name").String()] = r.Get("percent").Float()
		}
		return result, nil
	})
}

// Record flattens the commonly used details into a map for output.
func (a *App) Record(ctx context.Context) (map[string]any, error) {
	d, err := a.Details(ctx)
	if err != nil {
		return nil, err
	}
	name, err := a.Name(ctx)
	if err != nil {
		return nil, err
	}

	rec := map[string]any{
		"appid":             a.ID,
		"name":              name,
		"type":              d.Get("type").String(),
		"is_free":           d.Get("is_free").Bool(),
		"developers":        stringSlice(d.Get("developers")),
		"publishers":        stringSlice(d.Get("publishers")),
		"genres":            stringSlice(d.Get("genres.#.description")),
		"release_date":      d.Get("release_date.date").String(),
		"coming_soon":       d.Get("release_date.coming_soon").Bool(),
		"header_image":      d.Get("header_image").String(),
		"short_description": d.Get("short_description").String(),
		"website":           d.Get("website").String(),
		"price":             d.Get("price_overview.final_formatted").String(),
		"platforms":         platforms(d.Get("platforms")),
		"categories":        stringSlice(d.Get("categories.#.description")),
		"required_age":      d.Get("required_age").Int(),
	}
	if n := d.Get("recommendations.total"); n.Exists() {
		rec["recommendations"] = n.Int()
	}
	if ids := d.Get("dlc"); ids.IsArray() {
		dlc := make([]int64, 0, len(ids.Array()))
		for _, id := range ids.Array() {
			dlc = append(dlc, id.Int())
		}
		rec["dlc"] = dlc
	}
	if demos := d.Get("demos.#.appid"); len(demos.Array()) > 0 {
		ids := make([]int64, 0, len(demos.Array()))
		for _, id := range demos.Array() {
			ids = append(ids, id.Int())
		}
		rec["demos"] = ids
	}
	if fg := d.Get("fullgame.appid"); fg.Exists() {
		rec["fullgame"] = fg.Int()
	}
	if score := d.Get("metacritic.score"); score.Exists() {
		rec["metacritic"] = score.Int()
	}
	if n := d.Get("achievements.total"); n.Exists() {
		rec["achievements"] = n.Int()
	}
	return rec, nil
}

// stringSlice converts a gjson array of scalars into a string slice.
func stringSlice(r gjson.Result) []string {
	if !r.IsArray() {
		if r.Exists() && r.String() != "" {
			return []string{r.String()}
		}
		return nil
	}
	out := make([]string, 0, len(r.Array()))
	for _, v := range r.Array() {
		out = append(out, v.String())
	}
	return out
}

func platforms(r gjson.Result) []string {
	var out []string
	for _, p := range []string{"windows", "mac", "linux"} {
		if r.Get(p).Bool() {
			out = append(out, p)
		}
	}
	return out
}
