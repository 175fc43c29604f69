// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package steam

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/steamctlgo/internal/attrcache"
)

// Profile data changes while a user plays, so everything a User caches expires.
var (
	userSummaryAttr      = attrcache.NewAttr[gjson.Result]("summary", time.Minute)
	userPersonaNameAttr  = attrcache.NewAttr[string]("persona_name", time.Minute)
	userOwnedGamesAttr   = attrcache.NewAttr[[]*OwnedGame]("owned_games", 10*time.Minute)
	userRecentGamesAttr  = attrcache.NewAttr[[]*OwnedGame]("recent_games", 5*time.Minute)
	userLevelAttr        = attrcache.NewAttr[int]("level", 10*time.Minute)
	userFriendsAttr      = attrcache.NewAttr[[]*Friend]("friends", 5*time.Minute)
	userAchievementsAttr = attrcache.NewAttr[[]*UserAchievement]("achievements", 5*time.Minute)
)

// summaryBatch is the most steamids GetPlayerSummaries accepts per call.
const summaryBatch = 100

// PersonaState is the online status shown on a profile.
type PersonaState int

const (
	Offline PersonaState = iota
	Online
	Busy
	Away
	Snooze
	LookingToTrade
	LookingToPlay
)

func (p PersonaState) String() string {
	switch p {
	case Offline:
		return "offline"
	case Online:
		return "online"
	case Busy:
		return "busy"
	case Away:
		return "away"
	case Snooze:
		return "snooze"
	case LookingToTrade:
		return "looking to trade"
	case LookingToPlay:
		return "looking to play"
	}
	return fmt.Sprintf("unknown(%d)", int(p))
}

// User is a Steam account identified by its SteamID64.
type User struct {
	SteamID string
	client  *Client
	cache   attrcache.Store
}

type UserOption func(*User)

// WithPersonaName pre-seeds the persona name only. Every other profile field
// still comes from the summary.
func WithPersonaName(name string) UserOption {
	return func(u *User) {
		if name != "" {
			userPersonaNameAttr.Seed(&u.cache, name)
		}
	}
}

// withSummary pre-seeds the full summary, as obtained from a batch lookup.
func withSummary(r gjson.Result) UserOption {
	return func(u *User) {
		if r.Exists() {
			u.seedSummary(r)
		}
	}
}

func (u *User) seedSummary(r gjson.Result) {
	userSummaryAttr.Seed(&u.cache, r)
	userPersonaNameAttr.Seed(&u.cache, r.Get("personaname").String())
}

// NewUser builds a User without touching the network. id is not validated here;
// a bad id surfaces on first read.
func NewUser(c *Client, id string, opts ...UserOption) *User {
	u := &User{SteamID: id, client: c}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ResolveUser accepts a SteamID64, a vanity name or a community profile URL.
// Vanity names are resolved with ResolveVanityURL, which needs a key.
func ResolveUser(ctx context.Context, c *Client, ref string) (*User, error) {
	id, vanity := ParseUserRef(ref)
	if id != "" {
		return NewUser(c, id), nil
	}
	if vanity == "" {
		return nil, fmt.Errorf("empty user reference: %w", ErrUserNotFound)
	}

	ectx := ErrorContext{Operation: "resolve vanity name", Resource: "user", ID: vanity}
	doc, err := c.Fetch(ctx, Request{
		Base:   c.APIURL,
		Path:   "/ISteamUser/ResolveVanityURL/v0001/",
		Params: url.Values{"vanityurl": {vanity}},
		Keyed:  true,
	})
	if err != nil {
		return nil, Friendly(err, ectx)
	}
	if doc.Get("response.success").Int() != 1 {
		return nil, Friendly(ErrUserNotFound, ectx)
	}

	id = doc.Get("response.steamid").String()
	log.Debugf("resolved %s to %s", vanity, id)
	return NewUser(c, id), nil
}

func (u *User) errorContext(op string) ErrorContext {
	return ErrorContext{Operation: op, Resource: "user", ID: u.SteamID}
}

// Summary returns the user's GetPlayerSummaries entry. An id Steam knows
// nothing about yields ErrUserNotFound.
func (u *User) Summary(ctx context.Context) (gjson.Result, error) {
	return userSummaryAttr.Get(&u.cache, func() (gjson.Result, error) {
		players, err := fetchSummaries(ctx, u.client, []string{u.SteamID})
		if err != nil {
			return gjson.Result{}, Friendly(err, u.errorContext("get player summary"))
		}
		r, ok := players[u.SteamID]
		if !ok {
			return gjson.Result{}, Friendly(ErrUserNotFound, u.errorContext("get player summary"))
		}
		return r, nil
	})
}

func (u *User) summaryField(ctx context.Context, path string) (gjson.Result, error) {
	s, err := u.Summary(ctx)
	if err != nil {
		return gjson.Result{}, err
	}
	return s.Get(path), nil
}

func (u *User) PersonaName(ctx context.Context) (string, error) {
	return userPersonaNameAttr.Get(&u.cache, func() (string, error) {
		r, err := u.summaryField(ctx, "personaname")
		return r.String(), err
	})
}

func (u *User) ProfileURL(ctx context.Context) (string, error) {
	r, err := u.summaryField(ctx, "profileurl")
	return r.String(), err
}

func (u *User) Avatar(ctx context.Context) (string, error) {
	r, err := u.summaryField(ctx, "avatarfull")
	return r.String(), err
}

func (u *User) PersonaState(ctx context.Context) (PersonaState, error) {
	r, err := u.summaryField(ctx, "personastate")
	return PersonaState(r.Int()), err
}

// CountryCode is empty unless the user chose to publish one.
func (u *User) CountryCode(ctx context.Context) (string, error) {
	r, err := u.summaryField(ctx, "loccountrycode")
	return r.String(), err
}

// Public reports whether the profile's details are visible to the key owner.
func (u *User) Public(ctx context.Context) (bool, error) {
	r, err := u.summaryField(ctx, "communityvisibilitystate")
	return r.Int() == 3, err
}

// Level is zero for private profiles.
func (u *User) Level(ctx context.Context) (int, error) {
	return userLevelAttr.Get(&u.cache, func() (int, error) {
		doc, err := u.client.Fetch(ctx, Request{
			Base:   u.client.APIURL,
			Path:   "/IPlayerService/GetSteamLevel/v1/",
			Params: url.Values{"steamid": {u.SteamID}},
			Keyed:  true,
		})
		if err != nil {
			return 0, Friendly(err, u.errorContext("get steam level"))
		}
		return int(doc.Get("response.player_level").Int()), nil
	})
}

// OwnedGame is one entry of a user's library.
type OwnedGame struct {
	App *App
	// Playtime totals are in minutes.
	PlaytimeForever int
	Playtime2Weeks  int
	LastPlayed      time.Time
}

func ownedGamesFrom(c *Client, r gjson.Result) []*OwnedGame {
	var result []*OwnedGame
	for _, g := range r.Get("response.games").Array() {
		og := &OwnedGame{
			App:             NewApp(c, int(g.Get("appid").Int()), WithAppName(g.Get("name").String())),
			PlaytimeForever: int(g.Get("playtime_forever").Int()),
			Playtime2Weeks:  int(g.Get("playtime_2weeks").Int()),
		}
		if ts := g.Get("rtime_last_played").Int(); ts > 0 {
			og.LastPlayed = time.Unix(ts, 0).UTC()
		}
		result = append(result, og)
	}
	return result
}

// OwnedGames lists the user's library. Each App comes with its name seeded, so
// listing names costs no further requests. Private libraries list nothing.
func (u *User) OwnedGames(ctx context.Context) ([]*OwnedGame, error) {
	return userOwnedGamesAttr.Get(&u.cache, func() ([]*OwnedGame, error) {
		doc, err := u.client.Fetch(ctx, Request{
			Base: u.client.APIURL,
			Path: "/IPlayerService/GetOwnedGames/v0001/",
			Params: url.Values{
				"steamid":                   {u.SteamID},
				"include_appinfo":           {"1"},
				"include_played_free_games": {"1"},
			},
			Keyed: true,
		})
		if err != nil {
			return nil, Friendly(err, u.errorContext("get owned games"))
		}
		return ownedGamesFrom(u.client, doc), nil
	})
}

// RecentGames lists the games played in the last two weeks.
func (u *User) RecentGames(ctx context.Context) ([]*OwnedGame, error) {
	return userRecentGamesAttr.Get(&u.cache, func() ([]*OwnedGame, error) {
		doc, err := u.client.Fetch(ctx, Request{
			Base:   u.client.APIURL,
			Path:   "/IPlayerService/GetRecentlyPlayedGames/v0001/",
			Params: url.Values{"steamid": {u.SteamID}},
			Keyed:  true,
		})
		if err != nil {
			return nil, Friendly(err, u.errorContext("get recently played games"))
		}
		return ownedGamesFrom(u.client, doc), nil
	})
}

// Record flattens a library entry for output.
func (g *OwnedGame) Record(ctx context.Context) (map[string]any, error) {
	name, err := g.App.Name(ctx)
	if err != nil {
		return nil, err
	}
	rec := map[string]any{
		"appid":            g.App.ID,
		"name":             name,
		"playtime_forever": g.PlaytimeForever,
		"playtime_2weeks":  g.Playtime2Weeks,
	}
	if !g.LastPlayed.IsZero() {
		rec["last_played"] = g.LastPlayed.Format(time.RFC3339)
	}
	return rec, nil
}

// Friend is an entry of a user's friend list.
type Friend struct {
	*User
	Relationship string
	Since        time.Time
}

// Friends lists the user's friends. Private friend lists yield
// ErrPrivateProfile.
func (u *User) Friends(ctx context.Context) ([]*Friend, error) {
	return userFriendsAttr.Get(&u.cache, func() ([]*Friend, error) {
		doc, err := u.client.Fetch(ctx, Request{
			Base: u.client.APIURL,
			Path: "/ISteamUser/GetFriendList/v0001/",
			Params: url.Values{
				"steamid":      {u.SteamID},
				"relationship": {"friend"},
			},
			Keyed: true,
		})
		if err != nil {
			return nil, Friendly(err, u.errorContext("get friend list"))
		}

		var result []*Friend
		for _, f := range doc.Get("friendslist.friends").Array() {
			friend := &Friend{
				User:         NewUser(u.client, f.Get("steamid").String()),
				Relationship: f.Get("relationship").String(),
			}
			if ts := f.Get("friend_since").Int(); ts > 0 {
				friend.Since = time.Unix(ts, 0).UTC()
			}
			result = append(result, friend)
		}
		return result, nil
	})
}

// LoadSummaries fetches the summaries of users in batches and seeds them, so
// later per-user reads cost nothing. Users with a fresh summary are skipped.
func LoadSummaries(ctx context.Context, c *Client, users []*User) error {
	var pending []*User
	for _, u := range users {
		if _, ok := userSummaryAttr.Peek(&u.cache); !ok {
			pending = append(pending, u)
		}
	}

	for start := 0; start < len(pending); start += summaryBatch {
		end := min(start+summaryBatch, len(pending))
		batch := pending[start:end]

		ids := make([]string, 0, len(batch))
		for _, u := range batch {
			ids = append(ids, u.SteamID)
		}

		players, err := fetchSummaries(ctx, c, ids)
		if err != nil {
			return Friendly(err, ErrorContext{Operation: "get player summaries", Resource: "users", ID: strconv.Itoa(len(ids))})
		}
		for _, u := range batch {
			if r, ok := players[u.SteamID]; ok {
				withSummary(r)(u)
			}
		}
	}
	return nil
}

// fetchSummaries calls GetPlayerSummaries for up to summaryBatch ids and
// indexes the players by steamid.
func fetchSummaries(ctx context.Context, c *Client, ids []string) (map[string]gjson.Result, error) {
	params := url.Values{"steamids": {strings.Join(ids, ",")}}
	doc, err := c.Fetch(ctx, Request{
		Base:   c.APIURL,
		Path:   "/ISteamUser/GetPlayerSummaries/v0002/",
		Params: params,
		Keyed:  true,
	})
	if err != nil {
		return nil, err
	}

	result := map[string]gjson.Result{}
	for _, p := range doc.Get("response.players").Array() {
		result[p.Get("steamid").String()] = p
	}
	return result, nil
}

// UserAchievement is an achievement as seen by one user.
type UserAchievement struct {
	*Achievement
	Achieved   bool
	UnlockedAt time.Time
}

// Achievements returns the user's unlock state for every achievement of app,
// in schema order. Each app is cached under its own key.
func (u *User) Achievements(ctx context.Context, app *App) ([]*UserAchievement, error) {
	attr := userAchievementsAttr.Keyed(app.idString())
	return attr.Get(&u.cache, func() ([]*UserAchievement, error) {
		doc, err := u.client.Fetch(ctx, Request{
			Base: u.client.APIURL,
			Path: "/ISteamUserStats/GetPlayerAchievements/v0001/",
			Params: url.Values{
				"steamid": {u.SteamID},
				"appid":   {app.idString()},
				"l":       {u.client.Language},
			},
			Keyed: true,
		})
		if err != nil {
			return nil, Friendly(err, u.errorContext(fmt.Sprintf("get achievements of app %d", app.ID)))
		}
		if !doc.Get("playerstats.success").Bool() {
			msg := doc.Get("playerstats.error").String()
			return nil, Friendly(fmt.Errorf("%s: %w", msg, ErrPrivateProfile), u.errorContext("get achievements"))
		}

		unlocked := map[string]gjson.Result{}
		for _, r := range doc.Get("playerstats.achievements").Array() {
			unlocked[r.Get("apiname").String()] = r
		}

		all, err := app.Achievements(ctx)
		if err != nil {
			return nil, err
		}

		var result []*UserAchievement
		for _, a := range all {
			ua := &UserAchievement{Achievement: a}
			if r, ok := unlocked[a.APIName]; ok {
				ua.Achieved = r.Get("achieved").Int() == 1
				if ts := r.Get("unlocktime").Int(); ts > 0 {
					ua.UnlockedAt = time.Unix(ts, 0).UTC()
				}
			}
			result = append(result, ua)
		}
		return result, nil
	})
}

// Record adds the unlock state to the achievement's record.
func (ua *UserAchievement) Record(ctx context.Context) (map[string]any, error) {
	rec, err := ua.Achievement.Record(ctx)
	if err != nil {
		return nil, err
	}
	rec["achieved"] = ua.Achieved
	if !ua.UnlockedAt.IsZero() {
		rec["unlocked"] = ua.UnlockedAt.Format(time.RFC3339)
	}
	return rec, nil
}

// Record flattens the user's summary for output.
func (u *User) Record(ctx context.Context) (map[string]any, error) {
	s, err := u.Summary(ctx)
	if err != nil {
		return nil, err
	}

	rec := map[string]any{
		"steamid":      u.SteamID,
		"personaname":  s.Get("personaname").String(),
		"profileurl":   s.Get("profileurl").String(),
		"avatar":       s.Get("avatarfull").String(),
		"personastate": PersonaState(s.Get("personastate").Int()).String(),
		"public":       s.Get("communityvisibilitystate").Int() == 3,
		"country":      s.Get("loccountrycode").String(),
		"realname":     s.Get("realname").String(),
	}
	if ts := s.Get("timecreated").Int(); ts > 0 {
		rec["created"] = time.Unix(ts, 0).UTC().Format(time.RFC3339)
	}
	if ts := s.Get("lastlogoff").Int(); ts > 0 {
		rec["lastlogoff"] = time.Unix(ts, 0).UTC().Format(time.RFC3339)
	}
	if g := s.Get("gameid"); g.Exists() {
		rec["playing"] = g.String()
	}
	return rec, nil
}

// Record adds the friendship details to the friend's summary.
func (f *Friend) Record(ctx context.Context) (map[string]any, error) {
	rec, err := f.User.Record(ctx)
	if err != nil {
		return nil, err
	}
	rec["relationship"] = f.Relationship
	if !f.Since.IsZero() {
		rec["friend_since"] = f.Since.Format(time.RFC3339)
	}
	return rec, nil
}
