// Package winner implements the source client for provider A: a JSON league
// API (games_all.json, get_team_score.php, get_team_action.php) plus an HTML
// scrape surface for player/team biographical pages. Grounded on
// src/sync/winner/client.py's fetch_games_all/fetch_boxscore/fetch_pbp
// cache-through pattern.
package winner

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/nadavbarak14/hoopsync/internal/httpclient"
	"github.com/nadavbarak14/hoopsync/internal/ratelimit"
	"github.com/nadavbarak14/hoopsync/internal/rawcache"
)

const SourceName = "winner"

// Client is the rate-limited, cache-through JSON client for provider A.
type Client struct {
	http  *httpclient.Client
	cache *rawcache.Store
}

func NewClient(baseURL string, limiter *ratelimit.Limiter, cache *rawcache.Store, logger *slog.Logger) *Client {
	return &Client{
		http:  httpclient.New(baseURL, SourceName, limiter, 30_000_000_000, logger), // 30s default
		cache: cache,
	}
}

// FetchGamesAll fetches the full current-season schedule. A force=false call
// short-circuits to the cached entry if present; force=true always issues a
// request and writes the result back to the cache.
func (c *Client) FetchGamesAll(ctx context.Context, force bool) (*rawcache.CacheResult, error) {
	return c.fetchThroughCache(ctx, "games_all", "current", "/games_all.json", nil, force)
}

// FetchBoxscore fetches /get_team_score.php?game_id={id}.
func (c *Client) FetchBoxscore(ctx context.Context, gameID string, force bool) (*rawcache.CacheResult, error) {
	params := url.Values{"game_id": {gameID}}
	return c.fetchThroughCache(ctx, "boxscore", gameID, "/get_team_score.php", params, force)
}

// FetchPBP fetches /get_team_action.php?game_id={id}.
func (c *Client) FetchPBP(ctx context.Context, gameID string, force bool) (*rawcache.CacheResult, error) {
	params := url.Values{"game_id": {gameID}}
	return c.fetchThroughCache(ctx, "pbp", gameID, "/get_team_action.php", params, force)
}

// FetchPlayerPage fetches /player.asp?PlayerId={id}, the HTML biography
// page Scraper.ParsePlayerProfile parses.
func (c *Client) FetchPlayerPage(ctx context.Context, playerID string, force bool) (*rawcache.CacheResult, error) {
	params := url.Values{"PlayerId": {playerID}}
	return c.fetchHTMLThroughCache(ctx, "player_page", playerID, "/player.asp", params, force)
}

// FetchTeamRosterPage fetches /team.asp?TeamId={id}, the HTML roster page
// Scraper.ParseTeamRoster parses.
func (c *Client) FetchTeamRosterPage(ctx context.Context, teamID string, force bool) (*rawcache.CacheResult, error) {
	params := url.Values{"TeamId": {teamID}}
	return c.fetchHTMLThroughCache(ctx, "team_page", teamID, "/team.asp", params, force)
}

func (c *Client) fetchThroughCache(ctx context.Context, resourceType, resourceID, path string, params url.Values, force bool) (*rawcache.CacheResult, error) {
	if !force {
		entry, err := c.cache.Get(ctx, SourceName, resourceType, resourceID)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return &rawcache.CacheResult{Data: entry.RawData, Changed: false, FetchedAt: entry.FetchedAt, CacheID: entry.ID, FromCache: true}, nil
		}
	}

	body, err := c.http.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var probe json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, &httpclient.ParseError{Source: SourceName, ResourceType: resourceType, ResourceID: resourceID, Raw: truncateForError(body), Err: err}
	}

	status := 200
	entry, changed, err := c.cache.Put(ctx, SourceName, resourceType, resourceID, body, &status)
	if err != nil {
		return nil, err
	}

	return &rawcache.CacheResult{Data: entry.RawData, Changed: changed, FetchedAt: entry.FetchedAt, CacheID: entry.ID, FromCache: false}, nil
}

// fetchHTMLThroughCache mirrors fetchThroughCache but skips the JSON-decode
// probe, since player/team pages are HTML, not JSON.
func (c *Client) fetchHTMLThroughCache(ctx context.Context, resourceType, resourceID, path string, params url.Values, force bool) (*rawcache.CacheResult, error) {
	if !force {
		entry, err := c.cache.Get(ctx, SourceName, resourceType, resourceID)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return &rawcache.CacheResult{Data: entry.RawData, Changed: false, FetchedAt: entry.FetchedAt, CacheID: entry.ID, FromCache: true}, nil
		}
	}

	body, err := c.http.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	status := 200
	entry, changed, err := c.cache.Put(ctx, SourceName, resourceType, resourceID, body, &status)
	if err != nil {
		return nil, err
	}

	return &rawcache.CacheResult{Data: entry.RawData, Changed: changed, FetchedAt: entry.FetchedAt, CacheID: entry.ID, FromCache: false}, nil
}

func truncateForError(b []byte) string {
	if len(b) <= 200 {
		return string(b)
	}
	return string(b[:200]) + "..."
}
