// Package euroleague implements the source client for provider B: an XML
// feed for teams/players plus a parallel live-JSON feed for schedules,
// boxscores and play-by-play. Grounded on src/sync/euroleague/client.py's
// (JSON feed) and direct_client.py's (XML feed) cache-through
// fetch_* methods.
package euroleague

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/nadavbarak14/hoopsync/internal/httpclient"
	"github.com/nadavbarak14/hoopsync/internal/ratelimit"
	"github.com/nadavbarak14/hoopsync/internal/rawcache"
)

const SourceName = "euroleague"

// Competition codes, per EuroleagueConfig.competition.
const (
	CompetitionEuroleague = "E"
	CompetitionEuroCup    = "U"
)

// The xml and json fields are separate httpclient.Client instances because
// the XML feed and the live-JSON feed live on different base URLs
// (teams_api_url/players_api_url vs live_api_url, per EuroleagueConfig).
type Client struct {
	xml         *httpclient.Client
	json        *httpclient.Client
	cache       *rawcache.Store
	competition string
}

// NewClient builds a Euroleague client. xmlBaseURL serves the teams/players
// XML feed; jsonBaseURL serves the live boxscore/pbp/schedule JSON feed.
func NewClient(xmlBaseURL, jsonBaseURL, competition string, limiter *ratelimit.Limiter, cache *rawcache.Store, logger *slog.Logger) *Client {
	if competition == "" {
		competition = CompetitionEuroleague
	}
	return &Client{
		xml:         httpclient.New(xmlBaseURL, SourceName, limiter, 30_000_000_000, logger),
		json:        httpclient.New(jsonBaseURL, SourceName, limiter, 30_000_000_000, logger),
		cache:       cache,
		competition: competition,
	}
}

// SeasonCode builds the "{competition}{season}" composite resource id.
func (c *Client) SeasonCode(season int) string {
	return fmt.Sprintf("%s%d", c.competition, season)
}

// FetchTeams fetches the XML teams-with-rosters feed for a season.
func (c *Client) FetchTeams(ctx context.Context, season int, force bool) (*rawcache.CacheResult, error) {
	resourceID := c.SeasonCode(season)
	params := url.Values{"seasonCode": {resourceID}}
	return c.fetchThroughCache(ctx, c.xml, "teams", resourceID, "/feeds/teams", params, force)
}

// FetchPlayer fetches the XML player-profile feed for a single roster player.
func (c *Client) FetchPlayer(ctx context.Context, playerCode string, season int, force bool) (*rawcache.CacheResult, error) {
	resourceID := fmt.Sprintf("%s_%s", playerCode, c.SeasonCode(season))
	params := url.Values{"seasonCode": {c.SeasonCode(season)}, "playerCode": {playerCode}}
	return c.fetchThroughCache(ctx, c.xml, "player", resourceID, "/feeds/players", params, force)
}

// FetchSeasonGames fetches the JSON season schedule/gamecodes feed.
func (c *Client) FetchSeasonGames(ctx context.Context, season int, force bool) (*rawcache.CacheResult, error) {
	resourceID := c.SeasonCode(season)
	params := url.Values{"seasonCode": {resourceID}}
	return c.fetchThroughCache(ctx, c.json, "season_games", resourceID, "/v2/competitions/schedules", params, force)
}

// FetchGameBoxscore fetches the JSON boxscore feed for a single game.
func (c *Client) FetchGameBoxscore(ctx context.Context, season, gamecode int, force bool) (*rawcache.CacheResult, error) {
	resourceID := fmt.Sprintf("%s_%d", c.SeasonCode(season), gamecode)
	params := url.Values{"seasonCode": {c.SeasonCode(season)}, "gamecode": {fmt.Sprint(gamecode)}}
	return c.fetchThroughCache(ctx, c.json, "boxscore", resourceID, "/v2/games/boxscore", params, force)
}

// FetchGamePBP fetches the JSON play-by-play feed for a single game.
func (c *Client) FetchGamePBP(ctx context.Context, season, gamecode int, force bool) (*rawcache.CacheResult, error) {
	resourceID := fmt.Sprintf("%s_%d", c.SeasonCode(season), gamecode)
	params := url.Values{"seasonCode": {c.SeasonCode(season)}, "gamecode": {fmt.Sprint(gamecode)}}
	return c.fetchThroughCache(ctx, c.json, "pbp", resourceID, "/v2/games/playbyplay", params, force)
}

func (c *Client) fetchThroughCache(ctx context.Context, hc *httpclient.Client, resourceType, resourceID, path string, params url.Values, force bool) (*rawcache.CacheResult, error) {
	if !force {
		entry, err := c.cache.Get(ctx, SourceName, resourceType, resourceID)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return &rawcache.CacheResult{Data: entry.RawData, Changed: false, FetchedAt: entry.FetchedAt, CacheID: entry.ID, FromCache: true}, nil
		}
	}

	body, err := hc.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	normalized, err := c.normalize(resourceType, body)
	if err != nil {
		return nil, &httpclient.ParseError{Source: SourceName, ResourceType: resourceType, ResourceID: resourceID, Raw: truncateForError(body), Err: err}
	}

	status := 200
	entry, changed, err := c.cache.Put(ctx, SourceName, resourceType, resourceID, normalized, &status)
	if err != nil {
		return nil, err
	}

	return &rawcache.CacheResult{Data: entry.RawData, Changed: changed, FetchedAt: entry.FetchedAt, CacheID: entry.ID, FromCache: false}, nil
}

// normalize re-encodes the feed's native wire format (XML for teams/player,
// JSON for everything else) to canonical JSON bytes before caching, so
// rawcache.Store hashes XML-derived data the same deterministic way it
// hashes native JSON payloads.
func (c *Client) normalize(resourceType string, body []byte) ([]byte, error) {
	switch resourceType {
	case "teams":
		var doc teamsXML
		if err := xml.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		return json.Marshal(doc)
	case "player":
		var doc playerXML
		if err := xml.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		return json.Marshal(doc)
	default:
		var probe json.RawMessage
		if err := json.Unmarshal(body, &probe); err != nil {
			return nil, err
		}
		return body, nil
	}
}

// teamsXML mirrors the shape direct_client.py's _parse_teams expects from
// the teams feed: a list of <team> elements each carrying a <players> list.
type teamsXML struct {
	XMLName xml.Name   `xml:"teams"`
	Teams   []teamNode `xml:"team"`
}

type teamNode struct {
	Code        string       `xml:"code,attr"`
	TVCode      string       `xml:"tvcode,attr"`
	Name        string       `xml:"name"`
	CountryCode string       `xml:"countrycode"`
	CountryName string       `xml:"countryname"`
	ArenaName   string       `xml:"arenaname"`
	Website     string       `xml:"website"`
	Players     []playerNode `xml:"players>player"`
}

type playerNode struct {
	Code        string `xml:"code,attr"`
	Name        string `xml:"name"`
	Dorsal      string `xml:"dorsal"`
	Position    string `xml:"position"`
	CountryCode string `xml:"countrycode"`
	CountryName string `xml:"countryname"`
}

// playerXML mirrors the player-profile feed's element shape.
type playerXML struct {
	XMLName     xml.Name `xml:"player"`
	Name        string   `xml:"name"`
	Height      string   `xml:"height"`
	BirthDate   string   `xml:"birthdate"`
	Country     string   `xml:"country"`
	ClubCode    string   `xml:"clubcode"`
	ClubName    string   `xml:"clubname"`
	Dorsal      string   `xml:"dorsal"`
	Position    string   `xml:"position"`
}

func truncateForError(b []byte) string {
	if len(b) <= 200 {
		return string(b)
	}
	return string(b[:200]) + "..."
}
