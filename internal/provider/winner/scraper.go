package winner

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/nadavbarak14/hoopsync/internal/mapper"
	"github.com/nadavbarak14/hoopsync/internal/types"
)

// Scraper extracts structured records from provider A's HTML pages
// (player profile and team roster; no other page types are parsed),
// trying a modern card-based layout first and falling back to table-based
// parsing. Bilingual labels are tolerated by matching
// against both English and Hebrew label variants.
type Scraper struct {
	client *Client
}

func NewScraper(client *Client) *Scraper {
	return &Scraper{client: client}
}

var positionTokens = map[string]bool{
	"G": true, "F": true, "C": true, "PG": true, "SG": true, "SF": true, "PF": true,
}

// bilingualLabels maps a canonical field name to the label strings that may
// introduce it in either language.
var bilingualLabels = map[string][]string{
	"height":     {"Height", "גובה"},
	"birth_date": {"Born", "Date of Birth", "תאריך לידה"},
	"position":   {"Position", "עמדה", "תפקיד"},
	"nationality": {"Nationality", "אזרחות"},
}

// ParsePlayerProfile extracts a RawPlayerInfo from a player profile page.
// It first tries the modern card layout (elements carrying
// data-field="..." attributes), then falls back to scanning <table> rows
// whose first cell matches a bilingual label.
func (s *Scraper) ParsePlayerProfile(ctx context.Context, externalID string, pageHTML []byte) (types.RawPlayerInfo, error) {
	doc, err := html.Parse(strings.NewReader(string(pageHTML)))
	if err != nil {
		return types.RawPlayerInfo{}, err
	}

	fields := extractCardFields(doc)
	if len(fields) == 0 {
		fields = extractTableFields(doc, bilingualLabels)
	}

	info := types.RawPlayerInfo{ExternalID: externalID}
	if v, ok := fields["height"]; ok {
		info.HeightCM = heightFromLabel(v)
	}
	if v, ok := fields["birth_date"]; ok {
		info.BirthDate = mapper.ParseBirthDate(v)
	}
	if v, ok := fields["position"]; ok {
		info.Position = normalizePosition(v)
	}
	if v, ok := fields["nationality"]; ok {
		info.Nationality = v
	}
	if v, ok := fields["name"]; ok {
		first, last := splitName(v)
		info.FirstName, info.LastName = first, last
	}
	return info, nil
}

// RosterPlayer is a minimal roster entry extracted from a team page — just
// enough to resolve a name search to a player id before fetching the full
// profile.
type RosterPlayer struct {
	ExternalID string
	Name       string
}

// ParseTeamRoster extracts the player roster from a team page. It tries the
// modern card layout first (a div.box_role per player, holding a
// PlayerId-carrying link and a role_name div for the name), skipping boxes
// with no player link (coaches, staff). If no cards are found, it falls back
// to the legacy table layout: any PlayerId link, taking its text as the name.
func (s *Scraper) ParseTeamRoster(ctx context.Context, teamID string, pageHTML []byte) ([]RosterPlayer, error) {
	doc, err := html.Parse(strings.NewReader(string(pageHTML)))
	if err != nil {
		return nil, err
	}

	var roster []RosterPlayer
	var walkCards func(*html.Node)
	walkCards = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "div" && hasClass(node, "box_role") {
			link := findPlayerLink(node)
			if link != nil {
				roster = append(roster, RosterPlayer{
					ExternalID: playerIDFromHref(link),
					Name:       nameFromBox(node),
				})
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walkCards(c)
		}
	}
	walkCards(doc)
	if len(roster) > 0 {
		return roster, nil
	}

	var walkLinks func(*html.Node)
	walkLinks = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			if id := playerIDFromHref(node); id != "" {
				if name := strings.TrimSpace(textContent(node)); name != "" {
					roster = append(roster, RosterPlayer{ExternalID: id, Name: name})
				}
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walkLinks(c)
		}
	}
	walkLinks(doc)
	return roster, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

// findPlayerLink returns the first descendant <a> carrying a PlayerId query
// parameter, or nil if the box has none (a coach or staff entry).
func findPlayerLink(n *html.Node) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if found != nil {
			return
		}
		if node.Type == html.ElementNode && node.Data == "a" && playerIDFromHref(node) != "" {
			found = node
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func playerIDFromHref(link *html.Node) string {
	for _, attr := range link.Attr {
		if attr.Key == "href" && strings.Contains(attr.Val, "PlayerId") {
			rest := strings.SplitN(attr.Val, "PlayerId=", 2)
			if len(rest) != 2 {
				return ""
			}
			return strings.SplitN(rest[1], "&", 2)[0]
		}
	}
	return ""
}

// nameFromBox reads the role_name div inside a player box; the name is
// spread across two lines (first/last) joined by a <br>, so each text node
// is collected separately and the words are joined with single spaces.
func nameFromBox(box *html.Node) string {
	var name string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if name != "" {
			return
		}
		if node.Type == html.ElementNode && node.Data == "div" && hasClass(node, "role_name") {
			var parts []string
			var collect func(*html.Node)
			collect = func(t *html.Node) {
				if t.Type == html.TextNode {
					parts = append(parts, t.Data)
				}
				for c := t.FirstChild; c != nil; c = c.NextSibling {
					collect(c)
				}
			}
			collect(node)
			name = strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(box)
	return name
}

func heightFromLabel(v string) *int {
	v = strings.TrimSpace(strings.TrimSuffix(v, "m"))
	return mapper.ParseEuroleagueHeightToCM(v)
}

func normalizePosition(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if positionTokens[v] {
		return v
	}
	return v
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// extractCardFields looks for elements with a data-field attribute, the
// modern card-based layout.
func extractCardFields(n *html.Node) map[string]string {
	out := map[string]string{}
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, attr := range node.Attr {
				if attr.Key == "data-field" {
					out[attr.Val] = textContent(node)
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// extractTableFields falls back to scanning <tr><td>label</td><td>value</td></tr>
// rows for a bilingual label match.
func extractTableFields(n *html.Node, labels map[string][]string) map[string]string {
	out := map[string]string{}
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "tr" {
			cells := childElements(node, "td")
			if len(cells) >= 2 {
				label := strings.TrimSpace(textContent(cells[0]))
				value := strings.TrimSpace(textContent(cells[1]))
				for field, variants := range labels {
					for _, v := range variants {
						if strings.EqualFold(label, v) {
							out[field] = value
						}
					}
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func childElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	}
	return out
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
