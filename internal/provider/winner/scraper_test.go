package winner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTeamRoster_CardLayout(t *testing.T) {
	html := []byte(`
		<html><body>
			<div class="box_role">
				<a href="player.asp?PlayerId=1019&Season=2024">
					<div class="role_name">Daniel<br/>Cohen</div>
				</a>
				<div class="role_num">7</div>
			</div>
			<div class="box_role">
				<!-- coach box, no player link -->
				<div class="role_name">Head Coach</div>
			</div>
			<div class="box_role">
				<a href="player.asp?PlayerId=2044">
					<div class="role_name">Yossi<br/>Levi</div>
				</a>
			</div>
		</body></html>
	`)

	s := NewScraper(nil)
	roster, err := s.ParseTeamRoster(context.Background(), "2", html)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	assert.Equal(t, "1019", roster[0].ExternalID)
	assert.Equal(t, "Daniel Cohen", roster[0].Name)
	assert.Equal(t, "2044", roster[1].ExternalID)
	assert.Equal(t, "Yossi Levi", roster[1].Name)
}

func TestParseTeamRoster_TableFallback(t *testing.T) {
	html := []byte(`
		<html><body><table>
			<tr><td><a href="player.asp?PlayerId=501">Moshe Israeli</a></td><td>G</td></tr>
			<tr><td><a href="player.asp?PlayerId=502">Avi Peretz</a></td><td>F</td></tr>
		</table></body></html>
	`)

	s := NewScraper(nil)
	roster, err := s.ParseTeamRoster(context.Background(), "4", html)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	assert.Equal(t, "501", roster[0].ExternalID)
	assert.Equal(t, "Moshe Israeli", roster[0].Name)
	assert.Equal(t, "502", roster[1].ExternalID)
	assert.Equal(t, "Avi Peretz", roster[1].Name)
}

func TestParseTeamRoster_NoPlayers(t *testing.T) {
	html := []byte(`<html><body><p>No roster published yet.</p></body></html>`)

	s := NewScraper(nil)
	roster, err := s.ParseTeamRoster(context.Background(), "9", html)
	require.NoError(t, err)
	assert.Empty(t, roster)
}
