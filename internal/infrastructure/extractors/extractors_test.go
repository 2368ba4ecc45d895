package extractors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/becked/prospector-sub006/internal/domain/entities"
	"github.com/becked/prospector-sub006/internal/infrastructure/archive"
)

// fixture is a small but complete save document exercising every record
// family and the format's quirks: self-closing flags, both array
// conventions, 0-based player indices, negative values and a series that
// starts after turn 1.
const fixture = `
<Root>
  <Version>1.0.12345</Version>
  <Game>
    <MatchID>OW-2024-R3-17</MatchID>
    <GameName>Round 3 Game 17</GameName>
    <MapSize>MAPSIZE_DUEL</MapSize>
    <MapWidth>10</MapWidth>
    <MapHeight>8</MapHeight>
    <TurnStyle>TURNSTYLE_STRICT</TurnStyle>
    <Turn>4</Turn>
    <WinnerPlayer>0</WinnerPlayer>
    <VictoryList>
      <Victory>VICTORY_POINTS</Victory>
      <Victory>VICTORY_CONQUEST</Victory>
    </VictoryList>
    <GameOptions>
      <GAMEOPTION_NO_EVENTS/>
      <GAMEOPTION_RUTHLESS_AI/>
    </GameOptions>
    <Content>
      <DLC_WONDERS/>
    </Content>
  </Game>
  <Player>
    <Name>Ninja [OW]</Name>
    <Nation>NATION_ROME</Nation>
    <Score>212</Score>
    <Human/>
    <PointsPerTurn><i>10</i><i>12</i><i>15</i><i>18</i></PointsPerTurn>
    <MilitaryPower><i>5</i><i>8</i><i>7</i><i>9</i></MilitaryPower>
    <Legitimacy start="2"><i>3</i><i>4</i><i>4</i></Legitimacy>
    <YieldRates>
      <Yield type="YIELD_GROWTH"><i>40</i><i>45</i><i>50</i><i>55</i></Yield>
      <Yield type="YIELD_MAINTENANCE"><i>-15</i><i>-10</i><i>0</i><i>-5</i></Yield>
    </YieldRates>
    <FamilyOpinions>
      <Family name="FAMILY_JULII"><i>20</i><i>15</i><i>-5</i><i>0</i></Family>
    </FamilyOpinions>
    <ReligionOpinions>
      <Religion name="RELIGION_PAGANISM"><i>0</i><i>5</i><i>10</i><i>10</i></Religion>
    </ReligionOpinions>
    <SuccessionList>
      <Succession>
        <Character>Romulus</Character><Turn>1</Turn>
        <BirthTurn>-20</BirthTurn><DeathTurn>3</DeathTurn>
      </Succession>
      <Succession>
        <Character>Numa</Character><Turn>3</Turn><BirthTurn>-2</BirthTurn>
      </Succession>
    </SuccessionList>
    <MemoryList>
      <Memory><Type>MEMORYPLAYER_DECLARED_WAR</Type><Turn>2</Turn><Player>1</Player></Memory>
      <Memory><Type>MEMORYFAMILY_UPSET</Type><Turn>3</Turn><Family>FAMILY_JULII</Family><Value>-5</Value></Memory>
      <Memory>
        <Type>MEMORYPLAYER_CAPTURED_CITY</Type><Turn>4</Turn><Player>1</Player>
        <X>6</X><Y>2</Y><CityID>2</CityID><CityName>Sparta</CityName>
      </Memory>
    </MemoryList>
  </Player>
  <Player>
    <Name>José María</Name>
    <Nation>NATION_GREECE</Nation>
    <Score>180</Score>
    <PointsPerTurn><i>9</i><i>11</i><i>12</i><i>14</i></PointsPerTurn>
  </Player>
  <LogData>
    <Type>LOG_CITY_FOUNDED</Type><Turn>1</Turn><Player>0</Player>
    <X>4</X><Y>3</Y><CityID>1</CityID><CityName>Roma</CityName>
  </LogData>
  <LogData>
    <Type>LOG_TECH_DISCOVERED</Type><Turn>2</Turn><Player>1</Player>
    <Tech>TECH_IRONWORKING</Tech>
  </LogData>
  <LogData>
    <Type>LOG_BATTLE</Type><Turn>3</Turn><Player>0</Player><X>5</X><Y>3</Y>
    <AttackerUnit>UNIT_WARRIOR</AttackerUnit>
    <DefenderUnit>UNIT_SLINGER</DefenderUnit>
    <AttackerWon/>
  </LogData>
  <LogData>
    <Type>LOG_FUTURE_THING</Type><Turn>4</Turn><Detail>whatever</Detail>
  </LogData>
  <City>
    <ID>1</ID><Player>0</Player><Name>Roma</Name>
    <FoundedTurn>1</FoundedTurn><X>4</X><Y>3</Y>
    <ProjectList>
      <Project><Type>PROJECT_BARRACKS</Type><Turn>2</Turn></Project>
    </ProjectList>
  </City>
  <TerritoryHistory>
    <Snapshot turn="2"><T x="4" y="3" c="1"/><T x="5" y="3"/></Snapshot>
    <Snapshot turn="4"><T x="4" y="3" c="1"/><T x="5" y="3" c="1"/></Snapshot>
  </TerritoryHistory>
</Root>`

func parseFixture(t *testing.T, doc string) *archive.Node {
	t.Helper()
	root, err := archive.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return root
}

func TestMatch(t *testing.T) {
	m, err := Match(parseFixture(t, fixture))
	require.NoError(t, err)

	assert.Equal(t, "OW-2024-R3-17", m.ExternalMatchID)
	assert.Equal(t, "MAPSIZE_DUEL", m.MapSize)
	assert.Equal(t, 10, m.MapWidth)
	assert.Equal(t, 8, m.MapHeight)
	assert.Equal(t, 4, m.TotalTurns)
	assert.Equal(t, []string{"VICTORY_POINTS", "VICTORY_CONQUEST"}, m.VictoryTypes)

	// Self-closing option elements mean enabled; their names are the flags.
	assert.Equal(t, []string{"GAMEOPTION_NO_EVENTS", "GAMEOPTION_RUTHLESS_AI"}, m.GameOptions)
	assert.Equal(t, []string{"DLC_WONDERS"}, m.ContentFlags)

	// Winner is save-space here; index 0 is a real player, not "nobody".
	require.NotNil(t, m.WinnerPlayerNum)
	assert.Equal(t, 0, *m.WinnerPlayerNum)
}

func TestMatch_MissingGame(t *testing.T) {
	_, err := Match(parseFixture(t, `<Root><Player><Name>X</Name></Player></Root>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing element Game")
}

func TestPlayers(t *testing.T) {
	players, err := Players(parseFixture(t, fixture))
	require.NoError(t, err)
	require.Len(t, players, 2)

	assert.Equal(t, 0, players[0].PlayerNum) // save space until mapping
	assert.Equal(t, "Ninja [OW]", players[0].Name)
	assert.Equal(t, "ninjaow", players[0].NormalizedName)
	assert.Equal(t, "NATION_ROME", players[0].Nation)
	assert.Equal(t, 212, players[0].Score)
	assert.True(t, players[0].IsHuman)
	assert.Equal(t, entities.LinkUnlinked, players[0].LinkStatus)

	assert.Equal(t, 1, players[1].PlayerNum)
	assert.Equal(t, "josemaria", players[1].NormalizedName)
	assert.False(t, players[1].IsHuman)
}

func TestPlayers_Missing(t *testing.T) {
	_, err := Players(parseFixture(t, `<Root><Game/></Root>`))
	require.Error(t, err)
}

func TestRulers(t *testing.T) {
	rulers, err := Rulers(parseFixture(t, fixture))
	require.NoError(t, err)
	require.Len(t, rulers, 2)

	assert.Equal(t, 1, rulers[0].SuccessionOrder)
	assert.Equal(t, "Romulus", rulers[0].CharacterName)
	assert.Equal(t, 1, rulers[0].SuccessionTurn)
	require.NotNil(t, rulers[0].BirthTurn)
	assert.Equal(t, -20, *rulers[0].BirthTurn) // born before game start
	require.NotNil(t, rulers[0].DeathTurn)
	assert.Equal(t, 3, *rulers[0].DeathTurn)

	assert.Equal(t, 2, rulers[1].SuccessionOrder)
	assert.Nil(t, rulers[1].DeathTurn) // alive at game end
}

func TestRulers_OutOfOrder(t *testing.T) {
	doc := `<Root><Player><Name>X</Name><SuccessionList>
		<Succession><Character>A</Character><Turn>5</Turn></Succession>
		<Succession><Character>B</Character><Turn>2</Turn></Succession>
	</SuccessionList></Player></Root>`
	_, err := Rulers(parseFixture(t, doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before predecessor")
}

func TestCities(t *testing.T) {
	cities, projects, err := Cities(parseFixture(t, fixture))
	require.NoError(t, err)

	require.Len(t, cities, 1)
	assert.Equal(t, 1, cities[0].CityID)
	assert.Equal(t, 0, cities[0].PlayerNum)
	assert.Equal(t, "Roma", cities[0].Name)
	assert.Equal(t, 1, cities[0].FoundedTurn)

	require.Len(t, projects, 1)
	assert.Equal(t, "PROJECT_BARRACKS", projects[0].Project)
	assert.Equal(t, 2, projects[0].CompletedTurn)
}

func TestTerritory(t *testing.T) {
	tiles, err := Territory(parseFixture(t, fixture))
	require.NoError(t, err)
	require.Len(t, tiles, 4)

	assert.Equal(t, 2, tiles[0].Turn)
	require.NotNil(t, tiles[0].CityID)
	assert.Equal(t, 1, *tiles[0].CityID)

	// unclaimed tile: city reference absent, not zero
	assert.Nil(t, tiles[1].CityID)
}

func TestTerritory_OutOfBounds(t *testing.T) {
	doc := `<Root>
		<Game><Turn>1</Turn><MapWidth>4</MapWidth><MapHeight>4</MapHeight></Game>
		<TerritoryHistory><Snapshot turn="1"><T x="9" y="0"/></Snapshot></TerritoryHistory>
	</Root>`
	_, err := Territory(parseFixture(t, doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside")
}

func TestTerritory_AbsentHistory(t *testing.T) {
	tiles, err := Territory(parseFixture(t, `<Root><Game><Turn>1</Turn></Game></Root>`))
	require.NoError(t, err)
	assert.Empty(t, tiles)
}

func TestExtractAll(t *testing.T) {
	bundle, errs := ExtractAll(parseFixture(t, fixture))
	require.NotNil(t, bundle)
	assert.Empty(t, errs)

	assert.Len(t, bundle.Players, 2)
	assert.Len(t, bundle.Events, 7) // 3 memory + 4 log, concatenated
	assert.Len(t, bundle.Rulers, 2)
	assert.Len(t, bundle.Cities, 1)
	assert.Len(t, bundle.Tiles, 4)
	assert.NotEmpty(t, bundle.Facts)

	// Coordinates survive into the bundle for both taxonomies.
	for _, ev := range bundle.Events {
		if ev.Type == entities.MemoryCityCaptured || ev.Type == entities.LogBattle {
			require.NotNil(t, ev.X, "event %s lost its X coordinate", ev.Type)
			require.NotNil(t, ev.Y, "event %s lost its Y coordinate", ev.Type)
		}
	}
}

func TestExtractAll_PartialFailure(t *testing.T) {
	// A malformed fact series must not block the other families.
	doc := strings.Replace(fixture, "<i>10</i>", "<i>ten</i>", 1)
	bundle, errs := ExtractAll(parseFixture(t, doc))
	require.NotNil(t, bundle)
	require.Len(t, errs, 1)

	var xerr *entities.ExtractionError
	require.ErrorAs(t, errs[0], &xerr)
	assert.Equal(t, FamilyTurnFacts, xerr.Family)

	assert.Empty(t, bundle.Facts)
	assert.Len(t, bundle.Players, 2)
	assert.Len(t, bundle.Events, 7)
	assert.Len(t, bundle.Cities, 1)
}

func TestExtractAll_MissingMatch(t *testing.T) {
	bundle, errs := ExtractAll(parseFixture(t, `<Root><Player><Name>X</Name></Player></Root>`))
	assert.Nil(t, bundle)
	require.Len(t, errs, 1)

	var xerr *entities.ExtractionError
	require.ErrorAs(t, errs[0], &xerr)
	assert.Equal(t, FamilyMatch, xerr.Family)
}
