package repository

import (
	"fmt"

	"github.com/peggalex/rchkChampionships/internal/constants"
	"github.com/peggalex/rchkChampionships/internal/domain"
	"github.com/peggalex/rchkChampionships/internal/schema"
)

var (
	PersonTable   = schema.NewDatedTable("person")
	PersonNameCol = PersonTable.Define("personName", schema.VarChar(constants.MaxPersonName), schema.PrimaryKey())
)

var (
	PlayerTable           = schema.NewDatedTable("player")
	PlayerAccountIDCol    = PlayerTable.Define("accountId", schema.Integer, schema.PrimaryKey())
	PlayerSummonerNameCol = PlayerTable.Define("summonerName", schema.VarChar(30))
	PlayerIconIDCol       = PlayerTable.Define("iconId", schema.Integer)
	PlayerRegionCol       = PlayerTable.Define("region", schema.Enum(4, domain.Regions...))
	PlayerPersonNameCol   = PlayerTable.ForeignKey(PersonNameCol, schema.Nullable())
)

var (
	MatchTable         = schema.NewDatedTable("match")
	MatchIDCol         = MatchTable.Define("matchId", schema.Integer, schema.PrimaryKey())
	MatchRedSideWonCol = MatchTable.Define("redSideWon", schema.Boolean)
	MatchLengthCol     = MatchTable.Define("length", schema.Integer)
	MatchDateCol       = MatchTable.Define("date", schema.Integer)
)

var (
	TeamTable        = schema.NewDatedTable("team")
	TeamMatchIDCol   = TeamTable.ForeignKey(MatchIDCol, schema.PrimaryKey())
	TeamIsRedSideCol = TeamTable.Define("isRedSide", schema.Boolean, schema.PrimaryKey())
	TeamDragonsCol   = TeamTable.Define("dragons", schema.Integer)
	TeamBaronsCol    = TeamTable.Define("barons", schema.Integer)
	TeamTowersCol    = TeamTable.Define("towers", schema.Integer)
	TeamInhibsCol    = TeamTable.Define("inhibs", schema.Integer)
	TeamBanCols      = defineSeries(TeamTable, "ban", constants.BanSlots, schema.VarChar(20))
)

var (
	TeamPlayerTable          = schema.NewDatedTable("teamPlayer")
	TeamPlayerMatchIDCol     = TeamPlayerTable.ForeignKey(MatchIDCol, schema.PrimaryKey())
	TeamPlayerAccountIDCol   = TeamPlayerTable.ForeignKey(PlayerAccountIDCol, schema.PrimaryKey())
	TeamPlayerChampionCol    = TeamPlayerTable.Define("champion", schema.VarChar(20))
	TeamPlayerIsRedSideCol   = TeamPlayerTable.Define("isRedSide", schema.Boolean)
	TeamPlayerKillsCol       = TeamPlayerTable.Define("kills", schema.Integer)
	TeamPlayerDeathsCol      = TeamPlayerTable.Define("deaths", schema.Integer)
	TeamPlayerAssistsCol     = TeamPlayerTable.Define("assists", schema.Integer)
	TeamPlayerCSCol          = TeamPlayerTable.Define("cs", schema.Integer)
	TeamPlayerDoublesCol     = TeamPlayerTable.Define("doubles", schema.Integer)
	TeamPlayerTriplesCol     = TeamPlayerTable.Define("triples", schema.Integer)
	TeamPlayerQuadrasCol     = TeamPlayerTable.Define("quadras", schema.Integer)
	TeamPlayerPentasCol      = TeamPlayerTable.Define("pentas", schema.Integer)
	TeamPlayerKPCol          = TeamPlayerTable.Define("kp", schema.Integer)
	TeamPlayerDmgDealtCol    = TeamPlayerTable.Define("dmgDealt", schema.Integer)
	TeamPlayerDmgTakenCol    = TeamPlayerTable.Define("dmgTaken", schema.Integer)
	TeamPlayerGoldCol        = TeamPlayerTable.Define("gold", schema.Integer)
	TeamPlayerSpell1Col      = TeamPlayerTable.Define("spell1", schema.VarChar(30))
	TeamPlayerSpell2Col      = TeamPlayerTable.Define("spell2", schema.VarChar(30))
	TeamPlayerItemCols       = defineSeries(TeamPlayerTable, "item", constants.ItemSlots, schema.Integer)
	TeamPlayerKeyStoneURLCol = TeamPlayerTable.Define("keyStoneUrl", schema.VarChar(100))
	TeamPlayerHealingCol     = TeamPlayerTable.Define("healing", schema.Integer)
	TeamPlayerVisionCol      = TeamPlayerTable.Define("vision", schema.Integer)
	TeamPlayerCCTimeCol      = TeamPlayerTable.Define("ccTime", schema.Integer)
	TeamPlayerFirstBloodCol  = TeamPlayerTable.Define("firstBlood", schema.Boolean)
	TeamPlayerTurretsCol     = TeamPlayerTable.Define("turrets", schema.Integer)
	TeamPlayerInhibsCol      = TeamPlayerTable.Define("inhibs", schema.Integer)
)

// Tables lists every table in dependency order: a table only references
// tables before it.
func Tables() []*schema.Table {
	return []*schema.Table{PersonTable, PlayerTable, MatchTable, TeamTable, TeamPlayerTable}
}

func defineSeries(table *schema.Table, prefix string, n int, typ schema.DataType) []*schema.Column {
	cols := make([]*schema.Column, n)
	for i := range cols {
		cols[i] = table.Define(fmt.Sprintf("%s%d", prefix, i), typ)
	}
	return cols
}
