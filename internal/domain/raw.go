package domain

// RawMatch is one untrusted match record as scraped or fetched, before any
// reference lookups.
type RawMatch struct {
	MatchID      int64            `json:"matchId" validate:"gt=0"`
	Region       string           `json:"region" validate:"required,region"`
	Duration     int64            `json:"duration" validate:"gt=0"`
	OccurredAt   int64            `json:"occurredAt" validate:"gt=0"`
	Teams        []RawTeam        `json:"teams" validate:"len=2,dive"`
	Participants []RawParticipant `json:"participants" validate:"min=1,max=10,dive"`
}

type RawTeam struct {
	Side    Side     `json:"side" validate:"oneof=red blue"`
	Win     bool     `json:"win"`
	Dragons int      `json:"dragons" validate:"gte=0"`
	Barons  int      `json:"barons" validate:"gte=0"`
	Towers  int      `json:"towers" validate:"gte=0"`
	Inhibs  int      `json:"inhibs" validate:"gte=0"`
	Bans    []RawBan `json:"bans" validate:"max=5,dive"`
}

type RawBan struct {
	ChampionID int `json:"championId" validate:"gt=0"`
	PickTurn   int `json:"pickTurn" validate:"gte=0"`
}

type RawParticipant struct {
	AccountID    int64  `json:"accountId" validate:"gt=0"`
	SummonerName string `json:"summonerName" validate:"required,max=30"`
	// IconID is set when the source already knows the profile icon.
	IconID     int   `json:"iconId,omitempty" validate:"gte=0"`
	Side       Side  `json:"side" validate:"oneof=red blue"`
	ChampionID int   `json:"championId" validate:"gt=0"`
	Kills      int   `json:"kills" validate:"gte=0"`
	Deaths     int   `json:"deaths" validate:"gte=0"`
	Assists    int   `json:"assists" validate:"gte=0"`
	CS         int   `json:"cs" validate:"gte=0"`
	Doubles    int   `json:"doubles" validate:"gte=0"`
	Triples    int   `json:"triples" validate:"gte=0"`
	Quadras    int   `json:"quadras" validate:"gte=0"`
	Pentas     int   `json:"pentas" validate:"gte=0"`
	DmgDealt   int64 `json:"dmgDealt" validate:"gte=0"`
	DmgTaken   int64 `json:"dmgTaken" validate:"gte=0"`
	Gold       int64 `json:"gold" validate:"gte=0"`
	Spell1ID   int   `json:"spell1Id" validate:"gt=0"`
	Spell2ID   int   `json:"spell2Id" validate:"gt=0"`
	Items      []int `json:"items" validate:"max=7,dive,gte=0"`
	KeystoneID int   `json:"keystoneId" validate:"gt=0"`
	Healing    int64 `json:"healing" validate:"gte=0"`
	Vision     int64 `json:"vision" validate:"gte=0"`
	CCTime     int64 `json:"ccTime" validate:"gte=0"`
	FirstBlood bool  `json:"firstBlood"`
	Turrets    int   `json:"turrets" validate:"gte=0"`
	Inhibs     int   `json:"inhibs" validate:"gte=0"`
}
