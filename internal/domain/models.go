package domain

type Side string

const (
	SideBlue Side = "blue"
	SideRed  Side = "red"
)

func (s Side) IsRed() bool { return s == SideRed }

// Regions are the Riot platform ids a player can belong to.
var Regions = []string{"BR1", "EUN1", "EUW1", "JP1", "KR", "LA1", "LA2", "NA1", "OC1", "TR1", "RU"}

func IsRegion(region string) bool {
	for _, r := range Regions {
		if r == region {
			return true
		}
	}
	return false
}

type Person struct {
	PersonName string `json:"personName"`
	CreatedAt  int64  `json:"createdAt"`
}

type Player struct {
	AccountID    int64  `json:"accountId"`
	SummonerName string `json:"summonerName"`
	IconID       int    `json:"iconId"`
	Region       string `json:"region"`
	PersonName   string `json:"personName,omitempty"` // empty when unlinked
	CreatedAt    int64  `json:"createdAt"`
}

type Match struct {
	MatchID    int64 `json:"matchId"`
	RedSideWon bool  `json:"redSideWon"`
	Length     int64 `json:"length"` // seconds
	Date       int64 `json:"date"`   // unix seconds
	CreatedAt  int64 `json:"createdAt"`
}

type Team struct {
	MatchID   int64     `json:"matchId"`
	IsRedSide bool      `json:"isRedSide"`
	Dragons   int       `json:"dragons"`
	Barons    int       `json:"barons"`
	Towers    int       `json:"towers"`
	Inhibs    int       `json:"inhibs"`
	Bans      [5]string `json:"bans"` // champion names by pick turn, "" when unused
}

type TeamPlayer struct {
	MatchID     int64  `json:"matchId"`
	AccountID   int64  `json:"accountId"`
	Champion    string `json:"champion"`
	IsRedSide   bool   `json:"isRedSide"`
	Kills       int    `json:"kills"`
	Deaths      int    `json:"deaths"`
	Assists     int    `json:"assists"`
	CS          int    `json:"cs"`
	Doubles     int    `json:"doubles"`
	Triples     int    `json:"triples"`
	Quadras     int    `json:"quadras"`
	Pentas      int    `json:"pentas"`
	KP          int    `json:"kp"` // kill participation, percent of the side's kills
	DmgDealt    int64  `json:"dmgDealt"`
	DmgTaken    int64  `json:"dmgTaken"`
	Gold        int64  `json:"gold"`
	Spell1      string `json:"spell1"`
	Spell2      string `json:"spell2"`
	Items       [7]int `json:"items"`
	KeyStoneURL string `json:"keyStoneUrl"`
	Healing     int64  `json:"healing"`
	Vision      int64  `json:"vision"`
	CCTime      int64  `json:"ccTime"`
	FirstBlood  bool   `json:"firstBlood"`
	Turrets     int    `json:"turrets"`
	Inhibs      int    `json:"inhibs"`
}
