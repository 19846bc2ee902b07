package api

// SummonerResponse is summoner-v4.
type SummonerResponse struct {
	AccountID     int64  `json:"accountId"`
	Name          string `json:"name"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int64  `json:"summonerLevel"`
	RevisionDate  int64  `json:"revisionDate"`
}

// MatchResponse is match-v4.
type MatchResponse struct {
	GameID                int64                 `json:"gameId"`
	PlatformID            string                `json:"platformId"`
	GameCreation          int64                 `json:"gameCreation"` // unix millis
	GameDuration          int64                 `json:"gameDuration"` // seconds
	QueueID               int                   `json:"queueId"`
	GameVersion           string                `json:"gameVersion"`
	Teams                 []TeamStats           `json:"teams"`
	Participants          []Participant         `json:"participants"`
	ParticipantIdentities []ParticipantIdentity `json:"participantIdentities"`
}

type TeamStats struct {
	TeamID         int       `json:"teamId"` // 100 blue, 200 red
	Win            string    `json:"win"`    // "Win" or "Fail"
	TowerKills     int       `json:"towerKills"`
	InhibitorKills int       `json:"inhibitorKills"`
	BaronKills     int       `json:"baronKills"`
	DragonKills    int       `json:"dragonKills"`
	Bans           []TeamBan `json:"bans"`
}

type TeamBan struct {
	ChampionID int `json:"championId"` // -1 when the slot was skipped
	PickTurn   int `json:"pickTurn"`
}

type Participant struct {
	ParticipantID int              `json:"participantId"`
	TeamID        int              `json:"teamId"`
	ChampionID    int              `json:"championId"`
	Spell1ID      int              `json:"spell1Id"`
	Spell2ID      int              `json:"spell2Id"`
	Stats         ParticipantStats `json:"stats"`
}

type ParticipantStats struct {
	Kills                       int   `json:"kills"`
	Deaths                      int   `json:"deaths"`
	Assists                     int   `json:"assists"`
	TotalMinionsKilled          int   `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int   `json:"neutralMinionsKilled"`
	DoubleKills                 int   `json:"doubleKills"`
	TripleKills                 int   `json:"tripleKills"`
	QuadraKills                 int   `json:"quadraKills"`
	PentaKills                  int   `json:"pentaKills"`
	TotalDamageDealtToChampions int64 `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int64 `json:"totalDamageTaken"`
	GoldEarned                  int64 `json:"goldEarned"`
	Item0                       int   `json:"item0"`
	Item1                       int   `json:"item1"`
	Item2                       int   `json:"item2"`
	Item3                       int   `json:"item3"`
	Item4                       int   `json:"item4"`
	Item5                       int   `json:"item5"`
	Item6                       int   `json:"item6"`
	Perk0                       int   `json:"perk0"`
	TotalHeal                   int64 `json:"totalHeal"`
	VisionScore                 int64 `json:"visionScore"`
	TimeCCingOthers             int64 `json:"timeCCingOthers"`
	FirstBloodKill              bool  `json:"firstBloodKill"`
	TurretKills                 int   `json:"turretKills"`
	InhibitorKills              int   `json:"inhibitorKills"`
}

type ParticipantIdentity struct {
	ParticipantID int            `json:"participantId"`
	Player        IdentityPlayer `json:"player"`
}

type IdentityPlayer struct {
	CurrentAccountID int64  `json:"currentAccountId"`
	AccountID        int64  `json:"accountId"`
	SummonerName     string `json:"summonerName"`
	ProfileIcon      int    `json:"profileIcon"`
}

// Data Dragon documents.

type championList struct {
	Data map[string]struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"data"`
}

type summonerSpellList struct {
	Data map[string]struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"data"`
}

type runeTree struct {
	ID    int    `json:"id"`
	Key   string `json:"key"`
	Icon  string `json:"icon"`
	Name  string `json:"name"`
	Slots []struct {
		Runes []struct {
			ID   int    `json:"id"`
			Key  string `json:"key"`
			Icon string `json:"icon"`
			Name string `json:"name"`
		} `json:"runes"`
	} `json:"slots"`
}
