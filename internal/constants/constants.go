package constants

import "time"

const (
	VersionRefreshTTL = 24 * time.Hour
	RetryDelay        = 1 * time.Second
	MaxFetchRetries   = 6
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	BatchTimeout       = 5 * time.Minute
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBusyTimeoutMS   = 5000
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	BanSlots          = 5
	ItemSlots         = 7
	PlaceholderIconID = 29
	MaxPersonName     = 16
	MaxBatchSize      = 100
	DefaultWorkers    = 4
	IconLookupWorkers = 5
	MatchListLimit    = 500
)

const (
	RiotPlatformURL = "https://%s.api.riotgames.com"
	DataDragonURL   = "https://ddragon.leagueoflegends.com"
	RiotTokenHeader = "X-Riot-Token"
)
