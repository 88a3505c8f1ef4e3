package constants

type (
	APIStatus   string
	CachePrefix string
	TokenType   string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixDashboard      CachePrefix = "STATS_DASHBOARD"
	CachePrefixTelemetryStats CachePrefix = "STATS_TELEMETRY"
	CachePrefixBlacklist      CachePrefix = "JWT_BLACKLIST_"

	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

const (
	HistoryPageSize       = 20
	DefaultReadingsLimit  = 100
	MaxReadingsLimit      = 1000
	NoteTimestampLayout   = "2006-01-02 15:04"
	DateParamLayout       = "2006-01-02"
	MinPasswordLength     = 8
	MaxBioLength          = 500
	QualityGoodLowFactor  = 1.05
	QualityGoodHighFactor = 0.95
)
