package constants

type (
	DataSource  string
	APIStatus   string
	CachePrefix string
)

const (
	DataSourceCache    DataSource = "cache"
	DataSourceAPI      DataSource = "api"
	DataSourceFallback DataSource = "fallback"

	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixAirport CachePrefix = "AIRPORT_"
)

// Upstream batching and quota defaults
const (
	BatchChunkSize = 25

	// Completeness below this marks a cache row as corrupt/unusable
	MinUsableCompleteness = 10

	RateLimitServiceUpstream = "aviation_api"
)
