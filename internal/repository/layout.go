package repository

// Repository layout, relative to the repository root.
const (
	CatalogFile    = "data/catalog.json"
	StatsFile      = "data/stats.json"
	NewsFile       = "data/news.json"
	NewsReadFile   = "data/news_read.json"
	DataDir        = "data"
	MediaDir       = "media"
	RunDir         = "run"
	UpdateManifest = "run/update.json"
	ChannelsDir    = "sync/channels"
	CacheConfFile  = "sync/cache.conf"
	MarkerFile     = "cleanup.json"
	JobsLogFile    = "jobs.log"
)
