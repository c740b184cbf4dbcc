package cfg

type Cfg struct {
	// Input catalogs
	FeedsFile     string
	CompaniesFile string
	KeywordsFile  string

	// HTTP server
	Port         string
	APIAccessKey string

	// Batch schedule (daily, local time)
	BatchHour   int
	BatchMinute int

	// Fetch behavior
	FetchTimeout     int // seconds
	FetchMaxRetries  int
	ExtractRateLimit int // seconds between requests to the same host

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
