package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	SourcesFile      string
	Port             string
	BaseUrl          string
	APIAccessKey     string
	ExchangeRateURL  string
	HTTPTimeout      int
	SummarySentences int
	ForexWorkers     int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
