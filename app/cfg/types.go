package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port         string
	RSSHubURL    string
	SyncAPIKey   string
	SeedsDir     string
	WorkerCount  int
	SyncInterval int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
