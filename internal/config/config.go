package config

// Config holds all CLI options for a blogscrapper run.
type Config struct {
	URL          string
	CacheDir     string
	OutputDir    string
	LogLevel     string
	LogFile      string
	Verbose      bool
	DelaySeconds int
	Selector     string // CSS selector for the post body; empty = per-platform autodetect
	IgnoreRobots bool
	UserAgent    string
}
