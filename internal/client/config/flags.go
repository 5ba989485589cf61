package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only the flags handled here are passed to the FlagSet; see flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-m", "-a", "-t", "-d", "-b", "-e", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Backend, "m", cfg.Backend, "backend mode (live|mock)")
	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "analysis API base URL")
	timeout := fs.Int("t", int(cfg.AnalysisTimeout.Seconds()), "analysis timeout (in seconds)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Endpoint, "e", cfg.S3Endpoint, "S3 endpoint")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.AnalysisTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
