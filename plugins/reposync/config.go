package reposync

import (
	"os"
	"strconv"
	"strings"
)

// Config describes the single repository this plugin instance keeps
// synced. It mirrors the environment-override pattern Streamy's own repo
// step used (STREAMY_REPO_*), renamed to this plugin's id.
type Config struct {
	URL         string
	Destination string
	Branch      string
	Depth       int
}

func (c Config) withEnvOverrides() Config {
	if v := strings.TrimSpace(os.Getenv("REPOSYNC_URL")); v != "" {
		c.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("REPOSYNC_DESTINATION")); v != "" {
		c.Destination = v
	}
	if v := strings.TrimSpace(os.Getenv("REPOSYNC_BRANCH")); v != "" {
		c.Branch = v
	}
	if v := strings.TrimSpace(os.Getenv("REPOSYNC_DEPTH")); v != "" {
		if depth, err := strconv.Atoi(v); err == nil && depth >= 0 {
			c.Depth = depth
		}
	}
	return c
}
