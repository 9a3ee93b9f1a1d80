package config

import "github.com/urfave/cli/v3"

// Storage holds run metadata storage configuration
type Storage struct {
	RunsDir string
	Project string
}

// Flags returns CLI flags for storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "runs-dir",
			Usage:       "Directory holding per-run metadata records",
			Value:       "runs",
			Destination: &c.RunsDir,
			Sources:     cli.EnvVars("DROVER_RUNS_DIR"),
		},
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Project slug used as the prefix of generated run IDs",
			Value:       "drover",
			Destination: &c.Project,
			Sources:     cli.EnvVars("DROVER_PROJECT"),
		},
	}
}
