// Package config holds the shared configuration for the raptor study
// tools: the YAML file format, load-time validation and the directory
// layout every tool reads from and writes into.
//
// # Configuration Sources
//
// Settings are resolved in order of precedence:
//
//	1. The YAML file named by each tool's -config flag
//	2. config.yaml / configs/config.yaml next to the working directory
//	3. Built-in defaults
//
// There is deliberately no environment-variable layer: the tools are batch
// programs whose runs must be reproducible from the config file and flags
// alone.
//
// # Configuration Structure
//
//	type Config struct {
//	    Logging LoggingConfig `yaml:"logging"`
//	    Paths   PathsConfig   `yaml:"paths"`
//	    Sites   []SiteConfig  `yaml:"sites"`
//	    Charts  ChartsConfig  `yaml:"charts"`
//	}
//
// Site entries carry the coordinates used for diel (dawn/day/dusk/night)
// classification of capture times.
//
// # Path Management
//
// The Paths type pins the on-disk layout (raw sources, clean tables,
// reports, charts, logs) to a single base directory so the three tools
// agree on where everything lives:
//
//	paths, err := config.GetPaths()
//	workbook := paths.GetBandingPath("banding_2021.xlsx")
//	report := paths.GetReportPath("captures_by_period.csv")
//
// # Validation
//
// Loading validates the whole file with struct tags
// (go-playground/validator) before any tool runs:
//
//	- Site coordinates must be real latitudes/longitudes
//	- Site codes must be well formed and unique
//	- Logging level/format/output must be recognized values
//
// # Usage
//
// Each tool loads its configuration once at startup:
//
//	cfg, err := config.Load(*configFlag)
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
