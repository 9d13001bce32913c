// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package config resolves the small set of external parameters dsctl
// needs (base directories, source credentials, mirror location). It is
// resolved exactly once per process and the resulting Config is passed by
// parameter into everything downstream; fetch, persist, and load never
// read ambient state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config are the read-only run parameters. Zero values fall back to the
// defaults below.
type Config struct {
	// Source is the path of the YAML config file the values came from,
	// or "" when none was found. Flag value-source chains point at it.
	Source string

	// DataDir is the base directory for raw pulled data.
	DataDir string
	// OutputDir is the base directory canonical artifacts are written
	// to and loaded from.
	OutputDir string

	// WRDSUser is the WRDS (Wharton Research Data Services) postgres
	// username used by the CRSP fetcher.
	WRDSUser string

	// Mirror is the optional S3 location `dsctl mirror` uploads
	// artifacts to.
	Mirror MirrorConfig
}

// MirrorConfig locates the S3 artifact mirror.
type MirrorConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

// yamlConfig is the on-disk shape of dsctl.yaml.
type yamlConfig struct {
	DataDir   string       `yaml:"data_dir"`
	OutputDir string       `yaml:"output_dir"`
	WRDSUser  string       `yaml:"wrds_username"`
	Mirror    MirrorConfig `yaml:"mirror"`
}

const (
	defaultDataDir   = "_data"
	defaultOutputDir = "_output"
)

// Load resolves the configuration. Precedence, highest first:
// environment variables (DATA_DIR, OUTPUT_DIR, WRDS_USERNAME, ...), the
// YAML config file, built-in defaults. A `.env` file in the working
// directory is folded into the environment first, matching how the
// research repos this tool serves keep their credentials.
func Load() (Config, error) {
	// Best-effort; a missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Config{
		DataDir:   defaultDataDir,
		OutputDir: defaultOutputDir,
	}

	if path, ok := configPath(); ok {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var yc yamlConfig
		if err := yaml.Unmarshal(raw, &yc); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.Source = path
		applyYAML(&cfg, yc)
	}

	applyEnv(&cfg)

	log.Debugf("config: data=%s output=%s source=%s",
		cfg.DataDir, cfg.OutputDir, cfg.Source)
	return cfg, nil
}

func applyYAML(cfg *Config, yc yamlConfig) {
	if yc.DataDir != "" {
		cfg.DataDir = yc.DataDir
	}
	if yc.OutputDir != "" {
		cfg.OutputDir = yc.OutputDir
	}
	if yc.WRDSUser != "" {
		cfg.WRDSUser = yc.WRDSUser
	}
	if yc.Mirror.Bucket != "" {
		cfg.Mirror = yc.Mirror
	}
}

func applyEnv(cfg *Config) {
	for env, dst := range map[string]*string{
		"DATA_DIR":            &cfg.DataDir,
		"OUTPUT_DIR":          &cfg.OutputDir,
		"WRDS_USERNAME":       &cfg.WRDSUser,
		"DSCTL_MIRROR_BUCKET": &cfg.Mirror.Bucket,
		"DSCTL_MIRROR_PREFIX": &cfg.Mirror.Prefix,
		"DSCTL_MIRROR_REGION": &cfg.Mirror.Region,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*dst = v
		}
	}
}

// configPath probes the standard locations for dsctl.yaml. DSCTL_CFG
// overrides the search entirely.
func configPath() (string, bool) {
	if p, ok := os.LookupEnv("DSCTL_CFG"); ok && p != "" {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, true
		}
		return "", false
	}

	candidates := []string{
		os.Getenv("XDG_CONFIG_HOME"),
		os.Getenv("APPDATA"),
		os.Getenv("HOME"),
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		file := filepath.Join(c, "dsctl.yaml")
		if fi, err := os.Stat(file); err == nil && !fi.IsDir() {
			log.Debugf("using config file: %s", file)
			return file, true
		}
	}
	return "", false
}
