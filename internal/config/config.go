package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Pose      PoseConfig      `yaml:"pose"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// PoseConfig points at the pose-estimation sidecar. BaseURL may be empty in
// deployments that only accept pre-extracted samples.
type PoseConfig struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	TargetFPS      float64 `yaml:"target_fps"`
}

// AnalysisConfig tunes rep segmentation and ANT detection. Zero values fall
// back to the defaults applied in Load.
type AnalysisConfig struct {
	BaselineReps    int     `yaml:"baseline_reps"`
	DropThreshold   float64 `yaml:"drop_threshold"`
	SmoothingWindow int     `yaml:"smoothing_window"`
	SustainCount    int     `yaml:"sustain_count"`
	MinConfidence   float64 `yaml:"min_confidence"`
	BufferSeconds   float64 `yaml:"buffer_seconds"`
	MinValidReps    int     `yaml:"min_valid_reps"`
	MinVideoSeconds float64 `yaml:"min_video_seconds"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix SWINGSENSE_ and underscore-separated
// paths:
//
//	SWINGSENSE_SERVER_HOST, SWINGSENSE_SERVER_PORT,
//	SWINGSENSE_DB_HOST, SWINGSENSE_DB_PORT, SWINGSENSE_DB_NAME,
//	SWINGSENSE_DB_USER, SWINGSENSE_DB_PASSWORD, SWINGSENSE_DB_SSLMODE,
//	SWINGSENSE_AUTH_API_KEY, SWINGSENSE_POSE_BASE_URL
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyAnalysisDefaults(&cfg.Analysis)
	applyPoseDefaults(&cfg.Pose)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SWINGSENSE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SWINGSENSE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SWINGSENSE_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("SWINGSENSE_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("SWINGSENSE_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("SWINGSENSE_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("SWINGSENSE_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("SWINGSENSE_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("SWINGSENSE_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("SWINGSENSE_POSE_BASE_URL"); v != "" {
		cfg.Pose.BaseURL = v
	}
}

// applyAnalysisDefaults fills unset analysis fields with the tuning used for
// uploaded-video analysis.
func applyAnalysisDefaults(a *AnalysisConfig) {
	if a.BaselineReps == 0 {
		a.BaselineReps = 5
	}
	if a.DropThreshold == 0 {
		a.DropThreshold = 0.20
	}
	if a.SmoothingWindow == 0 {
		a.SmoothingWindow = 3
	}
	if a.SustainCount == 0 {
		a.SustainCount = 2
	}
	if a.MinConfidence == 0 {
		a.MinConfidence = 0.5
	}
	if a.BufferSeconds == 0 {
		a.BufferSeconds = 10
	}
	if a.MinValidReps == 0 {
		a.MinValidReps = 10
	}
	if a.MinVideoSeconds == 0 {
		a.MinVideoSeconds = 5
	}
}

func applyPoseDefaults(p *PoseConfig) {
	if p.TimeoutSeconds == 0 {
		p.TimeoutSeconds = 120
	}
	if p.TargetFPS == 0 {
		p.TargetFPS = 15
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Analysis.DropThreshold <= 0 || c.Analysis.DropThreshold >= 1 {
		return fmt.Errorf("analysis.drop_threshold must be between 0 and 1")
	}
	if c.Analysis.BaselineReps < 3 {
		return fmt.Errorf("analysis.baseline_reps must be at least 3")
	}
	return nil
}
