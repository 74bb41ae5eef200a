package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/herbfield/internal/model"
	"github.com/udisondev/herbfield/internal/spawn"
)

// Herb sources.
const (
	HerbSourceConfig   = "config"
	HerbSourceDatabase = "database"
)

// Herbfield holds all configuration for the herb field service.
type Herbfield struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Renderer bridge (websocket)
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// RNG seed; empty means a fresh layout on every start
	Seed string `yaml:"seed"`

	// Scene
	ForegroundNode string `yaml:"foreground_node"` // node raised above herbs after each cycle
	MaxSceneHerbs  int    `yaml:"max_scene_herbs"` // 0 = unlimited

	Spawn SpawnConfig `yaml:"spawn"`

	// Where the weighted table comes from: "config" (Herbs below) or "database"
	HerbSource string      `yaml:"herb_source"`
	Herbs      []HerbEntry `yaml:"herbs"`

	Database DatabaseConfig `yaml:"database"`
}

// SpawnConfig holds spawn cycle parameters.
type SpawnConfig struct {
	MinCount         int           `yaml:"min_count"`
	MaxCount         int           `yaml:"max_count"`
	MinSpacing       float64       `yaml:"min_spacing"`
	MaxRetries       int           `yaml:"max_retries"`
	AreaWidth        float64       `yaml:"area_width"`
	AreaHeight       float64       `yaml:"area_height"`
	Interval         time.Duration `yaml:"interval"` // 0 = spawn once at startup
	Exclude          []string      `yaml:"exclude"`  // herb IDs left out of the table
	RequireProximity bool          `yaml:"require_proximity"`
}

// HerbEntry is one row of the weighted herb table.
type HerbEntry struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
	Icon   string  `yaml:"icon"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Herbfield config with sensible defaults.
func Default() Herbfield {
	return Herbfield{
		LogLevel:       "info",
		BindAddress:    "0.0.0.0",
		Port:           7780,
		ForegroundNode: "player",
		Spawn: SpawnConfig{
			MinCount:   3,
			MaxCount:   8,
			MinSpacing: 150,
			MaxRetries: 10,
			AreaWidth:  1000,
			AreaHeight: 1000,
		},
		HerbSource: HerbSourceConfig,
		Herbs: []HerbEntry{
			{ID: "item_licorice", Name: "Licorice", Weight: 50, Icon: "herbs/licorice"},
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "herbfield",
			Password: "herbfield",
			DBName:   "herbfield",
			SSLMode:  "disable",
		},
	}
}

// Load loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Herbfield, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SpawnParams converts the spawn section to spawn.Config.
func (c Herbfield) SpawnParams() spawn.Config {
	return spawn.Config{
		MinCount:   c.Spawn.MinCount,
		MaxCount:   c.Spawn.MaxCount,
		MinSpacing: c.Spawn.MinSpacing,
		MaxRetries: c.Spawn.MaxRetries,
		Area:       model.NewArea(c.Spawn.AreaWidth, c.Spawn.AreaHeight),
	}
}

// HerbTypes converts configured herb entries to model types.
func (c Herbfield) HerbTypes() []*model.HerbType {
	herbs := make([]*model.HerbType, 0, len(c.Herbs))
	for _, h := range c.Herbs {
		herbs = append(herbs, model.NewHerbType(h.ID, h.Name, h.Weight, h.Icon))
	}
	return herbs
}

// Validate checks the whole config before anything is started.
func (c Herbfield) Validate() error {
	if err := c.SpawnParams().Validate(); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	if c.Spawn.Interval < 0 {
		return fmt.Errorf("spawn.interval: must be >= 0, got %s", c.Spawn.Interval)
	}

	switch c.HerbSource {
	case HerbSourceConfig:
		if _, err := spawn.NewTable(c.HerbTypes()); err != nil {
			return err
		}
		if err := checkExcluded(c.Spawn.Exclude, c.herbIDs()); err != nil {
			return err
		}
	case HerbSourceDatabase:
		if !c.Database.Enabled {
			return fmt.Errorf("herb_source %q requires database.enabled", c.HerbSource)
		}
	default:
		return fmt.Errorf("herb_source: unknown value %q (want %q or %q)", c.HerbSource, HerbSourceConfig, HerbSourceDatabase)
	}

	return nil
}

func (c Herbfield) herbIDs() []string {
	ids := make([]string, 0, len(c.Herbs))
	for _, h := range c.Herbs {
		ids = append(ids, h.ID)
	}
	return ids
}

// checkExcluded rejects excluded IDs that match no herb, suggesting the closest one.
func checkExcluded(exclude, known []string) error {
	for _, id := range exclude {
		if slices.Contains(known, id) {
			continue
		}
		if s := Suggest(id, known); s != "" {
			return fmt.Errorf("spawn.exclude: unknown herb %q (did you mean %q?)", id, s)
		}
		return fmt.Errorf("spawn.exclude: unknown herb %q", id)
	}
	return nil
}

// Suggest returns the candidate closest to id by edit distance,
// or "" if none is close enough to be a plausible typo.
func Suggest(id string, candidates []string) string {
	best, bestDist := "", -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(id, cand)
		if dist > typoLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && cand < best) {
			best, bestDist = cand, dist
		}
	}
	return best
}

func typoLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 10:
		return 2
	default:
		return 3
	}
}
