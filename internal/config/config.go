package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ames-casefile/internal/model"
	"ames-casefile/internal/strategy"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load learning defaults from a separate YAML (e.g. examples/learning/*.yaml).
	// If both LearningFile and Learning are provided, Learning overrides LearningFile.
	LearningFile string           `yaml:"learning_file"`
	Learning     LearningConfig   `yaml:"learning"`
	Simulation   SimulationConfig `yaml:"simulation"`
	Server       ServerConfig     `yaml:"server"`
}

// LearningConfig is the default 12-field learning vector handed to every
// generator of a case that has no GenLearningData section.
type LearningConfig struct {
	InitPropensity  float64 `yaml:"init_propensity"`
	Cooling         float64 `yaml:"cooling"`
	Recency         float64 `yaml:"recency"`
	Experimentation float64 `yaml:"experimentation"`
	M1              int     `yaml:"m1"`
	M2              int     `yaml:"m2"`
	M3              int     `yaml:"m3"`
	RIMaxLower      float64 `yaml:"ri_max_lower"`
	RIMaxUpper      float64 `yaml:"ri_max_upper"`
	RIMinC          float64 `yaml:"ri_min_c"`
	SlopeStart      float64 `yaml:"slope_start"`
	RewardSelection int     `yaml:"reward_selection"`
}

// SimulationConfig overrides the built-in scalar defaults of a case. Zero
// values leave the built-in default in place.
type SimulationConfig struct {
	RandomSeed           int64   `yaml:"random_seed"`
	MaxDay               int     `yaml:"max_day"`
	ThresholdProbability float64 `yaml:"threshold_probability"`
	GenPriceCap          float64 `yaml:"gen_price_cap"`
	ReserveRequirements  float64 `yaml:"reserve_requirements"`
	// CapacityMarginPct is a percentage, like the Capacity_Margin directive.
	CapacityMarginPct   float64 `yaml:"capacity_margin_pct"`
	LoadCaseControlFile string  `yaml:"load_case_control_file"`
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Learning: LearningConfig{
			InitPropensity:  6000.0,
			Cooling:         1000.0,
			Recency:         0.04,
			Experimentation: 0.96,
			M1:              10,
			M2:              10,
			M3:              1,
			RIMaxLower:      0.75,
			RIMaxUpper:      0.75,
			RIMinC:          1.0,
			SlopeStart:      0.001,
			RewardSelection: 1,
		},
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"*"},
			CacheTTL:       time.Hour,
			MaxUploadBytes: 8 << 20,
		},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config over the built-in defaults, but does
// not validate it. Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// If learning_file is set, load it and merge in any explicit overrides from c.Learning.
	if c.LearningFile != "" {
		learningPath := c.LearningFile
		if !filepath.IsAbs(learningPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), learningPath)
			if _, err := os.Stat(cand); err == nil {
				learningPath = cand
			}
		}
		loaded, err := loadLearningFile(learningPath)
		if err != nil {
			return nil, err
		}
		c.Learning = MergeLearning(loaded, c.Learning)
	}

	def := Default()
	c.Learning = MergeLearning(def.Learning, c.Learning)
	c.Server = mergeServer(def.Server, c.Server)
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	// Validate the learning defaults by constructing their action domain.
	if _, err := strategy.ActionDomainFor(c.Learning.ToModelParams()); err != nil {
		return fmt.Errorf("learning config invalid: %w", err)
	}
	if c.Learning.Recency < 0 || c.Learning.Recency > 1 {
		return errors.New("learning.recency must be in [0, 1]")
	}
	if c.Learning.Experimentation < 0 || c.Learning.Experimentation > 1 {
		return errors.New("learning.experimentation must be in [0, 1]")
	}
	if p := c.Simulation.ThresholdProbability; p < 0 || p > 1 {
		return errors.New("simulation.threshold_probability must be in [0, 1]")
	}
	if c.Simulation.MaxDay < 0 {
		return errors.New("simulation.max_day must be >= 0")
	}
	return nil
}

// DefaultLearning makes *Config the learning defaults provider for case files.
func (c *Config) DefaultLearning() model.LearningParams {
	return c.Learning.ToModelParams()
}

// SimulationDefaults overlays the configured scalars on the built-in ones.
func (c *Config) SimulationDefaults() model.SimulationParams {
	sim := model.DefaultSimulation()
	s := c.Simulation
	if s.RandomSeed != 0 {
		sim.RandomSeed = s.RandomSeed
	}
	if s.MaxDay != 0 {
		sim.MaxDay = s.MaxDay
	}
	if s.ThresholdProbability != 0 {
		sim.ThresholdProbability = s.ThresholdProbability
	}
	if s.GenPriceCap != 0 {
		sim.GenPriceCap = s.GenPriceCap
	}
	if s.ReserveRequirements != 0 {
		sim.ReserveRequirements = s.ReserveRequirements
	}
	if s.CapacityMarginPct != 0 {
		sim.CapacityMargin = s.CapacityMarginPct / 100
	}
	if s.LoadCaseControlFile != "" {
		sim.LoadCaseControlFile = s.LoadCaseControlFile
	}
	return sim
}

func (l LearningConfig) ToModelParams() model.LearningParams {
	return model.LearningParams{
		InitPropensity:  l.InitPropensity,
		Cooling:         l.Cooling,
		Recency:         l.Recency,
		Experimentation: l.Experimentation,
		M1:              l.M1,
		M2:              l.M2,
		M3:              l.M3,
		RIMaxLower:      l.RIMaxLower,
		RIMaxUpper:      l.RIMaxUpper,
		RIMinC:          l.RIMinC,
		SlopeStart:      l.SlopeStart,
		RewardSelection: l.RewardSelection,
	}
}

type learningFileWrapper struct {
	Learning LearningConfig `yaml:"learning"`
}

func loadLearningFile(path string) (LearningConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return LearningConfig{}, err
	}
	var w learningFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return LearningConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Learning, nil
}

// MergeLearning overlays non-zero fields from override onto base.
func MergeLearning(base, override LearningConfig) LearningConfig {
	out := base
	if override.InitPropensity != 0 {
		out.InitPropensity = override.InitPropensity
	}
	if override.Cooling != 0 {
		out.Cooling = override.Cooling
	}
	if override.Recency != 0 {
		out.Recency = override.Recency
	}
	if override.Experimentation != 0 {
		out.Experimentation = override.Experimentation
	}
	if override.M1 != 0 {
		out.M1 = override.M1
	}
	if override.M2 != 0 {
		out.M2 = override.M2
	}
	if override.M3 != 0 {
		out.M3 = override.M3
	}
	// Note: the range bounds are allowed to be 0 in theory, but 0 here means "not set".
	if override.RIMaxLower != 0 {
		out.RIMaxLower = override.RIMaxLower
	}
	if override.RIMaxUpper != 0 {
		out.RIMaxUpper = override.RIMaxUpper
	}
	if override.RIMinC != 0 {
		out.RIMinC = override.RIMinC
	}
	if override.SlopeStart != 0 {
		out.SlopeStart = override.SlopeStart
	}
	if override.RewardSelection != 0 {
		out.RewardSelection = override.RewardSelection
	}
	return out
}

func mergeServer(base, override ServerConfig) ServerConfig {
	out := base
	if override.Port != "" {
		out.Port = override.Port
	}
	if len(override.AllowedOrigins) > 0 {
		out.AllowedOrigins = override.AllowedOrigins
	}
	if override.CacheTTL != 0 {
		out.CacheTTL = override.CacheTTL
	}
	if override.MaxUploadBytes != 0 {
		out.MaxUploadBytes = override.MaxUploadBytes
	}
	return out
}
