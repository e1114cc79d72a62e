package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fpmine/fptree"

	"github.com/imdario/mergo"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const DEVELOPMENT = "development"

// EnvPrefix prefixes every environment override, e.g. FPMINE_MIN_SUPPORT.
const EnvPrefix = "fpmine"

type Configuration struct {
	Env            string  `yaml:"env" envconfig:"ENV"`
	LogLevel       string  `yaml:"log_level" envconfig:"LOG_LEVEL"`
	MinSupport     int     `yaml:"min_support" envconfig:"MIN_SUPPORT"`
	MinConfidence  float64 `yaml:"min_confidence" envconfig:"MIN_CONFIDENCE"`
	MinLift        float64 `yaml:"min_lift" envconfig:"MIN_LIFT"`
	LiftNormalizer string  `yaml:"lift_normalizer" envconfig:"LIFT_NORMALIZER"`
	StrictLookup   bool    `yaml:"strict_lookup" envconfig:"STRICT_LOOKUP"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Env:            "production",
		LogLevel:       "info",
		MinSupport:     2,
		LiftNormalizer: fptree.NormalizeByItems.String(),
	}
}

// textDefaults holds the defaults refilled when a source leaves a text
// field blank. Numeric fields are not refilled: an explicit zero is kept
// and validated.
func textDefaults() Configuration {
	defaults := DefaultConfiguration()
	return Configuration{
		Env:            defaults.Env,
		LogLevel:       defaults.LogLevel,
		LiftNormalizer: defaults.LiftNormalizer,
	}
}

var configuration *Configuration = nil
var initiated bool = false

// Load starts from DefaultConfiguration, overlays the YAML file at path
// when given, then the environment, and validates the result.
func Load(path string) (*Configuration, error) {
	cfg := DefaultConfiguration()
	if path != "" {
		if err := readConfigFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read environment config")
	}
	if err := mergo.Merge(&cfg, textDefaults()); err != nil {
		return nil, errors.Wrap(err, "failed to apply default config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readConfigFile(path string, cfg *Configuration) error {
	configFileAbsPath, _ := filepath.Abs(path)
	logCtx := log.WithFields(log.Fields{
		"file": configFileAbsPath,
	})

	raw, err := os.ReadFile(configFileAbsPath)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load config")
		return errors.Wrapf(err, "failed to read config file %s", configFileAbsPath)
	}
	if err := yaml.UnmarshalStrict(raw, cfg); err != nil {
		logCtx.WithError(err).Error("Failed to parse config")
		return errors.Wrapf(err, "failed to parse config file %s", configFileAbsPath)
	}
	return nil
}

func (c *Configuration) Validate() error {
	if c.MinSupport < 1 {
		return errors.Wrapf(fptree.ErrInvalidInput, "min_support %d must be at least 1", c.MinSupport)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return errors.Wrapf(fptree.ErrInvalidInput, "min_confidence %v must be within [0, 1]", c.MinConfidence)
	}
	if c.MinLift < 0 {
		return errors.Wrapf(fptree.ErrInvalidInput, "min_lift %v must not be negative", c.MinLift)
	}
	if _, err := fptree.ParseLiftNormalizer(c.LiftNormalizer); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(fptree.ErrInvalidInput, "log_level %q: %v", c.LogLevel, err)
	}
	return nil
}

// RuleGenerator builds the rule settings of the configuration. transactions
// is the population used when lift is normalized by transactions.
func (c *Configuration) RuleGenerator(transactions int) (fptree.RuleGenerator, error) {
	normalizer, err := fptree.ParseLiftNormalizer(c.LiftNormalizer)
	if err != nil {
		return fptree.RuleGenerator{}, err
	}
	return fptree.RuleGenerator{
		MinConfidence: c.MinConfidence,
		MinLift:       c.MinLift,
		Normalizer:    normalizer,
		Transactions:  transactions,
		Strict:        c.StrictLookup,
	}, nil
}

func (c *Configuration) IsDevelopment() bool {
	return strings.Compare(c.Env, DEVELOPMENT) == 0
}

// InitLogging logs as JSON at the configured level; development always
// logs at debug.
func InitLogging(c *Configuration) {
	log.SetFormatter(&log.JSONFormatter{})

	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if c.IsDevelopment() {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}

// Init loads the process wide configuration and sets up logging.
func Init(path string) error {
	if initiated {
		return fmt.Errorf("Config already initialized")
	}
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	configuration = cfg
	InitLogging(configuration)

	initiated = true
	log.WithFields(log.Fields{
		"env":             cfg.Env,
		"min_support":     cfg.MinSupport,
		"min_confidence":  cfg.MinConfidence,
		"min_lift":        cfg.MinLift,
		"lift_normalizer": cfg.LiftNormalizer,
	}).Info("Config initialized.")
	return nil
}

func GetConfig() *Configuration {
	return configuration
}
