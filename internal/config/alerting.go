package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AlertingConfig controls the alert engine and the call-preparation bundle.
type AlertingConfig struct {
	Thresholds             Thresholds    `mapstructure:"thresholds"`
	BaselineWindowMonths   int           `mapstructure:"baselineWindowMonths"`
	FallbackLookbackMonths int           `mapstructure:"fallbackLookbackMonths"`
	EvolutionMonths        int           `mapstructure:"evolutionMonths"`
	SuggestionTimeout      time.Duration `mapstructure:"suggestionTimeout"`
	BundleCacheTTL         time.Duration `mapstructure:"bundleCacheTTL"`
}

// Thresholds are the per-axis severity cut-offs. A value strictly below the
// red cut-off is red; strictly below the yellow cut-off is yellow.
type Thresholds struct {
	ZScoreRed     float64 `mapstructure:"zScoreRed"`
	ZScoreYellow  float64 `mapstructure:"zScoreYellow"`
	PercentRed    float64 `mapstructure:"percentRed"`
	PercentYellow float64 `mapstructure:"percentYellow"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ZScoreRed:     -1.5,
		ZScoreYellow:  -0.5,
		PercentRed:    -30,
		PercentYellow: -15,
	}
}

func DefaultAlertingConfig() AlertingConfig {
	return AlertingConfig{
		Thresholds:             DefaultThresholds(),
		BaselineWindowMonths:   6,
		FallbackLookbackMonths: 12,
		EvolutionMonths:        6,
		SuggestionTimeout:      8 * time.Second,
		BundleCacheTTL:         5 * time.Minute,
	}
}

type AlertingConfigHolder struct {
	current atomic.Value // holds AlertingConfig
}

// NewStaticAlertingConfig returns a holder that never reloads.
func NewStaticAlertingConfig(cfg AlertingConfig) *AlertingConfigHolder {
	holder := &AlertingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewAlertingConfigHolder(appCfg Config, log *zap.Logger) (*AlertingConfigHolder, error) {
	v := viper.New()

	if path := strings.TrimSpace(appCfg.AlertingConfigPath); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("alerting")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/mentorhub")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MENTORHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setAlertingDefaults(v)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read alerting config: %w", err)
		}
		fileFound = false
	}

	cfg, err := decodeAlertingConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticAlertingConfig(cfg)
	if !fileFound {
		log.Info("alerting config file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeAlertingConfig(v)
		if err != nil {
			log.Warn("alerting config reload rejected", zap.String("file", filepath.Base(e.Name)), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("alerting config reloaded", zap.String("file", filepath.Base(e.Name)))
	})

	return holder, nil
}

// Get returns the active configuration. A nil holder yields the defaults.
func (h *AlertingConfigHolder) Get() AlertingConfig {
	if h == nil {
		return DefaultAlertingConfig()
	}
	cfg, ok := h.current.Load().(AlertingConfig)
	if !ok {
		return DefaultAlertingConfig()
	}
	return cfg
}

func setAlertingDefaults(v *viper.Viper) {
	d := DefaultAlertingConfig()
	v.SetDefault("alerting.thresholds.zScoreRed", d.Thresholds.ZScoreRed)
	v.SetDefault("alerting.thresholds.zScoreYellow", d.Thresholds.ZScoreYellow)
	v.SetDefault("alerting.thresholds.percentRed", d.Thresholds.PercentRed)
	v.SetDefault("alerting.thresholds.percentYellow", d.Thresholds.PercentYellow)
	v.SetDefault("alerting.baselineWindowMonths", d.BaselineWindowMonths)
	v.SetDefault("alerting.fallbackLookbackMonths", d.FallbackLookbackMonths)
	v.SetDefault("alerting.evolutionMonths", d.EvolutionMonths)
	v.SetDefault("alerting.suggestionTimeout", d.SuggestionTimeout)
	v.SetDefault("alerting.bundleCacheTTL", d.BundleCacheTTL)
}

func decodeAlertingConfig(v *viper.Viper) (AlertingConfig, error) {
	// Unmarshal merges file values over defaults key by key; UnmarshalKey
	// would take the file's partial map as-is.
	var file struct {
		Alerting AlertingConfig `mapstructure:"alerting"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return AlertingConfig{}, fmt.Errorf("decode alerting config: %w", err)
	}
	if err := validateAlertingConfig(file.Alerting); err != nil {
		return AlertingConfig{}, err
	}
	return file.Alerting, nil
}

func validateAlertingConfig(cfg AlertingConfig) error {
	t := cfg.Thresholds
	if t.ZScoreRed >= t.ZScoreYellow {
		return errors.New("alerting.thresholds.zScoreRed must be below zScoreYellow")
	}
	if t.PercentRed >= t.PercentYellow {
		return errors.New("alerting.thresholds.percentRed must be below percentYellow")
	}
	if cfg.BaselineWindowMonths < 1 || cfg.BaselineWindowMonths > 24 {
		return errors.New("alerting.baselineWindowMonths must be between 1 and 24")
	}
	if cfg.FallbackLookbackMonths < 1 {
		return errors.New("alerting.fallbackLookbackMonths must be positive")
	}
	if cfg.EvolutionMonths < 1 {
		return errors.New("alerting.evolutionMonths must be positive")
	}
	if cfg.SuggestionTimeout <= 0 {
		return errors.New("alerting.suggestionTimeout must be positive")
	}
	return nil
}
