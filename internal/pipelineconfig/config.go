// Package pipelineconfig loads the three configuration objects the core's
// external interfaces accept (spec.md section 6): reader configuration,
// transfer-generation configuration, and NeTEx-profile writer
// configuration. Configuration is read from an optional YAML file via
// viper, overridable by NTFSCONV_*-prefixed environment variables, the
// way the teacher's cmd/bd/config.go loads config.yaml.
package pipelineconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "NTFSCONV"

// ReaderConfig controls how a codec populates a fresh Bag from source
// files (spec.md section 6).
type ReaderConfig struct {
	Contributor             string            `mapstructure:"contributor"`
	Dataset                 string            `mapstructure:"dataset"`
	FeedInfos               map[string]string `mapstructure:"feed_infos"`
	Prefix                  string            `mapstructure:"prefix"`
	ScheduleSubprefix       string            `mapstructure:"schedule_subprefix"`
	OnDemandTransport       bool              `mapstructure:"on_demand_transport"`
	OnDemandTransportComment string           `mapstructure:"on_demand_transport_comment"`
	ReadAsLine              bool              `mapstructure:"read_as_line"`
}

// TransferConfig parameterizes generate-transfers (spec.md section 6).
type TransferConfig struct {
	MaxDistanceMeters float64 `mapstructure:"max_distance"`
	WalkingSpeedMPS   float64 `mapstructure:"walking_speed"`
	WaitingTimeSecs   int     `mapstructure:"waiting_time"`
}

// WaitingTime returns the configured waiting time as a time.Duration.
func (t TransferConfig) WaitingTime() time.Duration {
	return time.Duration(t.WaitingTimeSecs) * time.Second
}

// NetexWriterConfig controls the NeTEx reference codec's output (spec.md
// section 6).
type NetexWriterConfig struct {
	ParticipantRef  string `mapstructure:"participant_ref"`
	CurrentDatetime string `mapstructure:"current_datetime"`
	StopProvider    string `mapstructure:"stop_provider"`
}

// Pipeline bundles the three configuration objects a conversion run
// needs.
type Pipeline struct {
	Reader   ReaderConfig      `mapstructure:"reader"`
	Transfer TransferConfig    `mapstructure:"transfers"`
	Netex    NetexWriterConfig `mapstructure:"netex"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("transfers.max_distance", 500.0)
	v.SetDefault("transfers.walking_speed", 0.785)
	v.SetDefault("transfers.waiting_time", 60)
	v.SetDefault("reader.read_as_line", false)
	v.SetDefault("reader.on_demand_transport", false)
}

// Load reads a Pipeline from an optional YAML file at path (skipped
// entirely if path is empty or the file is absent), then layers
// NTFSCONV_*-prefixed environment variables on top, the way the
// teacher's validateSyncConfig loads an ad hoc viper instance per path
// rather than relying on a single global instance. A key's dots become
// underscores in its variable name (transfers.max_distance is
// NTFSCONV_TRANSFERS_MAX_DISTANCE); only keys that have a default or
// appear in the file are read from the environment.
func Load(path string) (Pipeline, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Pipeline{}, fmt.Errorf("pipelineconfig: reading %s: %w", path, err)
			}
		}
	}

	var p Pipeline
	if err := v.Unmarshal(&p); err != nil {
		return Pipeline{}, fmt.Errorf("pipelineconfig: decoding configuration: %w", err)
	}
	return p, nil
}
