package client

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"bdev-rpc/codec"
	"bdev-rpc/loadbalance"
)

const (
	DefaultTarget     = "spdk"
	DefaultNetwork    = "unix"
	DefaultSocketPath = "/var/tmp/spdk.sock"
	DefaultTimeout    = 60 * time.Second
	DefaultPoolSize   = 4
	DefaultRetryDelay = 100 * time.Millisecond
)

// Duration is a time.Duration that reads "90s"-style strings from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", s)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config describes how to reach a target and how calls behave.
type Config struct {
	// Target is the name instances are registered under in etcd.
	Target string `yaml:"target"`
	// Network and Address locate a single target when no etcd is configured.
	Network string `yaml:"network"`
	Address string `yaml:"address"`

	EtcdEndpoints []string `yaml:"etcd_endpoints"`
	Balancer      string   `yaml:"balancer"`

	Timeout    Duration `yaml:"timeout"`
	PoolSize   int      `yaml:"pool_size"`
	RetryCount uint     `yaml:"retry_count"`
	RetryDelay Duration `yaml:"retry_delay"`
	// RateLimit is in calls per second; 0 disables throttling.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`

	Codec string `yaml:"codec"`
}

func DefaultConfig() Config {
	return Config{
		Target:     DefaultTarget,
		Network:    DefaultNetwork,
		Address:    DefaultSocketPath,
		Timeout:    Duration(DefaultTimeout),
		PoolSize:   DefaultPoolSize,
		RetryDelay: Duration(DefaultRetryDelay),
		Codec:      "json",
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %v", path)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %v", path)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Network {
	case "unix", "tcp", "tcp4", "tcp6":
	default:
		return errors.Errorf("unsupported network %q", c.Network)
	}
	if c.PoolSize < 0 {
		return errors.Errorf("invalid pool_size %d", c.PoolSize)
	}
	if c.RateLimit < 0 {
		return errors.Errorf("invalid rate_limit %v", c.RateLimit)
	}
	if _, err := codec.ParseCodecType(c.Codec); err != nil {
		return err
	}
	if _, err := loadbalance.New(c.Balancer); err != nil {
		return err
	}
	return nil
}
