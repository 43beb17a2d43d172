package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"k8s.io/utils/pointer"

	"bdev-rpc/bdev"
	"bdev-rpc/client"
)

var out io.Writer = os.Stdout

// Action runs one call and prints its result.
type Action func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error)

func loadConfig(c *cli.Context) (client.Config, error) {
	cfg := client.DefaultConfig()
	if path := c.GlobalString(FlagConfig); path != "" {
		var err error
		if cfg, err = client.LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	if c.GlobalIsSet(FlagServer) || c.GlobalString(FlagConfig) == "" {
		server := c.GlobalString(FlagServer)
		if strings.HasPrefix(server, "/") {
			cfg.Network = "unix"
			cfg.Address = server
		} else {
			cfg.Network = "tcp"
			cfg.Address = net.JoinHostPort(server, strconv.Itoa(c.GlobalInt(FlagPort)))
		}
	}
	if c.GlobalIsSet(FlagTimeout) || c.GlobalString(FlagConfig) == "" {
		cfg.Timeout = client.Duration(time.Duration(c.GlobalFloat64(FlagTimeout) * float64(time.Second)))
	}
	if endpoints := c.GlobalStringSlice(FlagEtcdEndpoints); len(endpoints) > 0 {
		cfg.EtcdEndpoints = endpoints
	}
	if c.GlobalIsSet(FlagTarget) {
		cfg.Target = c.GlobalString(FlagTarget)
	}
	if c.GlobalIsSet(FlagRetryCount) {
		cfg.RetryCount = uint(c.GlobalInt(FlagRetryCount))
	}
	return cfg, nil
}

func run(action Action) func(*cli.Context) error {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		rpc, err := client.NewClient(cfg)
		if err != nil {
			return err
		}
		defer rpc.Close()

		ctx := context.Background()
		if name := routingKey(c); name != "" {
			ctx = client.WithRoutingKey(ctx, name)
		}

		result, err := action(ctx, rpc, c)
		if err != nil {
			return err
		}
		return printResult(result)
	}
}

// routingKey is the bdev a command is about, if any.
func routingKey(c *cli.Context) string {
	for _, flag := range []string{"name", "base-bdev-name", "base-bdev", "bdev-name"} {
		if v := c.String(flag); v != "" {
			return v
		}
	}
	return ""
}

func printResult(result json.RawMessage) error {
	if len(result) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, result, "", "  "); err != nil {
		return errors.Wrap(err, "failed to format result")
	}
	_, err := fmt.Fprintln(out, buf.String())
	return err
}

func optString(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	return pointer.String(c.String(name))
}

func optUint32(c *cli.Context, name string) *uint32 {
	if !c.IsSet(name) {
		return nil
	}
	return pointer.Uint32(uint32(c.Uint(name)))
}

func optUint64(c *cli.Context, name string) *uint64 {
	if !c.IsSet(name) {
		return nil
	}
	return pointer.Uint64(c.Uint64(name))
}

func optBool(c *cli.Context, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	return pointer.Bool(c.Bool(name))
}

// parseKeyValues parses repeated key=value flags.
func parseKeyValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, errors.Errorf("invalid key=value pair %q", pair)
		}
		out[kv[0]] = kv[1]
	}
	return out, nil
}

// parseExtraValue picks the narrowest scalar a command line value can be.
func parseExtraValue(s string) bdev.ExtraValue {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return bdev.IntValue(v)
	}
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return bdev.UintValue(v)
	}
	// ParseFloat also accepts words such as "inf" and "nan"; JSON has no
	// numbers for those, so they stay strings.
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		return bdev.FloatValue(v)
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return bdev.BoolValue(v)
	}
	return bdev.StringValue(s)
}

func aliases(method string) []string {
	if alias, ok := bdev.AliasOf(method); ok {
		return []string{alias}
	}
	return nil
}
