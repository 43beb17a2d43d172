package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var VERSION = "dev"

const (
	FlagServer        = "server"
	FlagPort          = "port"
	FlagTimeout       = "timeout"
	FlagConfig        = "config"
	FlagVerbose       = "verbose"
	FlagEtcdEndpoints = "etcd-endpoints"
	FlagTarget        = "target"
	FlagRetryCount    = "retry-count"

	EnvSocket = "SPDK_RPC_SOCKET"

	DefaultPort = 5260
)

func cmdNotFound(c *cli.Context, command string) {
	fmt.Fprintf(os.Stderr, "unrecognized command: %s\n", command)
	os.Exit(1)
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := newApp().Run(os.Args); err != nil {
		logrus.Fatalf("Critical error: %v", err)
	}
}

func newApp() *cli.App {
	a := cli.NewApp()
	a.Name = "bdev-rpc"
	a.Version = VERSION
	a.Usage = "Manage block devices of a storage target over JSON-RPC"

	a.Before = func(c *cli.Context) error {
		if c.GlobalBool(FlagVerbose) {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}
		return nil
	}

	a.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   FlagServer + ", s",
			Usage:  "RPC server unix socket path or IP address",
			EnvVar: EnvSocket,
			Value:  "/var/tmp/spdk.sock",
		},
		cli.IntFlag{
			Name:  FlagPort + ", p",
			Usage: "RPC port number, used when the server is an IP address",
			Value: DefaultPort,
		},
		cli.Float64Flag{
			Name:  FlagTimeout + ", t",
			Usage: "Timeout in seconds to wait for a response",
			Value: 60,
		},
		cli.StringFlag{
			Name:  FlagConfig,
			Usage: "YAML client configuration; command line flags take precedence",
		},
		cli.BoolFlag{
			Name:  FlagVerbose + ", v",
			Usage: "Enable debug logging",
		},
		cli.StringSliceFlag{
			Name:  FlagEtcdEndpoints,
			Usage: "Discover targets in etcd instead of connecting to --server",
		},
		cli.StringFlag{
			Name:  FlagTarget,
			Usage: "Target name to look up in etcd",
			Value: "spdk",
		},
		cli.IntFlag{
			Name:  FlagRetryCount,
			Usage: "Retries of a call that failed to reach the target",
		},
	}
	a.Commands = append(Commands(), CallCmd(), MethodsCmd())
	a.CommandNotFound = cmdNotFound
	return a
}
