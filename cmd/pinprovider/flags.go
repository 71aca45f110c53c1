package main

import (
	"github.com/urfave/cli/v2"
)

var (
	adminAPIFlagValue string
	adminAPIFlag      = &cli.StringFlag{
		Name:        "listen-admin",
		Usage:       "Admin HTTP API listen address",
		Aliases:     []string{"l"},
		EnvVars:     []string{"PIN_PROVIDER_LISTEN_ADMIN"},
		Value:       "http://localhost:3102",
		Destination: &adminAPIFlagValue,
	}
)

var (
	nodeAddrFlagValue string
	nodeAddrFlag      = &cli.StringFlag{
		Name:        "addr",
		Usage:       `Storage node multiaddr, example: "/ip4/127.0.0.1/tcp/5001/p2p/12D3KooW..."`,
		Aliases:     []string{"a"},
		EnvVars:     []string{"PIN_PROVIDER_NODE"},
		Required:    true,
		Destination: &nodeAddrFlagValue,
	}
)

var (
	cidFlagValue string
	cidFlag      = &cli.StringFlag{
		Name:        "cid",
		Usage:       "Content identifier",
		Aliases:     []string{"c"},
		Required:    true,
		Destination: &cidFlagValue,
	}
)

var (
	filePathFlagValue string
	filePathFlag      = &cli.StringFlag{
		Name:        "input",
		Aliases:     []string{"i"},
		Usage:       "Path to the file to upload",
		Destination: &filePathFlagValue,
	}
)

var (
	dataFlagValue string
	dataFlag      = &cli.StringFlag{
		Name:        "data",
		Usage:       "Literal content to upload",
		Destination: &dataFlagValue,
	}
)

var (
	provideFlagValue bool
	provideFlag      = &cli.BoolFlag{
		Name:        "provide",
		Usage:       "Register the storage node as provider of the uploaded content",
		Destination: &provideFlagValue,
	}
)

var (
	unprovideFlagValue bool
	unprovideFlag      = &cli.BoolFlag{
		Name:        "unprovide",
		Usage:       "Deregister the storage node as provider once the content is no longer pinned",
		Destination: &unprovideFlagValue,
	}
)

var (
	peerIDFlagValue string
	peerIDFlag      = &cli.StringFlag{
		Name:        "peer-id",
		Aliases:     []string{"p"},
		Usage:       "Peer ID of the provider",
		Required:    true,
		Destination: &peerIDFlagValue,
	}
)

var (
	providerAddrFlagValue string
	providerAddrFlag      = &cli.StringFlag{
		Name:        "multiaddr",
		Aliases:     []string{"m"},
		Usage:       "Multiaddr of the provider",
		Required:    true,
		Destination: &providerAddrFlagValue,
	}
)

var (
	serviceRootFlagValue string
	serviceRootFlag      = &cli.StringFlag{
		Name:        "root",
		Usage:       "Directory holding one sub-directory with a deploy.json per service",
		Value:       "./artifacts",
		Destination: &serviceRootFlagValue,
	}
)

var daemonFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "log-level",
		Usage:    "Set the log level",
		EnvVars:  []string{"GOLOG_LOG_LEVEL"},
		Value:    "info",
		Required: false,
	},
}
