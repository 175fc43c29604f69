// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/steamctlgo/internal/cacheutil"
	"github.com/staranto/steamctlgo/internal/config"
	"github.com/staranto/steamctlgo/internal/steam"
)

// Flags hold parse state, so every command gets its own instances.

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the record keys",
		HideDefault: true,
	}
}

func newExamplesFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "examples",
		Usage:       "show example usages",
		HideDefault: true,
	}
}

func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(config.Config.Source)),
				yaml.YAML("color", altsrc.StringSourcer(config.Config.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(config.Config.Source)),
				yaml.YAML("output", altsrc.StringSourcer(config.Config.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(config.Config.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(config.Config.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(config.Config.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewSteamFlags constructs the flags that configure the Steam client. Values
// are resolved from the flag, then the environment, then the <ns>.<flag> and
// <flag> config keys.
func NewSteamFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "key",
			Usage:   "Steam Web API key",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("STEAMCTL_KEY"),
				cli.EnvVar("STEAM_API_KEY"),
			),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "lang",
			Usage:   "language for localized text",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STEAMCTL_LANG")),
			Value:   "english",
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "cc",
			Usage:   "store country code used for prices",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STEAMCTL_CC")),
			Value:   "us",
		}),
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "timeout for each Steam request",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".timeout", altsrc.StringSourcer(path)),
				yaml.YAML("timeout", altsrc.StringSourcer(path)),
			),
			Value: 0,
		},
		&cli.BoolWithInverseFlag{
			Name:  "cache",
			Usage: "reuse cached Steam responses from disk",
			Value: cacheutil.Enabled(),
		},
		&cli.StringFlag{
			Name:    "api-url",
			Hidden:  true,
			Sources: cli.NewValueSourceChain(cli.EnvVar("STEAMCTL_API_URL")),
			Value:   steam.DefaultAPIURL,
		},
		&cli.StringFlag{
			Name:    "store-url",
			Hidden:  true,
			Sources: cli.NewValueSourceChain(cli.EnvVar("STEAMCTL_STORE_URL")),
			Value:   steam.DefaultStoreURL,
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
