package config

import (
	"os"

	"github.com/pseudomuto/snapdiff/pkg/consts"
	"go.uber.org/fx"
)

var Module = fx.Module("config", fx.Provide(
	// Commands that take their databases from flags run without a config file,
	// so a missing snapdiff.yaml yields a nil config.
	func() (*Config, error) {
		if _, err := os.Stat(consts.ConfigFile); os.IsNotExist(err) {
			return nil, nil
		}

		return LoadConfigFile(consts.ConfigFile)
	},
))
