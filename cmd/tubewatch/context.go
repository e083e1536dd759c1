package main

import (
	"context"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tubewatch/internal/config"
	"tubewatch/internal/remote"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads, hydrates, and validates configuration exactly once per
// invocation. Secrets Manager values are overlaid before validation so a
// config whose credentials live only in the secret still validates.
func (c *commandContext) ensureConfig(ctx context.Context) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if cfg.State.SecretName != "" {
			values, err := remote.LoadSecret(ctx, cfg.State.SecretName, cfg.State.AWSRegion)
			if err != nil {
				c.configErr = err
				return
			}
			cfg.HydrateSecrets(values)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
