package main

import (
	"github.com/sinbibook/yeoyoochae/internal/config"
)

// loadConfig reads the site configuration and applies the command line overrides.
func (g *globalFlags) loadConfig() (config.Config, error) {
	var opts []config.Option
	if g.configFile != "" {
		opts = append(opts, config.WithConfigFile(g.configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return config.Config{}, err
	}
	if g.data != "" {
		cfg.Data.Source = g.data
	}
	if g.templates != "" {
		cfg.Site.TemplatesDir = g.templates
	}
	if g.locales != "" {
		cfg.Site.LocalesDir = g.locales
	}
	if g.lang != "" {
		cfg.Site.Lang = g.lang
	}
	return cfg, nil
}
