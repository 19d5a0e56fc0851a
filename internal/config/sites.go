package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Site is one configured forum for scheduled check-ins
type Site struct {
	Name   string `mapstructure:"site_name"`
	URL    string `mapstructure:"site_url"`
	Cookie string `mapstructure:"cookie"`
}

// LoadSites loads the check-in site list from a YAML file:
//
//	sites:
//	  - site_name: invites
//	    site_url: https://invites.fun
//	    cookie: xxx
//
// A missing file yields an empty list without error. A malformed file yields
// an empty list plus the parse error, so a bad edit never crashes the loop.
func LoadSites(path string) ([]Site, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to parse site list: %w", err)
	}

	var sites []Site
	if err := v.UnmarshalKey("sites", &sites); err != nil {
		return nil, fmt.Errorf("failed to decode site list: %w", err)
	}

	var valid []Site
	for _, site := range sites {
		if site.Name == "" || site.URL == "" {
			continue
		}
		valid = append(valid, site)
	}

	return valid, nil
}
