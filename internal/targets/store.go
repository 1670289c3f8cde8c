package targets

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store holds the configured fieldwork targets per market and category,
// plus display names for market codes. Targets live in a YAML file so
// project managers can adjust quotas without a code change.
type Store struct {
	targets map[string]map[string]int // market -> category -> target
	names   map[string]string         // market code -> display name
}

// fileFormat mirrors the targets YAML layout.
type fileFormat struct {
	MarketNames map[string]string         `mapstructure:"market_names"`
	Targets     map[string]map[string]int `mapstructure:"targets"`
}

// Load reads a targets file. A missing file is not an error: the tracker
// then runs with vendor-reported targets only.
func Load(path string) (*Store, error) {
	store := &Store{
		targets: map[string]map[string]int{},
		names:   map[string]string{},
	}
	if path == "" {
		return store, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return store, nil
		}
		if strings.Contains(err.Error(), "no such file") {
			return store, nil
		}
		return nil, fmt.Errorf("failed to read targets file %s: %w", path, err)
	}

	var raw fileFormat
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse targets file %s: %w", path, err)
	}

	for market, name := range raw.MarketNames {
		store.names[normalize(market)] = name
	}
	for market, categories := range raw.Targets {
		m := normalize(market)
		if store.targets[m] == nil {
			store.targets[m] = map[string]int{}
		}
		for category, target := range categories {
			store.targets[m][category] = target
		}
	}

	return store, nil
}

// Target returns the configured target for a (market, category) pair,
// 0 when none is configured.
func (s *Store) Target(market, category string) int {
	categories, ok := s.targets[normalize(market)]
	if !ok {
		return 0
	}
	return categories[category]
}

// MarketName returns the display name for a market code, falling back to
// the code itself.
func (s *Store) MarketName(code string) string {
	if name, ok := s.names[normalize(code)]; ok {
		return name
	}
	return code
}

// Markets returns the market codes that have at least one configured target.
func (s *Store) Markets() []string {
	out := make([]string, 0, len(s.targets))
	for m := range s.targets {
		out = append(out, m)
	}
	return out
}

func normalize(market string) string {
	return strings.ToUpper(strings.TrimSpace(market))
}
