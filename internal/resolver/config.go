package resolver

import (
	"playervalue/internal/config"
	"playervalue/internal/scrape"
)

// Config carries the resolver's view of the application configuration.
type Config struct {
	BaseURL          string
	SearchPath       string
	Threshold        float64
	MinNameLength    int
	ConsentRetries   int
	Policy           string
	Selectors        scrape.Selectors
	Labels           scrape.Labels
	CareerEndedLabel string
}

// ConfigFrom extracts the resolver settings from cfg.
func ConfigFrom(cfg *config.Config) Config {
	label := cfg.Site.CareerEndedLabel
	if label == "" {
		label = cfg.Site.CareerEndedMarker
	}
	return Config{
		BaseURL:        cfg.Site.BaseURL,
		SearchPath:     cfg.Site.SearchPath,
		Threshold:      cfg.Resolver.ScoreThreshold,
		MinNameLength:  cfg.Resolver.MinNameLength,
		ConsentRetries: cfg.Resolver.ConsentRetries,
		Policy:         cfg.Resolver.CareerEndedPolicy,
		Selectors: scrape.Selectors{
			ResultTable:       cfg.Site.ResultTableSelector,
			NameLink:          cfg.Site.NameLinkSelector,
			ValueCell:         cfg.Site.ValueCellSelector,
			CareerEndedMarker: cfg.Site.CareerEndedMarker,
		},
		Labels: scrape.Labels{
			Contract:        cfg.Site.ContractLabel,
			Birth:           cfg.Site.BirthLabel,
			BirthDateSelect: cfg.Site.BirthDateSelector,
		},
		CareerEndedLabel: label,
	}
}
