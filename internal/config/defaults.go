package config

const (
	defaultConfigPath            = "~/.config/playervalue/config.toml"
	defaultCacheDir              = "~/.cache/playervalue"
	defaultLogDir                = "~/.local/share/playervalue/logs"
	defaultCacheFile             = "players.db"
	defaultBaseURL               = "https://www.transfermarkt.fr"
	defaultSearchPath            = "/schnellsuche/ergebnis/schnellsuche"
	defaultResultTableSelector   = "table.items"
	defaultNameLinkSelector      = "td.hauptlink a[title]"
	defaultValueCellSelector     = "td.rechts.hauptlink"
	defaultCareerEndedMarker     = "Fin de carrière"
	defaultContractLabel         = "Contrat jusqu"
	defaultBirthLabel            = "Naissance"
	defaultBirthDateSelector     = `[itemprop="birthDate"]`
	defaultConsentIframeID       = "sp_message_iframe_953822"
	defaultConsentButtonSelector = "button.message-component.message-button.no-children.focusable.accept-all.sp_choice_type_11"
	defaultAcceptLanguage        = "fr-FR,fr;q=0.9"
	defaultWindowWidth           = 1920
	defaultWindowHeight          = 1080
	defaultPageLoadTimeout       = 30
	defaultImplicitWait          = 5
	defaultConcurrency           = 3
	defaultScoreThreshold        = 90.0
	defaultMinNameLength         = 7
	defaultConsentRetries        = 2
	defaultCareerEndedPolicy     = PolicyAllow
	defaultCacheTTLSeconds       = 3600
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogRetentionDays      = 30
)

// Career-ended candidate policies.
const (
	PolicyAllow    = "allow"
	PolicyFallback = "fallback"
	PolicyExclude  = "exclude"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Site: Site{
			BaseURL:               defaultBaseURL,
			SearchPath:            defaultSearchPath,
			ResultTableSelector:   defaultResultTableSelector,
			NameLinkSelector:      defaultNameLinkSelector,
			ValueCellSelector:     defaultValueCellSelector,
			CareerEndedMarker:     defaultCareerEndedMarker,
			ContractLabel:         defaultContractLabel,
			BirthLabel:            defaultBirthLabel,
			BirthDateSelector:     defaultBirthDateSelector,
			ConsentIframeID:       defaultConsentIframeID,
			ConsentButtonSelector: defaultConsentButtonSelector,
			AcceptLanguage:        defaultAcceptLanguage,
		},
		Browser: Browser{
			Headless:        true,
			WindowWidth:     defaultWindowWidth,
			WindowHeight:    defaultWindowHeight,
			DisableImages:   true,
			PageLoadTimeout: defaultPageLoadTimeout,
			ImplicitWait:    defaultImplicitWait,
		},
		Resolver: Resolver{
			Concurrency:       defaultConcurrency,
			ScoreThreshold:    defaultScoreThreshold,
			MinNameLength:     defaultMinNameLength,
			ConsentRetries:    defaultConsentRetries,
			CareerEndedPolicy: defaultCareerEndedPolicy,
		},
		Cache: Cache{
			Enabled:    true,
			TTLSeconds: defaultCacheTTLSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
