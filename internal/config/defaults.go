package config

const (
	defaultConfigPath                = "~/.config/cinefill/config.toml"
	defaultDataDir                   = "~/.local/share/cinefill"
	defaultLogDir                    = "~/.local/share/cinefill/logs"
	defaultCatalogDBName             = "catalog.db"
	defaultRegistryBaseURL           = "https://www.kobis.or.kr/kobisopenapi/webservice/rest"
	defaultRegistryTimeoutSeconds    = 10
	defaultArchiveBaseURL            = "https://api.koreafilm.or.kr"
	defaultArchiveCollection         = "kmdb_new2"
	defaultArchiveTimeoutSeconds     = 10
	defaultArchiveRateLimit          = 4.0
	defaultArchiveListCount          = 10
	maxArchiveListCount              = 10
	defaultMatchMinScore             = 70
	defaultMatchTitleExactScore      = 70
	defaultMatchTitleContainsScore   = 40
	defaultMatchYearScore            = 30
	defaultMatchDirectorScore        = 20
	defaultMatchRelaxedYearTolerance = 1
	defaultLogFormat                 = "auto"
	defaultLogLevel                  = "info"
	defaultNotifyTimeoutSeconds      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Registry: Registry{
			BaseURL:        defaultRegistryBaseURL,
			TimeoutSeconds: defaultRegistryTimeoutSeconds,
		},
		Archive: Archive{
			BaseURL:            defaultArchiveBaseURL,
			Collection:         defaultArchiveCollection,
			TimeoutSeconds:     defaultArchiveTimeoutSeconds,
			RateLimitPerSecond: defaultArchiveRateLimit,
			ListCount:          defaultArchiveListCount,
		},
		Match: Match{
			MinScore:             defaultMatchMinScore,
			TitleExactScore:      defaultMatchTitleExactScore,
			TitleContainsScore:   defaultMatchTitleContainsScore,
			YearScore:            defaultMatchYearScore,
			DirectorScore:        defaultMatchDirectorScore,
			PreferPosterOnTie:    true,
			RelaxedYearTolerance: defaultMatchRelaxedYearTolerance,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNotifyTimeoutSeconds,
		},
	}
}
