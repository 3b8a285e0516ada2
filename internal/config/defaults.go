package config

const (
	defaultStateDir          = "~/.local/share/forcealign"
	defaultLogDir            = "~/.local/share/forcealign/logs"
	defaultInterpolateMethod = "nearest"
	defaultWordSeparator     = "|"
	defaultWorkers           = 4
	defaultAPIBind           = "127.0.0.1:7490"
	defaultAPIBodyLimitMiB   = 64
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Alignment: Alignment{
			InterpolateMethod:      defaultInterpolateMethod,
			LanguagesWithoutSpaces: defaultLanguagesWithoutSpaces(),
			Abbreviations:          defaultAbbreviations(),
			WordSeparator:          defaultWordSeparator,
			Workers:                defaultWorkers,
		},
		API: API{
			Bind:         defaultAPIBind,
			BodyLimitMiB: defaultAPIBodyLimitMiB,
		},
		Store: Store{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultLanguagesWithoutSpaces() []string {
	return []string{"ja", "zh"}
}

func defaultAbbreviations() []string {
	return []string{"dr", "vs", "mr", "mrs", "prof"}
}
