package config

// DefaultVersions are the documentation versions served when the config
// file does not list any.
var DefaultVersions = []VersionConfig{
	{ID: "free-pro-team@latest", Title: "Free, Pro, & Team", Plan: "free-pro-team"},
	{ID: "enterprise-cloud@latest", Title: "Enterprise Cloud", Plan: "enterprise-cloud"},
	{ID: "enterprise-server@3.14", Title: "Enterprise Server 3.14", Plan: "enterprise-server"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		ContentDir:     "content",
		DataDir:        ".docshell",
		AssetsDir:      "assets",
		DefaultLocale:  "en",
		DefaultVersion: "free-pro-team@latest",
		Versions:       append([]VersionConfig(nil), DefaultVersions...),
		StagingHeader:  "X-Ong-External-Url",
	}
}
