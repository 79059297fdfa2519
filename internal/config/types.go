package config

// Config is the top-level docshell configuration, corresponding to .docshell.yml.
type Config struct {
	Port            int             `yaml:"port" koanf:"port"`
	ContentDir      string          `yaml:"content_dir" koanf:"content_dir"`
	DataDir         string          `yaml:"data_dir" koanf:"data_dir"`
	AssetsDir       string          `yaml:"assets_dir" koanf:"assets_dir"`
	LanguagesFile   string          `yaml:"languages_file" koanf:"languages_file"`
	DefaultLocale   string          `yaml:"default_locale" koanf:"default_locale"`
	DefaultVersion  string          `yaml:"default_version" koanf:"default_version"`
	Versions        []VersionConfig `yaml:"versions" koanf:"versions"`
	StagingHeader   string          `yaml:"staging_header" koanf:"staging_header"`
	AllowAllOrigins bool            `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// VersionConfig describes one documentation version served by the site.
type VersionConfig struct {
	ID    string `yaml:"id" koanf:"id"`
	Title string `yaml:"title" koanf:"title"`
	Plan  string `yaml:"plan" koanf:"plan"`
}
