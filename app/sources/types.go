package sources

// Configuration types

type Config struct {
	Name         string         // Derived from filename (without .yml extension)
	URL          string         `yaml:"url"`
	Category     string         `yaml:"category"`
	CompanySlugs []string       `yaml:"company_slugs"`
	Settings     ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`
	Timeout         int  `yaml:"timeout"`         // seconds
	ExtractSummary  bool `yaml:"extract_summary"` // enable article summary extraction
}
