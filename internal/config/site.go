package config

// SiteConfig holds per-site overrides for a single start URL.
// This allows tuning extraction per customer site without CLI flags.
type SiteConfig struct {
	// Categories overrides the global FAQ category keyword filter.
	Categories []string `yaml:"categories,omitempty"`

	// MaxDepth overrides the global crawl depth for this site.
	// Zero means the global depth applies.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// UserAgent overrides the User-Agent header for this site.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .faqtree configuration file.
type File struct {
	// Sites maps start URLs to their site-specific configurations.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains overrides applied to every site unless the
	// site-specific entry overrides them again.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a start URL, merging the
// site-specific entry over the defaults.
func (cf *File) GetSiteConfig(startURL string) SiteConfig {
	result := cf.Defaults

	if site, ok := cf.Sites[startURL]; ok {
		if len(site.Categories) > 0 {
			result.Categories = site.Categories
		}
		if site.MaxDepth != 0 {
			result.MaxDepth = site.MaxDepth
		}
		if site.UserAgent != "" {
			result.UserAgent = site.UserAgent
		}
	}

	return result
}
