package config

// SiteConfig holds per-host configuration for quiz pages.
// Some quiz hosts require a session cookie or custom headers before they
// serve the real page; others only render under a headless browser.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send when fetching this host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// ForceDynamic always renders this host in a headless browser,
	// overriding the automatic static-versus-dynamic detection.
	ForceDynamic bool `yaml:"forceDynamic,omitempty"`
}

// File represents the structure of the .quizscan configuration file.
type File struct {
	// Sites maps host names to their configurations.
	// Keys are bare host names (e.g., "quiz.example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all hosts
	// unless overridden in the host-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the host-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
		if siteConfig.ForceDynamic {
			result.ForceDynamic = true
		}
	}

	return result
}
