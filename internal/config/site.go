package config

// SiteConfig holds per-site overrides for crawling a specific host.
// This is how callers pass auth cookies or prune noisy sections of a
// site without new CLI flags per concern.
type SiteConfig struct {
	// Cookie is sent as the Cookie header for this site.
	// Format: "name=value" or "name1=value1; name2=value2".
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers for requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the global page cap for this site.
	// Zero means use the global value.
	MaxPages int `yaml:"maxPages,omitempty"`

	// IgnorePatterns are URL path globs to skip during crawling.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns, when set, restrict crawling to matching paths.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// File is the structure of the .chunkcrawl configuration file.
type File struct {
	// Sites maps hostnames to their overrides.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every site unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// SiteFor returns the effective configuration for a hostname, merging
// the site entry over the defaults.
func (f *File) SiteFor(host string) SiteConfig {
	result := f.Defaults

	site, ok := f.Sites[host]
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.MaxPages != 0 {
		result.MaxPages = site.MaxPages
	}
	if len(site.Headers) > 0 {
		merged := make(map[string]string, len(result.Headers)+len(site.Headers))
		for k, v := range result.Headers {
			merged[k] = v
		}
		for k, v := range site.Headers {
			merged[k] = v
		}
		result.Headers = merged
	}
	if len(site.IgnorePatterns) > 0 {
		result.IgnorePatterns = site.IgnorePatterns
	}
	if len(site.FollowPatterns) > 0 {
		result.FollowPatterns = site.FollowPatterns
	}

	return result
}
