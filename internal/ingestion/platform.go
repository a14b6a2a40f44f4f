package ingestion

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

var platformHosts = []struct {
	platform Platform
	suffixes []string
}{
	{PlatformGreenhouse, []string{"greenhouse.io"}},
	{PlatformLever, []string{"lever.co"}},
	{PlatformWorkday, []string{"workday.com", "myworkdayjobs.com"}},
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for _, ph := range platformHosts {
		for _, suffix := range ph.suffixes {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return ph.platform
			}
		}
	}
	return PlatformUnknown
}

// genericContentSelectors are tried for unknown platforms, most specific first
var genericContentSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// ContentSelectors returns the selectors that locate the posting body on a platform.
func ContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
			".content",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobDescription']",
			".job-description",
		}
	default:
		return genericContentSelectors
	}
}

// NoiseSelectors returns elements stripped before text extraction: application forms,
// EEO/legal blocks and share widgets, plus per-platform extras.
func NoiseSelectors(platform Platform) []string {
	common := []string{
		"nav", "footer", "header", "script", "style", "noscript",
		"form", "#application-form", ".application-form", ".apply-button-container",
		".voluntary-disclosure", ".eeo-statement", ".eeo-section", ".legal-disclosure",
		".social-share", ".share-buttons",
		".cookie-banner", ".cookie-consent", ".gdpr-notice",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply")
	case PlatformLever:
		return append(common, ".apply-section", ".lever-application-form", ".posting-apply")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']", ".application-section")
	default:
		return common
	}
}
