// Package config builds the tool's configuration from the environment once
// at process start. Everything downstream receives an explicit *Config;
// there is no ambient configuration state.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caddybuilds/buildcheck/pkg/registry"
)

const (
	CustomImageEnvVarName       = "DOCKERHUB_REPOSITORY_NAME"
	CustomRegistryEnvVarName    = "CUSTOM_REGISTRY"
	GitHubTokenEnvVarName       = "GITHUB_TOKEN"
	RequiredPlatformsEnvVarName = "REQUIRED_PLATFORMS"
)

const (
	defaultGitHubRepo    = "caddyserver/caddy"
	defaultUpstreamImage = "library/caddy"
	defaultCustomImage   = "caddybuilds/caddy-cloudflare"
)

// Registry selects which registry hosts the custom image.
type Registry string

const (
	RegistryDockerHub Registry = "dockerhub"
	RegistryGHCR      Registry = "ghcr"
)

type Config struct {
	// GitHubRepo is the upstream source repository, "owner/name".
	GitHubRepo string

	// UpstreamImage is the official image on Docker Hub that must be ready
	// before a custom build makes sense.
	UpstreamImage string

	// CustomImage is the fully-qualified name of the derivative image.
	CustomImage string

	// CustomTagPrefix is prepended to the version to form the custom tag.
	CustomTagPrefix string

	// Registry selects where the custom image is checked.
	Registry Registry

	// GitHubToken authenticates the GitHub API and GHCR calls. Optional for
	// the release lookup, required for GHCR.
	GitHubToken string

	// RequiredPlatforms is the platform set both images must cover.
	// Validated non-empty at construction.
	RequiredPlatforms registry.PlatformSet
}

// FromEnvironment constructs and validates the configuration. A missing or
// empty required-platform set and an unrecognized registry selector are
// misconfigurations, not runtime conditions; both fail here before any
// network call is made.
func FromEnvironment() (*Config, error) {
	cfg := &Config{
		GitHubRepo:    defaultGitHubRepo,
		UpstreamImage: defaultUpstreamImage,
		CustomImage:   getEnvOrDefault(CustomImageEnvVarName, defaultCustomImage),
		Registry:      RegistryGHCR,
		GitHubToken:   os.Getenv(GitHubTokenEnvVarName),
	}

	if selector := os.Getenv(CustomRegistryEnvVarName); selector != "" {
		switch Registry(strings.ToLower(selector)) {
		case RegistryDockerHub:
			cfg.Registry = RegistryDockerHub
		case RegistryGHCR:
			cfg.Registry = RegistryGHCR
		default:
			return nil, fmt.Errorf("%s must be %q or %q, got %q",
				CustomRegistryEnvVarName, RegistryDockerHub, RegistryGHCR, selector)
		}
	}

	platforms, err := requiredPlatformsFromEnvironment()
	if err != nil {
		return nil, err
	}
	cfg.RequiredPlatforms = platforms

	return cfg, nil
}

func requiredPlatformsFromEnvironment() (registry.PlatformSet, error) {
	raw := os.Getenv(RequiredPlatformsEnvVarName)
	if raw == "" {
		return registry.NewPlatformSet("linux/amd64", "linux/arm64"), nil
	}

	platforms := registry.PlatformSet{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			platforms[p] = true
		}
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("%s must name at least one platform", RequiredPlatformsEnvVarName)
	}
	return platforms, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
