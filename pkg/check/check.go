// Package check runs the build decision pipeline: resolve the latest
// upstream release, verify the upstream image, verify the custom image, and
// report whether a build is needed. One pass per invocation, strictly in
// that order, with an early exit when the upstream image is not ready.
package check

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/caddybuilds/buildcheck/pkg/actions"
	"github.com/caddybuilds/buildcheck/pkg/config"
	"github.com/caddybuilds/buildcheck/pkg/console"
	"github.com/caddybuilds/buildcheck/pkg/github"
	"github.com/caddybuilds/buildcheck/pkg/registry"
)

// Output names consumed by the downstream workflow step.
const (
	NeedsBuildOutput    = "NEEDS_BUILD"
	LatestVersionOutput = "LATEST_VERSION"
)

// ReleaseLookup resolves the latest upstream release tag.
type ReleaseLookup interface {
	LatestRelease(ctx context.Context, repo string) (string, error)
}

// TagChecker answers whether an image tag exists and which required
// platforms it publishes.
type TagChecker interface {
	CheckTag(ctx context.Context, image, tag string, required registry.PlatformSet) registry.TagResult
}

// OutputSink receives the decision for the calling environment.
type OutputSink interface {
	Set(name, value string) error
}

// Decision is the result of one pipeline pass.
type Decision struct {
	NeedsBuild    bool
	LatestVersion string
}

type Checker struct {
	cfg      *config.Config
	releases ReleaseLookup
	upstream TagChecker
	custom   TagChecker
	output   OutputSink
}

// New wires a Checker with the real clients: GitHub for the release lookup,
// Docker Hub for the upstream image, and the configured registry for the
// custom image.
func New(cfg *config.Config) *Checker {
	dockerHub := registry.NewDockerHubClient()

	var custom TagChecker = dockerHub
	if cfg.Registry == config.RegistryGHCR {
		custom = registry.NewGHCRClient(cfg.GitHubToken)
	}

	return &Checker{
		cfg:      cfg,
		releases: github.NewClient(cfg.GitHubToken),
		upstream: dockerHub,
		custom:   custom,
		output:   actions.NewOutput(),
	}
}

// Run executes the pipeline and emits the decision. It returns an error only
// for fatal conditions (release lookup or output failures); registry-side
// uncertainty has already been downgraded to absent results by the clients.
func (c *Checker) Run(ctx context.Context) (*Decision, error) {
	started := time.Now()
	console.Info("starting check for %s (custom registry: %s)", c.cfg.GitHubRepo, c.cfg.Registry)
	console.Debug("required platforms: %s", strings.Join(c.cfg.RequiredPlatforms.Strings(), ", "))

	tag, err := c.releases.LatestRelease(ctx, c.cfg.GitHubRepo)
	if err != nil {
		return nil, err
	}
	version := strings.TrimPrefix(tag, "v")
	customTag := c.cfg.CustomTagPrefix + version

	decision := &Decision{LatestVersion: tag}

	console.Info("checking upstream image %s:%s", c.cfg.UpstreamImage, version)
	upstream := c.upstream.CheckTag(ctx, c.cfg.UpstreamImage, version, c.cfg.RequiredPlatforms)
	if !upstream.Complete(c.cfg.RequiredPlatforms) {
		if upstream.Exists {
			console.Info("upstream image %s:%s is missing required platforms: %s", c.cfg.UpstreamImage,
				version, strings.Join(c.cfg.RequiredPlatforms.Difference(upstream.Platforms), ", "))
		} else {
			console.Info("upstream image %s:%s not found", c.cfg.UpstreamImage, version)
		}
		// There is nothing to rebuild against yet; the custom registry is
		// not consulted at all.
		console.Info("upstream image is not ready; no build needed")
		if err := c.emit(decision); err != nil {
			return nil, err
		}
		return decision, nil
	}
	console.Info("upstream image %s:%s has all required platforms", c.cfg.UpstreamImage, version)

	console.Info("checking custom image %s:%s on %s", c.cfg.CustomImage, customTag, c.cfg.Registry)
	custom := c.custom.CheckTag(ctx, c.cfg.CustomImage, customTag, c.cfg.RequiredPlatforms)
	switch {
	case custom.Complete(c.cfg.RequiredPlatforms):
		console.Info("custom image %s:%s already exists and is complete", c.cfg.CustomImage, customTag)
	case custom.Exists:
		console.Info("custom image %s:%s exists but is missing required platforms: %s", c.cfg.CustomImage,
			customTag, strings.Join(c.cfg.RequiredPlatforms.Difference(custom.Platforms), ", "))
	default:
		console.Info("custom image %s:%s not found", c.cfg.CustomImage, customTag)
	}

	decision.NeedsBuild = !custom.Complete(c.cfg.RequiredPlatforms)
	console.Info("decision for %s: needs build = %t", tag, decision.NeedsBuild)

	if err := c.emit(decision); err != nil {
		return nil, err
	}
	console.Debug("check finished in %s", time.Since(started).Round(time.Millisecond))
	return decision, nil
}

func (c *Checker) emit(decision *Decision) error {
	if err := c.output.Set(NeedsBuildOutput, strconv.FormatBool(decision.NeedsBuild)); err != nil {
		return err
	}
	return c.output.Set(LatestVersionOutput, decision.LatestVersion)
}
