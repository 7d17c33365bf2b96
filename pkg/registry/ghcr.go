package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/types"

	"github.com/caddybuilds/buildcheck/pkg/console"
	"github.com/caddybuilds/buildcheck/pkg/env"
	"github.com/caddybuilds/buildcheck/pkg/global"
	httputil "github.com/caddybuilds/buildcheck/pkg/http"
)

// GHCRClient checks tags through the GHCR OCI distribution API. Unlike the
// Docker Hub flat tag API there is no single descriptor that lists
// platforms: a multi-platform tag is an index whose child manifests carry
// platform descriptors, while a single-platform tag is a manifest whose
// platform has to be read from the image config blob.
type GHCRClient struct {
	client *http.Client
	token  string
}

func NewGHCRClient(token string) *GHCRClient {
	return &GHCRClient{client: httputil.NewClient(global.RegistryTimeout), token: token}
}

// CheckTag reports whether image:tag exists on GHCR and which of the
// required platforms it publishes. All failures degrade to absent so that
// one inaccessible image cannot prevent reporting a decision.
func (c *GHCRClient) CheckTag(ctx context.Context, image, tag string, required PlatformSet) TagResult {
	if c.token == "" {
		console.Error("GITHUB_TOKEN is not set; cannot check GHCR tag %s:%s", image, tag)
		return TagResult{}
	}

	registryToken := c.exchangeToken(ctx, image)

	manifestURL := fmt.Sprintf("%s://%s/v2/%s/manifests/%s",
		env.SchemeFromEnvironment(), env.GHCRHostFromEnvironment(), image, tag)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		console.Error("building GHCR manifest request for %s:%s: %s", image, tag, err)
		return TagResult{}
	}
	req.Header.Set("Authorization", "Bearer "+registryToken)
	req.Header.Set("Accept", strings.Join([]string{
		string(types.OCIImageIndex),
		string(types.DockerManifestList),
		string(types.OCIManifestSchema1),
		string(types.DockerManifestSchema2),
	}, ", "))

	resp, err := c.client.Do(req)
	if err != nil {
		console.Error("checking GHCR tag %s:%s: %s", image, tag, err)
		return TagResult{}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return TagResult{}
	case http.StatusUnauthorized, http.StatusForbidden:
		console.Error("authentication failed for GHCR (status %d) checking %s:%s: %s",
			resp.StatusCode, image, tag, readBodySnippet(resp.Body))
		console.Error("make sure the package %q is public or GITHUB_TOKEN has the 'packages: read' permission", image)
		return TagResult{}
	default:
		console.Error("unexpected status %d checking GHCR tag %s:%s: %s",
			resp.StatusCode, image, tag, readBodySnippet(resp.Body))
		return TagResult{}
	}

	mediaType := types.MediaType(resp.Header.Get("Content-Type"))
	switch {
	case mediaType.IsIndex():
		idx, err := v1.ParseIndexManifest(resp.Body)
		if err != nil {
			console.Error("parsing GHCR index for %s:%s: %s", image, tag, err)
			return TagResult{}
		}
		return TagResult{Exists: true, Platforms: indexPlatforms(idx, required)}
	case mediaType.IsImage():
		manifest, err := v1.ParseManifest(resp.Body)
		if err != nil {
			console.Error("parsing GHCR manifest for %s:%s: %s", image, tag, err)
			return TagResult{}
		}
		return c.singlePlatformResult(ctx, image, tag, manifest, registryToken, required)
	default:
		console.Error("unsupported manifest media type %q for GHCR tag %s:%s", mediaType, image, tag)
		return TagResult{}
	}
}

// exchangeToken trades the GitHub token for a pull-scoped registry token.
// This is a two-attempt strategy: if the exchange fails for any reason, the
// GitHub token itself is used against the manifest endpoint. The exchange
// failing is never fatal on its own.
func (c *GHCRClient) exchangeToken(ctx context.Context, image string) string {
	tokenURL := fmt.Sprintf("%s://%s/token?scope=repository:%s:pull",
		env.SchemeFromEnvironment(), env.GHCRHostFromEnvironment(), image)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenURL, nil)
	if err != nil {
		console.Warn("building GHCR token request: %s; falling back to the GitHub token", err)
		return c.token
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		console.Warn("GHCR token exchange failed: %s; falling back to the GitHub token", err)
		return c.token
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		console.Warn("GHCR token exchange returned status %d; falling back to the GitHub token", resp.StatusCode)
		return c.token
	}

	var exchange struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&exchange); err != nil || exchange.Token == "" {
		console.Warn("GHCR token exchange returned no usable token; falling back to the GitHub token")
		return c.token
	}

	return exchange.Token
}

// singlePlatformResult resolves the platform of a single-platform manifest
// by reading the image config blob referenced by the manifest.
func (c *GHCRClient) singlePlatformResult(ctx context.Context, image, tag string, manifest *v1.Manifest, registryToken string, required PlatformSet) TagResult {
	config, err := c.fetchConfig(ctx, image, manifest.Config.Digest, registryToken)
	if err != nil {
		console.Error("reading image config for GHCR tag %s:%s: %s", image, tag, err)
		return TagResult{}
	}
	if config.OS == "" || config.Architecture == "" {
		console.Error("image config for GHCR tag %s:%s carries no platform", image, tag)
		return TagResult{}
	}

	entry := Platform{OS: config.OS, Architecture: config.Architecture, Variant: config.Variant}
	return TagResult{Exists: true, Platforms: ExtractPlatforms([]Platform{entry}, required)}
}

func (c *GHCRClient) fetchConfig(ctx context.Context, image string, digest v1.Hash, registryToken string) (*v1.ConfigFile, error) {
	blobURL := fmt.Sprintf("%s://%s/v2/%s/blobs/%s",
		env.SchemeFromEnvironment(), env.GHCRHostFromEnvironment(), image, digest.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, blobURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+registryToken)
	req.Header.Set("Accept", string(types.OCIConfigJSON))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("config blob request returned status %d", resp.StatusCode)
	}

	return v1.ParseConfigFile(resp.Body)
}

// indexPlatforms collects the required platforms published by an index's
// child manifests. Children without a platform descriptor (e.g. attestation
// manifests) are skipped.
func indexPlatforms(idx *v1.IndexManifest, required PlatformSet) PlatformSet {
	var entries []Platform
	for _, m := range idx.Manifests {
		if m.Platform == nil {
			continue
		}
		entries = append(entries, Platform{
			OS:           m.Platform.OS,
			Architecture: m.Platform.Architecture,
			Variant:      m.Platform.Variant,
		})
	}
	return ExtractPlatforms(entries, required)
}
