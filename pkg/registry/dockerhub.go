package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/caddybuilds/buildcheck/pkg/console"
	"github.com/caddybuilds/buildcheck/pkg/env"
	"github.com/caddybuilds/buildcheck/pkg/global"
	httputil "github.com/caddybuilds/buildcheck/pkg/http"
)

// tagDescriptor mirrors the Docker Hub v2 tag response, reduced to the
// fields the platform check needs.
type tagDescriptor struct {
	Images []platformDescriptor `json:"images"`
}

type platformDescriptor struct {
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	Variant      string `json:"variant"`
}

// DockerHubClient checks tags through the Docker Hub flat tag API. The tag
// descriptor enumerates the published platforms directly, so a single
// request answers both "does the tag exist" and "which platforms does it
// cover". No credential is needed for public repositories.
type DockerHubClient struct {
	client *http.Client
}

func NewDockerHubClient() *DockerHubClient {
	return &DockerHubClient{client: httputil.NewClient(global.RegistryTimeout)}
}

// CheckTag reports whether image:tag exists on Docker Hub and which of the
// required platforms it publishes. Any failure other than a clean 404 is
// logged and reported as absent: registry-side uncertainty must trigger a
// rebuild rather than suppress one. Note that this deliberately conflates
// transient server errors with genuine absence.
func (c *DockerHubClient) CheckTag(ctx context.Context, image, tag string, required PlatformSet) TagResult {
	url := fmt.Sprintf("%s://%s/v2/repositories/%s/tags/%s",
		env.SchemeFromEnvironment(), env.DockerHubHostFromEnvironment(), image, tag)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		console.Error("building Docker Hub tag request for %s:%s: %s", image, tag, err)
		return TagResult{}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		console.Error("checking Docker Hub tag %s:%s: %s", image, tag, err)
		return TagResult{}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return TagResult{}
	default:
		console.Error("unexpected status %d checking Docker Hub tag %s:%s: %s",
			resp.StatusCode, image, tag, readBodySnippet(resp.Body))
		return TagResult{}
	}

	var descriptor tagDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&descriptor); err != nil {
		console.Error("decoding Docker Hub response for %s:%s: %s", image, tag, err)
		return TagResult{}
	}

	entries := make([]Platform, 0, len(descriptor.Images))
	for _, img := range descriptor.Images {
		entries = append(entries, Platform{
			OS:           img.OS,
			Architecture: img.Architecture,
			Variant:      img.Variant,
		})
	}

	return TagResult{Exists: true, Platforms: ExtractPlatforms(entries, required)}
}

// readBodySnippet returns the start of an error response body for logging.
func readBodySnippet(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 200))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(body))
}
