// Package github resolves the latest published release of an upstream
// repository through the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/caddybuilds/buildcheck/pkg/console"
	"github.com/caddybuilds/buildcheck/pkg/env"
	"github.com/caddybuilds/buildcheck/pkg/global"
	httputil "github.com/caddybuilds/buildcheck/pkg/http"
	"github.com/caddybuilds/buildcheck/pkg/util"
)

type release struct {
	TagName string `json:"tag_name"`
}

type Client struct {
	client *http.Client
	token  string
}

// NewClient returns a release lookup client. The token is optional;
// unauthenticated requests may hit GitHub API rate limits.
func NewClient(token string) *Client {
	return &Client{client: httputil.NewClient(global.ReleaseLookupTimeout), token: token}
}

// LatestRelease returns the tag of the latest published release for repo
// (in "owner/name" form). The tag must be non-empty, v-prefixed and parse as
// a version; anything else is an error, because no downstream decision is
// usable without a valid release tag.
func (c *Client) LatestRelease(ctx context.Context, repo string) (string, error) {
	url := fmt.Sprintf("%s://%s/repos/%s/releases/latest",
		env.SchemeFromEnvironment(), env.GitHubAPIHostFromEnvironment(), repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", util.WrapError(err, "building latest release request")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
		console.Debug("fetching latest release from %s (authenticated)", url)
	} else {
		console.Info("fetching latest release from %s (unauthenticated, may hit rate limits)", url)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", util.WrapError(err, "fetching latest release")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return "", fmt.Errorf("latest release request for %s returned status %d: %s",
			repo, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", util.WrapError(err, "decoding latest release response")
	}

	tag := rel.TagName
	if tag == "" || !strings.HasPrefix(tag, "v") {
		return "", fmt.Errorf("invalid or missing tag_name in release response: %q", tag)
	}
	if _, err := version.NewVersion(strings.TrimPrefix(tag, "v")); err != nil {
		return "", util.WrapError(err, fmt.Sprintf("release tag %q is not a valid version", tag))
	}

	console.Info("latest %s release: %s", repo, tag)
	return tag, nil
}
