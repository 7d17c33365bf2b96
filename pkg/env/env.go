package env

import "os"

const SchemeEnvVarName = "BUILDCHECK_SCHEME"

const GitHubAPIHostEnvVarName = "BUILDCHECK_GITHUB_API_HOST"

const DockerHubHostEnvVarName = "BUILDCHECK_DOCKERHUB_HOST"

const GHCRHostEnvVarName = "BUILDCHECK_GHCR_HOST"

func SchemeFromEnvironment() string {
	scheme := os.Getenv(SchemeEnvVarName)
	if scheme == "" {
		scheme = "https"
	}
	return scheme
}

func GitHubAPIHostFromEnvironment() string {
	host := os.Getenv(GitHubAPIHostEnvVarName)
	if host == "" {
		host = "api.github.com"
	}
	return host
}

func DockerHubHostFromEnvironment() string {
	host := os.Getenv(DockerHubHostEnvVarName)
	if host == "" {
		host = "hub.docker.com"
	}
	return host
}

func GHCRHostFromEnvironment() string {
	host := os.Getenv(GHCRHostEnvVarName)
	if host == "" {
		host = "ghcr.io"
	}
	return host
}
