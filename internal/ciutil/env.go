package ciutil

import (
	"log/slog"
	"os"

	"github.com/phrazzld/taskprefs-api/internal/redact"
)

// Environment variables consulted by this package.
const (
	// CI environment detection variables
	EnvCI               = "CI"
	EnvGitHubActions    = "GITHUB_ACTIONS"
	EnvGitHubWorkspace  = "GITHUB_WORKSPACE"
	EnvGitLabCI         = "GITLAB_CI"
	EnvGitLabProjectDir = "CI_PROJECT_DIR"

	// Database connection variables, in order of preference
	EnvTestDatabaseURL = "TASKPREFS_TEST_DB_URL"
	EnvDatabaseURL     = "DATABASE_URL"
)

// ciMetadataVars maps CI provider variables to the log attribute they populate.
var ciMetadataVars = map[string]string{
	"GITHUB_RUN_ID":      "ci_run_id",
	"GITHUB_SHA":         "ci_commit_sha",
	"GITHUB_REF_NAME":    "ci_branch",
	"GITHUB_WORKFLOW":    "ci_workflow",
	"CI_PIPELINE_ID":     "ci_run_id",
	"CI_COMMIT_SHA":      "ci_commit_sha",
	"CI_COMMIT_REF_NAME": "ci_branch",
}

// IsCI returns true if the current environment is a CI environment.
func IsCI() bool {
	return os.Getenv(EnvCI) != "" ||
		os.Getenv(EnvGitHubActions) != "" ||
		os.Getenv(EnvGitLabCI) != ""
}

// IsGitHubActions returns true if the current environment is GitHub Actions.
func IsGitHubActions() bool {
	return os.Getenv(EnvGitHubActions) != "" && os.Getenv(EnvGitHubWorkspace) != ""
}

// IsGitLabCI returns true if the current environment is GitLab CI.
func IsGitLabCI() bool {
	return os.Getenv(EnvGitLabCI) != "" && os.Getenv(EnvGitLabProjectDir) != ""
}

// Metadata returns the CI run attributes present in the environment, keyed
// by log attribute name. It is empty outside CI.
func Metadata() map[string]string {
	metadata := make(map[string]string)
	for env, key := range ciMetadataVars {
		if value := os.Getenv(env); value != "" {
			metadata[key] = value
		}
	}
	return metadata
}

// GetEnvWithFallbacks returns the value of the first non-empty environment variable
// from the provided list. If none is set, it returns defaultValue.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, envVar := range envVars {
		if val := os.Getenv(envVar); val != "" {
			if i > 0 && logger != nil {
				logger.Debug("using fallback environment variable",
					"used_var", envVar,
					"preferred_var", envVars[0],
					"value", redact.String(val))
			}
			return val
		}
	}
	return defaultValue
}

// DatabaseURL returns the connection string of an externally provided test
// database, or "" when tests should start their own.
func DatabaseURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks([]string{EnvTestDatabaseURL, EnvDatabaseURL}, "", logger)
}
