package config_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/octofit/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.APIBaseURL(), convey.ShouldEqual, "http://localhost:8000")
				convey.So(cfg.SaveCloseDelayMS, convey.ShouldEqual, 900)
				convey.So(cfg.SandboxEmbedMembers, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("OCTOFIT_BASE_URL", "http://127.0.0.1:18000")
			_ = os.Setenv("OCTOFIT_REQUEST_TIMEOUT_MS", "2500")
			_ = os.Setenv("OCTOFIT_SAVE_CLOSE_DELAY_MS", "0")
			_ = os.Setenv("OCTOFIT_SANDBOX_ENVELOPE", "true")
			_ = os.Setenv("OCTOFIT_LOG_FORMAT", "json")

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIBaseURL(), convey.ShouldEqual, "http://127.0.0.1:18000")
				convey.So(cfg.RequestTimeout(), convey.ShouldEqual, 2500*time.Millisecond)
				convey.So(cfg.SaveCloseDelayMS, convey.ShouldEqual, 0)
				convey.So(cfg.SandboxEnvelope, convey.ShouldBeTrue)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When only the bare codespace variable is set", func() {
			_ = os.Setenv("CODESPACE_NAME", "fuzzy-octo")

			cfg, err := config.Load()

			convey.Convey("Then the base URL is derived from it", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIBaseURL(), convey.ShouldEqual, "https://fuzzy-octo-8000.app.github.dev")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
base_url: "http://yaml-host:8000"
request_timeout_ms: 4000
refresh_interval_ms: 2000
sandbox_embed_members: false
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("OCTOFIT_CONFIG", tmpFile)

			cfg, err := config.Load()

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIBaseURL(), convey.ShouldEqual, "http://yaml-host:8000")
				convey.So(cfg.RequestTimeoutMS, convey.ShouldEqual, 4000)
				convey.So(cfg.RefreshIntervalMS, convey.ShouldEqual, 2000)
				convey.So(cfg.SandboxEmbedMembers, convey.ShouldBeFalse)
				convey.So(cfg.SaveCloseDelayMS, convey.ShouldEqual, 900) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
base_url: "http://yaml-host:8000"
request_timeout_ms: 4000
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("OCTOFIT_CONFIG", tmpFile)
			_ = os.Setenv("OCTOFIT_REQUEST_TIMEOUT_MS", "1500")

			cfg, err := config.Load()

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIBaseURL(), convey.ShouldEqual, "http://yaml-host:8000") // From file
				convey.So(cfg.RequestTimeoutMS, convey.ShouldEqual, 1500)               // Overridden by env
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("OCTOFIT_CONFIG", tmpFile)

			cfg, err := config.Load()

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("OCTOFIT_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load()

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("OCTOFIT_REQUEST_TIMEOUT_MS", "soon")

			cfg, err := config.Load()

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config that fails validation", func() {
			_ = os.Setenv("OCTOFIT_REQUEST_TIMEOUT_MS", "-5")

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "request_timeout_ms")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"OCTOFIT_CONFIG",
		"OCTOFIT_BASE_URL",
		"OCTOFIT_REQUEST_TIMEOUT_MS",
		"OCTOFIT_SAVE_CLOSE_DELAY_MS",
		"OCTOFIT_SANDBOX_ENVELOPE",
		"OCTOFIT_LOG_FORMAT",
		"CODESPACE_NAME",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "octofit-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
