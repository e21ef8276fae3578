package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"hrsync/config"
	"hrsync/hrworks"
	"hrsync/internal/logging"
	"hrsync/storage"
)

const (
	envAccessKey       = "HRWORKS_ACCESS_KEY"
	envSecretAccessKey = "HRWORKS_SECRET_ACCESS_KEY"
	userAgent          = "hrsync/1.0"
)

var errMissingCredentials = errors.New("access key and secret access key are required")

type credentials struct {
	AccessKey       string `validate:"required"`
	SecretAccessKey string `validate:"required"`
}

// resolveCredentials picks each value from the flag, then the environment,
// then the config file.
func resolveCredentials(flagKey, flagSecret string, cfg config.HRworksConfig, getenv func(string) string) (credentials, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	creds := credentials{
		AccessKey:       firstNonEmpty(flagKey, getenv(envAccessKey), cfg.AccessKey),
		SecretAccessKey: firstNonEmpty(flagSecret, getenv(envSecretAccessKey), cfg.SecretAccessKey),
	}
	if err := validator.New().Struct(creds); err != nil {
		return credentials{}, errMissingCredentials
	}
	return creds, nil
}

func newLogger(cfg *config.Config) (*log.Logger, error) {
	level := logging.DefaultLevel
	if cfg != nil && cfg.Log.Level != "" {
		level = cfg.Log.Level
	}
	if strings.TrimSpace(logLevel) != "" {
		level = logLevel
	}
	return logging.New(os.Stderr, level)
}

func resolveTimeout(flagValue time.Duration, cfg config.HRworksConfig) time.Duration {
	if flagValue > 0 {
		return flagValue
	}
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return config.DefaultTimeout
}

// connectHRworks authenticates and returns a client whose every call runs
// under its own timeout.
func connectHRworks(cfg config.HRworksConfig, creds credentials, timeout time.Duration, logger *log.Logger) (*timeoutClient, error) {
	authCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	token, err := hrworks.Authenticate(authCtx, cfg.BaseURL, creds.AccessKey, creds.SecretAccessKey, nil)
	if err != nil {
		return nil, err
	}
	logger.Debug("authenticated", "base_url", cfg.BaseURL)

	client, err := hrworks.NewClient(hrworks.ClientConfig{
		BaseURL:           cfg.BaseURL,
		Token:             token,
		UserAgent:         userAgent,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		return nil, err
	}
	return &timeoutClient{client: client, timeout: timeout}, nil
}

// timeoutClient gives each HRworks operation a fresh deadline.
type timeoutClient struct {
	client  hrworks.Client
	timeout time.Duration
}

func (c *timeoutClient) GetProject(ctx context.Context, number int64) (hrworks.Project, error) {
	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.GetProject(opCtx, number)
}

func (c *timeoutClient) ListProjects(ctx context.Context) ([]hrworks.Project, error) {
	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.ListProjects(opCtx)
}

func (c *timeoutClient) SubmitWorkingTimes(ctx context.Context, batch hrworks.WorkingTimeBatch) (int, error) {
	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.SubmitWorkingTimes(opCtx, batch)
}

// historyPath returns the database to record into, or "" when history is off.
func historyPath(flagValue string, cfg config.HistoryConfig) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if cfg.Enabled {
		return cfg.DBPath
	}
	return ""
}

func openHistory(path string) (*storage.SQLiteStore, error) {
	store, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open history database %s: %w", path, err)
	}
	return store, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
