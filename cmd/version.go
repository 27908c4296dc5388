package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/ruizTechServices/new-main-1/internal/cli"
	"go.uber.org/zap"
)

var AppVersion = "v0.1.0"

const releasesURL = "https://api.github.com/repos/ruizTechServices/new-main-1/releases/latest"

type GitHubRelease struct {
	TagName string `json:"tag_name"`
}

// CheckForUpdates logs a warning when a newer release than AppVersion exists.
// Network failures are ignored.
func CheckForUpdates(ctx context.Context, logger *zap.Logger) {
	latest, err := latestRelease(ctx, releasesURL)
	if err != nil {
		logger.Debug("Update check skipped", zap.Error(err))
		return
	}

	if outdated, _ := IsOutdated(AppVersion, latest); outdated {
		logger.Warn(fmt.Sprintf("%s %s",
			cli.WarningSign(),
			cli.Stylize(fmt.Sprintf("You are running an outdated version (%s). The latest version is %s.", AppVersion, latest), cli.Yellow),
		))
	}
}

// IsOutdated reports whether current is older than latest.
func IsOutdated(current, latest string) (bool, error) {
	cur, err := version.NewVersion(current)
	if err != nil {
		return false, err
	}
	lat, err := version.NewVersion(latest)
	if err != nil {
		return false, err
	}
	return cur.LessThan(lat), nil
}

func latestRelease(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return release.TagName, nil
}
