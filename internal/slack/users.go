package slack

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/seladavis/forgebot/internal/domain"
)

const (
	DefaultBaseURL = "https://slack.com"

	// FallbackName stands in for users the directory cannot resolve.
	FallbackName = "Sean Connery"

	requestTimeout = 10 * time.Second
)

// NameCache caches resolved name sets between directory lookups.
type NameCache interface {
	Get(ctx context.Context, userID string) (*domain.UserNames, error)
	Set(ctx context.Context, userID string, names *domain.UserNames) error
}

// UserDirectory resolves user IDs to names via the platform's user listing,
// with a long-lived cache in front. Resolution never fails: any error falls
// back to a fixed placeholder name.
type UserDirectory struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
	cache      NameCache
}

func NewUserDirectory(baseURL, apiToken string, cache NameCache) *UserDirectory {
	return &UserDirectory{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiToken:   apiToken,
		cache:      cache,
	}
}

// DisplayName returns the user's first name (or real name when useRealName
// is set), consulting the cache before the API.
func (d *UserDirectory) DisplayName(ctx context.Context, userID string, useRealName bool) string {
	if names, err := d.cache.Get(ctx, userID); err != nil {
		slog.Warn("name cache read failed", "user_id", userID, "error", err)
	} else if names != nil {
		return names.Display(useRealName)
	}

	names := d.lookup(ctx, userID)
	if err := d.cache.Set(ctx, userID, names); err != nil {
		slog.Warn("name cache write failed", "user_id", userID, "error", err)
	}
	return names.Display(useRealName)
}

type userListResponse struct {
	OK      bool `json:"ok"`
	Members []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Profile struct {
			RealName  string `json:"real_name"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"profile"`
	} `json:"members"`
}

// lookup fetches the user listing and extracts the user's names, degrading
// to the fallback name on any failure.
func (d *UserDirectory) lookup(ctx context.Context, userID string) *domain.UserNames {
	fallback := &domain.UserNames{ID: userID, Name: FallbackName}

	endpoint := d.baseURL + "/api/users.list?token=" + url.QueryEscape(d.apiToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		slog.Error("build user list request failed", "error", err)
		return fallback
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		slog.Warn("user list request failed", "user_id", userID, "error", err)
		return fallback
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("read user list response failed", "error", err)
		return fallback
	}

	var list userListResponse
	if err := json.Unmarshal(body, &list); err != nil || !list.OK {
		slog.Warn("user list lookup rejected", "user_id", userID, "error", err)
		return fallback
	}

	for _, member := range list.Members {
		if member.ID != userID {
			continue
		}
		return &domain.UserNames{
			ID:        userID,
			Name:      member.Name,
			RealName:  member.Profile.RealName,
			FirstName: member.Profile.FirstName,
			LastName:  member.Profile.LastName,
		}
	}

	slog.Warn("user not found in directory", "user_id", userID)
	return fallback
}

