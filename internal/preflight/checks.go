package preflight

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"cinefill/internal/catalog"
	"cinefill/internal/config"
)

const (
	probeRegistryID   = "20020234"
	probeArchiveTitle = "괴물"
	probeTimeout      = 10 * time.Second
	probeBodyLimit    = 1 << 16
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCatalog opens the catalog database, which also verifies its schema.
func CheckCatalog(ctx context.Context, cfg *config.Config) Result {
	const name = "Catalog"

	store, err := catalog.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Catalog.DBPath, err)}
	}
	defer store.Close()

	movies, err := store.List(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", store.Path(), err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d records)", store.Path(), len(movies))}
}

// faultEnvelope covers the error payloads both services return with a 200.
type faultEnvelope struct {
	FaultInfo *struct {
		Message string `json:"message"`
	} `json:"faultInfo"`
	ErrorMessage string `json:"errorMessage"`
}

// CheckEndpoint issues one GET with params and expects a successful,
// fault-free response.
func CheckEndpoint(ctx context.Context, name, endpoint string, params url.Values) Result {
	if strings.TrimSpace(endpoint) == "" {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	target := endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, target, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("request failed (%v)", err)}
	}

	client := &http.Client{Timeout: probeTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unreachable (%v)", err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: name, Detail: "auth failed (invalid api key)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, probeBodyLimit))
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("read failed (%v)", err)}
	}
	var envelope faultEnvelope
	if json.Unmarshal(body, &envelope) == nil {
		if envelope.FaultInfo != nil {
			return Result{Name: name, Detail: fmt.Sprintf("service fault (%s)", strings.TrimSpace(envelope.FaultInfo.Message))}
		}
		if msg := strings.TrimSpace(envelope.ErrorMessage); msg != "" {
			return Result{Name: name, Detail: fmt.Sprintf("service fault (%s)", msg)}
		}
	}
	return Result{Name: name, Passed: true, Detail: "reachable"}
}
