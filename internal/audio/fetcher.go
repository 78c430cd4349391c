package audio

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"coach-insights-go/internal/logger"
)

// Timeout escalates per attempt: recordings run large and a slow mirror
// deserves a longer leash before giving up.
var attemptTimeouts = []time.Duration{60 * time.Second, 90 * time.Second, 120 * time.Second}

// DriveFileID extracts a Google Drive file ID from either locator form:
// "...?id=<id>&..." or ".../d/<id>/...". Empty when neither matches.
func DriveFileID(rawURL string) string {
	if i := strings.Index(rawURL, "id="); i >= 0 {
		id := rawURL[i+len("id="):]
		if j := strings.Index(id, "&"); j >= 0 {
			id = id[:j]
		}
		return id
	}
	if i := strings.Index(rawURL, "/d/"); i >= 0 {
		id := rawURL[i+len("/d/"):]
		if j := strings.Index(id, "/"); j >= 0 {
			id = id[:j]
		}
		return id
	}
	return ""
}

// Fetch downloads the audio bytes behind a Drive share link, retrying up
// to len(attemptTimeouts) times with escalating per-attempt timeouts.
func Fetch(rawURL string) ([]byte, error) {
	log := logger.Component("audio.fetcher")

	fileID := DriveFileID(rawURL)
	if fileID == "" {
		return nil, fmt.Errorf("no drive file id in url")
	}
	downloadURL := "https://drive.google.com/uc?export=download&id=" + fileID

	var data []byte
	var lastErr error
	attempt := 0
	op := func() error {
		timeout := attemptTimeouts[len(attemptTimeouts)-1]
		if attempt < len(attemptTimeouts) {
			timeout = attemptTimeouts[attempt]
		}
		attempt++
		client := &http.Client{Timeout: timeout}

		b, err := download(client, downloadURL, fileID)
		if err != nil {
			lastErr = err
			log.WithError(err).WithField("attempt", attempt).Warn("audio download failed")
			return err
		}
		data = b
		return nil
	}

	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(2*time.Second), uint64(len(attemptTimeouts)-1))
	if err := backoff.Retry(op, bo); err != nil {
		return nil, fmt.Errorf("audio download failed after %d attempts: %w", attempt, lastErr)
	}
	log.WithField("file_id", fileID).WithField("bytes", len(data)).Info("audio downloaded")
	return data, nil
}

// download handles Drive's large-file interstitial: a download_warning
// cookie means the real file sits behind a confirm round-trip.
func download(client *http.Client, downloadURL, fileID string) ([]byte, error) {
	resp, err := client.Get(downloadURL)
	if err != nil {
		return nil, err
	}
	for _, c := range resp.Cookies() {
		if strings.HasPrefix(c.Name, "download_warning") {
			resp.Body.Close()
			confirmURL := fmt.Sprintf("%s&confirm=%s&id=%s", downloadURL, c.Value, fileID)
			resp, err = client.Get(confirmURL)
			if err != nil {
				return nil, err
			}
			break
		}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// FetchBase64 returns the audio encoded for inline embedding.
func FetchBase64(rawURL string) (string, error) {
	b, err := Fetch(rawURL)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
