package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
	"github.com/johnquangdev/video-chat/pkg/config"
)

// Client is a minimal client for YouTube's timedtext caption API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a caption client using values from the provided config.
func NewClient(cfg *config.YouTubeConfig) *Client {
	base := "https://www.youtube.com"
	timeout := 15 * time.Second
	if cfg != nil {
		if cfg.BaseURL != "" {
			base = cfg.BaseURL
		}
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// json3 payload shapes returned by timedtext with fmt=json3.
type json3Response struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs    int64      `json:"tStartMs"`
	DurationMs int64      `json:"dDurationMs"`
	Segs       []json3Seg `json:"segs"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

// trackList is the XML shape returned by timedtext with type=list.
type trackList struct {
	XMLName xml.Name `xml:"transcript_list"`
	Tracks  []track  `xml:"track"`
}

type track struct {
	LangCode string `xml:"lang_code,attr"`
	Name     string `xml:"name,attr"`
}

// GetFragments fetches the caption track for a video in the given language
// and returns ordered raw fragments with End synthesized from duration.
func (c *Client) GetFragments(ctx context.Context, videoID, lang string) ([]entities.RawFragment, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", lang)
	q.Set("fmt", "json3")
	return c.fetchFragments(ctx, q)
}

// Translate fetches a caption track translated from one language to another.
func (c *Client) Translate(ctx context.Context, videoID, fromLang, toLang string) ([]entities.RawFragment, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", fromLang)
	q.Set("tlang", toLang)
	q.Set("fmt", "json3")
	frags, err := c.fetchFragments(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrTranslationFailed, err)
	}
	return frags, nil
}

// ListLanguages returns the language codes of all caption tracks available
// for a video, in the order the API lists them.
func (c *Client) ListLanguages(ctx context.Context, videoID string) ([]string, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("type", "list")

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, entities.ErrCaptionsDisabled
	}

	var list trackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse track list: %w", err)
	}
	if len(list.Tracks) == 0 {
		return nil, entities.ErrCaptionsDisabled
	}

	codes := make([]string, 0, len(list.Tracks))
	for _, t := range list.Tracks {
		codes = append(codes, t.LangCode)
	}
	return codes, nil
}

func (c *Client) fetchFragments(ctx context.Context, q url.Values) ([]entities.RawFragment, error) {
	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	// The endpoint answers 200 with an empty body when the requested track
	// does not exist.
	if len(body) == 0 {
		return nil, entities.ErrNoCaptionTrack
	}

	var payload json3Response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse caption payload: %w", err)
	}

	fragments := make([]entities.RawFragment, 0, len(payload.Events))
	for _, ev := range payload.Events {
		if len(ev.Segs) == 0 {
			continue
		}
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.ReplaceAll(sb.String(), "\n", " ")
		start := float64(ev.StartMs) / 1000
		duration := float64(ev.DurationMs) / 1000
		fragments = append(fragments, entities.RawFragment{
			Start:    start,
			Duration: duration,
			End:      start + duration,
			Text:     text,
		})
	}
	if len(fragments) == 0 {
		return nil, entities.ErrNoCaptionTrack
	}
	return fragments, nil
}

// get performs the HTTP call with retry on transient failures.
func (c *Client) get(ctx context.Context, q url.Values) ([]byte, error) {
	endpoint := c.baseURL + "/api/timedtext?" + q.Encode()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("timedtext returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("timedtext returned status %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}
