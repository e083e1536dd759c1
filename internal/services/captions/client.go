package captions

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"tubewatch/internal/services"
)

const watchURLFormat = "https://www.youtube.com/watch?v=%s"

// Track is one caption track advertised by the watch page player config.
type Track struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
	Name         struct {
		Simple string `json:"simpleText"`
	} `json:"name"`
}

// Client fetches caption transcripts for individual videos. Manual and
// auto-generated tracks are exposed separately so callers can express a
// preference order.
type Client struct {
	httpClient *http.Client
	language   string
}

// NewClient builds a caption client preferring the given BCP 47 language.
func NewClient(preferredLanguage string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		language:   strings.TrimSpace(preferredLanguage),
	}
}

// ManualTranscript returns the text of a human-authored caption track.
// ok=false means the video has no such track; err is reserved for transport
// and parse failures.
func (c *Client) ManualTranscript(ctx context.Context, videoID string) (string, bool, error) {
	return c.transcript(ctx, videoID, false)
}

// AutoTranscript returns the text of an auto-generated caption track.
func (c *Client) AutoTranscript(ctx context.Context, videoID string) (string, bool, error) {
	return c.transcript(ctx, videoID, true)
}

func (c *Client) transcript(ctx context.Context, videoID string, auto bool) (string, bool, error) {
	tracks, err := c.listTracks(ctx, videoID)
	if err != nil {
		return "", false, err
	}
	track, ok := SelectTrack(tracks, auto, c.language)
	if !ok {
		return "", false, nil
	}
	text, err := c.download(ctx, track.BaseURL)
	if err != nil {
		return "", false, err
	}
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}
	return text, true, nil
}

func (c *Client) listTracks(ctx context.Context, videoID string) ([]Track, error) {
	page, err := c.get(ctx, fmt.Sprintf(watchURLFormat, videoID))
	if err != nil {
		return nil, services.Wrap(services.ErrAcquisition, "captions", "list-tracks",
			fmt.Sprintf("fetch watch page for %s", videoID), err)
	}
	tracks, err := extractCaptionTracks(page)
	if err != nil {
		return nil, services.Wrap(services.ErrAcquisition, "captions", "list-tracks",
			fmt.Sprintf("parse player config for %s", videoID), err)
	}
	return tracks, nil
}

func (c *Client) download(ctx context.Context, baseURL string) (string, error) {
	body, err := c.get(ctx, baseURL)
	if err != nil {
		return "", services.Wrap(services.ErrAcquisition, "captions", "download",
			"fetch caption track", err)
	}
	text, err := parseTimedText(body)
	if err != nil {
		return "", services.Wrap(services.ErrAcquisition, "captions", "download",
			"parse caption track", err)
	}
	return text, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// SelectTrack picks the best track for the preferred language. auto selects
// among auto-generated ("asr") tracks only; otherwise only human-authored
// tracks are considered. Exact language-code match wins, then a BCP 47
// high-confidence match, then the first candidate.
func SelectTrack(tracks []Track, auto bool, preferred string) (Track, bool) {
	var candidates []Track
	for _, t := range tracks {
		if (t.Kind == "asr") == auto && t.BaseURL != "" {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return Track{}, false
	}
	if preferred == "" {
		return candidates[0], true
	}

	for _, t := range candidates {
		if strings.EqualFold(t.LanguageCode, preferred) {
			return t, true
		}
	}

	want, err := language.Parse(preferred)
	if err == nil {
		tags := make([]language.Tag, 0, len(candidates))
		for _, t := range candidates {
			tag, err := language.Parse(t.LanguageCode)
			if err != nil {
				tag = language.Und
			}
			tags = append(tags, tag)
		}
		matcher := language.NewMatcher(tags)
		if _, idx, conf := matcher.Match(want); conf >= language.High {
			return candidates[idx], true
		}
	}
	return candidates[0], true
}

// extractCaptionTracks pulls the captionTracks array out of the embedded
// player response. The page is not valid JSON as a whole, so the array is
// located by marker and delimited by bracket matching that respects quoted
// strings.
func extractCaptionTracks(page []byte) ([]Track, error) {
	const marker = `"captionTracks":`

	idx := strings.Index(string(page), marker)
	if idx < 0 {
		return nil, nil
	}
	rest := page[idx+len(marker):]

	raw, err := matchBracketed(rest)
	if err != nil {
		return nil, err
	}

	var tracks []Track
	if err := json.Unmarshal(raw, &tracks); err != nil {
		return nil, fmt.Errorf("decode caption tracks: %w", err)
	}
	return tracks, nil
}

// matchBracketed returns the JSON array starting at the first '[' in data,
// up to and including its matching ']'.
func matchBracketed(data []byte) ([]byte, error) {
	start := -1
	for i, b := range data {
		if b == '[' {
			start = i
			break
		}
		if b != ' ' && b != '\t' && b != '\n' && b != '\r' {
			return nil, fmt.Errorf("caption tracks value is not an array")
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("caption tracks array not found")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(data); i++ {
		b := data[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return data[start : i+1], nil
			}
		}
	}
	return nil, fmt.Errorf("caption tracks array is truncated")
}

type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Lines   []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// parseTimedText flattens a timedtext XML document into a single string with
// one space between cue lines. Entities are unescaped twice because the feed
// double-encodes them.
func parseTimedText(body []byte) (string, error) {
	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("decode timedtext: %w", err)
	}

	parts := make([]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		text := strings.TrimSpace(html.UnescapeString(html.UnescapeString(line.Text)))
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
