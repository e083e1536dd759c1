package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"tubewatch/internal/services"
)

// VideoRef identifies one upload on the watched channel.
type VideoRef struct {
	ID          string
	Title       string
	PublishedAt time.Time
}

// Poller resolves a channel handle once and then fetches the newest upload on
// demand. Channel identity never changes for the life of the process.
type Poller struct {
	service    *yt.Service
	channelID  string
	uploadsID  string
	handleName string
}

// NewPoller builds the YouTube Data API client and resolves the channel
// handle to its uploads playlist. Resolution failure is a startup error, not
// a per-cycle one.
func NewPoller(ctx context.Context, apiKey, channelHandle string) (*Poller, error) {
	service, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "youtube", "init",
			"create youtube client", err)
	}

	p := &Poller{service: service, handleName: normalizeHandle(channelHandle)}
	if err := p.resolveChannel(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// ChannelID returns the resolved channel identifier.
func (p *Poller) ChannelID() string { return p.channelID }

// FetchLatest returns the newest upload, or nil when the channel has no
// videos at all.
func (p *Poller) FetchLatest(ctx context.Context) (*VideoRef, error) {
	resp, err := p.service.PlaylistItems.
		List([]string{"snippet", "contentDetails"}).
		PlaylistId(p.uploadsID).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "youtube", "fetch-latest",
			fmt.Sprintf("list uploads for %s", p.handleName), err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	item := resp.Items[0]
	ref := &VideoRef{
		ID:    item.ContentDetails.VideoId,
		Title: item.Snippet.Title,
	}
	if ts, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		ref.PublishedAt = ts
	}
	if ref.ID == "" {
		return nil, services.Wrap(services.ErrSourceUnavailable, "youtube", "fetch-latest",
			fmt.Sprintf("latest upload for %s has no video id", p.handleName), nil)
	}
	return ref, nil
}

func (p *Poller) resolveChannel(ctx context.Context) error {
	search, err := p.service.Search.
		List([]string{"snippet"}).
		Q(p.handleName).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return services.Wrap(services.ErrSourceUnavailable, "youtube", "resolve-channel",
			fmt.Sprintf("search handle %s", p.handleName), err)
	}
	if len(search.Items) == 0 || search.Items[0].Snippet.ChannelId == "" {
		return services.Wrap(services.ErrSourceUnavailable, "youtube", "resolve-channel",
			fmt.Sprintf("no channel found for handle %s", p.handleName), nil)
	}
	p.channelID = search.Items[0].Snippet.ChannelId

	channels, err := p.service.Channels.
		List([]string{"contentDetails"}).
		Id(p.channelID).
		Context(ctx).
		Do()
	if err != nil {
		return services.Wrap(services.ErrSourceUnavailable, "youtube", "resolve-channel",
			fmt.Sprintf("look up channel %s", p.channelID), err)
	}
	if len(channels.Items) == 0 {
		return services.Wrap(services.ErrSourceUnavailable, "youtube", "resolve-channel",
			fmt.Sprintf("channel %s not found", p.channelID), nil)
	}
	p.uploadsID = channels.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if p.uploadsID == "" {
		return services.Wrap(services.ErrSourceUnavailable, "youtube", "resolve-channel",
			fmt.Sprintf("channel %s has no uploads playlist", p.channelID), nil)
	}
	return nil
}

func normalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}
