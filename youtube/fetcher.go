package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Fetcher looks up a channel's videos published within a recent window.
// Each fetch issues at most one search.list and one videos.list call.
type Fetcher struct {
	service    *youtube.Service
	maxResults int64
	window     time.Duration
}

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	// MaxResults caps the single search page (1-50). Default 50.
	MaxResults int64
	// Window is how far back from the run instant to search. Default 24h.
	Window time.Duration
}

// ChannelResult is the outcome of fetching one channel. Err is set when
// either API call failed; Videos is then empty.
type ChannelResult struct {
	ChannelID string
	Videos    []Video
	Err       error
}

// NewFetcher creates a Fetcher backed by the YouTube Data API v3.
// An empty apiKey is not rejected here; the API refuses the calls instead.
func NewFetcher(ctx context.Context, apiKey string, opts FetcherOptions, clientOpts ...option.ClientOption) (*Fetcher, error) {
	if apiKey != "" {
		clientOpts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, clientOpts...)
	} else {
		clientOpts = append([]option.ClientOption{option.WithoutAuthentication()}, clientOpts...)
	}

	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	if opts.MaxResults <= 0 || opts.MaxResults > 50 {
		opts.MaxResults = 50
	}
	if opts.Window <= 0 {
		opts.Window = 24 * time.Hour
	}

	return &Fetcher{
		service:    service,
		maxResults: opts.MaxResults,
		window:     opts.Window,
	}, nil
}

// FetchChannel returns the videos the channel published after now minus the
// window, newest first, with full snippet and live-streaming details.
func (f *Fetcher) FetchChannel(ctx context.Context, channelID string, now time.Time) ChannelResult {
	result := ChannelResult{ChannelID: channelID}
	if channelID == "" {
		result.Err = &FetchError{Stage: "search", Channel: channelID, Err: ErrEmptyChannelID}
		return result
	}

	ids, err := f.searchRecent(ctx, channelID, now.Add(-f.window))
	if err != nil {
		result.Err = &FetchError{Stage: "search", Channel: channelID, Err: err}
		return result
	}
	if len(ids) == 0 {
		return result
	}

	videos, err := f.videoDetails(ctx, channelID, ids)
	if err != nil {
		result.Err = &FetchError{Stage: "videos", Channel: channelID, Err: err}
		return result
	}

	result.Videos = videos
	return result
}

// searchRecent returns the IDs of videos published after windowStart.
func (f *Fetcher) searchRecent(ctx context.Context, channelID string, windowStart time.Time) ([]string, error) {
	resp, err := f.service.Search.List([]string{"id"}).
		ChannelId(channelID).
		MaxResults(f.maxResults).
		Order("date").
		PublishedAfter(windowStart.UTC().Format(time.RFC3339)).
		Type("video").
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %w", ErrChannelNotFound, err)
		}
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, item.Id.VideoId)
	}
	return ids, nil
}

// videoDetails batch-fetches metadata for ids in a single call.
func (f *Fetcher) videoDetails(ctx context.Context, channelID string, ids []string) ([]Video, error) {
	resp, err := f.service.Videos.List([]string{"snippet", "contentDetails", "liveStreamingDetails"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, convertVideo(channelID, item))
	}
	return videos, nil
}

func convertVideo(channelID string, item *youtube.Video) Video {
	video := Video{
		ID:        item.Id,
		ChannelID: channelID,
	}

	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.Description = item.Snippet.Description
		if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			video.Published = t
		}
	}

	if item.LiveStreamingDetails != nil {
		video.Live = &LiveDetails{}
		if raw := item.LiveStreamingDetails.ActualEndTime; raw != "" {
			// A present but unparseable end time still marks the broadcast as over.
			end, _ := time.Parse(time.RFC3339, raw)
			video.Live.ActualEndTime = &end
		}
	}

	return video
}
