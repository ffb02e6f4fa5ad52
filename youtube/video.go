// Package youtube fetches recent channel uploads from the YouTube Data API
// and classifies them for the daily digest.
package youtube

import (
	"errors"
	"time"
)

// Sentinel errors for fetch operations.
var (
	ErrChannelNotFound = errors.New("youtube: channel not found")
	ErrEmptyChannelID  = errors.New("youtube: empty channel id")
)

// Video contains the metadata the classifier needs about one upload.
type Video struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID string `json:"id"`

	// Title is the video title.
	Title string `json:"title"`

	// Description is the video description. Empty when the API omits it.
	Description string `json:"description,omitempty"`

	// ChannelID is the channel the video was fetched for.
	ChannelID string `json:"channel_id"`

	// Published is when the video was published.
	Published time.Time `json:"published"`

	// Live is set when the API returned live-streaming details, i.e. the item
	// is a live broadcast or premiere rather than an ordinary upload.
	Live *LiveDetails `json:"live,omitempty"`
}

// LiveDetails holds the live-streaming fields of a broadcast or premiere.
type LiveDetails struct {
	// ActualEndTime is nil while the broadcast is upcoming or still running.
	ActualEndTime *time.Time `json:"actual_end_time,omitempty"`
}

// Ended reports whether the broadcast has finished and an archive exists.
func (l *LiveDetails) Ended() bool {
	return l != nil && l.ActualEndTime != nil
}

// EmbedURL returns the embeddable player URL for a video ID.
func EmbedURL(videoID string) string {
	return "https://www.youtube.com/embed/" + videoID + "?rel=0&modestbranding=1"
}

// FetchError wraps fetch errors with context about what failed.
// Use errors.As() to extract this error type and get operation details:
//
//	var fetchErr *youtube.FetchError
//	if errors.As(err, &fetchErr) {
//		fmt.Printf("%s failed for %s: %v\n", fetchErr.Stage, fetchErr.Channel, fetchErr.Err)
//	}
type FetchError struct {
	// Stage is the API call that failed ("search" or "videos").
	Stage string
	// Channel is the channel ID that was being fetched.
	Channel string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the fetch error.
func (e *FetchError) Error() string {
	return "youtube: " + e.Stage + " for channel " + e.Channel + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *FetchError) Unwrap() error { return e.Err }
