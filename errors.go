package ytdigest

import (
	"ytdigest/config"
	ythttp "ytdigest/http"
	"ytdigest/notify"
	"ytdigest/notion"
	"ytdigest/youtube"
)

// Sentinel errors re-exported from the sub-packages.
var (
	ErrDayPageUnresolved = notion.ErrDayPageUnresolved
	ErrUnexpectedStatus  = notion.ErrUnexpectedStatus
	ErrChannelNotFound   = youtube.ErrChannelNotFound
	ErrEmptyChannelID    = youtube.ErrEmptyChannelID
	ErrNoRecipient       = notify.ErrNoRecipient
	ErrConfigNotFound    = config.ErrConfigNotFound
	ErrRequestFailed     = ythttp.ErrRequestFailed
)

type (
	// FetchError reports a failed YouTube lookup for one channel.
	FetchError = youtube.FetchError
	// HTTPError reports a non-2xx response from the Notion API.
	HTTPError = ythttp.HTTPError
)
