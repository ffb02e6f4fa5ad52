// Package ytdigest records a daily digest of YouTube uploads in Notion.
//
// Once a day it checks a fixed list of channels for videos published in the
// previous 24 hours, sorts them into included and excluded sets, and writes
// them to the Notion page for the current date. Included videos are embedded;
// excluded ones are listed by title under a heading. A completion email
// follows.
//
// Overview
//
// The pipeline lives in sub-packages:
//
//   - youtube: channel fetcher, classifier and partition
//   - notion: API client, day page resolver and content appender
//   - notify: completion email
//   - digest: the runner that drives one pass
//   - schedule: the daily cron trigger
//   - config: koanf-backed configuration and credentials
//
// Configuration
//
// Settings are read from, in increasing priority:
//
//  1. Default values
//  2. ytdigest.yaml in the working directory or ~/.config/ytdigest/
//  3. YTDIGEST_* environment variables
//
// Commonly set variables:
//
//   - YTDIGEST_CHANNELS: comma separated channel IDs
//   - YTDIGEST_YOUTUBE_API_KEY: YouTube Data API key
//   - YTDIGEST_NOTION_TOKEN: Notion integration token
//   - YTDIGEST_NOTION_DATABASE_ID: database holding day pages
//   - YTDIGEST_MAIL_HOST, YTDIGEST_MAIL_TO: completion email
//
// Error Handling
//
// A run only fails outright when the day page cannot be found or created:
//
//	if errors.Is(err, ytdigest.ErrDayPageUnresolved) {
//		fmt.Println("nothing was written")
//	}
//
// Per-channel failures are reported as *ytdigest.FetchError and Notion
// responses outside 2xx as *ytdigest.HTTPError:
//
//	var httpErr *ytdigest.HTTPError
//	if errors.As(err, &httpErr) {
//		fmt.Printf("notion returned %d\n", httpErr.StatusCode)
//	}
package ytdigest
