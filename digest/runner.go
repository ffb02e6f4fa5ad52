// Package digest runs one end-to-end pass: fetch recent videos for every
// configured channel, classify them, write them to the day page and send the
// completion notice.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ythttp "ytdigest/http"
	"ytdigest/notion"
	"ytdigest/youtube"
)

// DayTitleLayout formats the day page title.
const DayTitleLayout = "2006-01-02"

// ChannelFetcher fetches one channel's recent videos.
type ChannelFetcher interface {
	FetchChannel(ctx context.Context, channelID string, now time.Time) youtube.ChannelResult
}

// DayResolver finds or creates the page for a day title.
type DayResolver interface {
	Resolve(ctx context.Context, dayTitle string) (string, error)
}

// ContentAppender writes a partition onto a page.
type ContentAppender interface {
	Append(ctx context.Context, pageID string, p youtube.Partition) notion.AppendResult
}

// Notifier sends the completion notice.
type Notifier interface {
	Notify(ctx context.Context, at time.Time) error
}

// Runner wires the pipeline stages together.
type Runner struct {
	Channels []string
	Fetcher  ChannelFetcher
	Resolver DayResolver
	Appender ContentAppender
	Notifier Notifier
	Location *time.Location
	Logger   *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Report summarizes a run.
type Report struct {
	RunID    string
	Started  time.Time
	DayTitle string

	// Skipped is set when no channel produced any video; nothing was written.
	Skipped bool

	Included       int
	Excluded       int
	FailedChannels []string

	PageID    string
	Append    notion.AppendResult
	NotifyErr error
}

// Run executes the pipeline once. The only returned error is a day page that
// could not be resolved; every other failure is logged and recorded in the
// report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	now := r.now()
	report := &Report{
		RunID:    uuid.NewString(),
		Started:  now,
		DayTitle: now.Format(DayTitleLayout),
	}
	logger := r.logger().With(zap.String("run_id", report.RunID), zap.String("day", report.DayTitle))

	partition := r.collect(ctx, now, report, logger)
	report.Included = len(partition.Included())
	report.Excluded = len(partition.Excluded())

	if partition.Empty() {
		report.Skipped = true
		logger.Info("digest: no new videos, skipping notion and notification")
		return report, nil
	}

	pageID, err := r.Resolver.Resolve(ctx, report.DayTitle)
	if err != nil {
		logger.Error("digest: failed to resolve day page, aborting run", zap.Error(err))
		return report, fmt.Errorf("run %s: %w", report.RunID, err)
	}
	report.PageID = pageID

	report.Append = r.Appender.Append(ctx, pageID, partition)
	if report.Append.IncludedErr != nil {
		logger.Warn("digest: appending included videos failed",
			zap.String("page_id", pageID),
			zap.Int("status", ythttp.StatusCode(report.Append.IncludedErr)),
			zap.Error(report.Append.IncludedErr))
	}
	if report.Append.ExcludedErr != nil {
		logger.Warn("digest: appending excluded list failed",
			zap.String("page_id", pageID),
			zap.Int("status", ythttp.StatusCode(report.Append.ExcludedErr)),
			zap.Error(report.Append.ExcludedErr))
	}

	if report.NotifyErr = r.Notifier.Notify(ctx, r.now()); report.NotifyErr != nil {
		logger.Warn("digest: sending notification failed", zap.Error(report.NotifyErr))
	}

	logger.Info("digest: run complete",
		zap.String("page_id", pageID),
		zap.Int("included", report.Included),
		zap.Int("excluded", report.Excluded),
		zap.Strings("failed_channels", report.FailedChannels))
	return report, nil
}

// collect folds every channel's videos into a single partition, channel by
// channel. A failing channel contributes nothing.
func (r *Runner) collect(ctx context.Context, now time.Time, report *Report, logger *zap.Logger) youtube.Partition {
	var partition youtube.Partition
	for _, channelID := range r.Channels {
		res := r.Fetcher.FetchChannel(ctx, channelID, now)
		if res.Err != nil {
			report.FailedChannels = append(report.FailedChannels, channelID)
			logger.Warn("digest: channel fetch failed", zap.String("channel", channelID), zap.Error(res.Err))
			continue
		}
		logger.Debug("digest: channel fetched", zap.String("channel", channelID), zap.Int("videos", len(res.Videos)))
		partition = partition.Add(res.Videos...)
	}
	return partition
}

func (r *Runner) now() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
