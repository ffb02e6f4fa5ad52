package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"ytdigest/config"
	"ytdigest/digest"
	ythttp "ytdigest/http"
	"ytdigest/notify"
	"ytdigest/notion"
	"ytdigest/youtube"
)

// newRunner assembles the pipeline from cfg. The returned cleanup releases
// idle connections.
func newRunner(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*digest.Runner, func(), error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	creds := cfg.Credentials()

	var ytOpts []option.ClientOption
	if cfg.YouTube.Endpoint != "" {
		ytOpts = append(ytOpts, option.WithEndpoint(cfg.YouTube.Endpoint))
	}
	fetcher, err := youtube.NewFetcher(ctx, creds.YouTubeAPIKey, youtube.FetcherOptions{
		MaxResults: cfg.YouTube.MaxResults,
		Window:     cfg.YouTube.Window,
	}, ytOpts...)
	if err != nil {
		return nil, nil, err
	}

	httpCfg := ythttp.DefaultConfig()
	httpCfg.Timeout = cfg.Notion.Timeout
	httpCfg.Logger = logger
	httpClient := ythttp.New(httpCfg)

	client := notion.NewClient(notion.ClientConfig{
		BaseURL: cfg.Notion.BaseURL,
		Token:   creds.NotionToken,
		Version: cfg.Notion.Version,
		HTTP:    httpClient,
	})

	notifier, err := newNotifier(cfg.Mail, logger)
	if err != nil {
		httpClient.Close()
		return nil, nil, err
	}

	runner := &digest.Runner{
		Channels: cfg.Channels,
		Fetcher:  fetcher,
		Resolver: notion.NewResolver(client, notion.ResolverConfig{
			DatabaseID:    creds.DatabaseID,
			TitleProperty: cfg.Notion.TitleProperty,
			DateProperty:  cfg.Notion.DateProperty,
		}, logger),
		Appender: notion.NewAppender(client, cfg.Notion.ExcludedHeading),
		Notifier: notifier,
		Location: loc,
		Logger:   logger,
	}
	return runner, func() { httpClient.Close() }, nil
}

// newNotifier returns an SMTP mailer, or a logging no-op when no SMTP host is set.
func newNotifier(cfg config.MailConfig, logger *zap.Logger) (digest.Notifier, error) {
	if cfg.Host == "" {
		logger.Warn("mail.host not set, completion email disabled")
		return logOnly{logger}, nil
	}
	mailer, err := notify.NewMailer(cfg)
	if err != nil {
		return nil, fmt.Errorf("create mailer: %w", err)
	}
	return mailer, nil
}

type logOnly struct {
	logger *zap.Logger
}

func (l logOnly) Notify(_ context.Context, at time.Time) error {
	l.logger.Warn("run completed, completion email not sent: mail.host not set", zap.Time("at", at))
	return nil
}
