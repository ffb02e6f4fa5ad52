package notion

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	ythttp "ytdigest/http"
)

// ErrDayPageUnresolved is returned when the day page could neither be found
// nor created. It is the only condition that aborts a run.
var ErrDayPageUnresolved = errors.New("notion: day page unresolved")

// PageStore is the part of the Notion API the resolver needs.
type PageStore interface {
	QueryDatabase(ctx context.Context, databaseID string, filter Filter) (*QueryResult, error)
	CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error)
}

// Resolver finds or creates the page representing one calendar day.
type Resolver struct {
	store         PageStore
	databaseID    string
	titleProperty string
	dateProperty  string
	logger        *zap.Logger
}

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	DatabaseID    string
	TitleProperty string
	DateProperty  string
}

// NewResolver creates a Resolver. A nil logger disables logging.
func NewResolver(store PageStore, cfg ResolverConfig, logger *zap.Logger) *Resolver {
	if cfg.TitleProperty == "" {
		cfg.TitleProperty = "Name"
	}
	if cfg.DateProperty == "" {
		cfg.DateProperty = "日付"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store:         store,
		databaseID:    cfg.DatabaseID,
		titleProperty: cfg.TitleProperty,
		dateProperty:  cfg.DateProperty,
		logger:        logger,
	}
}

// Resolve returns the ID of the page titled dayTitle, creating it if the
// lookup finds nothing or fails. When several pages match, the first one
// returned by the API wins. Concurrent callers may each create a page.
func (r *Resolver) Resolve(ctx context.Context, dayTitle string) (string, error) {
	result, err := r.store.QueryDatabase(ctx, r.databaseID, TitleEquals(r.titleProperty, dayTitle))
	switch {
	case err != nil:
		r.logger.Warn("notion: day page lookup failed, creating",
			zap.String("day", dayTitle), zap.Int("status", ythttp.StatusCode(err)), zap.Error(err))
	case len(result.Results) > 0:
		r.logger.Debug("notion: day page found",
			zap.String("day", dayTitle), zap.String("page_id", result.Results[0].ID))
		return result.Results[0].ID, nil
	}

	page, err := r.store.CreatePage(ctx, CreatePageRequest{
		Parent: Parent{DatabaseID: r.databaseID},
		Properties: map[string]PropertyValue{
			r.titleProperty: {Title: PlainText(dayTitle)},
			r.dateProperty:  {Date: &DateValue{Start: dayTitle}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrDayPageUnresolved, dayTitle, err)
	}

	r.logger.Info("notion: day page created",
		zap.String("day", dayTitle), zap.String("page_id", page.ID))
	return page.ID, nil
}
