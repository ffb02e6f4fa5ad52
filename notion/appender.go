package notion

import (
	"context"

	"ytdigest/youtube"
)

// BlockAppender is the part of the Notion API the appender needs.
type BlockAppender interface {
	AppendBlockChildren(ctx context.Context, blockID string, blocks []Block) error
}

// Appender writes a classified partition onto a day page.
type Appender struct {
	store   BlockAppender
	heading string
}

// AppendResult reports the two independent batch appends. A batch that was
// not needed has zero blocks and a nil error.
type AppendResult struct {
	IncludedBlocks int
	IncludedErr    error
	ExcludedBlocks int
	ExcludedErr    error
}

// Failed reports whether any batch failed.
func (r AppendResult) Failed() bool {
	return r.IncludedErr != nil || r.ExcludedErr != nil
}

// NewAppender creates an Appender. heading labels the excluded list.
func NewAppender(store BlockAppender, heading string) *Appender {
	if heading == "" {
		heading = "除外リスト"
	}
	return &Appender{store: store, heading: heading}
}

// Append sends the included embeds and the excluded title list as two
// separate requests. A failure of the first does not prevent the second.
func (a *Appender) Append(ctx context.Context, pageID string, p youtube.Partition) AppendResult {
	var result AppendResult

	if blocks := IncludedBlocks(p.Included()); len(blocks) > 0 {
		result.IncludedBlocks = len(blocks)
		result.IncludedErr = a.store.AppendBlockChildren(ctx, pageID, blocks)
	}

	if blocks := ExcludedBlocks(a.heading, p.Excluded()); len(blocks) > 0 {
		result.ExcludedBlocks = len(blocks)
		result.ExcludedErr = a.store.AppendBlockChildren(ctx, pageID, blocks)
	}

	return result
}

// IncludedBlocks builds one embed block per video.
func IncludedBlocks(videos []youtube.ClassifiedVideo) []Block {
	if len(videos) == 0 {
		return nil
	}
	blocks := make([]Block, 0, len(videos))
	for _, v := range videos {
		blocks = append(blocks, Embed(youtube.EmbedURL(v.ID)))
	}
	return blocks
}

// ExcludedBlocks builds a heading followed by one bullet per video title.
func ExcludedBlocks(heading string, videos []youtube.ClassifiedVideo) []Block {
	if len(videos) == 0 {
		return nil
	}
	blocks := make([]Block, 0, len(videos)+1)
	blocks = append(blocks, Heading2(heading))
	for _, v := range videos {
		blocks = append(blocks, BulletedListItem(v.Title))
	}
	return blocks
}
