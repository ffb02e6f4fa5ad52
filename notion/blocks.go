package notion

// Block types appended by this package.
const (
	BlockEmbed            = "embed"
	BlockHeading2         = "heading_2"
	BlockBulletedListItem = "bulleted_list_item"
)

// Block is a Notion block object. Type selects which payload field is set.
type Block struct {
	Object           string      `json:"object"`
	Type             string      `json:"type"`
	Embed            *EmbedBlock `json:"embed,omitempty"`
	Heading2         *TextBlock  `json:"heading_2,omitempty"`
	BulletedListItem *TextBlock  `json:"bulleted_list_item,omitempty"`
}

// EmbedBlock embeds external content by URL.
type EmbedBlock struct {
	URL string `json:"url"`
}

// TextBlock is the payload of text-bearing blocks.
type TextBlock struct {
	RichText []RichText `json:"rich_text"`
}

// Embed returns an embed block for url.
func Embed(url string) Block {
	return Block{Object: "block", Type: BlockEmbed, Embed: &EmbedBlock{URL: url}}
}

// Heading2 returns a second-level heading block.
func Heading2(text string) Block {
	return Block{Object: "block", Type: BlockHeading2, Heading2: &TextBlock{RichText: PlainText(text)}}
}

// BulletedListItem returns a bulleted list item block.
func BulletedListItem(text string) Block {
	return Block{Object: "block", Type: BlockBulletedListItem, BulletedListItem: &TextBlock{RichText: PlainText(text)}}
}
