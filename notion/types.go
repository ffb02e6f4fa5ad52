package notion

// Filter is a database query filter on a single property.
type Filter struct {
	Property string         `json:"property"`
	Title    *TextCondition `json:"title,omitempty"`
}

// TextCondition matches title or rich text properties.
type TextCondition struct {
	Equals string `json:"equals"`
}

// TitleEquals builds a filter matching pages whose title property equals value.
func TitleEquals(property, value string) Filter {
	return Filter{Property: property, Title: &TextCondition{Equals: value}}
}

type queryRequest struct {
	Filter Filter `json:"filter"`
}

// QueryResult is one page of database query results.
type QueryResult struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// Page is the subset of a Notion page object this package reads.
type Page struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// Parent identifies the database a page is created in.
type Parent struct {
	DatabaseID string `json:"database_id"`
}

// PropertyValue is a page property value. Exactly one field is set.
type PropertyValue struct {
	Title []RichText `json:"title,omitempty"`
	Date  *DateValue `json:"date,omitempty"`
}

// DateValue is the value of a date property.
type DateValue struct {
	Start string `json:"start"`
}

// CreatePageRequest is the body of POST /pages.
type CreatePageRequest struct {
	Parent     Parent                   `json:"parent"`
	Properties map[string]PropertyValue `json:"properties"`
}

// RichText is a plain text rich text element.
type RichText struct {
	Type string `json:"type"`
	Text Text   `json:"text"`
}

// Text is the content of a text rich text element.
type Text struct {
	Content string `json:"content"`
}

// PlainText wraps s as a single rich text element.
func PlainText(s string) []RichText {
	return []RichText{{Type: "text", Text: Text{Content: s}}}
}

type appendRequest struct {
	Children []Block `json:"children"`
}
