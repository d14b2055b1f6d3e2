package notion

import "time"

type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// Page is one database row with its property graph.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// Property is the tagged union the source API uses for cell values. Only
// the variants the finance databases use are decoded.
type Property struct {
	Type     string      `json:"type"`
	Title    []richText  `json:"title"`
	RichText []richText  `json:"rich_text"`
	Number   *float64    `json:"number"`
	Select   *selectOpt  `json:"select"`
	Status   *selectOpt  `json:"status"`
	Date     *dateValue  `json:"date"`
	Formula  *formulaVal `json:"formula"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type selectOpt struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
}

type formulaVal struct {
	Type   string   `json:"type"`
	Number *float64 `json:"number"`
}

// Text flattens a title or rich_text property to its plain text.
func (p Page) Text(name string) string {
	prop, ok := p.Properties[name]
	if !ok {
		return ""
	}
	spans := prop.Title
	if prop.Type == "rich_text" {
		spans = prop.RichText
	}
	text := ""
	for _, span := range spans {
		text += span.PlainText
	}
	return text
}

// Number returns a number property, unwrapping number formulas. Missing
// or empty cells read as 0.
func (p Page) Number(name string) float64 {
	prop, ok := p.Properties[name]
	if !ok {
		return 0
	}
	if prop.Number != nil {
		return *prop.Number
	}
	if prop.Formula != nil && prop.Formula.Number != nil {
		return *prop.Formula.Number
	}
	return 0
}

// Select returns the chosen option of a select or status property.
func (p Page) Select(name string) string {
	prop, ok := p.Properties[name]
	if !ok {
		return ""
	}
	if prop.Select != nil {
		return prop.Select.Name
	}
	if prop.Status != nil {
		return prop.Status.Name
	}
	return ""
}

// Date parses a date property's start value. Returns nil when the cell
// is empty or unparseable, so such rows stay out of period buckets.
func (p Page) Date(name string) *time.Time {
	prop, ok := p.Properties[name]
	if !ok || prop.Date == nil || prop.Date.Start == "" {
		return nil
	}
	// Date-only first, then full timestamps
	if t, err := time.Parse("2006-01-02", prop.Date.Start); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, prop.Date.Start); err == nil {
		return &t
	}
	return nil
}
