package model

// CitationType classifies how a sourced value was obtained.
type CitationType string

const (
	CitationPrimary   CitationType = "primary"   // provider documentation, paper, model card
	CitationSecondary CitationType = "secondary" // aggregator, press, third-party eval
	CitationEstimated CitationType = "estimated" // derived value, no authoritative source
)

// Citation records where a sourced scalar came from. Every non-derived
// parameter count, price, and benchmark score carries one; estimated values
// use Type "estimated" and may omit the URL.
type Citation struct {
	URL       string       `json:"url,omitempty"`
	Type      CitationType `json:"type"`
	Collected string       `json:"collected,omitempty"` // ISO-8601 date
	Notes     string       `json:"notes,omitempty"`
}

// IsEstimated reports whether the citation marks a derived value.
func (c *Citation) IsEstimated() bool {
	return c != nil && c.Type == CitationEstimated
}
