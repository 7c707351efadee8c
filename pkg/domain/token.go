package domain

// Token is one span of a tokenized document. A token knows how to render
// itself back into the canonical on-disk form; serializing a document is
// the concatenation of its tokens in order.
type Token interface {
	Markdown() string
}

// RawText is an untyped span of document text that matched no token
// grammar. It is kept in the token stream so that serialization
// reproduces the original document.
type RawText string

// Markdown returns the span verbatim.
func (t RawText) Markdown() string {
	return string(t)
}
