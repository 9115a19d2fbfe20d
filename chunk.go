package docqa

import "iter"

// Default chunking parameters, in tokens.
const (
	DefaultChunkMin     = 300
	DefaultChunkMax     = 500
	DefaultChunkOverlap = 30
)

// Chunk is a contiguous token window of a document.
type Chunk struct {
	Text       string `json:"text"`
	TokenCount int    `json:"tokenCount"`

	// Start and End are token offsets into the encoded document, End exclusive.
	Start int `json:"start"`
	End   int `json:"end"`

	// Index is the 0-based position of the chunk within its document.
	Index int `json:"index"`
}

// ChunkOptions configures the Chunker.
type ChunkOptions struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Overlap int `json:"overlap"`
}

// DefaultChunkOptions returns 300/500/30.
func DefaultChunkOptions() ChunkOptions {
	return ChunkOptions{
		Min:     DefaultChunkMin,
		Max:     DefaultChunkMax,
		Overlap: DefaultChunkOverlap,
	}
}

// Target returns the window size the chunker aims for.
func (o ChunkOptions) Target() int {
	return (o.Min + o.Max) / 2
}

// Validate returns an error if the options cannot produce a terminating
// chunk sequence.
func (o ChunkOptions) Validate() error {
	if o.Min <= 0 {
		return Errorf(EINVALID, "chunk min must be positive")
	}
	if o.Max < o.Min {
		return Errorf(EINVALID, "chunk max (%d) must not be less than min (%d)", o.Max, o.Min)
	}
	if o.Overlap < 0 {
		return Errorf(EINVALID, "chunk overlap must not be negative")
	}
	if o.Overlap >= o.Target() {
		return Errorf(EINVALID, "chunk overlap (%d) must be less than target size (%d)", o.Overlap, o.Target())
	}
	return nil
}

// Chunker splits text into overlapping token windows.
type Chunker struct {
	tok  Tokenizer
	opts ChunkOptions
}

// NewChunker returns a Chunker or an EINVALID error for bad options.
func NewChunker(tok Tokenizer, opts ChunkOptions) (*Chunker, error) {
	if tok == nil {
		return nil, Errorf(EINVALID, "tokenizer required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{tok: tok, opts: opts}, nil
}

// Options returns the chunker's configuration.
func (c *Chunker) Options() ChunkOptions {
	return c.opts
}

// Chunks returns the chunk sequence for text. The sequence is lazy and may be
// ranged over more than once; each pass re-encodes the text. Empty text
// yields nothing.
//
// Every window except the last spans Target tokens and starts Overlap tokens
// before the previous one ended, so together the chunks cover every token.
func (c *Chunker) Chunks(text string) iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		tokens := c.tok.Encode(text)
		total := len(tokens)
		target := c.opts.Target()

		start, index := 0, 0
		for start < total {
			end := min(start+target, total)
			chunk := Chunk{
				Text:       c.tok.Decode(tokens[start:end]),
				TokenCount: end - start,
				Start:      start,
				End:        end,
				Index:      index,
			}
			if !yield(chunk) {
				return
			}
			if end >= total {
				return
			}
			next := end - c.opts.Overlap
			if next <= start {
				return
			}
			start = next
			index++
		}
	}
}

// Split collects Chunks(text) into a slice.
func (c *Chunker) Split(text string) []Chunk {
	var chunks []Chunk
	for chunk := range c.Chunks(text) {
		chunks = append(chunks, chunk)
	}
	return chunks
}
