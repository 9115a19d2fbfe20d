// Package tiktoken provides a docqa.Tokenizer backed by OpenAI's BPE
// encodings. The BPE ranks are embedded in the binary, so no network
// access is needed at runtime.
package tiktoken

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fwojciec/docqa"
	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncoding is the encoding used for chunk token counts.
const DefaultEncoding = "cl100k_base"

var loaderOnce sync.Once

// Ensure Tokenizer implements docqa.Tokenizer at compile time.
var _ docqa.Tokenizer = (*Tokenizer)(nil)

// Tokenizer encodes text with a tiktoken encoding.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTokenizer returns a Tokenizer for the named encoding.
func NewTokenizer(encoding string) (*Tokenizer, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
	}
	return &Tokenizer{enc: enc}, nil
}

// Encode returns the token IDs for text. Special token markers in the text
// are encoded as ordinary text.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode returns the text for token IDs. A window of byte-level tokens can
// cut a multi-byte character; such partial sequences become U+FFFD so the
// result is always valid UTF-8.
func (t *Tokenizer) Decode(tokens []int) string {
	return strings.ToValidUTF8(t.enc.Decode(tokens), "\uFFFD")
}
