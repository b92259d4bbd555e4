// Package token adapts the tiktoken BPE encoder to the core.Tokenizer
// interface. Counting is a pure function of the input string for a fixed
// model vocabulary.
package token

import (
	"errors"
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// ErrUnsupportedModel is returned when no encoding exists for the requested
// model name.
var ErrUnsupportedModel = errors.New("unsupported tokenizer model")

// Encoder counts tokens using the BPE vocabulary of a specific model.
type Encoder struct {
	enc *tiktoken.Tiktoken
}

// ForModel creates an Encoder for the given model name (e.g. "gpt-3.5-turbo").
// An unknown model fails here, at construction: the encoder never operates
// without a vocabulary.
func ForModel(model string) (*Encoder, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedModel, model, err)
	}
	return &Encoder{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (e *Encoder) Count(text string) int {
	return len(e.enc.Encode(text, nil, nil))
}
