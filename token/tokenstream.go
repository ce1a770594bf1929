package token

// A ReadStream yields tokens one at a time.  Next returns nil when the stream
// is exhausted.
type ReadStream interface {
	Next() Token
}

// A WriteStream is where decoders put the tokens they produce.
type WriteStream interface {
	Put(Token)
}

type SliceReadStream struct {
	toks []Token
}

var _ ReadStream = &SliceReadStream{}

func NewSliceReadStream(toks []Token) *SliceReadStream {
	return &SliceReadStream{toks: toks}
}

func (r *SliceReadStream) Next() (tok Token) {
	if len(r.toks) > 0 {
		tok = r.toks[0]
		r.toks = r.toks[1:]
	}
	return
}

// AccumulatorStream collects the tokens put into it.  It can be reused
// between values by calling Reset.
type AccumulatorStream struct {
	toks []Token
}

var _ WriteStream = &AccumulatorStream{}

func NewAccumulatorStream() *AccumulatorStream {
	return &AccumulatorStream{}
}

func (w *AccumulatorStream) Put(tok Token) {
	w.toks = append(w.toks, tok)
}

func (w *AccumulatorStream) GetTokens() []Token {
	return w.toks
}

// Reset empties the accumulator, keeping its storage.
func (w *AccumulatorStream) Reset() {
	clear(w.toks)
	w.toks = w.toks[:0]
}
