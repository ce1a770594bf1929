package token

import (
	"testing"
)

func assertNext(t *testing.T, r ReadStream, expected Token) {
	t.Helper()
	next := r.Next()
	if next != expected {
		t.Fatalf("Expected %v, got %v", expected, next)
	}
}

func TestAccumulatorThenReadBack(t *testing.T) {
	start, end := &StartObject{}, &EndObject{}
	key := NewKey(String, []byte(`"a"`))
	acc := NewAccumulatorStream()
	for _, tok := range []Token{start, key, TrueScalar, end} {
		acc.Put(tok)
	}
	r := NewSliceReadStream(acc.GetTokens())
	assertNext(t, r, start)
	assertNext(t, r, key)
	assertNext(t, r, TrueScalar)
	assertNext(t, r, end)
	assertNext(t, r, nil)
	assertNext(t, r, nil)
}

func TestAccumulatorReset(t *testing.T) {
	acc := NewAccumulatorStream()
	acc.Put(NullScalar)
	acc.Put(TrueScalar)
	acc.Reset()
	if n := len(acc.GetTokens()); n != 0 {
		t.Fatalf("expected no tokens after Reset, got %d", n)
	}
	acc.Put(FalseScalar)
	toks := acc.GetTokens()
	if len(toks) != 1 || toks[0] != FalseScalar {
		t.Fatalf("unexpected tokens %v", toks)
	}
}
