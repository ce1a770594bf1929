package scanner

// A Scanner reads the bytes of a single line of input.  It keeps track of the
// column it is at so that errors can point at the offending byte.
type Scanner struct {
	buf []byte

	// Current position in buf
	// 0 <= currentIndex <= len(buf)
	currentIndex int

	// Column (counted in code points) of currentIndex, and of the position
	// before the last Read.  prevCol is -1 when Back cannot be called.
	currentCol, prevCol int

	// Position in buf of the currently recorded token.
	// -1 means not recording a token
	tokenStartIndex int

	// Tracks how many EOFs have been read.  This is required to make
	// Back() work after an EOF has been read.
	eofCount int
}

func NewScanner(line []byte) *Scanner {
	return &Scanner{
		buf:             line,
		tokenStartIndex: -1,
		prevCol:         -1,
	}
}

// Reset makes the scanner read from a new line.
func (s *Scanner) Reset(line []byte) {
	*s = Scanner{
		buf:             line,
		tokenStartIndex: -1,
		prevCol:         -1,
	}
}

// Read returns the next byte, or EOF at the end of the line.
func (s *Scanner) Read() byte {
	if s.currentIndex < len(s.buf) {
		b := s.buf[s.currentIndex]
		s.prevCol = s.currentCol
		// Bytes from 0x80 to 0xBF are continuation bytes in UTF-8
		if b < 0x80 || b >= 0xC0 {
			s.currentCol++
		}
		s.currentIndex++
		return b
	}
	s.eofCount++
	s.prevCol = s.currentCol
	return EOF
}

// Back undoes the last Read.  It cannot be called twice in a row.
func (s *Scanner) Back() {
	if s.prevCol < 0 {
		panic("cannot go back twice")
	}
	if s.eofCount > 0 {
		s.eofCount--
		s.prevCol = -1
		return
	}
	if s.currentIndex <= 0 || s.currentIndex <= s.tokenStartIndex {
		panic("cannot go back from start")
	}
	s.currentIndex--
	s.currentCol = s.prevCol
	s.prevCol = -1
}

func (s *Scanner) Peek() byte {
	if s.currentIndex < len(s.buf) {
		return s.buf[s.currentIndex]
	}
	return EOF
}

// SkipSpaceAndPeek skips JSON whitespace and returns the next byte without
// consuming it.
func (s *Scanner) SkipSpaceAndPeek() byte {
	for s.currentIndex < len(s.buf) {
		switch b := s.buf[s.currentIndex]; b {
		case ' ', '\t', '\r', '\n':
			s.currentIndex++
			s.currentCol++
		default:
			return b
		}
	}
	return EOF
}

// Col returns the 0-based column of the next byte to be read.
func (s *Scanner) Col() int {
	return s.currentCol
}

// Remaining returns the number of bytes not yet read.
func (s *Scanner) Remaining() int {
	return len(s.buf) - s.currentIndex
}

func (s *Scanner) StartToken() int {
	if s.tokenStartIndex >= 0 {
		panic("already in record mode")
	}
	s.tokenStartIndex = s.currentIndex
	return s.currentCol
}

// EndToken returns the bytes read since StartToken.  The returned slice is a
// copy, so it stays valid when the line buffer is reused.
func (s *Scanner) EndToken() []byte {
	if s.tokenStartIndex < 0 {
		panic("not in record mode")
	}
	tok := make([]byte, s.currentIndex-s.tokenStartIndex)
	copy(tok, s.buf[s.tokenStartIndex:s.currentIndex])
	s.tokenStartIndex = -1
	return tok
}

// 0xFF is a byte that should not appear in a UTF-8 encoded stream of bytes.
const EOF byte = 0xFF
