package narrate

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/dikucore/server/internal/world"
)

// Charsets a ByteSink can encode to.
const (
	CharsetUTF8   = "utf-8"
	CharsetLatin1 = "latin1"
)

// ByteSink encodes rendered lines for classic telnet clients and hands the
// bytes to write. Lines that cannot be encoded go out as raw UTF-8.
type ByteSink struct {
	enc   *encoding.Encoder
	write func(to *world.Character, b []byte)
}

func NewByteSink(charset string, write func(to *world.Character, b []byte)) *ByteSink {
	s := &ByteSink{write: write}
	if charset == CharsetLatin1 {
		s.enc = charmap.ISO8859_1.NewEncoder()
	}
	return s
}

func (s *ByteSink) Deliver(to *world.Character, line string) {
	raw := []byte(line + "\r\n")
	if s.enc != nil {
		if encoded, err := s.enc.Bytes(raw); err == nil {
			raw = encoded
		}
	}
	s.write(to, raw)
}
