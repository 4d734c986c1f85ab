package classfile

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Modified UTF-8, the encoding of CONSTANT_Utf8 entries
// ---------------------------------------------------------------------------

// DecodeModifiedUTF8 converts the bytes of a CONSTANT_Utf8 entry to a Go
// string. NUL arrives as C0 80 and supplementary characters as two encoded
// surrogates; both are folded into single runes. Standard 4-byte sequences
// are accepted as well. Bytes that decode to nothing valid become U+FFFD.
func DecodeModifiedUTF8(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for i := 0; i < len(b); {
		if b[i] == 0xc0 && i+1 < len(b) && b[i+1] == 0x80 {
			sb.WriteByte(0)
			i += 2
			continue
		}
		r, n := decodeUnit(b[i:])
		if utf16.IsSurrogate(r) {
			if lo, m := decodeUnit(b[i+n:]); utf16.IsSurrogate(lo) {
				if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
					sb.WriteRune(pair)
					i += n + m
					continue
				}
			}
			r = utf8.RuneError
		}
		sb.WriteRune(r)
		i += n
	}
	return sb.String()
}

// decodeUnit decodes one 1 to 3 byte sequence, surrogates included, which
// utf8.DecodeRune rejects.
func decodeUnit(b []byte) (rune, int) {
	if len(b) >= 3 && b[0]&0xf0 == 0xe0 && b[1]&0xc0 == 0x80 && b[2]&0xc0 == 0x80 {
		r := rune(b[0]&0x0f)<<12 | rune(b[1]&0x3f)<<6 | rune(b[2]&0x3f)
		if r >= 0x800 {
			return r, 3
		}
	}
	if len(b) == 0 {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(b)
}

// EncodeModifiedUTF8 is the inverse of DecodeModifiedUTF8.
func EncodeModifiedUTF8(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xc0, 0x80)
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			out = appendUnit(out, hi)
			out = appendUnit(out, lo)
		default:
			out = utf8.AppendRune(out, r)
		}
	}
	return out
}

func appendUnit(out []byte, r rune) []byte {
	return append(out, 0xe0|byte(r>>12), 0x80|byte(r>>6)&0x3f, 0x80|byte(r)&0x3f)
}
