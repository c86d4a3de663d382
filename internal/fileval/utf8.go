package fileval

import (
	"errors"
	"io"
	"os"
	"unicode/utf8"
)

const chunkSize = 32 * 1024

// LooksUTF8 reports whether the first maxBytes of path decode as UTF-8.
// maxBytes <= 0 checks the whole file. A rune cut by the maxBytes limit is
// accepted; a rune cut by the end of file is not.
func LooksUTF8(path string, maxBytes int64) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	chunk := make([]byte, chunkSize)
	pending := make([]byte, 0, chunkSize+utf8.UTFMax)
	var read int64

	for {
		want := len(chunk)
		if maxBytes > 0 && maxBytes-read < int64(want) {
			want = int(maxBytes - read)
		}
		n, err := f.Read(chunk[:want])
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		read += int64(n)
		pending = append(pending, chunk[:n]...)

		limited := maxBytes > 0 && read >= maxBytes
		eof := errors.Is(err, io.EOF)

		keep := 0
		switch {
		case limited:
			pending = pending[:len(pending)-partialRune(pending)]
		case !eof:
			keep = partialRune(pending)
		}
		if !utf8.Valid(pending[:len(pending)-keep]) {
			return false, nil
		}
		if limited || eof {
			return true, nil
		}
		pending = append(pending[:0], pending[len(pending)-keep:]...)
	}
}

// partialRune returns how many bytes at the end of data start a rune that
// is not complete yet.
func partialRune(data []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(data); i++ {
		if b := data[len(data)-i]; utf8.RuneStart(b) {
			if utf8.FullRune(data[len(data)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}
