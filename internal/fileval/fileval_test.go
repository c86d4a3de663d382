package fileval

import (
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(f, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestValidateFile_SizeCheck(t *testing.T) {
	t.Parallel()

	f := writeFile(t, "Big.java", make([]byte, 200))

	err := ValidateFile(f, 100)
	var tooLarge *FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected FileTooLargeError, got %v", err)
	}
	if tooLarge.Size != 200 || tooLarge.MaxSize != 100 {
		t.Errorf("Size/MaxSize = %d/%d, want 200/100", tooLarge.Size, tooLarge.MaxSize)
	}

	if err := ValidateFile(f, 200); err != nil {
		t.Errorf("unexpected error for exact size: %v", err)
	}
	if err := ValidateFile(f, 0); err != nil {
		t.Errorf("unexpected error for unlimited size: %v", err)
	}
}

func TestValidateFile_Empty(t *testing.T) {
	t.Parallel()

	if err := ValidateFile(writeFile(t, "Empty.java", nil), 0); err != nil {
		t.Errorf("empty files are valid sources: %v", err)
	}
}

func TestValidateFile_Directory(t *testing.T) {
	t.Parallel()

	err := ValidateFile(t.TempDir(), 0)
	var notRegular *NotRegularError
	if !errors.As(err, &notRegular) {
		t.Fatalf("expected NotRegularError, got %v", err)
	}
}

func TestValidateFile_UTF8Check(t *testing.T) {
	t.Parallel()

	valid := writeFile(t, "Valid.java", []byte("class A {\n    String s = \"héllo\";\n}\n"))
	if err := ValidateFile(valid, 0); err != nil {
		t.Errorf("unexpected error for valid UTF-8: %v", err)
	}

	data := make([]byte, 1024)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}
	err := ValidateFile(writeFile(t, "Binary.class", data), 0)
	var utf8Err *NotUTF8Error
	if !errors.As(err, &utf8Err) {
		t.Fatalf("expected NotUTF8Error for binary file, got %v", err)
	}
}

func TestValidateFile_NonexistentFile(t *testing.T) {
	t.Parallel()

	err := ValidateFile(filepath.Join(t.TempDir(), "nope"), 0)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLooksUTF8(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"empty", nil, true},
		{"ascii", []byte("package main\n\nfunc main() {}\n"), true},
		{"multibyte", []byte("// Ünïcödé comment\nclass A {}\n"), true},
		{"emoji", []byte("// 🐳\nclass A {}\n"), true},
		{"invalid-continuation", []byte{0x80, 0x81, 0x82}, false},
		{"truncated-2byte", []byte{0xC0}, false},
		{"mixed-valid-then-invalid", append([]byte("class A {}\n"), 0xFF, 0xFE), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, err := LooksUTF8(writeFile(t, "A.java", tt.content), 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.want {
				t.Errorf("LooksUTF8 = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestLooksUTF8_ChunkBoundary(t *testing.T) {
	t.Parallel()

	// A 3-byte rune straddles the first chunk boundary.
	euro := []byte{0xE2, 0x82, 0xAC}
	tail := []byte("\nclass A {}\n")
	data := make([]byte, 0, chunkSize-1+len(euro)+len(tail))
	for range chunkSize - 1 {
		data = append(data, '/')
	}
	data = append(data, euro...)
	data = append(data, tail...)

	ok, err := LooksUTF8(writeFile(t, "A.java", data), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected LooksUTF8 = true for split multi-byte char")
	}
}

func TestLooksUTF8_Limit(t *testing.T) {
	t.Parallel()

	// The limit cuts the two-byte rune in half.
	path := writeFile(t, "A.java", []byte("ab\xc3\xa9cd"))
	ok, err := LooksUTF8(path, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("a rune cut by the limit should be accepted")
	}

	path = writeFile(t, "B.java", []byte("ab\xc3"))
	ok, err = LooksUTF8(path, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("a rune cut by end of file should be rejected")
	}
}

func TestPartialRune(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"empty", nil, 0},
		{"ascii-only", []byte("abc"), 0},
		{"complete-2byte", []byte{0xC3, 0xA9}, 0},
		{"incomplete-2byte", []byte{0xC3}, 1},
		{"complete-3byte", []byte{0xE2, 0x82, 0xAC}, 0},
		{"incomplete-3byte", []byte{0xE2, 0x82}, 2},
		{"complete-4byte", []byte{0xF0, 0x9F, 0x90, 0xB3}, 0},
		{"incomplete-4byte", []byte{0xF0, 0x9F, 0x90}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := partialRune(tt.data); got != tt.want {
				t.Errorf("partialRune(%x) = %d, want %d", tt.data, got, tt.want)
			}
		})
	}
}
