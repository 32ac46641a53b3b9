package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectEncodingBOM(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"utf-8 bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, "utf-8"},
		{"utf-16le bom", []byte{0xFF, 0xFE, 'h', 0x00}, "utf-16le"},
		{"utf-16be bom", []byte{0xFE, 0xFF, 0x00, 'h'}, "utf-16be"},
	}

	for _, tc := range cases {
		result := DetectEncoding(tc.data)
		if result.Encoding != tc.want || !result.HasBOM {
			t.Errorf("%s: got %+v", tc.name, result)
		}
	}
}

func TestDetectEncodingPlain(t *testing.T) {
	result := DetectEncoding([]byte("public class Customer {}"))
	if result.Encoding != "utf-8" {
		t.Errorf("plain text: got %+v", result)
	}

	// 0xE9 is not valid UTF-8 on its own; falls back to windows-1252.
	result = DetectEncoding([]byte{'c', 'a', 'f', 0xE9})
	if result.Encoding != "windows-1252" {
		t.Errorf("legacy bytes: got %+v", result)
	}
}

func TestDecodeUTF16(t *testing.T) {
	// "class" in UTF-16LE with BOM.
	data := []byte{0xFF, 0xFE}
	for _, r := range "class" {
		data = append(data, byte(r), 0x00)
	}

	text, result, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "class" {
		t.Errorf("got %q, want %q", text, "class")
	}
	if result.Encoding != "utf-16le" {
		t.Errorf("encoding: got %s", result.Encoding)
	}
}

func TestDecodeWindows1252(t *testing.T) {
	text, _, err := Decode([]byte{'c', 'a', 'f', 0xE9})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "café" {
		t.Errorf("got %q, want %q", text, "café")
	}
}

func TestDecodeStripsUTF8BOM(t *testing.T) {
	text, result, err := Decode([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "hi" {
		t.Errorf("BOM must be stripped, got %q", text)
	}
	if !result.HasBOM {
		t.Error("HasBOM must be set")
	}
}

func TestProviderSnippet(t *testing.T) {
	dir := t.TempDir()
	content := "using System;\n\npublic class Customer\n{\n    public string Name { get; set; }\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "Customer.cs"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewProvider(dir)

	if got := p.Snippet("Customer.cs", 3); got != "public class Customer" {
		t.Errorf("line 3: got %q", got)
	}
	if got := p.Snippet("Customer.cs", 5); got != "public string Name { get; set; }" {
		t.Errorf("line 5: got %q (leading whitespace must be trimmed)", got)
	}
	if got := p.Snippet("Customer.cs", 99); got != "" {
		t.Errorf("out-of-range line: got %q, want empty", got)
	}
	if got := p.Snippet("Missing.cs", 1); got != "" {
		t.Errorf("missing document: got %q, want empty", got)
	}
}

func TestProviderContext(t *testing.T) {
	dir := t.TempDir()
	content := "one\ntwo\nthree\nfour\nfive\n"
	if err := os.WriteFile(filepath.Join(dir, "a.cs"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewProvider(dir)

	got := p.Context("a.cs", 3, 1)
	want := []string{"two", "three", "four"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProviderCacheInvalidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.cs")
	if err := os.WriteFile(path, []byte("old\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewProvider(dir)
	if got := p.Snippet("a.cs", 1); got != "old" {
		t.Fatalf("got %q", got)
	}

	// A rewrite with different size must bypass the cache.
	if err := os.WriteFile(path, []byte("brand new\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := p.Snippet("a.cs", 1); got != "brand new" {
		t.Errorf("stale cache: got %q", got)
	}
}
