package pathutil

import (
	"net/url"
	"testing"
)

func TestNormalizeForCompare(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`C:\Docs\Readme.md`, "c:/docs/readme.md"},
		{"c:/docs/readme.md", "c:/docs/readme.md"},
		{`\\server\share\note.md`, "//server/share/note.md"},
		{"/home/User/Readme.md", "/home/User/Readme.md"},
		{"relative/path.md", "relative/path.md"},
	}
	for _, tt := range tests {
		if got := NormalizeForCompare(tt.in); got != tt.want {
			t.Errorf("NormalizeForCompare(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsMarkdownPath(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"/docs/readme.md", true},
		{"/docs/readme.markdown", true},
		{"/docs/readme.mdown", true},
		{"/docs/readme.mkd", true},
		{"/docs/readme.mkdn", true},
		{"/docs/README.MD", true},
		{"/docs/readme.md#section", true},
		{"/docs/readme.md?query=1", true},
		{"/docs/readme.txt", false},
		{"/docs/readme", false},
		{"/docs/readme.txt#note.md", false},
	}
	for _, tt := range tests {
		if got := IsMarkdownPath(tt.in); got != tt.want {
			t.Errorf("IsMarkdownPath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFileURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/home/user/readme.md", "file:///home/user/readme.md"},
		{`C:\Docs\readme.md`, "file:///C:/Docs/readme.md"},
		{`\\server\share\note.md`, "file://server/share/note.md"},
		{"/docs/with space.md", "file:///docs/with%20space.md"},
	}
	for _, tt := range tests {
		if got := FileURL(tt.in); got != tt.want {
			t.Errorf("FileURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDirectoryFileURL(t *testing.T) {
	got := DirectoryFileURL("/docs/sub/readme.md")
	if got != "file:///docs/sub/" {
		t.Errorf("DirectoryFileURL = %q", got)
	}
}

func TestFromFileURLRoundTrip(t *testing.T) {
	paths := []string{
		"/home/user/readme.md",
		`C:\Docs\readme.md`,
		`\\server\share\note.md`,
		"/docs/with space.md",
	}
	for _, p := range paths {
		u, err := url.Parse(FileURL(p))
		if err != nil {
			t.Fatalf("parse %q: %v", p, err)
		}
		got := FromFileURL(u)
		if NormalizeForCompare(got) != NormalizeForCompare(p) {
			t.Errorf("round trip %q -> %q", p, got)
		}
	}
}

func TestWithoutFragment(t *testing.T) {
	if got := WithoutFragment("file:///a.md#intro"); got != "file:///a.md" {
		t.Errorf("WithoutFragment = %q", got)
	}
	if got := WithoutFragment("file:///a.md"); got != "file:///a.md" {
		t.Errorf("WithoutFragment without fragment = %q", got)
	}
}

func TestStemTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/docs/my_great-note.md", "my great note"},
		{"/docs/readme.md", "readme"},
		{"/docs/.md", "Markdown"},
	}
	for _, tt := range tests {
		if got := StemTitle(tt.in); got != tt.want {
			t.Errorf("StemTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
