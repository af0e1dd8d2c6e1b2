package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("read VERSION: %v", err)
	}

	if want := strings.TrimSpace(string(buf)); Version() != want {
		t.Errorf("Version() = %q, want %q", Version(), want)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Author = %v, missing ardnew", Author)
	}

	for i, a := range Author {
		if a.Name == "" && a.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/bin/smpl", "smpl"},
		{"/usr/bin/calc.exe", "calc"},
		{"/tmp/__debug_bin1234", Name},
		{"/tmp/__debug_bin", Name},
		{"/home/u/.hidden", "hidden"},
		{"/home/u/...", Name},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := prefixOf(tt.path); got != tt.want {
				t.Errorf("prefixOf(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestUserDir(t *testing.T) {
	base := t.TempDir()

	got := userDir(func() (string, error) { return base, nil }, ".config")
	if want := filepath.Join(base, Prefix()); got != want {
		t.Errorf("userDir() = %q, want %q", got, want)
	}

	got = userDir(func() (string, error) { return "", errors.New("no dir") }, ".cache")
	if filepath.Base(got) != Prefix() {
		t.Errorf("userDir() fallback = %q, want suffix %q", got, Prefix())
	}
}

func TestDirs(t *testing.T) {
	if filepath.Base(ConfigDir()) != Prefix() {
		t.Errorf("ConfigDir() = %q", ConfigDir())
	}

	if filepath.Base(CacheDir()) != Prefix() {
		t.Errorf("CacheDir() = %q", CacheDir())
	}
}
