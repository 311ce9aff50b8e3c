package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/csmtree/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name     string
		xdgCache string
		want     string
	}{
		{"xdg", "/tmp/xdg-cache", filepath.Join("/tmp/xdg-cache", "csmtree")},
		{"home fallback", "", filepath.Join(home, ".cache", "csmtree")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdgCache)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	got, err := config.DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-config", "csmtree", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestFileCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	for _, key := range []string{"CSMTREE_CACHE", "CSMTREE_CACHE_DIR", "CSMTREE_STORAGE"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()

	tests := []struct {
		name    string
		cache   string
		want    string
		wantErr bool
	}{
		{
			name:  "configured dir",
			cache: "[cache]\nbackend = \"file\"\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "curves")) + "\"\n",
			want:  filepath.Join(dir, "curves"),
		},
		{
			name:  "xdg default",
			cache: "[cache]\nbackend = \"file\"\n",
			want:  filepath.Join("/tmp/xdg-cache", "csmtree"),
		},
		{
			name:    "no local cache",
			cache:   "[cache]\nbackend = \"none\"\n",
			wantErr: true,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := filepath.Join(dir, "config"+string(rune('a'+i))+".toml")
			if err := os.WriteFile(cfgPath, []byte(tt.cache), 0o644); err != nil {
				t.Fatal(err)
			}
			c := New(os.Stderr, LogInfo)
			c.configPath = cfgPath

			got, err := c.fileCacheDir()
			if (err != nil) != tt.wantErr {
				t.Fatalf("fileCacheDir() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("fileCacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}
