package youtube

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeTool writes an executable shell script standing in for yt-dlp.
func fakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub tool script requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "yt-dlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

const happyScript = `
if [ "$1" = "-J" ]; then
  printf '{"title":"Fake Song"}'
  exit 0
fi
while [ $# -gt 1 ]; do
  if [ "$1" = "-o" ]; then
    dir=$(dirname "$2")
    : > "$dir/Fake Song.mp3"
    exit 0
  fi
  shift
done
exit 1
`

func TestAcquireResolvesProducedFile(t *testing.T) {
	t.Parallel()

	d := NewDownloader(nil)
	d.binary = fakeTool(t, happyScript)
	out := t.TempDir()

	res, err := d.Acquire(context.Background(), "https://youtu.be/abc", out)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if res.Title != "Fake Song" {
		t.Fatalf("title = %q, want %q", res.Title, "Fake Song")
	}
	if want := filepath.Join(out, "Fake Song.mp3"); res.Path != want {
		t.Fatalf("path = %q, want %q", res.Path, want)
	}
}

func TestAcquireSurfacesToolErrorVerbatim(t *testing.T) {
	t.Parallel()

	d := NewDownloader(nil)
	d.binary = fakeTool(t, `echo "ERROR: Video unavailable" >&2; exit 1`)

	_, err := d.Acquire(context.Background(), "https://youtu.be/abc", t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "ERROR: Video unavailable") {
		t.Fatalf("error %q should carry the tool's own message", err)
	}
}

func TestAcquireFailsWhenToolWritesNothing(t *testing.T) {
	t.Parallel()

	// Tool claims success but produces no file: an explicit inconsistency
	// the caller must see as a failed acquisition.
	d := NewDownloader(nil)
	d.binary = fakeTool(t, `
if [ "$1" = "-J" ]; then printf '{"title":"Ghost"}'; fi
exit 0
`)

	_, err := d.Acquire(context.Background(), "https://youtu.be/abc", t.TempDir())
	if err != ErrFileNotFound {
		t.Fatalf("got %v, want ErrFileNotFound", err)
	}
}
