package ytdlp

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"mediarelay/internal/core/domain"
)

type fakeRunner struct {
	stdout []byte
	err    error

	gotBinary string
	gotArgs   []string
}

func (f *fakeRunner) Run(ctx context.Context, binary string, args []string) ([]byte, []byte, error) {
	f.gotBinary = binary
	f.gotArgs = args
	return f.stdout, nil, f.err
}

func TestExtractArgsInstagram(t *testing.T) {
	runner := &fakeRunner{stdout: []byte(`{"url": "https://cdn/v.mp4", "title": "post"}`)}
	e := New("", runner, "secret123")

	execCtx := domain.ExecutionContext{
		ProxyURL:        "http://u:p@proxy:8000",
		CookiesFilePath: "/tmp/cookies.txt",
	}
	out, err := e.Extract(context.Background(), "https://www.instagram.com/p/abc/", domain.PlatformInstagram, execCtx)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	want := []string{
		"--dump-single-json",
		"--skip-download",
		"--no-warnings",
		"--ignore-errors",
		"--proxy", "http://u:p@proxy:8000",
		"--cookies", "/tmp/cookies.txt",
		"--add-headers", "Cookie:sessionid=secret123",
		"https://www.instagram.com/p/abc/",
	}
	if !reflect.DeepEqual(runner.gotArgs, want) {
		t.Errorf("args = %v, want %v", runner.gotArgs, want)
	}
	if out.Title != "post" {
		t.Errorf("Title = %q, want 'post'", out.Title)
	}
	if !reflect.DeepEqual(out.MediaURLs, []string{"https://cdn/v.mp4"}) {
		t.Errorf("MediaURLs = %v", out.MediaURLs)
	}
}

func TestExtractNoSessionHeaderWithoutSecret(t *testing.T) {
	runner := &fakeRunner{stdout: []byte(`{}`)}
	e := New("", runner, "")

	if _, err := e.Extract(context.Background(), "https://www.instagram.com/p/abc/", domain.PlatformInstagram, domain.ExecutionContext{}); err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	for _, arg := range runner.gotArgs {
		if arg == "--add-headers" {
			t.Errorf("session header injected without a secret: %v", runner.gotArgs)
		}
	}
}

func TestExtractNoCookiesForTikTok(t *testing.T) {
	runner := &fakeRunner{stdout: []byte(`{}`)}
	e := New("", runner, "secret123")

	execCtx := domain.ExecutionContext{CookiesFilePath: "/tmp/cookies.txt"}
	if _, err := e.Extract(context.Background(), "https://www.tiktok.com/@u/video/1", domain.PlatformTikTok, execCtx); err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	for _, arg := range runner.gotArgs {
		if arg == "--cookies" || arg == "--add-headers" {
			t.Errorf("session state passed for tiktok: %v", runner.gotArgs)
		}
	}
}

func TestExtractParseError(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("ERROR: unsupported url")}
	e := New("", runner, "")

	_, err := e.Extract(context.Background(), "https://www.tiktok.com/@u/video/1", domain.PlatformTikTok, domain.ExecutionContext{})
	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("error = %v (%T), want *domain.ParseError", err, err)
	}
}

func TestExtractRunnerErrorPassthrough(t *testing.T) {
	wantErr := errors.New("yt-dlp timed out after 2m0s")
	runner := &fakeRunner{err: wantErr}
	e := New("", runner, "")

	_, err := e.Extract(context.Background(), "https://www.tiktok.com/@u/video/1", domain.PlatformTikTok, domain.ExecutionContext{})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want runner error passed through", err)
	}
}
