package site

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/model"
)

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.md"), "")
	touch(t, filepath.Join(root, "a.MD"), "")
	touch(t, filepath.Join(root, "nested", "c.tmpl"), "")
	touch(t, filepath.Join(root, "nested", "skip.txt"), "")
	touch(t, filepath.Join(root, ".hidden", "d.md"), "")
	touch(t, filepath.Join(root, ".e.md"), "")

	files, err := Discover(root, ".md", ".tmpl")
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "a.MD"),
		filepath.Join(root, "b.md"),
		filepath.Join(root, "nested", "c.tmpl"),
	}, files)

	files, err = Discover(filepath.Join(root, "missing"), ".md")
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestWriter_WritesAtomically(t *testing.T) {
	w := NewWriter()
	path := filepath.Join(t.TempDir(), "post", "2024", "1", "15", "hello.html")

	require.NoError(t, w.Write(path, []byte("<p>one</p>")))
	require.NoError(t, w.Write(path, []byte("<p>two</p>")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<p>two</p>", string(data))

	require.NoError(t, w.Remove(path))
	require.NoError(t, w.Remove(path))
	require.NoFileExists(t, path)
}

func TestWriter_SerializesSamePath(t *testing.T) {
	w := NewWriter()
	var inside, maxInside atomic.Int32

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := w.Lock("same")
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), maxInside.Load())
	require.Empty(t, w.locks)
}

func TestWriter_DistinctPathsRunConcurrently(t *testing.T) {
	w := NewWriter()
	unlockA := w.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := w.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a distinct path blocked")
	}
}

func TestWriter_ConcurrentWritesLeaveOneVersion(t *testing.T) {
	w := NewWriter()
	path := filepath.Join(t.TempDir(), "index.html")

	errs := make(chan error, 8)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- w.Write(path, []byte(fmt.Sprintf("version-%d", i)))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Regexp(t, `^version-\d$`, string(data))
}

func TestNavLinks(t *testing.T) {
	page := func(title, url string, order int) *model.Page {
		return &model.Page{Document: model.Document{Title: title, URLPath: url}, NavOrder: order}
	}
	links := NavLinks([]*model.Page{
		page("Home", "/", 0),
		page("Contact", "/contact", 2),
		page("About", "/about", 2),
		page("Blog", "/blog", 1),
		nil,
	})

	require.Equal(t, []model.Link{
		{Title: "Blog", URL: "/blog"},
		{Title: "About", URL: "/about"},
		{Title: "Contact", URL: "/contact"},
	}, links)
}

func TestPostLinks(t *testing.T) {
	post := func(title string, day int) *model.Post {
		return &model.Post{
			Document:      model.Document{Title: title, URLPath: "/" + title},
			PublishedDate: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		}
	}
	links := PostLinks([]*model.Post{post("old", 1), post("new", 20), post("b-mid", 10), post("a-mid", 10)})

	titles := make([]string, 0, len(links))
	for _, l := range links {
		titles = append(titles, l.Title)
	}
	require.Equal(t, []string{"new", "a-mid", "b-mid", "old"}, titles)
}

func TestCopyAssets(t *testing.T) {
	src := filepath.Join(t.TempDir(), "static")
	dst := filepath.Join(t.TempDir(), "out")
	touch(t, filepath.Join(src, "css", "site.css"), "body{}")
	touch(t, filepath.Join(src, "favicon.ico"), "ico")

	n, err := CopyAssets(src, dst)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(dst, "css", "site.css"))
	require.NoError(t, err)
	require.Equal(t, "body{}", string(data))

	n, err = CopyAssets(src, dst)
	require.NoError(t, err)
	require.Equal(t, 0, n, "unchanged assets are skipped")

	n, err = CopyAssets(filepath.Join(t.TempDir(), "none"), dst)
	require.NoError(t, err)
	require.Zero(t, n)
}
