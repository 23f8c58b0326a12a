package commands

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		env     string
		verbose bool
		want    slog.Level
	}{
		{"", false, slog.LevelInfo},
		{"", true, slog.LevelDebug},
		{"warn", true, slog.LevelWarn},
		{"ERROR", false, slog.LevelError},
		{"debug", false, slog.LevelDebug},
		{"bogus", false, slog.LevelInfo},
	}
	for _, tc := range cases {
		t.Setenv(LogLevelEnv, tc.env)
		require.Equal(t, tc.want, parseLogLevel(tc.verbose), "env=%q verbose=%v", tc.env, tc.verbose)
	}
}

func TestCLIParses(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Bind(&Global{}))
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"-c", "site.yaml", "build", "--dry-run", "--metrics-file", "m.prom", "--strict"})
	require.NoError(t, err)
	require.Equal(t, "build", kctx.Command())
	require.True(t, cli.Build.DryRun)
	require.True(t, cli.Build.Strict)
	require.True(t, filepath.IsAbs(cli.Config))

	kctx, err = parser.Parse([]string{"history", "--limit", "3", "abc"})
	require.NoError(t, err)
	require.Equal(t, "history <build-id>", kctx.Command())
	require.Equal(t, 3, cli.History.Limit)
	require.Equal(t, "abc", cli.History.BuildID)

	_, err = parser.Parse([]string{"watch", "--interval", "5m"})
	require.NoError(t, err)
	require.Equal(t, "5m0s", cli.Watch.Interval.String())
}

type project struct {
	dir    string
	config string
}

func newProject(t *testing.T) project {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"pagesmith.yaml":             "site:\n  title: Test Site\n",
		"posts/2024-05-01-launch.md": "---\ntitle: Launch\n---\nWe are live.\n",
		"pages/index.md":             "---\ntitle: Home\n---\nHello.\n",
		"pages/Bad.tmpl":             "@page \"/bad\"\n<p>@Unknown</p>\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return project{dir: dir, config: filepath.Join(dir, "pagesmith.yaml")}
}

func testGlobal() (*Global, *bytes.Buffer) {
	var out bytes.Buffer
	return &Global{Out: &out, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))}, &out
}

func TestBuildCommand(t *testing.T) {
	p := newProject(t)
	g, out := testGlobal()
	metricsFile := filepath.Join(p.dir, "out.prom")
	historyDB := filepath.Join(p.dir, "history.db")

	cmd := &BuildCmd{MetricsFile: metricsFile, History: historyDB}
	require.NoError(t, cmd.Run(g, &CLI{Config: p.config}))

	require.Contains(t, out.String(), ": partial in ")
	require.Contains(t, out.String(), "FAILED "+filepath.Join(p.dir, "pages", "Bad.tmpl")+" [compilation]")
	require.FileExists(t, filepath.Join(p.dir, "public", "index.html"))
	require.FileExists(t, filepath.Join(p.dir, "public", "post", "2024", "5", "1", "launch.html"))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), "pagesmith_build_outcomes_total")

	out.Reset()
	hist := &HistoryCmd{Limit: 5, History: historyDB}
	require.NoError(t, hist.Run(g, &CLI{Config: p.config}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "BUILD"))
	require.Contains(t, lines[1], "partial")

	buildID := strings.Fields(lines[1])[0]
	out.Reset()
	hist.BuildID = buildID
	require.NoError(t, hist.Run(g, &CLI{Config: p.config}))
	require.Contains(t, out.String(), "Bad.tmpl")
	require.Contains(t, out.String(), "failed")
}

func TestBuildCommandStrict(t *testing.T) {
	p := newProject(t)
	g, _ := testGlobal()

	err := (&BuildCmd{Strict: true}).Run(g, &CLI{Config: p.config})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryRuntime))
}

func TestBuildCommandConfigError(t *testing.T) {
	g, _ := testGlobal()
	err := (&BuildCmd{}).Run(g, &CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestHistoryRequiresConfiguration(t *testing.T) {
	p := newProject(t)
	g, _ := testGlobal()
	err := (&HistoryCmd{Limit: 5}).Run(g, &CLI{Config: p.config})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}
