package incremental

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/fsutil"
	"git.home.luguber.info/inful/pagesmith/internal/model"
)

// StateFilename is the build state kept in the output root between runs.
const StateFilename = ".pagesmith-state.json"

// State records what the previous build rendered into site-wide lists and
// which output each source produced. Per-document timestamps cannot tell
// that the navigation or the recent-post list changed, so the builder
// compares digests across runs.
type State struct {
	NavDigest    string `json:"nav_digest"`
	RecentDigest string `json:"recent_digest"`
	// Outputs maps a source path to the file generated from it.
	Outputs map[string]Output `json:"outputs"`
}

// Output is a generated file and the kind of document behind it.
type Output struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// LinksDigest returns a stable hash of a link list. Any change to a title,
// subtitle, URL, date, author or the order changes the digest.
func LinksDigest(links []model.Link) string {
	h := sha256.New()
	for _, l := range links {
		for _, field := range []string{l.Title, l.Subtitle, l.URL, l.PublishedDate.UTC().Format(time.RFC3339), l.Author} {
			h.Write([]byte(field))
			h.Write([]byte{0})
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// LoadState reads the state at path. A missing file yields nil and no error.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ferrors.FileSystemError("failed to read build state").WithCause(err).WithContext("path", path).Build()
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, ferrors.FileSystemError("failed to decode build state").WithCause(err).WithContext("path", path).Build()
	}
	return &st, nil
}

// SaveState writes st to path atomically.
func SaveState(path string, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return ferrors.InternalError("failed to encode build state").WithCause(err).Build()
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return ferrors.FileSystemError("failed to write build state").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
