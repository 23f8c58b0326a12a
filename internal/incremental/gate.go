// Package incremental decides whether a document's output is stale and
// records modification times back into source front matter.
package incremental

import (
	"errors"
	"io/fs"
	"os"
	"time"
)

// Inputs are the timestamps the gate compares.
type Inputs struct {
	SourceLastWrite time.Time
	// DeclaredLastModified is the front matter lastmodified value; zero when absent.
	DeclaredLastModified time.Time
	// PublishDate is the post date; zero for pages.
	PublishDate     time.Time
	OutputLastWrite time.Time
	OutputExists    bool
}

// Decision is the gate's verdict for one document.
type Decision struct {
	Rebuild bool
	// StampRequired is set when the rebuilt source should get a fresh
	// lastmodified value because the declared one is missing or older than
	// the file itself.
	StampRequired bool
}

// Effective returns the latest of the source write time and the declared
// modification time.
func (in Inputs) Effective() time.Time {
	return latest(in.SourceLastWrite, in.DeclaredLastModified)
}

// Evaluate compares the inputs. It is pure: the same inputs always yield
// the same decision.
func Evaluate(in Inputs) Decision {
	rebuild := !in.OutputExists ||
		in.OutputLastWrite.Before(latest(in.Effective(), in.PublishDate))
	if !rebuild {
		return Decision{}
	}
	return Decision{
		Rebuild: true,
		StampRequired: in.DeclaredLastModified.IsZero() ||
			in.DeclaredLastModified.Before(in.SourceLastWrite),
	}
}

// StatOutput reports the last write time of an output file and whether it
// exists. Errors other than non-existence are returned.
func StatOutput(path string) (time.Time, bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return info.ModTime(), true, nil
}

func latest(times ...time.Time) time.Time {
	var out time.Time
	for _, t := range times {
		if t.After(out) {
			out = t
		}
	}
	return out
}
