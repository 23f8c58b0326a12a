package content

import (
	"time"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
	"git.home.luguber.info/inful/pagesmith/internal/incremental"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/model"
)

// gate fills the document's Update and Stamp flags. A declared
// lastmodified that cannot be parsed is logged and treated as absent.
func (p *Processor) gate(doc *model.Document, fields *frontmatter.Fields, sourceWrite, published time.Time) error {
	in := incremental.Inputs{SourceLastWrite: sourceWrite, PublishDate: published}
	if fields != nil {
		if raw, ok := fields.Lookup(incremental.LastModifiedKey); ok {
			declared, err := incremental.ParseLastModified(raw)
			if err != nil {
				p.logger.Warn("Ignoring invalid lastmodified", logfields.Path(doc.SourcePath), logfields.Error(err))
			} else {
				in.DeclaredLastModified = declared
			}
		}
	}

	var err error
	in.OutputLastWrite, in.OutputExists, err = incremental.StatOutput(doc.OutputPath)
	if err != nil {
		return ferrors.FileSystemError("failed to stat output").WithCause(err).WithContext("path", doc.OutputPath).Build()
	}

	decision := incremental.Evaluate(in)
	doc.Update = decision.Rebuild
	// Templates carry no front matter to stamp.
	doc.Stamp = decision.StampRequired && fields != nil
	doc.LastModified = in.Effective()
	return nil
}
