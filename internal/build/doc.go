// Package build runs a full site build: it discovers the post and page
// trees, processes documents concurrently, stamps sources whose front
// matter is stale, wraps each record in its layout and writes the output.
//
// All collaborators live in a Context constructed once per process. A
// Builder executes one run against it and reports per-document failures in
// its Result instead of aborting.
package build
