// Package policy provides the admission policy deciding whether a video is
// eligible for storage and retrieval at all.
//
// The rule set is declared in a CUE document rather than hard-coded, so the
// policy can be swapped without touching store logic. A default document is
// embedded; deployments may point the config at their own.
package policy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"golang.org/x/text/unicode/norm"

	"github.com/reelvault/reelvault/internal/model"
)

//go:embed default_policy.cue
var defaultPolicyCUE []byte

// Admission decides whether a video may be stored or surfaced. It is applied
// symmetrically on read and write so durable storage and the in-memory view
// can never disagree about membership.
type Admission interface {
	Admit(v model.Video) bool
}

// Document is the decoded shape of the `admission` struct in a policy file.
type Document struct {
	// ReservedDescriptions lists placeholder descriptions denoting
	// scaffolding/test content. Matched exactly.
	ReservedDescriptions []string `json:"reservedDescriptions"`

	// ReservedArtists lists placeholder artist names denoting unattributed
	// content. Matched case-insensitively after NFC normalization.
	ReservedArtists []string `json:"reservedArtists"`
}

// Policy is the compiled form of a Document.
type Policy struct {
	descriptions map[string]struct{}
	artists      map[string]struct{}
}

// Default returns the policy compiled from the embedded document.
// Panics only if the embedded document is broken, which is a build defect.
func Default() *Policy {
	p, err := Compile(defaultPolicyCUE)
	if err != nil {
		panic(fmt.Sprintf("embedded policy document invalid: %v", err))
	}
	return p
}

// LoadFile compiles a policy from a CUE document on disk.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy document: %w", err)
	}
	p, err := Compile(data)
	if err != nil {
		return nil, fmt.Errorf("policy document %s: %w", path, err)
	}
	return p, nil
}

// Compile parses a CUE policy document and builds the admission predicate.
// Uses the CUE SDK's Go API directly (not CLI subprocess).
func Compile(data []byte) (*Policy, error) {
	ctx := cuecontext.New()

	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	adm := v.LookupPath(cue.ParsePath("admission"))
	if !adm.Exists() {
		return nil, fmt.Errorf("policy document: admission struct is required")
	}
	if err := adm.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var doc Document
	if err := adm.Decode(&doc); err != nil {
		return nil, formatCUEError(err)
	}

	return New(doc), nil
}

// New builds a policy from an already-decoded document.
func New(doc Document) *Policy {
	p := &Policy{
		descriptions: make(map[string]struct{}, len(doc.ReservedDescriptions)),
		artists:      make(map[string]struct{}, len(doc.ReservedArtists)),
	}
	for _, d := range doc.ReservedDescriptions {
		p.descriptions[d] = struct{}{}
	}
	for _, a := range doc.ReservedArtists {
		p.artists[foldName(a)] = struct{}{}
	}
	return p
}

// Admit reports whether the video is eligible for storage/retrieval.
// A video is rejected when its description equals any reserved description
// or its artist matches any reserved artist.
func (p *Policy) Admit(v model.Video) bool {
	if _, reserved := p.descriptions[v.Description]; reserved {
		return false
	}
	if _, reserved := p.artists[foldName(v.Artist)]; reserved {
		return false
	}
	return true
}

// foldName canonicalizes a user-entered name for comparison: NFC
// normalization first (composed and decomposed input must match the same
// reserved entry), then case folding.
func foldName(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// formatCUEError converts CUE's multi-error values into a single readable
// error preserving file positions.
func formatCUEError(err error) error {
	return fmt.Errorf("compile policy: %s", cueerrors.Details(err, nil))
}
