package profile

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/tidwall/gjson"
)

// Options controls one extraction.
type Options struct {
	// Type is the provider type recorded on the profile.
	Type string
	// IDPath is the gjson path of the identifier, relative to the root.
	IDPath string
	// RootPath selects a sub-tree before anything is read. Empty means the
	// whole document.
	RootPath string
	// PrincipalOnly reads only the principal subset.
	PrincipalOnly bool
	// Credential is attached to the profile as is.
	Credential any
	// Common maps the common view onto attribute names.
	Common CommonFields
	// Logger receives conversion faults at debug level.
	Logger *slog.Logger
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Parse returns the document tree of body. It reports false for an empty
// body or one that is not valid JSON.
func Parse(body []byte) (gjson.Result, bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return gjson.Result{}, false
	}
	return gjson.ParseBytes(body), true
}

// Extract builds a profile from node. Each declared attribute is read by
// name, converted and stored. Missing attributes are skipped and malformed
// ones are logged and skipped, so extraction itself never fails.
func Extract(def *AttributesDefinition, node gjson.Result, opts Options) *UserProfile {
	log := opts.Logger
	if log == nil {
		log = discard
	}
	if opts.RootPath != "" {
		node = node.Get(opts.RootPath)
	}

	p := &UserProfile{
		typ:        opts.Type,
		credential: opts.Credential,
		attrs:      make(map[string]any),
		def:        def,
		common:     opts.Common,
	}
	if opts.IDPath != "" {
		p.id = node.Get(opts.IDPath).String()
	}

	names := def.all
	if opts.PrincipalOnly {
		names = def.principal
	}
	for _, name := range names {
		v, err := def.Convert(name, node.Get(name))
		if err != nil {
			log.Debug("dropping attribute",
				slog.String("provider", opts.Type),
				slog.String("attribute", name),
				slog.String("error", err.Error()))
			continue
		}
		if v != nil {
			p.attrs[name] = v
		}
	}
	return p
}
