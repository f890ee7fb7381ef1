// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LinkConfig holds the values needed to resolve references into links.
// It is resolved once per run and never mutated afterwards.
type LinkConfig struct {
	// ServerURL is the base URL of the GitLab instance
	// (e.g. "https://gitlab.example"). Used verbatim.
	ServerURL string `json:"server_url" yaml:"server_url"`

	// CurrentProject is the project assumed when a reference omits one.
	CurrentProject string `json:"current_project" yaml:"current_project"`

	// CurrentNamespace is the namespace assumed when a reference omits one.
	CurrentNamespace string `json:"current_namespace" yaml:"current_namespace"`

	// NestedSkipZones tracks skip zones by depth so a link nested in a
	// heading does not end the heading's zone early. Off by default to
	// keep single-flag behaviour.
	NestedSkipZones bool `json:"nested_skip_zones" yaml:"nested_skip_zones"`

	// ProtectBareURLs parses bare URLs as autolinks so fragments such as
	// "issues#12" inside a URL are not rewritten.
	ProtectBareURLs bool `json:"protect_bare_urls" yaml:"protect_bare_urls"`
}

// BatchConfig holds settings for rewriting markdown files on disk.
type BatchConfig struct {
	// OutputDir receives rewritten files, mirroring paths relative to
	// each input root. Empty rewrites files in place.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ReportPath is where the YAML reference report is written. Empty
	// disables the report.
	ReportPath string `json:"report_path" yaml:"report_path"`
}

// IndexConfig holds settings for the reference index.
type IndexConfig struct {
	// DBDir is the directory holding refs.db and export.yaml.
	DBDir string `json:"db_dir" yaml:"db_dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
