// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the link configuration once per run from an
// environment override and a key-value table.
package config

import (
	"github.com/spf13/cast"

	"github.com/pdiddy/gitlab-link/pkg/types"
)

// Environment variables that override the table. GitLab CI sets all three.
const (
	EnvServerURL        = "CI_SERVER_URL"
	EnvProjectName      = "CI_PROJECT_NAME"
	EnvProjectNamespace = "CI_PROJECT_NAMESPACE"
)

// Table keys, as written under [preprocessor.gitlab-link] in book.toml or
// at the top level of the config file.
const (
	KeyServerURL        = "gitlab-server-url"
	KeyProjectName      = "gitlab-project-name"
	KeyProjectNamespace = "gitlab-project-namespace"
	KeyNestedSkipZones  = "nested-skip-zones"
	KeyProtectBareURLs  = "protect-bare-urls"
)

// Keys lists every table key Resolve reads.
var Keys = []string{
	KeyServerURL,
	KeyProjectName,
	KeyProjectNamespace,
	KeyNestedSkipZones,
	KeyProtectBareURLs,
}

// IsKey reports whether name is one of Keys.
func IsKey(name string) bool {
	for _, k := range Keys {
		if k == name {
			return true
		}
	}
	return false
}

// LookupFunc reports the value of an environment variable and whether it
// is set. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Resolve builds the link configuration. For each string field a non-empty
// environment value wins, then a string value from table, then "".
// Either source may be nil.
func Resolve(env LookupFunc, table map[string]any) types.LinkConfig {
	return types.LinkConfig{
		ServerURL:        lookup(env, EnvServerURL, table, KeyServerURL),
		CurrentProject:   lookup(env, EnvProjectName, table, KeyProjectName),
		CurrentNamespace: lookup(env, EnvProjectNamespace, table, KeyProjectNamespace),
		NestedSkipZones:  cast.ToBool(table[KeyNestedSkipZones]),
		ProtectBareURLs:  cast.ToBool(table[KeyProtectBareURLs]),
	}
}

func lookup(env LookupFunc, envKey string, table map[string]any, key string) string {
	if env != nil {
		if v, ok := env(envKey); ok && v != "" {
			return v
		}
	}
	if s, ok := table[key].(string); ok {
		return s
	}
	return ""
}

// Merge overlays tables left to right; later tables win key by key. Nil
// tables are ignored.
func Merge(tables ...map[string]any) map[string]any {
	merged := make(map[string]any)
	for _, t := range tables {
		for k, v := range t {
			merged[k] = v
		}
	}
	return merged
}

// FromStrings converts a string map, such as the one values.Load returns,
// into a table.
func FromStrings(m map[string]string) map[string]any {
	table := make(map[string]any, len(m))
	for k, v := range m {
		table[k] = v
	}
	return table
}
