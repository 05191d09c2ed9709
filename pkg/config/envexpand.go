package config

import "os"

// ExpandEnv expands environment variables in raw YAML bytes using the
// standard shell-style ${VAR} / $VAR syntax before the document is parsed.
//
// Missing variables expand to the empty string; struct-tag validation is
// what catches a required field left empty by a missing variable.
func ExpandEnv(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}
