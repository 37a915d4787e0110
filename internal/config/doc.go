// Package config reads the optional .validgen.yaml file.
//
// Every key is optional; command-line flags override file values.
//
//	version: "1"
//	raw_prefix: Unvalidated
//	method: Validate
//	receiver: raw
//	suffix: _validgen.go
//	default_error: error
//	strict: false
//	preflight: true
//	comments: true
//	build_tags: [integration]
package config
