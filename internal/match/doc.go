// Package match suggests the closest known word for a misspelled one.
// It backs the "did you mean" hints attached to unknown directives and
// configuration keys.
package match
