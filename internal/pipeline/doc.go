// Package pipeline runs one validgen invocation: it loads packages,
// analyses the marked types of every file, emits one output file per
// source file and then writes, checks or prints the outputs.
//
// Nothing is written when any package reports an error.
package pipeline
