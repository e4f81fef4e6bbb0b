// Package parser turns raw SASM source text into a flat Program: a
// sequence of Instruction records plus the label, constant and extern
// tables the encoder and fixup engine consume. It owns everything up to
// but not including byte encoding, which lives in package encoder.
package parser
