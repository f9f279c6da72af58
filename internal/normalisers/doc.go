// Package normalisers provides implementations of the Normaliser interface
// for the file formats attached to catalogue records. Each normaliser knows
// how to extract text content from a specific MIME type.
//
// Normalisers are registered with the Registry at startup.
package normalisers
