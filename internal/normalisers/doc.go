// Package normalisers provides implementations of the Normaliser interface
// for the supported upload formats. Each normaliser knows how to extract
// text from one family of file extensions.
//
// Normalisers are registered with the Registry at startup. The Registry is
// the text extractor used by uploads: it dispatches on extension, sanitises
// the result and rejects empty extractions.
package normalisers
