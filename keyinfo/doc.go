// Package keyinfo turns the engine's configuration key descriptors into typed
// Go values.
//
// Each descriptor carries a name, a kind tag, a default in textual form and a
// description. Decode resolves the current value of every key through a
// Source, falling back to the descriptor default, and converts it according to
// the key's kind:
//
//	string   verbatim
//	integer  base-10
//	boolean  true when the text equals "true" ignoring case
//	list     split on whitespace
//
// Descriptors with a kind tag this package does not know are skipped. Such
// keys do not appear in Decode results or in Speller.ConfigKeys, so a newer
// engine may have options callers cannot see here; every skip is logged at
// debug level with the key name and tag.
package keyinfo
