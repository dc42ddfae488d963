// Package table provides the tabular backends behind the directory
// reader: a row-oriented records engine (the default) and a gota
// dataframe engine, both reachable only through the Table capability.
//
// File parsing is dispatched through an explicit (engine, extension)
// registry; asking for an unregistered pair fails with
// *UnsupportedFormatError instead of a generic error. Concatenation uses
// a relaxed-schema union: differing column sets are merged and absent
// cells filled with the empty marker.
package table
