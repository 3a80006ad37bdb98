// Package value defines the data a compiled Yolol program reads and writes.
//
// A Value is either a Number or a String. Numbers are fixed point with
// three decimal places, stored as int64 thousandths, so arithmetic is exact
// and deterministic across platforms.
//
// Value is a closed variant. Code that needs to branch on the variant uses
// Match, which takes one handler per variant; adding a variant changes the
// signature of Match and every caller stops compiling until it handles it.
package value
