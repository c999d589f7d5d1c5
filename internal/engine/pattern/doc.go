// Package pattern defines correction rules and compiles them into the
// regular expressions and replacement templates used by the parser and
// line breaker.
//
// A Table is an ordered list of Pattern records. Order is the application
// order for corrections and the tie-break priority for line-break points.
// Disabled patterns are dropped before compilation.
//
// Pattern sources use RE2 syntax as accepted by regexp, with two additions
// so that pattern files written for backtracking engines keep working:
// \Z is read as \z, and with the Unicode flag the word and digit classes
// match Unicode letters and digits. Replacement templates reference groups
// with \1, \g<1> or \g<name>; a dollar sign is literal.
package pattern
