// Package token defines the address space shared by every loom component.
//
// A token address is a fixed-width hierarchical identifier: one namespace
// symbol plus four segment symbols, every symbol drawn from a 50-letter
// alphabet. Addresses are immutable values, totally ordered, and
// prefix-decomposable, which is what the prefix-compressed store relies on.
// The package also owns the closed tables that never change at runtime: the
// reserved structural markers, the punctuation table, and the total
// character namespace used for anomaly escapes.
//
// token imports nothing from the rest of the module; every other internal
// package may import token.
package token
