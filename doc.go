// Package svar seals a secret under answers to security questions so that
// any threshold correct answers out of all questions recover it.
//
// Every combination of threshold questions gets its own encrypted package,
// keyed by the XOR of the entropies derived from the answers in that
// combination. Opening tries the packages whose answers are all known until
// one authenticates.
//
// The package keeps no state between calls. Importing it links
// github.com/awnumar/memguard for wiping, whose initialization disables core
// dumps for the whole process.
package svar
