// svar protects a secret, such as a seed phrase, with answers to security
// questions. Any threshold correct answers out of all questions recover the
// secret; fewer reveal nothing.
//
// Usage:
//
//	svar seal -a <answers.yaml> -t <threshold> -o <sealed.json>
//	svar open -i <sealed.json> [-a <answers.yaml>]
//	svar inspect -i <sealed.json> [--json]
//	svar version
//
// The answers file lists the questions and, optionally, their answers.
// Questions without an answer in the file are asked on the terminal. The
// secret is read from the SVAR_SECRET environment variable or asked twice
// on the terminal. When opening, questions may be left unanswered by
// entering an empty line; they count as wrong answers.
//
// Flags may also be set in a YAML config file (--config) or as SVAR_*
// environment variables, e.g. SVAR_THRESHOLD=4 or SVAR_SCHEME.
//
// Example:
// Seal a seed phrase under six questions, any four of which recover it:
//
// > SVAR_SECRET="zoo zoo zoo ... wrong" svar seal -a questions.yaml -t 4 -o sealed.json
//
// Recover it, answering the questions interactively:
//
// > svar open -i sealed.json
//
// Security questions alone are weak protection. Use svar as one factor of a
// multi-factor or multi-signature setup, never as the only one.
package main
