// Package aianalysis asks the external AI service to describe a clip and
// turn that description into vocabulary-checked tags, a key, and a name.
//
// Errors are returned to the caller untouched by any fallback logic; the
// analysis orchestrator decides how to degrade.
package aianalysis
