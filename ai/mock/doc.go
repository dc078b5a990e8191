// Package mock provides a deterministic test double for the ai.Embedder
// interface. The default behavior derives a stable pseudo-random vector
// from the input text; tests can inject custom behavior (including
// failures) through function fields.
package mock
