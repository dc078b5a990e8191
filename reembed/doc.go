// Package reembed rebuilds the embeddings of accepted documents with the
// currently configured embedding model.
//
// Ranking tolerates vectors of mixed length, so a model upgrade does not
// break search, but scores across model generations are not comparable.
// Operators run a reembed pass after switching models to restore a uniform
// vector space. Documents are processed in batches on a worker pool, with
// retrying provider calls, vector normalization and progress reporting;
// every write goes through the same revision-checked update path as the
// review workflow.
package reembed
