package search

import "github.com/arsipa/arsipa/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEmbedding(vector []float32)
	AfterCandidateFetch(candidates []*core.Document)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)         {}
func (n *noopMonitor) AfterCandidateFetch(_ []*core.Document)  {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)           {}
