// Package evidence reconciles the heterogeneous relevance scores attached to
// retrieved passages into one coherent ranked view.
//
// The retrieval backend has grown several scoring strategies over time
// (vector, keyword, hybrid, ensemble, rerank, raw similarity) and attaches
// whichever subset it computed to each passage. This package derives a single
// primary score per item by trying schemes in a fixed "most post-processed
// wins" priority order, labels the chosen scheme for display, and sorts items
// by that score while keeping scoreless items visible at the end of the list.
package evidence
