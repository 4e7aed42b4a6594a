package evidence

import (
	"sort"

	"github.com/lexchat/lexchat/core"
	"github.com/lexchat/lexchat/transport"
)

// schemePriority orders scoring schemes from most to least post-processed.
// Ensemble and rerank outputs reflect more refinement than raw vector or
// keyword similarity, so they win when present.
var schemePriority = []core.Scheme{
	core.SchemeEnsemble,
	core.SchemeRerank,
	core.SchemeHybrid,
	core.SchemeSimilarity,
	core.SchemeVector,
	core.SchemeKeyword,
}

// Score is the single best-available relevance value chosen for an item,
// labeled with the scheme it came from.
type Score struct {
	Value  float64     `json:"value"`
	Scheme core.Scheme `json:"scheme"`
}

// Primary derives the primary score from a scheme mapping by taking the first
// scheme present in priority order. The second return is false when the item
// carries no score at all; absence must never be rendered as zero.
func Primary(scores map[core.Scheme]float64) (Score, bool) {
	for _, s := range schemePriority {
		if v, ok := scores[s]; ok {
			return Score{Value: v, Scheme: s}, true
		}
	}
	return Score{}, false
}

// RankedItem pairs an evidence item with its derived primary score. Primary
// is nil for items lacking every scheme; such items still render, with the
// score area left empty.
type RankedItem struct {
	core.EvidenceItem
	Primary *Score
}

// Rank derives primary scores and sorts items in descending primary order.
// Scoreless items sort last. The sort is stable, so items with equal primary
// scores (and all scoreless items) keep their input order.
func Rank(items []core.EvidenceItem) []RankedItem {
	ranked := make([]RankedItem, len(items))
	for i, item := range items {
		ranked[i] = RankedItem{EvidenceItem: item}
		if s, ok := Primary(item.Scores); ok {
			sc := s
			ranked[i].Primary = &sc
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		pa, pb := ranked[a].Primary, ranked[b].Primary
		switch {
		case pa == nil:
			return false
		case pb == nil:
			return true
		default:
			return pa.Value > pb.Value
		}
	})
	return ranked
}

// Reconcile normalizes the raw technical payload of a response into a
// display-ready core.EvidencePackage: per-scheme optional fields collapse
// into score mappings, item lists are ranked, and the used-in-answer flag and
// token accounting pass through unchanged. A nil payload yields nil.
func Reconcile(td *transport.TechnicalDetails) *core.EvidencePackage {
	if td == nil {
		return nil
	}

	pkg := &core.EvidencePackage{
		SearchMetadata: td.SearchMetadata,
		Results:        sortItems(resultsToItems(td.HybridResults)),
		UsedChunks:     sortItems(chunksToItems(td.UsedChunks)),
	}

	if len(td.WebResults) > 0 {
		pkg.WebResults = make([]core.WebResult, len(td.WebResults))
		for i, w := range td.WebResults {
			pkg.WebResults[i] = core.WebResult{Title: w.Title, Content: w.Content, URL: w.URL, Score: w.Score}
		}
	}
	if td.TokenUsage != nil {
		// Display-only; Total is not validated against Input+Output.
		pkg.TokenUsage = &core.TokenUsage{
			Input:  td.TokenUsage.Input,
			Output: td.TokenUsage.Output,
			Total:  td.TokenUsage.Total,
		}
	}
	return pkg
}

func resultsToItems(results []transport.SearchResult) []core.EvidenceItem {
	if len(results) == 0 {
		return nil
	}
	items := make([]core.EvidenceItem, len(results))
	for i, r := range results {
		scores := map[core.Scheme]float64{}
		putScore(scores, core.SchemeHybrid, r.HybridScore)
		putScore(scores, core.SchemeEnsemble, r.EnsembleScore)
		putScore(scores, core.SchemeVector, r.VectorScore)
		putScore(scores, core.SchemeKeyword, r.KeywordScore)
		items[i] = core.EvidenceItem{
			ID:      r.ID.String(),
			Content: r.Content,
			Scores:  scores,
			Origin:  r.Source,
		}
	}
	return items
}

func chunksToItems(chunks []transport.UsedChunk) []core.EvidenceItem {
	if len(chunks) == 0 {
		return nil
	}
	items := make([]core.EvidenceItem, len(chunks))
	for i, c := range chunks {
		scores := map[core.Scheme]float64{}
		putScore(scores, core.SchemeRerank, c.RerankScore)
		putScore(scores, core.SchemeSimilarity, c.Similarity)
		putScore(scores, core.SchemeHybrid, c.HybridScore)
		putScore(scores, core.SchemeEnsemble, c.EnsembleScore)
		putScore(scores, core.SchemeVector, c.VectorScore)
		putScore(scores, core.SchemeKeyword, c.KeywordScore)
		items[i] = core.EvidenceItem{
			ID:           c.ID.String(),
			Content:      c.Content,
			FullContent:  c.FullContent,
			Scores:       scores,
			Origin:       c.Source,
			UsedInAnswer: c.UsedInResponse,
		}
	}
	return items
}

// sortItems orders raw items by their derived primary score without losing
// the score mappings.
func sortItems(items []core.EvidenceItem) []core.EvidenceItem {
	if len(items) < 2 {
		return items
	}
	ranked := Rank(items)
	out := make([]core.EvidenceItem, len(ranked))
	for i, r := range ranked {
		out[i] = r.EvidenceItem
	}
	return out
}

func putScore(scores map[core.Scheme]float64, s core.Scheme, v *float64) {
	if v != nil {
		scores[s] = *v
	}
}
