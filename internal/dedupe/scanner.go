// Package dedupe groups visually near-duplicate images into similarity
// clusters. Hashing is parallel; clustering is sequential and greedy, so the
// output is fully deterministic for a fixed candidate order and threshold.
package dedupe

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/kozaktomas/photo-dedupe/internal/cache"
	"github.com/kozaktomas/photo-dedupe/internal/fingerprint"
	"github.com/kozaktomas/photo-dedupe/internal/loader"
)

// ErrInvalidThreshold is returned when the configured threshold is outside
// [0, 100]. The scan is rejected before any work starts.
var ErrInvalidThreshold = errors.New("similarity threshold must be between 0 and 100")

// Scanner drives similarity scans. It owns no I/O: image decoding goes through
// the injected Loader, and the optional cache store lets rescans skip files
// that have not changed on disk.
type Scanner struct {
	loader loader.Loader
	store  cache.Store // nil disables caching
}

// New creates a scanner. store may be nil.
func New(l loader.Loader, store cache.Store) *Scanner {
	return &Scanner{loader: l, store: store}
}

// scanState is the per-invocation progress state. It is private to one Scan
// call, so concurrent scans on the same Scanner do not interfere.
type scanState struct {
	mu          sync.Mutex
	total       int
	processed   int
	groupsFound int
	onProgress  func(Progress)
}

func (st *scanState) imageHashed(path string) {
	st.mu.Lock()
	st.processed++
	snapshot := Progress{Total: st.total, Processed: st.processed, GroupsFound: st.groupsFound, CurrentFile: path}
	st.mu.Unlock()
	if st.onProgress != nil {
		st.onProgress(snapshot)
	}
}

func (st *scanState) groupPublished(seedPath string) {
	st.mu.Lock()
	st.groupsFound++
	snapshot := Progress{Total: st.total, Processed: st.processed, GroupsFound: st.groupsFound, CurrentFile: seedPath}
	st.mu.Unlock()
	if st.onProgress != nil {
		st.onProgress(snapshot)
	}
}

// Scan hashes every source and clusters the results into similarity groups.
// Sources that fail to decode are dropped. On cancellation the scan fails with
// the context's error and no partial results are returned. Fewer than two
// hashable images yield an empty group list.
func (s *Scanner) Scan(ctx context.Context, sources []ImageSource, opts Options) ([]SimilarityGroup, error) {
	if opts.Threshold < 0 || opts.Threshold > 100 {
		return nil, ErrInvalidThreshold
	}

	state := &scanState{total: len(sources), onProgress: opts.OnProgress}
	hashes, err := s.hashAll(ctx, sources, opts, state)
	if err != nil {
		return nil, err
	}

	if len(hashes) < 2 {
		return []SimilarityGroup{}, nil
	}

	return clusterHashes(ctx, hashes, opts.Threshold, state)
}

// Hashes runs only the hashing phase, preserving candidate order and dropping
// sources that fail to decode. Used by Scan and by callers that index hashes
// directly (e.g. the search command).
func (s *Scanner) Hashes(ctx context.Context, sources []ImageSource, opts Options) ([]ImageHash, error) {
	state := &scanState{total: len(sources), onProgress: opts.OnProgress}
	return s.hashAll(ctx, sources, opts, state)
}

func (s *Scanner) hashAll(ctx context.Context, sources []ImageSource, opts Options, state *scanState) ([]ImageHash, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Workers write into their own slot so the compacted result keeps the
	// original candidate order regardless of scheduling.
	slots := make([]*ImageHash, len(sources))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

dispatch:
	for i := range sources {
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			hash, err := s.hashOne(sources[idx])
			if err != nil {
				// Decode failures are non-fatal: the source is excluded from
				// the candidate set entirely.
				return
			}
			slots[idx] = hash
			state.imageHashed(hash.Path)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	hashes := make([]ImageHash, 0, len(sources))
	for _, h := range slots {
		if h != nil {
			hashes = append(hashes, *h)
		}
	}
	return hashes, nil
}

func (s *Scanner) hashOne(src ImageSource) (*ImageHash, error) {
	if s.store != nil && !src.ModTime.IsZero() {
		if entry, ok, err := s.store.Get(src.Path, src.ModTime); err == nil && ok {
			return &ImageHash{
				Path:     src.Path,
				Size:     src.Size,
				Width:    entry.Width,
				Height:   entry.Height,
				PHash:    entry.PHash,
				DHash:    entry.DHash,
				PHashHex: fingerprint.FormatHash(entry.PHash),
				DHashHex: fingerprint.FormatHash(entry.DHash),
			}, nil
		}
	}

	img, err := s.loader.Load(src.Path)
	if err != nil {
		return nil, err
	}

	result, err := fingerprint.ComputeHashes(img)
	if err != nil {
		return nil, err
	}

	if s.store != nil && !src.ModTime.IsZero() {
		// Cache write failures only cost a recompute on the next scan.
		_ = s.store.Put(src.Path, src.ModTime, cache.Entry{
			PHash:  result.PHashBits,
			DHash:  result.DHashBits,
			Width:  result.Width,
			Height: result.Height,
		})
	}

	return &ImageHash{
		Path:     src.Path,
		Size:     src.Size,
		Width:    result.Width,
		Height:   result.Height,
		PHash:    result.PHashBits,
		DHash:    result.DHashBits,
		PHashHex: result.PHash,
		DHashHex: result.DHash,
	}, nil
}

// clusterHashes is the sequential greedy single-link pass. Each unconsumed
// hash seeds a group and pulls in every later unconsumed hash whose blended
// similarity reaches the threshold. Seeds are consumed after their pass
// whether or not a group was published, so an image never appears in more
// than one group.
func clusterHashes(ctx context.Context, hashes []ImageHash, threshold int, state *scanState) ([]SimilarityGroup, error) {
	consumed := make([]bool, len(hashes))
	groups := []SimilarityGroup{}

	for i := range hashes {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan cancelled: %w", err)
		}
		if consumed[i] {
			continue
		}

		seed := &hashes[i]
		members := []GroupMember{newMember(seed, 100)}

		for j := i + 1; j < len(hashes); j++ {
			if consumed[j] {
				continue
			}
			other := &hashes[j]
			score := fingerprint.BlendedSimilarity(seed.PHash, seed.DHash, other.PHash, other.DHash)
			if score >= float64(threshold) {
				members = append(members, newMember(other, score))
				consumed[j] = true
			}
		}
		consumed[i] = true

		// A lone seed never becomes a published group.
		if len(members) < 2 {
			continue
		}

		sortMembers(members)
		groups = append(groups, SimilarityGroup{
			ReferenceHash: seed.PHashHex,
			Members:       members,
		})
		state.groupPublished(seed.Path)
	}

	return groups, nil
}

func newMember(h *ImageHash, similarity float64) GroupMember {
	return GroupMember{
		Path:       h.Path,
		Hash:       h.PHashHex,
		Similarity: similarity,
		Size:       h.Size,
		Width:      h.Width,
		Height:     h.Height,
	}
}

// sortMembers orders by similarity descending, then file size descending.
// The stable sort keeps insertion order for full ties, so the result is
// deterministic.
func sortMembers(members []GroupMember) {
	sort.SliceStable(members, func(a, b int) bool {
		if members[a].Similarity != members[b].Similarity {
			return members[a].Similarity > members[b].Similarity
		}
		return members[a].Size > members[b].Size
	})
}
