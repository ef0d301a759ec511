package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/journalkeeper/internal/cryptox"
	"github.com/dmitrijs2005/journalkeeper/internal/dbx"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/journalkeeper/internal/textx"
)

// WordIndexService maintains the per-user encrypted inverted index that maps
// words to entries. Word values are stored encrypted with the user's key, so
// the index supports search without revealing vocabulary at rest.
type WordIndexService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
}

func NewWordIndexService(db dbx.DBTX, m repomanager.RepositoryManager) *WordIndexService {
	return &WordIndexService{db: db, repomanager: m}
}

// SearchResult is one entry matched by a search query.
type SearchResult struct {
	EntryID string
	Matches int
}

// RebuildForEntry regenerates the index rows of one entry from its plaintext
// title and body. When clear is set (entry edits), existing rows are removed
// first; entry creation passes clear=false since no rows exist yet.
//
// Title words seed the count map with 0 so they are searchable without
// affecting word-count statistics; body occurrences set the actual count.
// Rows are inserted independently and a failure partway is returned but
// leaves earlier rows in place: the entry content is the source of truth and
// the next edit rebuilds the index fully.
func (s *WordIndexService) RebuildForEntry(ctx context.Context, db dbx.DBTX, auth *models.Auth,
	entryID, title, body string, entryIsDeleted, clear bool) error {

	repo := s.repomanager.Words(db)

	if clear {
		if err := repo.DeleteForEntry(ctx, auth.UserID, entryID); err != nil {
			return fmt.Errorf("error clearing word index: %w", err)
		}
	}

	countMap := map[string]int{}
	for _, word := range textx.WordsFromText(title) {
		// searchable, but does not count towards word count
		countMap[word] = 0
	}
	for _, word := range textx.WordsFromText(body) {
		countMap[word]++
	}

	for word, count := range countMap {
		wordEnc := cryptox.Encrypt(word, auth.Key)
		row := &models.WordIndexEntry{
			UserID:         auth.UserID,
			EntryID:        entryID,
			Word:           wordEnc,
			Count:          count,
			EntryIsDeleted: entryIsDeleted,
		}
		if err := repo.Insert(ctx, row); err != nil {
			return fmt.Errorf("error inserting word index row: %w", err)
		}
	}

	return nil
}

// Search tokenizes the query and returns the non-deleted entries containing
// every query word, ordered by total occurrence count descending. A row that
// fails to decrypt aborts the whole search: it means the key is wrong and no
// partial answer would be trustworthy.
func (s *WordIndexService) Search(ctx context.Context, auth *models.Auth, query string) ([]SearchResult, error) {
	queryWords := textx.WordsFromText(query)
	if len(queryWords) == 0 {
		return nil, nil
	}

	repo := s.repomanager.Words(s.db)
	rows, err := repo.SelectActive(ctx, auth.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading word index: %w", err)
	}

	wanted := make(map[string]bool, len(queryWords))
	for _, w := range queryWords {
		wanted[w] = true
	}

	// per entry: which query words were seen and the summed counts
	seen := map[string]map[string]bool{}
	counts := map[string]int{}
	for _, row := range rows {
		word, err := cryptox.Decrypt(row.Word, auth.Key)
		if err != nil {
			return nil, fmt.Errorf("error decrypting word index row: %w", err)
		}
		if !wanted[word] {
			continue
		}
		if seen[row.EntryID] == nil {
			seen[row.EntryID] = map[string]bool{}
		}
		seen[row.EntryID][word] = true
		counts[row.EntryID] += row.Count
	}

	var results []SearchResult
	for entryID, words := range seen {
		if len(words) < len(wanted) {
			continue
		}
		results = append(results, SearchResult{EntryID: entryID, Matches: counts[entryID]})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Matches != results[j].Matches {
			return results[i].Matches > results[j].Matches
		}
		return results[i].EntryID < results[j].EntryID
	})

	return results, nil
}
