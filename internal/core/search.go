package core

import (
	"context"
	"fmt"
	"strings"
)

// Search limits.
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
)

// SearchLang selects which search column a query matches.
type SearchLang string

const (
	LangKo  SearchLang = "ko"
	LangEn  SearchLang = "en"
	LangAny SearchLang = "any"
)

// SearchQuery is a substring search over the serving table.
// Nil Limit and Offset select the defaults.
type SearchQuery struct {
	Query  string     `json:"query"`
	Lang   SearchLang `json:"lang,omitempty"`
	Limit  *int       `json:"limit,omitempty"`
	Offset *int       `json:"offset,omitempty"`
}

type normalizedQuery struct {
	pattern string
	lang    SearchLang
	limit   int
	offset  int
}

// normalize trims the query, clamps limit to 1..MaxSearchLimit and floors
// offset at 0. Unknown languages search both columns.
func (q SearchQuery) normalize() (normalizedQuery, error) {
	text := strings.TrimSpace(q.Query)
	if text == "" {
		return normalizedQuery{}, ErrQueryRequired
	}

	n := normalizedQuery{
		pattern: "%" + strings.ToLower(text) + "%",
		lang:    LangAny,
		limit:   DefaultSearchLimit,
	}
	if q.Lang == LangKo || q.Lang == LangEn {
		n.lang = q.Lang
	}
	if q.Limit != nil {
		n.limit = min(max(*q.Limit, 1), MaxSearchLimit)
	}
	if q.Offset != nil {
		n.offset = max(*q.Offset, 0)
	}
	return n, nil
}

func searchSQL(lang SearchLang) string {
	var where string
	switch lang {
	case LangKo:
		where = "search_ko ILIKE $1"
	case LangEn:
		where = "search_en ILIKE $1"
	default:
		where = "(search_ko ILIKE $1 OR search_en ILIKE $1)"
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY id ASC LIMIT $2 OFFSET $3",
		columnList(), GenerationCurrent.Table(), where)
}

// Searcher reads address documents from the serving table.
type Searcher struct {
	db DBTX
}

// NewSearcher returns a searcher backed by db.
func NewSearcher(db DBTX) *Searcher {
	return &Searcher{db: db}
}

// Search returns documents whose search text contains q.Query, ordered by id.
func (s *Searcher) Search(ctx context.Context, q SearchQuery) ([]Document, error) {
	n, err := q.normalize()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, searchSQL(n.lang), n.pattern, n.limit, n.offset)
	if err != nil {
		return nil, fmt.Errorf("search addresses: %w", err)
	}
	defer rows.Close()

	docs := make([]Document, 0, n.limit)
	for rows.Next() {
		var d Document
		dest, apply := scanTargets(&d)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		apply()
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search addresses: %w", err)
	}
	return docs, nil
}
