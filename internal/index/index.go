// Package index holds documents in memory and answers substring
// queries against them, choosing between the brute-force, Rabin-Karp
// and bloom-gated matchers per request.
package index

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"github.com/rksearch/rksearch/internal/docfilter"
	"github.com/rksearch/rksearch/internal/match"
)

var (
	// ErrUnknownDocument is returned for docIDs never added.
	ErrUnknownDocument = errors.New("index: unknown document")

	// ErrUnknownMode is returned for search modes outside naive/rk/bloom.
	ErrUnknownMode = errors.New("index: unknown search mode")

	// ErrNoArchive is returned when an archive operation is requested
	// but no archive store is configured.
	ErrNoArchive = errors.New("index: no archive configured")
)

// Mode selects the matching strategy for one search.
type Mode string

const (
	ModeNaive Mode = "naive"
	ModeRK    Mode = "rk"
	ModeBloom Mode = "bloom"
)

// ParseMode maps a request string to a Mode. The empty string selects
// the bloom-gated path.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNaive, ModeRK, ModeBloom:
		return Mode(s), nil
	case "":
		return ModeBloom, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Catalog persists document metadata and search history.
type Catalog interface {
	CreateDocument(docID, name string, size int, fingerprint string) error
	LogSearch(docID, pattern, mode string, matchCount, firstIndex int) error
}

// Archive stores and retrieves document blobs by key.
type Archive interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Info describes one indexed document.
type Info struct {
	DocID       string `json:"docID"`
	Name        string `json:"name"`
	SizeBytes   int    `json:"sizeBytes"`
	Fingerprint string `json:"fingerprint"`
}

type document struct {
	id          string
	name        string
	data        []byte
	fingerprint uint64
	// filters caches one bloom filter per queried pattern length,
	// built on first use. Guarded by Service.mu: a filter is never
	// queried while another goroutine populates it.
	filters map[int]*docfilter.Filter
}

// Service is the search front end. Safe for concurrent use; each
// document's bytes are immutable once added.
type Service struct {
	mu      sync.Mutex
	docs    map[string]*document
	byPrint map[uint64]string

	catalog Catalog
	archive Archive // may be nil

	bloomBits   uint
	bloomHashes uint
}

// New constructs the service. archive may be nil, in which case
// archive-backed operations report ErrNoArchive.
func New(catalog Catalog, archive Archive, bloomBits, bloomHashes uint) *Service {
	return &Service{
		docs:        make(map[string]*document),
		byPrint:     make(map[uint64]string),
		catalog:     catalog,
		archive:     archive,
		bloomBits:   bloomBits,
		bloomHashes: bloomHashes,
	}
}

// Add indexes a document and returns its id. Re-adding byte-identical
// content returns the existing id without a new catalog row. When an
// archive is configured the raw document is also stored under
// documents/<id>.
func (s *Service) Add(ctx context.Context, name string, data []byte) (string, error) {
	log := zap.L().Named("index.add")

	id, existing, err := s.ingest(name, data)
	if err != nil {
		return "", err
	}
	if existing {
		log.Debug("duplicate content", zap.String("name", name), zap.String("docID", id))
		return id, nil
	}

	if s.archive != nil {
		if err := s.archive.Put(ctx, "documents/"+id, data); err != nil {
			return "", fmt.Errorf("archive document %s: %w", id, err)
		}
	}

	log.Info("document indexed",
		zap.String("docID", id), zap.String("name", name), zap.Int("size", len(data)))
	return id, nil
}

// AddFromArchive pulls a document out of the archive store and indexes
// it like Add, without re-uploading it.
func (s *Service) AddFromArchive(ctx context.Context, name, key string) (string, error) {
	if s.archive == nil {
		return "", ErrNoArchive
	}
	data, err := s.archive.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("fetch %q: %w", key, err)
	}
	id, _, err := s.ingest(name, data)
	return id, err
}

func (s *Service) ingest(name string, data []byte) (id string, existing bool, err error) {
	fp := xxh3.Hash(data)

	s.mu.Lock()
	if id, ok := s.byPrint[fp]; ok {
		s.mu.Unlock()
		return id, true, nil
	}
	id = uuid.New().String()
	s.docs[id] = &document{
		id:          id,
		name:        name,
		data:        data,
		fingerprint: fp,
		filters:     make(map[int]*docfilter.Filter),
	}
	s.byPrint[fp] = id
	s.mu.Unlock()

	if err := s.catalog.CreateDocument(id, name, len(data), fmt.Sprintf("%016x", fp)); err != nil {
		return "", false, fmt.Errorf("catalog document: %w", err)
	}
	return id, false, nil
}

// Search runs one query against one document and logs the outcome to
// the catalog.
func (s *Service) Search(ctx context.Context, docID string, pattern []byte, mode Mode) (match.Result, error) {
	log := zap.L().Named("index.search")
	none := match.Result{FirstIndex: -1}

	s.mu.Lock()
	doc, ok := s.docs[docID]
	s.mu.Unlock()
	if !ok {
		return none, fmt.Errorf("%w: %s", ErrUnknownDocument, docID)
	}

	var (
		res match.Result
		err error
	)
	switch mode {
	case ModeNaive:
		res, err = match.Naive(pattern, doc.data)
	case ModeRK:
		res, err = match.HashVerified(pattern, doc.data)
	case ModeBloom:
		var f *docfilter.Filter
		f, err = s.filterFor(doc, len(pattern))
		if err == nil {
			res, err = docfilter.Match(pattern, doc.data, f)
		}
	default:
		return none, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if err != nil {
		return none, err
	}

	if err := s.catalog.LogSearch(docID, string(pattern), string(mode), res.Count, res.FirstIndex); err != nil {
		return none, fmt.Errorf("log search: %w", err)
	}

	log.Debug("search done",
		zap.String("docID", docID), zap.String("mode", string(mode)),
		zap.Int("count", res.Count), zap.Int("firstIndex", res.FirstIndex))
	return res, nil
}

// filterFor returns the document's filter for window length m, building
// it on first use. The build happens under the service lock so a
// half-populated filter is never visible to queries.
func (s *Service) filterFor(doc *document, m int) (*docfilter.Filter, error) {
	if m < 1 {
		return nil, match.ErrEmptyPattern
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := doc.filters[m]; ok {
		return f, nil
	}
	f, err := docfilter.Build(doc.data, m, s.bloomBits, s.bloomHashes)
	if err != nil {
		return nil, err
	}
	doc.filters[m] = f
	return f, nil
}

// Documents lists every indexed document.
func (s *Service) Documents() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos := make([]Info, 0, len(s.docs))
	for _, d := range s.docs {
		infos = append(infos, Info{
			DocID:       d.id,
			Name:        d.name,
			SizeBytes:   len(d.data),
			Fingerprint: fmt.Sprintf("%016x", d.fingerprint),
		})
	}
	return infos
}
