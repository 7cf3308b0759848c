package index_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rksearch/rksearch/internal/index"
	"github.com/rksearch/rksearch/internal/match"
)

// --- fakes ---

type fakeCatalog struct {
	created []struct {
		docID, name, fingerprint string
		size                     int
	}
	searches []struct {
		docID, pattern, mode string
		count, first         int
	}
}

func (f *fakeCatalog) CreateDocument(docID, name string, size int, fingerprint string) error {
	f.created = append(f.created, struct {
		docID, name, fingerprint string
		size                     int
	}{docID, name, fingerprint, size})
	return nil
}

func (f *fakeCatalog) LogSearch(docID, pattern, mode string, matchCount, firstIndex int) error {
	f.searches = append(f.searches, struct {
		docID, pattern, mode string
		count, first         int
	}{docID, pattern, mode, matchCount, firstIndex})
	return nil
}

type fakeArchive struct {
	objects map[string][]byte
	puts    []string
}

func (f *fakeArchive) Put(ctx context.Context, key string, data []byte) error {
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[key] = data
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeArchive) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

// --- tests ---

func TestAdd_CatalogsAndArchives(t *testing.T) {
	cat := &fakeCatalog{}
	arc := &fakeArchive{}
	svc := index.New(cat, arc, 4096, 4)

	id, err := svc.Add(context.Background(), "greeting.txt", []byte("hello world"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id == "" {
		t.Fatal("Add returned empty docID")
	}

	if len(cat.created) != 1 {
		t.Fatalf("expected 1 catalog row, got %d", len(cat.created))
	}
	if cat.created[0].name != "greeting.txt" || cat.created[0].size != 11 {
		t.Errorf("catalog row = %+v", cat.created[0])
	}
	if len(arc.puts) != 1 || arc.puts[0] != "documents/"+id {
		t.Errorf("archive puts = %v", arc.puts)
	}
}

func TestAdd_DeduplicatesIdenticalContent(t *testing.T) {
	cat := &fakeCatalog{}
	svc := index.New(cat, nil, 4096, 4)

	id1, err := svc.Add(context.Background(), "a.txt", []byte("same bytes"))
	if err != nil {
		t.Fatalf("first Add: %v", err)
	}
	id2, err := svc.Add(context.Background(), "b.txt", []byte("same bytes"))
	if err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if id1 != id2 {
		t.Errorf("duplicate content got two ids: %s, %s", id1, id2)
	}
	if len(cat.created) != 1 {
		t.Errorf("expected 1 catalog row for duplicate content, got %d", len(cat.created))
	}
}

func TestAddFromArchive(t *testing.T) {
	cat := &fakeCatalog{}
	arc := &fakeArchive{objects: map[string][]byte{
		"corpus/doc1": []byte("abababa"),
	}}
	svc := index.New(cat, arc, 4096, 4)

	id, err := svc.AddFromArchive(context.Background(), "doc1", "corpus/doc1")
	if err != nil {
		t.Fatalf("AddFromArchive: %v", err)
	}

	res, err := svc.Search(context.Background(), id, []byte("aba"), index.ModeRK)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Count != 3 || res.FirstIndex != 0 {
		t.Errorf("got (%d, %d), want (3, 0)", res.Count, res.FirstIndex)
	}
}

func TestAddFromArchive_NoArchive(t *testing.T) {
	svc := index.New(&fakeCatalog{}, nil, 4096, 4)
	if _, err := svc.AddFromArchive(context.Background(), "x", "k"); !errors.Is(err, index.ErrNoArchive) {
		t.Errorf("err = %v, want ErrNoArchive", err)
	}
}

func TestSearch_ModesAgree(t *testing.T) {
	cat := &fakeCatalog{}
	svc := index.New(cat, nil, 4096, 4)

	id, err := svc.Add(context.Background(), "doc", []byte("the quick brown fox jumps over the lazy dog"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	for _, pattern := range []string{"the", "fox", "cat", "o"} {
		var results []match.Result
		for _, mode := range []index.Mode{index.ModeNaive, index.ModeRK, index.ModeBloom} {
			res, err := svc.Search(context.Background(), id, []byte(pattern), mode)
			if err != nil {
				t.Fatalf("Search %q mode %s: %v", pattern, mode, err)
			}
			results = append(results, res)
		}
		if results[0] != results[1] || results[1] != results[2] {
			t.Errorf("pattern %q: modes disagree: %+v", pattern, results)
		}
	}
}

func TestSearch_LogsToCatalog(t *testing.T) {
	cat := &fakeCatalog{}
	svc := index.New(cat, nil, 4096, 4)

	id, _ := svc.Add(context.Background(), "doc", []byte("abababa"))
	if _, err := svc.Search(context.Background(), id, []byte("aba"), index.ModeBloom); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(cat.searches) != 1 {
		t.Fatalf("expected 1 search log row, got %d", len(cat.searches))
	}
	got := cat.searches[0]
	if got.docID != id || got.pattern != "aba" || got.mode != "bloom" || got.count != 3 || got.first != 0 {
		t.Errorf("search log = %+v", got)
	}
}

func TestSearch_UnknownDocument(t *testing.T) {
	svc := index.New(&fakeCatalog{}, nil, 4096, 4)
	if _, err := svc.Search(context.Background(), "nope", []byte("a"), index.ModeNaive); !errors.Is(err, index.ErrUnknownDocument) {
		t.Errorf("err = %v, want ErrUnknownDocument", err)
	}
}

func TestSearch_EmptyPattern(t *testing.T) {
	svc := index.New(&fakeCatalog{}, nil, 4096, 4)
	id, _ := svc.Add(context.Background(), "doc", []byte("abc"))
	for _, mode := range []index.Mode{index.ModeNaive, index.ModeRK, index.ModeBloom} {
		if _, err := svc.Search(context.Background(), id, nil, mode); !errors.Is(err, match.ErrEmptyPattern) {
			t.Errorf("mode %s: err = %v, want ErrEmptyPattern", mode, err)
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, err := index.ParseMode(""); err != nil || m != index.ModeBloom {
		t.Errorf("ParseMode(\"\") = %v, %v; want bloom", m, err)
	}
	if _, err := index.ParseMode("kmp"); !errors.Is(err, index.ErrUnknownMode) {
		t.Errorf("err = %v, want ErrUnknownMode", err)
	}
}

func TestDocuments(t *testing.T) {
	svc := index.New(&fakeCatalog{}, nil, 4096, 4)
	svc.Add(context.Background(), "one", []byte("first"))
	svc.Add(context.Background(), "two", []byte("second"))

	docs := svc.Documents()
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	for _, d := range docs {
		if d.DocID == "" || d.Fingerprint == "" || d.SizeBytes == 0 {
			t.Errorf("incomplete info: %+v", d)
		}
	}
}
