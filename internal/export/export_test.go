package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayoisaiah/upright/internal/models"
	"github.com/ayoisaiah/upright/report"
	"github.com/ayoisaiah/upright/store"
)

type fakeSource struct {
	err    error
	recs   []models.Record
	filter store.Filter
}

func (f *fakeSource) Records(filter store.Filter) ([]models.Record, error) {
	f.filter = filter

	return f.recs, f.err
}

var at = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

func testRecords() []models.Record {
	return []models.Record{
		models.Marker(models.Started, "editor", at),
		models.ReminderRecord(models.Break, "editor", at.Add(time.Minute)),
	}
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	e := NewExporter(&fakeSource{recs: testRecords()}, dir, report.FormatCSV)
	e.now = func() time.Time { return at }

	path, n, err := e.Export()
	if err != nil {
		t.Fatal(err)
	}

	if n != 2 {
		t.Fatalf("expected 2 records exported, got %d", n)
	}

	if want := filepath.Join(dir, "upright_2024-05-06_09-00-00.csv"); path != want {
		t.Fatalf("expected export at %s, got %s", want, path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var want bytes.Buffer

	err = report.WriteCSV(&want, testRecords())
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(want.Bytes(), b) {
		t.Fatalf("unexpected export contents:\n%s", b)
	}
}

func TestExportFailureRemovesFile(t *testing.T) {
	dir := t.TempDir()

	e := NewExporter(&fakeSource{recs: testRecords()}, dir, "pdf")

	_, _, err := e.Export()
	if err == nil {
		t.Fatal("expected an error for an unknown format")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 0 {
		t.Fatalf("expected no files to be left behind, found %d", len(entries))
	}
}

func TestExportSourceError(t *testing.T) {
	boom := errors.New("boom")

	e := NewExporter(&fakeSource{err: boom}, t.TempDir(), report.FormatCSV)

	_, _, err := e.Export()
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}

func TestWriteFileFilter(t *testing.T) {
	src := &fakeSource{recs: testRecords()}
	path := filepath.Join(t.TempDir(), "today.json")

	e := NewExporter(src, t.TempDir(), report.FormatJSON)

	filter := store.Filter{
		Start:    at,
		End:      at.Add(time.Hour),
		Contexts: []string{"editor"},
	}

	n, err := e.WriteFile(path, filter)
	if err != nil {
		t.Fatal(err)
	}

	if n != 2 {
		t.Fatalf("expected 2 records written, got %d", n)
	}

	if !src.filter.Start.Equal(at) || len(src.filter.Contexts) != 1 {
		t.Fatalf("filter was not passed to the source: %+v", src.filter)
	}

	if _, err = os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestScheduler(t *testing.T) {
	dir := t.TempDir()

	e := NewExporter(&fakeSource{recs: testRecords()}, dir, report.FormatCSV)

	s, err := NewScheduler(e, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	s.Start()

	deadline := time.Now().Add(5 * time.Second)

	for {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}

		if len(entries) > 0 {
			break
		}

		if time.Now().After(deadline) {
			t.Fatal("no export was written before the deadline")
		}

		time.Sleep(20 * time.Millisecond)
	}

	err = s.Stop()
	if err != nil {
		t.Fatal(err)
	}
}
