package stats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/annotext/errant/core/sqlite"
)

func TestWriteTSV(t *testing.T) {
	counts := map[string]int{
		"R:VERB": 3,
		"M:DET":  1,
		"R:DET":  2,
	}
	var b strings.Builder
	if err := WriteTSV(&b, counts); err != nil {
		t.Fatal(err)
	}
	want := "M:DET\t1\nR:DET\t2\nR:VERB\t3\n"
	if got := b.String(); got != want {
		t.Errorf("tsv = %q, want sorted %q", got, want)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.tsv")
	if err := WriteFile(path, map[string]int{"U:VERB": 4}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "U:VERB\t4\n" {
		t.Errorf("file = %q", data)
	}
}

func TestFromM2(t *testing.T) {
	input := "S I is happy\n" +
		"A 1 2|||R:VERB|||am|||REQUIRED|||-NONE-|||0\n" +
		"\n" +
		"S all good\n" +
		"A -1 -1|||noop|||-NONE-|||REQUIRED|||-NONE-|||0\n" +
		"\n" +
		"S she go home\n" +
		"A 1 2|||R:VERB|||goes|||REQUIRED|||-NONE-|||0\n" +
		"A 2 3|||U:NOUN||||||REQUIRED|||-NONE-|||0\n" +
		"\n"
	counts, err := FromM2(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if counts["R:VERB"] != 2 || counts["U:NOUN"] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if _, ok := counts["noop"]; ok {
		t.Error("noop sentinel counted")
	}
}

func TestSaveDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	counts := map[string]int{"R:DET": 2, "M:PREP": 5}
	if err := SaveDB(path, "run-1", counts); err != nil {
		t.Fatal(err)
	}
	// Re-saving the same run replaces, not duplicates.
	if err := SaveDB(path, "run-1", map[string]int{"R:DET": 3}); err != nil {
		t.Fatal(err)
	}

	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM error_counts WHERE run_id = ?", "run-1").Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("rows = %d, want 2", total)
	}
	var count int
	if err := db.QueryRow(
		"SELECT count FROM error_counts WHERE run_id = ? AND error_type = ?", "run-1", "R:DET",
	).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("R:DET count = %d, want replaced value 3", count)
	}
}
