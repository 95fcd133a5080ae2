package cmd

import (
	"strings"
	"testing"
)

func Test_normalizeTables(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{" Review_Cards ", "ITEMS"}, []string{"review_cards", "items"}},
		{[]string{"", "  "}, nil},
	}
	for _, c := range cases {
		got := normalizeTables(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%v -> got %v want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%v -> got %v want %v", c.in, got, c.want)
			}
		}
	}
}

func Test_defaultExportFilename(t *testing.T) {
	plain := defaultExportFilename(false)
	if !strings.HasPrefix(plain, "lexikon-backup-") || !strings.HasSuffix(plain, ".jsonl") {
		t.Fatalf("unexpected filename %q", plain)
	}
	gz := defaultExportFilename(true)
	if !strings.HasSuffix(gz, ".jsonl.gz") {
		t.Fatalf("gzip filename %q should end in .jsonl.gz", gz)
	}
}
