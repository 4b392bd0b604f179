package main

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"playervalue/internal/testsupport"
)

func TestReadNames(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		file  string
		lines []string
		want  []string
	}{
		{
			name:  "plain text skips blanks and comments",
			file:  "names.txt",
			lines: []string{"\ufeffJude Bellingham", "", "# bench", "  Kylian MBAPPE  "},
			want:  []string{"Jude Bellingham", "Kylian MBAPPE"},
		},
		{
			name:  "csv uses the named column",
			file:  "squad.csv",
			lines: []string{"club,nom,age", "Real,Jude Bellingham,21", "PSG,,19", "Real,Kylian MBAPPE,26"},
			want:  []string{"Jude Bellingham", "Kylian MBAPPE"},
		},
		{
			name:  "csv without a known header reads the first column",
			file:  "plain.csv",
			lines: []string{"Jude Bellingham,21", "Kylian MBAPPE,26"},
			want:  []string{"Jude Bellingham", "Kylian MBAPPE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			testsupport.WriteLines(t, path, tt.lines...)
			got, err := readNames(path, nil)
			if err != nil {
				t.Fatalf("readNames: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("readNames = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadNamesFromStdin(t *testing.T) {
	got, err := readNames("-", strings.NewReader("Jude Bellingham\n\nPelé\n"))
	if err != nil {
		t.Fatalf("readNames: %v", err)
	}
	if want := []string{"Jude Bellingham", "Pelé"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("readNames = %q, want %q", got, want)
	}
}

func TestReadNamesMissingFile(t *testing.T) {
	if _, err := readNames(filepath.Join(t.TempDir(), "missing.txt"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}
