package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Header cells recognised as the name column of a CSV input.
var nameHeaders = map[string]struct{}{
	"name":   {},
	"player": {},
	"nom":    {},
	"joueur": {},
}

// readNames loads player names from path ("-" reads stdin). CSV files use the
// column headed name/player/nom/joueur, or the first column when no header
// matches. Other files hold one name per line; blank lines and lines starting
// with # are skipped.
func readNames(path string, stdin io.Reader) ([]string, error) {
	var reader io.Reader
	if path == "-" {
		reader = stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open names file: %w", err)
		}
		defer file.Close()
		reader = file
	}

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readCSVNames(reader)
	}
	return readLineNames(reader)
}

func readLineNames(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read names: %w", err)
	}
	return names, nil
}

func readCSVNames(r io.Reader) ([]string, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	column := 0
	first := true
	var names []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read names csv: %w", err)
		}
		if first {
			first = false
			if idx, ok := headerColumn(record); ok {
				column = idx
				continue
			}
		}
		if column < len(record) {
			if name := strings.TrimSpace(record[column]); name != "" {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

func headerColumn(record []string) (int, bool) {
	for i, cell := range record {
		cell = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		if _, ok := nameHeaders[cell]; ok {
			return i, true
		}
	}
	return 0, false
}
