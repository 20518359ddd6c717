package combination

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
)

var ErrInvalidHeader = errors.New("invalid combinations header")

// Load reads a combinations CSV from disk
func Load(path string, columns []bracket.SlotToken) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open combinations table: %w", err)
	}
	defer f.Close()

	return ParseCSV(f, columns)
}

// ParseCSV reads a table whose header is an optional label column followed by the
// given slot columns in any order. Bad data rows land in Table.Rejected.
func ParseCSV(r io.Reader, columns []bracket.SlotToken) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	hasLabel := false
	if _, err := bracket.ParseSlotToken(strings.TrimSpace(header[0])); err != nil {
		hasLabel = true
		header = header[1:]
	}

	cols, err := parseHeader(header, columns)
	if err != nil {
		return nil, err
	}

	table := &Table{Columns: cols}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				table.Rejected = append(table.Rejected, RowError{Line: parseErr.Line, Reason: parseErr.Err.Error()})
				continue
			}
			return nil, fmt.Errorf("failed to read combinations table: %w", err)
		}

		row, reason := parseRow(record, cols, hasLabel)
		if reason != "" {
			line, _ := reader.FieldPos(0)
			table.Rejected = append(table.Rejected, RowError{Line: line, Reason: reason})
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func parseHeader(header []string, expected []bracket.SlotToken) ([]bracket.SlotToken, error) {
	if len(header) != len(expected) {
		return nil, fmt.Errorf("%w: expected %d slot columns, got %d", ErrInvalidHeader, len(expected), len(header))
	}

	want := make(map[bracket.SlotToken]bool, len(expected))
	for _, t := range expected {
		want[t] = true
	}

	cols := make([]bracket.SlotToken, len(header))
	for i, h := range header {
		tok, err := bracket.ParseSlotToken(strings.TrimSpace(h))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
		}
		if !want[tok] {
			return nil, fmt.Errorf("%w: unexpected or repeated column %s", ErrInvalidHeader, tok)
		}
		delete(want, tok)
		cols[i] = tok
	}
	return cols, nil
}

func parseRow(record []string, cols []bracket.SlotToken, hasLabel bool) (Row, string) {
	var option *string
	if hasLabel {
		if len(record) == 0 {
			return Row{}, "empty row"
		}
		if label := strings.TrimSpace(record[0]); label != "" {
			option = &label
		}
		record = record[1:]
	}

	if len(record) != len(cols) {
		return Row{}, fmt.Sprintf("expected %d cells, got %d", len(cols), len(record))
	}

	mapping := make(map[bracket.SlotToken]bracket.SlotToken, len(cols))
	letters := make(map[byte]bool, len(cols))
	for i, cell := range record {
		tok, err := bracket.ParseSlotToken(strings.TrimSpace(cell))
		if err != nil {
			return Row{}, err.Error()
		}
		if tok.Position() != bracket.Third {
			return Row{}, fmt.Sprintf("%s is not a third-place token", tok)
		}
		if letters[tok.Letter()] {
			return Row{}, fmt.Sprintf("group %c appears twice", tok.Letter())
		}
		letters[tok.Letter()] = true
		mapping[cols[i]] = tok
	}
	return NewRow(option, mapping), ""
}
