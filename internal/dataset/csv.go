package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
)

// ParseCSV reads a header row followed by data rows. Every failure wraps
// domain.ErrMalformed.
func ParseCSV(r io.Reader) (*domain.Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", domain.ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrMalformed, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
		}
		rows = append(rows, rec)
	}

	t, err := domain.NewTable(header, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	return t, nil
}
