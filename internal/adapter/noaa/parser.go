package noaa

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// Column names consumed from the dataset header. Extra columns are ignored.
const (
	colEventType  = "EVTYPE"
	colFatalities = "FATALITIES"
	colInjuries   = "INJURIES"
	colPropDamage = "PROPDMG"
	colPropExp    = "PROPDMGEXP"
	colCropDamage = "CROPDMG"
	colCropExp    = "CROPDMGEXP"
)

var requiredColumns = []string{
	colEventType, colFatalities, colInjuries,
	colPropDamage, colPropExp, colCropDamage, colCropExp,
}

var bzip2Magic = []byte("BZh")

// parseDataset reads a storm events CSV, transparently decompressing bzip2
// payloads, and returns one EventRecord per data row. A missing required
// column or a malformed row is a fatal parse error naming the offender.
func parseDataset(r io.Reader) ([]domain.EventRecord, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	magic, _ := br.Peek(len(bzip2Magic))

	var src io.Reader = br
	if bytes.Equal(magic, bzip2Magic) {
		src = bzip2.NewReader(br)
	}

	cr := csv.NewReader(src)
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty dataset")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	var records []domain.EventRecord
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		rec, err := parseRow(fields, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// columnIndexes locates each required column in the header, matching
// case-insensitively after trimming whitespace and a possible UTF-8 BOM.
func columnIndexes(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	cols := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("missing column %s", name)
		}
		cols[name] = i
	}
	return cols, nil
}

func parseRow(fields []string, cols map[string]int) (domain.EventRecord, error) {
	fatalities, err := parseCount(fields[cols[colFatalities]], colFatalities)
	if err != nil {
		return domain.EventRecord{}, err
	}
	injuries, err := parseCount(fields[cols[colInjuries]], colInjuries)
	if err != nil {
		return domain.EventRecord{}, err
	}
	propDamage, err := parseMantissa(fields[cols[colPropDamage]], colPropDamage)
	if err != nil {
		return domain.EventRecord{}, err
	}
	cropDamage, err := parseMantissa(fields[cols[colCropDamage]], colCropDamage)
	if err != nil {
		return domain.EventRecord{}, err
	}

	return domain.EventRecord{
		EventType:     strings.TrimSpace(fields[cols[colEventType]]),
		Fatalities:    fatalities,
		Injuries:      injuries,
		PropDamage:    propDamage,
		PropDamageExp: strings.TrimSpace(fields[cols[colPropExp]]),
		CropDamage:    cropDamage,
		CropDamageExp: strings.TrimSpace(fields[cols[colCropExp]]),
	}, nil
}

// parseCount parses a non-negative integer count. The NOAA export writes
// counts as floats ("15.00000"); empty means unrecorded and counts as zero.
func parseCount(raw, col string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", col, raw)
	}
	return int(v), nil
}

// parseMantissa parses a non-negative damage mantissa; empty counts as zero.
func parseMantissa(raw, col string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", col, raw)
	}
	return v, nil
}
