// Package loader reads Trial Balance and General Ledger workbooks from disk
// or from a stream into in-memory [tbgllink.Document] grids. It supports
// XLSX, legacy XLS, CSV, TSV, and Parquet files, each optionally compressed
// with gzip, bzip2, xz, or zstd.
//
// All loading is whole-file: the formats that matter here either require
// random access (XLSX, Parquet) or are small enough that streaming buys
// nothing, and the structure-inference engine needs the full grid anyway.
package loader

import (
	"compress/bzip2"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/tuteke2023/tbgllink"
)

// FileType represents a supported workbook format.
type FileType int

const (
	// XLSX represents an Excel .xlsx workbook.
	XLSX FileType = iota
	// XLS represents a legacy Excel .xls workbook.
	XLS
	// CSV represents a comma-separated single-sheet file.
	CSV
	// TSV represents a tab-separated single-sheet file.
	TSV
	// Parquet represents an Apache Parquet single-sheet file.
	Parquet
	// Unsupported represents an unrecognized format.
	Unsupported
)

// String returns a human-readable name for the file type.
func (ft FileType) String() string {
	switch ft {
	case XLSX:
		return "XLSX"
	case XLS:
		return "XLS"
	case CSV:
		return "CSV"
	case TSV:
		return "TSV"
	case Parquet:
		return "Parquet"
	default:
		return "Unsupported"
	}
}

// Compression represents the outer compression applied to a file.
type Compression int

const (
	// CompNone means the file is not compressed.
	CompNone Compression = iota
	// CompGzip means gzip compression.
	CompGzip
	// CompBzip2 means bzip2 compression.
	CompBzip2
	// CompXZ means xz compression.
	CompXZ
	// CompZstd means zstd compression.
	CompZstd
)

// String returns a human-readable name for the compression.
func (c Compression) String() string {
	switch c {
	case CompGzip:
		return "gzip"
	case CompBzip2:
		return "bzip2"
	case CompXZ:
		return "xz"
	case CompZstd:
		return "zstd"
	default:
		return "none"
	}
}

// File extensions
const (
	ExtXLSX    = ".xlsx"
	ExtXLS     = ".xls"
	ExtCSV     = ".csv"
	ExtTSV     = ".tsv"
	ExtParquet = ".parquet"
	ExtGZ      = ".gz"
	ExtBZ2     = ".bz2"
	ExtXZ      = ".xz"
	ExtZSTD    = ".zst"
)

// Sheet is one named grid of a loaded workbook.
type Sheet struct {
	Name string
	Doc  *tbgllink.MemoryDocument
}

// Workbook is a fully loaded file. Single-sheet formats (CSV, TSV, Parquet)
// load as one sheet named after the format.
type Workbook struct {
	Sheets []Sheet
}

// Keyword sets used to pick the right sheet out of a multi-sheet workbook.
var (
	// TBSheetKeywords match Trial Balance sheet names.
	TBSheetKeywords = []string{"tb", "trial balance", "trial_balance"}
	// GLSheetKeywords match General Ledger sheet names.
	GLSheetKeywords = []string{"gl", "general ledger", "general_ledger"}
)

// FindSheet returns the first sheet whose lowercased name contains any of
// the given keywords, falling back to the first sheet. Returns nil only for
// an empty workbook.
func (w *Workbook) FindSheet(keywords []string) *Sheet {
	if len(w.Sheets) == 0 {
		return nil
	}
	for i := range w.Sheets {
		name := strings.ToLower(w.Sheets[i].Name)
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return &w.Sheets[i]
			}
		}
	}
	return &w.Sheets[0]
}

// TBSheet picks the Trial Balance sheet.
func (w *Workbook) TBSheet() *Sheet { return w.FindSheet(TBSheetKeywords) }

// GLSheet picks the General Ledger sheet.
func (w *Workbook) GLSheet() *Sheet { return w.FindSheet(GLSheetKeywords) }

// DetectFileType detects the format and compression from a path's
// extensions, e.g. "ledger.xlsx.gz" is (XLSX, CompGzip).
func DetectFileType(path string) (FileType, Compression) {
	basePath := path
	compression := CompNone

	switch {
	case strings.HasSuffix(strings.ToLower(path), ExtGZ):
		basePath = path[:len(path)-len(ExtGZ)]
		compression = CompGzip
	case strings.HasSuffix(strings.ToLower(path), ExtBZ2):
		basePath = path[:len(path)-len(ExtBZ2)]
		compression = CompBzip2
	case strings.HasSuffix(strings.ToLower(path), ExtXZ):
		basePath = path[:len(path)-len(ExtXZ)]
		compression = CompXZ
	case strings.HasSuffix(strings.ToLower(path), ExtZSTD):
		basePath = path[:len(path)-len(ExtZSTD)]
		compression = CompZstd
	}

	switch strings.ToLower(filepath.Ext(basePath)) {
	case ExtXLSX:
		return XLSX, compression
	case ExtXLS:
		return XLS, compression
	case ExtCSV:
		return CSV, compression
	case ExtTSV:
		return TSV, compression
	case ExtParquet:
		return Parquet, compression
	default:
		return Unsupported, compression
	}
}

// Open loads the workbook at path, detecting format and compression from
// the file name.
func Open(path string) (*Workbook, error) {
	ft, comp := DetectFileType(path)
	if ft == Unsupported {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Load(f, ft, comp)
}

// Load reads a workbook from reader with the given format and compression.
func Load(reader io.Reader, ft FileType, comp Compression) (wb *Workbook, err error) {
	if reader == nil {
		return nil, errors.New("reader cannot be nil")
	}

	decompressed, closeFunc, err := decompressedReader(reader, comp)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	if closeFunc != nil {
		defer func() {
			if closeErr := closeFunc(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close decompressor: %w", closeErr)
			}
		}()
	}

	switch ft {
	case XLSX:
		return loadXLSX(decompressed)
	case XLS:
		return loadXLS(decompressed)
	case CSV:
		return loadDelimited(decompressed, ',', "CSV")
	case TSV:
		return loadDelimited(decompressed, '\t', "TSV")
	case Parquet:
		return loadParquet(decompressed)
	default:
		return nil, errors.New("unsupported file type")
	}
}

// decompressedReader wraps the reader with the matching decompressor.
func decompressedReader(reader io.Reader, comp Compression) (io.Reader, func() error, error) {
	switch comp {
	case CompGzip:
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, func() error { return gzReader.Close() }, nil

	case CompBzip2:
		return bzip2.NewReader(reader), nil, nil

	case CompXZ:
		xzReader, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, nil, nil

	case CompZstd:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error { decoder.Close(); return nil }, nil

	default:
		return reader, nil, nil
	}
}

// loadDelimited reads CSV or TSV data into a single-sheet workbook. Ragged
// rows are allowed; the grid pads short rows with empty cells.
func loadDelimited(reader io.Reader, delimiter rune, sheetName string) (*Workbook, error) {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheetName, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty %s data", sheetName)
	}

	return &Workbook{Sheets: []Sheet{{
		Name: sheetName,
		Doc:  tbgllink.NewDocumentFromStrings(records),
	}}}, nil
}
