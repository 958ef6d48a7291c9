package estimate

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/drainplan/pkg/errors"
)

// Format is an estimate output format.
type Format string

// Supported formats.
const (
	FormatXLSX  Format = "xlsx"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatTOML  Format = "toml"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// Formats lists the supported formats, the default first.
var Formats = []Format{FormatXLSX, FormatCSV, FormatJSON, FormatTOML, FormatYAML, FormatTable}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, known := range Formats {
		names[i] = string(known)
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown estimate format %q (want one of %s)", s, strings.Join(names, ", "))
}

// Ext returns the file extension of f. The table format is written as text.
func (f Format) Ext() string {
	if f == FormatTable {
		return ".txt"
	}
	return "." + string(f)
}

// Write serializes s to w in format f.
func Write(w io.Writer, s *Sheet, f Format) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, s)
	case FormatCSV:
		return WriteCSV(w, s)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable:
		_, err := io.WriteString(w, RenderTable(s)+"\n")
		return err
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown estimate format %q", f)
}

// header is the column header shared by the tabular formats.
var header = []string{"品名", "規格", "数量", "単位", "単価", "金額"}

// WriteCSV writes the heading, then each section's rows followed by its
// total row.
func WriteCSV(w io.Writer, s *Sheet) error {
	cw := csv.NewWriter(w)
	records := [][]string{{s.Heading()}, header}
	for _, sec := range s.Sections {
		for _, it := range sec.Items {
			records = append(records, itemRecord(it))
		}
		records = append(records, []string{TotalLabel, "", "", "", "", formatMoney(sec.Total)})
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func itemRecord(it Item) []string {
	rec := []string{it.Name, it.Spec, formatQuantity(it.Quantity), it.Unit, "", ""}
	if it.Priced {
		rec[4] = formatMoney(it.UnitPrice)
		rec[5] = formatMoney(it.Amount)
	}
	return rec
}

func formatQuantity(q float64) string { return strconv.FormatFloat(q, 'f', -1, 64) }

func formatMoney(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
