// Package estimate turns a quantity takeoff into a priced estimate sheet.
//
// # Quantities
//
// [Quantities] holds two maps filled by the network takeoff: part counts
// keyed by descriptive label and price band, and pipe lengths keyed by band,
// size and material. Bands are 0.2 deep; see [Band].
//
// # Sheets
//
// [NewSheet] orders the quantities into a parts section and a pipe section,
// prices each row from a [PriceBook] and totals the sections. Rows without a
// known price keep an empty unit price and amount.
//
// # Writers
//
// [Write] serializes a sheet in one of the supported [Format] values:
//
//   - xlsx: an Excel workbook with amount and total formulas
//   - csv: one row per item, sections separated by their total rows
//   - json, toml, yaml: the sheet structure
//   - table: a terminal table rendered with lipgloss
package estimate
