// Package dataprocessing ingests the study's raw field data and prepares the
// canonical record tables every report is built from.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Loader: reads the four raw sources (agency capture CSVs, banding-lab
// XLSX exports, activity survey CSVs, strike report CSVs) into canonical
// records
// 2. Derivation: harmonizes labels, applies correction rules, assigns
// migration periods and diel classes, and drops records outside the study
// window
// 3. Clean writers: persist the prepared tables as captures_clean.csv,
// activity_clean.csv and strikes_clean.csv
//
// # Data Flow
//
//	Raw CSV/XLSX → Loader → canonical records → Harmonize/Assign → clean CSVs
//
// # Input handling
//
// Each source carries its own header dialect; loaders map columns by
// (case-insensitive) name rather than position, probe optional columns, and
// fail fast only on missing files or missing required columns. Malformed
// rows are skipped with a warning that names the file and line; unparseable
// dates and times become missing values on an otherwise-kept record.
package dataprocessing
