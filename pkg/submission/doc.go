// Package submission forwards completed survey responses to the study's
// spreadsheet. The default HTTPClient posts JSON to a Google Apps Script
// endpoint without reading the reply; SheetsClient appends a flat row through
// the Sheets API. Both report only whether dispatch failed locally.
package submission
