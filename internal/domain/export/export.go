package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// Export types.
const (
	TypeMembers    = "members"
	TypeFinances   = "finances"
	TypeAttendance = "attendance"
)

// Format constants for export file format.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Domain errors.
var (
	ErrInvalidType   = errors.New("type must be members, finances or attendance")
	ErrInvalidFormat = errors.New("format must be csv or xlsx")
)

// MemberRow is one line of the members export.
type MemberRow struct {
	ID         int64  `csv:"id"`
	Name       string `csv:"name"`
	Phone      string `csv:"phone"`
	Email      string `csv:"email"`
	DOB        string `csv:"dob"`
	PlanType   string `csv:"plan_type"`
	Amount     string `csv:"amount"`
	StartDate  string `csv:"start_date"`
	ExpiryDate string `csv:"expiry_date"`
	Status     string `csv:"status"`
	Trainer    string `csv:"trainer"`
}

// FinanceRow is one line of the finances export.
type FinanceRow struct {
	ID          int64  `csv:"id"`
	Date        string `csv:"date"`
	Type        string `csv:"type"`
	Category    string `csv:"category"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
	MemberID    string `csv:"member_id"`
}

// AttendanceRow is one line of the attendance export.
type AttendanceRow struct {
	ID         int64  `csv:"id"`
	Date       string `csv:"date"`
	MemberID   int64  `csv:"member_id"`
	MemberName string `csv:"member_name"`
	Status     string `csv:"status"`
}

// Request identifies what to export and how.
type Request struct {
	Type   string
	Format string
}

// Validate checks that the Request has valid data.
// PRE: Request fields may be empty
// POST: Returns nil if valid, error otherwise; empty Format defaults to csv
func (r *Request) Validate() error {
	switch r.Type {
	case TypeMembers, TypeFinances, TypeAttendance:
	default:
		return ErrInvalidType
	}
	if r.Format == "" {
		r.Format = FormatCSV
	}
	if r.Format != FormatCSV && r.Format != FormatXLSX {
		return ErrInvalidFormat
	}
	return nil
}

// Filename returns the attachment name, e.g. members_2026-03-01.csv.
func (r *Request) Filename(now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", r.Type, now.Format("2006-01-02"), r.Format)
}

// ContentType returns the MIME type for the requested format.
func (r *Request) ContentType() string {
	if r.Format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Encode serializes rows (a slice of one of the row types) in the requested format.
// PRE: Validate has succeeded
// POST: Returns a header row followed by one record per element of rows
func (r *Request) Encode(rows any) ([]byte, error) {
	data, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	if r.Format == FormatCSV {
		return data, nil
	}
	return toXLSX(r.Type, data)
}

// toXLSX copies CSV records onto a single named sheet so both formats share one column definition.
func toXLSX(sheet string, data []byte) ([]byte, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
