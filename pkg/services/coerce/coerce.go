// Package coerce converts raw cell values into canonical types: calendar
// dates, integers, decimals and enumerated codes. Failures are returned as
// plain errors; the import pipeline records them against the calling row and
// keeps processing subsequent rows.
package coerce

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
)

const dateLayout = "2006-01-02"

// Date converts a cell value into a YYYY-MM-DD calendar date. Spreadsheet
// date serials are interpreted against the 1900 epoch (serial 1 is
// 1900-01-01); already-formatted date strings pass through after a parse
// check, since the original templates carried both forms.
func Date(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", fmt.Errorf("empty date")
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial <= 0 {
			return "", fmt.Errorf("date serial %q out of range", v)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return "", fmt.Errorf("date serial %q: %w", v, err)
		}
		// Serials before the 1900 phantom leap day come back one day
		// early; serial 1 must read as 1900-01-01.
		if serial < 61 {
			t = t.AddDate(0, 0, 1)
		}
		return t.Format(dateLayout), nil
	}

	for _, layout := range []string{dateLayout, "2006/01/02", "2006/1/2", "2006.01.02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(dateLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", v)
}

// Integer parses a whole number, tolerating surrounding whitespace and a
// trailing ".0" left behind by spreadsheet numeric cells.
func Integer(raw string) (int, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, fmt.Errorf("empty number")
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	n := int(f)
	if float64(n) != f {
		return 0, fmt.Errorf("not a whole number: %q", raw)
	}
	return n, nil
}

// PositiveInteger parses a whole number and rejects values that are not
// strictly positive.
func PositiveInteger(raw string) (int, error) {
	n, err := Integer(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be greater than 0, got %d", n)
	}
	return n, nil
}

// Decimal parses a decimal number.
func Decimal(raw string) (decimal.Decimal, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", raw)
	}
	return d, nil
}

// PositiveDecimal parses a decimal number and rejects values that are not
// strictly positive.
func PositiveDecimal(raw string) (decimal.Decimal, error) {
	d, err := Decimal(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("must be greater than 0, got %s", d)
	}
	return d, nil
}

// CarrierType maps a cell value onto the closed carrier code set. Both the
// numeric code and the label the templates use are accepted; anything else
// fails coercion.
func CarrierType(raw string) (domain.CarrierType, error) {
	switch strings.TrimSpace(raw) {
	case "1", domain.CarrierDriver.Label():
		return domain.CarrierDriver, nil
	case "2", domain.CarrierContractor.Label():
		return domain.CarrierContractor, nil
	}
	return 0, fmt.Errorf("unrecognized carrier type %q", strings.TrimSpace(raw))
}

// TransportType maps a cell value onto the closed transport type set.
func TransportType(raw string) (domain.TransportType, error) {
	switch strings.TrimSpace(raw) {
	case "1", domain.TransportFullTruck.Label():
		return domain.TransportFullTruck, nil
	case "2", domain.TransportLessThanTruck.Label():
		return domain.TransportLessThanTruck, nil
	}
	return 0, fmt.Errorf("unrecognized transport type %q", strings.TrimSpace(raw))
}
