// Package grib2 decodes and encodes GRIB2 (GRIdded Binary 2nd edition)
// meteorological messages, including the multi-grid layout where sections
// 3-7 repeat within a single message.
//
// Basic usage:
//
//	file, err := os.Open("forecast.grib2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer file.Close()
//
//	fields, err := grib2.Read(file)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, f := range fields {
//	    fmt.Printf("%s at %s: %d values\n", f.Parameter, f.Level, len(f.Data))
//	}
//
// Filtering:
//
//	// Only read temperature fields (discipline 0, category 0)
//	fields, err := grib2.ReadWithOptions(file,
//	    grib2.WithDiscipline(0), grib2.WithParameterCategory(0))
//
// Performance:
//
// ReadWithOptions parses independent messages in parallel; WithWorkers
// sets the number of workers and WithContext adds cancellation support:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	fields, err := grib2.ReadWithOptions(file, grib2.WithContext(ctx))
package grib2

import "fmt"

// ParseError represents an error during GRIB2 parsing.
// It includes context about where in the file the error occurred.
type ParseError struct {
	Section    int    // Which section (0-7), or -1 if file-level
	Offset     int    // Byte offset in file where error occurred
	Message    string // Description of the error
	Underlying error  // Wrapped error, if any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Section == -1 {
		if e.Underlying != nil {
			return fmt.Sprintf("at offset %d: %s: %v", e.Offset, e.Message, e.Underlying)
		}
		return fmt.Sprintf("at offset %d: %s", e.Offset, e.Message)
	}

	if e.Underlying != nil {
		return fmt.Sprintf("section %d at offset %d: %s: %v",
			e.Section, e.Offset, e.Message, e.Underlying)
	}
	return fmt.Sprintf("section %d at offset %d: %s",
		e.Section, e.Offset, e.Message)
}

// Unwrap returns the underlying error, if any.
// This allows errors.Is and errors.As to work correctly.
func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// UnsupportedTemplateError indicates a template number that isn't implemented yet.
type UnsupportedTemplateError struct {
	Section        int // Which section (3=grid, 4=product, 5=data)
	TemplateNumber int // The unsupported template number
}

// Error implements the error interface.
func (e *UnsupportedTemplateError) Error() string {
	sectionName := "unknown"
	switch e.Section {
	case 3:
		sectionName = "grid definition"
	case 4:
		sectionName = "product definition"
	case 5:
		sectionName = "data representation"
	}

	return fmt.Sprintf("unsupported %s template %d in section %d",
		sectionName, e.TemplateNumber, e.Section)
}

// InvalidFormatError indicates that the data is not a valid GRIB2 file.
type InvalidFormatError struct {
	Message string // Description of what's invalid
	Offset  int    // Byte offset where the invalid data was found
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid GRIB2 format at offset %d: %s", e.Offset, e.Message)
}
