package grib2

import (
	"fmt"

	"github.com/nimbus-grib/gribconv/grib2/data"
	"github.com/nimbus-grib/gribconv/grib2/section"
	"github.com/nimbus-grib/gribconv/jpeg2000"
)

// GRIB2Grid holds one repetition of Sections 3-7: the grid definition,
// product definition, data representation, bitmap, and packed data for
// a single field within a message. A GRIB2 message may contain several
// of these back to back, one per field sharing the message's Section 0/1.
type GRIB2Grid struct {
	Section3 *section.Section3
	Section4 *section.Section4
	Section5 *section.Section5
	Section6 *section.Section6
	Section7 *section.Section7
}

// Message represents a complete parsed GRIB2 message.
//
// A GRIB2 message contains all the information needed to describe and
// decode one or more meteorological fields sharing the same discipline
// and reference time, including metadata, grid definitions, product
// descriptions, and packed data values.
type Message struct {
	// Section0 contains the indicator section with discipline and message length
	Section0 *section.Section0

	// Section1 contains identification information (center, time, etc.)
	Section1 *section.Section1

	// Section2 contains local use data (optional, may be nil)
	Section2 *section.Section2

	// Grids holds one entry per repetition of Sections 3-7. Every GRIB2
	// message has at least one.
	Grids []*GRIB2Grid

	// Section3 is Grids[0].Section3, kept for callers that only ever
	// handle single-grid messages.
	Section3 *section.Section3

	// Section4 is Grids[0].Section4.
	Section4 *section.Section4

	// Section5 is Grids[0].Section5.
	Section5 *section.Section5

	// Section6 is Grids[0].Section6.
	Section6 *section.Section6

	// Section7 is Grids[0].Section7.
	Section7 *section.Section7

	// RawData is the original message bytes (for debugging/analysis)
	RawData []byte

	// JPEG2000Decoder decodes DRS templates 40/40000's code-stream
	// payload. Left nil, DecodeData falls back to jpeg2000.NullDecoder,
	// which errors if such a template is ever actually decoded.
	JPEG2000Decoder jpeg2000.Decoder
}

// ParseMessage parses a complete GRIB2 message from raw bytes.
//
// The input data should contain a single complete GRIB2 message starting
// with "GRIB" and ending with "7777".
//
// This function parses all 8 sections of the message:
//   - Section 0: Indicator (discipline, message length)
//   - Section 1: Identification (center, reference time, etc.)
//   - Section 2: Local use (optional)
//   - Section 3: Grid definition
//   - Section 4: Product definition
//   - Section 5: Data representation
//   - Section 6: Bitmap
//   - Section 7: Data
//   - Section 8: End marker "7777"
//
// Note: sections 3-7 may repeat any number of times; ParseMessage loops
// until it reaches the trailing "7777" end marker, collecting one
// GRIB2Grid per repetition.
func ParseMessage(data []byte) (*Message, error) {
	if err := ValidateMessageStructure(data); err != nil {
		return nil, err
	}

	msg := &Message{
		RawData: data,
	}

	offset := 0

	// Parse Section 0 (always 16 bytes)
	sec0, err := section.ParseSection0(data[offset : offset+16])
	if err != nil {
		return nil, &ParseError{
			Section:    0,
			Offset:     offset,
			Message:    "failed to parse Section 0",
			Underlying: err,
		}
	}
	msg.Section0 = sec0
	offset += 16

	// Parse Section 1 (variable length)
	sec1, err := parseSectionAt(data, offset, 1)
	if err != nil {
		return nil, err
	}
	msg.Section1 = sec1.(*section.Section1)
	offset += int(sec1.(*section.Section1).Length)

	// Check for optional Section 2
	if offset < len(data)-4 && data[offset+4] == 2 {
		sec2, err := parseSectionAt(data, offset, 2)
		if err != nil {
			return nil, err
		}
		msg.Section2 = sec2.(*section.Section2)
		offset += int(sec2.(*section.Section2).Length)
	}

	var previousBitmap []bool
	for {
		grid, newOffset, err := parseGrid(data, offset, previousBitmap)
		if err != nil {
			return nil, err
		}
		msg.Grids = append(msg.Grids, grid)
		if grid.Section6 != nil {
			previousBitmap = grid.Section6.Bitmap
		}
		offset = newOffset

		// The message is done once only the 4-byte "7777" end marker
		// remains (already validated by ValidateMessageStructure); a
		// byte of "3" there instead means another grid follows.
		if offset >= len(data)-4 {
			break
		}
	}

	msg.Section3 = msg.Grids[0].Section3
	msg.Section4 = msg.Grids[0].Section4
	msg.Section5 = msg.Grids[0].Section5
	msg.Section6 = msg.Grids[0].Section6
	msg.Section7 = msg.Grids[0].Section7

	return msg, nil
}

// parseGrid parses one repetition of Sections 3-7 starting at offset,
// returning the grid and the offset immediately after Section 7.
func parseGrid(data []byte, offset int, previousBitmap []bool) (*GRIB2Grid, int, error) {
	grid := &GRIB2Grid{}

	// Parse Section 3 (Grid Definition)
	sec3, err := parseSectionAt(data, offset, 3)
	if err != nil {
		return nil, 0, err
	}
	grid.Section3 = sec3.(*section.Section3)
	offset += int(grid.Section3.Length)

	// Parse Section 4 (Product Definition)
	sec4, err := parseSectionAt(data, offset, 4)
	if err != nil {
		return nil, 0, err
	}
	grid.Section4 = sec4.(*section.Section4)
	offset += int(grid.Section4.Length)

	// Parse Section 5 (Data Representation)
	sec5, err := parseSectionAt(data, offset, 5)
	if err != nil {
		return nil, 0, err
	}
	grid.Section5 = sec5.(*section.Section5)
	offset += int(grid.Section5.Length)

	// Parse Section 6 (Bitmap); needs the grid point count from Section 3
	// and the previous grid's bitmap for indicator 254 (reuse).
	numGridPoints := uint32(grid.Section3.NumDataPoints)
	sec6Data := extractSectionData(data, offset, 6)
	if sec6Data == nil {
		return nil, 0, &ParseError{
			Section: 6,
			Offset:  offset,
			Message: "failed to extract section 6 data",
		}
	}
	sec6, err := section.ParseSection6(sec6Data, numGridPoints, previousBitmap)
	if err != nil {
		return nil, 0, &ParseError{
			Section:    6,
			Offset:     offset,
			Message:    "failed to parse Section 6",
			Underlying: err,
		}
	}
	grid.Section6 = sec6
	offset += int(sec6.Length)

	// Parse Section 7 (Data)
	sec7, err := parseSectionAt(data, offset, 7)
	if err != nil {
		return nil, 0, err
	}
	grid.Section7 = sec7.(*section.Section7)
	offset += int(grid.Section7.Length)

	return grid, offset, nil
}

// extractSectionData reads a section's length and extracts its data.
func extractSectionData(data []byte, offset int, expectedSection uint8) []byte {
	if offset+5 > len(data) {
		return nil
	}

	// Read section length (first 4 bytes)
	sectionLength := uint32(data[offset])<<24 | uint32(data[offset+1])<<16 |
		uint32(data[offset+2])<<8 | uint32(data[offset+3])

	// Validate we have enough data
	if offset+int(sectionLength) > len(data) {
		return nil
	}

	return data[offset : offset+int(sectionLength)]
}

// parseSectionAt reads a section length and parses the appropriate section type.
func parseSectionAt(data []byte, offset int, expectedSection uint8) (interface{}, error) {
	sectionData := extractSectionData(data, offset, expectedSection)
	if sectionData == nil {
		return nil, &ParseError{
			Section: int(expectedSection),
			Offset:  offset,
			Message: fmt.Sprintf("failed to extract section %d data", expectedSection),
		}
	}

	// Parse based on section type
	switch expectedSection {
	case 1:
		return section.ParseSection1(sectionData)
	case 2:
		return section.ParseSection2(sectionData)
	case 3:
		return section.ParseSection3(sectionData)
	case 4:
		return section.ParseSection4(sectionData)
	case 5:
		return section.ParseSection5(sectionData)
	case 7:
		return section.ParseSection7(sectionData)
	default:
		return nil, &ParseError{
			Section: int(expectedSection),
			Offset:  offset,
			Message: fmt.Sprintf("unsupported section number: %d", expectedSection),
		}
	}
}

// DecodeData decodes the data values for this message's first grid.
//
// Returns a slice of float64 values in grid scan order.
// Missing/undefined values are represented as 9.999e20.
//
// This method combines the data representation (Section 5), bitmap (Section 6),
// and packed data (Section 7) to produce the final decoded values. For
// messages with more than one grid (Section 3-7 repeated), use
// DecodeGrid to select a specific one.
func (m *Message) DecodeData() ([]float64, error) {
	return m.DecodeGrid(0)
}

// DecodeGrid decodes the data values for the i'th grid in this message.
func (m *Message) DecodeGrid(i int) ([]float64, error) {
	if i < 0 || i >= len(m.Grids) {
		return nil, fmt.Errorf("grid index %d out of range (message has %d grids)", i, len(m.Grids))
	}
	g := m.Grids[i]

	if g.Section5 == nil || g.Section5.Representation == nil {
		return nil, fmt.Errorf("grid %d has no data representation (Section 5)", i)
	}
	if g.Section7 == nil {
		return nil, fmt.Errorf("grid %d has no data section (Section 7)", i)
	}

	// Get bitmap if present
	var bitmap []bool
	if g.Section6 != nil && g.Section6.HasBitmap() {
		bitmap = g.Section6.Bitmap
	}

	// JPEG 2000 templates need the grid's point count before they can
	// validate the decoded image shape and call out to the external
	// decoder; everything else reads that from the template itself.
	if jp, ok := g.Section5.Representation.(*data.Template540); ok && g.Section3 != nil && g.Section3.Grid != nil {
		jp.SetDecoder(g.Section3.Grid.NumPoints(), 1, m.JPEG2000Decoder)
	}

	values, err := g.Section5.Representation.Decode(g.Section7.Data, bitmap)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data for grid %d: %w", i, err)
	}

	return values, nil
}

// Coordinates returns the lat/lon coordinates for this message's grid.
//
// Returns two slices (latitudes and longitudes) in grid scan order,
// matching the order of values returned by DecodeData().
//
// Supports any grid type that provides a Coordinates method (Lat/Lon,
// Lambert Conformal, Mercator, Polar Stereographic). Returns an error
// for other grid types.
func (m *Message) Coordinates() (latitudes, longitudes []float64, err error) {
	if m.Section3 == nil || m.Section3.Grid == nil {
		return nil, nil, fmt.Errorf("message has no grid definition (Section 3)")
	}

	// Check whether the grid can generate coordinates
	switch grid := m.Section3.Grid.(type) {
	case interface {
		Coordinates() ([]float64, []float64)
	}:
		lats, lons := grid.Coordinates()
		return lats, lons, nil
	default:
		return nil, nil, fmt.Errorf("grid type %T does not support coordinate generation", m.Section3.Grid)
	}
}

// String returns a human-readable summary of the message.
func (m *Message) String() string {
	if m.Section0 == nil {
		return "Invalid GRIB2 message"
	}

	discipline := "Unknown"
	if m.Section0 != nil {
		discipline = m.Section0.DisciplineName()
	}

	grid := "Unknown"
	if m.Section3 != nil && m.Section3.Grid != nil {
		grid = m.Section3.Grid.String()
	}

	product := "Unknown"
	if m.Section4 != nil && m.Section4.Product != nil {
		product = m.Section4.Product.String()
	}

	return fmt.Sprintf("GRIB2 Message: Discipline=%s, Grid=%s, Product=%s",
		discipline, grid, product)
}
