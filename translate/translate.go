package translate

import (
	"math"
	"time"

	"github.com/nimbus-grib/gribconv/codecerr"
	"github.com/nimbus-grib/gribconv/grib1"
	"github.com/nimbus-grib/gribconv/grib2"
	"github.com/nimbus-grib/gribconv/grib2/data"
	"github.com/nimbus-grib/gribconv/grib2/grid"
	"github.com/nimbus-grib/gribconv/grib2/product"
)

// Forward translates a decoded GRIB1 message into the description needed to
// encode it as GRIB2. Warnings are non-fatal lookup
// misses (currently only UnmappedParameter, which degrades to discipline/
// category/number 255 and still produces a usable spec); a non-nil error
// aborts the translation.
func Forward(msg *grib1.Message) (*grib2.EncodeSpec, []error, error) {
	var warnings []error
	p := msg.Product

	param, err := ForwardParameter(ParameterKey{TableVersion: p.TableVersion, Center: p.Center, Code: p.Parameter})
	if err != nil {
		warnings = append(warnings, err)
	}

	firstType, firstScale, firstValue, secondType, secondScale, secondValue, err := ForwardLevel(p.LevelType, p.Level1, p.Level2)
	if err != nil {
		return nil, warnings, err
	}

	refTime := time.Date(p.Year, time.Month(p.Month), p.Day, p.Hour, p.Minute, 0, 0, time.UTC)

	tr, err := ForwardTimeRange(p.TimeRangeIndicator, p.Parameter, p.P1, p.P2, p.ForecastUnit, refTime)
	if err != nil {
		return nil, warnings, err
	}

	if msg.Grid == nil {
		return nil, warnings, &codecerr.InvariantViolation{Reason: "GRIB1 message has no grid definition section"}
	}
	gridSpec, err := gridFromGrib1(msg.Grid)
	if err != nil {
		return nil, warnings, err
	}

	productSpec := grib2.ProductSpec{
		Template:                 tr.Template,
		ParameterCategory:        param.Category,
		ParameterNumber:          param.Number,
		GeneratingProcess:        p.GeneratingProcess,
		ForecastProcess:          p.GeneratingProcess,
		TimeRangeUnit:            p.ForecastUnit,
		ForecastTime:             uint32(p.P1),
		FirstSurfaceType:         firstType,
		FirstSurfaceScaleFactor:  firstScale,
		FirstSurfaceValue:        firstValue,
		SecondSurfaceType:        secondType,
		SecondSurfaceScaleFactor: secondScale,
		SecondSurfaceValue:       secondValue,
	}

	if tr.Template == 8 {
		productSpec.EndTime = tr.EndTime
		productSpec.NumberMissing = uint32(p.NMissing)
		productSpec.Ranges = []grib2.StatisticalRange{{
			StatisticalProcess: tr.StatisticalProcess,
			TimeRangeUnit:      p.ForecastUnit,
			TimeRangeLength:    tr.RangeLength,
			TimeIncrementUnit:  p.ForecastUnit,
		}}
	}

	spec := &grib2.EncodeSpec{
		Discipline:            param.Discipline,
		Center:                uint16(p.Center),
		MasterTableVersion:    p.TableVersion,
		SignificanceOfRefTime: 1, // start of forecast
		ReferenceTime:         refTime,
		TypeOfData:            1, // forecast products
		Grid:                  gridSpec,
		Product:               productSpec,
		PackBits:              msg.PackBits,
		BinaryScaleFactor:     msg.E,
		DecimalScaleFactor:    msg.D,
		Values:                msg.Gridpoints,
	}

	return spec, warnings, nil
}

func gridFromGrib1(g *grib1.GridDefinition) (grib2.GridSpec, error) {
	resFlags := grib2ResComp(g.ResComp)

	switch g.Type {
	case grib1.DataRepLatLon, grib1.DataRepRotatedLatLon:
		return grib2.GridSpec{
			Template: 0,
			Ni:       uint32(g.NX), Nj: uint32(g.NY),
			La1: degToMicro(g.SLat), Lo1: degToMicro(g.SLon),
			La2: degToMicro(g.ELat), Lo2: degToMicro(g.ELon),
			Di: degToMicroU(g.LoInc), Dj: degToMicroU(g.LaInc),
			ResFlags: resFlags, ScanningMode: g.ScanMode,
		}, nil

	case grib1.DataRepGaussian:
		return grib2.GridSpec{
			Template: 40,
			Ni:       uint32(g.NX), Nj: uint32(g.NY),
			La1: degToMicro(g.SLat), Lo1: degToMicro(g.SLon),
			La2: degToMicro(g.ELat), Lo2: degToMicro(g.ELon),
			Di:       degToMicroU(g.LoInc),
			ResFlags: resFlags, ScanningMode: g.ScanMode,
			// Latin1 doubles as the Gaussian N slot on the wire; see
			// grib2.GridSpec's doc comment on the aliasing defect this preserves.
			Latin1: int32(g.GaussianN),
		}, nil

	case grib1.DataRepLambert:
		return grib2.GridSpec{
			Template: 30,
			Ni:       uint32(g.NX), Nj: uint32(g.NY),
			La1: degToMicro(g.SLat), Lo1: degToMicro(g.SLon),
			LaD: degToMicro(g.StdLat1), LoV: degToMicro(g.OLon),
			Dx: uint32(g.XLen), Dy: uint32(g.YLen),
			ProjectionCenter: g.Proj, ScanningMode: g.ScanMode,
			Latin1: degToMicro(g.StdLat1), Latin2: degToMicro(g.StdLat2),
			ResFlags: resFlags,
		}, nil

	default:
		return grib2.GridSpec{}, &codecerr.UnsupportedGridTemplate{ID: int(g.Type)}
	}
}

func degToMicro(deg float64) int32  { return int32(math.Round(deg * 1e6)) }
func degToMicroU(deg float64) uint32 { return uint32(math.Round(deg * 1e6)) }

// grib2ResComp is the forward half of grib1.ResolutionComponentFlag: it
// derives the GRIB2 resolution-and-component flags octet from a GRIB1 one.
func grib2ResComp(grib1ResComp uint8) uint8 {
	var flag uint8
	if grib1ResComp&0x80 != 0 {
		flag |= 0x20
	}
	flag |= grib1ResComp & 0x8
	return flag
}

// Reverse translates a decoded GRIB2 message into the description needed to
// encode it as GRIB1. Only the first grid of a
// multi-grid message is translated (this codec is scoped to single-product
// GRIB1 output). A non-nil error aborts the translation; the single
// warning case is an unmapped parameter, which degrades to (table 3, code
// 255).
func Reverse(msg *grib2.Message) (*grib1.Message, []error, error) {
	var warnings []error

	if msg.Section0 == nil || msg.Section1 == nil || msg.Section3 == nil || msg.Section4 == nil || msg.Section5 == nil {
		return nil, warnings, &codecerr.InvariantViolation{Reason: "GRIB2 message is missing a required section"}
	}

	center := uint8(msg.Section1.OriginatingCenter)
	category := msg.Section4.Product.GetParameterCategory()
	number := msg.Section4.Product.GetParameterNumber()

	tableVersion, code, err := ReverseParameter(msg.Section0.Discipline, category, number, center)
	if err != nil {
		warnings = append(warnings, err)
	}

	var (
		pdsTemplate                            uint16
		firstType, secondType                  uint8
		firstValue, secondValue                uint32
		forecastTime                           uint32
		timeUnit                               uint8
		generatingProcess                      uint8
		numRanges                              int
		processCode                            uint8
		endTime                                time.Time
		numberMissing                          uint32
	)

	switch prod := msg.Section4.Product.(type) {
	case *product.Template40:
		pdsTemplate = 0
		firstType, firstValue = prod.FirstSurfaceType, prod.FirstSurfaceValue
		secondType, secondValue = prod.SecondSurfaceType, prod.SecondSurfaceValue
		forecastTime, timeUnit = prod.ForecastTime, prod.TimeRangeUnit
		generatingProcess = prod.GeneratingProcess

	case *product.Template48:
		pdsTemplate = 8
		firstType, firstValue = prod.FirstSurfaceType, prod.FirstSurfaceValue
		secondType, secondValue = prod.SecondSurfaceType, prod.SecondSurfaceValue
		forecastTime, timeUnit = prod.ForecastTime, prod.TimeRangeUnit
		generatingProcess = prod.GeneratingProcess
		numRanges = len(prod.TimeRanges)
		numberMissing = prod.NumberMissingInStatProcess
		if numRanges > 0 {
			processCode = prod.TimeRanges[0].StatisticalProcess
		}
		endTime = time.Date(int(prod.EndYear), time.Month(prod.EndMonth), int(prod.EndDay),
			int(prod.EndHour), int(prod.EndMinute), int(prod.EndSecond), 0, time.UTC)

	default:
		return nil, warnings, &codecerr.UnsupportedProductTemplate{ID: msg.Section4.Product.TemplateNumber()}
	}

	grib1LevelType, level1, level2, err := ReverseLevel(firstType, firstValue, secondType, secondValue)
	if err != nil {
		return nil, warnings, err
	}

	tRange, p1, p2, err := ReverseTimeRange(pdsTemplate, timeUnit, forecastTime, numRanges, processCode, center, msg.Section1.ReferenceTime, endTime)
	if err != nil {
		return nil, warnings, err
	}

	rep, ok := msg.Section5.Representation.(*data.Template50)
	if !ok {
		return nil, warnings, &codecerr.UnsupportedDataTemplate{ID: msg.Section5.Representation.TemplateNumber()}
	}

	values, err := msg.DecodeData()
	if err != nil {
		return nil, warnings, err
	}

	gridDef, nx, ny, err := gridFromGrib2(msg.Section3.Grid)
	if err != nil {
		return nil, warnings, err
	}

	var bitmap []bool
	if msg.Section6 != nil && msg.Section6.HasBitmap() {
		bitmap = msg.Section6.Bitmap
	}

	refTime := msg.Section1.ReferenceTime

	out := &grib1.Message{
		Edition: 1,
		Product: &grib1.ProductDefinition{
			TableVersion:       tableVersion,
			Center:             center,
			GeneratingProcess:  generatingProcess,
			Parameter:          code,
			LevelType:          grib1LevelType,
			Level1:             level1,
			Level2:             level2,
			Year:               refTime.Year(),
			Month:              int(refTime.Month()),
			Day:                refTime.Day(),
			Hour:               refTime.Hour(),
			Minute:             refTime.Minute(),
			ForecastUnit:       timeUnit,
			P1:                 p1,
			P2:                 p2,
			TimeRangeIndicator: tRange,
			NMissing:           uint8(numberMissing),
			DecimalScale:       rep.DecimalScaleFactor,
		},
		Grid:       gridDef,
		Bitmap:     bitmap,
		NX:         nx,
		NY:         ny,
		Gridpoints: values,
		E:          rep.BinaryScaleFactor,
		D:          rep.DecimalScaleFactor,
		PackBits:   int(rep.NumBitsPerValue),
	}

	return out, warnings, nil
}

func gridFromGrib2(g grid.Grid) (*grib1.GridDefinition, int, int, error) {
	switch gr := g.(type) {
	case *grid.LatLonGrid:
		return &grib1.GridDefinition{
			Type: grib1.DataRepLatLon,
			NX:   int(gr.Ni), NY: int(gr.Nj),
			SLat: microToDeg(gr.La1), SLon: microToDeg(gr.Lo1),
			ELat: microToDeg(gr.La2), ELon: microToDeg(gr.Lo2),
			LoInc: microToDegU(gr.Di), LaInc: microToDegU(gr.Dj),
			ResComp: grib1ResComp(gr.ResFlags), ScanMode: gr.ScanningMode,
		}, int(gr.Ni), int(gr.Nj), nil

	case *grid.GaussianGrid:
		return &grib1.GridDefinition{
			Type: grib1.DataRepGaussian,
			NX:   int(gr.Ni), NY: int(gr.Nj),
			SLat: microToDeg(gr.La1), SLon: microToDeg(gr.Lo1),
			ELat: microToDeg(gr.La2), ELon: microToDeg(gr.Lo2),
			LoInc:     microToDegU(gr.Di),
			GaussianN: int(gr.N),
			ResComp:   grib1ResComp(gr.ResFlags), ScanMode: gr.ScanningMode,
		}, int(gr.Ni), int(gr.Nj), nil

	case *grid.LambertConformalGrid:
		return &grib1.GridDefinition{
			Type: grib1.DataRepLambert,
			NX:   int(gr.Nx), NY: int(gr.Ny),
			SLat: microToDeg(gr.La1), SLon: microToDeg(gr.Lo1),
			OLon: microToDeg(gr.LoV),
			XLen: float64(gr.Dx), YLen: float64(gr.Dy),
			Proj: gr.ProjectionCenter, ScanMode: gr.ScanningMode,
			StdLat1: microToDeg(gr.Latin1), StdLat2: microToDeg(gr.Latin2),
			ResComp: grib1ResComp(gr.ResolutionFlags),
		}, int(gr.Nx), int(gr.Ny), nil

	default:
		return nil, 0, 0, &codecerr.UnsupportedGridTemplate{ID: g.TemplateNumber()}
	}
}

func microToDeg(v int32) float64  { return float64(v) / 1e6 }
func microToDegU(v uint32) float64 { return float64(v) / 1e6 }

// grib1ResComp derives a GRIB1 resolution-and-component flags octet from a
// GRIB2 one, assuming a spherical earth (shape code 0) since this codec's
// GRIB2 grid decoders do not retain the earth-shape octet. See
// grib1.ResolutionComponentFlag for the documented, shape-aware inverse.
func grib1ResComp(grib2ResComp uint8) uint8 {
	return grib1.ResolutionComponentFlag(grib2ResComp, 0)
}
