package format

type (
	SeriesType      uint8
	EncodingType    uint8
	CompressionType uint8
)

const (
	SeriesXY   SeriesType = 0x1 // SeriesXY holds one Y column.
	SeriesXYY  SeriesType = 0x2 // SeriesXYY holds Y and Y1 columns.
	SeriesXYZ  SeriesType = 0x3 // SeriesXYZ holds Y and Z columns.
	SeriesHLC  SeriesType = 0x4 // SeriesHLC holds High, Low and Close columns.
	SeriesOHLC SeriesType = 0x5 // SeriesOHLC holds Open, High, Low and Close columns.
	SeriesBox  SeriesType = 0x6 // SeriesBox holds Median, Minimum, LowerQuartile, UpperQuartile and Maximum columns.

	TypeRaw     EncodingType = 0x1 // TypeRaw stores IEEE-754 float64 values.
	TypeDelta   EncodingType = 0x2 // TypeDelta stores integers as delta-of-delta zigzag varints.
	TypeGorilla EncodingType = 0x3 // TypeGorilla stores floats as XOR-compressed bit streams.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (s SeriesType) String() string {
	switch s {
	case SeriesXY:
		return "XY"
	case SeriesXYY:
		return "XYY"
	case SeriesXYZ:
		return "XYZ"
	case SeriesHLC:
		return "HLC"
	case SeriesOHLC:
		return "OHLC"
	case SeriesBox:
		return "Box"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is one of the known series types.
func (s SeriesType) Valid() bool {
	return s >= SeriesXY && s <= SeriesBox
}

func (e EncodingType) String() string {
	switch e {
	case TypeRaw:
		return "Raw"
	case TypeDelta:
		return "Delta"
	case TypeGorilla:
		return "Gorilla"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
