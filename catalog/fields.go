package catalog

// Fields is the edition independent view of a decoded product definition
// section.
type Fields struct {
	ProductTemplate int
	Category        int
	ParamNumber     int
	TypeGenProcess  int

	LevelType1  int
	LevelValue1 float32
	LevelType2  int
	LevelValue2 float32

	TimeUnit     int
	ForecastTime int
	// Interval holds [start, end] when HasInterval is set. Zero length
	// intervals are reported as decoded; Assemble drops them.
	HasInterval      bool
	Interval         [2]int
	IntervalStatType int

	DecimalScale int
	BmsExists    bool
	Center       int
	SubCenter    int
	Table        int

	IsEnsemble      bool
	Type            int
	EnsembleNumber  int
	NumberForecasts int
	LowerLimit      float32
	UpperLimit      float32
}
