package extraction

// Stage is the pipeline step currently running.
type Stage int

const (
	StageIdle Stage = iota
	StageReading
	StageBuilding
	StageRequesting
	StageNormalizing
	StageDone
)

var stageNames = [...]string{
	StageIdle:        "idle",
	StageReading:     "reading document",
	StageBuilding:    "building request",
	StageRequesting:  "waiting for extraction",
	StageNormalizing: "checking questions",
	StageDone:        "done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Percent is the progress shown when the stage starts.
func (s Stage) Percent() int {
	switch s {
	case StageReading:
		return 10
	case StageBuilding:
		return 25
	case StageRequesting:
		return 40
	case StageNormalizing:
		return 85
	case StageDone:
		return 100
	}
	return 0
}

// Progress is reported to the caller as the pipeline advances.
type Progress struct {
	Stage   Stage
	Percent int
}
