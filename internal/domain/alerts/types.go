package alerts

type Level string

const (
	LevelNormal  Level = "NORMAL"
	LevelWarning Level = "WARNING"
	LevelDanger  Level = "DANGER"
)

func (l Level) rank() int {
	switch l {
	case LevelWarning:
		return 1
	case LevelDanger:
		return 2
	default:
		return 0
	}
}

// AtLeast reporta si l es igual o más grave que other.
func (l Level) AtLeast(other Level) bool {
	return l.rank() >= other.rank()
}

type Alert struct {
	Level  Level   `json:"level"`
	Reason *string `json:"reason"`
}

func Normal() Alert {
	return Alert{Level: LevelNormal}
}

func New(level Level, reason string) Alert {
	return Alert{Level: level, Reason: &reason}
}

const (
	ReasonLowConfidence    = "low OCR confidence"
	ReasonMediumConfidence = "medium OCR confidence"
	ReasonMissingMedicine  = "prescribed medicine missing from bag"
	ReasonBagMismatch      = "medicine bag does not match prescription"
)
