package progress

import "strings"

// Picking stages, in order. A part never moves back to a lower stage.
const (
	StagePending = iota
	StagePicked
	StageChecked
	StageLoaded
	StageClosed
)

// MovementEvent is a movement observed for one order line.
type MovementEvent struct {
	PartNumber   string
	MovementType string
}

var stagePrefixes = []struct {
	prefix string
	stage  int
}{
	{"O109", StageClosed},
	{"O106", StageLoaded},
	{"O104", StageChecked},
	{"O103", StagePicked},
}

var stageNames = [...]string{"Pending", "Picked", "Checked", "Loaded", "Closed"}

// ClassifyStage maps a movement code to its stage. Unknown codes are StagePending.
func ClassifyStage(code string) int {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, p := range stagePrefixes {
		if strings.HasPrefix(code, p.prefix) {
			return p.stage
		}
	}
	return StagePending
}

// Movement codes the warehouse backend emits. Only some of them move a part
// to a new stage.
var movementCodes = map[string]string{
	"O101": "Uploaded",
	"O102": "Pick Requested",
	"O103": "Picked",
	"O104": "Checked",
	"O105": "Confirmed",
	"O106": "Loaded",
	"O107": "On The Way",
	"O108": "Delivered",
	"O109": "Closed",
	"A101": "Stock Adjustment In",
	"A102": "Stock Adjustment Out",
	"I201": "Inbound Received",
	"I202": "Inbound Put Away",
}

// KnownMovementCode reports whether code starts with a movement code the backend emits.
func KnownMovementCode(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 4 {
		return false
	}
	_, ok := movementCodes[code[:4]]
	return ok
}

// StageName is the display name of a stage.
func StageName(stage int) string {
	if stage < 0 || stage >= len(stageNames) {
		return stageNames[StagePending]
	}
	return stageNames[stage]
}

// ReduceStages keeps the highest stage seen per part. Events without a part
// number or movement type are skipped.
func ReduceStages(events []MovementEvent) map[string]int {
	out := make(map[string]int)
	for _, ev := range events {
		part := strings.TrimSpace(ev.PartNumber)
		if part == "" || strings.TrimSpace(ev.MovementType) == "" {
			continue
		}
		if st := ClassifyStage(ev.MovementType); st > out[part] {
			out[part] = st
		} else if _, ok := out[part]; !ok {
			out[part] = st
		}
	}
	return out
}
