package hae

import "strings"

// Stage is a canonical sleep stage.
type Stage string

const (
	StageCore   Stage = "Core"
	StageDeep   Stage = "Deep"
	StageREM    Stage = "REM"
	StageAwake  Stage = "Awake"
	StageInBed  Stage = "In Bed"
	StageAsleep Stage = "Asleep"
)

// Asleep reports whether the stage counts toward total sleep.
func (s Stage) Asleep() bool {
	switch s {
	case StageCore, StageDeep, StageREM, StageAsleep:
		return true
	}
	return false
}

// stageNames lists the localized names iPhones send for each stage.
var stageNames = map[Stage][]string{
	StageCore: {"core", "kern", "léger", "leger", "principal", "essenziale",
		"コア", "核心", "核心睡眠", "코어"},
	StageDeep: {"deep", "tief", "profond", "profundo", "profondo", "sono profundo",
		"diep", "深い", "深度", "深層", "깊은"},
	StageREM: {"rem", "paradoxal", "レム", "快速眼动", "快速動眼", "렘"},
	StageAwake: {"awake", "wach", "éveillé", "eveille", "despierto", "despierta",
		"sveglio", "sveglia", "acordado", "acordada", "wakker", "覚醒", "清醒", "깨어있음"},
	StageInBed: {"in bed", "im bett", "au lit", "en la cama", "a letto", "na cama",
		"ベッドで", "在床上", "침대에서"},
	StageAsleep: {"asleep", "endormi", "dormido", "dormida", "addormentato",
		"dormindo", "slapend"},
}

var stageLookup = func() map[string]Stage {
	m := map[string]Stage{}
	for stage, names := range stageNames {
		for _, n := range names {
			m[n] = stage
		}
	}
	return m
}()

// NormalizeStage maps a possibly localized stage name to its canonical stage.
func NormalizeStage(raw string) (Stage, bool) {
	s, ok := stageLookup[strings.ToLower(strings.TrimSpace(raw))]
	return s, ok
}
