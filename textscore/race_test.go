//go:build race

package textscore

const raceEnabled = true
