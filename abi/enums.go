package abi

import (
	"strconv"

	"github.com/wippyai/tardis-games/errors"
)

// LogLevel is the severity passed to mtg_log, spaced like SLF4J levels.
type LogLevel int32

const (
	LogTrace LogLevel = 0
	LogDebug LogLevel = 10
	LogInfo  LogLevel = 20
	LogWarn  LogLevel = 30
	LogError LogLevel = 40
)

func (l LogLevel) String() string {
	switch l {
	case LogTrace:
		return "TRACE"
	case LogDebug:
		return "DEBUG"
	case LogInfo:
		return "INFO"
	case LogWarn:
		return "WARN"
	case LogError:
		return "ERROR"
	}
	return "LEVEL(" + strconv.Itoa(int(l)) + ")"
}

// Valid reports whether l is one of the five defined levels.
func (l LogLevel) Valid() bool {
	switch l {
	case LogTrace, LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// SoundCategory selects the mixer channel a sound plays on.
type SoundCategory int32

const (
	SoundMaster SoundCategory = iota
	SoundMusic
	SoundRecords
	SoundWeather
	SoundBlocks
	SoundHostile
	SoundNeutral
	SoundPlayers
	SoundAmbient
	SoundVoice
)

var soundCategoryNames = [...]string{
	"master", "music", "record", "weather", "block",
	"hostile", "neutral", "player", "ambient", "voice",
}

func (c SoundCategory) String() string {
	if c.Valid() {
		return soundCategoryNames[c]
	}
	return "category(" + strconv.Itoa(int(c)) + ")"
}

// Valid reports whether c is within [SoundMaster, SoundVoice].
func (c SoundCategory) Valid() bool {
	return c >= SoundMaster && c <= SoundVoice
}

// DecodeSoundCategory converts a boundary code into a SoundCategory.
func DecodeSoundCategory(code int32) (SoundCategory, error) {
	c := SoundCategory(code)
	if !c.Valid() {
		return 0, errors.InvalidEnum(errors.PhaseDecode, []string{"play_sound", "category"}, code, "SoundCategory")
	}
	return c, nil
}

// ClickType is the mouse button that produced a click.
type ClickType int32

const (
	ClickLeft ClickType = iota
	ClickRight
)

func (c ClickType) String() string {
	switch c {
	case ClickLeft:
		return "left"
	case ClickRight:
		return "right"
	}
	return "click(" + strconv.Itoa(int(c)) + ")"
}

// DecodeClickType converts the on_click type code. Codes other than 0 and 1
// are an UnknownEnumValue.
func DecodeClickType(code int32) (ClickType, error) {
	switch ClickType(code) {
	case ClickLeft, ClickRight:
		return ClickType(code), nil
	}
	return 0, errors.InvalidEnum(errors.PhaseDecode, []string{"on_click", "type"}, code, "ClickType")
}
