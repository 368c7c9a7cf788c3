/*
Package level implements the course data format used by Super Mario Maker
levels.

A course is stored as a tar archive, usually compressed with zstd, that holds
the main level in course_data.cdt and the sub level in course_data_sub.cdt.
Each .cdt file is exactly 0x15000 bytes, big-endian, with a fixed header
followed by 2600 object slots and 300 sound effect slots. A CRC-32 of
everything after the first 16 bytes is stored at offset 8.
*/
package level

import "time"

const (
	// DataSize is the size in bytes of a course data file
	DataSize = 0x15000

	// MiiDataSize is the size in bytes of the creator Mii blob
	MiiDataSize = 0x60

	// MaxObjects is the number of object slots in a course data file
	MaxObjects = 2600

	// MaxSoundEffects is the number of sound effect slots in a course data
	// file
	MaxSoundEffects = 300

	// MaxNameLength is the number of UTF-16 code units available for the
	// level name, excluding the terminator
	MaxNameLength = 32
)

// Object is a single placed entity. The field order matches the on-disk
// record so it can be read and written with encoding/binary directly.
type Object struct {
	X                   uint32
	Z                   int32
	Y                   int16
	Width               int8
	Height              int8
	Flags               uint32
	ChildFlags          uint32
	ExtendedData        uint32
	Type                int8
	ChildType           int8
	LinkID              int16
	EffectIndex         int16
	Transformation      int8
	ChildTransformation int8
}

// SoundEffect is a sound effect placed in the level
type SoundEffect struct {
	Type uint8
	X    uint8
	Y    uint8
	_    [5]byte
}

// Level is a level header plus the objects placed in it
type Level struct {
	Version      uint64
	CreationTime time.Time
	Name         string
	GameMode     GameMode
	CourseTheme  CourseTheme
	TimeLimit    uint16
	AutoScroll   AutoScroll
	Flags        uint8
	Width        uint32
	MiiData      [MiiDataSize]byte
	Objects      []Object
	SoundEffects []SoundEffect
}

// Course is a main level together with its sub level
type Course struct {
	Level    *Level
	SubLevel *Level
}
