package level

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"time"
	"unicode/utf16"
)

const (
	checksumOffset = 0x08
	checksumStart  = 0x10
	emptySound     = 0xff
)

var (
	// ErrChecksum is returned when the stored CRC does not match the data
	ErrChecksum = errors.New("level: bad checksum")
	// ErrShortData is returned when the data is not DataSize bytes
	ErrShortData = errors.New("level: short data")
	errObjects   = fmt.Errorf("level: more than %d objects", MaxObjects)
	errSounds    = fmt.Errorf("level: more than %d sound effects", MaxSoundEffects)
)

// header is the fixed 0xf0 byte prefix of a course data file
type header struct {
	Version     uint64
	Checksum    uint32
	_           [4]byte
	Year        uint16
	Month       uint8
	Day         uint8
	Hour        uint8
	Minute      uint8
	_           [0x12]byte
	Name        [MaxNameLength + 1]uint16
	GameMode    [2]byte
	_           uint8
	CourseTheme uint8
	_           [2]byte
	TimeLimit   uint16
	AutoScroll  uint8
	Flags       uint8
	Width       uint32
	MiiData     [MiiDataSize]byte
	_           [0x14]byte
	ObjectCount uint32
}

func encodeName(s string) (n [MaxNameLength + 1]uint16) {
	u := utf16.Encode([]rune(s))
	if len(u) > MaxNameLength {
		// Don't split a surrogate pair
		if r := rune(u[MaxNameLength-1]); r >= 0xd800 && r < 0xdc00 {
			u = u[:MaxNameLength-1]
		} else {
			u = u[:MaxNameLength]
		}
	}
	copy(n[:], u)
	return
}

func decodeName(n [MaxNameLength + 1]uint16) string {
	i := 0
	for i < len(n) && n[i] != 0 {
		i++
	}
	return string(utf16.Decode(n[:i]))
}

// MarshalBinary encodes the level into course data and returns the result
func (l *Level) MarshalBinary() ([]byte, error) {
	if len(l.Objects) > MaxObjects {
		return nil, errObjects
	}
	if len(l.SoundEffects) > MaxSoundEffects {
		return nil, errSounds
	}

	h := header{
		Version:     l.Version,
		Year:        uint16(l.CreationTime.Year()),
		Month:       uint8(l.CreationTime.Month()),
		Day:         uint8(l.CreationTime.Day()),
		Hour:        uint8(l.CreationTime.Hour()),
		Minute:      uint8(l.CreationTime.Minute()),
		Name:        encodeName(l.Name),
		CourseTheme: uint8(l.CourseTheme),
		TimeLimit:   l.TimeLimit,
		AutoScroll:  uint8(l.AutoScroll),
		Flags:       l.Flags,
		Width:       l.Width,
		MiiData:     l.MiiData,
		ObjectCount: uint32(len(l.Objects)),
	}
	copy(h.GameMode[:], GameModeFromCode(uint8(l.GameMode)).String())

	b := new(bytes.Buffer)
	b.Grow(DataSize)

	if err := binary.Write(b, binary.BigEndian, &h); err != nil {
		return nil, err
	}

	// Unused object slots are zero filled
	objects := make([]Object, MaxObjects)
	copy(objects, l.Objects)
	if err := binary.Write(b, binary.BigEndian, objects); err != nil {
		return nil, err
	}

	// Unused sound effect slots are marked with 0xff
	sounds := make([]SoundEffect, MaxSoundEffects)
	n := copy(sounds, l.SoundEffects)
	for i := n; i < len(sounds); i++ {
		sounds[i] = SoundEffect{Type: emptySound, X: emptySound, Y: emptySound}
	}
	if err := binary.Write(b, binary.BigEndian, sounds); err != nil {
		return nil, err
	}

	// Pad to DataSize
	if _, err := b.Write(make([]byte, DataSize-b.Len())); err != nil {
		return nil, err
	}

	data := b.Bytes()
	binary.BigEndian.PutUint32(data[checksumOffset:], crc32.ChecksumIEEE(data[checksumStart:]))

	return data, nil
}

// UnmarshalBinary decodes the level from course data
func (l *Level) UnmarshalBinary(data []byte) error {
	if len(data) != DataSize {
		return ErrShortData
	}

	r := bytes.NewReader(data)

	var h header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return err
	}

	if h.Checksum != crc32.ChecksumIEEE(data[checksumStart:]) {
		return ErrChecksum
	}

	if h.ObjectCount > MaxObjects {
		return errObjects
	}

	gameMode, err := ParseGameMode(string(h.GameMode[:]))
	if err != nil {
		return err
	}

	objects := make([]Object, MaxObjects)
	if err := binary.Read(r, binary.BigEndian, objects); err != nil {
		return err
	}

	sounds := make([]SoundEffect, MaxSoundEffects)
	if err := binary.Read(r, binary.BigEndian, sounds); err != nil {
		return err
	}

	*l = Level{
		Version:      h.Version,
		CreationTime: time.Date(int(h.Year), time.Month(h.Month), int(h.Day), int(h.Hour), int(h.Minute), 0, 0, time.UTC),
		Name:         decodeName(h.Name),
		GameMode:     gameMode,
		CourseTheme:  CourseThemeFromCode(h.CourseTheme),
		TimeLimit:    h.TimeLimit,
		AutoScroll:   AutoScrollFromCode(h.AutoScroll),
		Flags:        h.Flags,
		Width:        h.Width,
		MiiData:      h.MiiData,
		Objects:      objects[:h.ObjectCount],
	}

	for _, s := range sounds {
		if s.Type != emptySound {
			l.SoundEffects = append(l.SoundEffects, s)
		}
	}

	return nil
}
