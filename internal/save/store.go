// Package save writes and reads save slots: the mission engine snapshot
// and the inn state, encoded as YAML or CBOR, one file per slot.
package save

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"InnKeeper/internal/inn"
	"InnKeeper/internal/mission"
)

// Version is the current save layout.
const Version = 1

var (
	ErrBadSlot  = errors.New("save: bad slot name")
	ErrNotFound = errors.New("save: slot not found")
)

var slotName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// File is one saved game.
type File struct {
	// ID identifies a playthrough; it is kept across saves of the same game.
	ID       string           `json:"id" yaml:"id"`
	Version  int              `json:"version" yaml:"version"`
	SavedAt  time.Time        `json:"savedAt" yaml:"savedAt"`
	Inn      inn.State        `json:"inn" yaml:"inn"`
	Missions mission.Snapshot `json:"missions" yaml:"missions"`
}

// SlotInfo describes a slot on disk.
type SlotInfo struct {
	Name    string    `json:"name"`
	Format  Format    `json:"format"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// Store keeps save slots in a directory.
type Store struct {
	dir    string
	format Format
	now    func() time.Time
}

// NewStore creates the directory if needed. New saves use format.
func NewStore(dir string, format Format) (*Store, error) {
	if dir == "" {
		return nil, errors.New("save: empty directory")
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save directory: %w", err)
	}
	return &Store{dir: filepath.Clean(dir), format: format, now: time.Now}, nil
}

// Dir returns the slot directory.
func (s *Store) Dir() string { return s.dir }

// Format returns the encoding used for new saves.
func (s *Store) Format() Format { return s.format }

func checkSlot(slot string) error {
	if !slotName.MatchString(slot) {
		return fmt.Errorf("%w: %q", ErrBadSlot, slot)
	}
	return nil
}

func (s *Store) path(slot string, f Format) string {
	return filepath.Join(s.dir, slot+f.Ext())
}

// Save writes f to slot, replacing any earlier save of the slot in either
// format. It stamps ID (when empty), Version and SavedAt on f.
func (s *Store) Save(slot string, f *File) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.Version = Version
	f.SavedAt = s.now().UTC()

	data, err := s.format.marshal(f)
	if err != nil {
		return fmt.Errorf("encoding slot %s: %w", slot, err)
	}

	tmpFile, err := os.CreateTemp(s.dir, slot+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp save file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp save file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(slot, s.format)); err != nil {
		return fmt.Errorf("renaming slot %s into place: %w", slot, err)
	}
	success = true

	for _, other := range Formats {
		if other != s.format {
			_ = os.Remove(s.path(slot, other))
		}
	}
	return nil
}

// Load reads slot in whichever format it was written.
func (s *Store) Load(slot string) (*File, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	for _, format := range Formats {
		data, err := os.ReadFile(s.path(slot, format))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading slot %s: %w", slot, err)
		}
		var f File
		if err := format.unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decoding slot %s (%s): %w", slot, format, err)
		}
		return &f, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, slot)
}

// Delete removes slot. Deleting a missing slot is an error.
func (s *Store) Delete(slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	removed := false
	for _, format := range Formats {
		err := os.Remove(s.path(slot, format))
		if err == nil {
			removed = true
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("deleting slot %s: %w", slot, err)
		}
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrNotFound, slot)
	}
	return nil
}

// List returns the saved slots, most recently written first.
func (s *Store) List() ([]SlotInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []SlotInfo{}, nil
		}
		return nil, err
	}

	slots := []SlotInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, format := range Formats {
			slot, ok := strings.CutSuffix(name, format.Ext())
			if !ok || !slotName.MatchString(slot) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				return nil, err
			}
			slots = append(slots, SlotInfo{
				Name:    slot,
				Format:  format,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].ModTime.Equal(slots[j].ModTime) {
			return slots[i].ModTime.After(slots[j].ModTime)
		}
		return slots[i].Name < slots[j].Name
	})
	return slots, nil
}
