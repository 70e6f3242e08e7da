// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ewc

import (
	"encoding/binary"
	"io"

	"github.com/cpmech/gosl/chk"
)

// ewcFormatVersion is the version byte leading every record (spec.md §6
// "Persisted state": "Version byte leads the file").
const ewcFormatVersion = 1

// Save writes every non-unused task's name, α, Fisher entries, and θ*
// snapshot in a little-endian binary record, version byte first, followed
// by the parameter count (checked on load) and task count (spec.md §6).
func Save(w io.Writer, s *State) error {
	if err := binary.Write(w, binary.LittleEndian, uint8(ewcFormatVersion)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(s.ParamCount)); err != nil {
		return err
	}

	var live []*Task
	for _, t := range s.Tasks {
		if t.State != Unused {
			live = append(live, t)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(live))); err != nil {
		return err
	}

	for _, t := range live {
		nameBytes := []byte(t.Name)
		if err := binary.Write(w, binary.LittleEndian, uint32(len(nameBytes))); err != nil {
			return err
		}
		if _, err := w.Write(nameBytes); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, t.Alpha); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(t.State)); err != nil {
			return err
		}

		entries := t.Fisher.Entries()
		if err := binary.Write(w, binary.LittleEndian, uint32(len(entries))); err != nil {
			return err
		}
		for _, e := range entries {
			if err := binary.Write(w, binary.LittleEndian, e.Index); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, e.Value); err != nil {
				return err
			}
		}

		theta32 := make([]float32, len(t.Theta))
		for i, v := range t.Theta {
			theta32[i] = float32(v)
		}
		if err := binary.Write(w, binary.LittleEndian, theta32); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a record written by Save into s, checking the version byte
// and — byte-for-byte — the parameter count against s.ParamCount before
// touching any task slot (spec.md §6: "loading checks byte-for-byte
// parameter count against current network"). Tasks in the record are
// assigned to slots 0..len(record tasks)-1; every other slot is reset to
// Unused. The record must fit within len(s.Tasks); a larger task count is
// an invariant violation, since Load does not grow the table.
func Load(r io.Reader, s *State) error {
	var version uint8
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return err
	}
	if version != ewcFormatVersion {
		return chk.Err("ewc: unsupported record version %d (want %d)\n", version, ewcFormatVersion)
	}

	var paramCount uint32
	if err := binary.Read(r, binary.LittleEndian, &paramCount); err != nil {
		return err
	}
	if int(paramCount) != s.ParamCount {
		return chk.Err("ewc: parameter count mismatch: record has %d, state has %d\n", paramCount, s.ParamCount)
	}

	var taskCount uint32
	if err := binary.Read(r, binary.LittleEndian, &taskCount); err != nil {
		return err
	}
	if int(taskCount) > len(s.Tasks) {
		chk.Panic("ewc: record has %d tasks, table only holds %d\n", taskCount, len(s.Tasks))
	}

	for id := 0; id < int(taskCount); id++ {
		t := s.Tasks[id]

		var nameLen uint32
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return err
		}
		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBytes); err != nil {
			return err
		}
		t.Name = string(nameBytes)

		if err := binary.Read(r, binary.LittleEndian, &t.Alpha); err != nil {
			return err
		}
		var state uint8
		if err := binary.Read(r, binary.LittleEndian, &state); err != nil {
			return err
		}
		t.State = TaskState(state)

		var entryCount uint32
		if err := binary.Read(r, binary.LittleEndian, &entryCount); err != nil {
			return err
		}
		t.Fisher.reset()
		for i := uint32(0); i < entryCount; i++ {
			var idx uint32
			var val float32
			if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
				return err
			}
			if err := binary.Read(r, binary.LittleEndian, &val); err != nil {
				return err
			}
			t.Fisher.append(idx, val)
		}

		theta32 := make([]float32, s.ParamCount)
		if err := binary.Read(r, binary.LittleEndian, theta32); err != nil {
			return err
		}
		for i, v := range theta32 {
			t.Theta[i] = float64(v)
		}
	}

	for id := int(taskCount); id < len(s.Tasks); id++ {
		t := s.Tasks[id]
		t.State = Unused
		t.Name = ""
		t.Alpha = 0
		t.Fisher.reset()
		for i := range t.Theta {
			t.Theta[i] = 0
		}
	}

	return nil
}
