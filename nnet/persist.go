// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nnet

import (
	"encoding/binary"
	"io"

	"github.com/cpmech/gosl/chk"
)

// denseFormatVersion is the version byte leading every SaveDense record
// (spec.md §6 "Persisted state").
const denseFormatVersion = 1

// SaveDense writes a network's weights and biases in a little-endian
// binary record: version byte, layer count (u32), then per layer
// (inSize u32, outSize u32, kind u8, weights as f32s, biases as f32s).
// This mirrors EWC's θ*/Fisher record format (SPEC_FULL.md item 3) so a
// whole-network snapshot is built with the same tool.
func SaveDense(w io.Writer, n *Network) error {
	if err := binary.Write(w, binary.LittleEndian, uint8(denseFormatVersion)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(n.Layers))); err != nil {
		return err
	}
	for _, l := range n.Layers {
		if err := binary.Write(w, binary.LittleEndian, uint32(l.InSize)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(l.OutSize)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(l.Kind)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, l.W); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, l.B); err != nil {
			return err
		}
	}
	return nil
}

// LoadDense reads a record written by SaveDense into an already-constructed
// network n. It checks the version byte and, byte-for-byte, each layer's
// parameter count against n's current topology (spec.md §6: "loading
// checks byte-for-byte parameter count against current network").
func LoadDense(r io.Reader, n *Network) error {
	var version uint8
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return err
	}
	if version != denseFormatVersion {
		return chk.Err("nnet: unsupported dense record version %d (want %d)\n", version, denseFormatVersion)
	}
	var layerCount uint32
	if err := binary.Read(r, binary.LittleEndian, &layerCount); err != nil {
		return err
	}
	if int(layerCount) != len(n.Layers) {
		return chk.Err("nnet: layer count mismatch: record has %d, network has %d\n", layerCount, len(n.Layers))
	}
	for _, l := range n.Layers {
		var inSize, outSize uint32
		var kind uint8
		if err := binary.Read(r, binary.LittleEndian, &inSize); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &outSize); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
			return err
		}
		if int(inSize) != l.InSize || int(outSize) != l.OutSize {
			return chk.Err("nnet: layer shape mismatch: record has (%d,%d), network has (%d,%d)\n", inSize, outSize, l.InSize, l.OutSize)
		}
		if err := binary.Read(r, binary.LittleEndian, l.W); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, l.B); err != nil {
			return err
		}
	}
	return nil
}
