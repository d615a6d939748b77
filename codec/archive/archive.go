// Package archive implements the binary archiver format (spec.md §6,
// grounded on lib/include/irritator/archiver.hpp): a little-endian stream
// header followed by a model table and a connection table.
package archive

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vle-forge/irritator-sub004/model"
	"github.com/vle-forge/irritator-sub004/simerr"
)

// magic is the 16-byte header tag every archive begins with.
var magic = [16]byte{'I', 'R', 'R', 'I', 'T', 'A', 'T', 'O', 'R', '-', 'S', 'U', 'B', '0', '0', '4'}

// FormatVersion is the archive format version this package reads and
// writes.
const FormatVersion uint32 = 1

// ModelRecord is one archived model: its kind tag and a flat parameter
// blob whose interpretation depends on kind.
type ModelRecord struct {
	Kind  model.Kind
	State []byte
}

// ConnectionRecord is one archived connection, by model-table index (not
// id.Handle, since handles are not stable across a save/load round trip).
type ConnectionRecord struct {
	SrcModel uint32
	SrcPort  uint8
	DstModel uint32
	DstPort  uint8
}

// Archive is the decoded contents of a binary archive.
type Archive struct {
	Models      []ModelRecord
	Connections []ConnectionRecord
}

// Write serializes a to w: header, then model count + records, then
// connection count + records, all little-endian (spec.md §6).
func Write(w io.Writer, a *Archive) error {
	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("archive: %w: %v", simerr.ErrWrite, err)
	}
	if err := binary.Write(w, binary.LittleEndian, FormatVersion); err != nil {
		return fmt.Errorf("archive: %w: %v", simerr.ErrWrite, err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(a.Models))); err != nil {
		return fmt.Errorf("archive: %w: %v", simerr.ErrWrite, err)
	}
	for _, m := range a.Models {
		if err := binary.Write(w, binary.LittleEndian, uint8(m.Kind)); err != nil {
			return fmt.Errorf("archive: %w: %v", simerr.ErrWrite, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(m.State))); err != nil {
			return fmt.Errorf("archive: %w: %v", simerr.ErrWrite, err)
		}
		if _, err := w.Write(m.State); err != nil {
			return fmt.Errorf("archive: %w: %v", simerr.ErrWrite, err)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(a.Connections))); err != nil {
		return fmt.Errorf("archive: %w: %v", simerr.ErrWrite, err)
	}
	for _, c := range a.Connections {
		if err := binary.Write(w, binary.LittleEndian, c); err != nil {
			return fmt.Errorf("archive: %w: %v", simerr.ErrWrite, err)
		}
	}
	return nil
}

// Read deserializes an Archive from r, validating the header and every
// model/connection reference (spec.md §7: format_error, header_error,
// unknown_model_error, unknown_model_port_error).
func Read(r io.Reader) (*Archive, error) {
	var gotMagic [16]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("archive: %w: %v", simerr.ErrHeader, err)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("archive: %w: bad magic", simerr.ErrHeader)
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("archive: %w: %v", simerr.ErrHeader, err)
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("archive: %w: unsupported version %d", simerr.ErrHeader, version)
	}

	var modelCount uint32
	if err := binary.Read(r, binary.LittleEndian, &modelCount); err != nil {
		return nil, fmt.Errorf("archive: %w: %v", simerr.ErrFormat, err)
	}
	a := &Archive{Models: make([]ModelRecord, 0, modelCount)}
	for i := uint32(0); i < modelCount; i++ {
		var kind uint8
		if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
			return nil, fmt.Errorf("archive: %w: %v", simerr.ErrFormat, err)
		}
		if kind > uint8(model.KindHSMWrapper) {
			return nil, fmt.Errorf("archive: %w: kind %d", simerr.ErrUnknownModelKind, kind)
		}
		var stateLen uint32
		if err := binary.Read(r, binary.LittleEndian, &stateLen); err != nil {
			return nil, fmt.Errorf("archive: %w: %v", simerr.ErrFormat, err)
		}
		state := make([]byte, stateLen)
		if _, err := io.ReadFull(r, state); err != nil {
			return nil, fmt.Errorf("archive: %w: %v", simerr.ErrFormat, err)
		}
		a.Models = append(a.Models, ModelRecord{Kind: model.Kind(kind), State: state})
	}

	var connCount uint32
	if err := binary.Read(r, binary.LittleEndian, &connCount); err != nil {
		return nil, fmt.Errorf("archive: %w: %v", simerr.ErrFormat, err)
	}
	a.Connections = make([]ConnectionRecord, 0, connCount)
	for i := uint32(0); i < connCount; i++ {
		var c ConnectionRecord
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return nil, fmt.Errorf("archive: %w: %v", simerr.ErrFormat, err)
		}
		if c.SrcModel >= uint32(len(a.Models)) || c.DstModel >= uint32(len(a.Models)) {
			return nil, fmt.Errorf("archive: %w: model index %d/%d out of %d", simerr.ErrUnknownModel, c.SrcModel, c.DstModel, len(a.Models))
		}
		_, srcOut := a.Models[c.SrcModel].Kind.Ports()
		dstIn, _ := a.Models[c.DstModel].Kind.Ports()
		if int(c.SrcPort) >= srcOut || int(c.DstPort) >= dstIn {
			return nil, fmt.Errorf("archive: %w: port %d/%d", simerr.ErrUnknownModelPort, c.SrcPort, c.DstPort)
		}
		a.Connections = append(a.Connections, c)
	}

	return a, nil
}
