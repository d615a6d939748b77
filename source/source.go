// Package source implements the source registry (spec.md §3, §4.4): typed
// scalar streams feeding generators, queues, and other stochastic atomic
// models, plus the Philox-64 counter-based PRNG backing the random kind.
package source

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strconv"

	"github.com/vle-forge/irritator-sub004/simerr"
)

// Kind tags the closed set of source implementations spec.md §3 names:
// "Polymorphic over {constant, binary-file, text-file, random}".
type Kind int

const (
	KindConstant Kind = iota
	KindBinaryFile
	KindTextFile
	KindRandom
)

// Stream is the external-collaborator contract spec.md §4.4 describes:
// prepare fills internal state, Next refills a caller-owned chunk and
// reports how many values it actually produced. Returning (0,
// simerr.ErrSourceExhausted) signals the stream has nothing left.
type Stream interface {
	Prepare() error
	Next(chunk []float64) (int, error)
}

// ConstantSource cycles forever through a fixed table of values, per
// spec.md §4.4's "constant table".
type ConstantSource struct {
	Table []float64
	pos   int
}

func (s *ConstantSource) Prepare() error { s.pos = 0; return nil }

func (s *ConstantSource) Next(chunk []float64) (int, error) {
	if len(s.Table) == 0 {
		return 0, simerr.ErrSourceExhausted
	}
	for i := range chunk {
		chunk[i] = s.Table[s.pos]
		s.pos = (s.pos + 1) % len(s.Table)
	}
	return len(chunk), nil
}

// FileFormat selects how FileSource decodes its backing reader.
type FileFormat int

const (
	FileFormatBinary FileFormat = iota // little-endian float64 records
	FileFormatText                     // one float per line
)

// FileSource reads scalar values from an io.Reader handed to it by the
// builder, covering both the binary-file and text-file source kinds.
type FileSource struct {
	R      io.Reader
	Format FileFormat

	br  *bufio.Reader
	sc  *bufio.Scanner
	eof bool
}

func (s *FileSource) Prepare() error {
	s.eof = false
	switch s.Format {
	case FileFormatBinary:
		s.br = bufio.NewReader(s.R)
	case FileFormatText:
		s.sc = bufio.NewScanner(s.R)
	}
	return nil
}

func (s *FileSource) Next(chunk []float64) (int, error) {
	if s.eof {
		return 0, simerr.ErrSourceExhausted
	}
	n := 0
	switch s.Format {
	case FileFormatBinary:
		var buf [8]byte
		for n < len(chunk) {
			if _, err := io.ReadFull(s.br, buf[:]); err != nil {
				s.eof = true
				break
			}
			chunk[n] = math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))
			n++
		}
	case FileFormatText:
		for n < len(chunk) && s.sc.Scan() {
			v, err := strconv.ParseFloat(s.sc.Text(), 64)
			if err != nil {
				s.eof = true
				return n, simerr.ErrFormat
			}
			chunk[n] = v
			n++
		}
		if n < len(chunk) {
			s.eof = true
		}
	}
	if n == 0 {
		return 0, simerr.ErrSourceExhausted
	}
	return n, nil
}

// Distribution selects the shape RandomSource draws from.
type Distribution int

const (
	DistUniform Distribution = iota
	DistNormal
	DistExponential
)

// RandomSource draws reproducible pseudo-random values from a Philox-64
// counter stream, per spec.md §3's "Random sources use Philox-64 and can be
// rewound by re-setting counter (index, step)".
type RandomSource struct {
	Stream Philox
	Dist   Distribution

	// Parameters, interpreted per Dist: Uniform uses [Min, Max); Normal uses
	// (Mean, StdDev); Exponential uses Rate.
	Min, Max     float64
	Mean, StdDev float64
	Rate         float64

	step uint64
}

func (s *RandomSource) Prepare() error {
	s.step = 0
	if s.Dist == DistUniform && s.Max <= s.Min {
		s.Max = s.Min + 1
	}
	if s.Dist == DistExponential && !(s.Rate > 0) {
		s.Rate = 1
	}
	if s.Dist == DistNormal && !(s.StdDev > 0) {
		s.StdDev = 1
	}
	return nil
}

// Rewind resets the stream to draw starting at the given counter step,
// implementing the rewind contract called out in spec.md §4.4.
func (s *RandomSource) Rewind(step uint64) { s.step = step }

func (s *RandomSource) Next(chunk []float64) (int, error) {
	for i := range chunk {
		switch s.Dist {
		case DistUniform:
			u := s.Stream.Float64(s.step)
			chunk[i] = s.Min + u*(s.Max-s.Min)
		case DistNormal:
			hi, lo := s.Stream.Next(s.step)
			u1 := float64(hi>>11) / (1 << 53)
			u2 := float64(lo>>11) / (1 << 53)
			if u1 <= 0 {
				u1 = 1e-300
			}
			z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
			chunk[i] = s.Mean + s.StdDev*z
		case DistExponential:
			u := s.Stream.Float64(s.step)
			if u >= 1 {
				u = 1 - 1e-300
			}
			chunk[i] = -math.Log(1-u) / s.Rate
		}
		s.step++
	}
	return len(chunk), nil
}
