package structure

import (
	"fmt"

	"github.com/arloliu/gridcodec/encoding"
	"github.com/arloliu/gridcodec/endian"
	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/arloliu/gridcodec/internal/pool"
	"github.com/arloliu/gridcodec/section"
	"github.com/ctessum/geom"
)

// Encode serializes structures of one kind in declaration order.
//
// Every structure is validated before anything is written. Each block is the
// name (uint8 length prefix), a uint32 vertex count and that many records of
// x, y (thin dams) or x, y, z, par1 (weirs) as float64.
func Encode(kind format.StructureKind, structures []Structure, engine endian.EndianEngine) ([]byte, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown structure kind %d", kind)
	}

	for _, s := range structures {
		if err := s.Validate(kind); err != nil {
			return nil, err
		}

		if len(s.Name) > encoding.MaxTextLength {
			return nil, fmt.Errorf("%w: name of %d bytes", errs.ErrMalformedStructure, len(s.Name))
		}
	}

	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)

	header := section.NewStructureHeader(engine, kind, uint32(len(structures))) //nolint: gosec
	buf.B = header.Append(buf.B)

	for _, s := range structures {
		buf.B, _ = encoding.AppendVarString(buf.B, s.Name)
		buf.B = engine.AppendUint32(buf.B, uint32(len(s.Line))) //nolint: gosec

		for i, p := range s.Line {
			buf.B = encoding.AppendFloat64(buf.B, engine, p.X)
			buf.B = encoding.AppendFloat64(buf.B, engine, p.Y)
			if kind.HasCrest() {
				buf.B = encoding.AppendFloat64(buf.B, engine, s.Crest[i])
				buf.B = encoding.AppendFloat64(buf.B, engine, s.CoefficientAt(i))
			}
		}
	}

	return buf.Detach(), nil
}

// Decode parses a binary structure file.
//
// Returns:
//   - format.StructureKind: Kind recorded in the header
//   - []Structure: Structures in file order
//   - error: header errors, or ErrMalformedStructure when a block reads past the
//     end, fails Structure.Validate, or trailing bytes follow the last block
func Decode(data []byte) (format.StructureKind, []Structure, error) {
	header, err := section.ParseStructureHeader(data)
	if err != nil {
		return 0, nil, fmt.Errorf("structure header: %w", err)
	}

	kind := header.Kind
	width := recordWidth(kind)
	r := encoding.NewReader(data[section.StructureHeaderSize:], header.Flag.Engine(), errs.ErrMalformedStructure)

	// Every block needs at least a length byte and a vertex count.
	if int(header.Count) > r.Remaining()/5 {
		return 0, nil, fmt.Errorf("%w: %d structures declared in %d bytes",
			errs.ErrMalformedStructure, header.Count, r.Remaining())
	}

	out := make([]Structure, 0, header.Count)
	for i := range int(header.Count) {
		name := r.String()
		n := int(r.Uint32())
		if err := r.Err(); err != nil {
			return 0, nil, fmt.Errorf("structure %d: %w", i, err)
		}

		if n < 2 {
			return 0, nil, fmt.Errorf("%w: structure %d (%q) has %d vertices", errs.ErrMalformedStructure, i, name, n)
		}

		if n > r.Remaining()/(width*8) {
			return 0, nil, fmt.Errorf("%w: structure %d (%q) declares %d vertices, %d bytes left",
				errs.ErrMalformedStructure, i, name, n, r.Remaining())
		}

		s := Structure{Name: name, Line: make(geom.LineString, n)}
		if kind.HasCrest() {
			s.Crest = make([]float64, n)
			s.Par1 = make([]float64, n)
		}

		rec := make([]float64, width)
		for v := range n {
			r.Float64s(rec)
			s.Line[v] = geom.Point{X: rec[0], Y: rec[1]}
			if kind.HasCrest() {
				s.Crest[v] = rec[2]
				s.Par1[v] = rec[3]
			}
		}

		if err := r.Err(); err != nil {
			return 0, nil, fmt.Errorf("structure %d: %w", i, err)
		}

		if err := s.Validate(kind); err != nil {
			return 0, nil, fmt.Errorf("structure %d: %w", i, err)
		}
		out = append(out, s)
	}

	if r.Remaining() != 0 {
		return 0, nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrMalformedStructure, r.Remaining())
	}

	return kind, out, nil
}
