package structure

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/gridcodec/errs"
	"github.com/arloliu/gridcodec/format"
	"github.com/ctessum/geom"
)

// EncodeText writes structures in the engine's ASCII block format:
//
//	NAME
//	    nrows    ncols
//	x y [z par1]
//	...
//
// Unnamed structures are given DefaultName names.
func EncodeText(kind format.StructureKind, structures []Structure) ([]byte, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown structure kind %d", kind)
	}

	var b bytes.Buffer
	width := recordWidth(kind)

	for i, s := range structures {
		if err := s.Validate(kind); err != nil {
			return nil, err
		}

		name := s.Name
		if name == "" {
			name = DefaultName(kind, i)
		}

		if strings.ContainsAny(name, "\r\n") {
			return nil, fmt.Errorf("%w: name %q spans lines", errs.ErrMalformedStructure, name)
		}

		fmt.Fprintf(&b, "%s\n    %d    %d\n", name, len(s.Line), width)
		for v, p := range s.Line {
			fields := []float64{p.X, p.Y}
			if kind.HasCrest() {
				fields = append(fields, s.Crest[v], s.CoefficientAt(v))
			}

			for f, val := range fields {
				if f > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(strconv.FormatFloat(val, 'f', -1, 64))
			}
			b.WriteByte('\n')
		}
	}

	return b.Bytes(), nil
}

// DecodeText parses the ASCII block format.
//
// Thin-dam blocks must have 2 columns. Weir blocks must have 3 or 4 columns; a
// missing fourth column means DefaultPar1.
func DecodeText(kind format.StructureKind, data []byte) ([]Structure, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown structure kind %d", kind)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	next := func() (string, bool) {
		for sc.Scan() {
			line++
			if text := strings.TrimSpace(sc.Text()); text != "" {
				return text, true
			}
		}

		return "", false
	}

	var out []Structure
	for {
		name, ok := next()
		if !ok {
			break
		}

		dims, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: line %d: block %q has no dimensions", errs.ErrMalformedStructure, line, name)
		}

		rows, cols, err := parseDims(dims)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if err := checkColumns(kind, cols); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		s := Structure{Name: name, Line: make(geom.LineString, 0, rows)}
		if kind.HasCrest() {
			s.Crest = make([]float64, 0, rows)
			s.Par1 = make([]float64, 0, rows)
		}

		for range rows {
			text, ok := next()
			if !ok {
				return nil, fmt.Errorf("%w: block %q ends after %d of %d vertices",
					errs.ErrMalformedStructure, name, len(s.Line), rows)
			}

			vals, err := parseRow(text, cols)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}

			s.Line = append(s.Line, geom.Point{X: vals[0], Y: vals[1]})
			if kind.HasCrest() {
				s.Crest = append(s.Crest, vals[2])
				par1 := DefaultPar1
				if cols == 4 {
					par1 = vals[3]
				}
				s.Par1 = append(s.Par1, par1)
			}
		}

		if err := s.Validate(kind); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func parseDims(text string) (int, int, error) {
	f := strings.Fields(text)
	if len(f) != 2 {
		return 0, 0, fmt.Errorf("%w: dimensions %q", errs.ErrMalformedStructure, text)
	}

	rows, err1 := strconv.Atoi(f[0])
	cols, err2 := strconv.Atoi(f[1])
	if err1 != nil || err2 != nil || rows < 0 {
		return 0, 0, fmt.Errorf("%w: dimensions %q", errs.ErrMalformedStructure, text)
	}

	return rows, cols, nil
}

func checkColumns(kind format.StructureKind, cols int) error {
	if kind.HasCrest() {
		if cols == 3 || cols == 4 {
			return nil
		}

		return fmt.Errorf("%w: weir blocks need 3 or 4 columns, got %d", errs.ErrMalformedStructure, cols)
	}

	if cols != 2 {
		return fmt.Errorf("%w: thin dam blocks need 2 columns, got %d", errs.ErrMalformedStructure, cols)
	}

	return nil
}

func parseRow(text string, cols int) ([]float64, error) {
	f := strings.Fields(text)
	if len(f) != cols {
		return nil, fmt.Errorf("%w: expected %d values, got %q", errs.ErrMalformedStructure, cols, text)
	}

	vals := make([]float64, cols)
	for i, s := range f {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", errs.ErrMalformedStructure, s)
		}
		vals[i] = v
	}

	return vals, nil
}
