// Package encoding provides the low-level value codecs behind the gridcodec artifacts.
//
// Every per-cell artifact is a flat sequence of fixed-width records; there are no
// per-record tags, deltas or padding, because the simulation engine addresses
// records purely by their position in the active-cell index. This package supplies:
//
//   - CellEncoder / CellDecoder: fixed-width cell values for each format.DataKind
//     (float32, float64, uint8, int16, int32), carried as float64 in memory.
//   - CheckValue: lossless-representation check for Float32 and the integer kinds.
//   - VarStringEncoder / AppendVarString: uint8 length-prefixed names used by the
//     structure and point-location files; Reader.String reads them back.
//   - Reader: a bounds-checked cursor for variable-layout payloads.
//
// Encoders write into pooled buffers (internal/pool) and must be finished:
//
//	enc, err := encoding.NewCellEncoder(format.Float32, engine)
//	if err != nil {
//	    return err
//	}
//	defer enc.Finish()
//
//	enc.WriteSlice(values)
//	payload := enc.Detach()
//
// Decoders are stateless values and safe for concurrent use.
package encoding
