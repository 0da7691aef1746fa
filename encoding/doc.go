// Package encoding provides the columnar encodings used by series snapshots.
//
// Every column of a series is encoded independently, so columns can be encoded in
// parallel and decoded straight into typed slices. Three encodings are provided:
//
//   - Delta: delta-of-delta zigzag varints for integer columns. Evenly spaced X
//     values (timestamps, bar indices) cost about one byte per row.
//   - Gorilla: XOR bit packing for floating columns whose values move slowly.
//   - Raw: fixed-width IEEE-754 float64 in a chosen byte order, for floating columns
//     that Gorilla cannot shrink (noise, random walks with full mantissas).
//
// Encoders write into pooled buffers; call Finish once the bytes have been copied out.
//
//	enc := encoding.NewDeltaEncoder()
//	defer enc.Finish()
//	enc.WriteSlice(xs)
//	block := append([]byte(nil), enc.Bytes()...)
//
//	for x := range encoding.NewDeltaDecoder().All(block, len(xs)) {
//	    ...
//	}
package encoding
