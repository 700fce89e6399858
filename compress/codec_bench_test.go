package compress

import "testing"

func BenchmarkAllCodecs_Elevation(b *testing.B) {
	payload := elevationPayload(250_000)

	for name, codec := range allCodecs() {
		packed, err := codec.Compress(payload)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(name+"/compress", func(b *testing.B) {
			b.SetBytes(int64(len(payload)))
			b.ReportAllocs()
			for b.Loop() {
				_, _ = codec.Compress(payload)
			}
		})

		b.Run(name+"/decompress", func(b *testing.B) {
			b.SetBytes(int64(len(payload)))
			b.ReportAllocs()
			for b.Loop() {
				_, _ = codec.Decompress(packed)
			}
		})
	}
}
