package protocol

import "github.com/chrispurusha/g2edit/internal/bitstream"

func newWriter() *bitstream.BitStream {
	return bitstream.NewWriter(64)
}

func newReaderFrom(bs *bitstream.BitStream) *bitstream.BitStream {
	return bitstream.New(bs.Bytes()[:bs.Pos()/8])
}
