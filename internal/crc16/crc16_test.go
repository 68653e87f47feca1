package crc16

import "testing"

func TestChecksumKnownVectors(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
		want uint16
	}{
		{"empty", nil, 0x0000},
		{"single zero byte", []byte{0x00}, 0x0000},
		{"123456789", []byte("123456789"), 0x31C3},
	}
	for _, c := range cases {
		got := Checksum(c.buf)
		if got != c.want {
			t.Errorf("%s: Checksum = %#04x, want %#04x", c.name, got, c.want)
		}
	}
}

func TestChecksumIsOrderSensitive(t *testing.T) {
	a := Checksum([]byte{0x01, 0x02, 0x03})
	b := Checksum([]byte{0x03, 0x02, 0x01})
	if a == b {
		t.Fatalf("checksum should differ for reordered bytes")
	}
}
