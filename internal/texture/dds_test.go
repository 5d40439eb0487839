package texture

import "testing"

func TestDDSEncodeParseRoundTrip(t *testing.T) {
	img := solidBlockImage(8, 8, 10, 20, 30, 255)
	mipCount := int(CalculateValidMipLevelCount(8, 8))
	levels := generateMipChain(img, mipCount)

	var payload []byte
	for _, level := range levels {
		payload = append(payload, compressBC7(level)...)
	}

	encoded := encodeDDS(8, 8, mipCount, true, payload)

	info, err := parseDDS(encoded)
	if err != nil {
		t.Fatalf("parseDDS: %v", err)
	}
	if info.Width != 8 || info.Height != 8 {
		t.Errorf("dims = %dx%d, want 8x8", info.Width, info.Height)
	}
	if info.MipCount != mipCount {
		t.Errorf("mipCount = %d, want %d", info.MipCount, mipCount)
	}
	if !info.Transparent {
		t.Error("expected transparent flag to round trip as true")
	}
	if len(info.Payload) != len(payload) {
		t.Errorf("payload len = %d, want %d", len(info.Payload), len(payload))
	}
}

func TestParseDDSRejectsBadMagic(t *testing.T) {
	_, err := parseDDS(make([]byte, 200))
	if err == nil {
		t.Fatal("expected error for zeroed buffer with no DDS magic")
	}
}
