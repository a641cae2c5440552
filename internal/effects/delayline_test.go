package effects

import "testing"

func TestDelayLineRoundTrip(t *testing.T) {
	const n = 64
	d := NewDelayLine(n)
	for i := 0; i < n; i++ {
		d.Write(float32(i + 1))
	}
	// the sample written k writes ago is value n-k+1, and Read(0) is the
	// slot written n writes ago
	for k := 0; k < n; k++ {
		want := float32(n - k + 1)
		if k == 0 {
			want = 1
		}
		if got := d.Read(k); got != want {
			t.Errorf("Read(%d) = %v, want %v", k, got, want)
		}
	}
}

func TestDelayLineOneSampleDelay(t *testing.T) {
	d := NewDelayLine(8)
	for i := 1; i <= 20; i++ {
		d.Write(float32(i))
		if got := d.Read(1); got != float32(i) {
			t.Fatalf("after write %d, Read(1) = %v", i, got)
		}
		if i > 3 {
			if got := d.Read(3); got != float32(i-2) {
				t.Fatalf("after write %d, Read(3) = %v, want %v", i, got, i-2)
			}
		}
	}
}

func TestDelayLineClampsOutOfRange(t *testing.T) {
	d := NewDelayLine(4)
	for i := 1; i <= 4; i++ {
		d.Write(float32(i))
	}
	if got, want := d.Read(100), d.Read(3); got != want {
		t.Errorf("Read(100) = %v, want clamp to Read(3) = %v", got, want)
	}
	if got, want := d.Read(-5), d.Read(0); got != want {
		t.Errorf("Read(-5) = %v, want clamp to Read(0) = %v", got, want)
	}
	if got := d.ClampTap(0); got != 1 {
		t.Errorf("ClampTap(0) = %d, want 1", got)
	}
	if got := d.ClampTap(9); got != 3 {
		t.Errorf("ClampTap(9) = %d, want 3", got)
	}
}

func TestDelayLineSizing(t *testing.T) {
	if got := NewDelayLineSeconds(0.3, 1000).Capacity(); got != 300 {
		t.Errorf("capacity = %d, want 300", got)
	}
	if got := NewDelayLine(0).Capacity(); got != 1 {
		t.Errorf("capacity = %d, want 1", got)
	}
}

func TestDelayLineReset(t *testing.T) {
	d := NewDelayLine(4)
	d.Write(1)
	d.Write(2)
	d.Reset()
	for k := 0; k < 4; k++ {
		if d.Read(k) != 0 {
			t.Fatalf("Read(%d) not zero after reset", k)
		}
	}
}
