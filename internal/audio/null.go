package audio

import (
	"context"
	"sync"
	"time"
)

// NullPlayer pulls periods on a wall-clock ticker and discards them. It
// keeps the engine running in real time on machines without a sound device.
type NullPlayer struct {
	reader *StreamReader
	period time.Duration
	buf    []byte

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewNullPlayer(sampleRate, blockSize int, source SampleSource) *NullPlayer {
	if blockSize <= 0 {
		blockSize = 512
	}
	period := blockDuration(sampleRate, blockSize)
	if period <= 0 {
		period = 10 * time.Millisecond
	}
	return &NullPlayer{
		reader: NewStreamReader(source),
		period: period,
		buf:    make([]byte, blockSize*8),
	}
}

func (p *NullPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.wg.Add(1)
	go p.run(ctx)
}

func (p *NullPlayer) run(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.reader.Read(p.buf); err != nil {
				return
			}
		}
	}
}

// Pause stops pulling and returns once the pull goroutine has exited.
func (p *NullPlayer) Pause() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *NullPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *NullPlayer) Stop() error {
	p.Pause()
	return p.reader.Close()
}
