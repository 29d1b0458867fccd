// SPDX-License-Identifier: EPL-2.0

package spectral

import "fmt"

const (
	DefaultNFFT      = 2048
	DefaultHopLength = 512
	DefaultTopDB     = 80.0
)

// Config describes the STFT and mel filterbank of an Extractor.
type Config struct {
	SampleRate int
	NFFT       int
	HopLength  int
	Bands      int
	FMin       float64
	FMax       float64 // 0 means SampleRate/2
}

// DefaultConfig returns the standard STFT settings for the given rate and band count.
func DefaultConfig(sampleRate, bands int) Config {
	return Config{
		SampleRate: sampleRate,
		NFFT:       DefaultNFFT,
		HopLength:  DefaultHopLength,
		Bands:      bands,
	}
}

func (c Config) fmax() float64 {
	if c.FMax > 0 {
		return c.FMax
	}

	return float64(c.SampleRate) / 2
}

func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	case c.NFFT < 2 || c.NFFT%2 != 0:
		return fmt.Errorf("%w: n_fft %d must be even and >= 2", ErrInvalidConfig, c.NFFT)
	case c.HopLength < 1:
		return fmt.Errorf("%w: hop length %d", ErrInvalidConfig, c.HopLength)
	case c.Bands < 1:
		return fmt.Errorf("%w: %d mel bands", ErrInvalidConfig, c.Bands)
	case c.FMin < 0 || c.FMin >= c.fmax():
		return fmt.Errorf("%w: frequency range [%g, %g]", ErrInvalidConfig, c.FMin, c.fmax())
	case c.fmax() > float64(c.SampleRate)/2:
		return fmt.Errorf("%w: fmax %g above Nyquist", ErrInvalidConfig, c.fmax())
	}

	return nil
}
