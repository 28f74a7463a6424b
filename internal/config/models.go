package config

import (
	"github.com/muurk/linkframe/internal/checksum"
	"github.com/muurk/linkframe/internal/medium"
	"github.com/muurk/linkframe/internal/protocol"
)

// CurrentVersion is the only config file version this build reads.
const CurrentVersion = 1

// Config represents the entire configuration file.
type Config struct {
	Version int     `yaml:"version"`
	Framing Framing `yaml:"framing"`
	CRC     CRC     `yaml:"crc"`
	Parity  Parity  `yaml:"parity"`
	Medium  Medium  `yaml:"medium"`
	Log     Log     `yaml:"log"`
}

// Framing selects the error detection scheme and the frame layout. Tag
// values may be written in YAML as decimal or hex (0x7b).
type Framing struct {
	Scheme    string `yaml:"scheme"`     // "crc" or "parity"
	StartTag  byte   `yaml:"start_tag"`  // Marks the beginning of a frame
	StopTag   byte   `yaml:"stop_tag"`   // Marks the end of a frame
	EscapeTag byte   `yaml:"escape_tag"` // Precedes tag values inside a frame
	MaxChunk  int    `yaml:"max_chunk"`  // Payload bytes per frame
}

// CRC is the generator polynomial used by the crc scheme.
type CRC struct {
	Generator uint `yaml:"generator"`  // Including the leading 1 bit
	BitLength int  `yaml:"bit_length"` // Number of significant bits in Generator
}

// Parity holds the trailer sentinels used by the parity scheme.
type Parity struct {
	Even byte `yaml:"even"`
	Odd  byte `yaml:"odd"`
}

// Medium configures the simulated link.
type Medium struct {
	Type        string  `yaml:"type"`                   // perfect, fragmenting, lownoise, highnoise
	NoiseRate   float64 `yaml:"noise_rate,omitempty"`   // Per-bit flip probability; 0 uses the type's default
	MaxFragment int     `yaml:"max_fragment,omitempty"` // Largest fragment the medium delivers
	Seed        uint64  `yaml:"seed"`                   // Seed for fragmentation and noise
	Buffer      int     `yaml:"buffer,omitempty"`       // Fragments in flight
}

// Log configures logging output.
type Log struct {
	Level      string `yaml:"level,omitempty"` // debug, info, warn, error; empty is silent
	File       string `yaml:"file,omitempty"`  // Rotating JSON log file
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
	Compress   bool   `yaml:"compress,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Framing: Framing{
			Scheme:    string(protocol.SchemeCRC),
			StartTag:  protocol.DefaultStartTag,
			StopTag:   protocol.DefaultStopTag,
			EscapeTag: protocol.DefaultEscapeTag,
			MaxChunk:  protocol.DefaultMaxChunk,
		},
		CRC: CRC{
			Generator: checksum.DefaultPolynomial.Generator,
			BitLength: checksum.DefaultPolynomial.BitLength,
		},
		Parity: Parity{
			Even: protocol.DefaultEvenSentinel,
			Odd:  protocol.DefaultOddSentinel,
		},
		Medium: Medium{
			Type:        string(medium.TypePerfect),
			MaxFragment: medium.DefaultMaxFragment,
			Buffer:      medium.DefaultBuffer,
		},
		Log: Log{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
