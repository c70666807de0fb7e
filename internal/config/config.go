package config

import "time"

const (
	WindowWidth  = 1280
	WindowHeight = 720

	// Background tuning (reference values)
	ParticleDensity  = 30000.0 // px² per particle
	MaxParticles     = 60
	ParticleSpeed    = 0.15
	MinParticleSize  = 0.5
	MaxParticleSize  = 2.3
	ConnectDistance  = 120.0
	PointerRadius    = 150.0
	PushDamping      = 0.02
	MaxLineAlpha     = 0.15
	ParticleAlpha    = 0.5
	PointerThrottle  = 16 * time.Millisecond
	TerminalFrameDur = 16 * time.Millisecond

	// Terminal cells are mapped onto a virtual pixel grid of this size
	CellPixelWidth  = 8
	CellPixelHeight = 16

	// Chat relay
	DefaultEndpoint  = "http://127.0.0.1:8080/v1/completions"
	HistoryLimit     = 10
	MaxTokens        = 220
	Temperature      = 0.5
	RelayTimeout     = 60 * time.Second
	DefaultLocale    = "en"
	DefaultAddr      = ":8090"
	DefaultModelName = "local"
)
