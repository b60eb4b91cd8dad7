// SPDX-License-Identifier: EPL-2.0

package radiobox

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ik5/radiobox/audio"
	"github.com/ik5/radiobox/catalog"
	"github.com/ik5/radiobox/config"
	"github.com/ik5/radiobox/device"
	"github.com/ik5/radiobox/engine"
	"github.com/ik5/radiobox/formats/aiff"
	"github.com/ik5/radiobox/formats/mp3"
	"github.com/ik5/radiobox/formats/vorbis"
	"github.com/ik5/radiobox/formats/wav"
	"github.com/ik5/radiobox/player"
	"github.com/ik5/radiobox/synth"
)

// ErrBackendUnavailable is returned when the configured output backend was
// not compiled in.
var ErrBackendUnavailable = errors.New("output backend not available")

// DefaultRegistry returns a registry with every bundled decoder.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("mp3", mp3.Decoder{})
	r.Register("wav", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	return r
}

// Output is a main output that also plays ephemeral sounds.
type Output interface {
	device.Output
	device.SoundOutput
}

type options struct {
	log     *logrus.Logger
	catalog *catalog.Catalog
	output  Output
	input   device.Input
	session device.Session
	rng     *rand.Rand
}

// Option overrides a part Open would otherwise build from the config.
type Option func(*options)

// WithLogger replaces the logger built from the log settings.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithCatalog replaces the built-in track list.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithOutput replaces the configured output backend.
func WithOutput(out Output) Option {
	return func(o *options) { o.output = out }
}

// WithInput replaces the capture device used for monitoring.
func WithInput(in device.Input) Option {
	return func(o *options) { o.input = in }
}

// WithSession replaces the no-op audio session.
func WithSession(s device.Session) Option {
	return func(o *options) { o.session = s }
}

// WithRand seeds noise generation.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// Box is a running radio: devices, engine and controller wired together.
type Box struct {
	Controller *player.Controller
	Engine     *engine.Engine
	Catalog    *catalog.Catalog
	Resolver   *catalog.Resolver
	Bank       *synth.Bank

	cfg    config.Config
	output Output
	input  device.Input
	log    logrus.FieldLogger

	closeOnce sync.Once
	closeErr  error
}

// Open builds and starts a Box from cfg.
func Open(cfg config.Config, opts ...Option) (*Box, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.log == nil {
		log, err := cfg.Logger()
		if err != nil {
			return nil, err
		}
		o.log = log
	}
	log := o.log.WithField("component", "radiobox")

	rate, channels := cfg.Audio.SampleRate, cfg.Audio.Channels
	filter, err := cfg.FilterMode()
	if err != nil {
		return nil, err
	}

	// The artifact buffers must exist before any node can be routed.
	bank, err := synth.NewBank(rate, channels, o.rng)
	if err != nil {
		return nil, fmt.Errorf("generate buffers: %w", err)
	}

	if o.session == nil {
		o.session = device.NewNopSession(o.log)
	}
	if o.input == nil {
		o.input = openInput(cfg, o.log)
	}

	eng, err := engine.New(engine.Config{
		SampleRate: rate,
		Channels:   channels,
		Bank:       bank,
		Session:    o.session,
		Input:      o.input,
		Logger:     o.log,
	})
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	if o.output == nil {
		o.output, err = openOutput(cfg, o.log)
		if err != nil {
			return nil, err
		}
	}
	if err := o.output.Start(eng); err != nil {
		_ = o.output.Close()
		return nil, fmt.Errorf("start output: %w", err)
	}

	resolver := catalog.NewResolver(cfg.AssetDirs, DefaultRegistry(), o.log)
	if err := resolver.Preload(catalog.DefaultSounds...); err != nil {
		log.WithError(err).Warn("ui sounds unavailable")
	}

	cat := o.catalog
	if cat == nil {
		cat = catalog.Default()
	}

	pool := player.NewSoundPool(o.output, resolver, rate, channels, cfg.Player.MaxTickPlayers, cfg.Player.TickVolume, o.log)
	ctl, err := player.New(eng, resolver, cat, pool, player.Options{
		Debounce:       cfg.Player.Debounce,
		MaxTickPlayers: cfg.Player.MaxTickPlayers,
		TickVolume:     cfg.Player.TickVolume,
		Volume:         cfg.Player.Volume,
		Filter:         filter,
		Logger:         o.log,
	})
	if err != nil {
		_ = o.output.Close()
		_ = eng.Close()
		return nil, fmt.Errorf("controller: %w", err)
	}

	log.WithFields(logrus.Fields{
		"rate":     rate,
		"channels": channels,
		"output":   cfg.Audio.Output,
		"tracks":   cat.Len(),
	}).Info("radio ready")

	return &Box{
		Controller: ctl,
		Engine:     eng,
		Catalog:    cat,
		Resolver:   resolver,
		Bank:       bank,
		cfg:        cfg,
		output:     o.output,
		input:      o.input,
		log:        log,
	}, nil
}

// Config returns the settings the box was opened with.
func (b *Box) Config() config.Config { return b.cfg }

// Output returns the running output backend.
func (b *Box) Output() Output { return b.output }

// Close stops the controller, then the engine and devices.
func (b *Box) Close() error {
	b.closeOnce.Do(func() {
		errs := []error{b.Controller.Close()}
		errs = append(errs, b.output.Stop(), b.Engine.Close(), b.output.Close())
		if b.input != nil {
			errs = append(errs, b.input.Close())
		}
		b.closeErr = errors.Join(errs...)
		if b.closeErr != nil {
			b.log.WithError(b.closeErr).Warn("close")
		}
	})
	return b.closeErr
}
