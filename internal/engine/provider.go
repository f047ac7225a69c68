// ABOUTME: Buffer provider
// ABOUTME: Resolves sound names to ready buffers via asset files or procedural synthesis
package engine

import (
	"context"
	"log"
	"sync"

	"github.com/chime-audio/chime-go/internal/assets"
	"github.com/chime-audio/chime-go/internal/audio"
	"github.com/chime-audio/chime-go/internal/synth"
)

// pendingLoad collapses concurrent retrievals of the same asset into one
// request. Waiters block on done and read buf/err afterwards.
type pendingLoad struct {
	done chan struct{}
	buf  *audio.Buffer
	err  error
}

// Provider resolves a sound name to a ready-to-play buffer: from the decoded
// file cache, from an in-flight load, from asset retrieval, or by procedural
// synthesis. Asset failures permanently drop the file mapping for that sound
// and fall back to synthesis, so playback itself can never fail.
type Provider struct {
	mu         sync.Mutex
	source     assets.Source
	sampleRate int

	defaults map[string]string // sound name -> default asset path
	paths    map[string]string // current asset-path table

	renderCache map[string]*audio.Buffer // sound name -> synthesized
	fileCache   map[string]*audio.Buffer // asset path -> decoded
	pending     map[string]*pendingLoad  // asset path -> in-flight load

	gen uint64 // bumped on reconfiguration to invalidate in-flight loads
}

// NewProvider creates a provider. defaults maps sound names to their default
// asset paths; source may be nil when retrieval is unsupported, which forces
// the procedural path for everything.
func NewProvider(source assets.Source, sampleRate int, defaults map[string]string) *Provider {
	p := &Provider{
		source:      source,
		sampleRate:  sampleRate,
		defaults:    defaults,
		paths:       make(map[string]string),
		renderCache: make(map[string]*audio.Buffer),
		fileCache:   make(map[string]*audio.Buffer),
		pending:     make(map[string]*pendingLoad),
	}
	for k, v := range defaults {
		p.paths[k] = v
	}
	return p
}

// ConfigureAssets resets the asset-path table to defaults, applies overrides
// (an empty value removes the mapping entirely, forcing procedural
// generation), and invalidates the decoded cache and in-flight loads. Unknown
// sound names are ignored.
func (p *Provider) ConfigureAssets(overrides map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.paths = make(map[string]string)
	for k, v := range p.defaults {
		p.paths[k] = v
	}
	for k, v := range overrides {
		if synth.Lookup(k) == nil {
			continue
		}
		if v == "" {
			delete(p.paths, k)
			continue
		}
		p.paths[k] = v
	}

	// Stale assets must never be served after a config change. In-flight
	// loads finish but their results are discarded via the generation check.
	p.fileCache = make(map[string]*audio.Buffer)
	p.pending = make(map[string]*pendingLoad)
	p.gen++
}

// Resolve returns the buffer for a sound name, blocking while a load or
// synthesis is in progress. Returns nil only for unknown names.
func (p *Provider) Resolve(ctx context.Context, name string) *audio.Buffer {
	spec := synth.Lookup(name)
	if spec == nil {
		return nil
	}

	p.mu.Lock()
	path, hasPath := p.paths[name]
	if hasPath && p.source != nil {
		if buf, ok := p.fileCache[path]; ok {
			p.mu.Unlock()
			return buf
		}
		if pl, ok := p.pending[path]; ok {
			p.mu.Unlock()
			<-pl.done
			if pl.err == nil {
				return pl.buf
			}
			p.dropPath(name, path)
			return p.procedural(spec)
		}

		pl := &pendingLoad{done: make(chan struct{})}
		p.pending[path] = pl
		gen := p.gen
		p.mu.Unlock()

		pl.buf, pl.err = p.load(ctx, path)
		close(pl.done)

		p.mu.Lock()
		if p.gen == gen {
			delete(p.pending, path)
			if pl.err == nil {
				p.fileCache[path] = pl.buf
			}
		}
		p.mu.Unlock()

		if pl.err == nil {
			return pl.buf
		}
		log.Printf("Asset load failed for %q, falling back to synthesis: %v", name, pl.err)
		p.dropPath(name, path)
		return p.procedural(spec)
	}
	p.mu.Unlock()

	return p.procedural(spec)
}

// load retrieves and decodes one asset
func (p *Provider) load(ctx context.Context, path string) (*audio.Buffer, error) {
	data, err := p.source.Retrieve(ctx, path)
	if err != nil {
		return nil, err
	}
	return assets.Decode(path, data, p.sampleRate)
}

// dropPath removes a known-bad asset mapping so later plays never retry it
func (p *Provider) dropPath(name, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paths[name] == path {
		delete(p.paths, name)
	}
}

// procedural returns the synthesized buffer, generating and caching it on
// first use.
func (p *Provider) procedural(spec *synth.Spec) *audio.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if buf, ok := p.renderCache[spec.Name]; ok {
		return buf
	}
	buf := synth.Render(spec, p.sampleRate)
	p.renderCache[spec.Name] = buf
	return buf
}

// HasAsset reports whether a file path is currently configured for a sound
func (p *Provider) HasAsset(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.paths[name]
	return ok
}
