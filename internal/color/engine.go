// Package color assigns each traded symbol a deterministic, perceptually
// distinct display color, derived from the brand's logo pixels when a logo
// is available.
package color

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"sync"
	"time"

	"resty.dev/v3"

	"github.com/etoro-tools/portfolio-sync/internal/enrich"
	"github.com/etoro-tools/portfolio-sync/internal/logger"
	"github.com/etoro-tools/portfolio-sync/internal/model"
)

const (
	// Adjacent hues closer than this are pushed apart, unless N is large
	// enough that 360/N is the tighter bound.
	_minHueGap = 50.0

	_huePasses  = 12
	_hueEpsilon = 0.1
)

type Engine struct {
	c       *resty.Client
	timeout time.Duration
	logger  logger.Logger

	mu      sync.Mutex
	samples map[string]rgbSample
}

func NewEngine(timeout time.Duration, logger logger.Logger) *Engine {
	return &Engine{
		c:       resty.New().SetLogger(logger),
		timeout: timeout,
		logger:  logger,
		samples: make(map[string]rgbSample),
	}
}

type hueEntry struct {
	symbol  string
	l, c, h float64
}

// SymbolColors builds the symbol-to-color map for an enriched position set.
// Symbols whose logo yields no usable sample are simply absent; look them
// up with Categorical instead.
func (e *Engine) SymbolColors(ctx context.Context, positions []model.EnrichedPosition) map[string]string {
	groups := enrich.GroupBySymbol(positions)

	type sampled struct {
		symbol string
		rgb    rgbSample
	}

	var (
		mu          sync.Mutex
		wg          sync.WaitGroup
		sampledSyms []sampled
	)
	for _, g := range groups {
		if g.LogoURL == nil {
			continue
		}
		wg.Add(1)
		go func(symbol, url string) {
			defer wg.Done()
			rgb := e.sampleLogo(ctx, url)
			if !rgb.ok {
				return
			}
			mu.Lock()
			sampledSyms = append(sampledSyms, sampled{symbol: symbol, rgb: rgb})
			mu.Unlock()
		}(g.Symbol, *g.LogoURL)
	}
	wg.Wait()

	// Deterministic input order before the sort inside deconfliction.
	sort.Slice(sampledSyms, func(i, j int) bool { return sampledSyms[i].symbol < sampledSyms[j].symbol })

	entries := make([]*hueEntry, 0, len(sampledSyms))
	for _, s := range sampledSyms {
		l, c, h := rgbToOklch(s.rgb.r, s.rgb.g, s.rgb.b)
		entries = append(entries, &hueEntry{symbol: s.symbol, l: l, c: c, h: h})
	}

	deconflictHues(entries)

	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		r, g, b := oklchToRGB(TargetLightness, clampChroma(entry.c), entry.h)
		result[entry.symbol] = fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)
	}
	return result
}

// deconflictHues greedily relaxes hue collisions: sort by hue, push each
// circularly-adjacent pair below the separation target apart by half the
// deficit plus a small epsilon, repeat until a pass makes no adjustment or
// the pass budget runs out. Not globally optimal, but deterministic and
// convergent for realistic symbol counts.
func deconflictHues(entries []*hueEntry) {
	n := len(entries)
	if n <= 1 {
		return
	}

	gap := math.Min(_minHueGap, 360/float64(n))

	for pass := 0; pass < _huePasses; pass++ {
		sort.Slice(entries, func(i, j int) bool { return entries[i].h < entries[j].h })
		moved := false

		for i := 0; i < n; i++ {
			j := (i + 1) % n
			hi := entries[i].h
			hj := entries[j].h
			diff := math.Mod(hj-hi+360, 360)

			if diff < gap {
				push := (gap-diff)/2 + _hueEpsilon
				entries[i].h = math.Mod(math.Mod(hi-push, 360)+360, 360)
				entries[j].h = math.Mod(hj+push, 360)
				moved = true
			}
		}

		if !moved {
			break
		}
	}
}

// The fallback palette for symbols without a sampled logo color.
var _categorical = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// Categorical returns a stable procedurally-assigned color for a symbol.
func Categorical(symbol string) string {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return _categorical[h.Sum32()%uint32(len(_categorical))]
}
