package color

import (
	"bytes"
	"context"
	"fmt"
	"image"
	stdcolor "image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

const (
	// Sampling grid: the logo is shrunk to 16x16 before averaging.
	_sampleGrid = 16

	// Pixels below the opacity floor are background; pixels whose mean
	// channel falls outside (25, 230) are near-black letterforms or
	// near-white background and would bias the average.
	_alphaFloor = 100
	_lumLow     = 25
	_lumHigh    = 230
)

// rgbSample is the average color of a logo's usable pixels. ok is false
// when no pixel survived the filters, which is a valid outcome and not an
// error.
type rgbSample struct {
	r, g, b float64
	ok      bool
}

// sampleImage decodes raw image bytes, downscales to the sampling grid and
// averages the surviving pixels.
func sampleImage(data []byte) (rgbSample, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return rgbSample{}, fmt.Errorf("%w: can't decode logo image", err)
	}

	grid := image.NewRGBA(image.Rect(0, 0, _sampleGrid, _sampleGrid))
	xdraw.ApproxBiLinear.Scale(grid, grid.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	var rSum, gSum, bSum float64
	var n int
	for y := 0; y < _sampleGrid; y++ {
		for x := 0; x < _sampleGrid; x++ {
			px := stdcolor.NRGBAModel.Convert(grid.At(x, y)).(stdcolor.NRGBA)
			if px.A < _alphaFloor {
				continue
			}
			lum := (float64(px.R) + float64(px.G) + float64(px.B)) / 3
			if lum < _lumLow || lum > _lumHigh {
				continue
			}
			rSum += float64(px.R)
			gSum += float64(px.G)
			bSum += float64(px.B)
			n++
		}
	}

	if n == 0 {
		return rgbSample{}, nil
	}

	return rgbSample{
		r:  rSum / float64(n),
		g:  gSum / float64(n),
		b:  bSum / float64(n),
		ok: true,
	}, nil
}

// sampleLogo fetches and samples one logo URL, caching the result (hit or
// no-sample) for the process lifetime so an image is never decoded twice.
func (e *Engine) sampleLogo(ctx context.Context, url string) rgbSample {
	e.mu.Lock()
	if cached, found := e.samples[url]; found {
		e.mu.Unlock()
		return cached
	}
	e.mu.Unlock()

	sample := e.fetchAndSample(ctx, url)

	e.mu.Lock()
	e.samples[url] = sample
	e.mu.Unlock()

	return sample
}

func (e *Engine) fetchAndSample(ctx context.Context, url string) rgbSample {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.c.R().SetContext(ctx).Get(url)
	if err != nil {
		e.logger.Warnf("%s: can't fetch logo %s", err, url)
		return rgbSample{}
	}
	defer resp.Body.Close()

	if resp.IsError() {
		e.logger.Warnf("logo %s returned status %s", url, resp.Status())
		return rgbSample{}
	}

	sample, err := sampleImage(resp.Bytes())
	if err != nil {
		e.logger.Warnf("%s: logo %s", err, url)
		return rgbSample{}
	}
	return sample
}
