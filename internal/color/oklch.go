package color

import "math"

// Assigned colors share one lightness and a clamped chroma band so every
// symbol carries uniform visual weight; only the hue comes from the logo.
const (
	TargetLightness = 0.79
	MinChroma       = 0.25
	MaxChroma       = 0.4
)

func srgbToLinear(c float64) float64 {
	s := c / 255
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

func linearToSrgb(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

// rgbToOklch converts 8-bit sRGB channels to OKLab polar form: lightness,
// chroma and a hue angle in [0, 360).
func rgbToOklch(r, g, b float64) (float64, float64, float64) {
	lr := srgbToLinear(r)
	lg := srgbToLinear(g)
	lb := srgbToLinear(b)

	// linear sRGB -> LMS cone response (OKLab M1)
	l := 0.4122214708*lr + 0.5363325363*lg + 0.0514459929*lb
	m := 0.2119034982*lr + 0.6806995451*lg + 0.1073969566*lb
	s := 0.0883024619*lr + 0.2817188376*lg + 0.6299787005*lb

	lc := math.Cbrt(l)
	mc := math.Cbrt(m)
	sc := math.Cbrt(s)

	// cube-rooted LMS -> OKLab (M2)
	lightness := 0.2104542553*lc + 0.793617785*mc - 0.0040720468*sc
	a := 1.9779984951*lc - 2.428592205*mc + 0.4505937099*sc
	bv := 0.0259040371*lc + 0.7827717662*mc - 0.808675766*sc

	chroma := math.Hypot(a, bv)
	hue := math.Mod(math.Atan2(bv, a)*180/math.Pi+360, 360)

	return lightness, chroma, hue
}

// oklchToRGB runs the inverse transform, clamping each channel to [0, 255]
// and rounding.
func oklchToRGB(lightness, chroma, hue float64) (uint8, uint8, uint8) {
	hRad := hue * math.Pi / 180
	a := chroma * math.Cos(hRad)
	b := chroma * math.Sin(hRad)

	lc := lightness + 0.3963377774*a + 0.2158037573*b
	mc := lightness - 0.1055613458*a - 0.0638541728*b
	sc := lightness - 0.0894841775*a - 1.291485548*b

	l := lc * lc * lc
	m := mc * mc * mc
	s := sc * sc * sc

	lr := 4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	lg := -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	lb := -0.0041960863*l - 0.7034186147*m + 1.707614701*s

	return clampChannel(linearToSrgb(lr)), clampChannel(linearToSrgb(lg)), clampChannel(linearToSrgb(lb))
}

func clampChannel(c float64) uint8 {
	return uint8(math.Round(math.Min(255, math.Max(0, c*255))))
}

func clampChroma(c float64) float64 {
	return math.Min(math.Max(c, MinChroma), MaxChroma)
}
