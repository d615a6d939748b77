package model

import "math"

// taylorPoly represents a degree-<=3 polynomial in Taylor-coefficient form
// relative to the model's current t_last: p(dt) = p[0] + p[1]*dt +
// p[2]*dt^2 + p[3]*dt^3, where p[1] is the first derivative, p[2] is half
// the second derivative, and p[3] is a sixth of the third derivative — the
// convention that makes shiftPoly below a plain Taylor shift.
type taylorPoly [4]float64

// evalPoly evaluates p at dt via Horner's method.
func evalPoly(p taylorPoly, dt float64) float64 {
	return p[0] + dt*(p[1]+dt*(p[2]+dt*p[3]))
}

// evalDeriv evaluates p's first derivative at dt.
func evalDeriv(p taylorPoly, dt float64) float64 {
	return p[1] + dt*(2*p[2]+dt*3*p[3])
}

// shiftPoly re-expresses p around a new origin dt later, i.e. returns the
// Taylor coefficients of the same underlying function at t_last+dt.
func shiftPoly(p taylorPoly, dt float64) taylorPoly {
	return taylorPoly{
		p[0] + dt*(p[1]+dt*(p[2]+dt*p[3])),
		p[1] + dt*(2*p[2]+dt*3*p[3]),
		p[2] + dt*3*p[3],
		p[3],
	}
}

// requantize copies the first `level` Taylor coefficients of x (the
// quantized state's degree is one less than the integrator's level) into a
// fresh q polynomial, zeroing the rest.
func requantize(x taylorPoly, level int) taylorPoly {
	var q taylorPoly
	for i := 0; i < level && i < 4; i++ {
		q[i] = x[i]
	}
	return q
}

// offsetSigma finds the smallest dt >= 0 at which |eval(x,dt)-eval(q,dt)| ==
// dQ, by bracketing then bisecting on the offset polynomial. Using a
// numeric root search (rather than the closed-form per-order crossing
// formulas) lets one routine serve QSS1, QSS2 and QSS3 uniformly.
func offsetSigma(x, q taylorPoly, dQ float64) float64 {
	offset := func(dt float64) float64 {
		return evalPoly(x, dt) - evalPoly(q, dt)
	}

	f0 := offset(0)
	if math.Abs(f0) >= dQ {
		return 0
	}

	const maxDt = 1e9
	lo, hi := 0.0, 1e-6
	for {
		fh := offset(hi)
		if math.Abs(fh) >= dQ {
			break
		}
		if hi >= maxDt {
			return math.Inf(1)
		}
		lo = hi
		hi *= 2
	}

	target := dQ
	if offset(hi) < 0 {
		target = -dQ
	}
	g := func(dt float64) float64 { return offset(dt) - target }

	glo, ghi := g(lo), g(hi)
	if glo == 0 {
		return clampSigma(lo)
	}
	for i := 0; i < 100 && hi-lo > 1e-12*(1+hi); i++ {
		mid := lo + (hi-lo)/2
		gm := g(mid)
		if gm == 0 {
			return clampSigma(mid)
		}
		if (gm < 0) == (glo < 0) {
			lo, glo = mid, gm
		} else {
			hi, ghi = mid, gm
		}
	}
	_ = ghi
	return clampSigma(lo + (hi-lo)/2)
}
