// Package reference holds closed-form prices used to validate simulated
// estimates. Simulation code never depends on it.
package reference

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var ErrInvalidInput = errors.New("reference: invalid input")

// SquareRootBond returns the zero-coupon bond price P(0, T) under
// dr = a(b - r) dt + σ sqrt(r) dW:
//
//	P = A·exp(-B·r0), h = sqrt(a² + 2σ²)
//	A = [2h·e^{(a+h)T/2} / (2h + (a+h)(e^{hT} - 1))]^{2ab/σ²}
//	B = 2(e^{hT} - 1) / (2h + (a+h)(e^{hT} - 1))
func SquareRootBond(speed, level, vol, r0, maturity float64) (float64, error) {
	if vol <= 0 || maturity <= 0 || speed < 0 {
		return 0, ErrInvalidInput
	}
	h := math.Sqrt(speed*speed + 2*vol*vol)
	growth := math.Expm1(h * maturity)
	denom := 2*h + (speed+h)*growth

	a := math.Pow(2*h*math.Exp((speed+h)*maturity/2)/denom, 2*speed*level/(vol*vol))
	b := 2 * growth / denom
	return a * math.Exp(-b*r0), nil
}

// BlackScholesCall returns the European call price under geometric Brownian
// motion with constant rate and volatility.
func BlackScholesCall(spot, strike, rate, vol, maturity float64) (float64, error) {
	d1, d2, err := blackScholesD(spot, strike, rate, vol, maturity)
	if err != nil {
		return 0, err
	}
	return spot*distuv.UnitNormal.CDF(d1) - strike*math.Exp(-rate*maturity)*distuv.UnitNormal.CDF(d2), nil
}

// BlackScholesPut returns the European put price.
func BlackScholesPut(spot, strike, rate, vol, maturity float64) (float64, error) {
	d1, d2, err := blackScholesD(spot, strike, rate, vol, maturity)
	if err != nil {
		return 0, err
	}
	return strike*math.Exp(-rate*maturity)*distuv.UnitNormal.CDF(-d2) - spot*distuv.UnitNormal.CDF(-d1), nil
}

func blackScholesD(spot, strike, rate, vol, maturity float64) (float64, float64, error) {
	if spot <= 0 || strike <= 0 || vol <= 0 || maturity <= 0 {
		return 0, 0, ErrInvalidInput
	}
	sqrtT := math.Sqrt(maturity)
	d1 := (math.Log(spot/strike) + (rate+0.5*vol*vol)*maturity) / (vol * sqrtT)
	return d1, d1 - vol*sqrtT, nil
}
