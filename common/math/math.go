package math

import (
	"math"
)

// daysPerYear is used when annualising volatility from daily samples
const daysPerYear = 365.25

// ArithmeticAverage is the basic form of calculating an average.
// Divide the sum of all values by the length of values
func ArithmeticAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumOfValues float64
	for x := range values {
		sumOfValues += values[x]
	}
	return sumOfValues / float64(len(values))
}

// GeometricAverage is an average which indicates the central tendency or
// typical value of a set of numbers by using the product of their values
// The geometric average can only process positive numbers
func GeometricAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	product := 1.0
	for i := range values {
		if values[i] <= 0 {
			// cannot use negative or zero values in geometric calculation
			return 0
		}
		product *= values[i]
	}
	return math.Pow(product, 1/float64(len(values)))
}

// SampleStandardDeviation standard deviation is a statistic that
// measures the dispersion of a dataset relative to its mean and
// is calculated as the square root of the variance
func SampleStandardDeviation(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	mean := ArithmeticAverage(values)
	var combined float64
	for i := range values {
		combined += math.Pow(values[i]-mean, 2)
	}
	return math.Sqrt(combined / (float64(len(values)) - 1))
}

// AnnualisedVolatility converts a series of daily sampled portfolio values
// into the annualised standard deviation of their logarithmic returns
func AnnualisedVolatility(dailyValues []float64) float64 {
	if len(dailyValues) <= 1 {
		return 0
	}
	logReturns := make([]float64, 0, len(dailyValues)-1)
	for i := 1; i < len(dailyValues); i++ {
		if dailyValues[i-1] <= 0 || dailyValues[i] <= 0 {
			return 0
		}
		logReturns = append(logReturns, math.Log(dailyValues[i]/dailyValues[i-1]))
	}
	return SampleStandardDeviation(logReturns) * math.Sqrt(daysPerYear)
}
