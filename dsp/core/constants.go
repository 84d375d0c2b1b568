package core

import "math"

// Pi returns π.
func Pi[F Float]() F { return F(math.Pi) }

// HalfPi returns π/2.
func HalfPi[F Float]() F { return F(math.Pi / 2) }

// QuarterPi returns π/4.
func QuarterPi[F Float]() F { return F(math.Pi / 4) }

// TwoPi returns 2π.
func TwoPi[F Float]() F { return F(2 * math.Pi) }

// OneOverPi returns 1/π.
func OneOverPi[F Float]() F { return F(1 / math.Pi) }

// TwoOverPi returns 2/π.
func TwoOverPi[F Float]() F { return F(2 / math.Pi) }

// ThreeOverTwoPi returns 3π/2.
func ThreeOverTwoPi[F Float]() F { return F(3 * math.Pi / 2) }

// TwoOverSqrtPi returns 2/√π.
func TwoOverSqrtPi[F Float]() F { return F(2 / math.SqrtPi) }

// SqrtTwo returns √2.
func SqrtTwo[F Float]() F { return F(math.Sqrt2) }

// TwoSqrtTwo returns 2√2.
func TwoSqrtTwo[F Float]() F { return F(2 * math.Sqrt2) }

// OneOverSqrtTwo returns 1/√2.
func OneOverSqrtTwo[F Float]() F { return F(1 / math.Sqrt2) }

// OneOverTwoSqrtTwo returns 1/(2√2).
func OneOverTwoSqrtTwo[F Float]() F { return F(1 / (2 * math.Sqrt2)) }
