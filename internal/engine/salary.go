package engine

// InterpolateSalary returns the expected gross salary, in $K, for the given
// employment year from the three anchors reported for years 1, 5 and 10.
// Between anchors the salary moves piecewise-linearly; beyond year 10 it
// stays flat at the year-10 value, and years before 1 are treated as year 1.
func InterpolateSalary(y1, y5, y10 float64, employmentYear int) float64 {
	switch {
	case employmentYear <= 1:
		return y1
	case employmentYear < 5:
		return y1 + (y5-y1)*float64(employmentYear-1)/4.0
	case employmentYear == 5:
		return y5
	case employmentYear < 10:
		return y5 + (y10-y5)*float64(employmentYear-5)/5.0
	default:
		return y10
	}
}
