package wind

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
)

// SummaryReport renders sample count, speed statistics, prevailing direction,
// calm/strong event counts at the default thresholds and mean power density.
func (e *Engine) SummaryReport() (string, error) {
	st, err := e.BasicStatistics()
	if err != nil {
		return "", err
	}
	prevailing, err := e.PrevailingDirection()
	if err != nil {
		return "", err
	}
	calm, err := e.DetectCalmPeriods(DefaultCalmThreshold)
	if err != nil {
		return "", err
	}
	strong, err := e.DetectStrongWindEvents(DefaultStrongThreshold)
	if err != nil {
		return "", err
	}
	power, err := e.PowerDensity(DefaultAirDensity)
	if err != nil {
		return "", err
	}
	meanPower, _ := stats.Mean(power)

	title := "Wind Data Analysis Report"
	if e.name != "" {
		title += " - " + e.name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", title, strings.Repeat("=", 50))

	fmt.Fprintf(&b, "Data Summary:\n")
	fmt.Fprintf(&b, "  Total Observations: %d\n\n", len(e.data))

	fmt.Fprintf(&b, "Wind Speed Statistics:\n")
	fmt.Fprintf(&b, "  Mean Speed: %.2f m/s\n", st.Mean)
	fmt.Fprintf(&b, "  Median Speed: %.2f m/s\n", st.Median)
	fmt.Fprintf(&b, "  Std Deviation: %.2f m/s\n", st.StdDev)
	fmt.Fprintf(&b, "  Min Speed: %.2f m/s\n", st.Min)
	fmt.Fprintf(&b, "  Max Speed: %.2f m/s\n\n", st.Max)

	fmt.Fprintf(&b, "Wind Direction:\n")
	fmt.Fprintf(&b, "  Prevailing Direction: %.1f°\n", prevailing.Direction)
	fmt.Fprintf(&b, "  Prevailing Frequency: %.1f%%\n\n", prevailing.Percentage)

	fmt.Fprintf(&b, "Wind Events:\n")
	fmt.Fprintf(&b, "  Calm Periods (< %g m/s): %d\n", DefaultCalmThreshold, len(calm))
	fmt.Fprintf(&b, "  Strong Wind Events (> %g m/s): %d\n\n", DefaultStrongThreshold, len(strong))

	fmt.Fprintf(&b, "Average Power Density: %.2f W/m²\n", meanPower)

	return b.String(), nil
}
