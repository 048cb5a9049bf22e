package chart

import (
	"fmt"
	"strings"
	"time"

	"github.com/denisheim/Sleeping-Barber-Problem/pkg/simulation"
)

const chartWidth = 80

// TimePoint is the shop state reconstructed at one moment of the run
type TimePoint struct {
	Time    time.Time
	Waiting int
	Cutting bool
}

// BuildTimeline folds the event log into a sequence of time points, one
// per state-changing event, tracking waiting-room occupancy and whether
// the barber is mid-cut.
func BuildTimeline(events []simulation.Event) []TimePoint {
	points := []TimePoint{}
	waiting := 0
	cutting := false

	for _, event := range events {
		switch event.Type {
		case simulation.EventCustomerAdmitted:
			waiting++
		case simulation.EventServiceStarted:
			if waiting > 0 {
				waiting--
			}
			cutting = true
		case simulation.EventServiceEnded:
			cutting = false
		default:
			continue
		}

		points = append(points, TimePoint{
			Time:    event.Time,
			Waiting: waiting,
			Cutting: cutting,
		})
	}

	return points
}

// Generator generates ASCII charts
type Generator struct {
	width int
}

// NewGenerator creates a new chart generator
func NewGenerator() *Generator {
	return &Generator{width: chartWidth}
}

// GenerateOccupancyChart renders waiting-room occupancy over the run, one
// row per chair plus a row for the barber chair.
func (g *Generator) GenerateOccupancyChart(points []TimePoint, capacity int) string {
	if len(points) == 0 {
		return "No data to display"
	}

	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Waiting Room Occupancy Over Time\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	cols := len(points)
	if cols > g.width-6 {
		cols = g.width - 6
	}

	pointAt := func(x int) TimePoint {
		index := int(float64(x) / float64(cols) * float64(len(points)-1))
		if index >= len(points) {
			index = len(points) - 1
		}
		return points[index]
	}

	// Chair rows, fullest chair on top
	for chair := capacity; chair >= 1; chair-- {
		sb.WriteString(fmt.Sprintf("%3d |", chair))
		for x := 0; x < cols; x++ {
			if pointAt(x).Waiting >= chair {
				sb.WriteString("█")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	// Barber chair row
	sb.WriteString("cut |")
	for x := 0; x < cols; x++ {
		if pointAt(x).Cutting {
			sb.WriteString("█")
		} else {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("\n")

	sb.WriteString("    +")
	sb.WriteString(strings.Repeat("-", cols))
	sb.WriteString("\n")

	sb.WriteString("\n")
	sb.WriteString("Legend:\n")
	sb.WriteString(fmt.Sprintf("  Chair rows (1-%d): █ - occupied, (space) - free\n", capacity))
	sb.WriteString("  cut row: █ - barber cutting\n")
	sb.WriteString("\n")

	return sb.String()
}

// GenerateSummary generates the closing statistics of a run
func (g *Generator) GenerateSummary(agg simulation.Aggregates, totalCustomers int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Run Summary\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Total Customers: %d\n", totalCustomers))
	sb.WriteString(fmt.Sprintf("  - Served: %d\n", agg.Served))
	sb.WriteString(fmt.Sprintf("  - Balked: %d\n", agg.Balked))
	if agg.Served > 0 {
		sb.WriteString(fmt.Sprintf("  - Average Wait: %s\n", FormatDuration(agg.AvgWait)))
		sb.WriteString(fmt.Sprintf("  - Average Haircut: %s\n", FormatDuration(agg.AvgService)))
	}
	sb.WriteString("\n")

	return sb.String()
}

// GenerateDetailedTimeline generates a detailed timeline of events
func (g *Generator) GenerateDetailedTimeline(events []simulation.Event, limit int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Detailed Timeline")
	if limit > 0 && limit < len(events) {
		sb.WriteString(fmt.Sprintf(" (showing first %d events)", limit))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	displayCount := len(events)
	if limit > 0 && limit < displayCount {
		displayCount = limit
	}

	for i := 0; i < displayCount; i++ {
		event := events[i]
		timestamp := event.Time.Format("15:04:05.000")

		typeIcon := " "
		switch event.Type {
		case simulation.EventCustomerArrived:
			typeIcon = "A"
		case simulation.EventCustomerAdmitted:
			typeIcon = "+"
		case simulation.EventCustomerBalked:
			typeIcon = "B"
		case simulation.EventServiceStarted:
			typeIcon = ">"
		case simulation.EventServiceEnded:
			typeIcon = "-"
		case simulation.EventBarberStateChange:
			typeIcon = "*"
		case simulation.EventSimulationEnded:
			typeIcon = "="
		}

		sb.WriteString(fmt.Sprintf("[%s] %s %s\n", timestamp, typeIcon, event.Message))
	}

	if limit > 0 && limit < len(events) {
		sb.WriteString(fmt.Sprintf("\n... and %d more events\n", len(events)-limit))
	}

	sb.WriteString("\n")

	return sb.String()
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
