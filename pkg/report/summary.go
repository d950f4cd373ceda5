package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/dd0wney/cluso-linkcom/pkg/linkcom"
)

// Summary describes the shape of a clustering result.
type Summary struct {
	Threshold float64
	Nodes     int
	Edges     int
	Clusters  int
	// OneEdge counts clusters holding a single edge.
	OneEdge int

	MeanEdges   float64
	StdDevEdges float64
	MeanNodes   float64
	LargestEdge int // edge count of the largest cluster

	// OverlappingNodes are nodes that belong to more than one cluster.
	OverlappingNodes int
	MaxMemberships   int

	Density linkcom.DensityReport
}

// Summarize computes cluster size statistics for res.
func Summarize(res *linkcom.Result) Summary {
	s := Summary{
		Threshold: res.Threshold,
		Nodes:     res.Stats.Nodes,
		Edges:     res.Stats.Edges,
		Clusters:  len(res.Clusters),
		Density:   res.Density,
	}
	if s.Clusters == 0 {
		return s
	}

	edges := make([]float64, s.Clusters)
	nodes := make([]float64, s.Clusters)
	for i, c := range res.Clusters {
		edges[i] = float64(c.EdgeCount())
		nodes[i] = float64(c.NodeCount())
		if c.EdgeCount() == 1 {
			s.OneEdge++
		}
	}

	s.MeanEdges = stat.Mean(edges, nil)
	s.MeanNodes = stat.Mean(nodes, nil)
	if s.Clusters > 1 {
		s.StdDevEdges = stat.StdDev(edges, nil)
	}
	s.LargestEdge = int(floats.Max(edges))

	for _, m := range res.Memberships() {
		if m > 1 {
			s.OverlappingNodes++
		}
		if m > s.MaxMemberships {
			s.MaxMemberships = m
		}
	}
	return s
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			Width(28)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1)
)

// Render formats a summary for the terminal.
func Render(s Summary) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}
	density := func(d linkcom.Density) string {
		if !d.Applicable {
			return mutedStyle.Render(d.String())
		}
		return d.String()
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf("Link communities at threshold %g", s.Threshold)),
		row("Nodes", fmt.Sprint(s.Nodes)),
		row("Edges", fmt.Sprint(s.Edges)),
		row("Clusters", fmt.Sprintf("%d (%d one-edge)", s.Clusters, s.OneEdge)),
		row("Edges per cluster", fmt.Sprintf("%.2f ± %.2f (max %d)", s.MeanEdges, s.StdDevEdges, s.LargestEdge)),
		row("Nodes per cluster", fmt.Sprintf("%.2f", s.MeanNodes)),
		row("Overlapping nodes", fmt.Sprintf("%d (max %d clusters)", s.OverlappingNodes, s.MaxMemberships)),
		row("Partition density", density(s.Density.PartitionDensity)),
		row("Excluding one-edge clusters", density(s.Density.ExcludingSingletons)),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// RenderSweep formats the points of a threshold sweep, marking the best one.
func RenderSweep(res *linkcom.SweepResult) string {
	lines := []string{titleStyle.Render("Threshold sweep")}
	for i, p := range res.Points {
		marker := " "
		if i == res.Best {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %-10s %-12s %d clusters",
			marker,
			fmt.Sprintf("%.4f", p.Threshold),
			p.Density.PartitionDensity,
			p.Clusters,
		))
	}
	if res.Best < 0 {
		lines = append(lines, mutedStyle.Render("no threshold produced an applicable partition density"))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
