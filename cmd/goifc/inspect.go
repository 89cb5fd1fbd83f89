package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goifc/pkg/analysis"
	"github.com/philipparndt/goifc/pkg/stl"
)

var inspectColors int

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Display statistics of a converted STL mesh",
	Long:  "Show dimensions, triangle count, surface area, edge statistics and the facet colours of an STL file written by convert.",
	Args:  cobra.ExactArgs(1),
	Run:   runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().IntVar(&inspectColors, "colors", 8, "Number of facet colours to list")
}

func runInspect(cmd *cobra.Command, args []string) {
	filename := args[0]

	model, err := stl.Parse(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing STL file: %v\n", err)
		os.Exit(1)
	}

	result := analysis.Measure(model)

	fmt.Println("STL Mesh Information")
	fmt.Println("====================")
	if model.Name != "" {
		fmt.Printf("Name: %s\n", model.Name)
	}
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Mesh Statistics:")
	fmt.Printf("  Triangles: %d\n", result.TriangleCount)
	fmt.Printf("  Surface Area: %.6f m²\n\n", result.SurfaceArea)

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("  Dimensions: %s\n\n", analysis.FormatVector(result.Dimensions))

	fmt.Println("Edge Lengths:")
	fmt.Printf("  Minimum: %.6f m\n", result.MinEdgeLength)
	fmt.Printf("  Maximum: %.6f m\n", result.MaxEdgeLength)
	fmt.Printf("  Average: %.6f m\n", result.AvgEdgeLength)

	if result.Colors == nil {
		fmt.Println("\nNo facet colours")
		return
	}

	fmt.Printf("\nFacet Colours (%d distinct):\n", len(result.Colors))
	for i, c := range result.Colors {
		if i == inspectColors {
			fmt.Printf("  ... %d more\n", len(result.Colors)-i)
			break
		}
		fmt.Printf("  %s  %d\n", analysis.FormatColor(c.Color), c.Count)
	}
}
