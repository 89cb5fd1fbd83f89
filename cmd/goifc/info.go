package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goifc/internal/appearance"
	"github.com/philipparndt/goifc/pkg/ifc"
)

var infoTop int

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display entity and appearance information about an IFC file",
	Long:  "Show the schema, entity counts, colour and texture index sizes and how the appearance of each element resolves.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().IntVar(&infoTop, "top", 10, "Number of entity types to list")
}

func runInfo(cmd *cobra.Command, args []string) {
	filename := args[0]

	model, err := ifc.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing IFC file: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("IFC File Information")
	fmt.Println("====================")
	fmt.Printf("File: %s\n", filename)
	fmt.Printf("Schema: %s\n", model.Schema())
	fmt.Printf("Length unit: %g m\n\n", model.LengthScale())

	fmt.Println("Entities:")
	fmt.Printf("  Instances: %d\n", model.File.Len())
	if model.File.Skipped > 0 {
		fmt.Printf("  Complex instances skipped: %d\n", model.File.Skipped)
	}
	for _, tc := range topTypes(model.File.CountByType(), infoTop) {
		fmt.Printf("  %-32s %d\n", tc.name, tc.count)
	}
	fmt.Println()

	colors, err := appearance.BuildColorIndex(model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	textures, err := appearance.BuildTextureIndex(model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	fmt.Println("Appearance Indices:")
	fmt.Printf("  Colours: %d\n", colors.Len())
	fmt.Printf("  Textures: %d\n\n", textures.Len())

	elements, err := model.Elements()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error enumerating elements: %v\n", err)
		os.Exit(1)
	}

	resolver := appearance.NewResolver(colors, textures)
	kinds := make(map[appearance.Kind]int)
	for _, e := range elements {
		kinds[resolver.Resolve(e).Kind]++
	}

	fmt.Println("Elements:")
	fmt.Printf("  With shape: %d\n", len(elements))
	for _, k := range []appearance.Kind{appearance.Color, appearance.Texture, appearance.None} {
		fmt.Printf("  %s: %d\n", k, kinds[k])
	}
}

type typeCount struct {
	name  string
	count int
}

// topTypes returns the n most frequent entity types, ties ordered by name
func topTypes(counts map[string]int, n int) []typeCount {
	out := make([]typeCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, typeCount{name: name, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
