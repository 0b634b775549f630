package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"bd1-manipulator/internal/bd1"
	"bd1-manipulator/internal/manipulator"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print the texture table and block summary",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "blocks", Usage: "print every block"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("inspect: need at least one file")
			}
			for _, path := range c.Args().Slice() {
				m, err := manipulator.Load(path)
				if err != nil {
					return err
				}
				printSummary(path, m, c.Bool("blocks"))
			}
			return nil
		},
	}
}

func printSummary(path string, m *manipulator.Manipulator, blocks bool) {
	enabled := 0
	for _, b := range m.Blocks {
		if b.Enabled {
			enabled++
		}
	}
	fmt.Printf("\n=== %s (blocks=%d enabled=%d) ===\n", path, len(m.Blocks), enabled)

	fmt.Println("--- textures ---")
	for i := 0; i < bd1.TextureSlots; i++ {
		if name, ok := m.Textures.Slot(i); ok && name != "" {
			fmt.Printf("  [%d] %s\n", i, name)
		}
	}

	if len(m.Blocks) > 0 {
		lo, hi := m.Bounds()
		fmt.Printf("bbox min=(%.2f,%.2f,%.2f) max=(%.2f,%.2f,%.2f)\n",
			lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
	}

	if !blocks {
		return
	}
	fmt.Println("--- blocks ---")
	for i, b := range m.Blocks {
		v0 := b.Vertices[0]
		fmt.Printf("  Block[%d]: enabled=%t tex=%v v0=(%.2f,%.2f,%.2f) uv0=%s\n",
			i, b.Enabled, b.TextureIDs, v0[0], v0[1], v0[2], b.UVs[0])
	}
}
