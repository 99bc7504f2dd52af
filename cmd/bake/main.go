// Command bake writes a scene's TLAS instances and material/sphere
// storage buffers to a standalone file, for inspecting what a GPU frame
// submission would upload without running the renderer.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/simpala/grinder-trace/pkg/gpurenderer"
	"github.com/simpala/grinder-trace/pkg/scene"
)

func main() {
	scenePath := flag.String("scene", "", "path to scene .rscn file")
	outFile := flag.String("out", "frame.bin", "output baked resource file")
	flag.Parse()

	if *scenePath == "" {
		fmt.Println("Usage: bake --scene <path.rscn> [--out frame.bin]")
		os.Exit(1)
	}

	s, err := scene.Load(*scenePath)
	if err != nil {
		fmt.Printf("Error loading scene: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Baking scene: %s\n", *scenePath)
	instanceCount, err := gpurenderer.BakeToFile(*outFile, s)
	if err != nil {
		fmt.Printf("Error during bake: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Bake complete: %d TLAS instances written to %s\n", instanceCount, *outFile)

	size, err := gpurenderer.VerifyFile(*outFile)
	if err != nil {
		fmt.Printf("Error during verification: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Verification complete: %d bytes readable via mmap.\n", size)
}
