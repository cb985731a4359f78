// Command qmapcontrol-llar builds and packages the QMapControl library
// from its recipe.
package main

import "github.com/studiofuga/qmapcontrol-llar/cmd/qmapcontrol-llar/internal"

func main() {
	internal.Execute()
}
