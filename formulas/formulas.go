// Package formulas embeds the recipes shipped with qmapcontrol-llar.
package formulas

import "embed"

// FS holds every recipe directory, laid out as <owner>/<repo>/.
//
//go:embed studiofuga
var FS embed.FS

// Main is the module path of the recipe this repository ships.
const Main = "studiofuga/QMapControl"
