// Package viz renders well hydraulics in the terminal.
//
//   - [Explorer]: Bubble Tea model to tune SICD emulsion parameters and pipe
//     roughness and watch the correlations respond
//   - [EmulsionPlot], [FrictionPlot], [ProfilePlot]: asciigraph charts used by
//     the CLI
//   - [Summary]: lipgloss table of solved wells
//
// # Key Bindings
//
//	Tab   - Cycle parameters
//	Up/K  - Increase parameter (+5%)
//	Down/J - Decrease parameter (-5%)
//	V     - Toggle emulsion / friction view
//	R     - Reset parameters
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
