// ABOUTME: Version constants for the chime engine
// ABOUTME: Single place for product identification strings
package version

const (
	// Version is the library version
	Version = "0.1.0"

	// Product is the product name
	Product = "Chime"

	// Manufacturer identifies who ships this build
	Manufacturer = "Chime Audio"
)
