package assets

// AssetLoader defines the contract for loading preview page styles.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// StyleNames lists the available style names, sorted.
	StyleNames() []string
}

// DefaultStyleName is the name of the built-in preview style.
const DefaultStyleName = "default"
