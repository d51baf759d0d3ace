package composer

// EditingSurface is the narrow interface the engine sees of the third-party
// visual editing surface. The surface's lifecycle is host-controlled and
// asynchronous: Ready may be false for an arbitrary time after the editor
// mounts, and every consumer must gate on it rather than poll internals.
type EditingSurface interface {
	// Ready reports whether the surface has finished its multi-step
	// initialization and can accept imports.
	Ready() bool

	// ExportMarkup returns the current markup of the surface without any
	// embedded style block.
	ExportMarkup() (string, error)

	// ExportStylesheet returns the surface's style model as CSS text.
	ExportStylesheet() (string, error)

	// ExportStructure returns the component tree and style rules of the
	// surface's structural model, or (nil, nil, nil) when the surface does
	// not support structural export.
	ExportStructure() (*Tree, []*StyleRule, error)

	// ImportMarkup replaces surface content from markup plus a separate
	// stylesheet (the markup-only path).
	ImportMarkup(markup, stylesheet string) error

	// ImportStructure replaces surface content from a structural tree,
	// which also restores the matching stylesheet.
	ImportStructure(tree *Tree, rules []*StyleRule) error

	// Assets returns the surface's current asset list.
	Assets() []AssetRef

	// SetAssets replaces the surface's asset list wholesale.
	SetAssets(assets []AssetRef)

	// RemoveAsset drops one asset from the surface's asset list by URL.
	RemoveAsset(url string)
}
