//go:build !ebiten

package ui

// HUD keeps the panel state in headless builds; nothing is drawn.
type HUD struct {
	*Panel
}

// NewHUD returns a HUD that only tracks src.
func NewHUD(src Source, width int) *HUD { return &HUD{Panel: NewPanel(src, width)} }

// Update refreshes the cached snapshot.
func (h *HUD) Update(int) { h.Refresh() }

// Draw does nothing without a window.
func (h *HUD) Draw(any, int, int) {}

// Overlay has no guides to draw in headless builds.
type Overlay struct{}

// NewOverlay returns an inert overlay.
func NewOverlay() *Overlay { return &Overlay{} }

// Update does nothing without keyboard input.
func (o *Overlay) Update() {}

// Draw does nothing without a window.
func (o *Overlay) Draw(any, int) {}
