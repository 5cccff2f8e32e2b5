package ffi

import "github.com/1broseidon/winbridge/internal/platform"

func (b *Bridge) AttributesNew() Handle {
	return b.attributes.Box(platform.DefaultWindowAttributes())
}

func (b *Bridge) AttributesRelease(h Handle) {
	_ = b.attributes.Release(h)
}

func (b *Bridge) updateAttributes(h Handle, fn func(platform.WindowAttributes) platform.WindowAttributes) bool {
	return b.attributes.Update(h, fn) == nil
}

func (b *Bridge) AttributesWithTitle(h Handle, title string) bool {
	return b.updateAttributes(h, func(a platform.WindowAttributes) platform.WindowAttributes {
		return a.WithTitle(title)
	})
}

func (b *Bridge) AttributesWithDecorations(h Handle, v bool) bool {
	return b.updateAttributes(h, func(a platform.WindowAttributes) platform.WindowAttributes {
		return a.WithDecorations(v)
	})
}

func (b *Bridge) AttributesWithTransparency(h Handle, v bool) bool {
	return b.updateAttributes(h, func(a platform.WindowAttributes) platform.WindowAttributes {
		return a.WithTransparent(v)
	})
}

func (b *Bridge) AttributesWithResizable(h Handle, v bool) bool {
	return b.updateAttributes(h, func(a platform.WindowAttributes) platform.WindowAttributes {
		return a.WithResizable(v)
	})
}

// AttributesWithDimensions sets the logical surface size.
func (b *Bridge) AttributesWithDimensions(h Handle, width, height float64) bool {
	return b.updateAttributes(h, func(a platform.WindowAttributes) platform.WindowAttributes {
		return a.WithSurfaceSize(platform.LogicalSize{Width: width, Height: height})
	})
}

func (b *Bridge) AttributesWithMaximized(h Handle, v bool) bool {
	return b.updateAttributes(h, func(a platform.WindowAttributes) platform.WindowAttributes {
		return a.WithMaximized(v)
	})
}

func (b *Bridge) AttributesWithVisibility(h Handle, v bool) bool {
	return b.updateAttributes(h, func(a platform.WindowAttributes) platform.WindowAttributes {
		return a.WithVisible(v)
	})
}

func (b *Bridge) AttributesWithAlwaysOnTop(h Handle, v bool) bool {
	return b.updateAttributes(h, func(a platform.WindowAttributes) platform.WindowAttributes {
		return a.WithAlwaysOnTop(v)
	})
}

func (b *Bridge) AttributesWithFullSize(h Handle, v bool) bool {
	return b.updateAttributes(h, func(a platform.WindowAttributes) platform.WindowAttributes {
		return a.WithFullSize(v)
	})
}
