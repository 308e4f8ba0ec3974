//go:build !ebiten

package gui

import "context"

// Run reports ErrNoWindow: this build has no window support.
func Run(context.Context, Options) error {
	return ErrNoWindow
}
