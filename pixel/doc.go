// Package pixel implements the 1-bit color used by monochrome OLED panels.
//
// [Mono] and [MonoModel] are compatible with Go's native [color.Color] and [color.Model]
// interfaces, so a panel framebuffer can be used as a [image/draw.Image].
package pixel
