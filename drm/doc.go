// Package drm implements the Linux Direct Rendering Manager adjustment method.
//
// The method has a single site. Its partitions are the graphics cards under
// /dev/dri, and the CRTCs are the mode setting CRTCs of each card. Opening a
// card usually requires membership of the video group; a *gamma.GroupError
// names the group when access is denied.
//
// The package registers itself for [gamma.DRM] on Linux and is empty on
// other platforms.
package drm
