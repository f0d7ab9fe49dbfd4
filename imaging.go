package ocl

import "github.com/go-ocl/oclcpu/workgroup"

// ChannelOrder mirrors the cl_channel_order subset this module supports:
// which of an image's channels are present and in what order. Defined in
// the workgroup package since get_image_channel_order is part of the
// built-in dispatch surface a kernel calls directly; this is an alias for
// host code that only needs the data-layout description.
type ChannelOrder = workgroup.ChannelOrder

const (
	ChannelRGBA = workgroup.ChannelRGBA
	ChannelRGB  = workgroup.ChannelRGB
	ChannelRG   = workgroup.ChannelRG
	ChannelR    = workgroup.ChannelR
	ChannelA    = workgroup.ChannelA
)

// ChannelType mirrors the cl_channel_type subset this module supports: how
// each channel is stored in memory.
type ChannelType = workgroup.ChannelType

const (
	ChannelFloat32    = workgroup.ChannelFloat32
	ChannelSNormInt8  = workgroup.ChannelSNormInt8
	ChannelSNormInt16 = workgroup.ChannelSNormInt16
	ChannelUNormInt8  = workgroup.ChannelUNormInt8
	ChannelUNormInt16 = workgroup.ChannelUNormInt16
)

// ImageFormat describes an image's per-pixel layout, the Go equivalent of
// cl_image_format.
type ImageFormat = workgroup.ImageFormat

// Image wraps a device allocation as a bound image argument: the host-side
// handle a caller builds before passing it to a kernel via Kernel.SetArg.
// The kernel itself only ever sees the *workgroup.ImageRef through the
// get_image_*/read_imagef/write_imagef built-ins, never this wrapper.
//
// The backing storage comes from the same MemoryPool as a plain buffer
// allocated through Malloc, so image memory is cache-line aligned, counted
// against the pool's allocation stats, and reused through the free list on
// Free like any other device allocation.
type Image struct {
	ref *workgroup.ImageRef
	ptr DevicePtr
}

// NewImage allocates a pool-backed image of the given format and
// dimensions, ready to bind as a kernel argument. Call Free when done with
// it to return the backing allocation to the pool.
func NewImage(format ImageFormat, width, height int) (*Image, error) {
	stride := format.BytesPerPixel()
	size := stride * width * height
	ptr, err := Malloc(size)
	if err != nil {
		return nil, err
	}
	return &Image{
		ref: &workgroup.ImageRef{
			Format: format,
			Width:  width,
			Height: height,
			Data:   ptr.Byte(),
		},
		ptr: ptr,
	}, nil
}

// Free returns the image's backing allocation to the pool it came from.
func (img *Image) Free() error {
	return Free(img.ptr)
}

// Bytes exposes the image's backing storage for host-side initialization
// or readback.
func (img *Image) Bytes() []byte { return img.ref.Data }

// Ref returns the bound image argument a kernel's NativeFunc passes to the
// get_image_*/read_imagef/write_imagef built-ins.
func (img *Image) Ref() *workgroup.ImageRef { return img.ref }

// ConvertPixel writes px's four normalized float32 components into dst in
// f's channel type, returning the number of bytes written. dst must have
// room for f.BytesPerPixel() bytes; only that many are written.
func ConvertPixel(px [4]float32, f ImageFormat, dst []byte) int {
	return workgroup.ConvertPixel(px, f, dst)
}
