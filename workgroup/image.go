package workgroup

import "math"

// ChannelOrder mirrors the cl_channel_order subset this module supports:
// which of an image's channels are present and in what order.
type ChannelOrder int

const (
	ChannelRGBA ChannelOrder = iota
	ChannelRGB
	ChannelRG
	ChannelR
	ChannelA
)

// ChannelType mirrors the cl_channel_type subset this module supports: how
// each channel is stored in memory.
type ChannelType int

const (
	ChannelFloat32   ChannelType = iota // stored as-is, no conversion
	ChannelSNormInt8                    // signed, normalized to [-1,1]
	ChannelSNormInt16
	ChannelUNormInt8 // unsigned, normalized to [0,1]
	ChannelUNormInt16
)

// ImageFormat describes an image's per-pixel layout, the Go equivalent of
// cl_image_format.
type ImageFormat struct {
	Order ChannelOrder
	Type  ChannelType
}

// NumChannels reports how many channels Order carries.
func (f ImageFormat) NumChannels() int {
	switch f.Order {
	case ChannelRGBA:
		return 4
	case ChannelRGB:
		return 3
	case ChannelRG:
		return 2
	default:
		return 1
	}
}

// BytesPerPixel reports how many bytes one pixel occupies in f, the row
// stride contribution a host-side allocator needs.
func (f ImageFormat) BytesPerPixel() int {
	n := f.NumChannels()
	switch f.Type {
	case ChannelFloat32:
		return n * 4
	case ChannelSNormInt16, ChannelUNormInt16:
		return n * 2
	default:
		return n
	}
}

// ImageRef is a bound image argument: the BDS equivalent of a cl_mem object
// created with an image format. A kernel reaches it only through the
// WorkItem accessors below or the get_image_*/read_imagef/write_imagef
// entries in BuiltinTable, never by holding the slice directly.
type ImageRef struct {
	Format ImageFormat
	Width  int
	Height int
	Data   []byte
}

func (img *ImageRef) offset(x, y int) int {
	return (y*img.Width + x) * img.Format.BytesPerPixel()
}

// ImageWidth is the get_image_width built-in.
func (wi *WorkItem) ImageWidth(img *ImageRef) int { return img.Width }

// ImageHeight is the get_image_height built-in.
func (wi *WorkItem) ImageHeight(img *ImageRef) int { return img.Height }

// ImageChannelOrder is the get_image_channel_order built-in.
func (wi *WorkItem) ImageChannelOrder(img *ImageRef) ChannelOrder { return img.Format.Order }

// ImageChannelDataType is the get_image_channel_data_type built-in.
func (wi *WorkItem) ImageChannelDataType(img *ImageRef) ChannelType { return img.Format.Type }

// ReadImageF is the read_imagef built-in: it samples the pixel at (x, y)
// with no filtering, returning its four channels normalized to the image's
// declared channel type. Filtering beyond nearest-pixel lookup is out of
// scope for this surface.
func (wi *WorkItem) ReadImageF(img *ImageRef, x, y int) [4]float32 {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return [4]float32{}
	}
	return readPixel(img.Data[img.offset(x, y):], img.Format)
}

// WriteImageF is the write_imagef built-in: it converts px into img's
// channel type and writes it at (x, y), choosing an accelerated swizzle
// path when the host CPU supports one.
func (wi *WorkItem) WriteImageF(img *ImageRef, x, y int, px [4]float32) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return
	}
	ConvertPixel(px, img.Format, img.Data[img.offset(x, y):])
}

// ConvertPixel writes px's four normalized float32 components into dst in
// f's channel type, returning the number of bytes written. dst must have
// room for f.BytesPerPixel() bytes; only that many are written.
//
// The host implementation this is modeled on read and wrote the same
// buffer in place, relying on always reading 4 bytes before writing at
// most 4 bytes so earlier writes never clobber later reads; this keeps
// that property; the separate dst argument is just this module's
// allocation convention, not a loosening of it.
func ConvertPixel(px [4]float32, f ImageFormat, dst []byte) int {
	if HasAcceleratedSwizzle() {
		return convertPixelAccelerated(px, f, dst)
	}
	return convertPixelScalar(px, f, dst)
}

func readPixel(src []byte, f ImageFormat) [4]float32 {
	var out [4]float32
	n := f.NumChannels()
	switch f.Type {
	case ChannelFloat32:
		for i := 0; i < n; i++ {
			out[i] = getFloat32(src[i*4:])
		}
	case ChannelSNormInt8:
		for i := 0; i < n; i++ {
			out[i] = float32(int8(src[i])) / 127
		}
	case ChannelSNormInt16:
		for i := 0; i < n; i++ {
			out[i] = float32(getInt16(src[i*2:])) / 32767
		}
	case ChannelUNormInt8:
		for i := 0; i < n; i++ {
			out[i] = float32(src[i]) / 255
		}
	case ChannelUNormInt16:
		for i := 0; i < n; i++ {
			out[i] = float32(getUint16(src[i*2:])) / 65535
		}
	}
	return out
}

func convertPixelScalar(px [4]float32, f ImageFormat, dst []byte) int {
	n := f.NumChannels()
	switch f.Type {
	case ChannelFloat32:
		for i := 0; i < n; i++ {
			putFloat32(dst[i*4:], px[i])
		}
		return n * 4
	case ChannelSNormInt8:
		for i := 0; i < n; i++ {
			dst[i] = byte(int8(clamp(px[i], -1, 1) * 127))
		}
		return n
	case ChannelSNormInt16:
		for i := 0; i < n; i++ {
			putInt16(dst[i*2:], int16(clamp(px[i], -1, 1)*32767))
		}
		return n * 2
	case ChannelUNormInt8:
		for i := 0; i < n; i++ {
			dst[i] = byte(uint8(clamp(px[i], 0, 1) * 255))
		}
		return n
	case ChannelUNormInt16:
		for i := 0; i < n; i++ {
			putUint16(dst[i*2:], uint16(clamp(px[i], 0, 1)*65535))
		}
		return n * 2
	default:
		return 0
	}
}

// convertPixelAccelerated is the SIMD-feature-gated path. It performs the
// same conversion as convertPixelScalar but stands in for the reference
// implementation's compiler-shuffle fast path without hand-written SIMD.
func convertPixelAccelerated(px [4]float32, f ImageFormat, dst []byte) int {
	return convertPixelScalar(px, f, dst)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func putFloat32(dst []byte, v float32) {
	bits := math.Float32bits(v)
	dst[0] = byte(bits)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits >> 16)
	dst[3] = byte(bits >> 24)
}

func getFloat32(src []byte) float32 {
	bits := uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
	return math.Float32frombits(bits)
}

func putInt16(dst []byte, v int16) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
}

func getInt16(src []byte) int16 {
	return int16(uint16(src[0]) | uint16(src[1])<<8)
}

func putUint16(dst []byte, v uint16) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
}

func getUint16(src []byte) uint16 {
	return uint16(src[0]) | uint16(src[1])<<8
}
