package workgroup

// BuiltinNames lists every symbol the dispatch surface resolves, in the
// order a generated kernel module would expect to link them.
var BuiltinNames = []string{
	"get_work_dim",
	"get_global_size",
	"get_global_id",
	"get_local_size",
	"get_local_id",
	"get_num_groups",
	"get_group_id",
	"get_global_offset",
	"barrier",
	"get_image_width",
	"get_image_height",
	"get_image_channel_order",
	"get_image_channel_data_type",
	"read_imagef",
	"write_imagef",
}

// BuiltinTable returns the name-to-function table a kernel module links
// against, bound to wi. Binding happens once per work-item rather than
// being resolved through thread-local storage at call time: the closures
// below are what "reading the thread-local" becomes once the work-group is
// passed explicitly instead of carried in ambient state.
func BuiltinTable(wi *WorkItem) map[string]interface{} {
	return map[string]interface{}{
		"get_work_dim":                func() uint32 { return wi.WorkDim() },
		"get_global_size":             func(d uint32) uint64 { return wi.GlobalSize(d) },
		"get_global_id":               func(d uint32) uint64 { return wi.GlobalID(d) },
		"get_local_size":              func(d uint32) uint64 { return wi.LocalSize(d) },
		"get_local_id":                func(d uint32) uint64 { return wi.LocalID(d) },
		"get_num_groups":              func(d uint32) uint64 { return wi.NumGroups(d) },
		"get_group_id":                func(d uint32) uint64 { return wi.GroupID(d) },
		"get_global_offset":           func(d uint32) uint64 { return wi.GlobalOffset(d) },
		"barrier":                     func() error { return wi.Barrier() },
		"get_image_width":             func(img *ImageRef) int { return wi.ImageWidth(img) },
		"get_image_height":            func(img *ImageRef) int { return wi.ImageHeight(img) },
		"get_image_channel_order":     func(img *ImageRef) ChannelOrder { return wi.ImageChannelOrder(img) },
		"get_image_channel_data_type": func(img *ImageRef) ChannelType { return wi.ImageChannelDataType(img) },
		"read_imagef":                 func(img *ImageRef, x, y int) [4]float32 { return wi.ReadImageF(img, x, y) },
		"write_imagef":                func(img *ImageRef, x, y int, px [4]float32) { wi.WriteImageF(img, x, y, px) },
	}
}

// Dispatch looks up name in wi's built-in table. It exists for callers that
// only have a symbol name at hand (e.g. a generic code generator), rather
// than calling the WorkItem methods directly. An unknown name logs a
// diagnostic naming the missing built-in and the kernel, then returns a
// benign no-op stub rather than failing the work-item, so development can
// continue while the missing surface area is visible in the log.
func Dispatch(wi *WorkItem, name string) (interface{}, error) {
	fn, ok := BuiltinTable(wi)[name]
	if !ok {
		diagLog.Printf("kernel %q: unknown built-in %q requested", wi.KernelName(), name)
		return func(...interface{}) {}, nil
	}
	return fn, nil
}
