// Command oclrun runs a small vector-add NDRange launch against the CPU
// work-group executor and reports how long it took.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/go-ocl/oclcpu"
	"github.com/go-ocl/oclcpu/workgroup"
)

func main() {
	n := flag.Int("n", 1<<20, "number of elements")
	localSize := flag.Int("local", 256, "work-group size")
	workers := flag.Int("workers", 0, "worker pool size (0 = NumCPU)")
	flag.Parse()

	device := ocl.NewCPUDevice(*workers)
	defer device.Close()
	ctx := ocl.NewContext(device)
	defer ctx.Destroy()

	log.Printf("device: %s", device.Info())

	a, err := ctx.Malloc(*n * 4)
	if err != nil {
		log.Fatalf("Malloc a: %v", err)
	}
	b, err := ctx.Malloc(*n * 4)
	if err != nil {
		log.Fatalf("Malloc b: %v", err)
	}
	c, err := ctx.Malloc(*n * 4)
	if err != nil {
		log.Fatalf("Malloc c: %v", err)
	}
	defer ctx.Free(a)
	defer ctx.Free(b)
	defer ctx.Free(c)

	af, bf := a.Float32(), b.Float32()
	for i := range af {
		af[i] = float32(i)
		bf[i] = float32(2 * i)
	}

	prog := ocl.NewProgram("vecadd")
	kernel := prog.AddKernel("add", func(wi *workgroup.WorkItem, args []ocl.Arg) {
		i := wi.GlobalID(0)
		if i >= uint64(*n) {
			return // padding work-item past the end of the vectors
		}
		x := args[0].Value.(ocl.DevicePtr).Float32()
		y := args[1].Value.(ocl.DevicePtr).Float32()
		z := args[2].Value.(ocl.DevicePtr).Float32()
		z[i] = x[i] + y[i]
	})
	kernel.SetArg(0, a, 0)
	kernel.SetArg(1, b, 0)
	kernel.SetArg(2, c, 0)

	global := ((*n + *localSize - 1) / *localSize) * *localSize

	start := time.Now()
	ev, err := ctx.LaunchKernel(kernel, 1, workgroup.Vec{uint64(global)}, workgroup.Vec{uint64(*localSize)}, workgroup.Vec{})
	if err != nil {
		log.Fatalf("LaunchKernel: %v", err)
	}
	if err := ev.Wait(); err != nil {
		log.Fatalf("kernel execution: %v", err)
	}
	elapsed := time.Since(start)

	cf := c.Float32()
	fmt.Printf("n=%d elapsed=%s c[0]=%v c[n-1]=%v\n", *n, elapsed, cf[0], cf[*n-1])
}
